package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"growlab/internal/dataprocessing"
	"growlab/pkg/contracts/domain"
)

// ECGroup is one EC setpoint's aggregate for a single growth metric.
type ECGroup struct {
	TargetEC float64 `json:"target_ec"`
	Mean     float64 `json:"mean"`
	Count    int     `json:"count"`
}

// ECSummary is the per-setpoint breakdown of one growth metric, ordered by
// ascending EC. UnknownSheets carries workbook sheets that matched no
// configured school so the caller can flag them.
type ECSummary struct {
	Metric        string    `json:"metric"`
	Groups        []ECGroup `json:"groups"`
	UnknownSheets []string  `json:"unknown_sheets,omitempty"`
}

// OptimalEC names the EC setpoint with the greatest mean for a metric.
type OptimalEC struct {
	Metric   string  `json:"metric"`
	TargetEC float64 `json:"target_ec"`
	Mean     float64 `json:"mean"`
}

// ColumnMean is one environment column's mean. Columns whose values were
// all missing are omitted from summaries rather than serialized as NaN.
type ColumnMean struct {
	Column string  `json:"column"`
	Mean   float64 `json:"mean"`
}

// SchoolEnvironmentMeans is one school's environment column means plus its
// reading count.
type SchoolEnvironmentMeans struct {
	School   domain.SchoolID `json:"school"`
	TargetEC float64         `json:"target_ec"`
	Readings int             `json:"readings"`
	Means    []ColumnMean    `json:"means"`
}

// EnvironmentSummary describes every loaded environment dataset: overall
// column means across all schools and a per-school breakdown. Schools whose
// files failed to load are listed with the failure message.
type EnvironmentSummary struct {
	Overall       []ColumnMean             `json:"overall"`
	PerSchool     []SchoolEnvironmentMeans `json:"per_school"`
	FailedSchools map[string]string        `json:"failed_schools,omitempty"`
}

// environmentColumns maps summary column names to record accessors, in
// reporting order.
var environmentColumns = []struct {
	name  string
	value func(domain.EnvironmentRecord) float64
}{
	{"temperature", func(r domain.EnvironmentRecord) float64 { return r.Temperature }},
	{"humidity", func(r domain.EnvironmentRecord) float64 { return r.Humidity }},
	{"ph", func(r domain.EnvironmentRecord) float64 { return r.PH }},
	{"ec", func(r domain.EnvironmentRecord) float64 { return r.EC }},
}

// SummaryService computes the descriptive statistics the dashboard shows.
// It reads through DatasetService, so every summary reflects the memoized
// datasets.
type SummaryService struct {
	datasets *DatasetService
	logger   *slog.Logger
}

// NewSummaryService creates the summary service.
func NewSummaryService(datasets *DatasetService, logger *slog.Logger) *SummaryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SummaryService{
		datasets: datasets,
		logger:   logger.With(slog.String("component", "summary_service")),
	}
}

// GrowthSummary groups the named metric by EC setpoint and returns the
// per-setpoint mean and sample count, ascending by EC. Rows from unmatched
// sheets are excluded from the grouping but their sheet names are surfaced.
func (s *SummaryService) GrowthSummary(ctx context.Context, metricName string) (*ECSummary, error) {
	value, err := metricAccessor(metricName)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUsable(ctx); err != nil {
		return nil, err
	}

	table, err := s.datasets.Growth(ctx)
	if err != nil {
		return nil, err
	}

	rows := table.KnownECRows()
	byEC := func(r domain.GrowthRecord) float64 { return r.TargetEC }
	means := dataprocessing.MeanBy(rows, byEC, value)
	counts := dataprocessing.CountBy(rows, byEC)

	groups := make([]ECGroup, 0, len(means))
	for ec, mean := range means {
		groups = append(groups, ECGroup{TargetEC: ec, Mean: mean, Count: counts[ec]})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].TargetEC < groups[j].TargetEC })

	return &ECSummary{
		Metric:        metricName,
		Groups:        groups,
		UnknownSheets: table.UnknownSheets,
	}, nil
}

// OptimalEC returns the EC setpoint with the strictly greatest mean for the
// named metric. Ties resolve to the lowest qualifying setpoint. A table
// with no usable values for the metric yields dataprocessing.ErrNoData.
func (s *SummaryService) OptimalEC(ctx context.Context, metricName string) (*OptimalEC, error) {
	value, err := metricAccessor(metricName)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUsable(ctx); err != nil {
		return nil, err
	}

	table, err := s.datasets.Growth(ctx)
	if err != nil {
		return nil, err
	}

	means := dataprocessing.MeanBy(table.KnownECRows(),
		func(r domain.GrowthRecord) float64 { return r.TargetEC }, value)

	best, err := dataprocessing.ArgMax(means)
	if err != nil {
		return nil, err
	}

	return &OptimalEC{
		Metric:   metricName,
		TargetEC: best,
		Mean:     means[best],
	}, nil
}

// EnvironmentSummary computes overall and per-school means for every
// environment column. Columns with no usable values are omitted instead of
// reported as NaN.
func (s *SummaryService) EnvironmentSummary(ctx context.Context) (*EnvironmentSummary, error) {
	if err := s.ensureUsable(ctx); err != nil {
		return nil, err
	}

	batch, err := s.datasets.Environments(ctx)
	if err != nil {
		return nil, err
	}

	summary := &EnvironmentSummary{}

	groups := make([][]domain.EnvironmentRecord, 0, len(batch.Datasets))
	for _, ds := range batch.Datasets {
		groups = append(groups, ds.Records)
	}
	for _, col := range environmentColumns {
		mean := dataprocessing.OverallMean(groups, col.value)
		if math.IsNaN(mean) {
			continue
		}
		summary.Overall = append(summary.Overall, ColumnMean{Column: col.name, Mean: mean})
	}

	for _, school := range s.datasets.Schools().All() {
		ds, ok := batch.Datasets[school.ID]
		if !ok {
			continue
		}
		perSchool := SchoolEnvironmentMeans{
			School:   school.ID,
			TargetEC: school.TargetEC,
			Readings: ds.Len(),
		}
		for _, col := range environmentColumns {
			mean := dataprocessing.OverallMean([][]domain.EnvironmentRecord{ds.Records}, col.value)
			if math.IsNaN(mean) {
				continue
			}
			perSchool.Means = append(perSchool.Means, ColumnMean{Column: col.name, Mean: mean})
		}
		summary.PerSchool = append(summary.PerSchool, perSchool)
	}

	if len(batch.Failures) > 0 {
		summary.FailedSchools = make(map[string]string, len(batch.Failures))
		for id, loadErr := range batch.Failures {
			summary.FailedSchools[string(id)] = loadErr.Error()
		}
	}

	return summary, nil
}

// ensureUsable halts summarization when neither data source produced rows.
// Partial availability is fine; individual summaries still surface their
// own dataset's failure.
func (s *SummaryService) ensureUsable(ctx context.Context) error {
	if !s.datasets.Usable(ctx) {
		return ErrNoUsableData
	}
	return nil
}

func metricAccessor(name string) (func(domain.GrowthRecord) float64, error) {
	probe := domain.GrowthRecord{}
	if _, ok := probe.Metric(name); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, name)
	}
	return func(r domain.GrowthRecord) float64 {
		v, _ := r.Metric(name)
		return v
	}, nil
}
