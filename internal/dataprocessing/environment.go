package dataprocessing

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"growlab/internal/files"
	"growlab/pkg/contracts/domain"
)

// timestampLayouts are the time formats accepted in the environment CSV,
// tried in order. The sensor export writes the first form.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"2006-01-02",
}

// Loader reads the experiment datasets from the data directory.
type Loader struct {
	dataDir        string
	envSuffix      string
	growthWorkbook string
	schools        *domain.SchoolSet
	logger         *slog.Logger
}

// NewLoader creates a loader for one data directory and school set.
func NewLoader(dataDir, envSuffix, growthWorkbook string, schools *domain.SchoolSet, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		dataDir:        dataDir,
		envSuffix:      envSuffix,
		growthWorkbook: growthWorkbook,
		schools:        schools,
		logger:         logger.With(slog.String("component", "loader")),
	}
}

// EnvironmentBatch is the result of loading every school's environment
// file: successful datasets plus the per-school failures. A missing or
// malformed file for one school never aborts the others.
type EnvironmentBatch struct {
	Datasets map[domain.SchoolID]*domain.EnvironmentDataset
	Failures map[domain.SchoolID]error
}

// LoadEnvironment loads one school's environment CSV. The expected file
// name is the school display name plus the configured suffix; resolution
// tolerates Unicode normalization mismatches. Every row's time value must
// parse or the whole dataset load fails.
func (l *Loader) LoadEnvironment(ctx context.Context, school domain.SchoolID) (*domain.EnvironmentDataset, error) {
	if !l.schools.Contains(school) {
		return nil, fmt.Errorf("unknown school: %s", school)
	}

	name := string(school) + l.envSuffix
	path, err := files.Resolve(l.dataDir, name)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &FileNotFoundError{School: school, Name: name}
	}

	records, err := l.parseEnvironmentCSV(path, school)
	if err != nil {
		return nil, err
	}

	// Consumed as a time series downstream; enforce the ordering invariant
	// instead of trusting the export.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})

	l.logger.InfoContext(ctx, "environment dataset loaded",
		slog.String("school", string(school)),
		slog.Int("rows", len(records)))

	return &domain.EnvironmentDataset{School: school, Records: records}, nil
}

// LoadAllEnvironments loads the environment dataset of every configured
// school. Failed schools are reported in Failures and omitted from
// Datasets; the batch itself only errors when the context is cancelled.
func (l *Loader) LoadAllEnvironments(ctx context.Context) (*EnvironmentBatch, error) {
	batch := &EnvironmentBatch{
		Datasets: make(map[domain.SchoolID]*domain.EnvironmentDataset),
		Failures: make(map[domain.SchoolID]error),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for _, school := range l.schools.All() {
		g.Go(func() error {
			ds, err := l.LoadEnvironment(gctx, school.ID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				l.logger.WarnContext(gctx, "environment dataset failed",
					slog.String("school", string(school.ID)),
					slog.String("error", err.Error()))
				batch.Failures[school.ID] = err
				return nil
			}
			batch.Datasets[school.ID] = ds
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return batch, nil
}

// parseEnvironmentCSV reads one environment file into records tagged with
// the school.
func (l *Loader) parseEnvironmentCSV(path string, school domain.SchoolID) ([]domain.EnvironmentRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: empty file", path)
	}

	header := rows[0]
	if len(header) > 0 {
		// Excel-style exports prefix the first header cell with a UTF-8 BOM.
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"time", "temperature", "humidity", "ph", "ec"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%s: missing required column %q", path, required)
		}
	}

	records := make([]domain.EnvironmentRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, counting the header

		if isBlankRow(row) {
			continue
		}

		ts, err := parseTimestamp(cell(row, cols["time"]))
		if err != nil {
			return nil, &TimestampError{File: path, Row: rowNum, Value: cell(row, cols["time"])}
		}

		rec := domain.EnvironmentRecord{School: school, Timestamp: ts}
		for _, field := range []struct {
			name string
			dst  *float64
		}{
			{"temperature", &rec.Temperature},
			{"humidity", &rec.Humidity},
			{"ph", &rec.PH},
			{"ec", &rec.EC},
		} {
			v, err := parseNumericCell(cell(row, cols[field.name]))
			if err != nil {
				return nil, &ParseError{File: path, Row: rowNum, Column: field.name, Value: cell(row, cols[field.name])}
			}
			*field.dst = v
		}

		records = append(records, rec)
	}

	return records, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

// parseNumericCell parses a sensor value. Empty and placeholder cells are
// missing data and become NaN so aggregation can exclude them; anything
// else must be a number.
func parseNumericCell(value string) (float64, error) {
	switch value {
	case "", "-", "NA", "NaN", "nan":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
}
