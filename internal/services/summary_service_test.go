package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growlab/internal/dataprocessing"
	"growlab/pkg/contracts/domain"
)

func newTestSummaryService(t *testing.T) *SummaryService {
	t.Helper()
	datasets := newTestDatasetService(t,
		func(ctx context.Context) (*dataprocessing.EnvironmentBatch, error) {
			return testEnvBatch(), nil
		},
		func(ctx context.Context) (*domain.GrowthTable, error) {
			return testGrowthTable(), nil
		},
	)
	return NewSummaryService(datasets, nil)
}

func TestGrowthSummaryGroupsByECAscending(t *testing.T) {
	svc := newTestSummaryService(t)

	summary, err := svc.GrowthSummary(context.Background(), domain.MetricFreshWeight)
	require.NoError(t, err)

	require.Len(t, summary.Groups, 4)
	assert.Equal(t, domain.MetricFreshWeight, summary.Metric)

	assert.Equal(t, 1.0, summary.Groups[0].TargetEC)
	assert.InDelta(t, 10.2, summary.Groups[0].Mean, 1e-9)
	assert.Equal(t, 2, summary.Groups[0].Count)

	assert.Equal(t, 2.0, summary.Groups[1].TargetEC)
	assert.InDelta(t, 15.7, summary.Groups[1].Mean, 1e-9)

	assert.Equal(t, 4.0, summary.Groups[2].TargetEC)
	assert.Equal(t, 8.0, summary.Groups[3].TargetEC)

	assert.Equal(t, []string{"테스트동"}, summary.UnknownSheets)
}

func TestGrowthSummaryExcludesNaNFromMeanAndCount(t *testing.T) {
	svc := newTestSummaryService(t)

	// 아라고's shoot length is NaN; its EC group must drop out of the means
	// entirely because it has no usable value.
	summary, err := svc.GrowthSummary(context.Background(), domain.MetricShootLength)
	require.NoError(t, err)

	ecs := make([]float64, 0, len(summary.Groups))
	for _, g := range summary.Groups {
		ecs = append(ecs, g.TargetEC)
	}
	assert.Equal(t, []float64{1.0, 2.0, 8.0}, ecs)
}

func TestGrowthSummaryUnknownMetric(t *testing.T) {
	svc := newTestSummaryService(t)

	_, err := svc.GrowthSummary(context.Background(), "root_depth")
	require.ErrorIs(t, err, ErrUnknownMetric)
}

func TestOptimalECPicksGreatestMean(t *testing.T) {
	svc := newTestSummaryService(t)

	opt, err := svc.OptimalEC(context.Background(), domain.MetricFreshWeight)
	require.NoError(t, err)

	assert.Equal(t, 2.0, opt.TargetEC)
	assert.InDelta(t, 15.7, opt.Mean, 1e-9)
	assert.Equal(t, domain.MetricFreshWeight, opt.Metric)
}

func TestOptimalECNoUsableValues(t *testing.T) {
	datasets := newTestDatasetService(t,
		func(ctx context.Context) (*dataprocessing.EnvironmentBatch, error) {
			return testEnvBatch(), nil
		},
		func(ctx context.Context) (*domain.GrowthTable, error) {
			// Only an unmatched sheet's rows, so no EC-grouped values exist.
			return &domain.GrowthTable{
				Rows: []domain.GrowthRecord{
					{School: "테스트동", ECKnown: false, FreshWeightGrams: 5},
				},
				UnknownSheets: []string{"테스트동"},
			}, nil
		},
	)
	svc := NewSummaryService(datasets, nil)

	_, err := svc.OptimalEC(context.Background(), domain.MetricFreshWeight)
	require.ErrorIs(t, err, dataprocessing.ErrNoData)
}

func TestEnvironmentSummaryMeans(t *testing.T) {
	svc := newTestSummaryService(t)

	summary, err := svc.EnvironmentSummary(context.Background())
	require.NoError(t, err)

	require.Len(t, summary.Overall, 4)
	byColumn := make(map[string]float64, len(summary.Overall))
	for _, cm := range summary.Overall {
		byColumn[cm.Column] = cm.Mean
	}
	assert.InDelta(t, (21.5+22.5+23.0)/3, byColumn["temperature"], 1e-9)
	assert.InDelta(t, (1.1+0.9+2.1)/3, byColumn["ec"], 1e-9)

	// Per-school entries follow ascending target EC; the failed school is
	// absent from the breakdown and listed in FailedSchools.
	require.Len(t, summary.PerSchool, 2)
	assert.Equal(t, domain.SchoolID("송도고"), summary.PerSchool[0].School)
	assert.Equal(t, 2, summary.PerSchool[0].Readings)
	assert.Equal(t, domain.SchoolID("하늘고"), summary.PerSchool[1].School)

	require.Contains(t, summary.FailedSchools, "동산고")
}

func TestSummariesHaltWhenNothingLoads(t *testing.T) {
	datasets := newTestDatasetService(t,
		func(ctx context.Context) (*dataprocessing.EnvironmentBatch, error) {
			return &dataprocessing.EnvironmentBatch{
				Datasets: map[domain.SchoolID]*domain.EnvironmentDataset{},
				Failures: map[domain.SchoolID]error{},
			}, nil
		},
		func(ctx context.Context) (*domain.GrowthTable, error) {
			return nil, dataprocessing.ErrEmptyWorkbook
		},
	)
	svc := NewSummaryService(datasets, nil)
	ctx := context.Background()

	_, err := svc.GrowthSummary(ctx, domain.MetricFreshWeight)
	require.ErrorIs(t, err, ErrNoUsableData)

	_, err = svc.EnvironmentSummary(ctx)
	require.ErrorIs(t, err, ErrNoUsableData)

	_, err = svc.OptimalEC(ctx, domain.MetricLeafCount)
	require.ErrorIs(t, err, ErrNoUsableData)
}
