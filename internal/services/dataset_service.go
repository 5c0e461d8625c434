package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/singleflight"

	"growlab/internal/dataprocessing"
	"growlab/internal/infrastructure"
	"growlab/pkg/contracts/domain"
)

// Loader funcs are injectable so tests can count and stall loads.
type (
	environmentLoaderFunc func(ctx context.Context) (*dataprocessing.EnvironmentBatch, error)
	growthLoaderFunc      func(ctx context.Context) (*domain.GrowthTable, error)
)

// DatasetService provides memoized access to the experiment datasets.
// Each dataset key ("environments", "growth") is loaded from disk at most
// once, even under concurrent first access: later concurrent callers wait
// for and share the in-flight result. Load failures are not cached, so a
// fixed data directory is picked up on the next request. Results are
// immutable once cached; Invalidate discards them.
type DatasetService struct {
	logger  *slog.Logger
	schools *domain.SchoolSet
	metrics *infrastructure.Metrics

	loadEnvironments environmentLoaderFunc
	loadGrowth       growthLoaderFunc

	sf singleflight.Group

	mu       sync.RWMutex
	envBatch *dataprocessing.EnvironmentBatch
	growth   *domain.GrowthTable
}

// NewDatasetService creates the dataset service on top of a loader.
// metrics may be nil.
func NewDatasetService(loader *dataprocessing.Loader, schools *domain.SchoolSet, logger *slog.Logger, metrics *infrastructure.Metrics) *DatasetService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DatasetService{
		logger:           logger.With(slog.String("component", "dataset_service")),
		schools:          schools,
		metrics:          metrics,
		loadEnvironments: loader.LoadAllEnvironments,
		loadGrowth:       loader.LoadGrowth,
	}
}

// Schools returns the configured school set.
func (s *DatasetService) Schools() *domain.SchoolSet {
	return s.schools
}

// Environments returns every successfully loaded environment dataset plus
// the per-school load failures. The batch is loaded once and reused.
func (s *DatasetService) Environments(ctx context.Context) (*dataprocessing.EnvironmentBatch, error) {
	s.mu.RLock()
	cached := s.envBatch
	s.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	v, err, shared := s.sf.Do("environments", func() (interface{}, error) {
		// Re-check: an earlier flight may have populated the cache between
		// the read above and entering the flight.
		s.mu.RLock()
		cached := s.envBatch
		s.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}

		start := time.Now()
		batch, err := s.loadEnvironments(ctx)
		s.recordLoad(ctx, "environments", start, err)
		if err != nil {
			return nil, err
		}
		if s.metrics != nil {
			var rows int64
			for _, ds := range batch.Datasets {
				rows += int64(ds.Len())
			}
			s.metrics.DatasetRowsLoaded.Add(ctx, rows,
				metric.WithAttributes(attribute.String("dataset", "environments")))
		}

		s.mu.Lock()
		s.envBatch = batch
		s.mu.Unlock()
		return batch, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.DebugContext(ctx, "environment load shared with concurrent caller")
	}
	return v.(*dataprocessing.EnvironmentBatch), nil
}

// Environment returns one school's dataset from the memoized batch. A
// school whose load failed returns that failure.
func (s *DatasetService) Environment(ctx context.Context, school domain.SchoolID) (*domain.EnvironmentDataset, error) {
	batch, err := s.Environments(ctx)
	if err != nil {
		return nil, err
	}

	if ds, ok := batch.Datasets[school]; ok {
		return ds, nil
	}
	if loadErr, ok := batch.Failures[school]; ok {
		return nil, loadErr
	}
	return nil, &dataprocessing.FileNotFoundError{School: school, Name: string(school)}
}

// Growth returns the memoized growth table, loading it on first use.
func (s *DatasetService) Growth(ctx context.Context) (*domain.GrowthTable, error) {
	s.mu.RLock()
	cached := s.growth
	s.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	v, err, _ := s.sf.Do("growth", func() (interface{}, error) {
		s.mu.RLock()
		cached := s.growth
		s.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}

		start := time.Now()
		table, err := s.loadGrowth(ctx)
		s.recordLoad(ctx, "growth", start, err)
		if err != nil {
			return nil, err
		}
		if s.metrics != nil {
			s.metrics.DatasetRowsLoaded.Add(ctx, int64(table.Len()),
				metric.WithAttributes(attribute.String("dataset", "growth")))
		}

		s.mu.Lock()
		s.growth = table
		s.mu.Unlock()
		return table, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.GrowthTable), nil
}

// Invalidate discards the cached datasets so the next request re-reads the
// files.
func (s *DatasetService) Invalidate(ctx context.Context) {
	s.mu.Lock()
	s.envBatch = nil
	s.growth = nil
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.CacheInvalidations.Add(ctx, 1)
	}
	s.logger.InfoContext(ctx, "dataset cache invalidated")
}

// Usable reports whether at least one data source yielded rows. When it
// returns false the reporting pipeline must halt rather than render on
// nothing.
func (s *DatasetService) Usable(ctx context.Context) bool {
	envOK := false
	if batch, err := s.Environments(ctx); err == nil && len(batch.Datasets) > 0 {
		envOK = true
	}

	growthOK := false
	if table, err := s.Growth(ctx); err == nil && table.Len() > 0 {
		growthOK = true
	}

	return envOK || growthOK
}

func (s *DatasetService) recordLoad(ctx context.Context, dataset string, start time.Time, err error) {
	elapsed := time.Since(start)

	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	if s.metrics != nil {
		s.metrics.DatasetLoadsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("dataset", dataset),
			attribute.String("outcome", outcome),
		))
		s.metrics.DatasetLoadDuration.Record(ctx, elapsed.Seconds(),
			metric.WithAttributes(attribute.String("dataset", dataset)))
	}

	s.logger.InfoContext(ctx, "dataset load finished",
		slog.String("dataset", dataset),
		slog.String("outcome", outcome),
		slog.Duration("elapsed", elapsed))
}
