package http

import (
	"context"

	"growlab/internal/dataprocessing"
	"growlab/internal/services"
	"growlab/pkg/contracts/domain"
)

// DataServiceInterface is the dataset access surface the handlers need.
// *services.DatasetService satisfies it; tests substitute stubs.
type DataServiceInterface interface {
	Environments(ctx context.Context) (*dataprocessing.EnvironmentBatch, error)
	Environment(ctx context.Context, school domain.SchoolID) (*domain.EnvironmentDataset, error)
	Growth(ctx context.Context) (*domain.GrowthTable, error)
	Invalidate(ctx context.Context)
	Usable(ctx context.Context) bool
	Schools() *domain.SchoolSet
}

// SummaryServiceInterface is the aggregation surface the handlers need.
// *services.SummaryService satisfies it.
type SummaryServiceInterface interface {
	GrowthSummary(ctx context.Context, metric string) (*services.ECSummary, error)
	OptimalEC(ctx context.Context, metric string) (*services.OptimalEC, error)
	EnvironmentSummary(ctx context.Context) (*services.EnvironmentSummary, error)
}
