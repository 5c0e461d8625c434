// Command report loads the experiment datasets once and writes the summary
// artifacts to the reports directory: per-EC growth means for every metric,
// the optimal EC per metric, and the environment overview.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"growlab/internal/config"
	"growlab/internal/dataprocessing"
	"growlab/internal/exporter"
	"growlab/internal/infrastructure"
	"growlab/internal/services"
	"growlab/pkg/contracts/domain"
)

func main() {
	dataDir := flag.String("data", "", "data directory (defaults to the configured one)")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall time budget for loading and reporting")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	paths, err := config.ResolvePaths(cfg)
	if err != nil {
		logger.Error("failed to resolve paths", "error", err)
		os.Exit(1)
	}
	if *dataDir != "" {
		paths.DataDir = *dataDir
	}
	if err := paths.EnsureDirectories(); err != nil {
		logger.Error("failed to ensure directories", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, cfg, paths, logger); err != nil {
		logger.Error("report generation failed", "error", err)
		os.Exit(1)
	}
	logger.Info("report generation complete", "reports_dir", paths.ReportsDir)
}

func run(ctx context.Context, cfg *config.Config, paths *config.Paths, logger *slog.Logger) error {
	schools := cfg.SchoolSet()
	loader := dataprocessing.NewLoader(
		paths.DataDir,
		cfg.Data.EnvironmentSuffix,
		cfg.Data.GrowthWorkbook,
		schools,
		logger,
	)
	datasets := services.NewDatasetService(loader, schools, logger, nil)
	summaries := services.NewSummaryService(datasets, logger)
	writer := exporter.NewReportWriter(paths, logger)

	if !datasets.Usable(ctx) {
		return services.ErrNoUsableData
	}

	// Per-EC growth means, one CSV per metric.
	for _, metric := range domain.GrowthMetrics {
		summary, err := summaries.GrowthSummary(ctx, metric)
		if err != nil {
			return fmt.Errorf("growth summary for %s: %w", metric, err)
		}
		data, err := exporter.EncodeGrowthSummaryCSV(summary)
		if err != nil {
			return fmt.Errorf("encode growth summary for %s: %w", metric, err)
		}
		if err := writer.WriteReport(fmt.Sprintf("growth_summary_%s.csv", metric), data); err != nil {
			return err
		}
		if len(summary.UnknownSheets) > 0 {
			logger.Warn("workbook sheets matched no configured school",
				"sheets", summary.UnknownSheets)
		}
	}

	// Optimal EC per metric. A metric with no usable values is reported as
	// absent rather than failing the run.
	optimal := make(map[string]*services.OptimalEC, len(domain.GrowthMetrics))
	for _, metric := range domain.GrowthMetrics {
		best, err := summaries.OptimalEC(ctx, metric)
		if err != nil {
			if errors.Is(err, dataprocessing.ErrNoData) {
				logger.Warn("no usable values for metric", "metric", metric)
				continue
			}
			return fmt.Errorf("optimal EC for %s: %w", metric, err)
		}
		optimal[metric] = best
	}
	if err := writer.WriteJSONReport("optimal_ec.json", optimal); err != nil {
		return err
	}

	envSummary, err := summaries.EnvironmentSummary(ctx)
	if err != nil {
		return fmt.Errorf("environment summary: %w", err)
	}
	if err := writer.WriteJSONReport("environment_summary.json", envSummary); err != nil {
		return err
	}

	return nil
}
