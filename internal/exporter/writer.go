package exporter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"growlab/internal/config"
)

// ReportWriter persists encoded artifacts under the reports directory.
type ReportWriter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewReportWriter creates a report writer.
func NewReportWriter(paths *config.Paths, logger *slog.Logger) *ReportWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportWriter{
		paths:  paths,
		logger: logger.With(slog.String("component", "report_writer")),
	}
}

// WriteReport writes encoded bytes to <reports>/<name>.
func (w *ReportWriter) WriteReport(name string, data []byte) error {
	fullPath := w.paths.ReportPath(name)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("create reports directory: %w", err)
	}

	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", name, err)
	}

	w.logger.Info("report written",
		slog.String("name", name),
		slog.String("path", fullPath),
		slog.Int("bytes", len(data)))
	return nil
}

// WriteJSONReport marshals v with indentation and writes it as a report.
func (w *ReportWriter) WriteJSONReport(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report %s: %w", name, err)
	}
	return w.WriteReport(name, append(data, '\n'))
}
