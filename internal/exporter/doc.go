// Package exporter serializes the loaded datasets and their summaries into
// downloadable CSV and XLSX artifacts. Encoders are pure functions over the
// domain tables; ReportWriter persists encoded bytes under the reports
// directory for the report CLI.
package exporter
