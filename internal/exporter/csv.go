package exporter

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"growlab/internal/services"
	"growlab/pkg/contracts/domain"
)

// EncodeEnvironmentCSV serializes one school's sensor readings. The output
// carries a UTF-8 BOM and mirrors the source file's column order.
func EncodeEnvironmentCSV(ds *domain.EnvironmentDataset) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"time", "temperature", "humidity", "ph", "ec"}); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, rec := range ds.Records {
		row := []string{
			formatTimestamp(rec.Timestamp),
			formatFloat(rec.Temperature),
			formatFloat(rec.Humidity),
			formatFloat(rec.PH),
			formatFloat(rec.EC),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write record %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeGrowthCSV serializes the consolidated growth table. Rows from
// unmatched sheets keep their measurements but get an empty target_ec cell.
func EncodeGrowthCSV(table *domain.GrowthTable) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	header := []string{"school", "target_ec", "fresh_weight_g", "leaf_count", "shoot_length_mm"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, rec := range table.Rows {
		targetEC := ""
		if rec.ECKnown {
			targetEC = formatFloat(rec.TargetEC)
		}
		row := []string{
			string(rec.School),
			targetEC,
			formatFloat(rec.FreshWeightGrams),
			formatFloat(rec.LeafCount),
			formatFloat(rec.ShootLengthMm),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write record %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeGrowthSummaryCSV serializes one metric's per-EC breakdown, ordered
// by ascending EC setpoint.
func EncodeGrowthSummaryCSV(summary *services.ECSummary) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"metric", "target_ec", "mean", "count"}); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for _, g := range summary.Groups {
		row := []string{
			summary.Metric,
			formatFloat(g.TargetEC),
			formatFloat(g.Mean),
			formatInt(g.Count),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write group ec=%s: %w", formatFloat(g.TargetEC), err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
