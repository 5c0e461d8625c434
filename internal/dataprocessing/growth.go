package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/xuri/excelize/v2"

	"growlab/internal/files"
	"growlab/pkg/contracts/domain"
)

// growthColumns maps workbook header fragments to the typed metric fields.
// Headers in the source sheets are Korean with unit suffixes, e.g.
// 생중량(g), 잎 수(장), 지상부 길이(mm).
var growthColumns = []struct {
	metric   string
	fragment string
}{
	{domain.MetricFreshWeight, "생중량"},
	{domain.MetricLeafCount, "잎"},
	{domain.MetricShootLength, "지상부"},
}

// LoadGrowth loads the growth workbook and consolidates its per-school
// sheets into one table. The workbook is single-sourced, so a missing file
// is fatal to the whole table, unlike per-school environment files. Sheet
// names are matched against the configured schools after NFC
// normalization; rows from unmatched sheets are kept with ECKnown=false
// and the sheet names are reported in the result.
func (l *Loader) LoadGrowth(ctx context.Context) (*domain.GrowthTable, error) {
	path, err := files.Resolve(l.dataDir, l.growthWorkbook)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &FileNotFoundError{Name: l.growthWorkbook}
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	table := &domain.GrowthTable{}

	for _, sheet := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s of %s: %w", sheet, path, err)
		}

		school := domain.SchoolID(files.Normalize(strings.TrimSpace(sheet)))
		targetEC, known := l.schools.TargetEC(school)
		if !known {
			l.logger.WarnContext(ctx, "workbook sheet matches no configured school",
				slog.String("sheet", sheet))
			table.UnknownSheets = append(table.UnknownSheets, sheet)
		}

		records, err := l.parseGrowthSheet(path, sheet, rows, school, targetEC, known)
		if err != nil {
			return nil, err
		}
		table.Rows = append(table.Rows, records...)
	}

	if table.Len() == 0 {
		return nil, ErrEmptyWorkbook
	}

	l.logger.InfoContext(ctx, "growth table loaded",
		slog.Int("rows", table.Len()),
		slog.Int("unknown_sheets", len(table.UnknownSheets)))

	return table, nil
}

// parseGrowthSheet turns one sheet's rows into growth records. The first
// non-blank row is the header; metric columns are matched by header
// fragment and every other column is carried verbatim in Extra.
func (l *Loader) parseGrowthSheet(path, sheet string, rows [][]string, school domain.SchoolID, targetEC float64, known bool) ([]domain.GrowthRecord, error) {
	headerIdx := -1
	for i, row := range rows {
		if !isBlankRow(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		return nil, nil // sheet has no content at all
	}

	header := rows[headerIdx]
	metricCols := make(map[string]int, len(growthColumns))
	var extraCols []int
	for i, h := range header {
		name := files.Normalize(strings.TrimSpace(h))
		if name == "" {
			continue
		}
		matched := false
		for _, gc := range growthColumns {
			if _, taken := metricCols[gc.metric]; !taken && strings.Contains(name, gc.fragment) {
				metricCols[gc.metric] = i
				matched = true
				break
			}
		}
		if !matched {
			extraCols = append(extraCols, i)
		}
	}

	var records []domain.GrowthRecord
	for i, row := range rows[headerIdx+1:] {
		rowNum := headerIdx + i + 2 // 1-based sheet row

		if isBlankRow(row) {
			continue
		}

		rec := domain.GrowthRecord{
			School:           school,
			TargetEC:         targetEC,
			ECKnown:          known,
			FreshWeightGrams: math.NaN(),
			LeafCount:        math.NaN(),
			ShootLengthMm:    math.NaN(),
		}

		for metric, col := range metricCols {
			v, err := parseNumericCell(cell(row, col))
			if err != nil {
				return nil, &ParseError{
					File:   path,
					Sheet:  sheet,
					Row:    rowNum,
					Column: cell(header, col),
					Value:  cell(row, col),
				}
			}
			switch metric {
			case domain.MetricFreshWeight:
				rec.FreshWeightGrams = v
			case domain.MetricLeafCount:
				rec.LeafCount = v
			case domain.MetricShootLength:
				rec.ShootLengthMm = v
			}
		}

		for _, col := range extraCols {
			if v := cell(row, col); v != "" {
				if rec.Extra == nil {
					rec.Extra = make(map[string]string)
				}
				rec.Extra[files.Normalize(strings.TrimSpace(cell(header, col)))] = v
			}
		}

		records = append(records, rec)
	}

	return records, nil
}
