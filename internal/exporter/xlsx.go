package exporter

import (
	"fmt"
	"math"
	"sort"

	"github.com/xuri/excelize/v2"

	"growlab/pkg/contracts/domain"
)

// growthSheetHeader mirrors the measured columns of the source workbook.
var growthSheetHeader = []interface{}{"생중량(g)", "잎 수(장)", "지상부 길이(mm)"}

// EncodeGrowthWorkbook serializes the growth table back into an XLSX
// workbook with one sheet per school, mirroring the input layout. Sheets
// appear in row order; unmatched schools get sheets too, so nothing is
// silently dropped on a round trip.
func EncodeGrowthWorkbook(table *domain.GrowthTable) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	bySchool := make(map[domain.SchoolID][]domain.GrowthRecord)
	order := make([]domain.SchoolID, 0)
	for _, rec := range table.Rows {
		if _, seen := bySchool[rec.School]; !seen {
			order = append(order, rec.School)
		}
		bySchool[rec.School] = append(bySchool[rec.School], rec)
	}

	for i, school := range order {
		sheet := string(school)
		if i == 0 {
			f.SetSheetName(f.GetSheetName(0), sheet)
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, fmt.Errorf("create sheet %q: %w", sheet, err)
			}
		}

		rows := bySchool[school]
		extraCols := collectExtraColumns(rows)

		header := append(append([]interface{}{}, growthSheetHeader...), extraCols...)
		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			return nil, fmt.Errorf("write header on %q: %w", sheet, err)
		}

		for rowIdx, rec := range rows {
			cells := []interface{}{
				xlsxCell(rec.FreshWeightGrams),
				xlsxCell(rec.LeafCount),
				xlsxCell(rec.ShootLengthMm),
			}
			for _, col := range extraCols {
				cells = append(cells, rec.Extra[col.(string)])
			}
			axis, err := excelize.CoordinatesToCellName(1, rowIdx+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetSheetRow(sheet, axis, &cells); err != nil {
				return nil, fmt.Errorf("write row %d on %q: %w", rowIdx+2, sheet, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// collectExtraColumns returns the union of passthrough column names across
// the rows, sorted for a stable sheet layout.
func collectExtraColumns(rows []domain.GrowthRecord) []interface{} {
	seen := make(map[string]struct{})
	for _, rec := range rows {
		for col := range rec.Extra {
			seen[col] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for col := range seen {
		names = append(names, col)
	}
	sort.Strings(names)

	cols := make([]interface{}, len(names))
	for i, n := range names {
		cols[i] = n
	}
	return cols
}

// xlsxCell renders a measurement; NaN becomes an empty cell.
func xlsxCell(v float64) interface{} {
	if math.IsNaN(v) {
		return ""
	}
	return v
}
