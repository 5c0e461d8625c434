package domain

// Growth metric identifiers accepted by the summary API. They map to the
// measured columns of the growth workbook.
const (
	MetricFreshWeight = "fresh_weight"
	MetricLeafCount   = "leaf_count"
	MetricShootLength = "shoot_length"
)

// GrowthMetrics lists the known growth metrics in reporting order.
var GrowthMetrics = []string{MetricFreshWeight, MetricLeafCount, MetricShootLength}

// GrowthRecord is one plant measurement row from the growth workbook.
// TargetEC is joined from the school configuration at load time and is
// never stored in the source data. ECKnown is false when the row came from
// a sheet whose name matches no configured school; such rows are kept but
// excluded from EC-grouped aggregation.
type GrowthRecord struct {
	School           SchoolID          `json:"school"`
	TargetEC         float64           `json:"target_ec"`
	ECKnown          bool              `json:"ec_known"`
	FreshWeightGrams float64           `json:"fresh_weight_g"`
	LeafCount        float64           `json:"leaf_count"`
	ShootLengthMm    float64           `json:"shoot_length_mm"`
	Extra            map[string]string `json:"extra,omitempty"` // passthrough columns, verbatim
}

// Metric returns the named measurement from the record. Unknown metric
// names return false.
func (r GrowthRecord) Metric(name string) (float64, bool) {
	switch name {
	case MetricFreshWeight:
		return r.FreshWeightGrams, true
	case MetricLeafCount:
		return r.LeafCount, true
	case MetricShootLength:
		return r.ShootLengthMm, true
	default:
		return 0, false
	}
}

// GrowthTable is the consolidated cross-school growth dataset: every
// sheet's rows concatenated in sheet order. UnknownSheets records workbook
// sheets whose names matched no configured school, so callers can surface
// the data-quality problem instead of silently dropping it.
type GrowthTable struct {
	Rows          []GrowthRecord `json:"rows"`
	UnknownSheets []string       `json:"unknown_sheets,omitempty"`
}

// Len returns the number of rows in the table.
func (t *GrowthTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// KnownECRows returns the rows whose school resolved to a configured EC
// setpoint. The returned slice is a copy.
func (t *GrowthTable) KnownECRows() []GrowthRecord {
	rows := make([]GrowthRecord, 0, len(t.Rows))
	for _, r := range t.Rows {
		if r.ECKnown {
			rows = append(rows, r)
		}
	}
	return rows
}
