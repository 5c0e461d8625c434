package domain

import (
	"encoding/json"
	"math"
)

// nullableFloat renders NaN as JSON null. encoding/json rejects NaN
// outright, and the missing-data convention must survive serialization.
func nullableFloat(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// MarshalJSON emits null for missing (NaN) sensor values.
func (r EnvironmentRecord) MarshalJSON() ([]byte, error) {
	type alias struct {
		School      SchoolID `json:"school"`
		Timestamp   string   `json:"time"`
		Temperature *float64 `json:"temperature"`
		Humidity    *float64 `json:"humidity"`
		PH          *float64 `json:"ph"`
		EC          *float64 `json:"ec"`
	}
	return json.Marshal(alias{
		School:      r.School,
		Timestamp:   r.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
		Temperature: nullableFloat(r.Temperature),
		Humidity:    nullableFloat(r.Humidity),
		PH:          nullableFloat(r.PH),
		EC:          nullableFloat(r.EC),
	})
}

// MarshalJSON emits null for missing (NaN) measurements.
func (r GrowthRecord) MarshalJSON() ([]byte, error) {
	type alias struct {
		School           SchoolID          `json:"school"`
		TargetEC         float64           `json:"target_ec"`
		ECKnown          bool              `json:"ec_known"`
		FreshWeightGrams *float64          `json:"fresh_weight_g"`
		LeafCount        *float64          `json:"leaf_count"`
		ShootLengthMm    *float64          `json:"shoot_length_mm"`
		Extra            map[string]string `json:"extra,omitempty"`
	}
	return json.Marshal(alias{
		School:           r.School,
		TargetEC:         r.TargetEC,
		ECKnown:          r.ECKnown,
		FreshWeightGrams: nullableFloat(r.FreshWeightGrams),
		LeafCount:        nullableFloat(r.LeafCount),
		ShootLengthMm:    nullableFloat(r.ShootLengthMm),
		Extra:            r.Extra,
	})
}
