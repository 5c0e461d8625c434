package domain

import "time"

// EnvironmentRecord is one sensor reading from a school's growing
// environment. Numeric fields use NaN for values missing in the source
// file; aggregation excludes NaN from both sum and count.
type EnvironmentRecord struct {
	School      SchoolID  `json:"school"`
	Timestamp   time.Time `json:"time"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	PH          float64   `json:"ph"`
	EC          float64   `json:"ec"` // measured EC, may drift from the setpoint
}

// EnvironmentDataset is one school's readings ordered by timestamp
// ascending. It is immutable after load; derived views copy.
type EnvironmentDataset struct {
	School  SchoolID            `json:"school"`
	Records []EnvironmentRecord `json:"records"`
}

// Len returns the number of readings in the dataset.
func (d *EnvironmentDataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// Span returns the first and last timestamps of the series. The second
// return is false for an empty dataset.
func (d *EnvironmentDataset) Span() (start, end time.Time, ok bool) {
	if d.Len() == 0 {
		return time.Time{}, time.Time{}, false
	}
	return d.Records[0].Timestamp, d.Records[len(d.Records)-1].Timestamp, true
}
