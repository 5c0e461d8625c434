package exporter

import (
	"math"
	"strconv"
	"time"
)

// utf8BOM prefixes CSV output so Excel opens the Korean headers correctly.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// formatFloat renders a value for CSV. NaN marks missing data and becomes
// an empty cell, matching how the source files express absence.
func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatInt renders an integer cell.
func formatInt(i int) string {
	return strconv.Itoa(i)
}

// formatTimestamp renders a reading time the way the sensor CSVs carry it.
func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
