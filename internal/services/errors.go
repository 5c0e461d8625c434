package services

import "errors"

// ErrNoUsableData reports that neither environment datasets nor growth
// rows could be loaded. Reporting halts cleanly on this condition instead
// of summarizing partial garbage.
var ErrNoUsableData = errors.New("no usable data: all environment datasets failed and growth table is unavailable")

// ErrUnknownMetric reports a growth-summary request for a metric the
// workbook does not carry.
var ErrUnknownMetric = errors.New("unknown growth metric")
