// Package dataprocessing loads and summarizes the experiment datasets.
//
// Two loaders cover the raw inputs:
//
//  1. Environment: one delimited CSV per school with time-series sensor
//     readings (time, temperature, humidity, ph, ec). A dataset fails as a
//     whole if any timestamp is malformed; one school's failure never
//     aborts the batch.
//  2. Growth: a single XLSX workbook with one sheet per school. Sheets are
//     consolidated into one table, each row stamped with its school and
//     the joined target-EC setpoint. Sheets with unrecognized names are
//     kept and surfaced rather than silently null-joined.
//
// Analytics provides the pure group-wise statistics (MeanBy, CountBy,
// ArgMax, OverallMean) the reporting layer is built on. All analytics
// functions operate on already-loaded tables and perform no I/O.
package dataprocessing
