package dataprocessing

import (
	"errors"
	"fmt"

	"growlab/internal/files"
	"growlab/pkg/contracts/domain"
)

// ErrEmptyWorkbook reports a growth workbook that yields no data rows at
// all. Growth data is single-sourced, so this is fatal to the whole table.
var ErrEmptyWorkbook = errors.New("growth workbook contains no data rows")

// FileNotFoundError reports that a dataset's source file could not be
// resolved. School is empty when the missing file is the growth workbook.
type FileNotFoundError struct {
	School domain.SchoolID
	Name   string
}

func (e *FileNotFoundError) Error() string {
	if e.School != "" {
		return fmt.Sprintf("environment file for school %s not found: %s", e.School, e.Name)
	}
	return fmt.Sprintf("growth workbook not found: %s", e.Name)
}

// Unwrap lets errors.Is match the underlying resolver condition.
func (e *FileNotFoundError) Unwrap() error {
	return files.ErrNotFound
}

// TimestampError reports a row whose time value could not be parsed. The
// whole dataset load fails; rows are never silently dropped.
type TimestampError struct {
	File  string
	Row   int
	Value string
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("%s row %d: malformed timestamp %q", e.File, e.Row, e.Value)
}

// ParseError reports a non-numeric value in a numeric column. Fatal to the
// dataset being parsed, not to the batch.
type ParseError struct {
	File   string
	Sheet  string
	Row    int
	Column string
	Value  string
}

func (e *ParseError) Error() string {
	if e.Sheet != "" {
		return fmt.Sprintf("%s sheet %s row %d: column %s has non-numeric value %q",
			e.File, e.Sheet, e.Row, e.Column, e.Value)
	}
	return fmt.Sprintf("%s row %d: column %s has non-numeric value %q",
		e.File, e.Row, e.Column, e.Value)
}
