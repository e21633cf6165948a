package dataprocessing

import (
	"fmt"
	"strings"
)

// ParseError reports a file that could not be read as a table
type ParseError struct {
	Source string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("cannot read %s: %s", e.Source, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func newParseError(source, reason string, err error) *ParseError {
	if source == "" {
		source = "spreadsheet"
	}
	return &ParseError{Source: source, Reason: reason, Err: err}
}

// SchemaError reports required columns that are absent, or column names
// that appear more than once after trimming
type SchemaError struct {
	Missing    []string
	Duplicates []string
}

func (e *SchemaError) Error() string {
	var parts []string
	if len(e.Duplicates) > 0 {
		parts = append(parts, fmt.Sprintf("duplicate column(s): %s", strings.Join(e.Duplicates, ", ")))
	}
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing required column(s): %s", strings.Join(e.Missing, ", ")))
	}
	if len(parts) == 0 {
		return "invalid column layout"
	}
	return strings.Join(parts, "; ")
}

// ValueError reports a cell that could not be coerced to its column type
type ValueError struct {
	Column string
	Row    int // 1-based spreadsheet row
	Value  string
	Reason string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("column %q row %d: cannot use %q: %s", e.Column, e.Row, e.Value, e.Reason)
}
