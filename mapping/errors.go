package mapping

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrClosed is returned by traversals of an iterator that has been closed.
	ErrClosed = errors.New("mapping: iterator is closed")
	// ErrTraversalSuperseded is returned when a traversal is pulled after a
	// newer traversal of the same iterator has begun.
	ErrTraversalSuperseded = errors.New("mapping: traversal superseded by a newer one")
)

// ConfigError reports invalid builder input. It is raised before any I/O.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "mapping config: " + e.Reason
	}
	return fmt.Sprintf("mapping config: field %q: %s", e.Field, e.Reason)
}

// SheetNotFoundError reports a requested sheet missing from the source.
type SheetNotFoundError struct {
	Sheet string
}

func (e *SheetNotFoundError) Error() string {
	return fmt.Sprintf("the sheet %q cannot be found", e.Sheet)
}

// HeaderReadError reports a missing or empty header row.
type HeaderReadError struct {
	Sheet string
}

func (e *HeaderReadError) Error() string {
	return fmt.Sprintf("unable to read column names from sheet %q", e.Sheet)
}

// EmptyHeaderNameError reports a blank header cell while blank names are not
// skipped.
type EmptyHeaderNameError struct {
	Sheet  string
	Column int
}

func (e *EmptyHeaderNameError) Error() string {
	return fmt.Sprintf("empty column name found in sheet %q at column %d", e.Sheet, e.Column)
}

// ColumnNotFoundError reports a by-name mapping without a matching header.
type ColumnNotFoundError struct {
	Sheet  string
	Column string
	Field  string
	Row    int
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("cannot map field %q by column name %q: no such column in sheet %q (row %d)",
		e.Field, e.Column, e.Sheet, e.Row)
}

// ConversionError reports a source value the default conversion rules cannot
// turn into the destination type. The iterator fills in the location fields.
type ConversionError struct {
	Sheet  string
	Row    int
	Column int
	Field  string
	Type   string
	Value  any
	Err    error
}

func (e *ConversionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cannot convert %#v (%T) to %s", e.Value, e.Value, e.Type)
	if e.Field != "" {
		fmt.Fprintf(&b, " for field %q", e.Field)
	}
	if e.Row > 0 {
		fmt.Fprintf(&b, " at sheet %q row %d column %d", e.Sheet, e.Row, e.Column)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// SourceError wraps a failure of the underlying tabular source.
type SourceError struct {
	Op  string
	Err error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source %s: %v", e.Op, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}
