package dataloader

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmpty is returned by ReadTable when a file holds no data rows: it is
// zero-length or has only a header.
var ErrEmpty = errors.New("no data rows")

// ParseError reports a structurally corrupt table file.
type ParseError struct {
	Path string
	Line int // 0 when unknown
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SchemaMismatchError is returned when tables that are to be concatenated
// declare different column sets.
type SchemaMismatchError struct {
	Path string
	Want []string
	Got  []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema mismatch in %s: want columns [%s], got [%s]",
		e.Path, strings.Join(e.Want, ","), strings.Join(e.Got, ","))
}

// MissingFieldError is returned when a required field cannot be built because
// a source column is absent.
type MissingFieldError struct {
	Field  string
	Column string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("field %s: column %q not found", e.Field, e.Column)
}

// UnmappedColumnError is returned by a strict Schema for a source column no
// field consumes.
type UnmappedColumnError struct {
	Column string
}

func (e *UnmappedColumnError) Error() string {
	return fmt.Sprintf("column %q is not mapped by the schema", e.Column)
}
