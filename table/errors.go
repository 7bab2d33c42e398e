package table

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedInput is returned by Load when the input cannot be turned
	// into a table: ragged rows, missing keys, or cells that cannot be coerced
	// to their column's type.
	ErrMalformedInput = errors.New("table: malformed input")

	// ErrInvalidTable is returned by New when the supplied columns do not make
	// a rectangular, uniquely-named table.
	ErrInvalidTable = errors.New("table: invalid table")

	// ErrOutOfRange is returned by Take for row indices outside the table.
	ErrOutOfRange = errors.New("table: row index out of range")
)

// MalformedError locates a loader failure. It matches ErrMalformedInput under
// errors.Is.
type MalformedError struct {
	Line   int    // 1-based physical line, 0 when not line specific
	Column string // column name, if known
	Err    error
}

func (e *MalformedError) Error() string {
	switch {
	case e.Line > 0 && e.Column != "":
		return fmt.Sprintf("table: malformed input at line %d, column %q: %v", e.Line, e.Column, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("table: malformed input at line %d: %v", e.Line, e.Err)
	case e.Column != "":
		return fmt.Sprintf("table: malformed input in column %q: %v", e.Column, e.Err)
	}

	return fmt.Sprintf("table: malformed input: %v", e.Err)
}

func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformedInput
}

func (e *MalformedError) Unwrap() error {
	return e.Err
}

// DuplicateColumnError lists header names that occur more than once. Load
// wraps it in a *MalformedError, so it is found with errors.As.
type DuplicateColumnError struct {
	Names []string
}

func (e *DuplicateColumnError) Error() string {
	return fmt.Sprintf("column names used more than once: %q", e.Names)
}
