package experiment

import (
	"errors"
	"fmt"

	"github.com/JennyZadeh/bioc-rnaseq/align"
)

var (
	// ErrMalformedAssay is returned when a matrix is not rectangular or a
	// count table has a non-numeric sample column.
	ErrMalformedAssay = errors.New("experiment: malformed assay")

	// ErrDuplicateKey is matched by every *DuplicateKeyError.
	ErrDuplicateKey = errors.New("experiment: duplicate key")

	// ErrRowAlignment and ErrColumnAlignment are matched by *AlignmentError
	// according to its Axis.
	ErrRowAlignment    = errors.New("experiment: row annotation does not match assay rows")
	ErrColumnAlignment = errors.New("experiment: column annotation does not match assay columns")

	// ErrUnknownKey is matched by every *UnknownKeyError.
	ErrUnknownKey = errors.New("experiment: unknown key")

	// ErrIndexOutOfRange is matched by every *IndexError.
	ErrIndexOutOfRange = errors.New("experiment: index out of range")

	// ErrInvariantViolation means a container failed its final consistency
	// check after alignment succeeded. It indicates a bug, not bad input.
	ErrInvariantViolation = errors.New("experiment: invariant violation")
)

// Axis names one dimension of the assay.
type Axis byte

const (
	Rows Axis = iota
	Columns
)

func (a Axis) String() string {
	if a == Columns {
		return "column"
	}
	return "row"
}

// DuplicateKeyError reports keys that occur more than once on one axis of
// Source ("assay", "row annotation", "column annotation" or "selector").
type DuplicateKeyError struct {
	Axis   Axis
	Source string
	Keys   []string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s: %s keys of the %s are not unique: %s", ErrDuplicateKey, e.Axis, e.Source, align.Summarize(e.Keys))
}

func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

// AlignmentError reports the symmetric difference between the assay's keys on
// an axis and the annotation's keys. Missing keys are on the assay but absent
// from the annotation; Extra keys are annotated but absent from the assay.
type AlignmentError struct {
	Axis    Axis
	Missing []string
	Extra   []string
}

func (e *AlignmentError) Error() string {
	sentinel := ErrRowAlignment
	if e.Axis == Columns {
		sentinel = ErrColumnAlignment
	}

	msg := sentinel.Error()
	if len(e.Missing) > 0 {
		msg += fmt.Sprintf("; missing from annotation: %s", align.Summarize(e.Missing))
	}
	if len(e.Extra) > 0 {
		msg += fmt.Sprintf("; not in assay: %s", align.Summarize(e.Extra))
	}
	return msg
}

func (e *AlignmentError) Is(target error) bool {
	if e.Axis == Columns {
		return target == ErrColumnAlignment
	}
	return target == ErrRowAlignment
}

// UnknownKeyError reports selector keys absent from the container.
type UnknownKeyError struct {
	Axis Axis
	Keys []string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("%s: %s keys not in experiment: %s", ErrUnknownKey, e.Axis, align.Summarize(e.Keys))
}

func (e *UnknownKeyError) Is(target error) bool {
	return target == ErrUnknownKey
}

// IndexError reports a selector position outside [0, Len).
type IndexError struct {
	Axis  Axis
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s: %s index %d (experiment has %d)", ErrIndexOutOfRange, e.Axis, e.Index, e.Len)
}

func (e *IndexError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}
