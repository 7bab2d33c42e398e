package persist

import (
	"errors"
	"fmt"
)

var (
	// ErrPersistence is matched by every error this package returns for bad
	// snapshot bytes.
	ErrPersistence = errors.New("persist: cannot restore snapshot")

	ErrNotSnapshot        = errors.New("not an experiment snapshot")
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")
	ErrChecksum           = errors.New("checksum mismatch")
	ErrTruncated          = errors.New("truncated payload")

	// ErrNotFound is returned by Store when no snapshot has the given name.
	ErrNotFound = errors.New("persist: snapshot not found")
)

// Error wraps the reason a snapshot could not be decoded. errors.Is matches
// both ErrPersistence and the wrapped reason.
type Error struct {
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", ErrPersistence, e.Err)
}

func (e *Error) Is(target error) bool {
	return target == ErrPersistence
}

func (e *Error) Unwrap() error {
	return e.Err
}

func fail(format string, args ...interface{}) error {
	return &Error{Err: fmt.Errorf(format, args...)}
}
