package align

import (
	"errors"
	"fmt"
	"strings"
)

// ErrKeySetMismatch is matched by every *KeySetError.
var ErrKeySetMismatch = errors.New("align: key sets differ")

// KeySetError describes why a table could not be permuted into a target key
// order. Missing keys are in the target but not the table; Extra keys are in
// the table but not the target.
type KeySetError struct {
	Missing          []string
	Extra            []string
	DuplicatedTarget []string
	DuplicatedTable  []string
}

func (e *KeySetError) Error() string {
	parts := make([]string, 0, 4)
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+Summarize(e.Missing))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, "extra "+Summarize(e.Extra))
	}
	if len(e.DuplicatedTarget) > 0 {
		parts = append(parts, "duplicated in target "+Summarize(e.DuplicatedTarget))
	}
	if len(e.DuplicatedTable) > 0 {
		parts = append(parts, "duplicated in table "+Summarize(e.DuplicatedTable))
	}
	if len(parts) == 0 {
		parts = append(parts, "lengths differ")
	}

	return fmt.Sprintf("%s: %s", ErrKeySetMismatch, strings.Join(parts, "; "))
}

func (e *KeySetError) Is(target error) bool {
	return target == ErrKeySetMismatch
}
