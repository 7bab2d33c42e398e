// Package align proves that two key sequences describe the same axis, and
// repairs the one case that can be repaired safely: same keys, different order.
package align

import (
	"fmt"
	"strings"

	"github.com/JennyZadeh/bioc-rnaseq/table"
)

// Status is the outcome of comparing two key sequences.
type Status byte

const (
	// Identical means same length, same keys, same order.
	Identical Status = iota
	// SameSetDifferentOrder means the sequences are permutations of one
	// another and neither has duplicates.
	SameSetDifferentOrder
	// Mismatched means the key sets differ or at least one side has
	// duplicates.
	Mismatched
)

func (s Status) String() string {
	switch s {
	case Identical:
		return "identical"
	case SameSetDifferentOrder:
		return "same set, different order"
	case Mismatched:
		return "mismatched"
	}
	return "unknown"
}

// Verdict reports how seqB relates to seqA.
type Verdict struct {
	Status Status

	// Permutation is set for SameSetDifferentOrder: seqB[Permutation[i]] ==
	// seqA[i], so taking Permutation from anything ordered like seqB puts it
	// in seqA's order.
	Permutation []int

	// OnlyInA and OnlyInB hold the symmetric difference, each in the order
	// the keys first appear.
	OnlyInA []string
	OnlyInB []string

	// DuplicatesA and DuplicatesB list keys that occur more than once.
	DuplicatesA []string
	DuplicatesB []string
}

func (v Verdict) String() string {
	switch v.Status {
	case Identical, SameSetDifferentOrder:
		return v.Status.String()
	}

	parts := make([]string, 0, 4)
	if len(v.OnlyInA) > 0 {
		parts = append(parts, fmt.Sprintf("only in A: %s", Summarize(v.OnlyInA)))
	}
	if len(v.OnlyInB) > 0 {
		parts = append(parts, fmt.Sprintf("only in B: %s", Summarize(v.OnlyInB)))
	}
	if len(v.DuplicatesA) > 0 {
		parts = append(parts, fmt.Sprintf("duplicated in A: %s", Summarize(v.DuplicatesA)))
	}
	if len(v.DuplicatesB) > 0 {
		parts = append(parts, fmt.Sprintf("duplicated in B: %s", Summarize(v.DuplicatesB)))
	}

	return fmt.Sprintf("%s (%s)", v.Status, strings.Join(parts, "; "))
}

// CheckIdentical compares two key sequences. It never modifies its inputs.
func CheckIdentical(seqA, seqB []string) Verdict {
	v := Verdict{
		DuplicatesA: Duplicates(seqA),
		DuplicatesB: Duplicates(seqB),
	}

	posB := make(map[string]int, len(seqB))
	for i, k := range seqB {
		if _, seen := posB[k]; !seen {
			posB[k] = i
		}
	}
	inA := make(map[string]struct{}, len(seqA))
	for _, k := range seqA {
		if _, seen := inA[k]; seen {
			continue
		}
		inA[k] = struct{}{}
		if _, ok := posB[k]; !ok {
			v.OnlyInA = append(v.OnlyInA, k)
		}
	}
	seenB := make(map[string]struct{}, len(seqB))
	for _, k := range seqB {
		if _, seen := seenB[k]; seen {
			continue
		}
		seenB[k] = struct{}{}
		if _, ok := inA[k]; !ok {
			v.OnlyInB = append(v.OnlyInB, k)
		}
	}

	if len(v.OnlyInA) > 0 || len(v.OnlyInB) > 0 || len(v.DuplicatesA) > 0 || len(v.DuplicatesB) > 0 || len(seqA) != len(seqB) {
		v.Status = Mismatched
		return v
	}

	same := true
	for i := range seqA {
		if seqA[i] != seqB[i] {
			same = false
			break
		}
	}
	if same {
		v.Status = Identical
		return v
	}

	v.Status = SameSetDifferentOrder
	v.Permutation = make([]int, len(seqA))
	for i, k := range seqA {
		v.Permutation[i] = posB[k]
	}

	return v
}

// Duplicates lists each key that occurs more than once, in order of its
// second occurrence.
func Duplicates(keys []string) []string {
	seen := make(map[string]int, len(keys))
	var out []string
	for _, k := range keys {
		seen[k]++
		if seen[k] == 2 {
			out = append(out, k)
		}
	}
	return out
}

// Reorder returns a copy of t whose key sequence equals target exactly. target
// must be a duplicate-free permutation of t's keys; anything else fails with
// a *KeySetError and no table is returned.
func Reorder(t *table.Table, target []string) (*table.Table, error) {
	v := CheckIdentical(target, t.Keys())

	switch v.Status {
	case Identical:
		return t.Take(identity(t.Len()))
	case SameSetDifferentOrder:
		return t.Take(v.Permutation)
	}

	return nil, &KeySetError{
		Missing:          v.OnlyInA,
		Extra:            v.OnlyInB,
		DuplicatedTarget: v.DuplicatesA,
		DuplicatedTable:  v.DuplicatesB,
	}
}

func identity(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// maxListed bounds how many keys Summarize spells out.
const maxListed = 10

// Summarize renders a key list for diagnostics, eliding long lists.
func Summarize(keys []string) string {
	if len(keys) <= maxListed {
		return "[" + strings.Join(keys, ", ") + "]"
	}

	return fmt.Sprintf("[%s, ... and %d more]", strings.Join(keys[:maxListed], ", "), len(keys)-maxListed)
}
