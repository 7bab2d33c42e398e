// Package granges reads genomic coordinates out of a feature annotation, in
// the seqnames/start/end/strand convention of Bioconductor's GRanges.
// Coordinates are 1-based and closed.
package granges

import (
	"errors"
	"fmt"

	"github.com/JennyZadeh/bioc-rnaseq/chrpos"
	"github.com/JennyZadeh/bioc-rnaseq/table"
)

var ErrNoCoordinates = errors.New("granges: annotation has no coordinate columns")

type Strand byte

const (
	Unstranded Strand = '*'
	Forward    Strand = '+'
	Reverse    Strand = '-'
)

// ParseStrand accepts "+", "-", "*" and the GTF placeholder ".".
func ParseStrand(s string) (Strand, error) {
	switch s {
	case "+":
		return Forward, nil
	case "-":
		return Reverse, nil
	case "*", ".", "":
		return Unstranded, nil
	}
	return 0, fmt.Errorf("invalid strand %q", s)
}

func (s Strand) String() string {
	return string(s)
}

// Range is the location of one feature.
type Range struct {
	Key     string
	Seqname string
	Start   int
	End     int
	Strand  Strand
}

func (r Range) Width() int {
	return r.End - r.Start + 1
}

func (r Range) String() string {
	return fmt.Sprintf("%s:%d-%d:%s", r.Seqname, r.Start, r.End, r.Strand)
}

// Overlaps reports whether the two ranges share at least one base on the same
// sequence. Unstranded ranges overlap either strand.
func (r Range) Overlaps(o Range) bool {
	if chrpos.Normalize(r.Seqname) != chrpos.Normalize(o.Seqname) {
		return false
	}
	if r.Strand != Unstranded && o.Strand != Unstranded && r.Strand != o.Strand {
		return false
	}
	return r.Start <= o.End && o.Start <= r.End
}

// Fields names the annotation columns holding coordinates. Strand may be
// absent from the table, in which case every range is unstranded.
type Fields struct {
	Seqname string
	Start   string
	End     string
	Strand  string
}

var DefaultFields = Fields{
	Seqname: "seqnames",
	Start:   "start",
	End:     "end",
	Strand:  "strand",
}

// FromTable returns one Range per row of t, in row order.
func FromTable(t *table.Table, f Fields) ([]Range, error) {
	if !t.HasColumn(f.Seqname) || !t.HasColumn(f.Start) || !t.HasColumn(f.End) {
		return nil, fmt.Errorf("%w: need %q, %q and %q", ErrNoCoordinates, f.Seqname, f.Start, f.End)
	}

	out := make([]Range, t.Len())
	for i := range out {
		rec := t.Record(i)
		r, err := fromRecord(rec, f)
		if err != nil {
			return nil, fmt.Errorf("feature %q: %w", rec.Key(), err)
		}
		out[i] = r
	}

	return out, nil
}

func fromRecord(rec table.Record, f Fields) (Range, error) {
	r := Range{Key: rec.Key(), Strand: Unstranded}

	var ok bool
	if r.Seqname, ok = rec.String(f.Seqname); !ok {
		return r, fmt.Errorf("missing %s", f.Seqname)
	}
	start, ok := rec.Int(f.Start)
	if !ok {
		return r, fmt.Errorf("missing or non-integer %s", f.Start)
	}
	end, ok := rec.Int(f.End)
	if !ok {
		return r, fmt.Errorf("missing or non-integer %s", f.End)
	}
	r.Start, r.End = int(start), int(end)
	if r.Start < 1 || r.End < r.Start {
		return r, fmt.Errorf("invalid interval %d-%d", r.Start, r.End)
	}

	if s, present := rec.String(f.Strand); present {
		strand, err := ParseStrand(s)
		if err != nil {
			return r, err
		}
		r.Strand = strand
	}

	return r, nil
}

// Check verifies every range against the chromosome lengths of assembly.
func Check(ranges []Range, assembly string) error {
	lookup, err := chrpos.NewLookup(assembly)
	if err != nil {
		return err
	}

	for _, r := range ranges {
		if err := lookup.Check(r.Seqname, r.Start, r.End); err != nil {
			return fmt.Errorf("feature %q: %w", r.Key, err)
		}
	}
	return nil
}

// Overlapping selects annotation rows whose coordinates overlap query. Rows
// without usable coordinates are not selected.
func Overlapping(f Fields, query Range) table.Predicate {
	return func(rec table.Record) bool {
		r, err := fromRecord(rec, f)
		if err != nil {
			return false
		}
		return r.Overlaps(query)
	}
}
