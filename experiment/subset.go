package experiment

import (
	"fmt"

	"github.com/JennyZadeh/bioc-rnaseq/align"
	"github.com/JennyZadeh/bioc-rnaseq/table"
)

type selectorKind byte

const (
	selectAll selectorKind = iota
	selectWhere
	selectKeys
	selectIndices
)

// Selector picks positions along one axis of a Container. The zero value
// selects everything.
type Selector struct {
	kind selectorKind
	pred table.Predicate
	keys []string
	idx  []int
}

// All keeps every position in its current order.
func All() Selector {
	return Selector{kind: selectAll}
}

// Where keeps the positions whose annotation record satisfies p, in their
// current relative order.
func Where(p table.Predicate) Selector {
	if p == nil {
		return All()
	}
	return Selector{kind: selectWhere, pred: p}
}

// Keys keeps exactly the listed keys, in the listed order. Duplicates and
// unknown keys are rejected.
func Keys(keys ...string) Selector {
	return Selector{kind: selectKeys, keys: append(make([]string, 0, len(keys)), keys...)}
}

// Indices keeps exactly the listed positions, in the listed order.
// Duplicates and out-of-range positions are rejected.
func Indices(idx ...int) Selector {
	return Selector{kind: selectIndices, idx: append(make([]int, 0, len(idx)), idx...)}
}

// resolve turns a selector into positions on ann without touching anything.
func (s Selector) resolve(axis Axis, ann *table.Table) ([]int, error) {
	switch s.kind {
	case selectWhere:
		out := make([]int, 0, ann.Len())
		for i := 0; i < ann.Len(); i++ {
			if s.pred(ann.Record(i)) {
				out = append(out, i)
			}
		}
		return out, nil

	case selectKeys:
		if dups := align.Duplicates(s.keys); len(dups) > 0 {
			return nil, &DuplicateKeyError{Axis: axis, Source: "selector", Keys: dups}
		}
		pos := make(map[string]int, ann.Len())
		for i := 0; i < ann.Len(); i++ {
			pos[ann.Key(i)] = i
		}
		out := make([]int, len(s.keys))
		var unknown []string
		for k, key := range s.keys {
			i, ok := pos[key]
			if !ok {
				unknown = append(unknown, key)
				continue
			}
			out[k] = i
		}
		if len(unknown) > 0 {
			return nil, &UnknownKeyError{Axis: axis, Keys: unknown}
		}
		return out, nil

	case selectIndices:
		seen := make(map[int]struct{}, len(s.idx))
		var dups []string
		for _, i := range s.idx {
			if i < 0 || i >= ann.Len() {
				return nil, &IndexError{Axis: axis, Index: i, Len: ann.Len()}
			}
			if _, exists := seen[i]; exists {
				dups = append(dups, ann.Key(i))
			}
			seen[i] = struct{}{}
		}
		if len(dups) > 0 {
			return nil, &DuplicateKeyError{Axis: axis, Source: "selector", Keys: dups}
		}
		return append(make([]int, 0, len(s.idx)), s.idx...), nil
	}

	out := make([]int, ann.Len())
	for i := range out {
		out[i] = i
	}
	return out, nil
}

// SubsetRows returns a new container with the selected features. Samples are
// unchanged. An empty selection yields a valid container with no rows.
func (c *Container) SubsetRows(rows Selector) (*Container, error) {
	return c.SubsetBoth(rows, All())
}

// SubsetColumns returns a new container with the selected samples. Features
// are unchanged.
func (c *Container) SubsetColumns(cols Selector) (*Container, error) {
	return c.SubsetBoth(All(), cols)
}

// SubsetBoth applies both selectors at once. Both are resolved before anything
// is copied, so either the whole subset is returned or nothing is.
func (c *Container) SubsetBoth(rows, cols Selector) (*Container, error) {
	rowIdx, err := rows.resolve(Rows, c.rowAnn)
	if err != nil {
		return nil, err
	}
	colIdx, err := cols.resolve(Columns, c.colAnn)
	if err != nil {
		return nil, err
	}

	rowAnn, err := c.rowAnn.Take(rowIdx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvariantViolation, err)
	}
	colAnn, err := c.colAnn.Take(colIdx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvariantViolation, err)
	}

	out := &Container{
		assay:  c.assay.take(rowIdx, colIdx),
		rowAnn: rowAnn,
		colAnn: colAnn,
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}

	return out, nil
}
