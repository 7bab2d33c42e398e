// Package experiment binds a quantification matrix to its sample and feature
// annotations. A Container guarantees that the assay's row keys equal the row
// annotation's keys and its column keys equal the column annotation's keys,
// in order, for as long as it exists: it is validated when built and every
// structural operation returns a new, re-validated Container.
package experiment

import (
	"fmt"

	"github.com/JennyZadeh/bioc-rnaseq/align"
	"github.com/JennyZadeh/bioc-rnaseq/table"
)

// Container owns one assay, one row (feature) annotation and one column
// (sample) annotation. None of them can be changed in place, so a Container
// may be shared between goroutines freely.
type Container struct {
	assay  *Assay
	rowAnn *table.Table
	colAnn *table.Table
}

// Build validates and links the three tables.
//
// The assay's keys must be unique on both axes. Each annotation must carry
// exactly the assay's keys for its axis; if it lists them in another order it
// is permuted to the assay's order, which is the only repair ever made. A nil
// annotation stands for one with keys and no attributes.
func Build(assay *Assay, rowAnnotation, columnAnnotation *table.Table) (*Container, error) {
	if assay == nil {
		return nil, fmt.Errorf("%w: no assay", ErrMalformedAssay)
	}
	if !assay.validShape() {
		r, c := assay.Dims()
		return nil, fmt.Errorf("%w: %d values for a %dx%d assay", ErrMalformedAssay, len(assay.data), r, c)
	}
	if dups := align.Duplicates(assay.rowKeys); len(dups) > 0 {
		return nil, &DuplicateKeyError{Axis: Rows, Source: "assay", Keys: dups}
	}
	if dups := align.Duplicates(assay.colKeys); len(dups) > 0 {
		return nil, &DuplicateKeyError{Axis: Columns, Source: "assay", Keys: dups}
	}

	rowAnn, err := alignAnnotation(Rows, assay.rowKeys, rowAnnotation)
	if err != nil {
		return nil, err
	}
	colAnn, err := alignAnnotation(Columns, assay.colKeys, columnAnnotation)
	if err != nil {
		return nil, err
	}

	c := &Container{
		assay:  assay,
		rowAnn: rowAnn,
		colAnn: colAnn,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

func alignAnnotation(axis Axis, keys []string, ann *table.Table) (*table.Table, error) {
	if ann == nil {
		return table.New("", keys)
	}

	source := "row annotation"
	if axis == Columns {
		source = "column annotation"
	}

	v := align.CheckIdentical(keys, ann.Keys())
	switch v.Status {
	case align.Identical:
		return ann, nil
	case align.SameSetDifferentOrder:
		reordered, err := align.Reorder(ann, keys)
		if err != nil {
			return nil, fmt.Errorf("%w: reordering the %s: %v", ErrInvariantViolation, source, err)
		}
		return reordered, nil
	}

	if len(v.OnlyInA) == 0 && len(v.OnlyInB) == 0 && len(v.DuplicatesB) > 0 {
		return nil, &DuplicateKeyError{Axis: axis, Source: source, Keys: v.DuplicatesB}
	}

	return nil, &AlignmentError{Axis: axis, Missing: v.OnlyInA, Extra: v.OnlyInB}
}

// Validate re-checks every structural invariant: both annotations carry the
// assay's keys in the assay's order, keys are unique per axis, and the assay
// buffers match its shape. A failure wraps ErrInvariantViolation.
func (c *Container) Validate() error {
	if c == nil || c.assay == nil || c.rowAnn == nil || c.colAnn == nil {
		return fmt.Errorf("%w: incomplete container", ErrInvariantViolation)
	}
	if !c.assay.validShape() {
		return fmt.Errorf("%w: assay buffers do not match its keys", ErrInvariantViolation)
	}
	if !equalStrings(c.assay.rowKeys, c.rowAnn.Keys()) {
		return fmt.Errorf("%w: row annotation keys differ from assay row keys", ErrInvariantViolation)
	}
	if !equalStrings(c.assay.colKeys, c.colAnn.Keys()) {
		return fmt.Errorf("%w: column annotation keys differ from assay column keys", ErrInvariantViolation)
	}
	if dups := align.Duplicates(c.assay.rowKeys); len(dups) > 0 {
		return fmt.Errorf("%w: duplicate row keys %s", ErrInvariantViolation, align.Summarize(dups))
	}
	if dups := align.Duplicates(c.assay.colKeys); len(dups) > 0 {
		return fmt.Errorf("%w: duplicate column keys %s", ErrInvariantViolation, align.Summarize(dups))
	}

	return nil
}

// Assay returns the quantification matrix. It is read-only.
func (c *Container) Assay() *Assay {
	return c.assay
}

// RowAnnotation returns the feature annotation, aligned with Assay rows.
func (c *Container) RowAnnotation() *table.Table {
	return c.rowAnn
}

// ColumnAnnotation returns the sample annotation, aligned with Assay columns.
func (c *Container) ColumnAnnotation() *table.Table {
	return c.colAnn
}

// Dims returns the number of features and samples.
func (c *Container) Dims() (rows, cols int) {
	return c.assay.Dims()
}

func (c *Container) RowKeys() []string {
	return c.assay.RowKeys()
}

func (c *Container) ColumnKeys() []string {
	return c.assay.ColumnKeys()
}

// Degenerate reports whether the container has no rows or no columns.
func (c *Container) Degenerate() bool {
	r, cols := c.Dims()
	return r == 0 || cols == 0
}

// Equal reports whether two containers hold the same assay and annotations,
// keys in the same order.
func (c *Container) Equal(o *Container) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.assay.Equal(o.assay) && c.rowAnn.Equal(o.rowAnn) && c.colAnn.Equal(o.colAnn)
}

func (c *Container) String() string {
	r, cols := c.Dims()
	return fmt.Sprintf("experiment with %d features and %d samples (assay %q, %s)", r, cols, c.assay.name, c.assay.storage)
}
