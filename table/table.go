// Package table holds the generic in-memory tables that feed an experiment:
// an ordered set of named, typed columns plus one row-key sequence. Tables are
// immutable once built; every accessor hands out copies.
package table

import (
	"fmt"
)

// Table is an ordered sequence of named columns of equal length, indexed by a
// sequence of row keys. Duplicate keys are representable so that callers can
// report them; the experiment layer refuses to build on top of them.
type Table struct {
	keyName string
	keys    []string
	cols    []Column
	byName  map[string]int
}

// New builds a table. keyName labels the key column (it may be empty, as in
// R-written count matrices). Every column must hold exactly len(keys) cells
// and column names must be distinct and differ from keyName.
func New(keyName string, keys []string, cols ...Column) (*Table, error) {
	t := &Table{
		keyName: keyName,
		keys:    append(make([]string, 0, len(keys)), keys...),
		cols:    make([]Column, 0, len(cols)),
		byName:  make(map[string]int, len(cols)),
	}

	for _, c := range cols {
		if n := c.Len(); n < 0 {
			return nil, fmt.Errorf("%w: column %q does not hold %s values", ErrInvalidTable, c.Name, c.Kind)
		} else if n != len(keys) {
			return nil, fmt.Errorf("%w: column %q has %d values, but there are %d keys", ErrInvalidTable, c.Name, n, len(keys))
		}
		if _, exists := t.byName[c.Name]; exists || (c.Name == keyName && keyName != "") {
			return nil, fmt.Errorf("%w: column name %q is used more than once", ErrInvalidTable, c.Name)
		}

		t.byName[c.Name] = len(t.cols)
		t.cols = append(t.cols, c.clone())
	}

	return t, nil
}

// KeyName is the header of the key column.
func (t *Table) KeyName() string {
	return t.keyName
}

// Keys returns a copy of the row keys, in row order.
func (t *Table) Keys() []string {
	return append(make([]string, 0, len(t.keys)), t.keys...)
}

// Key returns the key of row i.
func (t *Table) Key(i int) string {
	return t.keys[i]
}

// Len is the number of rows.
func (t *Table) Len() int {
	return len(t.keys)
}

// Width is the number of non-key columns.
func (t *Table) Width() int {
	return len(t.cols)
}

// ColumnNames lists the non-key columns in order.
func (t *Table) ColumnNames() []string {
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.Name
	}
	return out
}

// HasColumn reports whether a non-key column of that name exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// Column returns a copy of the named column.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Column{}, false
	}
	return t.cols[i].clone(), true
}

// Columns returns copies of every non-key column.
func (t *Table) Columns() []Column {
	out := make([]Column, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.clone()
	}
	return out
}

// Record returns a read-only view of row i.
func (t *Table) Record(i int) Record {
	return Record{t: t, i: i}
}

// Take returns a new table made of rows idx, in that order. Indices may
// repeat; callers that need a permutation must check for that themselves.
func (t *Table) Take(idx []int) (*Table, error) {
	keys := make([]string, len(idx))
	for k, i := range idx {
		if i < 0 || i >= len(t.keys) {
			return nil, fmt.Errorf("%w: %d (table has %d rows)", ErrOutOfRange, i, len(t.keys))
		}
		keys[k] = t.keys[i]
	}

	out := &Table{
		keyName: t.keyName,
		keys:    keys,
		cols:    make([]Column, len(t.cols)),
		byName:  make(map[string]int, len(t.cols)),
	}
	for ci, c := range t.cols {
		out.cols[ci] = c.take(idx)
		out.byName[c.Name] = ci
	}

	return out, nil
}

// Equal reports whether two tables have the same key column, keys in the same
// order, and identical columns in the same order.
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.keyName != o.keyName || len(t.keys) != len(o.keys) || len(t.cols) != len(o.cols) {
		return false
	}
	for i := range t.keys {
		if t.keys[i] != o.keys[i] {
			return false
		}
	}
	for i := range t.cols {
		if !t.cols[i].Equal(o.cols[i]) {
			return false
		}
	}

	return true
}
