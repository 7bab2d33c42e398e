package table

import "time"

// Record is a read-only view of one row of a Table. Typed getters report false
// when the column is absent, has an incompatible kind, or the cell is NA.
type Record struct {
	t *Table
	i int
}

func (r Record) Key() string {
	return r.t.keys[r.i]
}

// Index is the row position within the table the record was taken from.
func (r Record) Index() int {
	return r.i
}

func (r Record) column(name string) (*Column, bool) {
	ci, ok := r.t.byName[name]
	if !ok {
		return nil, false
	}
	return &r.t.cols[ci], true
}

// IsNull reports whether the named cell is missing or the column is absent.
func (r Record) IsNull(name string) bool {
	c, ok := r.column(name)
	return !ok || c.IsNull(r.i)
}

// String renders the named cell as text, for any column kind.
func (r Record) String(name string) (string, bool) {
	c, ok := r.column(name)
	if !ok || c.IsNull(r.i) {
		return "", false
	}
	return c.Text(r.i), true
}

// Float reads a numeric cell; integer cells are widened.
func (r Record) Float(name string) (float64, bool) {
	c, ok := r.column(name)
	if !ok || c.IsNull(r.i) {
		return 0, false
	}
	switch c.Kind {
	case KindFloat:
		return c.Floats[r.i].Float64, true
	case KindInt:
		return float64(c.Ints[r.i].Int64), true
	}
	return 0, false
}

func (r Record) Int(name string) (int64, bool) {
	c, ok := r.column(name)
	if !ok || c.Kind != KindInt || c.IsNull(r.i) {
		return 0, false
	}
	return c.Ints[r.i].Int64, true
}

func (r Record) Bool(name string) (bool, bool) {
	c, ok := r.column(name)
	if !ok || c.Kind != KindBool || c.IsNull(r.i) {
		return false, false
	}
	return c.Bools[r.i].Bool, true
}

func (r Record) Time(name string) (time.Time, bool) {
	c, ok := r.column(name)
	if !ok || c.Kind != KindTime || c.IsNull(r.i) {
		return time.Time{}, false
	}
	return c.Times[r.i].Time, true
}
