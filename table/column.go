package table

import (
	"math"
	"strconv"
	"time"

	"gopkg.in/guregu/null.v3"
)

// NA is how a missing cell is rendered as text.
const NA = "NA"

// Column is a named, homogeneous sequence of nullable cells. Exactly one of
// the value slices is populated, selected by Kind.
type Column struct {
	Name string
	Kind Kind

	Strings []null.String
	Ints    []null.Int
	Floats  []null.Float
	Bools   []null.Bool
	Times   []null.Time
}

// Strings builds a string column in which every cell is present.
func Strings(name string, values ...string) Column {
	out := Column{Name: name, Kind: KindString, Strings: make([]null.String, len(values))}
	for i, v := range values {
		out.Strings[i] = null.StringFrom(v)
	}
	return out
}

// Ints builds an integer column in which every cell is present.
func Ints(name string, values ...int64) Column {
	out := Column{Name: name, Kind: KindInt, Ints: make([]null.Int, len(values))}
	for i, v := range values {
		out.Ints[i] = null.IntFrom(v)
	}
	return out
}

// Floats builds a float column in which every cell is present.
func Floats(name string, values ...float64) Column {
	out := Column{Name: name, Kind: KindFloat, Floats: make([]null.Float, len(values))}
	for i, v := range values {
		out.Floats[i] = null.FloatFrom(v)
	}
	return out
}

// Bools builds a logical column in which every cell is present.
func Bools(name string, values ...bool) Column {
	out := Column{Name: name, Kind: KindBool, Bools: make([]null.Bool, len(values))}
	for i, v := range values {
		out.Bools[i] = null.BoolFrom(v)
	}
	return out
}

// Times builds a time column in which every cell is present.
func Times(name string, values ...time.Time) Column {
	out := Column{Name: name, Kind: KindTime, Times: make([]null.Time, len(values))}
	for i, v := range values {
		out.Times[i] = null.TimeFrom(v)
	}
	return out
}

// Len is the number of cells in the column. A column whose populated slice
// does not match its Kind has length -1.
func (c Column) Len() int {
	switch c.Kind {
	case KindString:
		if c.Ints != nil || c.Floats != nil || c.Bools != nil || c.Times != nil {
			return -1
		}
		return len(c.Strings)
	case KindInt:
		if c.Strings != nil || c.Floats != nil || c.Bools != nil || c.Times != nil {
			return -1
		}
		return len(c.Ints)
	case KindFloat:
		if c.Strings != nil || c.Ints != nil || c.Bools != nil || c.Times != nil {
			return -1
		}
		return len(c.Floats)
	case KindBool:
		if c.Strings != nil || c.Ints != nil || c.Floats != nil || c.Times != nil {
			return -1
		}
		return len(c.Bools)
	case KindTime:
		if c.Strings != nil || c.Ints != nil || c.Floats != nil || c.Bools != nil {
			return -1
		}
		return len(c.Times)
	}

	return -1
}

// IsNull reports whether cell i is missing.
func (c Column) IsNull(i int) bool {
	switch c.Kind {
	case KindString:
		return !c.Strings[i].Valid
	case KindInt:
		return !c.Ints[i].Valid
	case KindFloat:
		return !c.Floats[i].Valid
	case KindBool:
		return !c.Bools[i].Valid
	case KindTime:
		return !c.Times[i].Valid
	}

	return true
}

// Text renders cell i as text. Missing cells render as NA.
func (c Column) Text(i int) string {
	if c.IsNull(i) {
		return NA
	}

	switch c.Kind {
	case KindString:
		return c.Strings[i].String
	case KindInt:
		return strconv.FormatInt(c.Ints[i].Int64, 10)
	case KindFloat:
		return strconv.FormatFloat(c.Floats[i].Float64, 'g', -1, 64)
	case KindBool:
		if c.Bools[i].Bool {
			return "TRUE"
		}
		return "FALSE"
	case KindTime:
		return c.Times[i].Time.Format(time.RFC3339Nano)
	}

	return NA
}

// Value returns cell i as a plain Go value, or nil when it is missing.
func (c Column) Value(i int) interface{} {
	if c.IsNull(i) {
		return nil
	}

	switch c.Kind {
	case KindString:
		return c.Strings[i].String
	case KindInt:
		return c.Ints[i].Int64
	case KindFloat:
		return c.Floats[i].Float64
	case KindBool:
		return c.Bools[i].Bool
	case KindTime:
		return c.Times[i].Time
	}

	return nil
}

// take copies the cells at idx, in that order, into a new column.
func (c Column) take(idx []int) Column {
	out := Column{Name: c.Name, Kind: c.Kind}

	switch c.Kind {
	case KindString:
		out.Strings = make([]null.String, len(idx))
		for k, i := range idx {
			out.Strings[k] = c.Strings[i]
		}
	case KindInt:
		out.Ints = make([]null.Int, len(idx))
		for k, i := range idx {
			out.Ints[k] = c.Ints[i]
		}
	case KindFloat:
		out.Floats = make([]null.Float, len(idx))
		for k, i := range idx {
			out.Floats[k] = c.Floats[i]
		}
	case KindBool:
		out.Bools = make([]null.Bool, len(idx))
		for k, i := range idx {
			out.Bools[k] = c.Bools[i]
		}
	case KindTime:
		out.Times = make([]null.Time, len(idx))
		for k, i := range idx {
			out.Times[k] = c.Times[i]
		}
	}

	return out
}

func (c Column) clone() Column {
	idx := make([]int, c.Len())
	for i := range idx {
		idx[i] = i
	}
	return c.take(idx)
}

// Equal reports whether two columns have the same name, kind and cells.
// Float cells are compared bit for bit, so NaN equals NaN.
func (c Column) Equal(o Column) bool {
	if c.Name != o.Name || c.Kind != o.Kind || c.Len() != o.Len() {
		return false
	}

	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) != o.IsNull(i) {
			return false
		}
		if c.IsNull(i) {
			continue
		}

		switch c.Kind {
		case KindString:
			if c.Strings[i].String != o.Strings[i].String {
				return false
			}
		case KindInt:
			if c.Ints[i].Int64 != o.Ints[i].Int64 {
				return false
			}
		case KindFloat:
			if math.Float64bits(c.Floats[i].Float64) != math.Float64bits(o.Floats[i].Float64) {
				return false
			}
		case KindBool:
			if c.Bools[i].Bool != o.Bools[i].Bool {
				return false
			}
		case KindTime:
			if !c.Times[i].Time.Equal(o.Times[i].Time) {
				return false
			}
		}
	}

	return true
}
