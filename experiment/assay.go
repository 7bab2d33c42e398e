package experiment

import (
	"fmt"
	"math"

	"github.com/JennyZadeh/bioc-rnaseq/table"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/guregu/null.v3"
)

// Storage records the numeric type an assay was read as.
type Storage byte

const (
	Double Storage = iota
	Integer
)

func (s Storage) String() string {
	if s == Integer {
		return "integer"
	}
	return "double"
}

// Assay is a dense R×C matrix with one key per row (feature) and one per
// column (sample). Values are held as float64 in row-major order; Integer
// storage only promises every present value is integral. Missing cells are
// tracked separately from NaN. An Assay never changes after construction.
type Assay struct {
	name    string
	rowKeys []string
	colKeys []string
	storage Storage
	data    []float64
	na      []bool // nil when nothing is missing
}

// NewAssay builds a Double assay from row-major values. NaN cells are
// recorded as missing; use NewAssayWithMissing to keep a computed NaN apart
// from an NA.
func NewAssay(name string, rowKeys, colKeys []string, values [][]float64) (*Assay, error) {
	if len(values) != len(rowKeys) {
		return nil, fmt.Errorf("%w: %d rows of values for %d row keys", ErrMalformedAssay, len(values), len(rowKeys))
	}

	data := make([]float64, 0, len(rowKeys)*len(colKeys))
	var na []bool
	for i, row := range values {
		if len(row) != len(colKeys) {
			return nil, fmt.Errorf("%w: row %q has %d values for %d column keys", ErrMalformedAssay, rowKeys[i], len(row), len(colKeys))
		}
		for j, v := range row {
			if math.IsNaN(v) {
				if na == nil {
					na = make([]bool, len(rowKeys)*len(colKeys))
				}
				na[i*len(colKeys)+j] = true
			}
			data = append(data, v)
		}
	}

	return newAssay(name, rowKeys, colKeys, Double, data, na), nil
}

// NewAssayWithMissing builds a Double assay whose missing cells are given by
// the row-major mask missing rather than inferred from NaN. A NaN value with a
// false flag stays a present NaN.
func NewAssayWithMissing(name string, rowKeys, colKeys []string, values [][]float64, missing [][]bool) (*Assay, error) {
	if len(values) != len(rowKeys) || len(missing) != len(rowKeys) {
		return nil, fmt.Errorf("%w: %d rows of values and %d rows of flags for %d row keys", ErrMalformedAssay, len(values), len(missing), len(rowKeys))
	}

	data := make([]float64, 0, len(rowKeys)*len(colKeys))
	var na []bool
	for i, row := range values {
		if len(row) != len(colKeys) || len(missing[i]) != len(colKeys) {
			return nil, fmt.Errorf("%w: row %q has %d values and %d flags for %d column keys", ErrMalformedAssay, rowKeys[i], len(row), len(missing[i]), len(colKeys))
		}
		for j, v := range row {
			if missing[i][j] {
				if na == nil {
					na = make([]bool, len(rowKeys)*len(colKeys))
				}
				na[i*len(colKeys)+j] = true
			}
			data = append(data, v)
		}
	}

	return newAssay(name, rowKeys, colKeys, Double, data, na), nil
}

// NewCountAssay builds an Integer assay from row-major counts.
func NewCountAssay(name string, rowKeys, colKeys []string, counts [][]int64) (*Assay, error) {
	if len(counts) != len(rowKeys) {
		return nil, fmt.Errorf("%w: %d rows of counts for %d row keys", ErrMalformedAssay, len(counts), len(rowKeys))
	}

	data := make([]float64, 0, len(rowKeys)*len(colKeys))
	for i, row := range counts {
		if len(row) != len(colKeys) {
			return nil, fmt.Errorf("%w: row %q has %d counts for %d column keys", ErrMalformedAssay, rowKeys[i], len(row), len(colKeys))
		}
		for _, v := range row {
			data = append(data, float64(v))
		}
	}

	return newAssay(name, rowKeys, colKeys, Integer, data, nil), nil
}

// AssayFromTable turns a count table into an assay: the table's keys become
// row keys and every other column becomes one sample. All sample columns must
// be numeric; if they are all integer columns the assay has Integer storage.
func AssayFromTable(name string, t *table.Table) (*Assay, error) {
	rowKeys := t.Keys()
	colKeys := t.ColumnNames()
	r, c := len(rowKeys), len(colKeys)

	storage := Integer
	cols := t.Columns()
	for _, col := range cols {
		if !col.Kind.Numeric() {
			return nil, fmt.Errorf("%w: sample column %q holds %s values", ErrMalformedAssay, col.Name, col.Kind)
		}
		if col.Kind != table.KindInt {
			storage = Double
		}
	}

	data := make([]float64, r*c)
	var na []bool
	for j, col := range cols {
		for i := 0; i < r; i++ {
			if col.IsNull(i) {
				if na == nil {
					na = make([]bool, r*c)
				}
				na[i*c+j] = true
				data[i*c+j] = math.NaN()
				continue
			}

			if col.Kind == table.KindInt {
				data[i*c+j] = float64(col.Ints[i].Int64)
			} else {
				data[i*c+j] = col.Floats[i].Float64
			}
		}
	}

	return newAssay(name, rowKeys, colKeys, storage, data, na), nil
}

// RestoreAssay rebuilds an assay from its raw row-major buffers, as produced
// by Values and Missing. missing may be nil.
func RestoreAssay(name string, rowKeys, colKeys []string, storage Storage, values []float64, missing []bool) (*Assay, error) {
	n := len(rowKeys) * len(colKeys)
	if len(values) != n {
		return nil, fmt.Errorf("%w: %d values for a %dx%d assay", ErrMalformedAssay, len(values), len(rowKeys), len(colKeys))
	}
	if missing != nil && len(missing) != n {
		return nil, fmt.Errorf("%w: %d missing-value flags for a %dx%d assay", ErrMalformedAssay, len(missing), len(rowKeys), len(colKeys))
	}
	if storage != Double && storage != Integer {
		return nil, fmt.Errorf("%w: unknown storage %d", ErrMalformedAssay, storage)
	}

	a := &Assay{
		name:    name,
		rowKeys: append(make([]string, 0, len(rowKeys)), rowKeys...),
		colKeys: append(make([]string, 0, len(colKeys)), colKeys...),
		storage: storage,
		data:    append(make([]float64, 0, n), values...),
	}
	if missing != nil {
		a.na = append(make([]bool, 0, n), missing...)
	}

	return a, nil
}

// newAssay copies its inputs.
func newAssay(name string, rowKeys, colKeys []string, storage Storage, data []float64, na []bool) *Assay {
	a := &Assay{
		name:    name,
		rowKeys: append(make([]string, 0, len(rowKeys)), rowKeys...),
		colKeys: append(make([]string, 0, len(colKeys)), colKeys...),
		storage: storage,
		data:    append(make([]float64, 0, len(data)), data...),
	}
	if na != nil {
		a.na = append(make([]bool, 0, len(na)), na...)
		for k, missing := range a.na {
			if missing {
				a.data[k] = math.NaN()
			}
		}
	}

	return a
}

// Name is the assay name, e.g. "counts".
func (a *Assay) Name() string {
	return a.name
}

// Dims returns the number of rows and columns.
func (a *Assay) Dims() (r, c int) {
	return len(a.rowKeys), len(a.colKeys)
}

func (a *Assay) Storage() Storage {
	return a.storage
}

// RowKeys returns a copy of the feature keys.
func (a *Assay) RowKeys() []string {
	return append(make([]string, 0, len(a.rowKeys)), a.rowKeys...)
}

// ColumnKeys returns a copy of the sample keys.
func (a *Assay) ColumnKeys() []string {
	return append(make([]string, 0, len(a.colKeys)), a.colKeys...)
}

// At returns the value at row i, column j; missing cells are NaN. It panics
// if the indices are out of range.
func (a *Assay) At(i, j int) float64 {
	a.checkIndex(i, j)
	return a.data[i*len(a.colKeys)+j]
}

// IsNA reports whether the cell at row i, column j is missing.
func (a *Assay) IsNA(i, j int) bool {
	a.checkIndex(i, j)
	return a.na != nil && a.na[i*len(a.colKeys)+j]
}

// HasNA reports whether any cell is missing.
func (a *Assay) HasNA() bool {
	for _, missing := range a.na {
		if missing {
			return true
		}
	}
	return false
}

func (a *Assay) checkIndex(i, j int) {
	if i < 0 || i >= len(a.rowKeys) || j < 0 || j >= len(a.colKeys) {
		panic(fmt.Sprintf("experiment: assay index (%d,%d) out of range for %dx%d", i, j, len(a.rowKeys), len(a.colKeys)))
	}
}

// Values returns a row-major copy of every cell, bit for bit.
func (a *Assay) Values() []float64 {
	return append(make([]float64, 0, len(a.data)), a.data...)
}

// Missing returns a row-major copy of the missing-value flags, or nil when no
// flags are stored.
func (a *Assay) Missing() []bool {
	if a.na == nil {
		return nil
	}
	return append(make([]bool, 0, len(a.na)), a.na...)
}

// Row returns a copy of row i.
func (a *Assay) Row(i int) []float64 {
	if i < 0 || i >= len(a.rowKeys) {
		panic(fmt.Sprintf("experiment: assay row %d out of range for %d rows", i, len(a.rowKeys)))
	}
	c := len(a.colKeys)
	return append(make([]float64, 0, c), a.data[i*c:(i+1)*c]...)
}

// Column returns a copy of column j.
func (a *Assay) Column(j int) []float64 {
	if j < 0 || j >= len(a.colKeys) {
		panic(fmt.Sprintf("experiment: assay column %d out of range for %d columns", j, len(a.colKeys)))
	}
	c := len(a.colKeys)
	out := make([]float64, len(a.rowKeys))
	for i := range out {
		out[i] = a.data[i*c+j]
	}
	return out
}

// Dense returns a copy of the values as a gonum matrix, or nil for a
// degenerate assay, which gonum cannot represent.
func (a *Assay) Dense() *mat.Dense {
	r, c := a.Dims()
	if r == 0 || c == 0 {
		return nil
	}
	return mat.NewDense(r, c, append(make([]float64, 0, len(a.data)), a.data...))
}

// Table renders the assay as a count table keyed by keyName, the inverse of
// AssayFromTable.
func (a *Assay) Table(keyName string) (*table.Table, error) {
	r, c := a.Dims()
	cols := make([]table.Column, c)
	for j := 0; j < c; j++ {
		col := table.Column{Name: a.colKeys[j]}
		if a.storage == Integer {
			col.Kind = table.KindInt
			col.Ints = make([]null.Int, r)
		} else {
			col.Kind = table.KindFloat
			col.Floats = make([]null.Float, r)
		}
		for i := 0; i < r; i++ {
			if a.IsNA(i, j) {
				continue
			}
			if a.storage == Integer {
				col.Ints[i] = null.IntFrom(int64(a.At(i, j)))
			} else {
				col.Floats[i] = null.FloatFrom(a.At(i, j))
			}
		}
		cols[j] = col
	}

	return table.New(keyName, a.rowKeys, cols...)
}

// take copies the cells at the given row and column positions.
func (a *Assay) take(rows, cols []int) *Assay {
	c := len(a.colKeys)
	out := &Assay{
		name:    a.name,
		rowKeys: make([]string, len(rows)),
		colKeys: make([]string, len(cols)),
		storage: a.storage,
		data:    make([]float64, len(rows)*len(cols)),
	}
	for k, i := range rows {
		out.rowKeys[k] = a.rowKeys[i]
	}
	for k, j := range cols {
		out.colKeys[k] = a.colKeys[j]
	}
	if a.na != nil {
		out.na = make([]bool, len(rows)*len(cols))
	}

	for ki, i := range rows {
		for kj, j := range cols {
			out.data[ki*len(cols)+kj] = a.data[i*c+j]
			if a.na != nil {
				out.na[ki*len(cols)+kj] = a.na[i*c+j]
			}
		}
	}

	return out
}

// validShape reports whether the buffers agree with the key counts.
func (a *Assay) validShape() bool {
	n := len(a.rowKeys) * len(a.colKeys)
	return len(a.data) == n && (a.na == nil || len(a.na) == n)
}

// Equal reports whether two assays have the same name, storage, keys in the
// same order, and the same cells bit for bit, missing cells included.
func (a *Assay) Equal(o *Assay) bool {
	if a == nil || o == nil {
		return a == o
	}
	if a.name != o.name || a.storage != o.storage || !equalStrings(a.rowKeys, o.rowKeys) || !equalStrings(a.colKeys, o.colKeys) || len(a.data) != len(o.data) {
		return false
	}
	for k := range a.data {
		if math.Float64bits(a.data[k]) != math.Float64bits(o.data[k]) {
			return false
		}
		if (a.na != nil && a.na[k]) != (o.na != nil && o.na[k]) {
			return false
		}
	}
	return true
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
