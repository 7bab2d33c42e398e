package experiment

import (
	"errors"
	"testing"

	"github.com/JennyZadeh/bioc-rnaseq/table"
	"github.com/stretchr/testify/require"
)

func TestSubsetRowsByPredicate(t *testing.T) {
	c := scenario(t)

	sub, err := c.SubsetRows(Where(table.Equals("type", "mRNA")))
	require.NoError(t, err)
	requireAligned(t, sub)

	r, cols := sub.Dims()
	require.Equal(t, 1, r)
	require.Equal(t, 2, cols)
	require.Equal(t, []string{"GeneA"}, sub.RowKeys())
	require.Equal(t, []float64{10, 20}, sub.Assay().Row(0))
	require.True(t, sub.ColumnAnnotation().Equal(c.ColumnAnnotation()))

	// The source container is unchanged.
	r, _ = c.Dims()
	require.Equal(t, 2, r)
}

func TestSubsetRowsMatchesPredicateExactly(t *testing.T) {
	keys := []string{"g1", "g2", "g3", "g4", "g5"}
	assay, err := NewAssay("counts", keys, []string{"s1", "s2"}, [][]float64{{1, 2}, {3, 4}, {5, 6}, {7, 8}, {9, 10}})
	require.NoError(t, err)
	rowAnn, err := table.New("gene", keys, table.Ints("len", 5, 50, 500, 5000, 50000))
	require.NoError(t, err)
	c, err := Build(assay, rowAnn, nil)
	require.NoError(t, err)

	p := table.Between("len", 40, 600)
	sub, err := c.SubsetRows(Where(p))
	require.NoError(t, err)
	requireAligned(t, sub)

	var expected []string
	for i := 0; i < rowAnn.Len(); i++ {
		if p(rowAnn.Record(i)) {
			expected = append(expected, rowAnn.Key(i))
		}
	}
	require.Equal(t, expected, sub.RowKeys())
	require.Equal(t, c.ColumnKeys(), sub.ColumnKeys())
	require.Equal(t, []float64{5, 6}, sub.Assay().Row(1))
}

func TestSubsetEmptyResultIsValid(t *testing.T) {
	c := scenario(t)

	sub, err := c.SubsetRows(Where(table.Equals("type", "snoRNA")))
	require.NoError(t, err)
	require.True(t, sub.Degenerate())
	requireAligned(t, sub)

	sub, err = c.SubsetColumns(Where(table.Equals("sex", "X")))
	require.NoError(t, err)
	r, cols := sub.Dims()
	require.Equal(t, 2, r)
	require.Equal(t, 0, cols)
	requireAligned(t, sub)
}

func TestSubsetColumnsByKeysReorders(t *testing.T) {
	c := scenario(t)

	sub, err := c.SubsetColumns(Keys("S2", "S1"))
	require.NoError(t, err)
	requireAligned(t, sub)
	require.Equal(t, []string{"S2", "S1"}, sub.ColumnKeys())
	require.Equal(t, []float64{20, 10}, sub.Assay().Row(0))

	sex, _ := sub.ColumnAnnotation().Record(0).String("sex")
	require.Equal(t, "M", sex)
}

func TestSubsetByIndices(t *testing.T) {
	c := scenario(t)

	sub, err := c.SubsetRows(Indices(1))
	require.NoError(t, err)
	require.Equal(t, []string{"GeneB"}, sub.RowKeys())

	_, err = c.SubsetRows(Indices(2))
	require.True(t, errors.Is(err, ErrIndexOutOfRange))

	_, err = c.SubsetRows(Indices(0, 0))
	require.True(t, errors.Is(err, ErrDuplicateKey))
}

func TestSubsetRejectsBadKeys(t *testing.T) {
	c := scenario(t)

	_, err := c.SubsetRows(Keys("GeneA", "GeneZ", "GeneY"))
	require.True(t, errors.Is(err, ErrUnknownKey))
	var ue *UnknownKeyError
	require.True(t, errors.As(err, &ue))
	require.Equal(t, Rows, ue.Axis)
	require.Equal(t, []string{"GeneZ", "GeneY"}, ue.Keys)

	_, err = c.SubsetColumns(Keys("S1", "S1"))
	var de *DuplicateKeyError
	require.True(t, errors.As(err, &de))
	require.Equal(t, Columns, de.Axis)
	require.Equal(t, "selector", de.Source)
}

func TestSubsetBothIsAllOrNothing(t *testing.T) {
	c := scenario(t)

	sub, err := c.SubsetBoth(Keys("GeneB"), Where(table.Equals("sex", "F")))
	require.NoError(t, err)
	requireAligned(t, sub)
	require.Equal(t, []string{"GeneB"}, sub.RowKeys())
	require.Equal(t, []string{"S1"}, sub.ColumnKeys())
	require.Equal(t, 30.0, sub.Assay().At(0, 0))

	// A bad column selector means no container at all, even though the row
	// selector alone is fine.
	out, err := c.SubsetBoth(Keys("GeneB"), Keys("S9"))
	require.Nil(t, out)
	require.True(t, errors.Is(err, ErrUnknownKey))
}

func TestZeroSelectorKeepsEverything(t *testing.T) {
	c := scenario(t)

	sub, err := c.SubsetBoth(Selector{}, Where(nil))
	require.NoError(t, err)
	require.True(t, sub.Equal(c))
}

func TestSubsetCarriesMissingValues(t *testing.T) {
	assay, err := NewAssay("logcounts", []string{"g1", "g2"}, []string{"s1", "s2"}, [][]float64{{1, nan()}, {3, 4}})
	require.NoError(t, err)
	c, err := Build(assay, nil, nil)
	require.NoError(t, err)

	sub, err := c.SubsetColumns(Keys("s2"))
	require.NoError(t, err)
	require.True(t, sub.Assay().IsNA(0, 0))
	require.False(t, sub.Assay().IsNA(1, 0))
}
