package table

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRejectsRaggedColumns(t *testing.T) {
	_, err := New("gene", []string{"A", "B"}, Strings("type", "mRNA"))
	require.True(t, errors.Is(err, ErrInvalidTable))

	_, err = New("gene", []string{"A"}, Strings("type", "mRNA"), Ints("type", 1))
	require.True(t, errors.Is(err, ErrInvalidTable))

	_, err = New("gene", []string{"A"}, Strings("gene", "x"))
	require.True(t, errors.Is(err, ErrInvalidTable))

	bad := Strings("type", "mRNA")
	bad.Ints = Ints("x", 1).Ints
	_, err = New("gene", []string{"A"}, bad)
	require.True(t, errors.Is(err, ErrInvalidTable))
}

func TestTakeReordersEveryColumn(t *testing.T) {
	tab, err := New("gene", []string{"A", "B", "C"},
		Strings("type", "mRNA", "ncRNA", "mRNA"),
		Ints("length", 1, 2, 3),
	)
	require.NoError(t, err)

	out, err := tab.Take([]int{2, 0})
	require.NoError(t, err)
	require.Equal(t, []string{"C", "A"}, out.Keys())

	length, _ := out.Column("length")
	require.Equal(t, int64(3), length.Ints[0].Int64)
	require.Equal(t, int64(1), length.Ints[1].Int64)

	// The source is untouched.
	require.Equal(t, []string{"A", "B", "C"}, tab.Keys())

	_, err = tab.Take([]int{3})
	require.True(t, errors.Is(err, ErrOutOfRange))

	empty, err := tab.Take(nil)
	require.NoError(t, err)
	require.Equal(t, 0, empty.Len())
	require.Equal(t, 2, empty.Width())
}

func TestAccessorsDoNotAlias(t *testing.T) {
	tab, err := New("gene", []string{"A", "B"}, Strings("type", "mRNA", "ncRNA"))
	require.NoError(t, err)

	keys := tab.Keys()
	keys[0] = "Z"
	col, _ := tab.Column("type")
	col.Strings[0].String = "changed"

	require.Equal(t, "A", tab.Key(0))
	s, _ := tab.Record(0).String("type")
	require.Equal(t, "mRNA", s)
}

func TestPredicates(t *testing.T) {
	tab, err := New("gene", []string{"A", "B", "C"},
		Strings("type", "mRNA", "ncRNA", "mRNA"),
		Floats("length", 10, 20, 30),
	)
	require.NoError(t, err)

	count := func(p Predicate) int {
		n := 0
		for i := 0; i < tab.Len(); i++ {
			if p(tab.Record(i)) {
				n++
			}
		}
		return n
	}

	require.Equal(t, 2, count(Equals("type", "mRNA")))
	require.Equal(t, 0, count(Equals("missing", "mRNA")))
	require.Equal(t, 3, count(In("type", "mRNA", "ncRNA")))
	require.Equal(t, 2, count(Between("length", 15, 30)))
	require.Equal(t, 1, count(And(Equals("type", "mRNA"), Between("length", 25, 35))))
	require.Equal(t, 3, count(Or(Equals("type", "ncRNA"), Equals("type", "mRNA"))))
	require.Equal(t, 1, count(Not(Equals("type", "mRNA"))))
	require.Equal(t, 2, count(KeyIn("A", "C", "Q")))
}

func TestParseTypeOverrides(t *testing.T) {
	got, err := ParseTypeOverrides("entrez=string, collected=date")
	require.NoError(t, err)
	require.Equal(t, map[string]Kind{"entrez": KindString, "collected": KindTime}, got)

	_, err = ParseTypeOverrides("entrez")
	require.Error(t, err)

	_, err = ParseTypeOverrides("entrez=complex")
	require.Error(t, err)
}

func TestParseLayout(t *testing.T) {
	l, err := ParseLayout("tsv", "gene_id", "entrez=string")
	require.NoError(t, err)
	require.Equal(t, '\t', l.Delimiter)
	require.Equal(t, "gene_id", l.KeyColumn)
	require.Equal(t, map[string]Kind{"entrez": KindString}, l.Types)

	// Presets are not modified.
	require.Nil(t, Layouts["tsv"].Types)

	_, err = ParseLayout("xlsx", "", "")
	require.Error(t, err)
}
