package align

import (
	"errors"
	"testing"

	"github.com/JennyZadeh/bioc-rnaseq/table"
	"github.com/stretchr/testify/require"
)

func TestCheckIdentical(t *testing.T) {
	for _, v := range []struct {
		Name   string
		A, B   []string
		Status Status
		Perm   []int
		OnlyA  []string
		OnlyB  []string
	}{
		{"identical", []string{"g1", "g2", "g3"}, []string{"g1", "g2", "g3"}, Identical, nil, nil, nil},
		{"both empty", nil, []string{}, Identical, nil, nil, nil},
		{"reordered", []string{"g1", "g2", "g3"}, []string{"g3", "g1", "g2"}, SameSetDifferentOrder, []int{1, 2, 0}, nil, nil},
		{"set mismatch", []string{"s1", "s2"}, []string{"s1", "s3"}, Mismatched, nil, []string{"s2"}, []string{"s3"}},
		{"subset", []string{"s1", "s2"}, []string{"s1"}, Mismatched, nil, []string{"s2"}, nil},
	} {
		got := CheckIdentical(v.A, v.B)
		require.Equal(t, v.Status, got.Status, v.Name)
		require.Equal(t, v.Perm, got.Permutation, v.Name)
		require.Equal(t, v.OnlyA, got.OnlyInA, v.Name)
		require.Equal(t, v.OnlyB, got.OnlyInB, v.Name)

		if got.Status == SameSetDifferentOrder {
			for i, p := range got.Permutation {
				require.Equal(t, v.A[i], v.B[p], v.Name)
			}
		}
	}
}

func TestCheckIdenticalDuplicates(t *testing.T) {
	// Same length and same set, but the counts differ: never a permutation.
	got := CheckIdentical([]string{"g1", "g1", "g2"}, []string{"g1", "g2", "g2"})
	require.Equal(t, Mismatched, got.Status)
	require.Equal(t, []string{"g1"}, got.DuplicatesA)
	require.Equal(t, []string{"g2"}, got.DuplicatesB)
	require.Empty(t, got.OnlyInA)
	require.Empty(t, got.OnlyInB)
	require.Contains(t, got.String(), "duplicated in A: [g1]")
}

func TestCheckIdenticalLeavesInputsAlone(t *testing.T) {
	a := []string{"g1", "g2"}
	b := []string{"g2", "g1"}
	CheckIdentical(a, b)
	require.Equal(t, []string{"g1", "g2"}, a)
	require.Equal(t, []string{"g2", "g1"}, b)
}

func TestReorder(t *testing.T) {
	tab, err := table.New("gene", []string{"g3", "g1", "g2"},
		table.Strings("type", "c", "a", "b"),
	)
	require.NoError(t, err)

	out, err := Reorder(tab, []string{"g1", "g2", "g3"})
	require.NoError(t, err)
	require.Equal(t, []string{"g1", "g2", "g3"}, out.Keys())
	col, _ := out.Column("type")
	require.Equal(t, "a", col.Strings[0].String)
	require.Equal(t, "c", col.Strings[2].String)

	same, err := Reorder(tab, []string{"g3", "g1", "g2"})
	require.NoError(t, err)
	require.True(t, same.Equal(tab))
}

func TestReorderRefusesSetMismatch(t *testing.T) {
	tab, err := table.New("sample", []string{"s1", "s3"})
	require.NoError(t, err)

	out, err := Reorder(tab, []string{"s1", "s2"})
	require.Nil(t, out)
	require.True(t, errors.Is(err, ErrKeySetMismatch))

	var kse *KeySetError
	require.True(t, errors.As(err, &kse))
	require.Equal(t, []string{"s2"}, kse.Missing)
	require.Equal(t, []string{"s3"}, kse.Extra)

	// Dropping or duplicating rows is never an acceptable repair.
	_, err = Reorder(tab, []string{"s1"})
	require.True(t, errors.Is(err, ErrKeySetMismatch))
	_, err = Reorder(tab, []string{"s1", "s3", "s3"})
	require.True(t, errors.Is(err, ErrKeySetMismatch))
}

func TestSummarize(t *testing.T) {
	require.Equal(t, "[a, b]", Summarize([]string{"a", "b"}))

	keys := make([]string, 12)
	for i := range keys {
		keys[i] = string(rune('a' + i))
	}
	require.Equal(t, "[a, b, c, d, e, f, g, h, i, j, ... and 2 more]", Summarize(keys))
}
