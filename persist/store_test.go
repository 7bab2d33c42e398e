package persist

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	s, err := OpenStore(filepath.Join(t.TempDir(), "snapshots.db"))
	require.NoError(t, err)
	defer s.Close()

	c := sample(t)
	require.NoError(t, s.Put("liver", c))
	require.NoError(t, s.Put("brain", c))

	got, err := s.Get("liver")
	require.NoError(t, err)
	require.True(t, c.Equal(got))

	list, err := s.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "brain", list[0].Name)
	require.Equal(t, "logcounts", list[0].Assay)
	require.Equal(t, 3, list[0].Rows)
	require.Equal(t, 2, list[0].Columns)
	require.Equal(t, Producer, list[0].Producer)

	// Put replaces.
	require.NoError(t, s.Put("liver", c))
	list, err = s.List()
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.NoError(t, s.Delete("liver"))
	_, err = s.Get("liver")
	require.True(t, errors.Is(err, ErrNotFound))
	require.True(t, errors.Is(s.Delete("liver"), ErrNotFound))
}
