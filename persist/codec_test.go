package persist

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/JennyZadeh/bioc-rnaseq/experiment"
	"github.com/JennyZadeh/bioc-rnaseq/table"
	blake2b "github.com/minio/blake2b-simd"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"
)

func sample(t *testing.T) *experiment.Container {
	t.Helper()

	assay, err := experiment.NewAssay("logcounts",
		[]string{"GeneA", "GeneB", "GeneC"},
		[]string{"S1", "S2"},
		[][]float64{{1.5, math.NaN()}, {0, -2.25}, {math.Inf(1), 1e-300}})
	require.NoError(t, err)

	biotype := table.Strings("type", "mRNA", "", "ncRNA")
	biotype.Strings[2] = null.String{}

	rowAnn, err := table.New("gene", []string{"GeneC", "GeneA", "GeneB"},
		biotype,
		table.Ints("length", 300, -1, 1<<40),
		table.Bools("mito", false, true, false),
	)
	require.NoError(t, err)

	when := time.Date(2021, 3, 4, 5, 6, 7, 8, time.FixedZone("EST", -5*3600))
	colAnn, err := table.New("", []string{"S1", "S2"},
		table.Floats("rin", 7.5, math.NaN()),
		table.Times("collected", when, when.Add(time.Hour)),
	)
	require.NoError(t, err)

	c, err := experiment.Build(assay, rowAnn, colAnn)
	require.NoError(t, err)
	return c
}

func TestRoundTrip(t *testing.T) {
	c := sample(t)

	data, err := Marshal(c)
	require.NoError(t, err)

	back, err := Unmarshal(data)
	require.NoError(t, err)
	require.True(t, c.Equal(back))
	require.True(t, back.Assay().IsNA(0, 1))
	require.NoError(t, back.Validate())

	again, err := Marshal(back)
	require.NoError(t, err)
	require.Equal(t, data, again)
}

func TestRoundTripDegenerate(t *testing.T) {
	assay, err := experiment.NewCountAssay("counts", []string{"g1", "g2"}, nil, [][]int64{{}, {}})
	require.NoError(t, err)
	c, err := experiment.Build(assay, nil, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, c))
	back, err := Decode(&buf)
	require.NoError(t, err)
	require.True(t, c.Equal(back))
	require.Equal(t, experiment.Integer, back.Assay().Storage())
}

func TestInspect(t *testing.T) {
	data, err := Marshal(sample(t))
	require.NoError(t, err)

	h, err := Inspect(data)
	require.NoError(t, err)
	require.Equal(t, Version, h.Version)
	require.Equal(t, Producer, h.Producer)
}

func TestCorruptionIsDetected(t *testing.T) {
	data, err := Marshal(sample(t))
	require.NoError(t, err)

	for _, pos := range []int{len(Magic) + 3, len(data) / 2, len(data) - 1} {
		bad := append([]byte(nil), data...)
		bad[pos] ^= 0x40

		_, err := Unmarshal(bad)
		require.True(t, errors.Is(err, ErrPersistence), "flip at %d", pos)
		require.True(t, errors.Is(err, ErrChecksum), "flip at %d", pos)
	}

	_, err = Unmarshal(data[:len(data)-10])
	require.True(t, errors.Is(err, ErrPersistence))

	_, err = Unmarshal([]byte("gene,S1\n"))
	require.True(t, errors.Is(err, ErrNotSnapshot))

	_, err = Unmarshal(nil)
	require.True(t, errors.Is(err, ErrNotSnapshot))
}

// reseal rewrites the version and recomputes the checksum, as a future
// writer would.
func reseal(data []byte, version uint16) []byte {
	out := append([]byte(nil), data[:len(data)-checksumLen]...)
	binary.LittleEndian.PutUint16(out[len(Magic):], version)
	sum := blake2b.Sum256(out)
	return append(out, sum[:]...)
}

func TestUnsupportedVersion(t *testing.T) {
	data, err := Marshal(sample(t))
	require.NoError(t, err)

	_, err = Unmarshal(reseal(data, Version+1))
	require.True(t, errors.Is(err, ErrPersistence))
	require.True(t, errors.Is(err, ErrUnsupportedVersion))

	_, err = Unmarshal(reseal(data, Version))
	require.NoError(t, err)
}

func TestMarshalRejectsInvalidContainer(t *testing.T) {
	_, err := Marshal(&experiment.Container{})
	require.True(t, errors.Is(err, experiment.ErrInvariantViolation))
}

func TestUnmarshalRevalidatesAlignment(t *testing.T) {
	assay, err := experiment.NewCountAssay("counts", []string{"g1", "g2"}, []string{"S1"}, [][]int64{{1}, {2}})
	require.NoError(t, err)
	rowAnn, err := table.New("gene", []string{"g1", "g9"}, table.Strings("type", "mRNA", "ncRNA"))
	require.NoError(t, err)
	colAnn, err := table.New("", []string{"S1"})
	require.NoError(t, err)

	var body encoder
	encodeAssay(&body, assay)
	require.NoError(t, encodeTable(&body, rowAnn))
	require.NoError(t, encodeTable(&body, colAnn))
	data, err := seal(body.buf.Bytes())
	require.NoError(t, err)

	_, err = Inspect(data)
	require.NoError(t, err)

	_, err = Unmarshal(data)
	require.True(t, errors.Is(err, ErrPersistence))
	require.True(t, errors.Is(err, experiment.ErrRowAlignment))

	var ae *experiment.AlignmentError
	require.True(t, errors.As(err, &ae))
	require.Equal(t, []string{"g2"}, ae.Missing)
	require.Equal(t, []string{"g9"}, ae.Extra)
}

func TestMarshalReportsUnencodableTime(t *testing.T) {
	assay, err := experiment.NewCountAssay("counts", []string{"g1"}, []string{"S1"}, [][]int64{{1}})
	require.NoError(t, err)

	// Zone offsets beyond 32767 minutes have no binary form.
	odd := time.Date(2021, 1, 1, 0, 0, 0, 0, time.FixedZone("odd", 32768*60))
	colAnn, err := table.New("", []string{"S1"}, table.Times("collected", odd))
	require.NoError(t, err)

	c, err := experiment.Build(assay, nil, colAnn)
	require.NoError(t, err)

	_, err = Marshal(c)
	require.Error(t, err)
	require.Contains(t, err.Error(), `column "collected"`)
}

func TestFileRoundTrip(t *testing.T) {
	c := sample(t)
	path := filepath.Join(t.TempDir(), "experiment.rsex")

	require.NoError(t, WriteFile(context.Background(), path, c, nil))
	back, err := ReadFile(context.Background(), path, nil)
	require.NoError(t, err)
	require.True(t, c.Equal(back))

	_, err = ReadFile(context.Background(), path+".missing", nil)
	require.Error(t, err)
}

func TestReadFileDecompresses(t *testing.T) {
	c := sample(t)
	data, err := Marshal(c)
	require.NoError(t, err)

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err = zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "experiment.rsex.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	back, err := ReadFile(context.Background(), path, nil)
	require.NoError(t, err)
	require.True(t, c.Equal(back))
}
