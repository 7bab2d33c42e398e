package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JennyZadeh/bioc-rnaseq/experiment"
	"github.com/JennyZadeh/bioc-rnaseq/persist"
	"github.com/JennyZadeh/bioc-rnaseq/table"
	"github.com/stretchr/testify/require"
)

func container(t *testing.T) *experiment.Container {
	t.Helper()

	assay, err := experiment.NewCountAssay("counts", []string{"GeneA", "GeneB"}, []string{"S1", "S2"}, [][]int64{{10, 20}, {30, 0}})
	require.NoError(t, err)
	rowAnn, err := table.New("gene_id", []string{"GeneA", "GeneB"}, table.Strings("type", "mRNA", "ncRNA"))
	require.NoError(t, err)

	c, err := experiment.Build(assay, rowAnn, nil)
	require.NoError(t, err)
	return c
}

func TestPrintSamples(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printSamples(&buf, container(t)))
	require.Equal(t, "sample\tlibrary_size\tdetected\tmissing\nS1\t40\t2\t0\nS2\t20\t1\t0\n", buf.String())
}

func TestPrintFeatures(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printFeatures(&buf, container(t)))
	require.Equal(t, "feature\tmean\tvariance\tmissing\nGeneA\t15\t50\t0\nGeneB\t15\t450\t0\n", buf.String())
}

func TestPrintList(t *testing.T) {
	store, err := persist.OpenStore(filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Put("liver", container(t)))

	var buf bytes.Buffer
	require.NoError(t, printList(&buf, store))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[1], "liver\tcounts\t2\t2\t"))
}

func TestExportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	c := container(t)
	in := filepath.Join(dir, "exp.rsex")
	require.NoError(t, persist.WriteFile(context.Background(), in, c, nil))

	counts := filepath.Join(dir, "counts.tsv")
	rowdata := filepath.Join(dir, "rowdata.tsv")
	require.NoError(t, run(context.Background(), in, "", "", false, "none", counts, rowdata, ""))

	data, err := os.ReadFile(counts)
	require.NoError(t, err)
	require.Equal(t, "gene_id\tS1\tS2\nGeneA\t10\t20\nGeneB\t30\t0\n", string(data))

	src := experiment.Sources{
		Counts:  experiment.Source{Path: counts, Layout: table.Layouts["tsv"]},
		RowData: experiment.Source{Path: rowdata, Layout: table.Layouts["tsv"]},
	}
	back, err := experiment.Import(context.Background(), src, nil)
	require.NoError(t, err)
	require.True(t, c.Assay().Equal(back.Assay()))
	require.True(t, c.RowAnnotation().Equal(back.RowAnnotation()))
}
