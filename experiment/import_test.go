package experiment

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/JennyZadeh/bioc-rnaseq/table"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestImport(t *testing.T) {
	dir := t.TempDir()
	src := Sources{
		Counts:  Source{Path: writeFile(t, dir, "counts.csv", "\"S1\",\"S2\"\n\"GeneA\",10,20\n\"GeneB\",30,40\n"), Layout: table.Layouts["csv"]},
		RowData: Source{Path: writeFile(t, dir, "rowdata.tsv", "gene\ttype\nGeneB\tncRNA\nGeneA\tmRNA\n"), Layout: table.Layouts["tsv"]},
		ColData: Source{Path: writeFile(t, dir, "coldata.csv", "sample,sex\nS1,F\nS2,M\n"), Layout: table.Layouts["auto"]},
	}

	c, err := Import(context.Background(), src, nil)
	require.NoError(t, err)
	requireAligned(t, c)
	require.Equal(t, DefaultAssayName, c.Assay().Name())
	require.Equal(t, Integer, c.Assay().Storage())

	sub, err := c.SubsetRows(Where(table.Equals("type", "mRNA")))
	require.NoError(t, err)
	require.Equal(t, []float64{10, 20}, sub.Assay().Row(0))
}

func TestImportWithoutAnnotations(t *testing.T) {
	dir := t.TempDir()
	src := Sources{
		AssayName: "tpm",
		Counts:    Source{Path: writeFile(t, dir, "tpm.tsv", "gene\tS1\nGeneA\t1.5\n"), Layout: table.Layouts["tsv"]},
	}

	c, err := Import(context.Background(), src, nil)
	require.NoError(t, err)
	require.Equal(t, "tpm", c.Assay().Name())
	require.Equal(t, 0, c.RowAnnotation().Width())
	require.Equal(t, []string{"S1"}, c.ColumnAnnotation().Keys())
}

func TestImportReportsMismatchedSamples(t *testing.T) {
	dir := t.TempDir()
	src := Sources{
		Counts:  Source{Path: writeFile(t, dir, "counts.csv", "gene,S1,S2\nGeneA,1,2\n"), Layout: table.Layouts["csv"]},
		ColData: Source{Path: writeFile(t, dir, "coldata.csv", "sample,sex\nS1,F\nS3,M\n"), Layout: table.Layouts["csv"]},
	}

	_, err := Import(context.Background(), src, nil)
	require.True(t, errors.Is(err, ErrColumnAlignment))
}

func TestImportReportsMalformedInput(t *testing.T) {
	dir := t.TempDir()
	src := Sources{
		Counts: Source{Path: writeFile(t, dir, "counts.csv", "gene,S1,S2\nGeneA,1\n"), Layout: table.Layouts["csv"]},
	}

	_, err := Import(context.Background(), src, nil)
	require.True(t, errors.Is(err, table.ErrMalformedInput))
	require.Contains(t, err.Error(), "counts.csv")

	src.Counts.Path = filepath.Join(dir, "absent.csv")
	_, err = Import(context.Background(), src, nil)
	require.Error(t, err)
}

func TestImportReportsDuplicateSamples(t *testing.T) {
	dir := t.TempDir()
	src := Sources{
		Counts: Source{Path: writeFile(t, dir, "counts.csv", "gene,S1,S1,S2\ng1,1,2,3\ng2,4,5,6\n"), Layout: table.Layouts["csv"]},
	}

	_, err := Import(context.Background(), src, nil)
	require.True(t, errors.Is(err, ErrDuplicateKey))
	require.False(t, errors.Is(err, table.ErrMalformedInput))

	var de *DuplicateKeyError
	require.True(t, errors.As(err, &de))
	require.Equal(t, Columns, de.Axis)
	require.Equal(t, "assay", de.Source)
	require.Equal(t, []string{"S1"}, de.Keys)

	// Repeated feature keys get the same treatment on the other axis.
	src.Counts.Path = writeFile(t, dir, "rows.csv", "gene,S1\ng1,1\ng1,2\n")
	_, err = Import(context.Background(), src, nil)
	require.True(t, errors.As(err, &de))
	require.Equal(t, Rows, de.Axis)
}
