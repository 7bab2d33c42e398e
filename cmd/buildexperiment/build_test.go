package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/JennyZadeh/bioc-rnaseq/experiment"
	"github.com/JennyZadeh/bioc-rnaseq/persist"
	"github.com/stretchr/testify/require"
)

func defaultConfig() config {
	return config{
		AssayName:     experiment.DefaultAssayName,
		CountsLayout:  "auto",
		RowDataLayout: "auto",
		ColDataLayout: "auto",
		GTFFeature:    "gene",
		GTFKey:        "gene_id",
	}
}

func write(t *testing.T, dir, name, body string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestRunWritesSnapshot(t *testing.T) {
	dir := t.TempDir()
	j := job{
		Counts:  write(t, dir, "counts.tsv", "gene_id\tS1\tS2\nGeneA\t10\t20\nGeneB\t30\t40\n"),
		ColData: write(t, dir, "coldata.csv", "sample,sex\nS2,M\nS1,F\n"),
		Out:     filepath.Join(dir, "out.rsex"),
	}

	require.NoError(t, run(context.Background(), defaultConfig(), j, nil))

	c, err := persist.ReadFile(context.Background(), j.Out, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"S1", "S2"}, c.ColumnAnnotation().Keys())
}

func TestBuildRefusesMismatchedAnnotation(t *testing.T) {
	dir := t.TempDir()
	j := job{
		Counts:  write(t, dir, "counts.tsv", "gene_id\tS1\nGeneA\t10\nGeneB\t30\n"),
		RowData: write(t, dir, "rowdata.tsv", "gene_id\ttype\nGeneA\tmRNA\nGeneC\tncRNA\n"),
		Out:     filepath.Join(dir, "out.rsex"),
	}

	_, err := build(context.Background(), defaultConfig(), j)
	require.True(t, errors.Is(err, experiment.ErrRowAlignment))
	require.Contains(t, err.Error(), "GeneC")
}

func TestBuildWithGTF(t *testing.T) {
	dir := t.TempDir()
	j := job{
		Counts: write(t, dir, "counts.tsv", "gene_id\tS1\nENSG00000227232\t5\nENSG00000223972\t7\n"),
		GTF: write(t, dir, "genes.gtf", ""+
			"chr1\tHAVANA\tgene\t11869\t14409\t.\t+\t.\tgene_id \"ENSG00000223972.5\"; gene_name \"DDX11L1\";\n"+
			"chr1\tHAVANA\tgene\t14404\t29570\t.\t-\t.\tgene_id \"ENSG00000227232.5\"; gene_name \"WASH7P\";\n"+
			"chr1\tHAVANA\tgene\t29554\t31109\t.\t+\t.\tgene_id \"ENSG00000243485.5\"; gene_name \"MIR1302-2HG\";\n"),
		Out: filepath.Join(dir, "out.rsex"),
	}

	cfg := defaultConfig()
	cfg.StripVersion = true
	cfg.Assembly = "grch38"

	c, err := build(context.Background(), cfg, j)
	require.NoError(t, err)
	require.Equal(t, []string{"ENSG00000227232", "ENSG00000223972"}, c.RowAnnotation().Keys())

	name, _ := c.RowAnnotation().Record(0).String("gene_name")
	require.Equal(t, "WASH7P", name)
}

func TestReadManifest(t *testing.T) {
	dir := t.TempDir()
	path := write(t, dir, "manifest.csv", "name,counts,coldata,out\nliver,a.tsv,b.csv,liver.rsex\nbrain,c.tsv,,brain.rsex\n")

	jobs, err := readManifest(path)
	require.NoError(t, err)
	require.Equal(t, []job{
		{Name: "liver", Counts: "a.tsv", ColData: "b.csv", Out: "liver.rsex"},
		{Name: "brain", Counts: "c.tsv", Out: "brain.rsex"},
	}, jobs)
}

func TestSnapshotName(t *testing.T) {
	require.Equal(t, "counts", snapshotName("gs://bucket/run1/counts.tsv.gz"))
	require.Equal(t, "counts", snapshotName("counts"))
}
