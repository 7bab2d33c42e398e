package main

import (
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/JennyZadeh/bioc-rnaseq/gtf"
	"github.com/stretchr/testify/require"
)

func TestReadFeaturesGzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte("chr1\tHAVANA\tgene\t11869\t14409\t.\t+\t.\tgene_id \"ENSG00000223972.5\"; gene_name \"DDX11L1\";\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "genes.gtf.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	ann, err := readFeatures(context.Background(), path, gtf.DefaultOptions)
	require.NoError(t, err)
	require.Equal(t, []string{"ENSG00000223972.5"}, ann.Keys())
	require.True(t, ann.HasColumn("gene_name"))
}
