// gtf2rowdata flattens the features of a GTF file into a feature annotation
// TSV keyed by one attribute, with seqnames/start/end/strand coordinates and
// one column per attribute. The output can be passed to buildexperiment as
// -rowdata.
package main

import (
	"bufio"
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	rnaseq "github.com/JennyZadeh/bioc-rnaseq"
	_ "github.com/JennyZadeh/bioc-rnaseq/compileinfoprint"
	"github.com/JennyZadeh/bioc-rnaseq/gtf"
	"github.com/JennyZadeh/bioc-rnaseq/table"
)

const (
	// Delim is the character used to delimit the output
	Delim = '\t'
)

var (
	STDOUT = bufio.NewWriterSize(os.Stdout, 4096)
	client *storage.Client
)

func main() {
	defer STDOUT.Flush()

	var filename, out, attributes string
	opts := gtf.DefaultOptions

	flag.StringVar(&filename, "file", "", "Path to the GTF file. Local or gs://, optionally compressed.")
	flag.StringVar(&out, "out", "", "(Optional) Path of the TSV to write. Defaults to stdout.")
	flag.StringVar(&opts.Feature, "feature", opts.Feature, "GTF feature type that becomes one row.")
	flag.StringVar(&opts.Key, "key", opts.Key, "GTF attribute that holds the row key.")
	flag.BoolVar(&opts.StripVersion, "strip_version", false, "Strip Ensembl version suffixes from keys.")
	flag.StringVar(&attributes, "attributes", "", "(Optional) Comma-delimited attributes to keep. Defaults to all.")
	flag.Parse()

	if filename == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}
	if attributes != "" {
		opts.Attributes = strings.Split(attributes, ",")
	}

	if rnaseq.IsGoogleStoragePath(filename) || rnaseq.IsGoogleStoragePath(out) {
		var err error
		if client, err = storage.NewClient(context.Background()); err != nil {
			log.Fatalln(err)
		}
	}

	ann, err := readFeatures(context.Background(), filename, opts)
	if err != nil {
		log.Fatalln(err)
	}
	log.Printf("Read %d %s features with %d attributes\n", ann.Len(), opts.Feature, ann.Width())

	if out == "" {
		if err := table.Write(STDOUT, ann, Delim); err != nil {
			log.Fatalln(err)
		}
		return
	}

	var sb strings.Builder
	if err := table.Write(&sb, ann, Delim); err != nil {
		log.Fatalln(err)
	}
	if err := rnaseq.WriteOutput(context.Background(), out, []byte(sb.String()), client); err != nil {
		log.Fatalln(err)
	}
}

func readFeatures(ctx context.Context, filename string, opts gtf.Options) (*table.Table, error) {
	rc, err := rnaseq.OpenInput(ctx, filename, client)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return gtf.Features(rc, opts)
}
