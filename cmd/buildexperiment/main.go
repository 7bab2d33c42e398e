// buildexperiment loads a count matrix together with its feature (row) and
// sample (column) annotations, checks that they describe the same features and
// samples, and saves the aligned experiment as a snapshot. Annotations listed
// in a different order than the matrix are reordered; annotations that name
// different features or samples are refused, and the offending keys are
// printed.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	rnaseq "github.com/JennyZadeh/bioc-rnaseq"
	_ "github.com/JennyZadeh/bioc-rnaseq/compileinfoprint"
	"github.com/JennyZadeh/bioc-rnaseq/experiment"
	"github.com/JennyZadeh/bioc-rnaseq/gtf"
	"github.com/JennyZadeh/bioc-rnaseq/persist"
	"github.com/JennyZadeh/bioc-rnaseq/table"
)

// Safe for concurrent use by multiple goroutines so we'll make this a global
var client *storage.Client

type config struct {
	AssayName string

	CountsLayout  string
	RowDataLayout string
	ColDataLayout string
	RowDataKey    string
	ColDataKey    string
	CountsTypes   string
	RowDataTypes  string
	ColDataTypes  string

	GTFFeature   string
	GTFKey       string
	StripVersion bool
	Assembly     string

	StorePath string
}

// job is one experiment to build: a row of the manifest, or the single
// experiment described on the command line.
type job struct {
	Name    string `csv:"name"`
	Counts  string `csv:"counts"`
	RowData string `csv:"rowdata"`
	ColData string `csv:"coldata"`
	GTF     string `csv:"gtf"`
	Out     string `csv:"out"`
}

func main() {
	var cfg config
	var single job
	var manifest string

	flag.StringVar(&single.Counts, "counts", "", "Path to the count matrix (features by samples). Local or gs://, optionally compressed.")
	flag.StringVar(&single.RowData, "rowdata", "", "(Optional) Path to the feature annotation.")
	flag.StringVar(&single.ColData, "coldata", "", "(Optional) Path to the sample annotation.")
	flag.StringVar(&single.GTF, "gtf", "", "(Optional) Path to a GTF file to use as the feature annotation instead of -rowdata.")
	flag.StringVar(&single.Out, "out", "", "Path of the snapshot to write. Local or gs://.")
	flag.StringVar(&single.Name, "name", "", "Name of the snapshot inside -store. Defaults to the name of the counts file.")
	flag.StringVar(&manifest, "manifest", "", "(Optional) Path to a CSV with columns name,counts,rowdata,coldata,gtf,out. Each row is built as one experiment.")
	flag.StringVar(&cfg.StorePath, "store", "", "(Optional) Path to a SQLite database in which to store the snapshot.")
	flag.StringVar(&cfg.AssayName, "assay", experiment.DefaultAssayName, "Name of the assay.")
	flag.StringVar(&cfg.CountsLayout, "counts_layout", "auto", "Layout of the count matrix. One of: "+table.LayoutNames())
	flag.StringVar(&cfg.RowDataLayout, "rowdata_layout", "auto", "Layout of the feature annotation.")
	flag.StringVar(&cfg.ColDataLayout, "coldata_layout", "auto", "Layout of the sample annotation.")
	flag.StringVar(&cfg.RowDataKey, "rowdata_key", "", "Column of the feature annotation holding feature keys. Defaults to the first column.")
	flag.StringVar(&cfg.ColDataKey, "coldata_key", "", "Column of the sample annotation holding sample keys. Defaults to the first column.")
	flag.StringVar(&cfg.CountsTypes, "counts_types", "", "Column type overrides for the count matrix, e.g. S1=float.")
	flag.StringVar(&cfg.RowDataTypes, "rowdata_types", "", "Column type overrides for the feature annotation, e.g. entrez=string.")
	flag.StringVar(&cfg.ColDataTypes, "coldata_types", "", "Column type overrides for the sample annotation, e.g. batch=string,collected=date.")
	flag.StringVar(&cfg.GTFFeature, "gtf_feature", gtf.DefaultOptions.Feature, "GTF feature type that becomes one row.")
	flag.StringVar(&cfg.GTFKey, "gtf_key", gtf.DefaultOptions.Key, "GTF attribute that holds the feature key.")
	flag.BoolVar(&cfg.StripVersion, "strip_version", false, "Strip Ensembl version suffixes (ENSG00000223972.5 => ENSG00000223972) from GTF keys.")
	flag.StringVar(&cfg.Assembly, "assembly", "", "(Optional) grch37 or grch38. If set, feature coordinates are checked against the chromosome lengths.")
	flag.Parse()

	if rnaseq.IsGoogleStoragePath(manifest) {
		var err error
		client, err = storage.NewClient(context.Background())
		if err != nil {
			log.Fatalln(err)
		}
	}

	var jobs []job
	if manifest != "" {
		var err error
		if jobs, err = readManifest(manifest); err != nil {
			log.Fatalln(err)
		}
	} else {
		jobs = []job{single}
	}

	if len(jobs) == 0 || jobs[0].Counts == "" || (jobs[0].Out == "" && cfg.StorePath == "") {
		flag.PrintDefaults()
		os.Exit(1)
	}

	for _, j := range jobs {
		if client == nil && needsStorageClient(j) {
			var err error
			client, err = storage.NewClient(context.Background())
			if err != nil {
				log.Fatalln(err)
			}
			break
		}
	}

	var store *persist.Store
	if cfg.StorePath != "" {
		var err error
		if store, err = persist.OpenStore(cfg.StorePath); err != nil {
			log.Fatalln(err)
		}
		defer store.Close()
	}

	failed := 0
	for _, j := range jobs {
		if err := run(context.Background(), cfg, j, store); err != nil {
			log.Printf("%s: %v\n", j.Counts, err)
			failed++
		}
	}

	if failed > 0 {
		if store != nil {
			store.Close()
		}
		log.Fatalf("%d of %d experiments could not be built\n", failed, len(jobs))
	}
}

func needsStorageClient(j job) bool {
	for _, path := range []string{j.Counts, j.RowData, j.ColData, j.GTF, j.Out} {
		if rnaseq.IsGoogleStoragePath(path) {
			return true
		}
	}
	return false
}

func run(ctx context.Context, cfg config, j job, store *persist.Store) error {
	c, err := build(ctx, cfg, j)
	if err != nil {
		return err
	}

	r, cols := c.Dims()
	log.Printf("Built %s\n", c)
	if r == 0 || cols == 0 {
		log.Printf("Warning: %s has %d features and %d samples\n", j.Counts, r, cols)
	}

	if j.Out != "" {
		if err := persist.WriteFile(ctx, j.Out, c, client); err != nil {
			return err
		}
		log.Printf("Wrote %s\n", j.Out)
	}

	if store != nil {
		name := j.Name
		if name == "" {
			name = snapshotName(j.Counts)
		}
		if err := store.Put(name, c); err != nil {
			return err
		}
		log.Printf("Stored %s in %s\n", name, cfg.StorePath)
	}

	return nil
}

// snapshotName turns gs://bucket/run1/counts.tsv.gz into counts.
func snapshotName(path string) string {
	name := path[strings.LastIndex(path, "/")+1:]
	if dot := strings.Index(name, "."); dot > 0 {
		name = name[:dot]
	}
	return name
}
