// subsetexperiment reads an experiment snapshot, keeps the features and
// samples that match the given filters, and writes the result as a new
// snapshot. Every filter is checked before anything is written.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"cloud.google.com/go/storage"
	rnaseq "github.com/JennyZadeh/bioc-rnaseq"
	_ "github.com/JennyZadeh/bioc-rnaseq/compileinfoprint"
	"github.com/JennyZadeh/bioc-rnaseq/experiment"
	"github.com/JennyZadeh/bioc-rnaseq/persist"
)

var client *storage.Client

type filters struct {
	RowWhere string
	RowKeys  string
	ColWhere string
	ColKeys  string
	Region   string
}

func main() {
	var in, out, storePath, name, outName string
	var f filters

	flag.StringVar(&in, "in", "", "Path to the snapshot to read. Local or gs://.")
	flag.StringVar(&out, "out", "", "Path of the snapshot to write. Local or gs://.")
	flag.StringVar(&storePath, "store", "", "(Optional) SQLite snapshot store to read from and write to, instead of -in and -out.")
	flag.StringVar(&name, "name", "", "Name of the snapshot to read from -store.")
	flag.StringVar(&outName, "out_name", "", "Name under which to save the subset in -store.")
	flag.StringVar(&f.RowWhere, "rows", "", "Feature filter on the row annotation, e.g. 'type=mRNA|lncRNA,chromosome=1'. Conditions are ANDed.")
	flag.StringVar(&f.RowKeys, "row_keys", "", "Comma-delimited feature keys to keep, in that order.")
	flag.StringVar(&f.ColWhere, "cols", "", "Sample filter on the column annotation, e.g. 'sex=F'.")
	flag.StringVar(&f.ColKeys, "col_keys", "", "Comma-delimited sample keys to keep, in that order.")
	flag.StringVar(&f.Region, "region", "", "Keep features overlapping a region, e.g. chr1:100000-200000 or chr1:100000-200000:+ .")
	flag.Parse()

	fromStore := storePath != "" && name != ""
	if (!fromStore && in == "") || (out == "" && (storePath == "" || outName == "")) {
		flag.PrintDefaults()
		os.Exit(1)
	}

	if rnaseq.IsGoogleStoragePath(in) || rnaseq.IsGoogleStoragePath(out) {
		var err error
		client, err = storage.NewClient(context.Background())
		if err != nil {
			log.Fatalln(err)
		}
	}

	var store *persist.Store
	if storePath != "" {
		var err error
		if store, err = persist.OpenStore(storePath); err != nil {
			log.Fatalln(err)
		}
		defer store.Close()
	}

	ctx := context.Background()

	var c *experiment.Container
	var err error
	if fromStore {
		c, err = store.Get(name)
	} else {
		c, err = persist.ReadFile(ctx, in, client)
	}
	if err != nil {
		log.Fatalln(err)
	}
	log.Printf("Read %s\n", c)

	rows, cols, err := f.selectors()
	if err != nil {
		log.Fatalln(err)
	}

	sub, err := c.SubsetBoth(rows, cols)
	if err != nil {
		log.Fatalln(err)
	}
	log.Printf("Kept %s\n", sub)

	if out != "" {
		if err := persist.WriteFile(ctx, out, sub, client); err != nil {
			log.Fatalln(err)
		}
		log.Printf("Wrote %s\n", out)
	}
	if store != nil && outName != "" {
		if err := store.Put(outName, sub); err != nil {
			log.Fatalln(err)
		}
		log.Printf("Stored %s in %s\n", outName, storePath)
	}
}
