// describeexperiment prints what an experiment snapshot holds: its shape,
// its annotations and per-sample or per-feature summaries as TSV. It can also
// export the assay and annotations back to delimited text.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	rnaseq "github.com/JennyZadeh/bioc-rnaseq"
	_ "github.com/JennyZadeh/bioc-rnaseq/compileinfoprint"
	"github.com/JennyZadeh/bioc-rnaseq/experiment"
	"github.com/JennyZadeh/bioc-rnaseq/persist"
	"github.com/JennyZadeh/bioc-rnaseq/table"
)

var (
	STDOUT = bufio.NewWriterSize(os.Stdout, 4096)
	client *storage.Client
)

func main() {
	defer STDOUT.Flush()

	var in, storePath, name, mode, exportCounts, exportRowData, exportColData string
	var list bool

	flag.StringVar(&in, "in", "", "Path to the snapshot to describe. Local or gs://.")
	flag.StringVar(&storePath, "store", "", "(Optional) SQLite snapshot store.")
	flag.StringVar(&name, "name", "", "Name of the snapshot in -store.")
	flag.BoolVar(&list, "list", false, "List the snapshots in -store and exit.")
	flag.StringVar(&mode, "summary", "samples", "Which table to print: samples, features, or none.")
	flag.StringVar(&exportCounts, "export_counts", "", "(Optional) Write the assay as a TSV count matrix to this path.")
	flag.StringVar(&exportRowData, "export_rowdata", "", "(Optional) Write the feature annotation as TSV to this path.")
	flag.StringVar(&exportColData, "export_coldata", "", "(Optional) Write the sample annotation as TSV to this path.")
	flag.Parse()

	if in == "" && (storePath == "" || (name == "" && !list)) {
		flag.PrintDefaults()
		os.Exit(1)
	}

	for _, path := range []string{in, exportCounts, exportRowData, exportColData} {
		if rnaseq.IsGoogleStoragePath(path) {
			var err error
			if client, err = storage.NewClient(context.Background()); err != nil {
				log.Fatalln(err)
			}
			break
		}
	}

	if err := run(context.Background(), in, storePath, name, list, mode, exportCounts, exportRowData, exportColData); err != nil {
		STDOUT.Flush()
		log.Fatalln(err)
	}
}

func run(ctx context.Context, in, storePath, name string, list bool, mode, exportCounts, exportRowData, exportColData string) error {
	var c *experiment.Container

	if storePath != "" {
		store, err := persist.OpenStore(storePath)
		if err != nil {
			return err
		}
		defer store.Close()

		if list {
			return printList(STDOUT, store)
		}
		if c, err = store.Get(name); err != nil {
			return err
		}
	} else {
		data, err := persist.ReadBytes(ctx, in, client)
		if err != nil {
			return err
		}
		h, err := persist.Inspect(data)
		if err != nil {
			return err
		}
		log.Printf("Snapshot version %d written by %s\n", h.Version, h.Producer)
		if c, err = persist.Unmarshal(data); err != nil {
			return err
		}
	}

	describe(os.Stderr, c)

	switch mode {
	case "samples":
		if err := printSamples(STDOUT, c); err != nil {
			return err
		}
	case "features":
		if err := printFeatures(STDOUT, c); err != nil {
			return err
		}
	case "none":
	default:
		return fmt.Errorf("unknown -summary %q", mode)
	}

	if exportCounts != "" {
		counts, err := c.Assay().Table(c.RowAnnotation().KeyName())
		if err != nil {
			return err
		}
		if err := export(ctx, exportCounts, counts); err != nil {
			return err
		}
	}
	if exportRowData != "" {
		if err := export(ctx, exportRowData, c.RowAnnotation()); err != nil {
			return err
		}
	}
	if exportColData != "" {
		if err := export(ctx, exportColData, c.ColumnAnnotation()); err != nil {
			return err
		}
	}

	return nil
}

func export(ctx context.Context, path string, t *table.Table) error {
	var sb strings.Builder
	if err := table.Write(&sb, t, '\t'); err != nil {
		return err
	}
	if err := rnaseq.WriteOutput(ctx, path, []byte(sb.String()), client); err != nil {
		return err
	}
	log.Printf("Wrote %s\n", path)
	return nil
}

func describe(w io.Writer, c *experiment.Container) {
	fmt.Fprintln(w, c)
	fmt.Fprintf(w, "Feature annotation (%s): %s\n", keyLabel(c.RowAnnotation()), strings.Join(c.RowAnnotation().ColumnNames(), ", "))
	fmt.Fprintf(w, "Sample annotation (%s): %s\n", keyLabel(c.ColumnAnnotation()), strings.Join(c.ColumnAnnotation().ColumnNames(), ", "))
	if c.Assay().HasNA() {
		fmt.Fprintln(w, "The assay has missing values.")
	}

	if median, err := c.LibrarySizeMedian(); err == nil {
		fmt.Fprintf(w, "Median library size: %g\n", median)
	}
	if q, err := c.LibrarySizeQuartiles(); err == nil {
		fmt.Fprintf(w, "Library size quartiles: %g / %g / %g\n", q[0], q[1], q[2])
	}
}

func keyLabel(t *table.Table) string {
	if t.KeyName() == "" {
		return "unnamed key"
	}
	return "key " + t.KeyName()
}
