package main

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/JennyZadeh/bioc-rnaseq/experiment"
	"github.com/JennyZadeh/bioc-rnaseq/persist"
)

func format(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func printSamples(w io.Writer, c *experiment.Container) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	cw.Write([]string{"sample", "library_size", "detected", "missing"})
	for _, s := range c.SampleSummaries() {
		cw.Write([]string{s.Key, format(s.LibrarySize), strconv.Itoa(s.Detected), strconv.Itoa(s.Missing)})
	}

	cw.Flush()
	return cw.Error()
}

func printFeatures(w io.Writer, c *experiment.Container) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	cw.Write([]string{"feature", "mean", "variance", "missing"})
	for _, f := range c.FeatureSummaries() {
		cw.Write([]string{f.Key, format(f.Mean), format(f.Variance), strconv.Itoa(f.Missing)})
	}

	cw.Flush()
	return cw.Error()
}

func printList(w io.Writer, store *persist.Store) error {
	infos, err := store.List()
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	cw.Write([]string{"name", "assay", "features", "samples", "created", "producer"})
	for _, s := range infos {
		cw.Write([]string{s.Name, s.Assay, strconv.Itoa(s.Rows), strconv.Itoa(s.Columns), s.Created().Format("2006-01-02T15:04:05Z"), s.Producer})
	}

	cw.Flush()
	return cw.Error()
}
