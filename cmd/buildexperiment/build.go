package main

import (
	"context"
	"fmt"

	rnaseq "github.com/JennyZadeh/bioc-rnaseq"
	"github.com/JennyZadeh/bioc-rnaseq/experiment"
	"github.com/JennyZadeh/bioc-rnaseq/granges"
	"github.com/JennyZadeh/bioc-rnaseq/gtf"
	"github.com/JennyZadeh/bioc-rnaseq/table"
	"github.com/gocarina/gocsv"
)

func build(ctx context.Context, cfg config, j job) (*experiment.Container, error) {
	if j.Counts == "" {
		return nil, fmt.Errorf("no counts file")
	}
	if j.Out == "" && cfg.StorePath == "" {
		return nil, fmt.Errorf("neither an output path nor a store was given")
	}
	if j.GTF != "" && j.RowData != "" {
		return nil, fmt.Errorf("pass either a GTF or a feature annotation, not both")
	}

	src := experiment.Sources{
		AssayName: cfg.AssayName,
		Counts:    experiment.Source{Path: j.Counts},
		RowData:   experiment.Source{Path: j.RowData},
		ColData:   experiment.Source{Path: j.ColData},
	}

	var err error
	if src.Counts.Layout, err = table.ParseLayout(cfg.CountsLayout, "", cfg.CountsTypes); err != nil {
		return nil, err
	}
	if src.RowData.Layout, err = table.ParseLayout(cfg.RowDataLayout, cfg.RowDataKey, cfg.RowDataTypes); err != nil {
		return nil, err
	}
	if src.ColData.Layout, err = table.ParseLayout(cfg.ColDataLayout, cfg.ColDataKey, cfg.ColDataTypes); err != nil {
		return nil, err
	}

	var c *experiment.Container
	if j.GTF == "" {
		c, err = experiment.Import(ctx, src, client)
	} else {
		c, err = buildWithGTF(ctx, cfg, j, src)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Assembly != "" {
		ranges, err := granges.FromTable(c.RowAnnotation(), granges.DefaultFields)
		if err != nil {
			return nil, err
		}
		if err := granges.Check(ranges, cfg.Assembly); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// buildWithGTF uses the features of a GTF file as the row annotation. GTF
// files describe the whole genome, so the annotation is first restricted to
// the features that were quantified; features of the matrix that the GTF
// lacks are still reported as an alignment error.
func buildWithGTF(ctx context.Context, cfg config, j job, src experiment.Sources) (*experiment.Container, error) {
	counts, err := experiment.LoadTable(ctx, src.Counts, client)
	if err != nil {
		return nil, err
	}
	assay, err := experiment.AssayFromTable(src.AssayName, counts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", j.Counts, err)
	}

	rc, err := rnaseq.OpenInput(ctx, j.GTF, client)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	features, err := gtf.Features(rc, gtf.Options{
		Feature:      cfg.GTFFeature,
		Key:          cfg.GTFKey,
		StripVersion: cfg.StripVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", j.GTF, err)
	}

	quantified := make(map[string]struct{}, len(assay.RowKeys()))
	for _, k := range assay.RowKeys() {
		quantified[k] = struct{}{}
	}
	keep := make([]int, 0, len(quantified))
	for i := 0; i < features.Len(); i++ {
		if _, ok := quantified[features.Key(i)]; ok {
			keep = append(keep, i)
		}
	}
	rowAnn, err := features.Take(keep)
	if err != nil {
		return nil, err
	}

	var colAnn *table.Table
	if j.ColData != "" {
		if colAnn, err = experiment.LoadTable(ctx, src.ColData, client); err != nil {
			return nil, err
		}
	}

	return experiment.Build(assay, rowAnn, colAnn)
}

func readManifest(path string) ([]job, error) {
	data, err := rnaseq.ReadInput(context.Background(), path, client)
	if err != nil {
		return nil, err
	}

	jobs := []job{}
	if err := gocsv.UnmarshalBytes(data, &jobs); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return jobs, nil
}
