package experiment

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/storage"
	rnaseq "github.com/JennyZadeh/bioc-rnaseq"
	"github.com/JennyZadeh/bioc-rnaseq/table"
)

// DefaultAssayName is used when Sources does not name the assay.
const DefaultAssayName = "counts"

// Source locates one input table: a local path or a gs:// URL, optionally
// compressed, and how to read it.
type Source struct {
	Path   string
	Layout table.Layout
}

// Sources are the three inputs of an experiment. RowData and ColData may
// have an empty Path, in which case the axis gets a key-only annotation.
type Sources struct {
	AssayName string
	Counts    Source
	RowData   Source
	ColData   Source
}

// LoadTable opens and parses one source. client is only needed for gs://
// paths.
func LoadTable(ctx context.Context, src Source, client *storage.Client) (*table.Table, error) {
	rc, err := rnaseq.OpenInput(ctx, src.Path, client)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	t, err := table.Load(rc, src.Layout)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Path, err)
	}

	return t, nil
}

// Import loads the three sources and builds a container from them. Loader
// failures are returned unchanged apart from the file name prefix, so
// errors.Is(err, table.ErrMalformedInput) still holds.
func Import(ctx context.Context, src Sources, client *storage.Client) (*Container, error) {
	name := src.AssayName
	if name == "" {
		name = DefaultAssayName
	}

	counts, err := LoadTable(ctx, src.Counts, client)
	if err != nil {
		// A repeated sample header is a duplicate assay column key.
		var dc *table.DuplicateColumnError
		if errors.As(err, &dc) {
			return nil, fmt.Errorf("%s: %w", src.Counts.Path, &DuplicateKeyError{Axis: Columns, Source: "assay", Keys: dc.Names})
		}
		return nil, err
	}
	assay, err := AssayFromTable(name, counts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Counts.Path, err)
	}

	var rowAnn, colAnn *table.Table
	if src.RowData.Path != "" {
		if rowAnn, err = LoadTable(ctx, src.RowData, client); err != nil {
			return nil, err
		}
	}
	if src.ColData.Path != "" {
		if colAnn, err = LoadTable(ctx, src.ColData, client); err != nil {
			return nil, err
		}
	}

	return Build(assay, rowAnn, colAnn)
}
