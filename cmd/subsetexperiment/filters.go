package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/JennyZadeh/bioc-rnaseq/experiment"
	"github.com/JennyZadeh/bioc-rnaseq/granges"
	"github.com/JennyZadeh/bioc-rnaseq/table"
)

func (f filters) selectors() (rows, cols experiment.Selector, err error) {
	rows, err = selector(f.RowWhere, f.RowKeys)
	if err != nil {
		return rows, cols, fmt.Errorf("rows: %w", err)
	}

	if f.Region != "" {
		if f.RowKeys != "" {
			return rows, cols, fmt.Errorf("-region cannot be combined with -row_keys")
		}
		region, err := parseRegion(f.Region)
		if err != nil {
			return rows, cols, err
		}
		where, err := parseWhere(f.RowWhere)
		if err != nil {
			return rows, cols, err
		}
		rows = experiment.Where(table.And(where, granges.Overlapping(granges.DefaultFields, region)))
	}

	cols, err = selector(f.ColWhere, f.ColKeys)
	if err != nil {
		return rows, cols, fmt.Errorf("cols: %w", err)
	}

	return rows, cols, nil
}

func selector(where, keys string) (experiment.Selector, error) {
	if where != "" && keys != "" {
		return experiment.All(), fmt.Errorf("a filter and a key list cannot be combined")
	}
	if keys != "" {
		return experiment.Keys(strings.Split(keys, ",")...), nil
	}

	p, err := parseWhere(where)
	if err != nil {
		return experiment.All(), err
	}
	return experiment.Where(p), nil
}

// parseWhere reads "col=a|b,col2=c": a value list per column, ORed, and the
// columns ANDed. An empty string selects everything.
func parseWhere(where string) (table.Predicate, error) {
	if strings.TrimSpace(where) == "" {
		return table.And(), nil
	}

	var ps []table.Predicate
	for _, cond := range strings.Split(where, ",") {
		kv := strings.SplitN(cond, "=", 2)
		if len(kv) != 2 || strings.TrimSpace(kv[0]) == "" {
			return nil, fmt.Errorf("condition %q is not of the form column=value", cond)
		}
		ps = append(ps, table.In(strings.TrimSpace(kv[0]), strings.Split(kv[1], "|")...))
	}

	return table.And(ps...), nil
}

// parseRegion reads chr:start-end with an optional :strand.
func parseRegion(s string) (granges.Range, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return granges.Range{}, fmt.Errorf("region %q is not of the form chr:start-end", s)
	}

	bounds := strings.SplitN(strings.ReplaceAll(parts[1], ",", ""), "-", 2)
	if len(bounds) != 2 {
		return granges.Range{}, fmt.Errorf("region %q is not of the form chr:start-end", s)
	}
	start, err := strconv.Atoi(bounds[0])
	if err != nil {
		return granges.Range{}, fmt.Errorf("region %q: %w", s, err)
	}
	end, err := strconv.Atoi(bounds[1])
	if err != nil {
		return granges.Range{}, fmt.Errorf("region %q: %w", s, err)
	}

	r := granges.Range{Seqname: parts[0], Start: start, End: end, Strand: granges.Unstranded}
	if len(parts) == 3 {
		if r.Strand, err = granges.ParseStrand(parts[2]); err != nil {
			return granges.Range{}, err
		}
	}
	if r.Start < 1 || r.End < r.Start {
		return granges.Range{}, fmt.Errorf("region %q is empty", s)
	}

	return r, nil
}
