// Package gtf reads GTF (GFF version 2) gene annotations and flattens the
// features of one type into a row annotation keyed by a chosen attribute.
package gtf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/JennyZadeh/bioc-rnaseq/granges"
	"github.com/JennyZadeh/bioc-rnaseq/table"
	"gopkg.in/guregu/null.v3"
)

type KeyValue struct {
	Key   string
	Value string
}

// Record is one GTF line. Start and End are 1-based and closed.
type Record struct {
	Seqname    string
	Source     string
	Feature    string
	Start      int
	End        int
	Score      string
	Strand     granges.Strand
	Frame      string
	Attributes []KeyValue
}

// Attribute returns the first value of the named attribute.
func (r Record) Attribute(key string) (string, bool) {
	for _, kv := range r.Attributes {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// ParseAttributes splits the ninth GTF column, e.g.
// `gene_id "ENSG00000223972.5"; gene_type "transcribed_unprocessed_pseudogene";`.
func ParseAttributes(attr string) ([]KeyValue, error) {
	out := make([]KeyValue, 0)

	for i, attribute := range strings.Split(attr, ";") {
		attribute = strings.TrimSpace(attribute)
		if attribute == "" {
			continue
		}

		parts := strings.SplitN(attribute, " ", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("attribute %d (%q) has no value", i, attribute)
		}

		out = append(out, KeyValue{Key: parts[0], Value: strings.Trim(strings.TrimSpace(parts[1]), "\"")})
	}

	return out, nil
}

func parseLine(line string) (Record, error) {
	row := strings.Split(line, "\t")
	if x := len(row); x < 9 {
		return Record{}, fmt.Errorf("found %d fields, expected 9", x)
	}

	start, err := strconv.Atoi(row[3])
	if err != nil {
		return Record{}, fmt.Errorf("start: %w", err)
	}
	end, err := strconv.Atoi(row[4])
	if err != nil {
		return Record{}, fmt.Errorf("end: %w", err)
	}
	strand, err := granges.ParseStrand(row[6])
	if err != nil {
		return Record{}, err
	}
	attributes, err := ParseAttributes(row[8])
	if err != nil {
		return Record{}, err
	}

	return Record{
		Seqname:    row[0],
		Source:     row[1],
		Feature:    row[2],
		Start:      start,
		End:        end,
		Score:      row[5],
		Strand:     strand,
		Frame:      row[7],
		Attributes: attributes,
	}, nil
}

// Scan calls fn for every record of r, skipping comments and blank lines.
// It stops at the first error, from parsing or from fn.
func Scan(r io.Reader, fn func(Record) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for i := 1; scanner.Scan(); i++ {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		rec, err := parseLine(line)
		if err != nil {
			return fmt.Errorf("GTF line %d: %w", i, err)
		}
		if err := fn(rec); err != nil {
			return fmt.Errorf("GTF line %d: %w", i, err)
		}
	}

	return scanner.Err()
}

// Options choose which features become rows and how they are keyed.
type Options struct {
	// Feature is the third-column type to keep, e.g. "gene" or "transcript".
	Feature string
	// Key is the attribute that supplies row keys, e.g. "gene_id".
	Key string
	// StripVersion drops a trailing ".N" from keys, so ENSG00000223972.5
	// matches count matrices keyed by unversioned Ensembl ids.
	StripVersion bool
	// Attributes restricts the attribute columns. When nil every attribute
	// seen on a kept feature becomes a column, in order of first appearance.
	Attributes []string
}

var DefaultOptions = Options{
	Feature: "gene",
	Key:     "gene_id",
}

// StripVersion removes an Ensembl-style ".N" suffix.
func StripVersion(id string) string {
	dot := strings.LastIndexByte(id, '.')
	if dot < 0 || dot == len(id)-1 {
		return id
	}
	if _, err := strconv.Atoi(id[dot+1:]); err != nil {
		return id
	}
	return id[:dot]
}

// Features reads the features selected by opts into a table keyed by
// opts.Key. Coordinates go in the granges.DefaultFields columns; attributes
// are string columns and are NA where a feature lacks them.
func Features(r io.Reader, opts Options) (*table.Table, error) {
	var (
		keys      []string
		seqnames  []string
		starts    []int64
		ends      []int64
		strands   []string
		sources   []string
		attrs     = make(map[string][]null.String)
		attrOrder []string
	)

	for _, a := range opts.Attributes {
		if a == opts.Key {
			continue
		}
		attrs[a] = nil
		attrOrder = append(attrOrder, a)
	}

	err := Scan(r, func(rec Record) error {
		if rec.Feature != opts.Feature {
			return nil
		}

		key, ok := rec.Attribute(opts.Key)
		if !ok {
			return fmt.Errorf("%s feature has no %s attribute", rec.Feature, opts.Key)
		}
		if opts.StripVersion {
			key = StripVersion(key)
		}

		n := len(keys)
		keys = append(keys, key)
		seqnames = append(seqnames, rec.Seqname)
		starts = append(starts, int64(rec.Start))
		ends = append(ends, int64(rec.End))
		strands = append(strands, rec.Strand.String())
		sources = append(sources, rec.Source)

		for _, kv := range rec.Attributes {
			if kv.Key == opts.Key {
				continue
			}
			col, seen := attrs[kv.Key]
			if !seen {
				if opts.Attributes != nil {
					continue
				}
				attrOrder = append(attrOrder, kv.Key)
			}
			if len(col) > n {
				// Repeated attributes (e.g. tag) keep their first value.
				continue
			}
			for len(col) < n {
				col = append(col, null.String{})
			}
			attrs[kv.Key] = append(col, null.StringFrom(kv.Value))
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	cols := []table.Column{
		table.Strings(granges.DefaultFields.Seqname, seqnames...),
		table.Ints(granges.DefaultFields.Start, starts...),
		table.Ints(granges.DefaultFields.End, ends...),
		table.Strings(granges.DefaultFields.Strand, strands...),
		table.Strings("source", sources...),
	}
	reserved := map[string]bool{opts.Key: true}
	for _, c := range cols {
		reserved[c.Name] = true
	}

	for _, name := range attrOrder {
		if reserved[name] {
			continue
		}
		col := attrs[name]
		for len(col) < len(keys) {
			col = append(col, null.String{})
		}
		cols = append(cols, table.Column{Name: name, Kind: table.KindString, Strings: col})
	}

	return table.New(opts.Key, keys, cols...)
}
