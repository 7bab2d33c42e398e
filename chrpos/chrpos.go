// Package chrpos knows the chromosome lengths of the human reference
// assemblies, so that genomic coordinates in a feature annotation can be
// checked against the assembly they claim to use.
package chrpos

import (
	"bytes"
	"embed"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
)

//go:embed lookups/*
var embeddedLookups embed.FS

// Chromosome is one sequence of an assembly, named without a "chr" prefix.
type Chromosome struct {
	Name   string
	Length int
}

// Assemblies lists the assemblies with an embedded lookup, e.g. "grch38".
func Assemblies() []string {
	entries, err := embeddedLookups.ReadDir("lookups")
	if err != nil {
		return nil
	}

	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out
}

// Lengths returns the chromosomes of assembly in file order. Assembly names
// are case-insensitive and hg19/hg38 are accepted as aliases.
func Lengths(assembly string) ([]Chromosome, error) {
	name := strings.ToLower(assembly)
	switch name {
	case "hg19":
		name = "grch37"
	case "hg38":
		name = "grch38"
	}

	fileBytes, err := embeddedLookups.ReadFile("lookups/" + name)
	if err != nil {
		return nil, fmt.Errorf("unknown assembly %q (known: %s)", assembly, strings.Join(Assemblies(), ", "))
	}

	cr := csv.NewReader(bytes.NewReader(fileBytes))
	cr.Comma = '\t'
	entries, err := cr.ReadAll()
	if err != nil {
		return nil, pfx.Err(err)
	}

	header := make(map[string]int)
	out := make([]Chromosome, 0, len(entries))
	for i, v := range entries {
		if i == 0 {
			for key, col := range v {
				header[col] = key
			}
			continue
		}

		end, err := strconv.Atoi(v[header["chromEnd"]])
		if err != nil {
			return nil, pfx.Err(err)
		}
		out = append(out, Chromosome{Name: v[header["name"]], Length: end})
	}

	return out, nil
}

// Normalize strips a leading "chr" and maps M to MT, so "chr1" and "1" name
// the same sequence.
func Normalize(chrom string) string {
	c := strings.TrimPrefix(chrom, "chr")
	c = strings.TrimPrefix(c, "Chr")
	if c == "M" {
		return "MT"
	}
	return c
}

// Lookup indexes an assembly by normalized chromosome name.
type Lookup map[string]int

// NewLookup loads the lengths of assembly.
func NewLookup(assembly string) (Lookup, error) {
	chroms, err := Lengths(assembly)
	if err != nil {
		return nil, err
	}

	out := make(Lookup, len(chroms))
	for _, c := range chroms {
		out[c.Name] = c.Length
	}
	return out, nil
}

// Check reports whether the 1-based closed interval [start, end] lies on a
// known chromosome of the assembly.
func (l Lookup) Check(chrom string, start, end int) error {
	length, ok := l[Normalize(chrom)]
	if !ok {
		return fmt.Errorf("chromosome %q is not part of the assembly", chrom)
	}
	if start < 1 || end < start {
		return fmt.Errorf("%s:%d-%d is not a valid interval", chrom, start, end)
	}
	if end > length {
		return fmt.Errorf("%s:%d-%d runs past the chromosome end at %d", chrom, start, end, length)
	}
	return nil
}
