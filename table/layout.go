package table

import (
	"fmt"
	"sort"
	"strings"
)

// Layout describes how a delimited file maps onto a Table.
type Layout struct {
	// Delimiter separates fields. Zero means sniff it from the first lines.
	Delimiter rune
	// Comment, if nonzero, marks lines to skip.
	Comment rune
	// Quoted enables RFC 4180 quoting. When false, quote characters are
	// literal and lines are split on the delimiter only.
	Quoted bool
	// Header indicates the first line names the columns. Without a header,
	// columns are named V1..Vn.
	Header bool
	// KeyColumn names the column supplying row keys. When empty, KeyIndex is
	// used instead.
	KeyColumn string
	KeyIndex  int
	// Types forces a column to a kind instead of inferring it, e.g. to keep a
	// numeric-looking identifier as text.
	Types map[string]Kind
	// NullValues are cell texts read as missing. Nil means DefaultNullValues.
	NullValues []string
}

// DefaultNullValues are read as missing when a Layout does not say otherwise.
var DefaultNullValues = []string{"", "NA"}

var Layouts = map[string]Layout{
	"csv": {
		Delimiter: ',',
		Quoted:    true,
		Header:    true,
	},
	"tsv": {
		Delimiter: '\t',
		Comment:   '#',
		Header:    true,
	},
	"auto": {
		Quoted: true,
		Header: true,
	},
}

func LayoutNames() string {
	names := make([]string, 0, len(Layouts))
	for m := range Layouts {
		names = append(names, m)
	}
	sort.Strings(names)

	return strings.Join(names, ", ")
}

// LayoutFor returns a copy of a named layout.
func LayoutFor(name string) (Layout, error) {
	l, exists := Layouts[name]
	if !exists {
		return Layout{}, fmt.Errorf("Layout %s is not found. Valid layout names include: %s", name, LayoutNames())
	}

	if l.Types != nil {
		types := make(map[string]Kind, len(l.Types))
		for k, v := range l.Types {
			types[k] = v
		}
		l.Types = types
	}

	return l, nil
}

// WithType returns a copy of the layout that forces column name to kind.
func (l Layout) WithType(name string, kind Kind) Layout {
	types := make(map[string]Kind, len(l.Types)+1)
	for k, v := range l.Types {
		types[k] = v
	}
	types[name] = kind
	l.Types = types

	return l
}

// ParseTypeOverrides reads "col=kind,col2=kind" as used on the command line.
func ParseTypeOverrides(s string) (map[string]Kind, error) {
	out := make(map[string]Kind)
	if strings.TrimSpace(s) == "" {
		return out, nil
	}

	for _, part := range strings.Split(s, ",") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("type override %q is not of the form column=type", part)
		}
		kind, err := ParseKind(kv[1])
		if err != nil {
			return nil, err
		}
		out[strings.TrimSpace(kv[0])] = kind
	}

	return out, nil
}

func (l Layout) nullSet() map[string]struct{} {
	values := l.NullValues
	if values == nil {
		values = DefaultNullValues
	}

	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		out[v] = struct{}{}
	}
	return out
}

// ParseLayout combines the command-line forms of a layout: a preset name, an
// optional key column name and optional "col=kind" overrides.
func ParseLayout(name, keyColumn, types string) (Layout, error) {
	l, err := LayoutFor(name)
	if err != nil {
		return Layout{}, err
	}
	l.KeyColumn = keyColumn

	overrides, err := ParseTypeOverrides(types)
	if err != nil {
		return Layout{}, err
	}
	for col, kind := range overrides {
		l = l.WithType(col, kind)
	}

	return l, nil
}
