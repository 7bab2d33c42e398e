package table

import (
	"fmt"
	"strings"
)

// Kind is the storage type of a column.
type Kind byte

const (
	KindInvalid Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindTime
)

var kindNames = map[Kind]string{
	KindString: "string",
	KindInt:    "int",
	KindFloat:  "float",
	KindBool:   "bool",
	KindTime:   "time",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}

	return "invalid"
}

// Numeric reports whether values of this kind can be read as float64.
func (k Kind) Numeric() bool {
	return k == KindInt || k == KindFloat
}

// ParseKind maps a type name (as used on the command line) to a Kind. R-style
// aliases are accepted.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "string", "str", "character", "text":
		return KindString, nil
	case "int", "integer":
		return KindInt, nil
	case "float", "double", "numeric":
		return KindFloat, nil
	case "bool", "logical":
		return KindBool, nil
	case "time", "date", "datetime":
		return KindTime, nil
	}

	return KindInvalid, fmt.Errorf("unknown column type %q", name)
}
