package table

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	rnaseq "github.com/JennyZadeh/bioc-rnaseq"
	"github.com/araddon/dateparse"
	"gopkg.in/guregu/null.v3"
)

const (
	// sniffBytes is how much of the input is inspected to guess a delimiter.
	sniffBytes = 64 * 1024

	// maxLineBytes bounds a single line in unquoted mode.
	maxLineBytes = 16 * 1024 * 1024
)

// Load reads a delimited table. Any failure to make sense of the input is
// reported as a *MalformedError (errors.Is(err, ErrMalformedInput)).
func Load(r io.Reader, layout Layout) (*Table, error) {
	br := bufio.NewReaderSize(r, sniffBytes)

	delim := layout.Delimiter
	if delim == 0 {
		sample, err := br.Peek(sniffBytes)
		if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
			return nil, &MalformedError{Err: err}
		}
		delim = rnaseq.DetermineDelimiterBytes(sample, ',')
	}

	var rows [][]string
	var lines []int
	var err error
	if layout.Quoted {
		rows, lines, err = readQuoted(br, delim, layout.Comment)
	} else {
		rows, lines, err = readLiteral(br, delim, layout.Comment)
	}
	if err != nil {
		return nil, err
	}

	return fromRows(rows, lines, layout)
}

func readQuoted(r io.Reader, delim, comment rune) ([][]string, []int, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.Comment = comment
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = false

	rows := make([][]string, 0)
	lines := make([]int, 0)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, nil, &MalformedError{Line: pe.Line, Err: pe.Err}
			}
			return nil, nil, &MalformedError{Err: err}
		}

		line, _ := cr.FieldPos(0)
		rows = append(rows, row)
		lines = append(lines, line)
	}

	return rows, lines, nil
}

// readLiteral splits lines on the delimiter with no quote handling, the way
// GTF and most bioinformatics TSVs are meant to be read.
func readLiteral(r io.Reader, delim, comment rune) ([][]string, []int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	rows := make([][]string, 0)
	lines := make([]int, 0)
	sep := string(delim)
	for i := 1; scanner.Scan(); i++ {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		if comment != 0 && strings.HasPrefix(line, string(comment)) {
			continue
		}

		rows = append(rows, strings.Split(line, sep))
		lines = append(lines, i)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, &MalformedError{Err: err}
	}

	return rows, lines, nil
}

func fromRows(rows [][]string, lines []int, layout Layout) (*Table, error) {
	var header []string
	data, dataLines := rows, lines

	if layout.Header {
		if len(rows) == 0 {
			return nil, &MalformedError{Err: errors.New("no header line")}
		}
		header = rows[0]
		data, dataLines = rows[1:], lines[1:]

		// R writes row-named tables with one header field fewer than data
		// fields; the missing name belongs to the row names.
		if len(data) > 0 && len(header) == len(data[0])-1 {
			header = append([]string{""}, header...)
		}
	} else {
		width := 0
		if len(rows) > 0 {
			width = len(rows[0])
		}
		header = make([]string, width)
		for i := range header {
			header[i] = "V" + strconv.Itoa(i+1)
		}
	}

	for i, row := range data {
		if len(row) != len(header) {
			return nil, &MalformedError{Line: dataLines[i], Err: fmt.Errorf("expected %d fields, found %d", len(header), len(row))}
		}
	}

	keyIdx := layout.KeyIndex
	if layout.KeyColumn != "" {
		keyIdx = -1
		for i, name := range header {
			if name == layout.KeyColumn {
				keyIdx = i
				break
			}
		}
		if keyIdx < 0 {
			return nil, &MalformedError{Column: layout.KeyColumn, Err: errors.New("key column not found in header")}
		}
	}
	if keyIdx < 0 || keyIdx >= len(header) {
		return nil, &MalformedError{Err: fmt.Errorf("key column index %d is outside the %d columns", keyIdx, len(header))}
	}
	keyName := header[keyIdx]

	if dups := duplicateNames(header, keyIdx); len(dups) > 0 {
		return nil, &MalformedError{Err: &DuplicateColumnError{Names: dups}}
	}

	// Keys are always kept as raw text, so an override naming the key column
	// is accepted and has no effect.
	for name := range layout.Types {
		found := false
		for _, h := range header {
			if h == name {
				found = true
				break
			}
		}
		if !found {
			return nil, &MalformedError{Column: name, Err: errors.New("type override names a column that is not in the table")}
		}
	}

	nulls := layout.nullSet()

	keys := make([]string, len(data))
	for i, row := range data {
		if _, isNull := nulls[row[keyIdx]]; isNull {
			return nil, &MalformedError{Line: dataLines[i], Column: keyName, Err: errors.New("missing row key")}
		}
		keys[i] = row[keyIdx]
	}

	cols := make([]Column, 0, len(header)-1)
	cells := make([]string, len(data))
	for j, name := range header {
		if j == keyIdx {
			continue
		}
		for i, row := range data {
			cells[i] = row[j]
		}

		kind, forced := layout.Types[name]
		if !forced {
			kind = inferKind(cells, nulls)
		}

		col, err := parseColumn(name, kind, cells, dataLines, nulls)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}

	t, err := New(keyName, keys, cols...)
	if err != nil {
		return nil, &MalformedError{Err: err}
	}

	return t, nil
}

// duplicateNames lists the non-key header names that repeat, in order of
// first repetition.
func duplicateNames(header []string, keyIdx int) []string {
	seen := make(map[string]int, len(header))
	var dups []string
	for i, name := range header {
		if i == keyIdx {
			continue
		}
		seen[name]++
		if seen[name] == 2 {
			dups = append(dups, name)
		}
	}
	return dups
}

func inferKind(cells []string, nulls map[string]struct{}) Kind {
	isInt, isFloat, isBool, seen := true, true, true, false
	for _, s := range cells {
		if _, isNull := nulls[s]; isNull {
			continue
		}
		seen = true

		if isInt {
			_, err := strconv.ParseInt(s, 10, 64)
			isInt = err == nil
		}
		if isFloat {
			_, err := strconv.ParseFloat(s, 64)
			isFloat = err == nil
		}
		if isBool {
			isBool = isBoolWord(s)
		}
		if !isInt && !isFloat && !isBool {
			return KindString
		}
	}

	switch {
	case !seen:
		return KindString
	case isInt:
		return KindInt
	case isFloat:
		return KindFloat
	case isBool:
		return KindBool
	}

	return KindString
}

func isBoolWord(s string) bool {
	switch s {
	case "TRUE", "FALSE", "True", "False", "true", "false":
		return true
	}
	return false
}

func parseColumn(name string, kind Kind, cells []string, lines []int, nulls map[string]struct{}) (Column, error) {
	out := Column{Name: name, Kind: kind}

	bad := func(i int, err error) (Column, error) {
		return Column{}, &MalformedError{Line: lines[i], Column: name, Err: fmt.Errorf("cannot read %q as %s: %w", cells[i], kind, err)}
	}

	switch kind {
	case KindString:
		out.Strings = make([]null.String, len(cells))
		for i, s := range cells {
			if _, isNull := nulls[s]; isNull {
				continue
			}
			out.Strings[i] = null.StringFrom(s)
		}
	case KindInt:
		out.Ints = make([]null.Int, len(cells))
		for i, s := range cells {
			if _, isNull := nulls[s]; isNull {
				continue
			}
			v, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return bad(i, err)
			}
			out.Ints[i] = null.IntFrom(v)
		}
	case KindFloat:
		out.Floats = make([]null.Float, len(cells))
		for i, s := range cells {
			if _, isNull := nulls[s]; isNull {
				continue
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return bad(i, err)
			}
			out.Floats[i] = null.FloatFrom(v)
		}
	case KindBool:
		out.Bools = make([]null.Bool, len(cells))
		for i, s := range cells {
			if _, isNull := nulls[s]; isNull {
				continue
			}
			v, err := strconv.ParseBool(s)
			if err != nil {
				return bad(i, err)
			}
			out.Bools[i] = null.BoolFrom(v)
		}
	case KindTime:
		out.Times = make([]null.Time, len(cells))
		for i, s := range cells {
			if _, isNull := nulls[s]; isNull {
				continue
			}
			v, err := dateparse.ParseIn(s, time.UTC)
			if err != nil {
				return bad(i, err)
			}
			out.Times[i] = null.TimeFrom(v)
		}
	default:
		return Column{}, &MalformedError{Column: name, Err: fmt.Errorf("unsupported column type %s", kind)}
	}

	return out, nil
}
