package table

import (
	"encoding/csv"
	"io"
)

// Write emits the table as delimited text: a header line led by the key
// column, then one line per row. Missing cells are written as NA so that Load
// with the default null markers reads them back as missing.
func Write(w io.Writer, t *Table, delim rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = delim

	header := append([]string{t.keyName}, t.ColumnNames()...)
	if err := cw.Write(header); err != nil {
		return err
	}

	line := make([]string, len(header))
	for i := range t.keys {
		line[0] = t.keys[i]
		for j, c := range t.cols {
			line[j+1] = c.Text(i)
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
