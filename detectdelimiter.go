package rnaseq

import (
	"bytes"
	"io"

	"github.com/csimplestring/go-csv/detector"
)

// DetermineDelimiter returns the single most likely rune that would delimit the
// values in the reader, assuming a CSV-like file. If nothing can be detected,
// fallback is returned.
func DetermineDelimiter(r io.Reader, fallback rune) rune {
	d := detector.New()
	delimiters := d.DetectDelimiter(r, '"')

	if len(delimiters) > 0 && len(delimiters[0]) > 0 {
		return rune(delimiters[0][0])
	}

	return fallback
}

// DetermineDelimiterBytes is DetermineDelimiter over a header sample that the
// caller has already buffered.
func DetermineDelimiterBytes(sample []byte, fallback rune) rune {
	// The detector samples line by line; a lone header without a trailing
	// newline is still a line.
	if len(sample) > 0 && sample[len(sample)-1] != '\n' {
		sample = append(append([]byte{}, sample...), '\n')
	}

	// Tabs are never ambiguous inside R-written tables, and the detector
	// prefers commas when a description column happens to contain them.
	firstLine := sample
	if i := bytes.IndexByte(sample, '\n'); i >= 0 {
		firstLine = sample[:i]
	}
	if bytes.IndexByte(firstLine, '\t') >= 0 {
		return '\t'
	}

	return DetermineDelimiter(bytes.NewReader(sample), fallback)
}
