// Package persist saves and restores experiment containers. A snapshot is a
// self-describing byte string:
//
//	"RSEX" | version (uint16 LE) | producer | gzip(body) | blake2b-256
//
// Restoring a snapshot rebuilds the container through experiment.Build, so a
// snapshot that decodes but no longer satisfies the container's alignment
// rules is rejected like any other bad input.
package persist

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/JennyZadeh/bioc-rnaseq/compileinfo"
	"github.com/JennyZadeh/bioc-rnaseq/experiment"
	"github.com/JennyZadeh/bioc-rnaseq/table"
	blake2b "github.com/minio/blake2b-simd"
	"gopkg.in/guregu/null.v3"
)

const (
	Magic   = "RSEX"
	Version = 1

	checksumLen = 32
	headerLen   = len(Magic) + 2
)

// Header is the uncompressed part of a snapshot.
type Header struct {
	Version  int
	Producer string
}

// Producer is recorded in every snapshot written by this process.
var Producer = compileinfo.Get().Producer()

// Marshal encodes c. The output depends only on the container's contents and
// Producer.
func Marshal(c *experiment.Container) ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var body encoder
	encodeAssay(&body, c.Assay())
	if err := encodeTable(&body, c.RowAnnotation()); err != nil {
		return nil, err
	}
	if err := encodeTable(&body, c.ColumnAnnotation()); err != nil {
		return nil, err
	}

	return seal(body.buf.Bytes())
}

// seal compresses an encoded body and wraps it in the snapshot framing.
func seal(body []byte) ([]byte, error) {
	var zipped bytes.Buffer
	zw, err := gzip.NewWriterLevel(&zipped, gzip.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(body); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}

	var out encoder
	out.buf.WriteString(Magic)
	var v [2]byte
	binary.LittleEndian.PutUint16(v[:], Version)
	out.buf.Write(v[:])
	out.string(Producer)
	out.bytes(zipped.Bytes())

	sum := blake2b.Sum256(out.buf.Bytes())
	out.buf.Write(sum[:])

	return out.buf.Bytes(), nil
}

// Encode writes the snapshot of c to w.
func Encode(w io.Writer, c *experiment.Container) error {
	data, err := Marshal(c)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Inspect verifies the framing and checksum of a snapshot and returns its
// header without decoding the body.
func Inspect(data []byte) (Header, error) {
	h, _, err := unframe(data)
	return h, err
}

// Unmarshal restores a container from a snapshot. Every failure matches
// ErrPersistence; alignment failures also match the experiment package's
// errors.
func Unmarshal(data []byte) (*experiment.Container, error) {
	_, zipped, err := unframe(data)
	if err != nil {
		return nil, err
	}

	zr, err := gzip.NewReader(bytes.NewReader(zipped))
	if err != nil {
		return nil, &Error{Err: err}
	}
	body, err := io.ReadAll(zr)
	if err != nil {
		return nil, &Error{Err: err}
	}

	d := &decoder{b: body}
	assay := decodeAssay(d)
	rowAnn := decodeTable(d, "row annotation")
	colAnn := decodeTable(d, "column annotation")
	if d.err != nil {
		return nil, d.err
	}
	if len(d.b) != 0 {
		return nil, fail("%d unexpected bytes after the column annotation", len(d.b))
	}

	c, err := experiment.Build(assay, rowAnn, colAnn)
	if err != nil {
		return nil, &Error{Err: err}
	}

	return c, nil
}

// Decode reads a whole snapshot from r.
func Decode(r io.Reader) (*experiment.Container, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}

func unframe(data []byte) (Header, []byte, error) {
	if len(data) < len(Magic) || string(data[:len(Magic)]) != Magic {
		return Header{}, nil, &Error{Err: ErrNotSnapshot}
	}
	if len(data) < headerLen+checksumLen {
		return Header{}, nil, &Error{Err: ErrTruncated}
	}

	framed, sum := data[:len(data)-checksumLen], data[len(data)-checksumLen:]
	if want := blake2b.Sum256(framed); !bytes.Equal(want[:], sum) {
		return Header{}, nil, &Error{Err: ErrChecksum}
	}

	h := Header{Version: int(binary.LittleEndian.Uint16(framed[len(Magic):headerLen]))}
	if h.Version != Version {
		return h, nil, &Error{Err: fmt.Errorf("%w %d (this build reads version %d)", ErrUnsupportedVersion, h.Version, Version)}
	}

	d := &decoder{b: framed[headerLen:]}
	h.Producer = d.string("producer")
	zipped := d.bytes("payload")
	if d.err != nil {
		return h, nil, d.err
	}
	if len(d.b) != 0 {
		return h, nil, fail("%d unexpected bytes before the checksum", len(d.b))
	}

	return h, zipped, nil
}

func encodeAssay(e *encoder, a *experiment.Assay) {
	e.string(a.Name())
	e.byte(byte(a.Storage()))
	e.strings(a.RowKeys())
	e.strings(a.ColumnKeys())
	for _, v := range a.Values() {
		e.float(v)
	}

	missing := a.Missing()
	e.bool(missing != nil)
	for _, m := range missing {
		e.bool(m)
	}
}

func decodeAssay(d *decoder) *experiment.Assay {
	name := d.string("assay name")
	storage := experiment.Storage(d.byte("assay storage"))
	rowKeys := d.strings("assay row keys")
	colKeys := d.strings("assay column keys")
	if d.err != nil {
		return nil
	}

	n := len(rowKeys) * len(colKeys)
	if len(colKeys) > 0 && len(rowKeys) > len(d.b)/8/len(colKeys) {
		d.fail("assay values")
		return nil
	}
	values := make([]float64, n)
	for k := range values {
		values[k] = d.float("assay values")
	}

	var missing []bool
	if d.bool("assay missing-value flag") {
		missing = make([]bool, 0, n)
		for k := 0; k < n && d.err == nil; k++ {
			missing = append(missing, d.bool("assay missing values"))
		}
	}
	if d.err != nil {
		return nil
	}

	a, err := experiment.RestoreAssay(name, rowKeys, colKeys, storage, values, missing)
	if err != nil {
		d.err = &Error{Err: err}
		return nil
	}
	return a
}

func encodeTable(e *encoder, t *table.Table) error {
	e.string(t.KeyName())
	e.strings(t.Keys())

	cols := t.Columns()
	e.uvarint(uint64(len(cols)))
	for _, c := range cols {
		e.string(c.Name)
		e.byte(byte(c.Kind))
		for i := 0; i < c.Len(); i++ {
			present := !c.IsNull(i)
			e.bool(present)
			if !present {
				continue
			}

			switch c.Kind {
			case table.KindString:
				e.string(c.Strings[i].String)
			case table.KindInt:
				e.varint(c.Ints[i].Int64)
			case table.KindFloat:
				e.float(c.Floats[i].Float64)
			case table.KindBool:
				e.bool(c.Bools[i].Bool)
			case table.KindTime:
				b, err := c.Times[i].Time.MarshalBinary()
				if err != nil {
					return fmt.Errorf("persist: column %q, key %q: %w", c.Name, t.Key(i), err)
				}
				e.bytes(b)
			}
		}
	}

	return nil
}

func decodeTable(d *decoder, what string) *table.Table {
	keyName := d.string(what + " key name")
	keys := d.strings(what + " keys")
	ncol := d.count(what+" column count", 2)
	if d.err != nil {
		return nil
	}

	cols := make([]table.Column, 0, ncol)
	for j := 0; j < ncol && d.err == nil; j++ {
		c := table.Column{Name: d.string(what + " column name"), Kind: table.Kind(d.byte(what + " column kind"))}
		n := len(keys)
		switch c.Kind {
		case table.KindString:
			c.Strings = make([]null.String, n)
		case table.KindInt:
			c.Ints = make([]null.Int, n)
		case table.KindFloat:
			c.Floats = make([]null.Float, n)
		case table.KindBool:
			c.Bools = make([]null.Bool, n)
		case table.KindTime:
			c.Times = make([]null.Time, n)
		default:
			if d.err == nil {
				d.err = fail("%s column %q has unknown kind %d", what, c.Name, c.Kind)
			}
			return nil
		}

		for i := 0; i < n && d.err == nil; i++ {
			if !d.bool(what + " cell flag") {
				continue
			}
			switch c.Kind {
			case table.KindString:
				c.Strings[i] = null.StringFrom(d.string(what + " cell"))
			case table.KindInt:
				c.Ints[i] = null.IntFrom(d.varint(what + " cell"))
			case table.KindFloat:
				c.Floats[i] = null.FloatFrom(d.float(what + " cell"))
			case table.KindBool:
				c.Bools[i] = null.BoolFrom(d.bool(what + " cell"))
			case table.KindTime:
				var ts time.Time
				if err := ts.UnmarshalBinary(d.bytes(what + " cell")); err != nil && d.err == nil {
					d.err = &Error{Err: fmt.Errorf("%s column %q: %w", what, c.Name, err)}
				}
				c.Times[i] = null.TimeFrom(ts)
			}
		}
		cols = append(cols, c)
	}
	if d.err != nil {
		return nil
	}

	t, err := table.New(keyName, keys, cols...)
	if err != nil {
		d.err = &Error{Err: err}
		return nil
	}
	return t
}
