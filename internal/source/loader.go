// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source reads the Innopolis Foundation CSV exports and parses
// them into the keyword, promising-technology, and expenditure tables.
package source

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// encodingAliases maps names used by Korean government exports to their
// WHATWG labels. The WHATWG euc-kr decoder covers the full cp949 (UHC) range.
var encodingAliases = map[string]string{
	"cp949":   "euc-kr",
	"ms949":   "euc-kr",
	"uhc":     "euc-kr",
	"utf8":    "utf-8",
	"utf-8":   "utf-8",
	"euc-kr":  "euc-kr",
	"euckr":   "euc-kr",
	"ksc5601": "euc-kr",
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Table is a decoded CSV file: a header and its rows in file order.
type Table struct {
	Path    string
	Header  []string
	Rows    [][]string
	columns map[string]int
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Value returns the cell in column name of row i. Cells missing from a
// short row read as the empty string.
func (t *Table) Value(i int, name string) string {
	idx, ok := t.columns[name]
	if !ok || idx >= len(t.Rows[i]) {
		return ""
	}
	return t.Rows[i][idx]
}

// HasColumn reports whether the header contains name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.columns[name]
	return ok
}

// ReadTable reads the CSV file at path in the named text encoding. The first
// row is the header; every name in required must appear in it.
func ReadTable(path, encodingName string, required ...string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &FileError{Kind: ErrMissingInputFile, Path: path}
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	text, err := decode(raw, encodingName)
	if err != nil {
		return nil, &FileError{Kind: ErrEncoding, Path: path, Detail: encodingName, Err: err}
	}

	return parseTable(path, text, required)
}

func parseTable(path string, text []byte, required []string) (*Table, error) {
	r := csv.NewReader(bytes.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	t := &Table{Path: path, columns: map[string]int{}}

	header, err := r.Read()
	if err == io.EOF {
		// An empty file has no rows to check columns against.
		return t, nil
	}
	if err != nil {
		return nil, &FileError{Kind: ErrMalformedCSV, Path: path, Err: err}
	}

	t.Header = header
	// A repeated header name resolves to its last column.
	for i, name := range header {
		t.columns[name] = i
	}
	for _, name := range required {
		if !t.HasColumn(name) {
			return nil, &FileError{Kind: ErrMissingColumn, Path: path, Detail: name}
		}
	}

	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &FileError{Kind: ErrMalformedCSV, Path: path, Row: len(t.Rows) + 1, Err: err}
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

// decode converts raw bytes to UTF-8. Undecodable input is an error rather
// than being silently replaced.
func decode(raw []byte, name string) ([]byte, error) {
	label := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := encodingAliases[label]; ok {
		label = alias
	}

	if label == "utf-8" {
		raw = bytes.TrimPrefix(raw, utf8BOM)
		if !utf8.Valid(raw) {
			return nil, errors.New("invalid UTF-8 byte sequence")
		}
		return raw, nil
	}

	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	return strictDecode(enc, raw)
}

// strictDecode runs the decoder and rejects any output containing U+FFFD,
// which the x/text decoders substitute for invalid sequences.
func strictDecode(enc encoding.Encoding, raw []byte) ([]byte, error) {
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, err
	}
	if i := bytes.IndexRune(out, utf8.RuneError); i >= 0 {
		line := bytes.Count(out[:i], []byte("\n")) + 1
		return nil, fmt.Errorf("invalid byte sequence on line %d", line)
	}
	return out, nil
}
