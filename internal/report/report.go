// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report serializes the lifecycle report to disk.
package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/techlife/pkg/types"
)

// ErrWriteFailure marks any failure to persist the report.
var ErrWriteFailure = errors.New("report write failed")

// WriteError carries the destination path of a failed write.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Path, ErrWriteFailure, e.Err)
}

func (e *WriteError) Unwrap() []error {
	return []error{ErrWriteFailure, e.Err}
}

// Write serializes doc in the given format to path. The file is written to a
// temporary sibling and renamed into place, so a failed write leaves any
// previous report untouched.
func Write(path string, format types.OutputFormat, doc types.OutputDocument) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case types.FormatJSON, "":
		data, err = MarshalJSON(doc)
	case types.FormatYAML:
		data, err = MarshalYAML(doc)
	case types.FormatXLSX:
		data, err = MarshalXLSX(doc)
	default:
		err = fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}

	if err := writeAtomic(path, data); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// MarshalJSON renders doc as UTF-8 JSON with two-space indentation and
// non-ASCII characters left unescaped.
func MarshalJSON(doc types.OutputDocument) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return unescapeLineSeparators(buf.Bytes()), nil
}

// unescapeLineSeparators writes U+2028 and U+2029 raw. encoding/json always
// escapes them, even with HTML escaping off. A literal backslash in the input
// is encoded as \\, so escapes are consumed in pairs.
func unescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] != '\\' || i+1 >= len(data) {
			out = append(out, data[i])
			continue
		}
		if rest := data[i+1:]; bytes.HasPrefix(rest, []byte("u2028")) || bytes.HasPrefix(rest, []byte("u2029")) {
			r := '\u2028'
			if rest[4] == '9' {
				r = '\u2029'
			}
			out = utf8.AppendRune(out, r)
			i += 5
			continue
		}
		out = append(out, data[i], data[i+1])
		i++
	}
	return out
}

// MarshalYAML renders doc as YAML.
func MarshalYAML(doc types.OutputDocument) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, fmt.Errorf("marshaling YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("marshaling YAML: %w", err)
	}
	return buf.Bytes(), nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, ".techlife-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing report: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
