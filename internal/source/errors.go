// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"errors"
	"fmt"
)

// Conditions reported by the loader. All of them abort the run.
var (
	ErrMissingInputFile = errors.New("input file not found")
	ErrEncoding         = errors.New("input file cannot be decoded")
	ErrMissingColumn    = errors.New("required column missing")
	ErrMalformedCSV     = errors.New("malformed CSV")
	ErrMalformedNumber  = errors.New("malformed number")
)

// FileError ties a loader condition to the file that triggered it.
// errors.Is matches both Kind and the underlying cause.
type FileError struct {
	Kind error
	Path string

	// Row is the 1-based data row (header excluded), or 0 when the
	// condition applies to the whole file.
	Row int

	// Detail is the offending value or column name, if any.
	Detail string

	Err error
}

func (e *FileError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Path, e.Kind)
	if e.Row > 0 {
		msg += fmt.Sprintf(" (row %d)", e.Row)
	}
	if e.Detail != "" {
		msg += fmt.Sprintf(": %q", e.Detail)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FileError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
