// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"strconv"
	"strings"

	"github.com/pdiddy/techlife/pkg/types"
)

// Keywords counts rows per trimmed keyword. Blank keywords are counted
// under the empty key; no row is filtered.
func Keywords(t *Table, column string) types.KeywordTable {
	counts := make(types.KeywordTable)
	for i := range t.Rows {
		counts[strings.TrimSpace(t.Value(i, column))]++
	}
	return counts
}

// PromisingTech maps each trimmed technology name to its trimmed invention
// title. Duplicate names keep the last row.
func PromisingTech(t *Table, nameColumn, titleColumn string) types.PromisingTechTable {
	techs := make(types.PromisingTechTable, t.Len())
	for i := range t.Rows {
		name := strings.TrimSpace(t.Value(i, nameColumn))
		techs[name] = strings.TrimSpace(t.Value(i, titleColumn))
	}
	return techs
}

// Expenditure maps each trimmed division label to its total expenditure.
// A value that does not parse after separator removal fails the whole table.
func Expenditure(t *Table, divisionColumn, amountColumn string) (types.ExpenditureTable, error) {
	out := make(types.ExpenditureTable, t.Len())
	for i := range t.Rows {
		raw := t.Value(i, amountColumn)
		amount, err := ParseAmount(raw)
		if err != nil {
			return nil, &FileError{Kind: ErrMalformedNumber, Path: t.Path, Row: i + 1, Detail: raw, Err: err}
		}
		out[strings.TrimSpace(t.Value(i, divisionColumn))] = amount
	}
	return out, nil
}

// ParseAmount strips thousands separators and parses a base-10 integer,
// e.g. "1,234,567" -> 1234567. Surrounding whitespace and a leading sign
// are accepted.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	return strconv.ParseInt(s, 10, 64)
}
