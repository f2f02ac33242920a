// Package sheet reads spreadsheet and delimited text inputs into header-keyed tables.
package sheet

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	appErrors "github.com/noah-isme/fund-dynamics-api/pkg/errors"
)

// Table is a header row plus positional data rows. Rows are padded to the
// header width.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]string

	index map[string]int
}

// NewTable normalises header cells and pads or truncates rows to the header width.
func NewTable(name string, headers []string, rows [][]string) *Table {
	t := &Table{
		Name:    name,
		Headers: make([]string, len(headers)),
		Rows:    make([][]string, 0, len(rows)),
		index:   make(map[string]int, len(headers)),
	}
	for i, h := range headers {
		h = NormalizeHeader(h)
		t.Headers[i] = h
		if _, dup := t.index[h]; !dup && h != "" {
			t.index[h] = i
		}
	}
	for _, row := range rows {
		if isBlank(row) {
			continue
		}
		cells := make([]string, len(headers))
		copy(cells, row)
		t.Rows = append(t.Rows, cells)
	}
	return t
}

// NormalizeHeader trims whitespace (including non-breaking spaces) and applies
// Unicode NFC so visually equal Cyrillic headers compare equal.
func NormalizeHeader(h string) string {
	h = strings.Map(func(r rune) rune {
		switch r {
		case '\u00a0':
			return ' '
		case '\ufeff':
			return -1
		}
		return r
	}, h)
	return norm.NFC.String(strings.Join(strings.Fields(h), " "))
}

// Column returns the position of a header.
func (t *Table) Column(name string) (int, bool) {
	i, ok := t.index[NormalizeHeader(name)]
	return i, ok
}

// Alias makes an existing column reachable under another name when that name is not present yet.
func (t *Table) Alias(from, to string) {
	i, ok := t.Column(from)
	if !ok {
		return
	}
	if _, exists := t.Column(to); exists {
		return
	}
	t.index[NormalizeHeader(to)] = i
}

// Require fails with a SchemaError listing every absent column.
func (t *Table) Require(columns ...string) error {
	var missing []string
	for _, col := range columns {
		if _, ok := t.Column(col); !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &appErrors.SchemaError{
		Table:    t.Name,
		Missing:  missing,
		Required: append([]string(nil), columns...),
	}
}

// Value reads a cell by header; unknown columns read as empty.
func (t *Table) Value(row []string, column string) string {
	i, ok := t.Column(column)
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
