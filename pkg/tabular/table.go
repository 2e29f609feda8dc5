// Package tabular holds raw, untrusted tables as read from source exports and
// the CSV codec used to move them between pipeline stages.
package tabular

import (
	"slices"
	"strings"
)

// Row maps a source column name to its raw cell value.
type Row map[string]string

// Get returns the first non-empty value among the given columns.
// Column names are matched case-insensitively.
func (r Row) Get(columns ...string) string {
	for _, col := range columns {
		if v, ok := r[col]; ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		for k, v := range r {
			if strings.EqualFold(k, col) && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
	}
	return ""
}

// Table is a raw table with ordered columns.
type Table struct {
	Name    string
	Columns []string
	Rows    []Row
}

// New creates an empty table with the given columns.
func New(name string, columns ...string) *Table {
	return &Table{Name: name, Columns: columns}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Has reports whether any of the given columns exist, case-insensitively.
func (t *Table) Has(columns ...string) bool {
	for _, col := range columns {
		if slices.ContainsFunc(t.Columns, func(c string) bool { return strings.EqualFold(c, col) }) {
			return true
		}
	}
	return false
}

// Append adds a row. Columns not yet known are added in the order seen.
func (t *Table) Append(row Row) {
	keys := make([]string, 0, len(row))
	for k := range row {
		if !slices.Contains(t.Columns, k) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	t.Columns = append(t.Columns, keys...)
	t.Rows = append(t.Rows, row)
}

// Records returns the rows as string slices in column order.
func (t *Table) Records() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rec := make([]string, len(t.Columns))
		for j, col := range t.Columns {
			rec[j] = row[col]
		}
		out[i] = rec
	}
	return out
}
