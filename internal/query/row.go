// Package query binds parameters to a search's query text and executes it,
// returning rows that keep their driver-reported column types alongside the
// scanned values.
package query

import (
	"github.com/solatis/dbdrill/internal/coerce"
)

// Column is a result column: its name and the driver-reported database type
// name (e.g. INT4, TEXT, JSONB, _TEXT, TIMESTAMPTZ).
type Column struct {
	Name   string
	DBType string
}

// Row is one result row. Values are the raw scanned cells, index-aligned
// with Columns.
type Row struct {
	Columns []Column
	Values  []any
}

// Index returns the position of the named column, or -1.
func (r *Row) Index(name string) int {
	for i, c := range r.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Value returns the raw cell for the named column.
func (r *Row) Value(name string) (any, bool) {
	i := r.Index(name)
	if i < 0 {
		return nil, false
	}
	return r.Values[i], true
}

// Display renders the i-th cell for display. Decode failures become the
// cell's content; the rest of the row always renders.
func (r *Row) Display(i int) string {
	return coerce.DecodeCell(r.Columns[i].DBType, r.Values[i])
}

// DisplayByName renders the named cell for display.
func (r *Row) DisplayByName(name string) (string, bool) {
	i := r.Index(name)
	if i < 0 {
		return "", false
	}
	return r.Display(i), true
}
