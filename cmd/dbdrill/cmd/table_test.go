package cmd

import (
	"strings"
	"testing"

	"github.com/solatis/dbdrill/internal/query"
)

func sampleRows() []query.Row {
	cols := []query.Column{
		{Name: "id", DBType: "INT8"},
		{Name: "name", DBType: "TEXT"},
	}
	return []query.Row{
		{Columns: cols, Values: []any{int64(0), "alice"}},
		{Columns: cols, Values: []any{int64(1), strings.Repeat("x", 100)}},
	}
}

func TestColWidth(t *testing.T) {
	rows := sampleRows()

	if got := colWidth(rows, 0); got != 2 {
		t.Errorf("id width = %d, want 2 (header)", got)
	}
	if got := colWidth(rows, 1); got != maxColWidth {
		t.Errorf("name width = %d, want clipped to %d", got, maxColWidth)
	}
	if got := colWidth(nil, 0); got != 0 {
		t.Errorf("empty rows width = %d, want 0", got)
	}
}

func TestRenderTable(t *testing.T) {
	var buf strings.Builder
	renderTable(&buf, sampleRows())
	out := buf.String()

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2 rows:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "#") {
		t.Errorf("header = %q, want leading index column", lines[0])
	}
	if !strings.Contains(lines[1], "alice") {
		t.Errorf("first row = %q, want alice", lines[1])
	}
	// The wide cell is clipped, not allowed to stretch the column.
	if strings.Contains(lines[2], strings.Repeat("x", maxColWidth+1)) {
		t.Errorf("second row not clipped: %q", lines[2])
	}
	if !strings.HasPrefix(lines[2], "1") {
		t.Errorf("second row = %q, want index 1", lines[2])
	}
}

func TestRenderTableEmpty(t *testing.T) {
	var buf strings.Builder
	renderTable(&buf, nil)
	if got := buf.String(); got != "(no rows)\n" {
		t.Errorf("output = %q", got)
	}
}

func TestRenderRow(t *testing.T) {
	rows := sampleRows()
	var buf strings.Builder
	renderRow(&buf, &rows[0])

	want := "id: 0\nname: alice\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRenderRowNullCell(t *testing.T) {
	row := query.Row{
		Columns: []query.Column{{Name: "payload", DBType: "JSONB"}},
		Values:  []any{nil},
	}
	var buf strings.Builder
	renderRow(&buf, &row)
	if got := buf.String(); got != "payload: <NULL>\n" {
		t.Errorf("output = %q", got)
	}
}
