package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/solatis/dbdrill/internal/query"
)

// maxColWidth clips column widths so one wide cell cannot push the rest of
// the table off screen.
const maxColWidth = 32

// colWidth returns the display width for a column: the wider of the header
// and the widest cell, clipped to maxColWidth.
func colWidth(rows []query.Row, col int) int {
	if len(rows) == 0 {
		return 0
	}
	w := len(rows[0].Columns[col].Name)
	for i := range rows {
		if n := len(rows[i].Display(col)); n > w {
			w = n
		}
	}
	if w > maxColWidth {
		w = maxColWidth
	}
	return w
}

func clip(s string, w int) string {
	if len(s) > w {
		return s[:w]
	}
	return s
}

// renderTable prints rows with an index column followed by every result
// column, each padded to its computed width.
func renderTable(w io.Writer, rows []query.Row) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no rows)")
		return
	}

	idxWidth := len(fmt.Sprint(len(rows) - 1))
	widths := make([]int, len(rows[0].Columns))
	header := make([]string, 0, len(widths)+1)
	header = append(header, pad("#", idxWidth))
	for i, c := range rows[0].Columns {
		widths[i] = colWidth(rows, i)
		header = append(header, pad(clip(c.Name, widths[i]), widths[i]))
	}
	fmt.Fprintln(w, strings.Join(header, "  "))

	for idx := range rows {
		cells := make([]string, 0, len(widths)+1)
		cells = append(cells, pad(fmt.Sprint(idx), idxWidth))
		for i := range widths {
			cells = append(cells, pad(clip(rows[idx].Display(i), widths[i]), widths[i]))
		}
		fmt.Fprintln(w, strings.Join(cells, "  "))
	}
}

// renderRow prints one row as a name: value listing, one column per line.
func renderRow(w io.Writer, row *query.Row) {
	for i, c := range row.Columns {
		fmt.Fprintf(w, "%s: %s\n", c.Name, row.Display(i))
	}
}

func pad(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-len(s))
}
