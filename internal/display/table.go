package display

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Table is a column aligned listing.
type Table struct {
	headers []string
	rows    [][]string
	styles  []*color.Color // Per-row color, nil for plain rows
}

// NewTable creates a table with the given column headers.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers}
}

// AddRow appends a row; missing cells are left empty and extra cells dropped.
func (t *Table) AddRow(cells ...string) {
	t.AddStyledRow(nil, cells...)
}

// AddStyledRow appends a row rendered in c when colors are enabled.
func (t *Table) AddStyledRow(c *color.Color, cells ...string) {
	row := make([]string, len(t.headers))
	copy(row, cells)
	t.rows = append(t.rows, row)
	t.styles = append(t.styles, c)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Render writes the header, a separator line and all rows.
func (t *Table) Render(w io.Writer, colorOutput bool) error {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if n := utf8.RuneCountInString(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}

	header := t.format(t.headers, widths)
	separator := strings.Repeat("-", utf8.RuneCountInString(header))
	if colorOutput {
		header = color.New(color.Bold).Sprint(header)
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, separator); err != nil {
		return err
	}

	for i, row := range t.rows {
		line := t.format(row, widths)
		if colorOutput && t.styles[i] != nil {
			line = t.styles[i].Sprint(line)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) format(cells []string, widths []int) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		if i == len(cells)-1 {
			parts[i] = cell
			continue
		}
		pad := widths[i] - utf8.RuneCountInString(cell)
		parts[i] = cell + strings.Repeat(" ", pad)
	}
	return strings.Join(parts, "  ")
}

// IsTerminal reports whether w is a terminal that accepts colors.
func IsTerminal(w io.Writer) bool {
	if color.NoColor {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Truncate shortens s to max runes, marking the cut with "...".
func Truncate(s string, max int) string {
	if max <= 3 || utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-3]) + "..."
}
