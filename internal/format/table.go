package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cristianoliveira/orderdesk/internal/colors"
)

// TableColumn represents a column in a table of T.
type TableColumn[T any] struct {
	// Name is the column name displayed in the header.
	Name string

	// Width is the column width in cells.
	Width int

	// Alignment is the text alignment (left, right, center).
	Alignment string

	// Extractor extracts the cell value from a row.
	Extractor func(*T) string
}

// table renders rows of T under a colored header and a separator.
type table[T any] struct {
	columns     []TableColumn[T]
	headerColor string
}

func (t table[T]) write(rows []T, w io.Writer) error {
	if len(rows) == 0 {
		return nil
	}
	if err := t.writeLine(w, t.headerColor, func(col TableColumn[T]) string {
		return formatString(col.Name, col.Width, "left")
	}); err != nil {
		return err
	}
	if err := t.writeLine(w, t.headerColor, func(col TableColumn[T]) string {
		return strings.Repeat("-", col.Width)
	}); err != nil {
		return err
	}
	for i := range rows {
		row := &rows[i]
		if err := t.writeLine(w, "", func(col TableColumn[T]) string {
			return formatString(truncateString(col.Extractor(row), col.Width), col.Width, col.Alignment)
		}); err != nil {
			return err
		}
	}
	return nil
}

func (t table[T]) writeLine(w io.Writer, color string, cell func(TableColumn[T]) string) error {
	cells := make([]string, len(t.columns))
	for i, col := range t.columns {
		cells[i] = cell(col)
	}
	line := strings.TrimRight(strings.Join(cells, "  "), " ")
	if color != "" {
		line = color + line + colors.Reset
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

// formatString pads s to width display cells with the given alignment.
func formatString(s string, width int, alignment string) string {
	pad := width - lipgloss.Width(s)
	if pad <= 0 {
		return s
	}
	switch alignment {
	case "right":
		return strings.Repeat(" ", pad) + s
	case "center":
		left := pad / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
	default: // left
		return s + strings.Repeat(" ", pad)
	}
}

// truncateString shortens s to width display cells, adding "..." if truncated.
func truncateString(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if width < 3 {
		return string(runes[:min(width, len(runes))])
	}
	for len(runes) > 0 && lipgloss.Width(string(runes))+3 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
