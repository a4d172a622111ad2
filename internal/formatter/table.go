package formatter

import (
	"os"
	"strings"

	runewidth "github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const (
	columnGap      = 2
	minColumnWidth = 5
)

// getTerminalWidth returns the width of stdout, or 120 when it is not a
// terminal.
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 120
	}
	return width
}

// columnWidths returns the natural display width of every column.
func columnWidths(t Table) []int {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.Rows {
		for i := range widths {
			if w := runewidth.StringWidth(flatten(t.cell(row, i))); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

// fitWidths shrinks the widest column, one cell at a time, until the
// table fits maxWidth or every column is at minColumnWidth.
func fitWidths(widths []int, maxWidth int) []int {
	if maxWidth <= 0 || len(widths) == 0 {
		return widths
	}
	total := func() int {
		sum := columnGap * (len(widths) - 1)
		for _, w := range widths {
			sum += w
		}
		return sum
	}
	for total() > maxWidth {
		widest := 0
		for i, w := range widths {
			if w > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= minColumnWidth {
			break
		}
		widths[widest]--
	}
	return widths
}

// RenderColumns renders t as an aligned table no wider than maxWidth.
// Cells that do not fit are truncated with an ellipsis.
func RenderColumns(t Table, noColor bool, maxWidth int) string {
	if len(t.Headers) == 0 {
		return ""
	}
	widths := fitWidths(columnWidths(t), maxWidth)
	gap := strings.Repeat(" ", columnGap)

	var b strings.Builder
	line := func(cells []string, style func(int, string) string) {
		parts := make([]string, len(widths))
		for i, w := range widths {
			cell := runewidth.FillRight(runewidth.Truncate(flatten(t.cell(cells, i)), w, "..."), w)
			if !noColor {
				cell = style(i, cell)
			}
			parts[i] = cell
		}
		b.WriteString(strings.TrimRight(strings.Join(parts, gap), " "))
		b.WriteString("\n")
	}

	line(t.Headers, func(_ int, s string) string { return headerStyle.Render(s) })
	total := columnGap * (len(widths) - 1)
	for _, w := range widths {
		total += w
	}
	separator := strings.Repeat("─", total)
	if !noColor {
		separator = separatorStyle.Render(separator)
	}
	b.WriteString(separator + "\n")
	for _, row := range t.Rows {
		line(row, func(i int, s string) string {
			if i == 0 {
				return keyStyle.Render(s)
			}
			return valueStyle.Render(s)
		})
	}
	return b.String()
}
