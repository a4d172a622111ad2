package formatter

import (
	"strings"
)

// ListOptions controls list output.
type ListOptions struct {
	NoColor bool
	// Compact prints only the first column of every row.
	Compact bool
}

// FormatAsList renders each row as a block of "header: value" lines,
// separated by blank lines. Empty cells are skipped.
func FormatAsList(t Table, opts ListOptions) string {
	var b strings.Builder
	for n, row := range t.Rows {
		if opts.Compact {
			b.WriteString(t.cell(row, 0))
			b.WriteString("\n")
			continue
		}
		if n > 0 {
			b.WriteString("\n")
		}
		for i, h := range t.Headers {
			val := t.cell(row, i)
			if val == "" {
				continue
			}
			key := strings.ToLower(h)
			if !opts.NoColor {
				key = keyStyle.Render(key)
				val = valueStyle.Render(val)
			}
			b.WriteString(key)
			b.WriteString(": ")
			b.WriteString(val)
			b.WriteString("\n")
		}
	}
	return b.String()
}
