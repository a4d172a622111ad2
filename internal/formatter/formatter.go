// Package formatter renders suggestion lists and catalog listings as
// tables, lists, JSON, YAML, markdown or HTML.
package formatter

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
)

// ErrUnknownFormat is returned by ParseFormat for unsupported names.
var ErrUnknownFormat = errors.New("unknown output format")

// Format names an output rendering.
type Format string

const (
	FormatTable    Format = "table"
	FormatList     Format = "list"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Formats lists every supported format.
var Formats = []Format{FormatTable, FormatList, FormatJSON, FormatYAML, FormatMarkdown, FormatHTML}

// ParseFormat parses a format name. "md" is accepted for markdown.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "md" {
		return FormatMarkdown, nil
	}
	for _, f := range Formats {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w %q (want one of %s)", ErrUnknownFormat, s, joinFormats())
}

func joinFormats() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// Options control rendering.
type Options struct {
	Format  Format
	NoColor bool
	// Width caps table width; zero uses the terminal width.
	Width int
}

// Table is data laid out in named columns.
type Table struct {
	Headers []string
	Rows    [][]string
}

// cell returns row[i], or "" when the row is short.
func (t Table) cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// Render writes data in the requested format. JSON and YAML encode data
// itself; the other formats render table.
func Render(w io.Writer, data any, table Table, opts Options) error {
	var out string
	switch opts.Format {
	case FormatJSON:
		b, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return err
		}
		out = string(b) + "\n"
	case FormatYAML:
		s, err := FormatYAML(data, YAMLFormatOptions{LiteralBlockStrings: true})
		if err != nil {
			return err
		}
		out = s
	case FormatList:
		out = FormatAsList(table, ListOptions{NoColor: opts.NoColor})
	case FormatMarkdown:
		out = RenderMarkdownTable(table)
	case FormatHTML:
		out = RenderHTML(RenderMarkdownTable(table))
	case FormatTable, "":
		width := opts.Width
		if width <= 0 {
			width = getTerminalWidth()
		}
		out = RenderColumns(table, opts.NoColor, width)
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, opts.Format)
	}
	_, err := io.WriteString(w, out)
	return err
}

var (
	defaultHeaderFG   = lipgloss.Color("12")
	defaultHeaderBG   = lipgloss.Color("236")
	defaultKeyColor   = lipgloss.Color("14")
	defaultValueColor = lipgloss.Color("248")
	defaultSeparator  = lipgloss.Color("240")

	headerStyle    lipgloss.Style
	keyStyle       lipgloss.Style
	valueStyle     lipgloss.Style
	separatorStyle lipgloss.Style
)

// TableColors controls the rendered colors. Nil fields fall back to the
// defaults.
type TableColors struct {
	HeaderFG       color.Color
	HeaderBG       color.Color
	KeyColor       color.Color
	ValueColor     color.Color
	SeparatorColor color.Color
}

func orDefault(c, def color.Color) color.Color {
	if c == nil {
		return def
	}
	return c
}

// SetTableTheme overrides the package styles.
func SetTableTheme(tc TableColors) {
	headerStyle = lipgloss.NewStyle().Bold(true).
		Foreground(orDefault(tc.HeaderFG, defaultHeaderFG)).
		Background(orDefault(tc.HeaderBG, defaultHeaderBG))
	keyStyle = lipgloss.NewStyle().Foreground(orDefault(tc.KeyColor, defaultKeyColor))
	valueStyle = lipgloss.NewStyle().Foreground(orDefault(tc.ValueColor, defaultValueColor))
	separatorStyle = lipgloss.NewStyle().Foreground(orDefault(tc.SeparatorColor, defaultSeparator))
}

//nolint:gochecknoinits // initialize default table theme for package consumers
func init() {
	SetTableTheme(TableColors{})
}

// flatten keeps table cells on one line.
func flatten(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.ReplaceAll(s, "\n", "\\n")
}
