package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/oakwood-commons/esqlc/internal/esql/definitions"
)

// CommandsTable lists every command with its options.
func CommandsTable(c *definitions.Catalog) Table {
	t := Table{Headers: []string{"COMMAND", "OPTIONS", "DESCRIPTION"}}
	for _, cmd := range c.Commands() {
		opts := make([]string, 0, len(cmd.Options))
		for _, o := range cmd.Options {
			opts = append(opts, strings.ToUpper(string(o.Name)))
		}
		t.Rows = append(t.Rows, []string{strings.ToUpper(string(cmd.Name)), strings.Join(opts, ", "), firstLine(cmd.Description)})
	}
	return t
}

// FunctionsTable lists every function that is offered as a suggestion,
// with its first declaration.
func FunctionsTable(c *definitions.Catalog) Table {
	t := Table{Headers: []string{"FUNCTION", "TYPE", "DECLARATION", "DESCRIPTION"}}
	for _, fn := range c.Functions(definitions.FunctionEval, definitions.FunctionAgg) {
		if fn.IgnoreAsSuggestion {
			continue
		}
		decl := ""
		if len(fn.Signatures) > 0 {
			decl = definitions.Declaration(fn.Name, fn.Signatures[0])
		}
		t.Rows = append(t.Rows, []string{strings.ToUpper(fn.Name), string(fn.Type), decl, firstLine(fn.Description)})
	}
	return t
}

// FunctionsMarkdown documents every suggested function under its own
// heading.
func FunctionsMarkdown(c *definitions.Catalog) string {
	var b strings.Builder
	b.WriteString("# ES|QL functions\n")
	for _, fn := range c.Functions(definitions.FunctionEval, definitions.FunctionAgg) {
		if fn.IgnoreAsSuggestion || len(fn.Signatures) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## %s\n\n%s\n\n%s", strings.ToUpper(fn.Name), fn.Description, fn.Documentation())
	}
	return b.String()
}

// CatalogSection selects what RenderCatalog lists.
type CatalogSection string

const (
	SectionCommands  CatalogSection = "commands"
	SectionFunctions CatalogSection = "functions"
)

// RenderCatalog writes one section of the catalog. HTML and markdown
// output of functions carries the full documentation of each.
func RenderCatalog(w io.Writer, c *definitions.Catalog, section CatalogSection, opts Options) error {
	switch section {
	case SectionCommands:
		return Render(w, c.Commands(), CommandsTable(c), opts)
	case SectionFunctions:
		switch opts.Format {
		case FormatMarkdown:
			_, err := io.WriteString(w, FunctionsMarkdown(c))
			return err
		case FormatHTML:
			_, err := io.WriteString(w, RenderHTML(FunctionsMarkdown(c)))
			return err
		}
		return Render(w, c.Functions(definitions.FunctionEval, definitions.FunctionAgg), FunctionsTable(c), opts)
	default:
		return fmt.Errorf("unknown catalog section %q", section)
	}
}
