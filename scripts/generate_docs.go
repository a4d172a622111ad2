package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/oakwood-commons/esqlc/internal/esql/definitions"
	"github.com/oakwood-commons/esqlc/internal/formatter"
)

// Writes the command and function reference of the built-in catalog as
// commands.html and functions.html under the given directory.
func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <dist-dir>\n", os.Args[0])
		os.Exit(1)
	}
	distDir := os.Args[1]
	if err := os.MkdirAll(distDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", distDir, err)
		os.Exit(1)
	}

	c := definitions.Default()
	pages := []struct {
		file    string
		title   string
		section formatter.CatalogSection
	}{
		{file: "commands.html", title: "ES|QL commands", section: formatter.SectionCommands},
		{file: "functions.html", title: "ES|QL functions", section: formatter.SectionFunctions},
	}
	for _, page := range pages {
		path := filepath.Join(distDir, page.file)
		if err := writePage(path, page.title, func(w io.Writer) error {
			return formatter.RenderCatalog(w, c, page.section, formatter.Options{Format: formatter.FormatHTML, NoColor: true})
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Generated %s\n", path)
	}
}

func writePage(path, title string, body func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	writeHeader(f, title)
	if err := body(f); err != nil {
		f.Close()
		return err
	}
	writeFooter(f)
	return f.Close()
}

func writeHeader(w io.Writer, title string) {
	fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>%s</title>
  <style>
    body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Helvetica, Arial, sans-serif; max-width: 960px; margin: 0 auto; padding: 2rem; line-height: 1.5; color: #24292f; }
    code, pre { font-family: ui-monospace, SFMono-Regular, Menlo, monospace; background: #f6f8fa; border-radius: 4px; }
    pre { padding: 0.75rem; overflow-x: auto; }
    table { border-collapse: collapse; width: 100%%; }
    th, td { border: 1px solid #d0d7de; padding: 0.4rem 0.6rem; text-align: left; vertical-align: top; }
    th { background: #f6f8fa; }
  </style>
</head>
<body>
`, title)
}

func writeFooter(w io.Writer) {
	fmt.Fprint(w, `</body>
</html>
`)
}
