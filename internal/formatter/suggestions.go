package formatter

import (
	"io"
	"strings"

	"github.com/oakwood-commons/esqlc/internal/completion"
)

// SuggestionsTable lays out suggestions as LABEL, KIND, TEXT and DETAIL
// columns.
func SuggestionsTable(items []completion.Suggestion) Table {
	t := Table{Headers: []string{"LABEL", "KIND", "TEXT", "DETAIL"}}
	for _, s := range items {
		t.Rows = append(t.Rows, []string{s.Label, string(s.Kind), s.Text, firstLine(s.Detail)})
	}
	return t
}

// RenderSuggestions writes items in the requested format. List output
// prints one label per line so it can be piped.
func RenderSuggestions(w io.Writer, items []completion.Suggestion, opts Options) error {
	if items == nil {
		items = []completion.Suggestion{}
	}
	if opts.Format == FormatList {
		_, err := io.WriteString(w, FormatAsList(SuggestionsTable(items), ListOptions{NoColor: opts.NoColor, Compact: true}))
		return err
	}
	return Render(w, items, SuggestionsTable(items), opts)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
