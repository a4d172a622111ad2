package formatter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	runewidth "github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/esqlc/internal/completion"
	"github.com/oakwood-commons/esqlc/internal/esql/definitions"
)

func sampleSuggestions() []completion.Suggestion {
	return []completion.Suggestion{
		{Label: "bytes", Text: "bytes", Kind: completion.KindVariable, Detail: "long"},
		{Label: "AVG", Text: "AVG($0)", Kind: completion.KindFunction, Detail: "Returns the average\nof a column", AsSnippet: true},
		{Label: "|", Text: "| ", Kind: completion.KindKeyword, Detail: "Pipe | (new command)"},
	}
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats {
		got, err := ParseFormat(strings.ToUpper(string(f)))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	got, err := ParseFormat("md")
	require.NoError(t, err)
	assert.Equal(t, FormatMarkdown, got)

	_, err = ParseFormat("csv")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestRenderSuggestionsTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSuggestions(&buf, sampleSuggestions(), Options{Format: FormatTable, NoColor: true, Width: 200}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "LABEL"))
	assert.Contains(t, lines[1], "───")
	assert.Contains(t, lines[3], "Returns the average", "detail keeps its first line")
	assert.NotContains(t, buf.String(), "of a column")
	assert.Contains(t, lines[4], `Pipe | (new command)`)
}

func TestRenderColumnsFitsWidth(t *testing.T) {
	tbl := Table{
		Headers: []string{"A", "B"},
		Rows:    [][]string{{"short", strings.Repeat("x", 100)}},
	}
	out := RenderColumns(tbl, true, 40)
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		assert.LessOrEqual(t, runewidth.StringWidth(line), 40, line)
	}
	assert.Contains(t, out, "...")
}

func TestRenderColumnsWideRunes(t *testing.T) {
	tbl := Table{Headers: []string{"NAME", "X"}, Rows: [][]string{{"日本語", "1"}, {"ab", "2"}}}
	lines := strings.Split(strings.TrimRight(RenderColumns(tbl, true, 0), "\n"), "\n")
	require.Len(t, lines, 4)
	col := func(line, cell string) int { return runewidth.StringWidth(line[:strings.Index(line, cell)]) }
	assert.Equal(t, col(lines[2], "1"), col(lines[3], "2"), "columns align by display width")
}

func TestRenderColumnsEmpty(t *testing.T) {
	assert.Empty(t, RenderColumns(Table{}, true, 80))
}

func TestRenderSuggestionsList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSuggestions(&buf, sampleSuggestions(), Options{Format: FormatList, NoColor: true}))
	assert.Equal(t, "bytes\nAVG\n|\n", buf.String())
}

func TestFormatAsList(t *testing.T) {
	tbl := Table{Headers: []string{"NAME", "TYPE"}, Rows: [][]string{{"a", "long"}, {"b", ""}}}
	assert.Equal(t, "name: a\ntype: long\n\nname: b\n", FormatAsList(tbl, ListOptions{NoColor: true}))
}

func TestRenderSuggestionsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSuggestions(&buf, nil, Options{Format: FormatJSON}))
	assert.Equal(t, "[]\n", buf.String())

	buf.Reset()
	require.NoError(t, RenderSuggestions(&buf, sampleSuggestions(), Options{Format: FormatJSON}))
	var decoded []completion.Suggestion
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, sampleSuggestions(), decoded)
}

func TestRenderSuggestionsYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSuggestions(&buf, sampleSuggestions(), Options{Format: FormatYAML}))
	assert.Contains(t, buf.String(), "detail: |-\n")

	var decoded []completion.Suggestion
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "AVG($0)", decoded[1].Text)
}

func TestRenderMarkdownTable(t *testing.T) {
	tbl := Table{Headers: []string{"A", "B"}, Rows: [][]string{{"x|y", "line1\nline2"}}}
	assert.Equal(t, "| A | B |\n| --- | --- |\n| x\\|y | line1<br>line2 |\n", RenderMarkdownTable(tbl))
}

func TestRenderHTML(t *testing.T) {
	out := RenderHTML("## Title\n\n`code`")
	assert.Contains(t, out, `<h2 id="title">Title</h2>`)
	assert.Contains(t, out, "<code>code</code>")
}

func TestRenderUnknownFormat(t *testing.T) {
	err := Render(&bytes.Buffer{}, nil, Table{}, Options{Format: "csv"})
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestRenderCatalog(t *testing.T) {
	c := definitions.Default()

	var buf bytes.Buffer
	require.NoError(t, RenderCatalog(&buf, c, SectionCommands, Options{Format: FormatMarkdown}))
	assert.Contains(t, buf.String(), "| STATS | BY |")

	buf.Reset()
	require.NoError(t, RenderCatalog(&buf, c, SectionFunctions, Options{Format: FormatTable, NoColor: true, Width: 300}))
	assert.Contains(t, buf.String(), "round(")
	assert.NotContains(t, buf.String(), "not_like", "operators are not listed")

	buf.Reset()
	require.NoError(t, RenderCatalog(&buf, c, SectionFunctions, Options{Format: FormatHTML}))
	assert.Contains(t, buf.String(), `<h2 id="avg">AVG</h2>`)

	assert.Error(t, RenderCatalog(&buf, c, "operators", Options{}))
}

func TestFormatYAMLIndent(t *testing.T) {
	out, err := FormatYAML(map[string]any{"a": map[string]any{"b": 1}}, YAMLFormatOptions{Indent: 4})
	require.NoError(t, err)
	assert.Equal(t, "a:\n    b: 1\n", out)
}
