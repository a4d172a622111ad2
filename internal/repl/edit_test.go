package repl

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oakwood-commons/esqlc/internal/completion"
)

func TestWordBefore(t *testing.T) {
	tests := []struct {
		text   string
		offset int
		want   string
	}{
		{text: "FROM logs | EVAL by", offset: 19, want: "by"},
		{text: "FROM logs | EVAL by", offset: 18, want: "b"},
		{text: "WHERE host.na", offset: 13, want: "host.na"},
		{text: "EVAL x = ", offset: 9, want: ""},
		{text: "WHERE @time", offset: 99, want: "@time"},
		{text: "WHERE é", offset: len("WHERE é"), want: "é"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, wordBefore(tt.text, tt.offset), tt.text)
	}
}

func TestNarrow(t *testing.T) {
	items := []completion.Suggestion{{Label: "bytes"}, {Label: "host"}, {Label: "bytes_out"}, {Label: "AVG"}}

	assert.Equal(t, items, narrow(items, ""))

	got := narrow(items, "byt")
	assert.Equal(t, []completion.Suggestion{{Label: "bytes"}, {Label: "bytes_out"}}, got)

	got = narrow(items, "bo")
	assert.Equal(t, []completion.Suggestion{{Label: "bytes_out"}}, got, "fuzzy match")

	got = narrow(items, "avg")
	assert.Equal(t, []completion.Suggestion{{Label: "AVG"}}, got, "case folded")

	assert.Empty(t, narrow(items, "zzz"))
}

func TestApply(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		cursor     int
		s          completion.Suggestion
		wantText   string
		wantCursor int
	}{
		{
			name:       "insert at cursor",
			text:       "FROM a | ",
			cursor:     9,
			s:          completion.Suggestion{Text: "LIMIT "},
			wantText:   "FROM a | LIMIT ",
			wantCursor: 15,
		},
		{
			name:       "replace the typed prefix",
			text:       "FROM a | WHERE by",
			cursor:     17,
			s:          completion.Suggestion{Text: "bytes"},
			wantText:   "FROM a | WHERE bytes",
			wantCursor: 20,
		},
		{
			name:       "snippet cursor",
			text:       "FROM a | STATS ",
			cursor:     15,
			s:          completion.Suggestion{Text: "AVG($0)"},
			wantText:   "FROM a | STATS AVG()",
			wantCursor: 19,
		},
		{
			name:       "explicit range",
			text:       "WHERE a IS ",
			cursor:     11,
			s:          completion.Suggestion{Text: "IS NOT NULL", Range: &completion.Range{Start: 8, End: 11}},
			wantText:   "WHERE a IS NOT NULL",
			wantCursor: 19,
		},
		{
			name:       "replace a fuzzy match",
			text:       "WHERE bo",
			cursor:     8,
			s:          completion.Suggestion{Text: "bytes_out"},
			wantText:   "WHERE bytes_out",
			wantCursor: 15,
		},
		{
			name:       "range ending at the typed word",
			text:       "EVAL x = IS N",
			cursor:     13,
			s:          completion.Suggestion{Text: "IS NOT NULL", Range: &completion.Range{Start: 9, End: 12}},
			wantText:   "EVAL x = IS NOT NULL",
			wantCursor: 20,
		},
		{
			name:       "keeps text after the cursor",
			text:       "EVAL  | LIMIT 1",
			cursor:     5,
			s:          completion.Suggestion{Text: "x"},
			wantText:   "EVAL x | LIMIT 1",
			wantCursor: 6,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, cursor := apply(tt.text, tt.cursor, tt.s)
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, tt.wantCursor, cursor)
		})
	}
}

func TestOffsets(t *testing.T) {
	text := "a é b"
	assert.Equal(t, 0, byteOffset(text, 0))
	assert.Equal(t, 4, byteOffset(text, 3))
	assert.Equal(t, len(text), byteOffset(text, 99))
	assert.Equal(t, 3, runeOffset(text, 4))
	assert.Equal(t, 5, runeOffset(text, 99))
}
