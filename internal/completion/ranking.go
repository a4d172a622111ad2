package completion

import (
	"strings"
	"unicode/utf8"
)

// promote prefixes the sort text of suggestions with "1" so they rank
// above functions offered alongside them.
func promote(suggestions []Suggestion, enabled bool) []Suggestion {
	if !enabled {
		return suggestions
	}
	out := make([]Suggestion, len(suggestions))
	for i, s := range suggestions {
		s.SortText = "1" + s.SortText
		out[i] = s
	}
	return out
}

// OverlapRange returns the range of query replaced by text: the longest
// suffix of query that is a prefix of text, compared case-insensitively.
// Offsets are bytes of query and never split a rune.
func OverlapRange(query, text string) Range {
	overlap := 0
	for i := 1; i <= len(text) && i <= len(query); i++ {
		if i < len(text) && !utf8.RuneStart(text[i]) {
			continue
		}
		start := len(query) - i
		if !utf8.RuneStart(query[start]) {
			continue
		}
		if strings.EqualFold(query[start:], text[:i]) {
			overlap = i
		}
	}
	return Range{Start: len(query) - overlap, End: len(query)}
}

func withOverlapRange(query string, suggestions []Suggestion) []Suggestion {
	out := make([]Suggestion, len(suggestions))
	for i, s := range suggestions {
		r := OverlapRange(query, s.Text)
		s.Range = &r
		out[i] = s
	}
	return out
}

// withRange sets a fixed replacement range on every suggestion.
func withRange(suggestions []Suggestion, r Range) []Suggestion {
	out := make([]Suggestion, len(suggestions))
	for i, s := range suggestions {
		rr := r
		s.Range = &rr
		out[i] = s
	}
	return out
}

// uniqueByText drops suggestions whose text was already seen. The first
// occurrence wins.
func uniqueByText(suggestions []Suggestion) []Suggestion {
	seen := make(map[string]struct{}, len(suggestions))
	out := suggestions[:0:0]
	for _, s := range suggestions {
		if _, dup := seen[s.Text]; dup {
			continue
		}
		seen[s.Text] = struct{}{}
		out = append(out, s)
	}
	return out
}
