package repl

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/oakwood-commons/esqlc/internal/completion"
)

const snippetCursor = "$0"

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("_.@`?", r)
}

// wordBefore returns the identifier-like text ending at offset.
func wordBefore(text string, offset int) string {
	offset = clamp(offset, 0, len(text))
	start := offset
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:start])
		if !isWordRune(r) {
			break
		}
		start -= size
	}
	return text[start:offset]
}

// narrow keeps the suggestions whose label fuzzily matches word, in
// their original order. An empty word keeps everything.
func narrow(items []completion.Suggestion, word string) []completion.Suggestion {
	word = strings.Trim(word, "`")
	if word == "" {
		return items
	}
	labels := make([]string, len(items))
	for i, s := range items {
		labels[i] = s.Label
	}
	ranks := fuzzy.RankFindFold(word, labels)
	sort.Slice(ranks, func(i, j int) bool { return ranks[i].OriginalIndex < ranks[j].OriginalIndex })

	out := make([]completion.Suggestion, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, items[r.OriginalIndex])
	}
	return out
}

// apply inserts s into text at the byte offset cursor and returns the new
// text and cursor. Suggestions are computed at the start of the word
// before the cursor, so that word is always replaced, together with
// s.Range when set. A "$0" placeholder marks where the cursor lands and
// is removed.
func apply(text string, cursor int, s completion.Suggestion) (string, int) {
	cursor = clamp(cursor, 0, len(text))
	wordStart := cursor - len(wordBefore(text, cursor))
	start, end := wordStart, cursor
	if s.Range != nil {
		start = clamp(s.Range.Start, 0, len(text))
		end = clamp(s.Range.End, start, len(text))
		if end == wordStart {
			end = cursor
		}
	}

	insert := s.Text
	caret := start + len(insert)
	if i := strings.Index(insert, snippetCursor); i >= 0 {
		insert = insert[:i] + insert[i+len(snippetCursor):]
		caret = start + i
	}
	return text[:start] + insert + text[end:], caret
}

// byteOffset converts a rune position of text to a byte offset.
func byteOffset(text string, runes int) int {
	for i := range text {
		if runes == 0 {
			return i
		}
		runes--
	}
	return len(text)
}

// runeOffset converts a byte offset of text to a rune position.
func runeOffset(text string, offset int) int {
	return utf8.RuneCountInString(text[:clamp(offset, 0, len(text))])
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
