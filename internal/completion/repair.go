package completion

import (
	"strings"

	"github.com/oakwood-commons/esqlc/internal/esql/definitions"
	"github.com/oakwood-commons/esqlc/internal/esql/position"
)

// Repairer turns the query text before the cursor into text the parser
// can build a useful tree from.
type Repairer interface {
	Repair(text string, trigger Trigger) string
}

// RepairFunc adapts a function to the Repairer interface.
type RepairFunc func(text string, trigger Trigger) string

// Repair implements Repairer.
func (f RepairFunc) Repair(text string, trigger Trigger) string {
	return f(text, trigger)
}

// BracketRepairer is the default Repairer. It closes unbalanced brackets
// and quotes and injects the cursor marker where an empty expression is
// expected. Catalog supplies the operators after which a marker is
// needed; nil means the built-in catalog.
type BracketRepairer struct {
	Catalog *definitions.Catalog
}

// Repair implements Repairer.
func (b BracketRepairer) Repair(text string, trigger Trigger) string {
	catalog := b.Catalog
	if catalog == nil {
		catalog = definitions.Default()
	}
	round := CountUnclosed("(", text)
	square := CountUnclosed("[", text)
	tripleQuotes := CountUnclosed(`"""`, text)
	// Quotes making up a triple quote are closed by the triple quote.
	quotes := CountUnclosed(`"`, strings.ReplaceAll(text, `"""`, ""))

	var sb strings.Builder
	sb.WriteString(text)
	if needsMarker(catalog, text, trigger, round) {
		sb.WriteString(position.Marker)
	}
	if round > 0 || square > 0 || quotes > 0 || tripleQuotes > 0 {
		sb.WriteString(strings.Repeat(`"""`, tripleQuotes))
		sb.WriteString(strings.Repeat(`"`, quotes))
		sb.WriteString(strings.Repeat(")", round))
		sb.WriteString(strings.Repeat("]", square))
	}
	return sb.String()
}

var closers = map[string]string{"(": ")", "[": "]", `"`: `"`, `"""`: `"""`}

// CountUnclosed counts the opener delimiters of text left without a
// closer. A closer only pops when something is open, and nothing else
// about the language is understood.
func CountUnclosed(opener, text string) int {
	closer := closers[opener]
	depth := 0
	for i := 0; i < len(text); i++ {
		end := i + len(opener)
		if end > len(text) {
			end = len(text)
		}
		sub := text[i:end]
		if sub == closer && depth > 0 {
			depth--
		} else if sub == opener {
			depth++
		}
	}
	return depth
}

// Repair appends the cursor marker and the missing closers to text using
// the built-in catalog. Closers are appended triple quotes first, then
// quotes, parentheses and brackets.
func Repair(text string, trigger Trigger) string {
	return BracketRepairer{}.Repair(text, trigger)
}

func needsMarker(catalog *definitions.Catalog, text string, trigger Trigger, unclosedRound int) bool {
	switch trigger.Character {
	case ",", ":":
		return true
	case " ":
		if IsMathFunction(catalog, text, len(text)) {
			return true
		}
	}
	if trigger.Kind == TriggerInvoked && unclosedRound == 0 {
		return true
	}
	return GetLastCharFromTrimmed(text) == ","
}
