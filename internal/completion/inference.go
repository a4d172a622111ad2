package completion

import (
	"strings"

	"github.com/oakwood-commons/esqlc/internal/esql/ast"
	"github.com/oakwood-commons/esqlc/internal/esql/definitions"
	"github.com/oakwood-commons/esqlc/internal/esql/position"
)

// References is what names in a query resolve against.
type References struct {
	Catalog   *definitions.Catalog
	Fields    map[string]Field
	Variables Variables
}

// LookupColumn resolves a column against the fields, then against the
// latest definition of a variable.
func LookupColumn(col *ast.Column, refs References) (definitions.Type, bool) {
	if f, ok := refs.Fields[col.Name]; ok {
		return f.Type, true
	}
	if v, ok := refs.Variables.Latest(col.Name); ok {
		return v.Type, true
	}
	if col.Quoted {
		if v, ok := refs.Variables.Latest(col.Text); ok {
			return v.Type, true
		}
	}
	return "", false
}

// ResolveType returns the type a node evaluates to. Functions resolve to
// the return type of their first signature whatever their arguments are,
// and arrays to the type of their first item.
func ResolveType(n ast.Node, refs References) (definitions.Type, bool) {
	switch v := n.(type) {
	case *ast.Array:
		if len(v.Items) == 0 {
			return "", false
		}
		return ResolveType(v.Items[0], refs)
	case *ast.Literal:
		return definitions.Type(v.LiteralType), true
	case *ast.Column:
		return LookupColumn(v, refs)
	case *ast.TimeInterval:
		return definitions.TypeTimeInterval, true
	case *ast.Function:
		fn, ok := refs.Catalog.Function(v.Name)
		if !ok || len(fn.Signatures) == 0 {
			return "", false
		}
		return fn.Signatures[0].ReturnType, true
	}
	return "", false
}

// IncompleteReason explains why a function call is not complete.
type IncompleteReason string

const (
	ReasonFewArgs    IncompleteReason = "fewArgs"
	ReasonWrongTypes IncompleteReason = "wrongTypes"
)

// ArgCompleteness is the verdict of IsArgComplete. Reason is empty when
// the function is unknown.
type ArgCompleteness struct {
	Complete bool
	Reason   IncompleteReason
}

// IsArgComplete reports whether fn has enough arguments of acceptable
// types for at least one of its signatures.
func IsArgComplete(fn *ast.Function, refs References) ArgCompleteness {
	def, ok := refs.Catalog.Function(fn.Name)
	if !ok {
		return ArgCompleteness{}
	}
	args := position.CleanFunction(fn).Args

	enough := false
	for _, sig := range def.Signatures {
		if (sig.MinParams > 0 && len(args) >= sig.MinParams) ||
			len(args) == len(sig.Params) ||
			len(args) >= mandatoryParams(sig.Params) {
			enough = true
			break
		}
	}
	if !enough {
		return ArgCompleteness{Reason: ReasonFewArgs}
	}
	if (def.Name == "in" || def.Name == "not_in") && len(args) > 1 {
		if list, ok := args[1].(*ast.Array); ok && len(list.Items) == 0 {
			return ArgCompleteness{Reason: ReasonFewArgs}
		}
	}
	for _, sig := range def.Signatures {
		if argsMatch(sig, args, refs) {
			return ArgCompleteness{Complete: true}
		}
	}
	return ArgCompleteness{Reason: ReasonWrongTypes}
}

func argsMatch(sig definitions.Signature, args []ast.Node, refs References) bool {
	for i, arg := range args {
		p := ParamAt(sig, i)
		if p == nil {
			return false
		}
		if p.Type == definitions.TypeAny {
			continue
		}
		expected := p.Type
		if list, ok := arg.(*ast.Array); ok && expected.IsArray() {
			expected = expected.Elem()
			for _, item := range list.Items {
				t, ok := ResolveType(item, refs)
				if !ok || !definitions.CompatibleTypes(t, expected) {
					return false
				}
			}
			continue
		}
		t, ok := ResolveType(arg, refs)
		if !ok || !definitions.CompatibleTypes(t, expected) {
			return false
		}
	}
	return true
}

func mandatoryParams(params []definitions.Param) int {
	n := 0
	for _, p := range params {
		if !p.Optional {
			n++
		}
	}
	return n
}

// ParamAt returns the parameter of sig at position, repeating the last
// parameter of variadic signatures.
func ParamAt(sig definitions.Signature, position int) *definitions.Param {
	if position < len(sig.Params) {
		return &sig.Params[position]
	}
	if sig.MinParams > 0 && len(sig.Params) > 0 {
		return &sig.Params[len(sig.Params)-1]
	}
	return nil
}

// ArgMeta locates the argument being written within a command or option.
type ArgMeta struct {
	ArgIndex  int
	PrevIndex int
	LastArg   ast.Node
	// NodeArg is the node under the cursor, or the last argument.
	NodeArg ast.Node
}

// ExtractArgMeta computes the ArgMeta of args, which must be free of
// cursor markers, for the node under the cursor.
func ExtractArgMeta(args []ast.Node, node ast.Node) ArgMeta {
	m := ArgMeta{ArgIndex: len(args)}
	m.PrevIndex = m.ArgIndex - 1
	if m.PrevIndex < 0 {
		m.PrevIndex = 0
	}
	if m.PrevIndex < len(args) {
		m.LastArg = args[m.PrevIndex]
	}
	if IsIncompleteItem(m.LastArg) {
		m.ArgIndex = m.PrevIndex
	}
	m.NodeArg = node
	if m.NodeArg == nil {
		m.NodeArg = m.LastArg
	}
	return m
}

// IsIncompleteItem reports whether n is missing or cut short. Arrays are
// never incomplete.
func IsIncompleteItem(n ast.Node) bool {
	if n == nil {
		return true
	}
	return n.Kind() != ast.KindArray && n.IsIncomplete()
}

// IsAssignment reports whether n is a "name = value" clause.
func IsAssignment(n ast.Node) bool {
	fn, ok := n.(*ast.Function)
	return ok && fn.Name == "="
}

// IsAssignmentComplete reports whether an assignment has a value.
func IsAssignmentComplete(n ast.Node) bool {
	fn, ok := n.(*ast.Function)
	if !ok {
		return false
	}
	args := position.CleanFunction(fn).Args
	if len(args) < 2 {
		return false
	}
	value, ok := args[1].(*ast.Array)
	return ok && len(value.Items) > 0
}

// HasSameArgBothSides reports whether an assignment reads "a = a".
func HasSameArgBothSides(n ast.Node) bool {
	fn, ok := n.(*ast.Function)
	if !ok || fn.Name != "=" || len(fn.Args) < 2 {
		return false
	}
	target, ok := fn.Args[0].(*ast.Column)
	if !ok {
		return false
	}
	value, ok := fn.Args[1].(*ast.Array)
	if !ok || len(value.Items) == 0 {
		return false
	}
	source, ok := value.Items[0].(*ast.Column)
	return ok && source.Name == target.Name
}

// AreCurrentArgsValid applies the per-command rules deciding whether the
// argument under the cursor is finished enough to close the command.
func AreCurrentArgsValid(command *ast.Command, node ast.Node, refs References) bool {
	if node == nil {
		return true
	}
	switch definitions.CommandName(command.Name) {
	case definitions.CommandStats:
		if node.Kind() == ast.KindColumn || (IsAssignment(node) && !IsAssignmentComplete(node)) {
			return false
		}
	case definitions.CommandEval:
		if fn, ok := node.(*ast.Function); ok {
			if IsAssignment(fn) {
				return IsAssignmentComplete(fn)
			}
			return IsArgComplete(fn, refs).Complete
		}
	case definitions.CommandWhere:
		if node.Kind() == ast.KindColumn {
			return false
		}
		if fn, ok := node.(*ast.Function); ok && !IsArgComplete(fn, refs).Complete {
			return false
		}
		def, ok := refs.Catalog.Command(command.Name)
		if !ok || len(def.Signature.Params) == 0 {
			return true
		}
		t, _ := ResolveType(node, refs)
		return t == def.Signature.Params[0].Type
	}
	return true
}

// isNumericLike reports whether t is a numeric field type or a decimal
// literal.
func isNumericLike(t definitions.Type) bool {
	return t.IsNumeric() || t == definitions.TypeDecimal
}

// IsMathFunction reports whether the text before offset ends with one of
// the short operators of catalog, such as "+", "==" or "in".
func IsMathFunction(catalog *definitions.Catalog, text string, offset int) bool {
	var shortOperators []string
	for _, fn := range catalog.Builtins() {
		if len(fn.Name) < 3 {
			shortOperators = append(shortOperators, fn.Name)
		}
	}
	if offset > len(text) {
		offset = len(text)
	}
	trimmed := strings.TrimRight(text[:offset], " \t\r\n")
	words := strings.Split(trimmed, " ")
	last := words[len(words)-1]
	for _, op := range shortOperators {
		if last == op {
			return true
		}
	}
	for _, op := range shortOperators {
		if strings.HasSuffix(last, op) {
			return true
		}
	}
	return false
}

// IsRestartingExpression reports whether text ends where a new
// comma-separated item starts.
func IsRestartingExpression(text string) bool {
	return GetLastCharFromTrimmed(text) == ","
}

// FindPreviousWord returns the word before the last one of text.
func FindPreviousWord(text string) string {
	words := splitWhitespace(text)
	if len(words) < 2 {
		return ""
	}
	return words[len(words)-2]
}

// GetLastCharFromTrimmed returns the last character of text once trailing
// whitespace is removed.
func GetLastCharFromTrimmed(text string) string {
	trimmed := strings.TrimRight(text, " \t\r\n")
	if trimmed == "" {
		return ""
	}
	return trimmed[len(trimmed)-1:]
}

// splitWhitespace splits on runs of whitespace, keeping empty leading and
// trailing words the way a regular expression split does.
func splitWhitespace(text string) []string {
	var words []string
	start := 0
	inSpace := false
	for i, r := range text {
		space := r == ' ' || r == '\t' || r == '\n' || r == '\r'
		switch {
		case space && !inSpace:
			words = append(words, text[start:i])
			inSpace = true
		case !space && inSpace:
			start = i
			inSpace = false
		}
	}
	if inSpace {
		words = append(words, "")
	} else {
		words = append(words, text[start:])
	}
	return words
}
