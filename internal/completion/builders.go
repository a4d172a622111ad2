package completion

import (
	"fmt"
	"sort"
	"strings"

	"github.com/grafana/regexp"

	"github.com/oakwood-commons/esqlc/internal/esql/definitions"
)

var (
	unsafeIdentifier       = regexp.MustCompile(`[^a-zA-Z\d_\.@]`)
	unsafeDashedIdentifier = regexp.MustCompile(`[^a-zA-Z\d_\.@-]`)
	unsafeSourceName       = regexp.MustCompile(`[:"=|,[\]/ \t\r\n]`)
)

// SafeInsertText backtick-quotes an identifier that would not lex as one,
// doubling any backtick it contains.
func SafeInsertText(text string, dashSupported bool) string {
	re := unsafeIdentifier
	if dashSupported {
		re = unsafeDashedIdentifier
	}
	if !re.MatchString(text) {
		return text
	}
	return "`" + strings.ReplaceAll(text, "`", "``") + "`"
}

// insertOptions controls what is appended to inserted text.
type insertOptions struct {
	addComma bool
	advance  bool
}

func (o insertOptions) apply(text string) string {
	if o.addComma {
		text += ","
	}
	if o.advance {
		text += " "
	}
	return text
}

func (o insertOptions) command() *Command {
	if o.advance {
		return TriggerSuggestCommand
	}
	return nil
}

var (
	pipeItem = Suggestion{
		Label:    "|",
		Text:     "|",
		Kind:     KindKeyword,
		Detail:   "Pipe (|)",
		SortText: "C",
		Command:  TriggerSuggestCommand,
	}
	commaItem = Suggestion{
		Label:    ",",
		Text:     ",",
		Kind:     KindKeyword,
		Detail:   "Comma (,)",
		SortText: "C",
		Command:  TriggerSuggestCommand,
	}
	colonItem = Suggestion{
		Label:    ":",
		Text:     `":"`,
		Kind:     KindKeyword,
		Detail:   "Colon (:)",
		SortText: "A",
	}
	semicolonItem = Suggestion{
		Label:    ";",
		Text:     `";"`,
		Kind:     KindKeyword,
		Detail:   "Semi colon (;)",
		SortText: "A",
	}
	listItem = Suggestion{
		Label:     "( ... )",
		Text:      "( $0 )",
		AsSnippet: true,
		Kind:      KindOperator,
		Detail:    "multiple values",
		SortText:  "A",
		Command:   TriggerSuggestCommand,
	}
	noPoliciesItem = Suggestion{
		Label:    "No available policy",
		Text:     "",
		Kind:     KindIssue,
		Detail:   "Click to create",
		SortText: "D",
		Command:  CreatePolicyCommand,
	}
)

// finalSuggestions returns the pipe, followed by a comma when comma is set.
func finalSuggestions(comma bool) []Suggestion {
	out := []Suggestion{pipeItem}
	if comma {
		out = append(out, commaItem)
	}
	return out
}

func commandSuggestion(cmd *definitions.Command) Suggestion {
	name := strings.ToUpper(string(cmd.Name))
	text := name
	if len(cmd.Signature.Params) > 0 {
		text += " $0"
	}
	return Suggestion{
		Label:         name,
		Text:          text,
		AsSnippet:     true,
		Kind:          KindMethod,
		Detail:        cmd.Description,
		Documentation: commandDocumentation(cmd),
		SortText:      "A",
		Command:       TriggerSuggestCommand,
	}
}

func commandDocumentation(cmd *definitions.Command) string {
	if len(cmd.Examples) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("**Examples:**\n\n```esql\n")
	for _, ex := range cmd.Examples {
		b.WriteString(ex)
		b.WriteString("\n")
	}
	b.WriteString("```\n")
	return b.String()
}

func functionSuggestion(fn *definitions.Function) Suggestion {
	return Suggestion{
		Label:         definitions.Declaration(fn.Name, fn.Signatures[0]),
		Text:          strings.ToUpper(fn.Name) + "($0)",
		AsSnippet:     true,
		Kind:          KindFunction,
		Detail:        fn.Description,
		Documentation: fn.Documentation(),
		SortText:      "C",
		Command:       TriggerSuggestCommand,
	}
}

// compatibleFunctions returns the non-operator functions usable in
// command, or in option when set, that return one of returnTypes. The
// result is sorted by name.
func compatibleFunctions(catalog *definitions.Catalog, command, option string, returnTypes []definitions.Type, ignored []string) []Suggestion {
	var fns []*definitions.Function
	for _, fn := range catalog.Functions(definitions.FunctionEval, definitions.FunctionAgg) {
		if fn.IgnoreAsSuggestion || contains(ignored, fn.Name) {
			continue
		}
		if !fn.Supports(definitions.CommandName(command), definitions.OptionName(option)) {
			continue
		}
		if !fn.Returns(returnTypes...) {
			continue
		}
		fns = append(fns, fn)
	}
	sort.SliceStable(fns, func(i, j int) bool { return fns[i].Name < fns[j].Name })
	out := make([]Suggestion, 0, len(fns))
	for _, fn := range fns {
		out = append(out, functionSuggestion(fn))
	}
	return out
}

func builtinSuggestion(fn *definitions.Function) Suggestion {
	hasArgs := fn.HasArgs()
	text := strings.ToUpper(fn.Name)
	s := Suggestion{
		Label:         fn.Name,
		Kind:          KindOperator,
		Detail:        fn.Description,
		Documentation: fn.Documentation(),
		SortText:      "D",
	}
	if hasArgs {
		text += " $0"
		s.AsSnippet = true
		s.Command = TriggerSuggestCommand
	}
	s.Text = text
	return s
}

// compatibleBuiltins returns the operators usable in command or option
// whose left operand accepts argType. An argType of "any" only matches
// operators declared over any value. Assignment is left out when
// skipAssign is set.
func compatibleBuiltins(catalog *definitions.Catalog, command, option string, argType definitions.Type, returnTypes []definitions.Type, skipAssign bool) []Suggestion {
	var out []Suggestion
	for _, fn := range catalog.Builtins() {
		if fn.IgnoreAsSuggestion || strings.Contains(fn.Name, "not_") {
			continue
		}
		if skipAssign && fn.Name == "=" {
			continue
		}
		if !fn.Supports(definitions.CommandName(command), definitions.OptionName(option)) {
			continue
		}
		if !acceptsOperand(fn, argType) {
			continue
		}
		if len(returnTypes) > 0 && !fn.Returns(returnTypes...) {
			continue
		}
		out = append(out, builtinSuggestion(fn))
	}
	return out
}

func acceptsOperand(fn *definitions.Function, argType definitions.Type) bool {
	for _, sig := range fn.Signatures {
		if len(sig.Params) == 0 {
			return true
		}
		for _, p := range sig.Params {
			if p.Type == definitions.TypeAny || p.Type == argType {
				return true
			}
			if argType != definitions.TypeAny && definitions.CompatibleTypes(argType, p.Type) {
				return true
			}
		}
	}
	return false
}

// nextTokensForNot returns the operators that may follow a dangling NOT.
func nextTokensForNot(catalog *definitions.Catalog, command, option string, argType definitions.Type) []Suggestion {
	var allowed []string
	switch {
	case argType == definitions.TypeAny || argType.IsString():
		allowed = []string{"like", "rlike", "in"}
	case argType == definitions.TypeBoolean:
		allowed = []string{"in"}
	default:
		return nil
	}
	var out []Suggestion
	for _, fn := range catalog.Builtins() {
		if fn.IgnoreAsSuggestion || strings.Contains(fn.Name, "not_") || !contains(allowed, fn.Name) {
			continue
		}
		if fn.Supports(definitions.CommandName(command), definitions.OptionName(option)) {
			out = append(out, builtinSuggestion(fn))
		}
	}
	return out
}

func assignmentSuggestion(catalog *definitions.Catalog) Suggestion {
	fn, _ := catalog.Function("=")
	return builtinSuggestion(fn)
}

func fieldSuggestions(fields []Field, opts insertOptions) []Suggestion {
	out := make([]Suggestion, 0, len(fields))
	for _, f := range fields {
		s := Suggestion{
			Label:    f.Name,
			Text:     opts.apply(SafeInsertText(f.Name, false)),
			Kind:     KindVariable,
			Detail:   f.Type.Title(),
			SortText: "D",
			Command:  opts.command(),
		}
		if f.Metadata != nil {
			s.Documentation = f.Metadata.Description
		}
		out = append(out, s)
	}
	return out
}

func fieldNameSuggestions(names []string) []Suggestion {
	out := make([]Suggestion, 0, len(names))
	for _, name := range names {
		out = append(out, Suggestion{
			Label:    name,
			Text:     SafeInsertText(name, false),
			Kind:     KindVariable,
			Detail:   "Field",
			SortText: "D",
		})
	}
	return out
}

func variableSuggestions(names []string) []Suggestion {
	out := make([]Suggestion, 0, len(names))
	for _, name := range names {
		out = append(out, Suggestion{
			Label:    name,
			Text:     name,
			Kind:     KindVariable,
			Detail:   "Variable specified by the user within the ES|QL query",
			SortText: "D",
		})
	}
	return out
}

// sourceItem is a source as offered for completion.
type sourceItem struct {
	name          string
	title         string
	typ           string
	isIntegration bool
}

func sourceSuggestions(sources []sourceItem) []Suggestion {
	out := make([]Suggestion, 0, len(sources))
	for _, src := range sources {
		text := src.name
		if unsafeSourceName.MatchString(text) {
			text = `"` + text + `"`
		}
		label := src.name
		if src.title != "" {
			label = src.title
		}
		s := Suggestion{
			Label:    label,
			Text:     text,
			Kind:     KindIssue,
			Detail:   "Index",
			SortText: "A",
		}
		switch {
		case src.isIntegration:
			s.Kind = KindClass
			s.Detail = "Integration"
			s.Command = TriggerSuggestCommand
		case src.typ != "" && src.typ != "Index":
			s.Detail = "Source"
		}
		out = append(out, s)
	}
	return out
}

// removeQuoteForSources strips the double quotes around source names for
// a cursor already inside an opened quoted literal.
func removeQuoteForSources(suggestions []Suggestion) []Suggestion {
	out := make([]Suggestion, len(suggestions))
	for i, s := range suggestions {
		if len(s.Text) >= 2 && strings.HasPrefix(s.Text, `"`) && strings.HasSuffix(s.Text, `"`) {
			s.Text = s.Text[1 : len(s.Text)-1]
		}
		out[i] = s
	}
	return out
}

func constantSuggestions(values []string, detail, sortText string, opts insertOptions) []Suggestion {
	if detail == "" {
		detail = "Constant value"
	}
	if sortText == "" {
		sortText = "A"
	}
	out := make([]Suggestion, 0, len(values))
	for _, v := range values {
		out = append(out, Suggestion{
			Label:    v,
			Text:     opts.apply(v),
			Kind:     KindConstant,
			Detail:   detail,
			SortText: sortText,
			Command:  opts.command(),
		})
	}
	return out
}

func valueSuggestions(values []string, opts insertOptions) []Suggestion {
	out := make([]Suggestion, 0, len(values))
	for _, v := range values {
		quoted := `"` + v + `"`
		out = append(out, Suggestion{
			Label:    quoted,
			Text:     opts.apply(quoted),
			Kind:     KindValue,
			Detail:   "Literal value",
			SortText: "A",
			Command:  opts.command(),
		})
	}
	return out
}

func newVariableSuggestion(name string) Suggestion {
	return Suggestion{
		Label:    name,
		Text:     name + " =",
		Kind:     KindVariable,
		Detail:   "Define a new variable",
		SortText: "1",
		Command:  TriggerSuggestCommand,
	}
}

func policySuggestions(policies []Policy) []Suggestion {
	out := make([]Suggestion, 0, len(policies))
	for _, p := range policies {
		out = append(out, Suggestion{
			Label:    p.Name,
			Text:     SafeInsertText(p.Name, true) + " ",
			Kind:     KindClass,
			Detail:   "Policy defined on " + strings.Join(p.SourceIndices, ", "),
			SortText: "D",
			Command:  TriggerSuggestCommand,
		})
	}
	return out
}

func matchFieldSuggestion(field, matchField string) Suggestion {
	return Suggestion{
		Label:    field,
		Text:     SafeInsertText(field, false) + " ",
		Kind:     KindVariable,
		Detail:   fmt.Sprintf("Use `%s` to match on `%s` on the policy", field, matchField),
		SortText: "D",
		Command:  TriggerSuggestCommand,
	}
}

func optionSuggestion(opt *definitions.Option, isDissect bool) Suggestion {
	name := strings.ToUpper(string(opt.Name))
	s := Suggestion{
		Label:    name,
		Text:     name,
		Kind:     KindReference,
		Detail:   opt.Description,
		SortText: "1",
	}
	if isDissect {
		s.Detail = "Add " + name + " to specify the separator of the appended fields"
	}
	switch {
	case opt.AssignType:
		s.Text = name + " = $0"
	case len(opt.Signature.Params) > 0:
		s.Text = name + " $0"
	default:
		return s
	}
	s.AsSnippet = true
	s.Command = TriggerSuggestCommand
	return s
}

func settingSuggestions(mode *definitions.Mode) []Suggestion {
	out := make([]Suggestion, 0, len(mode.Values))
	for _, v := range mode.Values {
		out = append(out, Suggestion{
			Label:     mode.Prefix + v.Name,
			Text:      v.Name + ":$0",
			AsSnippet: true,
			Kind:      KindReference,
			Detail:    mode.Description + " - " + v.Description,
			SortText:  "D",
			Command:   TriggerSuggestCommand,
		})
	}
	return out
}

var (
	timeUnits        = []string{"year", "quarter", "month", "week", "day", "hour", "minute", "second", "millisecond"}
	limitSuggestions = []string{"10", "100", "1000"}
)

// compatibleLiterals returns literal suggestions for the given parameter
// types. names are the parameter names and enable the pattern literal
// of DISSECT and GROK.
func compatibleLiterals(command string, types []definitions.Type, names []string, opts insertOptions) []Suggestion {
	var out []Suggestion
	has := func(pred func(definitions.Type) bool) bool {
		for _, t := range types {
			if pred(t) {
				return true
			}
		}
		return false
	}
	if has(definitions.Type.IsNumeric) && command == string(definitions.CommandLimit) {
		out = append(out, constantSuggestions(limitSuggestions, "", "", insertOptions{addComma: opts.addComma, advance: true})...)
	}
	if has(func(t definitions.Type) bool { return t == definitions.TypeTimeLiteral }) {
		durations := make([]string, 0, len(timeUnits))
		for _, u := range timeUnits {
			durations = append(durations, "1 "+u)
		}
		out = append(out, constantSuggestions(durations, "", "", opts)...)
	}
	if has(func(t definitions.Type) bool { return t == definitions.TypeTimeLiteralUnit }) {
		out = append(out, constantSuggestions(timeUnits, "", "", opts)...)
	}
	if has(definitions.Type.IsString) {
		if len(names) > 0 {
			pattern := `"%{firstWord}"`
			if command == string(definitions.CommandGrok) {
				pattern = `"%{WORD:firstWord}"`
			}
			out = append(out, constantSuggestions([]string{pattern}, "A pattern string", "", insertOptions{advance: true})...)
		} else {
			out = append(out, constantSuggestions([]string{"string"}, "", "", insertOptions{advance: true})...)
		}
	}
	return out
}

func dateLiterals(opts insertOptions) []Suggestion {
	return constantSuggestions([]string{"?_tstart", "?_tend"}, "Named parameter", "1A", opts)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
