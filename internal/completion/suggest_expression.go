package completion

import (
	"strings"

	"github.com/grafana/regexp"

	"github.com/oakwood-commons/esqlc/internal/esql/ast"
	"github.com/oakwood-commons/esqlc/internal/esql/definitions"
	"github.com/oakwood-commons/esqlc/internal/esql/position"
)

var endsWithNotPattern = regexp.MustCompile(`(?i) not$`)

// suggestExpression completes a command argument outside any option.
func (r *request) suggestExpression(p position.Expression) []Suggestion {
	command, option, node := p.Command, p.Option, p.Node
	def, ok := r.catalog.Command(command.Name)
	if !ok {
		return nil
	}
	meta := ExtractArgMeta(command.Args, node)
	nodeArg, lastArg := meta.NodeArg, meta.LastArg

	// FROM " <here>
	if def.Name == definitions.CommandFrom {
		if src, ok := node.(*ast.Source); ok && strings.ContainsAny(src.Name, " \t\r\n") {
			return nil
		}
	}

	isNew := IsRestartingExpression(withoutOpeningQuote(r.innerText)) || (meta.ArgIndex == 0 && !hasArgs(nodeArg))
	endsWithNot := endsWithNotPattern.MatchString(strings.TrimRight(r.innerText, " \t\r\n")) && !hasNotFunction(command.Args)

	optionName := ""
	args := command.Args
	if option != nil {
		optionName = option.Name
		args = option.Args
	}

	// WHERE field NOT <here>, EVAL a = field NOT <here>
	if endsWithNot && endsWithBareNot(args, r.innerText) {
		return nextTokensForNot(r.catalog, command.Name, optionName, definitions.TypeAny)
	}

	if fn, ok := lastArg.(*ast.Function); ok {
		if _, known := r.catalog.Function(fn.Name); !known {
			return nil
		}
	}

	declared, available := optionsState(def, command)

	argDef := expressionParam(def, meta, isNew)

	fields := map[string]Field{}
	if argDef != nil {
		fields = r.fieldsMap()
	}
	vars := r.variables(fields)
	refs := r.references(fields, vars)
	canHaveAssignments := isAssignmentCommand(command.Name)

	var out []Suggestion
	if argDef != nil {
		switch argDef.Type {
		case definitions.TypeColumn, definitions.TypeAny, definitions.TypeFunction:
			if isNew && canHaveAssignments {
				if endsWithNot {
					// ROW field NOT <here>
					out = append(out, nextTokensForNot(r.catalog, command.Name, optionName, definitions.TypeAny)...)
				} else {
					// EVAL <here>, STATS ..., <here>
					out = append(out, newVariableSuggestion(FindNewVariable(vars)))
				}
			}
		}

		if argDef.Type == definitions.TypeColumn || argDef.Type == definitions.TypeAny {
			if (nodeArg == nil || isNew) && !endsWithNot {
				out = append(out, r.columnCandidates(command, optionName, argDef, vars, isNew)...)
			}
		}

		if argDef.Type == definitions.TypeFunction || argDef.Type == definitions.TypeAny {
			if col, ok := nodeArg.(*ast.Column); ok {
				// STATS a <here>, EVAL a <here>
				if t, ok := ResolveType(col, refs); ok {
					out = append(out, compatibleBuiltins(r.catalog, command.Name, "", t, nil, skipAssign(col, refs))...)
				} else {
					out = append(out, assignmentSuggestion(r.catalog))
				}
			}
			if (isNew && !endsWithNot) || (IsAssignment(nodeArg) && !IsAssignmentComplete(nodeArg)) {
				// EVAL a = <here>, STATS a = ..., b = <here>
				var offered Variables
				if nodeArg == nil {
					offered = vars
				}
				out = append(out, r.fieldsOrFunctions([]definitions.Type{definitions.TypeAny}, command.Name, optionName, candidateOptions{
					functions: true,
					variables: offered,
					literals:  argDef.ConstantOnly,
				})...)
				if command.Name == string(definitions.CommandShow) || command.Name == string(definitions.CommandMeta) {
					out = append(out, compatibleBuiltins(r.catalog, command.Name, "", definitions.TypeAny, nil, false)...)
				}
			}
		}

		if argDef.Type == definitions.TypeAny && !isNew {
			out = append(out, r.continueAnyExpression(command, option, argDef, nodeArg, refs)...)
		}

		if len(argDef.Values) > 0 {
			out = append(out, constantSuggestions(argDef.Values, "", "", insertOptions{advance: true})...)
		}

		if isScalarParam(argDef.Type) && len(argDef.Values) == 0 {
			out = append(out, r.scalarCandidates(command, option, argDef, nodeArg, endsWithNot, vars, refs)...)
		}

		if argDef.Type == definitions.TypeSource {
			out = append(out, r.sourceCandidates(argDef, isNew)...)
		}
	}

	mandatoryPresent := mandatoryArgsPresent(def, command, argDef)
	valid := AreCurrentArgsValid(command, nodeArg, refs)
	if (!isNew && mandatoryPresent && valid) || len(declared) > 0 {
		for _, opt := range available {
			out = append(out, optionSuggestion(opt, def.Name == definitions.CommandDissect))
		}
		if len(available) == 0 || allOptional(available) {
			pushDown := command.Name == string(definitions.CommandEval) && !hasFunctionArg(command.Args)
			for _, s := range finalSuggestions(def.Signature.MultipleParams && len(available) == len(def.Options)) {
				if pushDown {
					s.SortText = "Z" + s.SortText
				}
				out = append(out, s)
			}
		}
	}
	return out
}

// expressionParam picks the command parameter the cursor is filling. Past
// the declared parameters it falls back to the first one for variadic
// commands starting another item, and to the previous one when the
// argument typed so far does not match it.
func expressionParam(def *definitions.Command, meta ArgMeta, isNew bool) *definitions.Param {
	params := def.Signature.Params
	if meta.ArgIndex < len(params) {
		return &params[meta.ArgIndex]
	}
	var argDef *definitions.Param
	if def.Signature.MultipleParams && len(params) > 0 {
		if isNew || (IsAssignment(meta.LastArg) && !IsAssignmentComplete(meta.LastArg)) {
			argDef = &params[0]
		}
	}
	// WHERE numberField <here>, STATS numberField <here>
	if !isNew && meta.NodeArg != nil && meta.NodeArg.Kind() != ast.KindArray && meta.PrevIndex < len(params) {
		prev := &params[meta.PrevIndex]
		if prev.Type == definitions.TypeFunction || string(prev.Type) != meta.NodeArg.Kind().String() {
			// LIMIT 5 <here> takes nothing more.
			if meta.NodeArg.Kind() != ast.KindLiteral || !prev.ConstantOnly {
				argDef = prev
			}
		}
	}
	return argDef
}

// columnCandidates offers what may start a column or any-typed argument.
func (r *request) columnCandidates(command *ast.Command, optionName string, argDef *definitions.Param, vars Variables, isNew bool) []Suggestion {
	types := []definitions.Type{definitions.TypeAny}
	if argDef.InnerType != "" {
		types = []definitions.Type{argDef.InnerType}
	}
	var ignore []string
	if isNew {
		for _, arg := range command.Args {
			if col, ok := arg.(*ast.Column); ok {
				ignore = append(ignore, col.Name)
			}
		}
	}
	candidates := r.fieldsOrFunctions(types, command.Name, optionName, candidateOptions{
		functions:    isAssignmentCommand(command.Name) || command.Name == string(definitions.CommandSort),
		fields:       !argDef.ConstantOnly,
		literals:     argDef.ConstantOnly,
		variables:    vars,
		ignoreFields: ignore,
	})

	// EVAL ab<here> replaces the partial word.
	words := splitWhitespace(r.innerText)
	if last := words[len(words)-1]; last != "" {
		return withRange(candidates, Range{Start: len(r.innerText) - len(last), End: len(r.innerText)})
	}
	return candidates
}

// continueAnyExpression goes on from an expression that is already typed,
// such as EVAL var = field <here> or EVAL var = fn(field) <here>.
func (r *request) continueAnyExpression(command *ast.Command, option *ast.Option, argDef *definitions.Param, nodeArg ast.Node, refs References) []Suggestion {
	var out []Suggestion
	optionName := ""
	if option != nil {
		optionName = option.Name
	}
	if IsAssignment(nodeArg) && IsAssignmentComplete(nodeArg) {
		right := position.CleanFunction(nodeArg.(*ast.Function)).Args[1].(*ast.Array).Items[0]
		rightType, ok := ResolveType(right, refs)
		if !ok {
			rightType = definitions.TypeAny
		}
		out = append(out, compatibleBuiltins(r.catalog, command.Name, "", rightType, nil, skipAssign(right, refs))...)
		if isNumericLike(rightType) && right.Kind() == ast.KindLiteral {
			// EVAL var = 1 <here>
			out = append(out, compatibleLiterals(command.Name, []definitions.Type{definitions.TypeTimeLiteralUnit}, nil, insertOptions{})...)
		}
		if fn, ok := right.(*ast.Function); ok {
			out = append(out, r.timeUnitAfterInterval(command, fn, refs)...)
		}
		return out
	}

	fn, ok := nodeArg.(*ast.Function)
	if !ok {
		return nil
	}
	if fn.Name == "not" {
		return r.fieldsOrFunctions([]definitions.Type{definitions.TypeBoolean}, command.Name, optionName, candidateOptions{
			functions: true,
			fields:    true,
			variables: refs.Variables,
		})
	}
	fnType, _ := ResolveType(fn, refs)
	out = append(out, r.builtinNextArgument(command, option, argDef.Type, fn, fnType, refs)...)
	out = append(out, r.timeUnitAfterInterval(command, fn, refs)...)
	return out
}

// timeUnitAfterInterval offers time units after EVAL var = 1 year + 2.
func (r *request) timeUnitAfterInterval(command *ast.Command, fn *ast.Function, refs References) []Suggestion {
	hasInterval := false
	for _, arg := range fn.Args {
		if arg.Kind() == ast.KindTimeInterval {
			hasInterval = true
			break
		}
	}
	if !hasInterval || len(fn.Args) == 0 {
		return nil
	}
	last := fn.Args[len(fn.Args)-1]
	t, _ := ResolveType(last, refs)
	if isNumericLike(t) && last.Kind() == ast.KindLiteral {
		return compatibleLiterals(command.Name, []definitions.Type{definitions.TypeTimeLiteralUnit}, nil, insertOptions{})
	}
	return nil
}

// scalarCandidates handles parameters of a concrete type, such as the
// boolean condition of WHERE or the size of LIMIT.
func (r *request) scalarCandidates(command *ast.Command, option *ast.Option, argDef *definitions.Param, nodeArg ast.Node, endsWithNot bool, vars Variables, refs References) []Suggestion {
	optionName := ""
	if option != nil {
		optionName = option.Name
	}
	if argDef.ConstantOnly {
		return compatibleLiterals(command.Name, []definitions.Type{argDef.Type}, []string{argDef.Name}, insertOptions{})
	}
	if nodeArg == nil {
		if endsWithNot {
			// WHERE field NOT <here>
			return nextTokensForNot(r.catalog, command.Name, optionName, definitions.TypeAny)
		}
		out := r.fieldsByType([]definitions.Type{definitions.TypeAny}, nil, insertOptions{advance: true})
		return append(out, r.fieldsOrFunctions([]definitions.Type{definitions.TypeAny}, command.Name, optionName, candidateOptions{
			functions: true,
			variables: vars,
		})...)
	}

	// WHERE field <here>, WHERE field >= <here>, WHERE field > 0 <here>
	nodeType, ok := ResolveType(nodeArg, refs)
	if !ok {
		return nil
	}
	fn, isFn := nodeArg.(*ast.Function)
	if !isFn {
		return compatibleBuiltins(r.catalog, command.Name, "", nodeType, nil, skipAssign(nodeArg, refs))
	}
	if fn.Name == "not" {
		return r.fieldsOrFunctions([]definitions.Type{definitions.TypeBoolean}, command.Name, optionName, candidateOptions{
			functions: true,
			fields:    true,
			variables: vars,
		})
	}
	return r.builtinNextArgument(command, option, argDef.Type, fn, nodeType, refs)
}

// sourceCandidates offers enrich policies, or the indices and data
// streams FROM can read.
func (r *request) sourceCandidates(argDef *definitions.Param, isNew bool) []Suggestion {
	if argDef.InnerType == definitions.TypePolicy {
		// ENRICH <here>
		if policies := r.policySuggestions(); len(policies) > 0 {
			return policies
		}
		return []Suggestion{noPoliciesItem}
	}

	canRemoveQuote := isNew && strings.Contains(r.innerText, `"`)
	quoted := func(s []Suggestion) []Suggestion {
		if canRemoveQuote {
			return removeQuoteForSources(s)
		}
		return s
	}

	if index := lastIndexSource(r.commands); index != nil && index.Text != "" && index.Text != position.Marker {
		name := strings.ReplaceAll(index.Text, position.Marker, "")
		if streams, ok := r.dataStreamsFor(name); ok {
			items := make([]sourceItem, 0, len(streams))
			for _, ds := range streams {
				items = append(items, sourceItem{name: ds.Name})
			}
			return quoted(sourceSuggestions(items))
		}
	}
	return quoted(r.sourceSuggestions())
}

// lastIndexSource returns the last index source of the FROM command.
func lastIndexSource(commands []*ast.Command) *ast.Source {
	for _, cmd := range commands {
		if cmd.Name != string(definitions.CommandFrom) {
			continue
		}
		var last *ast.Source
		for _, arg := range cmd.Args {
			if src, ok := arg.(*ast.Source); ok && src.SourceType == ast.SourceIndex {
				last = src
			}
		}
		return last
	}
	return nil
}

type declaredOption struct {
	name  string
	index int
}

// optionsState returns the options the command already declares and the
// ones that may still follow them.
func optionsState(def *definitions.Command, command *ast.Command) ([]declaredOption, []*definitions.Option) {
	var declared []declaredOption
	last := -1
	for _, arg := range command.Args {
		opt, ok := arg.(*ast.Option)
		if !ok {
			continue
		}
		index := -1
		for i, o := range def.Options {
			if strings.EqualFold(string(o.Name), opt.Name) {
				index = i
				break
			}
		}
		declared = append(declared, declaredOption{name: opt.Name, index: index})
		if index > last {
			last = index
		}
	}
	var available []*definitions.Option
	for i, o := range def.Options {
		if len(declared) == 0 || i > last {
			available = append(available, o)
		}
	}
	return declared, available
}

func mandatoryArgsPresent(def *definitions.Command, command *ast.Command, argDef *definitions.Param) bool {
	n := 0
	for _, arg := range command.Args {
		switch arg.Kind() {
		case ast.KindOption, ast.KindSetting, ast.KindArray:
			continue
		}
		if arg.IsIncomplete() {
			continue
		}
		n++
	}
	return (def.Signature.MultipleParams && n > 1) ||
		n >= mandatoryParams(def.Signature.Params) ||
		(argDef != nil && argDef.Type == definitions.TypeFunction)
}

func allOptional(options []*definitions.Option) bool {
	for _, o := range options {
		if !o.Optional {
			return false
		}
	}
	return true
}

func hasFunctionArg(args []ast.Node) bool {
	for _, arg := range args {
		if arg.Kind() == ast.KindFunction {
			return true
		}
	}
	return false
}

// withoutOpeningQuote drops a trailing quote that opens a string, so that
// FROM a, "<here> still reads as the start of a new item.
func withoutOpeningQuote(text string) string {
	if strings.HasSuffix(text, `"`) && CountUnclosed(`"`, text) > 0 {
		return strings.TrimSuffix(text, `"`)
	}
	return text
}

// hasArgs reports whether n is a function call with arguments.
func hasArgs(n ast.Node) bool {
	fn, ok := n.(*ast.Function)
	return ok && len(position.CleanFunction(fn).Args) > 0
}

// hasNotFunction reports whether args hold a NOT applied to something.
// A NOT in front of the cursor marker does not count.
func hasNotFunction(args []ast.Node) bool {
	for _, arg := range args {
		if fn, ok := arg.(*ast.Function); ok && fn.Name == "not" && len(position.CleanFunction(fn).Args) > 0 {
			return true
		}
	}
	return false
}

// endsWithBareNot reports whether args close with an operand followed only
// by a NOT that has nothing to negate yet. The parser reads that NOT as a
// new prefix expression, so it shows up as its own trailing argument.
func endsWithBareNot(args []ast.Node, text string) bool {
	if len(args) < 2 {
		return false
	}
	fn, ok := args[len(args)-1].(*ast.Function)
	if !ok || fn.Name != "not" || len(position.CleanFunction(fn).Args) > 0 {
		return false
	}
	prev := args[len(args)-2]
	if prev == nil || position.IsMarker(prev) {
		return false
	}
	from, to := prev.Loc().Max+1, fn.Loc().Min
	if from < 0 || to > len(text) || from > to {
		return false
	}
	return strings.TrimSpace(text[from:to]) == ""
}

func isAssignmentCommand(name string) bool {
	switch definitions.CommandName(name) {
	case definitions.CommandEval, definitions.CommandStats, definitions.CommandRow:
		return true
	}
	return false
}

// isScalarParam reports whether t is a concrete data type rather than a
// catalog placeholder.
func isScalarParam(t definitions.Type) bool {
	return t.IsString() || t == definitions.TypeBoolean || t.IsNumeric()
}
