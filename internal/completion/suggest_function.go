package completion

import (
	"strings"

	"github.com/oakwood-commons/esqlc/internal/esql/ast"
	"github.com/oakwood-commons/esqlc/internal/esql/definitions"
	"github.com/oakwood-commons/esqlc/internal/esql/position"
)

// suggestFunctionArgs completes the argument of a function call under the
// cursor, such as round(<here>) or date_trunc(1 <here>.
func (r *request) suggestFunctionArgs(p position.FunctionArg) []Suggestion {
	command, option, node := p.Command, p.Option, p.Node
	def, ok := r.catalog.Function(node.Name)
	if !ok || len(def.Signatures) == 0 {
		return nil
	}

	fields := r.fieldsMap()
	vars := ExcludeVariablesFromCurrentCommand(r.catalog, r.commands, command, fields, r.innerText)
	refs := r.references(fields, vars)

	argIndex := len(node.Args)
	if !strings.Contains(node.Text, position.Marker) && argIndex > 0 {
		argIndex--
	}
	var arg ast.Node
	if argIndex < len(node.Args) {
		arg = node.Args[argIndex]
	}

	ref := def.Signatures[0]
	hasMore := false
	if len(ref.Params) >= argIndex {
		for i, param := range ref.Params {
			if i > argIndex && !param.Optional {
				hasMore = true
				break
			}
		}
	}
	if ref.MinParams > 0 && ref.MinParams-1 > argIndex {
		hasMore = true
	}
	addComma := hasMore && def.Type != definitions.FunctionBuiltin

	if constants := literalConstants(def, argIndex); len(constants) > 0 {
		return valueSuggestions(constants, insertOptions{addComma: hasMore, advance: hasMore})
	}

	var out []Suggestion
	unknownColumn := false
	if col, ok := arg.(*ast.Column); ok {
		_, known := LookupColumn(col, refs)
		unknownColumn = !known
	}

	if arg == nil || unknownColumn {
		ignored := r.ignoredFunctions(command, node)

		var existing []definitions.Type
		for _, a := range node.Args {
			if t, ok := ResolveType(a, refs); ok {
				existing = append(existing, t)
			}
		}

		var constTypes, fieldTypes []definitions.Type
		for _, sig := range def.Signatures {
			if !signatureAccepts(sig, existing) {
				continue
			}
			param := ParamAt(sig, argIndex)
			if param == nil {
				continue
			}
			if param.ConstantOnly || strings.HasSuffix(string(param.Type), "_literal") {
				constTypes = appendType(constTypes, param.Type)
			} else {
				fieldTypes = appendType(fieldTypes, param.Type)
			}
		}

		opts := insertOptions{addComma: addComma, advance: hasMore}
		out = append(out, compatibleLiterals(command.Name, constTypes, nil, opts)...)
		out = append(out, promote(r.fieldsByType(fieldTypes, nil, opts), true)...)

		optionName := ""
		if option != nil {
			optionName = option.Name
		}
		functions := compatibleFunctions(r.catalog, command.Name, optionName, fieldTypes, ignored)
		if addComma {
			for i := range functions {
				functions[i].Text += ","
			}
		}
		out = append(out, functions...)

		if definitions.ContainsType(fieldTypes, definitions.TypeDate) &&
			(command.Name == string(definitions.CommandWhere) || command.Name == string(definitions.CommandEval)) {
			out = append(out, dateLiterals(opts)...)
		}
	}

	if arg != nil {
		if lit, ok := arg.(*ast.Literal); ok && command.Name != string(definitions.CommandStats) &&
			(lit.LiteralType == ast.LiteralInteger || lit.LiteralType == ast.LiteralDecimal) {
			// date_trunc(1 <here>
			out = append(out, compatibleLiterals(command.Name, []definitions.Type{definitions.TypeTimeLiteralUnit}, nil, insertOptions{addComma: addComma, advance: hasMore})...)
		}
		if hasMore {
			out = append(out, commaItem)
		}
	}
	return out
}

// literalConstants returns the fixed values the parameter at index takes
// across all signatures, in declaration order.
func literalConstants(def *definitions.Function, index int) []string {
	var out []string
	for _, sig := range def.Signatures {
		if index >= len(sig.Params) {
			continue
		}
		values := sig.Params[index].LiteralSuggestions
		if len(values) == 0 {
			values = sig.Params[index].LiteralOptions
		}
		for _, v := range values {
			if !contains(out, v) {
				out = append(out, v)
			}
		}
	}
	return out
}

// ignoredFunctions returns the functions that make no sense as an argument
// of node: node itself, and in STATS the aggregations already in use.
func (r *request) ignoredFunctions(command *ast.Command, node *ast.Function) []string {
	if command.Name != string(definitions.CommandStats) {
		return []string{node.Name}
	}
	index := -1
	for i, a := range command.Args {
		if ast.IsSingleItem(a) && a.Loc().Max >= node.Location.Max {
			index = i
			break
		}
	}
	if index < 0 {
		index = len(command.Args) - 1
		if index < 0 {
			index = 0
		}
	}
	if index < len(command.Args) && command.Args[index].Kind() == ast.KindOption {
		return []string{node.Name}
	}
	ignored := functionsToIgnoreForStats(command, index)
	if r.aggregationUsed(command, index) {
		ignored = append(ignored, r.aggregationNames()...)
	}
	return ignored
}

// signatureAccepts reports whether the already typed arguments fit sig.
func signatureAccepts(sig definitions.Signature, existing []definitions.Type) bool {
	for i, t := range existing {
		param := ParamAt(sig, i)
		if param == nil || !definitions.CompatibleTypes(t, param.Type) {
			return false
		}
	}
	return true
}

func appendType(types []definitions.Type, t definitions.Type) []definitions.Type {
	if definitions.ContainsType(types, t) {
		return types
	}
	return append(types, t)
}
