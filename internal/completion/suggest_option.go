package completion

import (
	"strings"

	"github.com/oakwood-commons/esqlc/internal/esql/ast"
	"github.com/oakwood-commons/esqlc/internal/esql/definitions"
	"github.com/oakwood-commons/esqlc/internal/esql/position"
)

// suggestOption completes the arguments of a command option such as
// STATS ... BY or ENRICH ... WITH.
func (r *request) suggestOption(p position.OptionArg) []Suggestion {
	command, option := p.Command, p.Option
	var optionDef *definitions.Option
	if def, ok := r.catalog.Command(command.Name); ok {
		optionDef, _ = def.Option(option.Name)
	}
	meta := ExtractArgMeta(option.Args, p.Node)
	nodeArg, lastArg := meta.NodeArg, meta.LastArg
	isNew := IsRestartingExpression(r.innerText) || len(option.Args) == 0

	fields := r.fieldsMap()
	vars := r.variables(fields)
	refs := r.references(fields, vars)

	var out []Suggestion
	switch definitions.CommandName(command.Name) {
	case definitions.CommandEnrich:
		out = append(out, r.enrichOption(command, option, isNew, lastArg, fields)...)
	case definitions.CommandRename:
		if len(option.Args) < 2 {
			out = append(out, variableSuggestions([]string{FindNewVariable(vars)})...)
		}
	case definitions.CommandDissect:
		known := 0
		for _, arg := range option.Args {
			if arg.Kind() != ast.KindUnknown {
				known++
			}
		}
		if known < 1 && optionDef != nil {
			out = append(out, colonItem, semicolonItem)
		}
	}

	if option.Name == string(definitions.OptionMetadata) {
		out = append(out, metadataCandidates(option, isNew)...)
	}

	if command.Name == string(definitions.CommandStats) {
		argType := definitions.TypeAny
		if optionDef != nil && meta.ArgIndex < len(optionDef.Signature.Params) {
			argType = optionDef.Signature.Params[meta.ArgIndex].Type
		}
		nodeType, resolved := ResolveType(nodeArg, refs)
		// STATS ... BY field + <here>
		if resolved {
			if fn, ok := nodeArg.(*ast.Function); ok && !IsArgComplete(fn, refs).Complete {
				out = append(out, r.builtinNextArgument(command, option, argType, fn, nodeType, refs)...)
			}
		}
		byDone := !resolved && option.Name == string(definitions.OptionBy) && len(option.Args) > 0 && !isNew && !IsAssignment(lastArg)
		if byDone || (IsAssignment(lastArg) && IsAssignmentComplete(lastArg)) {
			comma := option.Name == string(definitions.OptionBy)
			if optionDef != nil {
				comma = optionDef.Signature.MultipleParams
			}
			out = append(out, finalSuggestions(comma)...)
		}
	}

	if optionDef != nil && len(out) == 0 {
		out = append(out, r.optionFallback(command, option, optionDef, isNew, nodeArg, lastArg, vars)...)
	}
	return out
}

func (r *request) enrichOption(command *ast.Command, option *ast.Option, isNew bool, lastArg ast.Node, fields map[string]Field) []Suggestion {
	policyName := ""
	if len(command.Args) > 0 {
		if src, ok := command.Args[0].(*ast.Source); ok {
			policyName = src.Name
		}
	}

	var out []Suggestion
	switch definitions.OptionName(option.Name) {
	case definitions.OptionOn:
		danglingAssignment := len(option.Args) > 0 && IsAssignment(option.Args[0]) && len(option.Args) < 2
		if isNew || FindPreviousWord(r.innerText) == "ON" || danglingAssignment {
			if policyName == "" {
				return nil
			}
			// Only the match field of the policy can be joined on.
			if policy, ok := r.policyMetadata(policyName); ok && policy.MatchField != "" {
				out = append(out, matchFieldSuggestion(policy.MatchField, policy.MatchField))
			}
			return out
		}
		if def, ok := r.catalog.Command(command.Name); ok {
			if with, ok := def.Option(string(definitions.OptionWith)); ok {
				out = append(out, optionSuggestion(with, false))
			}
		}
		return append(out, finalSuggestions(true)...)

	case definitions.OptionWith:
		if policyName == "" {
			return nil
		}
		policy, found := r.policyMetadata(policyName)
		enhanced := CollectVariables(r.catalog, r.commands, withEnrichFields(fields, policy, found), r.innerText)
		if isNew || strings.EqualFold(FindPreviousWord(r.innerText), "WITH") {
			out = append(out, newVariableSuggestion(FindNewVariable(enhanced)))
		}

		var assign *ast.Function
		if IsAssignment(lastArg) {
			assign = position.CleanFunction(lastArg.(*ast.Function))
		}
		if found && (isNew || (assign != nil && !IsAssignmentComplete(assign))) {
			// ENRICH ... WITH a = <here>
			out = append(out, fieldNameSuggestions(policy.EnrichFields)...)
		}
		if assign != nil && HasSameArgBothSides(assign) && !isNew && !IsIncompleteItem(assign) {
			// ENRICH ... WITH a <here>
			out = append(out, promote(compatibleBuiltins(r.catalog, command.Name, "", definitions.TypeAny, nil, false), true)...)
		}
		if assign != nil && (IsAssignmentComplete(assign) || HasSameArgBothSides(assign)) && !isNew {
			out = append(out, finalSuggestions(true)...)
		}
	}
	return out
}

func metadataCandidates(option *ast.Option, isNew bool) []Suggestion {
	existing := make(map[string]bool)
	for _, arg := range option.Args {
		if col, ok := arg.(*ast.Column); ok {
			existing[col.Name] = true
		}
	}
	var remaining []string
	for _, name := range definitions.MetadataFields {
		if !existing[name] {
			remaining = append(remaining, name)
		}
	}
	if isNew {
		return fieldNameSuggestions(remaining)
	}
	if len(existing) == 0 {
		return nil
	}
	var out []Suggestion
	if len(remaining) > 0 {
		out = append(out, commaItem)
	}
	return append(out, pipeItem)
}

// optionFallback applies to options none of the specific rules covered:
// closing tokens after a complete argument, otherwise the fields and
// functions that may start one.
func (r *request) optionFallback(command *ast.Command, option *ast.Option, def *definitions.Option, isNew bool, nodeArg, lastArg ast.Node, vars Variables) []Suggestion {
	params := def.Signature.Params
	if len(params) == 0 {
		return nil
	}
	index := 0
	if !def.Signature.MultipleParams {
		index = len(option.Args) - 1
		if index < 0 {
			index = 0
		}
		if index >= len(params) {
			index = len(params) - 1
		}
	}
	types := []definitions.Type{params[index].Type}
	if types[0] == definitions.TypeColumn {
		types = []definitions.Type{definitions.TypeAny}
	}

	// OPTION field <here>, OPTION field = ... <here>
	if (len(option.Args) > 0 && !isNew && !IsAssignment(lastArg)) || (IsAssignment(lastArg) && IsAssignmentComplete(lastArg)) {
		return finalSuggestions(def.Signature.MultipleParams)
	}
	if !isNew && !(IsAssignment(nodeArg) && !IsAssignmentComplete(nodeArg)) {
		return nil
	}

	out := r.fieldsByType(types, nil, insertOptions{advance: true})
	if option.Name == string(definitions.OptionBy) {
		out = append(out, r.fieldsOrFunctions(types, command.Name, option.Name, candidateOptions{functions: true})...)
	}
	if command.Name == string(definitions.CommandStats) && isNew {
		out = append(out, newVariableSuggestion(FindNewVariable(vars)))
	}
	return out
}
