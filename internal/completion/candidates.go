package completion

import (
	"sort"
	"strings"

	"github.com/grafana/regexp"

	"github.com/oakwood-commons/esqlc/internal/esql/ast"
	"github.com/oakwood-commons/esqlc/internal/esql/definitions"
	"github.com/oakwood-commons/esqlc/internal/esql/position"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z\d]`)

// candidateOptions selects what fieldsOrFunctions offers.
type candidateOptions struct {
	functions bool
	fields    bool
	literals  bool
	// variables are offered when non-nil.
	variables    Variables
	ignoreFn     []string
	ignoreFields []string
}

// fieldsOrFunctions offers the fields, functions, variables and literals
// of one of types. Fields and variables rank above functions when both
// are offered.
func (r *request) fieldsOrFunctions(types []definitions.Type, command, option string, o candidateOptions) []Suggestion {
	var fields []Suggestion
	if o.fields {
		fields = promote(r.fieldsByType(types, o.ignoreFields, insertOptions{advance: command == string(definitions.CommandSort)}), o.functions)
	}

	var names []string
	if o.variables != nil {
		for _, name := range orderedNames(o.variables) {
			v := o.variables[name][0]
			if matchesTypes(v.Type, types) {
				names = append(names, v.Name)
			}
		}
		// Aggregations without an explicit name come back from the server
		// as fields with an underscored name, such as avg_b_ for avg(b).
		if anyMatch(names, nonAlphanumeric.MatchString) {
			for _, name := range names {
				sanitized := strings.Trim(name, "`")
				underscored := nonAlphanumeric.ReplaceAllString(sanitized, "_")
				for i, f := range fields {
					if f.Label == underscored || f.Label == "_"+underscored+"_" {
						fields = append(fields[:i:i], fields[i+1:]...)
						break
					}
				}
			}
		}
	}

	out := fields
	if o.functions {
		out = append(out, compatibleFunctions(r.catalog, command, option, types, o.ignoreFn)...)
	}
	if o.variables != nil {
		out = append(out, promote(variableSuggestions(names), o.functions)...)
	}
	if o.literals {
		out = append(out, compatibleLiterals(command, types, nil, insertOptions{})...)
	}
	return out
}

// orderedNames returns the variable names in the order they were first
// defined in the query.
func orderedNames(vars Variables) []string {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := vars[names[i]][0].Location.Min, vars[names[j]][0].Location.Min
		if a != b {
			return a < b
		}
		return names[i] < names[j]
	})
	return names
}

func anyMatch(list []string, pred func(string) bool) bool {
	for _, s := range list {
		if pred(s) {
			return true
		}
	}
	return false
}

// skipAssign leaves assignment out of operator suggestions unless n is a
// column nobody defined yet, so an existing name is not shadowed.
func skipAssign(n ast.Node, refs References) bool {
	col, ok := n.(*ast.Column)
	if !ok {
		return true
	}
	_, known := LookupColumn(col, refs)
	return known
}

// builtinNextArgument suggests how to go on after an operator
// application: another operator when it is complete, otherwise a right
// operand of a compatible type. Suggestions replace the part of the
// operator already typed.
func (r *request) builtinNextArgument(command *ast.Command, option *ast.Option, argType definitions.Type, fn *ast.Function, fnType definitions.Type, refs References) []Suggestion {
	optionName := ""
	if option != nil {
		optionName = option.Name
	}
	if fnType == "" {
		fnType = definitions.TypeAny
	}

	var out []Suggestion
	verdict := IsArgComplete(fn, refs)
	if verdict.Complete {
		out = compatibleBuiltins(r.catalog, command.Name, optionName, fnType, nil, skipAssign(fn, refs))
		return withOverlapRange(r.innerText, out)
	}

	args := position.CleanFunction(fn).Args
	var nestedType definitions.Type
	if len(args) > 0 {
		nestedType, _ = ResolveType(args[len(args)-1], refs)
	}
	def, _ := r.catalog.Function(fn.Name)

	switch verdict.Reason {
	case ReasonFewArgs:
		if def != nil && everySignatureTakesList(def) {
			out = append(out, listItem)
			break
		}
		finalType := nestedType
		if finalType == "" {
			finalType = fnType
		}
		types := supportedTypesForBinaryOperators(def, finalType)
		if finalType == definitions.TypeBoolean && def != nil && def.Type == definitions.FunctionBuiltin {
			types = []definitions.Type{definitions.TypeAny}
		}
		out = append(out, r.fieldsOrFunctions(types, command.Name, optionName, candidateOptions{
			functions: true,
			fields:    true,
			variables: refs.Variables,
		})...)
	case ReasonWrongTypes:
		if nestedType != "" && nestedType != argType {
			out = append(out, compatibleBuiltins(r.catalog, command.Name, "", nestedType, []definitions.Type{argType}, skipAssign(fn, refs))...)
		}
	}
	return withOverlapRange(r.innerText, out)
}

func everySignatureTakesList(fn *definitions.Function) bool {
	for _, sig := range fn.Signatures {
		takesList := false
		for _, p := range sig.Params {
			if p.Type.IsArray() {
				takesList = true
				break
			}
		}
		if !takesList {
			return false
		}
	}
	return true
}

// supportedTypesForBinaryOperators returns the right operand types of the
// signatures whose left operand is of type left.
func supportedTypesForBinaryOperators(fn *definitions.Function, left definitions.Type) []definitions.Type {
	if fn == nil {
		return []definitions.Type{left}
	}
	var out []definitions.Type
	for _, sig := range fn.Signatures {
		if len(sig.Params) < 2 {
			continue
		}
		if sig.Params[0].Name == "left" && sig.Params[0].Type == left {
			out = append(out, sig.Params[1].Type)
		}
	}
	return out
}

// functionsToIgnoreForStats returns the names of the functions nested in
// the STATS argument at index, looking through assignments.
func functionsToIgnoreForStats(command *ast.Command, index int) []string {
	if index < 0 || index >= len(command.Args) {
		return nil
	}
	fn, ok := command.Args[index].(*ast.Function)
	if !ok {
		return nil
	}
	return nestedFunctionNames(fn)
}

func nestedFunctionNames(fn *ast.Function) []string {
	names := []string{fn.Name}
	for _, arg := range fn.Args {
		switch v := arg.(type) {
		case *ast.Function:
			names = append(names, nestedFunctionNames(v)...)
		case *ast.Array:
			for _, item := range v.Items {
				if inner, ok := item.(*ast.Function); ok {
					names = append(names, nestedFunctionNames(inner)...)
				}
			}
		}
	}
	return names
}

// aggregationUsed reports whether the STATS argument at index is an
// aggregation, or assigns one.
func (r *request) aggregationUsed(command *ast.Command, index int) bool {
	if index < 0 || index >= len(command.Args) {
		return false
	}
	fn, ok := command.Args[index].(*ast.Function)
	if !ok {
		return false
	}
	if IsAssignment(fn) && len(fn.Args) > 1 {
		if value, ok := fn.Args[1].(*ast.Array); ok && len(value.Items) > 0 {
			if inner, ok := value.Items[0].(*ast.Function); ok {
				fn = inner
			}
		}
	}
	return r.catalog.IsAggregation(fn.Name)
}

func (r *request) aggregationNames() []string {
	var names []string
	for _, fn := range r.catalog.Functions(definitions.FunctionAgg) {
		names = append(names, fn.Name)
	}
	return names
}
