package completion

import (
	"github.com/oakwood-commons/esqlc/internal/esql/ast"
	"github.com/oakwood-commons/esqlc/internal/esql/definitions"
	"github.com/oakwood-commons/esqlc/internal/esql/position"
)

// suggestList completes a value of an IN list with fields, variables and
// functions of the type of the left operand, leaving out those already
// listed.
func (r *request) suggestList(p position.ListArg) []Suggestion {
	node := p.Node
	if node == nil || len(node.Args) == 0 {
		return nil
	}
	fields := r.fieldsMap()
	vars := r.variables(fields)
	// a = x IN (<here> must not offer a.
	for name, defs := range vars {
		for _, def := range defs {
			if def.Location == node.Location {
				delete(vars, name)
				break
			}
		}
	}
	refs := r.references(fields, vars)

	first, ok := node.Args[0].(*ast.Column)
	if !ok {
		return nil
	}
	t, ok := ResolveType(first, refs)
	if !ok {
		return nil
	}
	ignored := []string{first.Name}
	for _, arg := range node.Args[1:] {
		arr, ok := arg.(*ast.Array)
		if !ok {
			continue
		}
		for _, item := range arr.Items {
			if col, ok := item.(*ast.Column); ok {
				ignored = append(ignored, col.Name)
			}
		}
	}

	optionName := ""
	if p.Option != nil {
		optionName = p.Option.Name
	}
	return r.fieldsOrFunctions([]definitions.Type{t}, p.Command.Name, optionName, candidateOptions{
		functions:    true,
		fields:       true,
		variables:    vars,
		ignoreFields: ignored,
	})
}

// suggestSetting completes the mode of a command, such as the cluster
// mode of ENRICH _<here>.
func (r *request) suggestSetting(p position.SettingArg) []Suggestion {
	def, ok := r.catalog.Command(p.Command.Name)
	if !ok {
		return nil
	}
	prefix := GetLastCharFromTrimmed(r.innerText)
	var out []Suggestion
	for _, mode := range def.Modes {
		if mode.Prefix == prefix {
			out = append(out, settingSuggestions(mode)...)
		}
	}
	return out
}
