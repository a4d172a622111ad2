package completion

import (
	"fmt"
	"strings"

	"github.com/oakwood-commons/esqlc/internal/esql/ast"
	"github.com/oakwood-commons/esqlc/internal/esql/definitions"
	"github.com/oakwood-commons/esqlc/internal/esql/position"
)

// CollectVariables returns the columns the query defines: ROW, EVAL and
// STATS assignments and expressions, STATS ... BY clauses, ENRICH ... WITH
// renames and RENAME ... AS. queryText is the text the commands were
// parsed from up to the cursor.
func CollectVariables(catalog *definitions.Catalog, commands []*ast.Command, fields map[string]Field, queryText string) Variables {
	vars := make(Variables)
	refs := References{Catalog: catalog, Fields: fields, Variables: vars}
	for _, cmd := range commands {
		switch definitions.CommandName(cmd.Name) {
		case definitions.CommandRow, definitions.CommandEval, definitions.CommandStats:
			for _, arg := range cmd.Args {
				if fn, ok := arg.(*ast.Function); ok {
					addFunctionVariable(vars, fn, refs, queryText)
				}
				if opt, ok := arg.(*ast.Option); ok && cmd.Name == string(definitions.CommandStats) && opt.Name == string(definitions.OptionBy) {
					for _, optArg := range opt.Args {
						if fn, ok := optArg.(*ast.Function); ok {
							addFunctionVariable(vars, fn, refs, queryText)
						}
					}
				}
			}
		case definitions.CommandEnrich:
			for _, arg := range cmd.Args {
				opt, ok := arg.(*ast.Option)
				if !ok || opt.Name != string(definitions.OptionWith) {
					continue
				}
				for _, optArg := range opt.Args {
					fn, ok := optArg.(*ast.Function)
					if !ok || len(fn.Args) < 2 {
						continue
					}
					if value, ok := fn.Args[1].(*ast.Array); ok && len(value.Items) > 0 {
						addRenamed(vars, value.Items[0], fn.Args[0], fields)
					}
				}
			}
		case definitions.CommandRename:
			for _, arg := range cmd.Args {
				opt, ok := arg.(*ast.Option)
				if !ok || opt.Name != string(definitions.OptionAs) || len(opt.Args) < 2 {
					continue
				}
				addRenamed(vars, opt.Args[0], opt.Args[1], fields)
			}
		}
	}
	return vars
}

func addFunctionVariable(vars Variables, fn *ast.Function, refs References, queryText string) {
	if fn.Name == "=" {
		addAssignment(vars, fn, refs)
		return
	}
	if strings.Contains(fn.Text, position.Marker) {
		return
	}
	start, end := fn.Location.Min, fn.Location.Max+1
	if start > len(queryText) {
		return
	}
	if end > len(queryText) {
		end = len(queryText)
	}
	name := queryText[start:end]
	vars[name] = append(vars[name], Variable{Name: name, Type: definitions.TypeDouble, Location: fn.Location})
}

func addAssignment(vars Variables, fn *ast.Function, refs References) {
	if len(fn.Args) == 0 {
		return
	}
	target, ok := fn.Args[0].(*ast.Column)
	if !ok {
		return
	}
	t := definitions.TypeDouble
	if len(fn.Args) > 1 {
		if value, ok := fn.Args[1].(*ast.Array); ok && len(value.Items) > 0 {
			if resolved, ok := ResolveType(value.Items[0], refs); ok {
				t = resolved
			} else if value.Items[0].Kind() == ast.KindTimeInterval {
				t = definitions.TypeTimeInterval
			}
		}
	}
	vars[target.Name] = append(vars[target.Name], Variable{Name: target.Name, Type: t, Location: target.Location})
}

// addRenamed records newArg as a copy of oldArg when oldArg is known.
func addRenamed(vars Variables, oldArg, newArg ast.Node, fields map[string]Field) {
	oldCol, ok := oldArg.(*ast.Column)
	if !ok {
		return
	}
	newCol, ok := newArg.(*ast.Column)
	if !ok {
		return
	}
	var t definitions.Type
	if f, ok := fields[oldCol.Name]; ok {
		t = f.Type
	} else {
		key := oldCol.Name
		if oldCol.Quoted {
			key = oldCol.Text
		}
		defs := vars[key]
		if len(defs) == 0 {
			return
		}
		t = defs[0].Type
	}
	vars[newCol.Name] = append(vars[newCol.Name], Variable{Name: newCol.Name, Type: t, Location: newCol.Location})
}

// ExcludeVariablesFromCurrentCommand collects the variables of commands
// minus the names that current itself defines.
func ExcludeVariablesFromCurrentCommand(catalog *definitions.Catalog, commands []*ast.Command, current *ast.Command, fields map[string]Field, queryText string) Variables {
	all := CollectVariables(catalog, commands, fields, queryText)
	own := CollectVariables(catalog, []*ast.Command{current}, fields, queryText)
	out := make(Variables, len(all))
	for name, defs := range all {
		if _, ok := own[name]; !ok {
			out[name] = defs
		}
	}
	return out
}

// FindNewVariable returns the first of var0, var1, ... not in vars.
func FindNewVariable(vars Variables) string {
	for i := 0; ; i++ {
		name := fmt.Sprintf("var%d", i)
		if _, taken := vars[name]; !taken {
			return name
		}
	}
}
