// Package position classifies where the cursor sits inside a parsed ES|QL
// query.
//
// The completion engine appends Marker to the text before parsing so the
// parser produces a node at the cursor even when nothing has been typed
// there yet. Resolve locates the command, option and node under the cursor,
// strips marker nodes from everything it hands back, and returns one of the
// Position variants below.
package position

import (
	"strings"

	"github.com/oakwood-commons/esqlc/internal/esql/ast"
	"github.com/oakwood-commons/esqlc/internal/esql/definitions"
)

// Marker is the sentinel identifier injected at the cursor.
const Marker = "marker_esql_editor"

// Kind names a Position variant.
type Kind string

const (
	KindNewCommand Kind = "newCommand"
	KindExpression Kind = "expression"
	KindOption     Kind = "option"
	KindSetting    Kind = "setting"
	KindFunction   Kind = "function"
	KindList       Kind = "list"
)

// Kinds lists every Position kind.
var Kinds = []Kind{KindNewCommand, KindExpression, KindOption, KindSetting, KindFunction, KindList}

// Position is the classified cursor location. The set of implementations
// is closed.
type Position interface {
	Kind() Kind
	position()
}

// NewCommand is the start of a pipeline stage.
type NewCommand struct{}

// Expression is an argument of a command outside any option.
type Expression struct {
	Command *ast.Command
	Option  *ast.Option
	Node    ast.Node
}

// OptionArg is an argument of a command option such as BY or WITH.
type OptionArg struct {
	Command *ast.Command
	Option  *ast.Option
	Node    ast.Node
}

// SettingArg is a command mode prefix such as ENRICH _.
type SettingArg struct {
	Command *ast.Command
	Node    ast.Node
}

// FunctionArg is an argument of a function call.
type FunctionArg struct {
	Command *ast.Command
	Option  *ast.Option
	Node    *ast.Function
}

// ListArg is a value of an IN list.
type ListArg struct {
	Command *ast.Command
	Option  *ast.Option
	Node    *ast.Function
}

func (NewCommand) Kind() Kind  { return KindNewCommand }
func (Expression) Kind() Kind  { return KindExpression }
func (OptionArg) Kind() Kind   { return KindOption }
func (SettingArg) Kind() Kind  { return KindSetting }
func (FunctionArg) Kind() Kind { return KindFunction }
func (ListArg) Kind() Kind     { return KindList }

func (NewCommand) position()  {}
func (Expression) position()  {}
func (OptionArg) position()   {}
func (SettingArg) position()  {}
func (FunctionArg) position() {}
func (ListArg) position()     {}

// Resolver classifies cursor positions against a catalog.
type Resolver struct {
	Catalog *definitions.Catalog
}

// Resolve classifies offset within commands, which were parsed from the
// repaired form of text. text is the query up to the cursor.
func (r Resolver) Resolve(text string, commands []*ast.Command, offset int) Position {
	raw := findCommand(commands, offset)
	if raw == nil {
		return NewCommand{}
	}
	command := CleanCommand(raw)
	option := CleanOption(findTrailing[*ast.Option](raw.Args, offset))
	rawNode := findNode(raw.Args, offset)
	node := Clean(CleanNode(rawNode))

	if node != nil {
		if fn, ok := node.(*ast.Function); ok {
			if (fn.Name == "in" || fn.Name == "not_in") && len(fn.Args) > 1 && fn.Args[1].Kind() == ast.KindArray {
				return ListArg{Command: command, Option: option, Node: fn}
			}
			if fn.Name != "=" && command.Name != string(definitions.CommandEnrich) && !r.Catalog.IsBuiltin(fn.Name) {
				return FunctionArg{Command: command, Option: option, Node: fn}
			}
		}
		if node.Kind() == ast.KindOption || option != nil {
			return OptionArg{Command: command, Option: option, Node: node}
		}
	}
	if len(text) <= offset && PipePrecedesCurrentWord(text) {
		return NewCommand{}
	}
	if len(command.Args) > 0 && option != nil {
		return OptionArg{Command: command, Option: option, Node: node}
	}
	if src := findTrailing[*ast.Source](raw.Args, offset); src != nil && strings.TrimSuffix(src.Text, Marker) == "_" {
		return SettingArg{Command: command, Node: node}
	}
	return Expression{Command: command, Option: option, Node: node}
}

// findCommand returns the command containing offset, or the last one.
func findCommand(commands []*ast.Command, offset int) *ast.Command {
	for _, cmd := range commands {
		if cmd.Location.Contains(offset) {
			return cmd
		}
	}
	if len(commands) == 0 {
		return nil
	}
	return commands[len(commands)-1]
}

// findNode returns the innermost node containing offset. Arrays are
// transparent. When the innermost node is the bare marker its parent is
// returned instead.
func findNode(nodes []ast.Node, offset int) ast.Node {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if arr, ok := n.(*ast.Array); ok {
			if found := findNode(arr.Items, offset); found != nil {
				return found
			}
			continue
		}
		if !n.Loc().Contains(offset) {
			continue
		}
		if args := ast.Args(n); len(args) > 0 {
			found := findNode(args, offset)
			if found != nil && found.NodeText() == Marker {
				return n
			}
			if found != nil {
				return found
			}
		}
		return n
	}
	return nil
}

// findTrailing returns the node of type T containing offset, or the last
// argument when it is a T and the cursor is past it.
func findTrailing[T ast.Node](nodes []ast.Node, offset int) T {
	var zero T
	for i, n := range nodes {
		v, ok := n.(T)
		if !ok {
			continue
		}
		if v.Loc().Contains(offset) || (i == len(nodes)-1 && v.Loc().Max < offset) {
			return v
		}
	}
	return zero
}

// PipePrecedesCurrentWord reports whether the word being typed at the end
// of text directly follows a pipe.
func PipePrecedesCurrentWord(text string) bool {
	trimmed := strings.TrimRightFunc(text, isWordChar)
	trimmed = strings.TrimRight(trimmed, " \t\r\n")
	return strings.HasSuffix(trimmed, "|")
}

func isWordChar(r rune) bool {
	return r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}
