// Package ast defines the syntax tree produced by the ES|QL parser.
//
// The tree is deliberately loose: commands hold a flat, ordered list of
// arguments, and every node records its inclusive source range and whether
// the parser had to give up part-way through it.
package ast

// Location is an inclusive byte range into the parsed text.
type Location struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Contains reports whether offset lies within the range.
func (l Location) Contains(offset int) bool {
	return l.Min <= offset && l.Max >= offset
}

// Kind identifies the concrete type of a Node.
type Kind int

const (
	KindCommand Kind = iota
	KindOption
	KindFunction
	KindColumn
	KindLiteral
	KindTimeInterval
	KindSource
	KindSetting
	KindList
	KindUnknown
	KindArray
)

var kindNames = [...]string{
	KindCommand:      "command",
	KindOption:       "option",
	KindFunction:     "function",
	KindColumn:       "column",
	KindLiteral:      "literal",
	KindTimeInterval: "timeInterval",
	KindSource:       "source",
	KindSetting:      "setting",
	KindList:         "list",
	KindUnknown:      "unknown",
	KindArray:        "array",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// Node is the interface implemented by all tree nodes.
type Node interface {
	Kind() Kind
	Loc() Location
	NodeName() string
	NodeText() string
	IsIncomplete() bool
}

// Base carries the fields shared by every node.
type Base struct {
	Name       string
	Text       string
	Location   Location
	Incomplete bool
}

func (b *Base) Loc() Location      { return b.Location }
func (b *Base) NodeName() string   { return b.Name }
func (b *Base) NodeText() string   { return b.Text }
func (b *Base) IsIncomplete() bool { return b.Incomplete }

// MarkIncomplete flags the node as cut short.
func (b *Base) MarkIncomplete() { b.Incomplete = true }

// Command is a single pipeline stage such as FROM or STATS.
type Command struct {
	Base
	Args []Node
}

func (c *Command) Kind() Kind { return KindCommand }

// WithArgs returns a shallow copy of the command holding args.
func (c *Command) WithArgs(args []Node) *Command {
	cp := *c
	cp.Args = args
	return &cp
}

// Option is a named sub-clause of a command (BY, METADATA, AS, ON, WITH).
type Option struct {
	Base
	Args []Node
}

func (o *Option) Kind() Kind { return KindOption }

// WithArgs returns a shallow copy of the option holding args.
func (o *Option) WithArgs(args []Node) *Option {
	cp := *o
	cp.Args = args
	return &cp
}

// Function is a function call or operator application. Operators are named
// after their symbol or lower-case keyword ("+", "==", "and", "not_like",
// "is null", "=").
type Function struct {
	Base
	Args []Node
}

func (f *Function) Kind() Kind { return KindFunction }

// WithArgs returns a shallow copy of the function holding args.
func (f *Function) WithArgs(args []Node) *Function {
	cp := *f
	cp.Args = args
	return &cp
}

// Column references a field or a variable. Name is unquoted; Text keeps
// the backticks when Quoted is set.
type Column struct {
	Base
	Quoted bool
}

func (c *Column) Kind() Kind { return KindColumn }

// LiteralType is the type of a constant.
type LiteralType string

const (
	LiteralInteger LiteralType = "integer"
	LiteralDecimal LiteralType = "decimal"
	LiteralString  LiteralType = "keyword"
	LiteralBoolean LiteralType = "boolean"
	LiteralNull    LiteralType = "null"
	LiteralParam   LiteralType = "param"
)

// Literal is a typed constant. Value is the unquoted value.
type Literal struct {
	Base
	LiteralType LiteralType
	Value       string
}

func (l *Literal) Kind() Kind { return KindLiteral }

// TimeInterval is a quantity followed by a time unit, as in "2 days".
type TimeInterval struct {
	Base
	Quantity string
	Unit     string
}

func (t *TimeInterval) Kind() Kind { return KindTimeInterval }

// SourceType distinguishes index sources from enrich policies.
type SourceType string

const (
	SourceIndex  SourceType = "index"
	SourcePolicy SourceType = "policy"
)

// Source names an index pattern or an enrich policy.
type Source struct {
	Base
	SourceType SourceType
}

func (s *Source) Kind() Kind { return KindSource }

// Setting is a command mode such as the "_any:" prefix of ENRICH.
type Setting struct {
	Base
}

func (s *Setting) Kind() Kind { return KindSetting }

// List is a bracketed list literal, [1, 2, 3].
type List struct {
	Base
	Values []Node
}

func (l *List) Kind() Kind { return KindList }

// Unknown marks text the parser could not make sense of.
type Unknown struct {
	Base
}

func (u *Unknown) Kind() Kind { return KindUnknown }

// Array groups items that belong together without being a call, such as
// the right-hand side of an assignment or the values of an IN list.
type Array struct {
	Base
	Items []Node
}

func (a *Array) Kind() Kind { return KindArray }

// WithItems returns a shallow copy of the array holding items.
func (a *Array) WithItems(items []Node) *Array {
	cp := *a
	cp.Items = items
	return &cp
}

// IsSingleItem reports whether n is a non-nil node other than an Array.
func IsSingleItem(n Node) bool {
	return n != nil && n.Kind() != KindArray
}

// Args returns the arguments of commands, options and functions, and the
// items of arrays. Other nodes have no arguments.
func Args(n Node) []Node {
	switch v := n.(type) {
	case *Command:
		return v.Args
	case *Option:
		return v.Args
	case *Function:
		return v.Args
	case *Array:
		return v.Items
	}
	return nil
}
