// Package parser implements a tolerant parser for ES|QL.
//
// The parser never fails: it returns every command it could make sense of
// together with the errors it recovered from. Nodes it had to cut short are
// flagged as incomplete, and tokens it did not expect are appended to the
// closest command or option as extra arguments so that callers still see
// them at the right position.
package parser

import (
	"context"
	"fmt"
	"strings"

	"github.com/oakwood-commons/esqlc/internal/esql/ast"
	"github.com/oakwood-commons/esqlc/internal/esql/lexer"
	"github.com/oakwood-commons/esqlc/internal/esql/token"
)

// Error describes a syntax error the parser recovered from.
type Error struct {
	Pos     int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Pos, e.Message)
}

// Result holds the parsed commands and the recovered errors.
type Result struct {
	Commands []*ast.Command
	Errors   []*Error
}

// Parser parses ES|QL queries.
type Parser struct {
	input   string
	items   []lexer.Item
	pos     int
	lastEnd int
	errors  []*Error
}

// New creates a new Parser for input.
func New(input string) *Parser {
	return &Parser{input: input, items: lexer.Tokenize(input)}
}

// Parse parses input into a list of commands.
func Parse(input string) *Result {
	return New(input).ParseQuery()
}

// Provider exposes Parse through the AST provider contract of the
// completion engine.
type Provider struct{}

// Parse implements the AST provider contract.
func (Provider) Parse(_ context.Context, text string) ([]*ast.Command, error) {
	return Parse(text).Commands, nil
}

// ParseQuery parses the whole input.
func (p *Parser) ParseQuery() *Result {
	var commands []*ast.Command
	for !p.is(token.EOF) {
		if p.is(token.PIPE) {
			p.next()
			continue
		}
		if cmd := p.parseCommand(); cmd != nil {
			commands = append(commands, cmd)
		}
		for !p.atStageEnd() {
			p.next()
		}
	}
	return &Result{Commands: commands, Errors: p.errors}
}

func (p *Parser) cur() lexer.Item {
	return p.peek(0)
}

func (p *Parser) peek(n int) lexer.Item {
	if p.pos+n < len(p.items) {
		return p.items[p.pos+n]
	}
	return lexer.Item{Token: token.EOF, Pos: len(p.input), End: len(p.input)}
}

func (p *Parser) next() lexer.Item {
	it := p.cur()
	if p.pos < len(p.items) {
		p.pos++
		p.lastEnd = it.End
	}
	return it
}

func (p *Parser) is(tok token.Token) bool {
	return p.cur().Token == tok
}

func (p *Parser) isAny(toks ...token.Token) bool {
	for _, tok := range toks {
		if p.is(tok) {
			return true
		}
	}
	return false
}

// adjacent reports whether the current token starts right where the
// previous one ended.
func (p *Parser) adjacent() bool {
	return p.pos > 0 && p.pos < len(p.items) && p.cur().Pos == p.lastEnd
}

func (p *Parser) atStageEnd() bool {
	return p.isAny(token.PIPE, token.EOF)
}

func (p *Parser) errorf(pos int, format string, args ...interface{}) {
	p.errors = append(p.errors, &Error{Pos: pos, Message: fmt.Sprintf(format, args...)})
}

// base builds the shared node fields for a node starting at start and
// ending with the last consumed token.
func (p *Parser) base(name string, start int) ast.Base {
	end := p.lastEnd
	if end < start {
		end = start
	}
	maxPos := end - 1
	if maxPos < start {
		maxPos = start
	}
	return ast.Base{
		Name:     name,
		Text:     p.input[start:end],
		Location: ast.Location{Min: start, Max: maxPos},
	}
}

type state struct {
	pos, lastEnd, errors int
}

func (p *Parser) save() state {
	return state{pos: p.pos, lastEnd: p.lastEnd, errors: len(p.errors)}
}

func (p *Parser) restore(s state) {
	p.pos = s.pos
	p.lastEnd = s.lastEnd
	p.errors = p.errors[:s.errors]
}

func (p *Parser) parseCommand() *ast.Command {
	it := p.cur()
	if it.Token != token.IDENT {
		p.errorf(it.Pos, "expected a command, got %q", it.Value)
		return nil
	}
	name := strings.ToLower(it.Value)
	cmd := &ast.Command{}
	switch name {
	case "from":
		p.next()
		p.parseFrom(cmd)
	case "row", "eval":
		p.next()
		p.parseFieldList(&cmd.Args)
	case "stats":
		p.next()
		p.parseStats(cmd)
	case "where":
		p.next()
		if e := p.parseExpr(precLowest); e != nil {
			cmd.Args = append(cmd.Args, e)
		}
	case "sort":
		p.next()
		p.parseSort(cmd)
	case "limit":
		p.next()
		if p.is(token.INTEGER) {
			cmd.Args = append(cmd.Args, p.parseExpr(precLowest))
		}
	case "keep", "drop":
		p.next()
		p.parsePatternList(&cmd.Args)
	case "rename":
		p.next()
		p.parseRename(cmd)
	case "dissect", "grok":
		p.next()
		p.parseDissect(cmd)
	case "enrich":
		p.next()
		p.parseEnrich(cmd)
	case "mv_expand":
		p.next()
		if col := p.parseQualifiedName(false); col != nil {
			cmd.Args = append(cmd.Args, col)
		}
	case "show", "meta":
		p.next()
		if p.is(token.IDENT) {
			start := p.cur().Pos
			fnName := strings.ToLower(p.next().Value)
			cmd.Args = append(cmd.Args, &ast.Function{Base: p.base(fnName, start)})
		}
	default:
		p.errorf(it.Pos, "unknown command %q", it.Value)
		return nil
	}
	p.parseStray(cmd)
	cmd.Base = p.base(name, it.Pos)
	return cmd
}

// parseStray consumes whatever is left of the stage, attaching parsable
// pieces to the trailing option if there is one, or to the command.
func (p *Parser) parseStray(cmd *ast.Command) {
	for !p.atStageEnd() {
		it := p.cur()
		p.errorf(it.Pos, "unexpected %q", it.Value)
		n := p.parseExpr(precLowest)
		if n == nil {
			p.next()
			continue
		}
		if len(cmd.Args) > 0 {
			if opt, ok := cmd.Args[len(cmd.Args)-1].(*ast.Option); ok {
				opt.Args = append(opt.Args, n)
				opt.Base = p.base(opt.Name, opt.Location.Min)
				continue
			}
		}
		cmd.Args = append(cmd.Args, n)
	}
}

func (p *Parser) parseFrom(cmd *ast.Command) {
	for {
		src := p.parseSource(ast.SourceIndex)
		if src == nil {
			break
		}
		cmd.Args = append(cmd.Args, src)
		if !p.is(token.COMMA) {
			break
		}
		p.next()
	}
	if p.is(token.METADATA) {
		start := p.next().Pos
		opt := &ast.Option{}
		p.parsePatternList(&opt.Args)
		opt.Base = p.base("metadata", start)
		cmd.Args = append(cmd.Args, opt)
	}
}

// parseSource reads a quoted source or an unquoted index pattern. Unquoted
// patterns are made of every token glued to the previous one, so that
// "logs-*", "remote:index" and "a.b" come out whole.
func (p *Parser) parseSource(kind ast.SourceType) *ast.Source {
	it := p.cur()
	if it.Token == token.STRING {
		p.next()
		src := &ast.Source{SourceType: kind}
		src.Base = p.base(it.Value, it.Pos)
		src.Incomplete = it.Unterminated
		return src
	}
	switch it.Token {
	case token.EOF, token.PIPE, token.COMMA, token.LPAREN, token.RPAREN, token.ASSIGN:
		return nil
	}
	if it.Token.IsKeyword() && it.Token != token.FIRST && it.Token != token.LAST {
		return nil
	}
	p.next()
	for p.adjacent() && !p.isAny(token.COMMA, token.PIPE, token.EOF, token.LPAREN, token.RPAREN) {
		p.next()
	}
	src := &ast.Source{SourceType: kind}
	src.Base = p.base("", it.Pos)
	src.Name = src.Text
	return src
}

func (p *Parser) parseStats(cmd *ast.Command) {
	p.parseFieldList(&cmd.Args, token.BY)
	if p.is(token.BY) {
		start := p.next().Pos
		opt := &ast.Option{}
		p.parseFieldList(&opt.Args)
		opt.Base = p.base("by", start)
		cmd.Args = append(cmd.Args, opt)
	}
}

func (p *Parser) parseSort(cmd *ast.Command) {
	for !p.atStageEnd() {
		e := p.parseExpr(precLowest)
		if e == nil {
			return
		}
		cmd.Args = append(cmd.Args, e)
		if p.isAny(token.ASC, token.DESC) {
			start := p.cur().Pos
			value := strings.ToLower(p.next().Value)
			cmd.Args = append(cmd.Args, p.literal(ast.LiteralString, value, start))
		}
		if p.is(token.NULLS) {
			start := p.next().Pos
			value := "nulls"
			incomplete := true
			if p.isAny(token.FIRST, token.LAST) {
				value += " " + strings.ToLower(p.next().Value)
				incomplete = false
			}
			lit := p.literal(ast.LiteralString, value, start)
			lit.Incomplete = incomplete
			cmd.Args = append(cmd.Args, lit)
		}
		if !p.is(token.COMMA) {
			return
		}
		p.next()
	}
}

func (p *Parser) parseRename(cmd *ast.Command) {
	for !p.atStageEnd() {
		oldName := p.parseQualifiedName(true)
		if oldName == nil {
			return
		}
		if p.is(token.AS) {
			p.next()
			opt := &ast.Option{Args: []ast.Node{oldName}}
			newName := p.parseQualifiedName(true)
			if newName != nil {
				opt.Args = append(opt.Args, newName)
			}
			opt.Base = p.base("as", oldName.Location.Min)
			opt.Incomplete = newName == nil
			cmd.Args = append(cmd.Args, opt)
		} else {
			cmd.Args = append(cmd.Args, oldName)
		}
		if !p.is(token.COMMA) {
			return
		}
		p.next()
	}
}

func (p *Parser) parseDissect(cmd *ast.Command) {
	col := p.parseExpr(precUnary)
	if col == nil {
		return
	}
	cmd.Args = append(cmd.Args, col)
	if !p.is(token.STRING) {
		return
	}
	cmd.Args = append(cmd.Args, p.parsePrimary())
	for p.is(token.IDENT) {
		start := p.cur().Pos
		name := strings.ToLower(p.next().Value)
		opt := &ast.Option{}
		if p.is(token.ASSIGN) {
			p.next()
			if v := p.parseExpr(precUnary); v != nil {
				opt.Args = append(opt.Args, v)
			}
		}
		opt.Base = p.base(name, start)
		opt.Incomplete = len(opt.Args) == 0
		cmd.Args = append(cmd.Args, opt)
	}
}

func (p *Parser) parseEnrich(cmd *ast.Command) {
	src := p.parseSource(ast.SourcePolicy)
	if src == nil {
		return
	}
	if strings.HasPrefix(src.Text, "_") {
		if i := strings.Index(src.Text, ":"); i > 0 {
			mode := &ast.Setting{Base: ast.Base{
				Name:     src.Text[:i],
				Text:     src.Text[:i+1],
				Location: ast.Location{Min: src.Location.Min, Max: src.Location.Min + i},
			}}
			cmd.Args = append(cmd.Args, mode)
			policy := &ast.Source{SourceType: ast.SourcePolicy, Base: ast.Base{
				Name:     src.Text[i+1:],
				Text:     src.Text[i+1:],
				Location: ast.Location{Min: src.Location.Min + i + 1, Max: src.Location.Max},
			}}
			if policy.Location.Max < policy.Location.Min {
				policy.Location.Max = policy.Location.Min
				policy.Incomplete = true
			}
			src = policy
		}
	}
	cmd.Args = append(cmd.Args, src)

	if p.is(token.ON) {
		start := p.next().Pos
		opt := &ast.Option{}
		if col := p.parseQualifiedName(false); col != nil {
			opt.Args = append(opt.Args, col)
		}
		opt.Base = p.base("on", start)
		cmd.Args = append(cmd.Args, opt)
	}
	if p.is(token.WITH) {
		start := p.next().Pos
		opt := &ast.Option{}
		p.parseEnrichWith(&opt.Args)
		opt.Base = p.base("with", start)
		cmd.Args = append(cmd.Args, opt)
	}
}

// parseEnrichWith reads "new = field" clauses. A bare "field" is recorded as
// the passthrough assignment "field = field".
func (p *Parser) parseEnrichWith(args *[]ast.Node) {
	for !p.atStageEnd() {
		target := p.parseQualifiedName(false)
		if target == nil {
			return
		}
		value := &ast.Array{}
		incomplete := false
		if p.is(token.ASSIGN) {
			assign := p.next()
			if field := p.parseQualifiedName(false); field != nil {
				value.Items = []ast.Node{field}
				value.Base = p.base("", field.Location.Min)
			} else {
				value.Base = ast.Base{Location: ast.Location{Min: assign.End, Max: assign.End}}
				incomplete = true
			}
		} else {
			value.Items = []ast.Node{target}
			value.Base = ast.Base{Text: target.Text, Location: target.Location}
		}
		fn := &ast.Function{Args: []ast.Node{target, value}}
		fn.Base = p.base("=", target.Location.Min)
		fn.Incomplete = incomplete
		*args = append(*args, fn)
		if !p.is(token.COMMA) {
			return
		}
		p.next()
	}
}

// parseFieldList reads comma separated fields until the end of the stage
// or one of the until tokens.
func (p *Parser) parseFieldList(args *[]ast.Node, until ...token.Token) {
	for !p.atStageEnd() && !p.isAny(until...) {
		f := p.parseField()
		if f == nil {
			return
		}
		*args = append(*args, f)
		if !p.is(token.COMMA) {
			return
		}
		p.next()
	}
}

// parseField reads "name = expression" or a bare expression.
func (p *Parser) parseField() ast.Node {
	if !p.assignmentAhead() {
		return p.parseExpr(precLowest)
	}
	target := p.parseQualifiedName(false)
	assign := p.next()
	value := &ast.Array{}
	rhs := p.parseExpr(precLowest)
	if rhs != nil {
		value.Items = []ast.Node{rhs}
		value.Base = p.base("", rhs.Loc().Min)
	} else {
		value.Base = ast.Base{Location: ast.Location{Min: assign.End, Max: assign.End}}
	}
	fn := &ast.Function{Args: []ast.Node{target, value}}
	fn.Base = p.base("=", target.Location.Min)
	fn.Incomplete = rhs == nil
	return fn
}

func (p *Parser) assignmentAhead() bool {
	if !p.isAny(token.IDENT, token.QUOTED_IDENT) {
		return false
	}
	s := p.save()
	defer p.restore(s)
	if p.parseQualifiedName(false) == nil {
		return false
	}
	return p.is(token.ASSIGN)
}

func (p *Parser) parsePatternList(args *[]ast.Node) {
	for !p.atStageEnd() {
		col := p.parseQualifiedName(true)
		if col == nil {
			return
		}
		*args = append(*args, col)
		if !p.is(token.COMMA) {
			return
		}
		p.next()
	}
}

// parseQualifiedName reads a dotted column name. With wildcards set, "*"
// may appear anywhere in the name.
func (p *Parser) parseQualifiedName(wildcards bool) *ast.Column {
	part := func() bool {
		switch p.cur().Token {
		case token.IDENT, token.QUOTED_IDENT:
			return true
		case token.ASTERISK:
			return wildcards
		}
		return false
	}
	if !part() {
		return nil
	}
	start := p.cur().Pos
	var name strings.Builder
	quoted := false
	for {
		it := p.next()
		if it.Token == token.QUOTED_IDENT {
			quoted = true
		}
		name.WriteString(it.Value)
		if !p.adjacent() {
			break
		}
		if p.is(token.DOT) {
			if next := p.peek(1); next.Pos == p.cur().End && (next.Token == token.IDENT || next.Token == token.QUOTED_IDENT || next.Token == token.INTEGER || (next.Token == token.ASTERISK && wildcards)) {
				name.WriteString(p.next().Value)
				continue
			}
			break
		}
		if !part() && !p.is(token.INTEGER) {
			break
		}
	}
	col := &ast.Column{Quoted: quoted}
	col.Base = p.base(name.String(), start)
	return col
}

func (p *Parser) literal(kind ast.LiteralType, value string, start int) *ast.Literal {
	lit := &ast.Literal{LiteralType: kind, Value: value}
	lit.Base = p.base("", start)
	lit.Name = lit.Text
	return lit
}

func (p *Parser) function(name string, start int, args ...ast.Node) *ast.Function {
	fn := &ast.Function{}
	for _, a := range args {
		if a != nil {
			fn.Args = append(fn.Args, a)
		}
	}
	fn.Base = p.base(name, start)
	return fn
}
