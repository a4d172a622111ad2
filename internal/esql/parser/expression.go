package parser

import (
	"strings"

	"github.com/oakwood-commons/esqlc/internal/esql/ast"
	"github.com/oakwood-commons/esqlc/internal/esql/token"
)

// Operator precedence levels
const (
	precLowest = iota
	precOr
	precAnd
	precNot
	precComparison
	precAdditive
	precMultiplicative
	precUnary
)

var timeUnits = map[string]bool{
	"millisecond": true, "milliseconds": true,
	"second": true, "seconds": true,
	"minute": true, "minutes": true,
	"hour": true, "hours": true,
	"day": true, "days": true,
	"week": true, "weeks": true,
	"month": true, "months": true,
	"quarter": true, "quarters": true,
	"year": true, "years": true,
}

// IsTimeUnit reports whether word names a time unit usable in intervals.
func IsTimeUnit(word string) bool {
	return timeUnits[strings.ToLower(word)]
}

func (p *Parser) infixPrecedence() int {
	switch p.cur().Token {
	case token.OR:
		return precOr
	case token.AND:
		return precAnd
	case token.EQ, token.NEQ, token.LT, token.LTE, token.GT, token.GTE,
		token.IN, token.LIKE, token.RLIKE, token.IS:
		return precComparison
	case token.NOT:
		switch p.peek(1).Token {
		case token.IN, token.LIKE, token.RLIKE:
			return precComparison
		}
	case token.PLUS, token.MINUS:
		return precAdditive
	case token.ASTERISK, token.SLASH, token.PERCENT:
		return precMultiplicative
	}
	return precLowest
}

// parseExpr parses an expression whose operators bind tighter than prec.
func (p *Parser) parseExpr(prec int) ast.Node {
	left := p.parsePrefix()
	if left == nil {
		return nil
	}
	for {
		next := p.infixPrecedence()
		if next <= prec {
			return left
		}
		left = p.parseInfix(left, next)
	}
}

func (p *Parser) parsePrefix() ast.Node {
	it := p.cur()
	switch it.Token {
	case token.NOT:
		p.next()
		operand := p.parseExpr(precNot)
		fn := p.function("not", it.Pos, operand)
		fn.Incomplete = operand == nil
		return fn
	case token.MINUS:
		p.next()
		operand := p.parseExpr(precUnary)
		if lit, ok := operand.(*ast.Literal); ok && (lit.LiteralType == ast.LiteralInteger || lit.LiteralType == ast.LiteralDecimal) {
			return p.literal(lit.LiteralType, "-"+lit.Value, it.Pos)
		}
		minusOne := &ast.Literal{LiteralType: ast.LiteralInteger, Value: "-1", Base: ast.Base{
			Name: "-1", Text: "-", Location: ast.Location{Min: it.Pos, Max: it.Pos},
		}}
		fn := p.function("*", it.Pos, minusOne, operand)
		fn.Incomplete = operand == nil
		return fn
	case token.PLUS:
		p.next()
		return p.parseExpr(precUnary)
	case token.LPAREN:
		p.next()
		inner := p.parseExpr(precLowest)
		if p.is(token.RPAREN) {
			p.next()
		} else if inner != nil {
			markIncomplete(inner)
		}
		return inner
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() ast.Node {
	it := p.cur()
	switch it.Token {
	case token.INTEGER:
		p.next()
		if unit := p.cur(); unit.Token == token.IDENT && IsTimeUnit(unit.Value) {
			p.next()
			ti := &ast.TimeInterval{Quantity: it.Value, Unit: strings.ToLower(unit.Value)}
			ti.Base = p.base("", it.Pos)
			ti.Name = ti.Text
			return ti
		}
		return p.literal(ast.LiteralInteger, it.Value, it.Pos)
	case token.DECIMAL:
		p.next()
		return p.literal(ast.LiteralDecimal, it.Value, it.Pos)
	case token.STRING:
		p.next()
		lit := p.literal(ast.LiteralString, it.Value, it.Pos)
		lit.Incomplete = it.Unterminated
		return lit
	case token.TRUE, token.FALSE:
		p.next()
		return p.literal(ast.LiteralBoolean, strings.ToLower(it.Value), it.Pos)
	case token.NULL:
		p.next()
		return p.literal(ast.LiteralNull, "null", it.Pos)
	case token.PARAM:
		p.next()
		return p.literal(ast.LiteralParam, it.Value, it.Pos)
	case token.LBRACKET:
		return p.parseList()
	case token.IDENT:
		if p.peek(1).Token == token.LPAREN {
			return p.parseCall()
		}
		return p.parseQualifiedName(false)
	case token.QUOTED_IDENT:
		return p.parseQualifiedName(false)
	}
	return nil
}

func (p *Parser) parseList() ast.Node {
	start := p.next().Pos
	list := &ast.List{}
	incomplete := false
	if p.is(token.RBRACKET) {
		p.next()
	} else {
		for {
			v := p.parsePrefix()
			if v == nil {
				incomplete = true
				break
			}
			list.Values = append(list.Values, v)
			if p.is(token.COMMA) {
				p.next()
				continue
			}
			if p.is(token.RBRACKET) {
				p.next()
			} else {
				incomplete = true
			}
			break
		}
	}
	list.Base = p.base("", start)
	list.Name = list.Text
	list.Incomplete = incomplete
	return list
}

// parseCall reads name(args...). count(*) yields a "*" column argument.
func (p *Parser) parseCall() ast.Node {
	nameItem := p.next()
	p.next() // (
	fn := &ast.Function{}
	incomplete := false
	if p.is(token.RPAREN) {
		p.next()
	} else {
		for {
			if p.is(token.ASTERISK) {
				star := p.next()
				fn.Args = append(fn.Args, &ast.Column{Base: ast.Base{
					Name: "*", Text: "*", Location: ast.Location{Min: star.Pos, Max: star.Pos},
				}})
			} else {
				arg := p.parseExpr(precLowest)
				if arg == nil {
					incomplete = true
					if p.is(token.RPAREN) {
						p.next()
					}
					break
				}
				fn.Args = append(fn.Args, arg)
			}
			if p.is(token.COMMA) {
				p.next()
				continue
			}
			if p.is(token.RPAREN) {
				p.next()
			} else {
				p.errorf(p.cur().Pos, "expected ) got %q", p.cur().Value)
				incomplete = true
			}
			break
		}
	}
	fn.Base = p.base(strings.ToLower(nameItem.Value), nameItem.Pos)
	fn.Incomplete = incomplete
	return fn
}

func (p *Parser) parseInfix(left ast.Node, prec int) ast.Node {
	start := left.Loc().Min
	op := p.next()
	switch op.Token {
	case token.IS:
		name := "is null"
		if p.is(token.NOT) {
			p.next()
			name = "is not null"
		}
		complete := p.is(token.NULL)
		if complete {
			p.next()
		}
		fn := p.function(name, start, left)
		fn.Incomplete = !complete
		return fn
	case token.NOT:
		negated := p.next()
		return p.parseMatch(left, start, "not_"+strings.ToLower(negated.Value), negated.Token)
	case token.IN, token.LIKE, token.RLIKE:
		return p.parseMatch(left, start, strings.ToLower(op.Value), op.Token)
	}
	name := op.Value
	if op.Token == token.AND || op.Token == token.OR {
		name = strings.ToLower(op.Value)
	}
	right := p.parseExpr(prec)
	fn := p.function(name, start, left, right)
	fn.Incomplete = right == nil
	return fn
}

// parseMatch handles the IN, LIKE and RLIKE operators once the operator
// keyword has been consumed.
func (p *Parser) parseMatch(left ast.Node, start int, name string, kind token.Token) ast.Node {
	if kind != token.IN {
		right := p.parseExpr(precComparison)
		fn := p.function(name, start, left, right)
		fn.Incomplete = right == nil
		return fn
	}
	if !p.is(token.LPAREN) {
		fn := p.function(name, start, left)
		fn.Incomplete = true
		return fn
	}
	open := p.next()
	values := &ast.Array{}
	incomplete := false
	if p.is(token.RPAREN) {
		p.next()
	} else {
		for {
			v := p.parseExpr(precLowest)
			if v == nil {
				incomplete = true
				if p.is(token.RPAREN) {
					p.next()
				}
				break
			}
			values.Items = append(values.Items, v)
			if p.is(token.COMMA) {
				p.next()
				continue
			}
			if p.is(token.RPAREN) {
				p.next()
			} else {
				incomplete = true
			}
			break
		}
	}
	values.Base = p.base("", open.Pos)
	fn := p.function(name, start, left, values)
	fn.Incomplete = incomplete
	return fn
}

func markIncomplete(n ast.Node) {
	if m, ok := n.(interface{ MarkIncomplete() }); ok {
		m.MarkIncomplete()
	}
}
