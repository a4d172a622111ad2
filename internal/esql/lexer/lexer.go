// Package lexer implements a lexer for ES|QL.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/oakwood-commons/esqlc/internal/esql/token"
)

// Lexer tokenizes ES|QL input. Positions are byte offsets into the input.
type Lexer struct {
	input string
	pos   int  // offset of ch
	next  int  // offset after ch
	ch    rune // current character, 0 at end of input
}

// Item represents a lexical token with its value and position.
type Item struct {
	Token token.Token
	Value string
	Pos   int // offset of the first byte
	End   int // offset after the last byte
	// Unterminated is set for strings and quoted identifiers that run to
	// the end of the input without a closing quote.
	Unterminated bool
}

// New creates a new Lexer over input.
func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	l.pos = l.next
	if l.next >= len(l.input) {
		l.ch = 0
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.next:])
	l.ch = r
	l.next += size
}

func (l *Lexer) peekChar() rune {
	if l.next >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.next:])
	return r
}

func (l *Lexer) eof() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) skipWhitespaceAndComments() {
	for !l.eof() {
		switch {
		case unicode.IsSpace(l.ch):
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for !l.eof() && l.ch != '\n' {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			l.readChar()
			l.readChar()
			for !l.eof() && !(l.ch == '*' && l.peekChar() == '/') {
				l.readChar()
			}
			if !l.eof() {
				l.readChar()
				l.readChar()
			}
		default:
			return
		}
	}
}

func (l *Lexer) item(tok token.Token, start int) Item {
	return Item{Token: tok, Value: l.input[start:l.pos], Pos: start, End: l.pos}
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() Item {
	l.skipWhitespaceAndComments()

	start := l.pos
	if l.eof() {
		return Item{Token: token.EOF, Pos: start, End: start}
	}

	switch l.ch {
	case '+':
		l.readChar()
		return l.item(token.PLUS, start)
	case '-':
		l.readChar()
		return l.item(token.MINUS, start)
	case '*':
		l.readChar()
		return l.item(token.ASTERISK, start)
	case '/':
		l.readChar()
		return l.item(token.SLASH, start)
	case '%':
		l.readChar()
		return l.item(token.PERCENT, start)
	case '=':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return l.item(token.EQ, start)
		}
		return l.item(token.ASSIGN, start)
	case '!':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return l.item(token.NEQ, start)
		}
		return l.item(token.ILLEGAL, start)
	case '<':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return l.item(token.LTE, start)
		}
		return l.item(token.LT, start)
	case '>':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return l.item(token.GTE, start)
		}
		return l.item(token.GT, start)
	case '|':
		l.readChar()
		return l.item(token.PIPE, start)
	case '(':
		l.readChar()
		return l.item(token.LPAREN, start)
	case ')':
		l.readChar()
		return l.item(token.RPAREN, start)
	case '[':
		l.readChar()
		return l.item(token.LBRACKET, start)
	case ']':
		l.readChar()
		return l.item(token.RBRACKET, start)
	case ',':
		l.readChar()
		return l.item(token.COMMA, start)
	case ':':
		l.readChar()
		return l.item(token.COLON, start)
	case '.':
		if isDigit(l.peekChar()) {
			return l.readNumber()
		}
		l.readChar()
		return l.item(token.DOT, start)
	case '"':
		return l.readString()
	case '`':
		return l.readBacktickIdentifier()
	case '?':
		return l.readParameter()
	}

	if isDigit(l.ch) {
		return l.readNumber()
	}
	if isIdentStart(l.ch) {
		return l.readIdentifier()
	}
	l.readChar()
	return l.item(token.ILLEGAL, start)
}

// readString reads "text" and """text""" literals. Value holds the
// unquoted content.
func (l *Lexer) readString() Item {
	start := l.pos
	if strings.HasPrefix(l.input[start:], `"""`) {
		l.readChar()
		l.readChar()
		l.readChar()
		contentStart := l.pos
		for !l.eof() {
			if strings.HasPrefix(l.input[l.pos:], `"""`) {
				value := l.input[contentStart:l.pos]
				l.readChar()
				l.readChar()
				l.readChar()
				return Item{Token: token.STRING, Value: value, Pos: start, End: l.pos}
			}
			l.readChar()
		}
		return Item{Token: token.STRING, Value: l.input[contentStart:], Pos: start, End: l.pos, Unterminated: true}
	}

	var sb strings.Builder
	l.readChar() // skip opening quote
	for !l.eof() {
		switch l.ch {
		case '"':
			l.readChar()
			return Item{Token: token.STRING, Value: sb.String(), Pos: start, End: l.pos}
		case '\\':
			l.readChar()
			if l.eof() {
				continue
			}
			switch l.ch {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case 'r':
				sb.WriteRune('\r')
			default:
				sb.WriteRune(l.ch)
			}
			l.readChar()
		default:
			sb.WriteRune(l.ch)
			l.readChar()
		}
	}
	return Item{Token: token.STRING, Value: sb.String(), Pos: start, End: l.pos, Unterminated: true}
}

// readBacktickIdentifier reads `name`; doubled backticks escape a backtick.
func (l *Lexer) readBacktickIdentifier() Item {
	start := l.pos
	var sb strings.Builder
	l.readChar() // skip opening backtick
	for !l.eof() {
		if l.ch == '`' {
			if l.peekChar() == '`' {
				sb.WriteRune('`')
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar()
			return Item{Token: token.QUOTED_IDENT, Value: sb.String(), Pos: start, End: l.pos}
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
	return Item{Token: token.QUOTED_IDENT, Value: sb.String(), Pos: start, End: l.pos, Unterminated: true}
}

func (l *Lexer) readNumber() Item {
	start := l.pos
	tok := token.INTEGER
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && (isDigit(l.peekChar()) || (start != l.pos && !isIdentStart(l.peekChar()))) {
		tok = token.DECIMAL
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		p := l.peekChar()
		if isDigit(p) || p == '+' || p == '-' {
			tok = token.DECIMAL
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}
	return l.item(tok, start)
}

func (l *Lexer) readIdentifier() Item {
	start := l.pos
	for isIdentChar(l.ch) {
		l.readChar()
	}
	it := l.item(token.IDENT, start)
	it.Token = token.Lookup(it.Value)
	return it
}

// readParameter reads ?, ?name and ?1 placeholders.
func (l *Lexer) readParameter() Item {
	start := l.pos
	l.readChar() // skip ?
	for isIdentChar(l.ch) {
		l.readChar()
	}
	return l.item(token.PARAM, start)
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch rune) bool {
	return ch == '_' || ch == '@' || unicode.IsLetter(ch)
}

func isIdentChar(ch rune) bool {
	return isIdentStart(ch) || isDigit(ch)
}

// Tokenize returns all tokens of input, excluding the trailing EOF.
func Tokenize(input string) []Item {
	l := New(input)
	var items []Item
	for {
		it := l.NextToken()
		if it.Token == token.EOF {
			return items
		}
		items = append(items, it)
	}
}
