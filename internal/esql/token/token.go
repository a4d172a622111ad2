// Package token defines the lexical tokens of ES|QL.
package token

import "strings"

// Token represents a lexical token.
type Token int

const (
	// Special tokens
	ILLEGAL Token = iota
	EOF

	// Literals
	IDENT        // identifiers
	QUOTED_IDENT // `backtick quoted` identifiers
	INTEGER      // 42
	DECIMAL      // 4.2, 1e10
	STRING       // "text" or """text"""
	PARAM        // ?name or ?

	// Operators
	PLUS     // +
	MINUS    // -
	ASTERISK // *
	SLASH    // /
	PERCENT  // %
	ASSIGN   // =
	EQ       // ==
	NEQ      // !=
	LT       // <
	GT       // >
	LTE      // <=
	GTE      // >=

	// Delimiters
	PIPE     // |
	LPAREN   // (
	RPAREN   // )
	LBRACKET // [
	RBRACKET // ]
	COMMA    // ,
	DOT      // .
	COLON    // :

	// Keywords
	keyword_beg
	AND
	AS
	ASC
	BY
	DESC
	FALSE
	FIRST
	IN
	IS
	LAST
	LIKE
	METADATA
	NOT
	NULL
	NULLS
	ON
	OR
	RLIKE
	TRUE
	WITH
	keyword_end
)

var tokens = [...]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",

	IDENT:        "IDENT",
	QUOTED_IDENT: "QUOTED_IDENT",
	INTEGER:      "INTEGER",
	DECIMAL:      "DECIMAL",
	STRING:       "STRING",
	PARAM:        "PARAM",

	PLUS:     "+",
	MINUS:    "-",
	ASTERISK: "*",
	SLASH:    "/",
	PERCENT:  "%",
	ASSIGN:   "=",
	EQ:       "==",
	NEQ:      "!=",
	LT:       "<",
	GT:       ">",
	LTE:      "<=",
	GTE:      ">=",

	PIPE:     "|",
	LPAREN:   "(",
	RPAREN:   ")",
	LBRACKET: "[",
	RBRACKET: "]",
	COMMA:    ",",
	DOT:      ".",
	COLON:    ":",

	AND:      "AND",
	AS:       "AS",
	ASC:      "ASC",
	BY:       "BY",
	DESC:     "DESC",
	FALSE:    "FALSE",
	FIRST:    "FIRST",
	IN:       "IN",
	IS:       "IS",
	LAST:     "LAST",
	LIKE:     "LIKE",
	METADATA: "METADATA",
	NOT:      "NOT",
	NULL:     "NULL",
	NULLS:    "NULLS",
	ON:       "ON",
	OR:       "OR",
	RLIKE:    "RLIKE",
	TRUE:     "TRUE",
	WITH:     "WITH",
}

func (tok Token) String() string {
	if tok >= 0 && int(tok) < len(tokens) {
		return tokens[tok]
	}
	return ""
}

// Keywords maps upper-case keyword strings to their token types.
var Keywords map[string]Token

func init() {
	Keywords = make(map[string]Token)
	for i := keyword_beg + 1; i < keyword_end; i++ {
		Keywords[tokens[i]] = i
	}
}

// Lookup returns the token type for an identifier string. ES|QL keywords
// are case-insensitive.
func Lookup(ident string) Token {
	if tok, ok := Keywords[strings.ToUpper(ident)]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword returns true if the token is a keyword.
func (tok Token) IsKeyword() bool {
	return tok > keyword_beg && tok < keyword_end
}

// IsComparison reports whether the token is a binary comparison operator.
func (tok Token) IsComparison() bool {
	switch tok {
	case EQ, NEQ, LT, GT, LTE, GTE:
		return true
	}
	return false
}
