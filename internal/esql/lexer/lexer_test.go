package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/esqlc/internal/esql/token"
)

func tokensOf(items []Item) []token.Token {
	out := make([]token.Token, 0, len(items))
	for _, it := range items {
		out = append(out, it.Token)
	}
	return out
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token.Token
	}{
		{
			name:  "pipeline",
			input: "FROM logs | WHERE a >= 10",
			want:  []token.Token{token.IDENT, token.IDENT, token.PIPE, token.IDENT, token.IDENT, token.GTE, token.INTEGER},
		},
		{
			name:  "assignment and equality",
			input: "x = a == b != c",
			want:  []token.Token{token.IDENT, token.ASSIGN, token.IDENT, token.EQ, token.IDENT, token.NEQ, token.IDENT},
		},
		{
			name:  "keywords are case insensitive",
			input: "not In LIKE rlike is Null",
			want:  []token.Token{token.NOT, token.IN, token.LIKE, token.RLIKE, token.IS, token.NULL},
		},
		{
			name:  "numbers",
			input: "1 1.5 .5 2e10 3.",
			want:  []token.Token{token.INTEGER, token.DECIMAL, token.DECIMAL, token.DECIMAL, token.DECIMAL},
		},
		{
			name:  "integer followed by field access stays integer",
			input: "1.a",
			want:  []token.Token{token.INTEGER, token.DOT, token.IDENT},
		},
		{
			name:  "comments are skipped",
			input: "a // trailing\n/* block */ b",
			want:  []token.Token{token.IDENT, token.IDENT},
		},
		{
			name:  "params and punctuation",
			input: "?start, [1]:(*)",
			want: []token.Token{
				token.PARAM, token.COMMA, token.LBRACKET, token.INTEGER, token.RBRACKET,
				token.COLON, token.LPAREN, token.ASTERISK, token.RPAREN,
			},
		},
		{
			name:  "lone bang is illegal",
			input: "!",
			want:  []token.Token{token.ILLEGAL},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tokensOf(Tokenize(tt.input)))
		})
	}
}

func TestStrings(t *testing.T) {
	items := Tokenize(`"a\"b" """raw "x" """`)
	require.Len(t, items, 2)
	assert.Equal(t, `a"b`, items[0].Value)
	assert.False(t, items[0].Unterminated)
	assert.Equal(t, `raw "x" `, items[1].Value)
	assert.Equal(t, 0, items[0].Pos)
	assert.Equal(t, 6, items[0].End)
}

func TestUnterminated(t *testing.T) {
	items := Tokenize(`WHERE a == "open`)
	require.Len(t, items, 4)
	assert.Equal(t, token.STRING, items[3].Token)
	assert.True(t, items[3].Unterminated)
	assert.Equal(t, "open", items[3].Value)

	items = Tokenize("`my field")
	require.Len(t, items, 1)
	assert.True(t, items[0].Unterminated)
}

func TestBacktickIdentifier(t *testing.T) {
	items := Tokenize("`a``b` c")
	require.Len(t, items, 2)
	assert.Equal(t, token.QUOTED_IDENT, items[0].Token)
	assert.Equal(t, "a`b", items[0].Value)
	assert.Equal(t, 6, items[0].End)
}

func TestPositionsAreBytes(t *testing.T) {
	items := Tokenize("é b")
	require.Len(t, items, 2)
	assert.Equal(t, 0, items[0].Pos)
	assert.Equal(t, 2, items[0].End)
	assert.Equal(t, 3, items[1].Pos)
}
