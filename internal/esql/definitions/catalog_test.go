package definitions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogLoads(t *testing.T) {
	c := Default()
	require.NotNil(t, c)

	for _, name := range []string{"from", "row", "show", "meta"} {
		assert.True(t, c.IsSourceCommand(name), name)
	}
	for _, name := range []string{"stats", "eval", "where", "enrich", "dissect"} {
		assert.False(t, c.IsSourceCommand(name), name)
	}

	round, ok := c.Function("ROUND")
	require.True(t, ok)
	assert.Equal(t, FunctionEval, round.Type)
	assert.Len(t, round.Signatures, 4)

	alias, ok := c.Function("to_int")
	require.True(t, ok)
	assert.Equal(t, "to_integer", alias.Name)

	assert.True(t, c.IsBuiltin("=="))
	assert.True(t, c.IsBuiltin("is not null"))
	assert.True(t, c.IsAggregation("avg"))
	assert.False(t, c.IsAggregation("round"))
}

func TestExpandSignatures(t *testing.T) {
	c := Default()

	abs, _ := c.Function("abs")
	require.Len(t, abs.Signatures, 4)
	for _, sig := range abs.Signatures {
		assert.Equal(t, sig.Params[0].Type, sig.ReturnType)
	}

	greatest, _ := c.Function("greatest")
	for _, sig := range greatest.Signatures {
		assert.Equal(t, sig.Params[0].Type, sig.Params[1].Type, "linked params vary together")
	}

	pow, _ := c.Function("pow")
	assert.Len(t, pow.Signatures, 16)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{
			name: "unknown command",
			yaml: `
functions:
  - name: f
    type: eval
    supportedCommands: [nope]
    signatures: [{params: [], returnType: double}]
`,
			want: ErrUnknownCommand,
		},
		{
			name: "unknown option",
			yaml: `
functions:
  - name: f
    type: eval
    supportedCommands: [eval]
    supportedOptions: [nope]
    signatures: [{params: [], returnType: double}]
`,
			want: ErrUnknownCommand,
		},
		{
			name: "invalid param type",
			yaml: `
functions:
  - name: f
    type: eval
    supportedCommands: [eval]
    signatures: [{params: [{name: a, type: number}], returnType: double}]
`,
			want: ErrInvalidParamType,
		},
		{
			name: "duplicate of a builtin",
			yaml: `
functions:
  - name: and
    type: eval
    supportedCommands: [eval]
    signatures: [{params: [], returnType: double}]
`,
			want: ErrDuplicateFunction,
		},
		{
			name: "duplicate alias",
			yaml: `
functions:
  - name: f
    alias: [g]
    type: eval
    supportedCommands: [eval]
    signatures: [{params: [], returnType: double}]
  - name: g
    type: eval
    supportedCommands: [eval]
    signatures: [{params: [], returnType: double}]
`,
			want: ErrDuplicateFunction,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadRejectsUnknownReturnReference(t *testing.T) {
	_, err := Load([]byte(`
functions:
  - name: f
    type: eval
    supportedCommands: [eval]
    signatures: [{params: [{name: a, type: double}], returnType: "@b"}]
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown parameter "b"`)
}

func TestCompatibleTypes(t *testing.T) {
	tests := []struct {
		actual, expected Type
		want             bool
	}{
		{TypeDouble, TypeDouble, true},
		{TypeKeyword, TypeAny, true},
		{TypeDecimal, TypeDouble, true},
		{TypeDecimal, TypeInteger, false},
		{TypeInteger, TypeLong, true},
		{TypeLong, TypeInteger, false},
		{TypeText, TypeKeyword, true},
		{TypeTimeInterval, TypeTimeLiteral, true},
		{TypeNull, TypeIP, true},
		{TypeBoolean, TypeKeyword, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.actual)+"->"+string(tt.expected), func(t *testing.T) {
			assert.Equal(t, tt.want, CompatibleTypes(tt.actual, tt.expected))
		})
	}
}

func TestArrayTypes(t *testing.T) {
	assert.True(t, Type("keyword[]").IsArray())
	assert.Equal(t, TypeKeyword, Type("keyword[]").Elem())
	assert.True(t, ArrayOf(TypeIP).IsValid())
	assert.False(t, Type("nope[]").IsValid())
}

func TestDeclaration(t *testing.T) {
	c := Default()
	round, _ := c.Function("round")
	assert.Equal(t, "round(number: double, decimals:? integer): double", Declaration(round.Name, round.Signatures[0]))

	concat, _ := c.Function("concat")
	assert.Equal(t,
		"concat(string1: keyword, string2: keyword, [... string2: keyword]): keyword",
		Declaration(concat.Name, concat.Signatures[0]))

	doc := round.Documentation()
	assert.Contains(t, doc, "round(number: double")
	assert.Contains(t, doc, "**Examples:**")
}

func TestCommandOptions(t *testing.T) {
	c := Default()
	enrich, ok := c.Command("ENRICH")
	require.True(t, ok)
	on, ok := enrich.Option("on")
	require.True(t, ok)
	assert.True(t, on.Optional)
	require.Len(t, enrich.Modes, 1)
	assert.Equal(t, "_", enrich.Modes[0].Prefix)

	dissect, _ := c.Command("dissect")
	sep, ok := dissect.Option("APPEND_SEPARATOR")
	require.True(t, ok)
	assert.True(t, sep.AssignType)
}
