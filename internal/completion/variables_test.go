package completion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/esqlc/internal/esql/definitions"
	"github.com/oakwood-commons/esqlc/internal/esql/parser"
)

func collect(t *testing.T, query string) Variables {
	t.Helper()
	commands := parser.Parse(query).Commands
	require.NotEmpty(t, commands)
	return CollectVariables(definitions.Default(), commands, testRefs().Fields, query)
}

func TestCollectVariables(t *testing.T) {
	vars := collect(t, "FROM a | EVAL x = bytes, round(bytes) | STATS total = sum(bytes) BY host | RENAME host AS server")

	x, ok := vars.Latest("x")
	require.True(t, ok)
	assert.Equal(t, definitions.TypeLong, x.Type)

	_, ok = vars.Latest("round(bytes)")
	assert.True(t, ok, "unnamed expressions are named after their text")

	total, ok := vars.Latest("total")
	require.True(t, ok)
	assert.Equal(t, definitions.TypeLong, total.Type, "first signature of sum")

	server, ok := vars.Latest("server")
	require.True(t, ok)
	assert.Equal(t, definitions.TypeKeyword, server.Type)
}

func TestCollectVariablesLatestDefinitionWins(t *testing.T) {
	vars := collect(t, `FROM a | EVAL x = 1 | EVAL x = "text"`)
	require.Len(t, vars["x"], 2)
	x, _ := vars.Latest("x")
	assert.Equal(t, definitions.TypeKeyword, x.Type)
}

func TestCollectVariablesIntervalsAndUnknownRenames(t *testing.T) {
	vars := collect(t, "FROM a | EVAL d = 1 day | RENAME nope AS other")

	d, ok := vars.Latest("d")
	require.True(t, ok)
	assert.Equal(t, definitions.TypeTimeInterval, d.Type)

	_, ok = vars.Latest("other")
	assert.False(t, ok, "renaming an unknown column defines nothing")
}

func TestExcludeVariablesFromCurrentCommand(t *testing.T) {
	query := "FROM a | EVAL x = 1 | EVAL y = 2"
	commands := parser.Parse(query).Commands
	require.Len(t, commands, 3)

	vars := ExcludeVariablesFromCurrentCommand(definitions.Default(), commands, commands[2], testRefs().Fields, query)
	assert.Contains(t, vars, "x")
	assert.NotContains(t, vars, "y")
}

func TestFindNewVariable(t *testing.T) {
	assert.Equal(t, "var0", FindNewVariable(Variables{}))
	assert.Equal(t, "var2", FindNewVariable(Variables{
		"var0": {{Name: "var0"}},
		"var1": {{Name: "var1"}},
	}))
	assert.Equal(t, "var1", FindNewVariable(Variables{"var0": {{Name: "var0"}}, "var2": {{Name: "var2"}}}))
}
