package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/esqlc/internal/esql/ast"
)

func parseOne(t *testing.T, query string) *ast.Command {
	t.Helper()
	res := Parse(query)
	require.Len(t, res.Commands, 1, "errors: %v", res.Errors)
	return res.Commands[0]
}

func TestParsePipeline(t *testing.T) {
	res := Parse("FROM logs-*, metrics | WHERE a > 1 | KEEP a, b.c | LIMIT 10")
	require.Len(t, res.Commands, 4)
	assert.Empty(t, res.Errors)

	names := make([]string, 0, len(res.Commands))
	for _, c := range res.Commands {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"from", "where", "keep", "limit"}, names)

	from := res.Commands[0]
	require.Len(t, from.Args, 2)
	assert.Equal(t, "logs-*", from.Args[0].NodeName())
	assert.Equal(t, ast.KindSource, from.Args[0].Kind())
	assert.Equal(t, ast.Location{Min: 0, Max: 19}, from.Location)

	keep := res.Commands[2]
	require.Len(t, keep.Args, 2)
	assert.Equal(t, "b.c", keep.Args[1].NodeName())
}

func TestParseFromMetadata(t *testing.T) {
	cmd := parseOne(t, "FROM a METADATA _id, _index")
	require.Len(t, cmd.Args, 2)
	opt, ok := cmd.Args[1].(*ast.Option)
	require.True(t, ok)
	assert.Equal(t, "metadata", opt.Name)
	require.Len(t, opt.Args, 2)
	assert.Equal(t, "_index", opt.Args[1].NodeName())
}

func TestParseExpressionPrecedence(t *testing.T) {
	cmd := parseOne(t, "WHERE a + 2 * b > 3 AND NOT c")
	require.Len(t, cmd.Args, 1)
	and, ok := cmd.Args[0].(*ast.Function)
	require.True(t, ok)
	assert.Equal(t, "and", and.Name)
	require.Len(t, and.Args, 2)

	gt := and.Args[0].(*ast.Function)
	assert.Equal(t, ">", gt.Name)
	plus := gt.Args[0].(*ast.Function)
	assert.Equal(t, "+", plus.Name)
	assert.Equal(t, "*", plus.Args[1].NodeName())

	not := and.Args[1].(*ast.Function)
	assert.Equal(t, "not", not.Name)
	assert.Equal(t, "c", not.Args[0].NodeName())
}

func TestParseAssignments(t *testing.T) {
	cmd := parseOne(t, "EVAL x = round(a, 2), y =")
	require.Len(t, cmd.Args, 2)

	x := cmd.Args[0].(*ast.Function)
	assert.Equal(t, "=", x.Name)
	assert.False(t, x.Incomplete)
	rhs := x.Args[1].(*ast.Array)
	require.Len(t, rhs.Items, 1)
	round := rhs.Items[0].(*ast.Function)
	assert.Equal(t, "round", round.Name)
	assert.Len(t, round.Args, 2)

	y := cmd.Args[1].(*ast.Function)
	assert.True(t, y.Incomplete)
	assert.Empty(t, y.Args[1].(*ast.Array).Items)
}

func TestParseIncompleteCall(t *testing.T) {
	cmd := parseOne(t, "EVAL round(a, ")
	require.Len(t, cmd.Args, 1)
	fn := cmd.Args[0].(*ast.Function)
	assert.True(t, fn.Incomplete)
	assert.Len(t, fn.Args, 1)
}

func TestParseCountStar(t *testing.T) {
	cmd := parseOne(t, "STATS count(*) BY host")
	require.Len(t, cmd.Args, 2)
	count := cmd.Args[0].(*ast.Function)
	require.Len(t, count.Args, 1)
	assert.Equal(t, "*", count.Args[0].NodeName())
	by := cmd.Args[1].(*ast.Option)
	assert.Equal(t, "by", by.Name)
	assert.Equal(t, "host", by.Args[0].NodeName())
}

func TestParseInList(t *testing.T) {
	cmd := parseOne(t, "WHERE a NOT IN (1, 2)")
	fn := cmd.Args[0].(*ast.Function)
	assert.Equal(t, "not_in", fn.Name)
	require.Len(t, fn.Args, 2)
	list, ok := fn.Args[1].(*ast.Array)
	require.True(t, ok)
	assert.Len(t, list.Items, 2)
}

func TestParseOperatorsByKeyword(t *testing.T) {
	tests := []struct {
		query string
		name  string
	}{
		{"WHERE a LIKE \"x*\"", "like"},
		{"WHERE a NOT RLIKE \"x.*\"", "not_rlike"},
		{"WHERE a IS NULL", "is null"},
		{"WHERE a IS NOT NULL", "is not null"},
		{"WHERE a == 1 OR b != 2", "or"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			cmd := parseOne(t, tt.query)
			require.Len(t, cmd.Args, 1)
			assert.Equal(t, tt.name, cmd.Args[0].NodeName())
			assert.False(t, cmd.Args[0].IsIncomplete())
		})
	}
}

func TestParseLiterals(t *testing.T) {
	cmd := parseOne(t, "ROW a = -1, b = 1.5, c = \"s\", d = true, e = null, f = ?p, g = [1, 2], h = 2 days")
	require.Len(t, cmd.Args, 8)
	rhs := func(i int) ast.Node {
		return cmd.Args[i].(*ast.Function).Args[1].(*ast.Array).Items[0]
	}
	assert.Equal(t, "-1", rhs(0).(*ast.Literal).Value)
	assert.Equal(t, ast.LiteralDecimal, rhs(1).(*ast.Literal).LiteralType)
	assert.Equal(t, ast.LiteralString, rhs(2).(*ast.Literal).LiteralType)
	assert.Equal(t, ast.LiteralBoolean, rhs(3).(*ast.Literal).LiteralType)
	assert.Equal(t, ast.LiteralNull, rhs(4).(*ast.Literal).LiteralType)
	assert.Equal(t, ast.LiteralParam, rhs(5).(*ast.Literal).LiteralType)
	assert.Len(t, rhs(6).(*ast.List).Values, 2)
	ti := rhs(7).(*ast.TimeInterval)
	assert.Equal(t, "2", ti.Quantity)
	assert.Equal(t, "days", ti.Unit)
}

func TestParseSort(t *testing.T) {
	cmd := parseOne(t, "SORT a DESC NULLS FIRST, b")
	require.Len(t, cmd.Args, 4)
	assert.Equal(t, "desc", cmd.Args[1].(*ast.Literal).Value)
	assert.Equal(t, "nulls first", cmd.Args[2].(*ast.Literal).Value)
	assert.Equal(t, "b", cmd.Args[3].NodeName())
}

func TestParseRename(t *testing.T) {
	cmd := parseOne(t, "RENAME a AS b, c AS")
	require.Len(t, cmd.Args, 2)
	first := cmd.Args[0].(*ast.Option)
	assert.Equal(t, "as", first.Name)
	assert.Len(t, first.Args, 2)
	second := cmd.Args[1].(*ast.Option)
	assert.True(t, second.Incomplete)
	assert.Len(t, second.Args, 1)
}

func TestParseDissect(t *testing.T) {
	cmd := parseOne(t, `DISSECT msg "%{a} %{b}" append_separator = "-"`)
	require.Len(t, cmd.Args, 3)
	assert.Equal(t, "msg", cmd.Args[0].NodeName())
	assert.Equal(t, "%{a} %{b}", cmd.Args[1].(*ast.Literal).Value)
	opt := cmd.Args[2].(*ast.Option)
	assert.Equal(t, "append_separator", opt.Name)
	assert.False(t, opt.Incomplete)
}

func TestParseEnrich(t *testing.T) {
	cmd := parseOne(t, "ENRICH _coordinator:policy ON host WITH name = hostname, ip")
	require.Len(t, cmd.Args, 4)

	mode := cmd.Args[0].(*ast.Setting)
	assert.Equal(t, "_coordinator", mode.Name)
	policy := cmd.Args[1].(*ast.Source)
	assert.Equal(t, "policy", policy.Name)
	assert.Equal(t, ast.SourcePolicy, policy.SourceType)

	on := cmd.Args[2].(*ast.Option)
	assert.Equal(t, "host", on.Args[0].NodeName())

	with := cmd.Args[3].(*ast.Option)
	require.Len(t, with.Args, 2)
	passthrough := with.Args[1].(*ast.Function)
	assert.Equal(t, "ip", passthrough.Args[0].NodeName())
	assert.Equal(t, "ip", passthrough.Args[1].(*ast.Array).Items[0].NodeName())
}

func TestParseStrayTokensJoinTrailingOption(t *testing.T) {
	cmd := parseOne(t, "STATS count() BY host extra")
	by := cmd.Args[len(cmd.Args)-1].(*ast.Option)
	require.Len(t, by.Args, 2)
	assert.Equal(t, "extra", by.Args[1].NodeName())
	assert.True(t, by.Location.Contains(len("STATS count() BY host extra")-1))
}

func TestParseUnknownCommand(t *testing.T) {
	res := Parse("FROM a | nope x | LIMIT 1")
	require.Len(t, res.Commands, 2)
	assert.Equal(t, "limit", res.Commands[1].Name)
	require.NotEmpty(t, res.Errors)
	assert.Contains(t, res.Errors[0].Error(), "unknown command")
}

func TestParseBacktickColumn(t *testing.T) {
	cmd := parseOne(t, "KEEP `my field`")
	col := cmd.Args[0].(*ast.Column)
	assert.Equal(t, "my field", col.Name)
	assert.Equal(t, "`my field`", col.Text)
	assert.True(t, col.Quoted)
}

func TestParseShow(t *testing.T) {
	cmd := parseOne(t, "SHOW info")
	require.Len(t, cmd.Args, 1)
	assert.Equal(t, "info", cmd.Args[0].NodeName())
}

func TestProvider(t *testing.T) {
	commands, err := Provider{}.Parse(context.Background(), "ROW a = 1")
	require.NoError(t, err)
	assert.Len(t, commands, 1)
}

func TestParseNeverPanics(t *testing.T) {
	inputs := []string{
		"", "|", "||", "FROM", "FROM |", "EVAL (", "EVAL a = (", "WHERE a IN (",
		"WHERE a IN", "ENRICH _any:", "ENRICH", "RENAME", "DISSECT", "SORT a NULLS",
		`ROW "`, "ROW [1,", "STATS BY", "EVAL -", "EVAL a IS", "EVAL a NOT",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() { Parse(in) }, in)
	}
}
