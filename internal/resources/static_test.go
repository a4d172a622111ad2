package resources

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/esqlc/internal/completion"
	"github.com/oakwood-commons/esqlc/internal/esql/definitions"
)

func testStatic() *Static {
	return &Static{
		Fields: []completion.Field{
			{Name: "@timestamp", Type: definitions.TypeDate},
		},
		Indices: map[string][]completion.Field{
			"logs-*": {
				{Name: "message", Type: definitions.TypeText},
				{Name: "@timestamp", Type: definitions.TypeKeyword},
			},
			"metrics": {{Name: "cpu", Type: definitions.TypeDouble}},
		},
		Sources:  []completion.Source{{Name: "logs-nginx"}, {Name: "metrics"}},
		Policies: []completion.Policy{{Name: "hosts", MatchField: "host"}},
	}
}

func names(fields []completion.Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Name
	}
	return out
}

func TestStaticGetFieldsFor(t *testing.T) {
	s := testStatic()
	ctx := context.Background()

	tests := []struct {
		query string
		want  []string
	}{
		{query: "", want: []string{"@timestamp"}},
		{query: "FROM logs-nginx", want: []string{"@timestamp", "message"}},
		{query: "from logs-nginx, metrics | EVAL a = 1", want: []string{"@timestamp", "message", "cpu"}},
		{query: "FROM metr*", want: []string{"@timestamp", "cpu"}},
		{query: "FROM other", want: []string{"@timestamp"}},
		{query: "ROW a = 1", want: []string{"@timestamp"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := s.GetFieldsFor(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
		})
	}

	got, err := s.GetFieldsFor(ctx, "FROM logs-nginx")
	require.NoError(t, err)
	assert.Equal(t, definitions.TypeDate, got[0].Type, "common fields win over index fields")
}

func TestStaticSourcesAndPolicies(t *testing.T) {
	s := testStatic()

	sources, err := s.GetSources(context.Background())
	require.NoError(t, err)
	assert.Len(t, sources, 2)

	policies, err := s.GetPolicies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "host", policies[0].MatchField)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.GetFieldsFor(ctx, "FROM logs-nginx")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSourcesOf(t *testing.T) {
	assert.Equal(t, []string{"a", "b-*"}, SourcesOf("FROM a, b-* METADATA _id | LIMIT 1"))
	assert.Empty(t, SourcesOf("SHOW INFO"))
}

func TestMatchIndex(t *testing.T) {
	assert.True(t, matchIndex("logs-*", "logs-nginx"))
	assert.True(t, matchIndex("logs-nginx", "logs-*"))
	assert.True(t, matchIndex("a", "a"))
	assert.False(t, matchIndex("logs-*", "metrics"))
}
