package completion

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	prom_testutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/esqlc/internal/esql/ast"
	"github.com/oakwood-commons/esqlc/internal/esql/definitions"
	"github.com/oakwood-commons/esqlc/internal/esql/parser"
	"github.com/oakwood-commons/esqlc/internal/esql/position"
)

type fakeCallbacks struct {
	fields   []Field
	sources  []Source
	policies []Policy
	err      error

	mu      sync.Mutex
	queries []string
}

func (f *fakeCallbacks) GetFieldsFor(_ context.Context, query string) ([]Field, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	return f.fields, f.err
}

func (f *fakeCallbacks) GetSources(context.Context) ([]Source, error) { return f.sources, f.err }

func (f *fakeCallbacks) GetPolicies(context.Context) ([]Policy, error) { return f.policies, f.err }

func newFakeCallbacks() *fakeCallbacks {
	return &fakeCallbacks{
		fields: []Field{
			{Name: "bytes", Type: definitions.TypeLong},
			{Name: "bytes_out", Type: definitions.TypeLong},
			{Name: "memory", Type: definitions.TypeLong},
			{Name: "host", Type: definitions.TypeKeyword},
			{Name: "message", Type: definitions.TypeText},
			{Name: "@timestamp", Type: definitions.TypeDate},
		},
		sources: []Source{
			{Name: "index"},
			{Name: ".hidden", Hidden: true},
			{Name: "logs", DataStreams: []DataStream{{Name: "logs-nginx"}, {Name: "logs-apache"}}},
		},
		policies: []Policy{
			{Name: "hosts", SourceIndices: []string{"inventory"}, MatchField: "host", EnrichFields: []string{"owner", "region"}},
		},
	}
}

var (
	invoked = Trigger{Kind: TriggerInvoked}
	space   = Trigger{Kind: TriggerCharacter, Character: " "}
	comma   = Trigger{Kind: TriggerCharacter, Character: ","}
)

func suggest(t *testing.T, e *Engine, query string, trigger Trigger) []Suggestion {
	t.Helper()
	out, err := e.Suggest(context.Background(), Request{Query: query, Offset: len(query), Trigger: trigger})
	require.NoError(t, err)
	return out
}

func labels(s []Suggestion) []string {
	out := make([]string, 0, len(s))
	for _, item := range s {
		out = append(out, item.Label)
	}
	return out
}

func texts(s []Suggestion) []string {
	out := make([]string, 0, len(s))
	for _, item := range s {
		out = append(out, item.Text)
	}
	return out
}

func TestSuggestCommands(t *testing.T) {
	e := New(WithCallbacks(newFakeCallbacks()))

	first := labels(suggest(t, e, "", invoked))
	assert.Contains(t, first, "FROM")
	assert.Contains(t, first, "ROW")
	assert.Contains(t, first, "SHOW")
	assert.NotContains(t, first, "WHERE")

	next := labels(suggest(t, e, "FROM index | ", invoked))
	assert.Contains(t, next, "WHERE")
	assert.Contains(t, next, "STATS")
	assert.NotContains(t, next, "FROM")
}

func TestSuggestScenarios(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		trigger    Trigger
		want       []string
		wantTexts  []string
		notWant    []string
		exactLabel []string
	}{
		{
			name:      "stats start offers a new variable and aggregations only",
			query:     "FROM index | STATS ",
			trigger:   invoked,
			want:      []string{"var0"},
			wantTexts: []string{"AVG($0)", "COUNT($0)"},
			notWant:   []string{"bytes", "host", "|"},
		},
		{
			name:    "complete assignment continues with operators and time units",
			query:   "FROM index | EVAL a = 1 ",
			trigger: space,
			want:    []string{"+", "*", "year", "|"},
			notWant: []string{"="},
		},
		{
			name:    "column in where waits for an operator",
			query:   "FROM index | WHERE bytes ",
			trigger: space,
			want:    []string{">", "=="},
			notWant: []string{"|"},
		},
		{
			name:       "enrich on offers the match field only",
			query:      "FROM index | ENRICH hosts ON ",
			trigger:    invoked,
			exactLabel: []string{"host"},
		},
		{
			name:    "enrich policies",
			query:   "FROM index | ENRICH ",
			trigger: invoked,
			want:    []string{"hosts"},
		},
		{
			name:    "from sources hide hidden indices",
			query:   "FROM ",
			trigger: invoked,
			want:    []string{"index", "logs"},
			notWant: []string{".hidden"},
		},
		{
			name:    "limit constants",
			query:   "FROM index | LIMIT ",
			trigger: invoked,
			want:    []string{"10", "100", "1000"},
		},
		{
			name:    "sort direction",
			query:   "FROM index | SORT bytes ",
			trigger: space,
			want:    []string{"asc", "desc"},
		},
		{
			name:    "function argument fields of the parameter type",
			query:   "FROM index | EVAL round(",
			trigger: invoked,
			want:    []string{"bytes", "memory"},
			notWant: []string{"host"},
		},
		{
			name:    "in list leaves out listed values",
			query:   "FROM index | WHERE bytes IN (memory, ",
			trigger: comma,
			want:    []string{"bytes_out"},
			notWant: []string{"bytes", "memory", "host"},
		},
		{
			name:    "enrich cluster mode",
			query:   "FROM index | ENRICH _",
			trigger: invoked,
			want:    []string{"_any", "_coordinator", "_remote"},
		},
		{
			name:    "metadata fields",
			query:   "FROM index METADATA ",
			trigger: invoked,
			want:    []string{"_id", "_index"},
		},
		{
			name:       "where field not offers pattern and list operators",
			query:      "FROM index | WHERE host NOT ",
			trigger:    space,
			exactLabel: []string{"like", "rlike", "in"},
		},
		{
			name:       "lowercase not on demand",
			query:      "FROM index | WHERE host not ",
			trigger:    invoked,
			exactLabel: []string{"like", "rlike", "in"},
		},
		{
			name:       "not after a conjunction",
			query:      "FROM index | WHERE bytes > 1 AND host NOT ",
			trigger:    space,
			exactLabel: []string{"like", "rlike", "in"},
		},
		{
			name:       "not inside an eval assignment",
			query:      "FROM index | EVAL a = host NOT ",
			trigger:    space,
			exactLabel: []string{"like", "rlike", "in"},
		},
		{
			name:       "not after a row literal",
			query:      `ROW a = "x" NOT `,
			trigger:    space,
			exactLabel: []string{"like", "rlike", "in"},
		},
		{
			name:      "opening quote in from lists sources unquoted",
			query:     `FROM "`,
			trigger:   invoked,
			want:      []string{"index", "logs"},
			wantTexts: []string{"index", "logs"},
			notWant:   []string{".hidden", "METADATA"},
		},
		{
			name:      "opening quote after a comma in from lists sources",
			query:     `FROM a, "`,
			trigger:   invoked,
			want:      []string{"index", "logs"},
			wantTexts: []string{"index", "logs"},
			notWant:   []string{"METADATA", "|", ","},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(WithCallbacks(newFakeCallbacks()))
			out := suggest(t, e, tt.query, tt.trigger)
			got := labels(out)
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
			for _, w := range tt.wantTexts {
				assert.Contains(t, texts(out), w)
			}
			for _, n := range tt.notWant {
				assert.NotContains(t, got, n)
			}
			if tt.exactLabel != nil {
				assert.Equal(t, tt.exactLabel, got)
			}
		})
	}
}

func TestSuggestUnknownFunctionIsEmpty(t *testing.T) {
	e := New(WithCallbacks(newFakeCallbacks()))
	assert.Empty(t, suggest(t, e, "FROM index | EVAL nosuchfn(", invoked))
}

// Every position kind reaches a handler that produces suggestions.
func TestSuggestHandlesEveryPositionKind(t *testing.T) {
	queries := map[position.Kind]struct {
		query   string
		trigger Trigger
	}{
		position.KindNewCommand: {"FROM index | ", invoked},
		position.KindExpression: {"FROM index | STATS ", invoked},
		position.KindOption:     {"FROM index | ENRICH hosts ON ", invoked},
		position.KindSetting:    {"FROM index | ENRICH _", invoked},
		position.KindFunction:   {"FROM index | EVAL round(", invoked},
		position.KindList:       {"FROM index | WHERE bytes IN (memory, ", comma},
	}
	require.Len(t, queries, len(position.Kinds))

	for _, kind := range position.Kinds {
		q, ok := queries[kind]
		require.True(t, ok, "no query for %s", kind)
		t.Run(string(kind), func(t *testing.T) {
			commands := parser.Parse(Repair(q.query, q.trigger)).Commands
			e := New(WithCallbacks(newFakeCallbacks()))
			pos := position.Resolver{Catalog: e.Catalog()}.Resolve(q.query, commands, len(q.query))
			require.Equal(t, kind, pos.Kind())

			assert.NotEmpty(t, suggest(t, e, q.query, q.trigger))
		})
	}
}

func TestSuggestIsIdempotentAndUnique(t *testing.T) {
	e := New(WithCallbacks(newFakeCallbacks()))
	for _, query := range []string{
		"",
		"FROM index | STATS ",
		"FROM index | EVAL a = 1 ",
		"FROM index | WHERE ",
		"FROM index | STATS avg(bytes) BY ",
	} {
		first := suggest(t, e, query, invoked)
		second := suggest(t, e, query, invoked)
		assert.Equal(t, first, second, query)

		seen := make(map[string]bool)
		for _, s := range first {
			assert.False(t, seen[s.Text], "duplicate %q for %q", s.Text, query)
			seen[s.Text] = true
		}
	}
}

func TestSuggestFieldsQuery(t *testing.T) {
	cb := newFakeCallbacks()
	e := New(WithCallbacks(cb))
	suggest(t, e, "FROM index | EVAL a = 1 | WHERE ", invoked)

	require.NotEmpty(t, cb.queries)
	assert.Equal(t, "FROM index | EVAL a = 1", strings.TrimSpace(cb.queries[0]))
}

func TestSuggestVariablesFromEarlierCommands(t *testing.T) {
	e := New(WithCallbacks(newFakeCallbacks()))
	got := labels(suggest(t, e, "FROM index | EVAL total = bytes + memory | WHERE ", invoked))
	assert.Contains(t, got, "total")
	assert.Contains(t, got, "bytes")
}

func TestSuggestDegradesOnCallbackErrors(t *testing.T) {
	cb := newFakeCallbacks()
	cb.err = errors.New("cluster unavailable")
	e := New(WithCallbacks(cb))

	out, err := e.Suggest(context.Background(), Request{Query: "FROM index | EVAL ", Offset: 18, Trigger: invoked})
	require.NoError(t, err)
	got := labels(out)
	assert.NotContains(t, got, "bytes")
	assert.Contains(t, got, "var0")
}

func TestSuggestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().Suggest(ctx, Request{Query: "FROM index | ", Offset: 13, Trigger: invoked})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSuggestOffsetIsClamped(t *testing.T) {
	e := New()
	out, err := e.Suggest(context.Background(), Request{Query: "FROM index | ", Offset: 1000, Trigger: invoked})
	require.NoError(t, err)
	assert.Contains(t, labels(out), "WHERE")

	out, err = e.Suggest(context.Background(), Request{Query: "FROM index | ", Offset: -4, Trigger: invoked})
	require.NoError(t, err)
	assert.Contains(t, labels(out), "FROM")
}

func TestWithMaxSuggestions(t *testing.T) {
	e := New(WithMaxSuggestions(2))
	assert.Len(t, suggest(t, e, "", invoked), 2)
}

func TestSuggestMetrics(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	e := New(WithMetrics(m))

	suggest(t, e, "", invoked)
	suggest(t, e, "FROM index | ", invoked)
	suggest(t, e, "FROM index | STATS ", invoked)

	assert.Equal(t, 2.0, prom_testutil.ToFloat64(m.requests.WithLabelValues(string(position.KindNewCommand))))
	assert.Equal(t, 1.0, prom_testutil.ToFloat64(m.requests.WithLabelValues(string(position.KindExpression))))
}

func TestSuggestWithCustomParser(t *testing.T) {
	failing := parserFunc(func(context.Context, string) error { return errors.New("boom") })
	out, err := New(WithParser(failing)).Suggest(context.Background(), Request{Query: "FROM ", Offset: 5})
	require.NoError(t, err)
	assert.Empty(t, out)
}

type parserFunc func(ctx context.Context, text string) error

func (f parserFunc) Parse(ctx context.Context, text string) ([]*ast.Command, error) {
	return nil, f(ctx, text)
}
