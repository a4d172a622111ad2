package intellisense

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFacadeRoundTrip(t *testing.T) {
	schema, err := LoadSchema([]byte(`{"sources": [{"name": "logs"}, {"name": "metrics"}]}`))
	require.NoError(t, err)

	cb := NewCachedCallbacks(NewStaticCallbacks(schema), 4, 0)
	engine := NewEngine(WithCallbacks(cb), WithMaxSuggestions(1))

	query := "FROM "
	out, err := engine.Suggest(context.Background(), Request{Query: query, Offset: len(query)})
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestNewStaticCallbacksNilSchema(t *testing.T) {
	cb := NewStaticCallbacks(nil)
	sources, err := cb.GetSources(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sources)
}

func TestDefaultCatalog(t *testing.T) {
	_, ok := DefaultCatalog().Command("stats")
	assert.True(t, ok)
}
