package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/esqlc/internal/esql/definitions"
)

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		in   string
		want definitions.Type
	}{
		{in: "long", want: definitions.TypeLong},
		{in: "KEYWORD", want: definitions.TypeKeyword},
		{in: " text ", want: definitions.TypeText},
		{in: "string", want: definitions.TypeKeyword},
		{in: "float", want: definitions.TypeDouble},
		{in: "date_nanos", want: definitions.TypeDate},
		{in: "short", want: definitions.TypeInteger},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeType(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := NormalizeType("nested")
	assert.ErrorIs(t, err, ErrUnknownFieldType)
}

func TestNormalizeRejectsIncompleteEntries(t *testing.T) {
	_, err := LoadSchemaAs([]byte("fields:\n  - type: long\n"), FormatYAML)
	assert.ErrorContains(t, err, "missing name")

	_, err = LoadSchemaAs([]byte("policies:\n  - name: p\n"), FormatYAML)
	assert.ErrorContains(t, err, "missing match field")

	_, err = LoadSchemaAs([]byte("indices:\n  logs:\n    - name: a\n      type: nested\n"), FormatYAML)
	assert.ErrorIs(t, err, ErrUnknownFieldType)
	assert.ErrorContains(t, err, "indices.logs.a")
}
