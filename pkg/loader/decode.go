package loader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/oakwood-commons/esqlc/internal/completion"
	"github.com/oakwood-commons/esqlc/internal/esql/definitions"
)

// ErrUnknownFieldType is returned for a field whose type is neither an
// ES|QL type nor an Elasticsearch mapping type with an ES|QL equivalent.
var ErrUnknownFieldType = errors.New("unknown field type")

// mappingTypes maps Elasticsearch mapping types, and a few common
// spellings, to the ES|QL type they are read as.
var mappingTypes = map[string]definitions.Type{
	"string":           definitions.TypeKeyword,
	"number":           definitions.TypeDouble,
	"datetime":         definitions.TypeDate,
	"date_nanos":       definitions.TypeDate,
	"float":            definitions.TypeDouble,
	"half_float":       definitions.TypeDouble,
	"scaled_float":     definitions.TypeDouble,
	"byte":             definitions.TypeInteger,
	"short":            definitions.TypeInteger,
	"constant_keyword": definitions.TypeKeyword,
	"wildcard":         definitions.TypeKeyword,
	"match_only_text":  definitions.TypeText,
	"geo_shape":        definitions.TypeGeoPoint,
	"point":            definitions.TypeCartesianPoint,
}

// NormalizeType returns the ES|QL type for name.
func NormalizeType(name string) (definitions.Type, error) {
	t := definitions.Type(strings.ToLower(strings.TrimSpace(name)))
	if mapped, ok := mappingTypes[string(t)]; ok {
		return mapped, nil
	}
	for _, known := range definitions.DataTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFieldType, name)
}

// normalize rewrites every field type of s to its ES|QL form and checks
// that names are present.
func normalize(s *Schema) error {
	if err := normalizeFields("fields", s.Fields); err != nil {
		return err
	}
	for index, fields := range s.Indices {
		if err := normalizeFields("indices."+index, fields); err != nil {
			return err
		}
	}
	for i, src := range s.Sources {
		if src.Name == "" {
			return fmt.Errorf("sources[%d]: missing name", i)
		}
	}
	for i, p := range s.Policies {
		if p.Name == "" {
			return fmt.Errorf("policies[%d]: missing name", i)
		}
		if p.MatchField == "" {
			return fmt.Errorf("policy %q: missing match field", p.Name)
		}
	}
	return nil
}

func normalizeFields(path string, fields []completion.Field) error {
	for i := range fields {
		if fields[i].Name == "" {
			return fmt.Errorf("%s[%d]: missing name", path, i)
		}
		t, err := NormalizeType(string(fields[i].Type))
		if err != nil {
			return fmt.Errorf("%s.%s: %w", path, fields[i].Name, err)
		}
		fields[i].Type = t
	}
	return nil
}
