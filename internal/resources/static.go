// Package resources provides the data sources behind the completion
// engine: a static schema and a caching layer for any other source.
package resources

import (
	"context"
	"path"
	"sort"
	"strings"

	"github.com/oakwood-commons/esqlc/internal/completion"
	"github.com/oakwood-commons/esqlc/internal/esql/ast"
	"github.com/oakwood-commons/esqlc/internal/esql/parser"
)

// Static answers completion callbacks from fixed data.
type Static struct {
	// Fields are visible to every query.
	Fields []completion.Field
	// Indices holds extra fields keyed by an index name or glob pattern,
	// visible to queries whose FROM sources match the key.
	Indices  map[string][]completion.Field
	Sources  []completion.Source
	Policies []completion.Policy
}

var _ completion.Callbacks = (*Static)(nil)

// GetFieldsFor returns the common fields followed by the fields of every
// index pattern matched by the sources of query. Names are unique; the
// first definition wins.
func (s *Static) GetFieldsFor(ctx context.Context, query string) ([]completion.Field, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(s.Fields))
	var out []completion.Field
	add := func(fields []completion.Field) {
		for _, f := range fields {
			if seen[f.Name] {
				continue
			}
			seen[f.Name] = true
			out = append(out, f)
		}
	}
	add(s.Fields)

	keys := make([]string, 0, len(s.Indices))
	for k := range s.Indices {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, index := range SourcesOf(query) {
		for _, k := range keys {
			if matchIndex(k, index) {
				add(s.Indices[k])
			}
		}
	}
	return out, nil
}

// GetSources returns the configured sources.
func (s *Static) GetSources(ctx context.Context) ([]completion.Source, error) {
	return s.Sources, ctx.Err()
}

// GetPolicies returns the configured enrich policies.
func (s *Static) GetPolicies(ctx context.Context) ([]completion.Policy, error) {
	return s.Policies, ctx.Err()
}

// SourcesOf returns the index names of the FROM commands in query.
func SourcesOf(query string) []string {
	var out []string
	for _, cmd := range parser.Parse(query).Commands {
		if !strings.EqualFold(cmd.Name, "from") {
			continue
		}
		for _, arg := range cmd.Args {
			if src, ok := arg.(*ast.Source); ok && src.Name != "" {
				out = append(out, src.Name)
			}
		}
	}
	return out
}

// matchIndex reports whether a schema key and a query source name the
// same indices. Either side may be a glob.
func matchIndex(key, source string) bool {
	if key == source {
		return true
	}
	if ok, err := path.Match(key, source); err == nil && ok {
		return true
	}
	ok, err := path.Match(source, key)
	return err == nil && ok
}
