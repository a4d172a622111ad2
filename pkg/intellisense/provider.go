// Package intellisense is the embeddable face of the ES|QL completion
// engine.
//
// # Basic Usage
//
// Load a schema and ask for suggestions at a caret offset:
//
//	schema, err := intellisense.LoadSchemaFile("schema.yaml")
//	if err != nil {
//		return err
//	}
//	engine := intellisense.NewEngine(
//		intellisense.WithCallbacks(intellisense.NewStaticCallbacks(schema)),
//	)
//	query := "FROM logs | STATS "
//	suggestions, err := engine.Suggest(ctx, intellisense.Request{
//		Query:  query,
//		Offset: len(query),
//	})
//
// Hosts backed by a live cluster implement Callbacks themselves and may
// wrap it with NewCachedCallbacks.
package intellisense

import (
	"time"

	"github.com/oakwood-commons/esqlc/internal/completion"
	"github.com/oakwood-commons/esqlc/internal/esql/definitions"
	"github.com/oakwood-commons/esqlc/internal/resources"
	"github.com/oakwood-commons/esqlc/pkg/loader"
)

type (
	// Engine computes suggestions. It is safe for concurrent use.
	Engine = completion.Engine
	// Option configures an Engine.
	Option = completion.Option
	// Request asks for suggestions at an offset of a query.
	Request = completion.Request
	// Trigger describes what caused a request.
	Trigger = completion.Trigger
	// TriggerKind tells how a request was made.
	TriggerKind = completion.TriggerKind
	// Suggestion is a single completion item.
	Suggestion = completion.Suggestion
	// Field is a column of the queried indices.
	Field = completion.Field
	// Source is an index, alias or data stream.
	Source = completion.Source
	// Policy is an enrich policy.
	Policy = completion.Policy
	// Callbacks supplies fields, sources and policies to the engine.
	Callbacks = completion.Callbacks
	// Schema is a static description of fields, sources and policies.
	Schema = loader.Schema
	// Catalog describes the commands and functions of the language.
	Catalog = definitions.Catalog
)

// Trigger kinds.
const (
	TriggerInvoked    = completion.TriggerInvoked
	TriggerCharacter  = completion.TriggerCharacter
	TriggerIncomplete = completion.TriggerIncomplete
)

// Engine options.
var (
	WithCallbacks      = completion.WithCallbacks
	WithCatalog        = completion.WithCatalog
	WithParser         = completion.WithParser
	WithMetrics        = completion.WithMetrics
	WithMaxSuggestions = completion.WithMaxSuggestions
	NewMetrics         = completion.NewMetrics
)

// NewEngine creates an engine. Without WithCallbacks it knows no fields,
// sources or policies.
func NewEngine(opts ...Option) *Engine {
	return completion.New(opts...)
}

// DefaultCatalog returns the built-in command and function catalog.
func DefaultCatalog() *Catalog {
	return definitions.Default()
}

// NewStaticCallbacks serves the contents of schema.
func NewStaticCallbacks(schema *Schema) Callbacks {
	if schema == nil {
		schema = &Schema{}
	}
	return &resources.Static{
		Fields:   schema.Fields,
		Indices:  schema.Indices,
		Sources:  schema.Sources,
		Policies: schema.Policies,
	}
}

// NewCachedCallbacks memoizes cb in an LRU of size entries that expire
// after ttl. Concurrent identical lookups share one call to cb.
func NewCachedCallbacks(cb Callbacks, size int, ttl time.Duration) Callbacks {
	return resources.NewCached(cb, size, ttl)
}

// LoadSchema parses a YAML, JSON or TOML schema document.
func LoadSchema(data []byte) (*Schema, error) {
	return loader.LoadSchema(data)
}

// LoadSchemaFile reads a schema file; "-" reads stdin.
func LoadSchemaFile(path string) (*Schema, error) {
	return loader.LoadSchemaFile(path)
}
