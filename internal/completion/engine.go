package completion

import (
	"context"
	"time"

	"github.com/oakwood-commons/esqlc/internal/esql/ast"
	"github.com/oakwood-commons/esqlc/internal/esql/definitions"
	"github.com/oakwood-commons/esqlc/internal/esql/parser"
	"github.com/oakwood-commons/esqlc/internal/esql/position"
	"github.com/oakwood-commons/esqlc/pkg/logger"
)

// Engine computes ES|QL completions. It is safe for concurrent use: every
// call builds its own state and only reads the catalog.
type Engine struct {
	catalog        *definitions.Catalog
	parser         ASTProvider
	repairer       Repairer
	callbacks      Callbacks
	metrics        *Metrics
	maxSuggestions int
}

// Option configures an Engine.
type Option func(*Engine)

// WithCatalog replaces the built-in catalog.
func WithCatalog(c *definitions.Catalog) Option {
	return func(e *Engine) { e.catalog = c }
}

// WithParser replaces the built-in tolerant parser.
func WithParser(p ASTProvider) Option {
	return func(e *Engine) { e.parser = p }
}

// WithRepairer replaces the bracket-counting query repair.
func WithRepairer(r Repairer) Option {
	return func(e *Engine) { e.repairer = r }
}

// WithCallbacks sets the source of fields, sources and policies.
func WithCallbacks(cb Callbacks) Option {
	return func(e *Engine) { e.callbacks = cb }
}

// WithMetrics instruments the engine.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithMaxSuggestions truncates results to n items. Zero means no limit.
func WithMaxSuggestions(n int) Option {
	return func(e *Engine) { e.maxSuggestions = n }
}

// New creates an engine. Without options it uses the built-in catalog and
// parser and has no data to complete fields, sources or policies from.
func New(opts ...Option) *Engine {
	e := &Engine{
		catalog:   definitions.Default(),
		parser:    parser.Provider{},
		callbacks: noCallbacks{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.repairer == nil {
		e.repairer = BracketRepairer{Catalog: e.catalog}
	}
	return e
}

// Catalog returns the catalog the engine completes against.
func (e *Engine) Catalog() *definitions.Catalog {
	return e.catalog
}

// Suggest returns the completions at req.Offset. Unknown names, failing
// callbacks and unparsable input yield fewer or no suggestions rather
// than an error; the only error returned is that of a done context.
func (e *Engine) Suggest(ctx context.Context, req Request) ([]Suggestion, error) {
	start := time.Now()
	log := logger.FromContext(ctx)

	offset := req.Offset
	if offset < 0 {
		offset = 0
	}
	if offset > len(req.Query) {
		offset = len(req.Query)
	}
	innerText := req.Query[:offset]
	corrected := e.repairer.Repair(innerText, req.Trigger)

	commands, err := e.parser.Parse(ctx, corrected)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.V(1).Info("parse failed", "error", err.Error())
		return nil, nil
	}

	pos := position.Resolver{Catalog: e.catalog}.Resolve(innerText, commands, offset)
	r := &request{
		ctx:         ctx,
		catalog:     e.catalog,
		callbacks:   e.callbacks,
		log:         *log,
		innerText:   innerText,
		commands:    commands,
		fieldsQuery: queryForFields(queryUntilPreviousCommand(commands, corrected), commands),
	}

	out := uniqueByText(r.dispatch(pos))
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if e.maxSuggestions > 0 && len(out) > e.maxSuggestions {
		out = out[:e.maxSuggestions]
	}

	e.metrics.observe(string(pos.Kind()), time.Since(start).Seconds(), len(out))
	log.V(1).Info("suggest", "position", string(pos.Kind()), "suggestions", len(out))
	return out, nil
}

func (r *request) dispatch(pos position.Position) []Suggestion {
	switch p := pos.(type) {
	case position.NewCommand:
		return r.suggestCommands()
	case position.Expression:
		return r.suggestExpression(p)
	case position.SettingArg:
		return r.suggestSetting(p)
	case position.OptionArg:
		if p.Option == nil {
			return nil
		}
		return r.suggestOption(p)
	case position.FunctionArg:
		return r.suggestFunctionArgs(p)
	case position.ListArg:
		return r.suggestList(p)
	default:
		return nil
	}
}

func (r *request) suggestCommands() []Suggestion {
	var out []Suggestion
	for _, cmd := range r.catalog.Commands() {
		if cmd.Source == (len(r.commands) == 0) {
			out = append(out, commandSuggestion(cmd))
		}
	}
	return out
}

// queryUntilPreviousCommand returns the text up to the end of the command
// before the last one.
func queryUntilPreviousCommand(commands []*ast.Command, text string) string {
	if len(commands) == 0 {
		return text
	}
	i := len(commands) - 2
	if i < 0 {
		i = 0
	}
	end := commands[i].Location.Max + 1
	if end > len(text) {
		end = len(text)
	}
	return text[:end]
}

// queryForFields is empty when the pipeline only holds a source command
// that does not read fields.
func queryForFields(query string, commands []*ast.Command) string {
	if len(commands) == 1 {
		switch definitions.CommandName(commands[0].Name) {
		case definitions.CommandFrom, definitions.CommandRow, definitions.CommandShow:
			return ""
		}
	}
	return query
}

type noCallbacks struct{}

func (noCallbacks) GetFieldsFor(context.Context, string) ([]Field, error) { return nil, nil }
func (noCallbacks) GetSources(context.Context) ([]Source, error)         { return nil, nil }
func (noCallbacks) GetPolicies(context.Context) ([]Policy, error)        { return nil, nil }
