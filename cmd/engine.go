package cmd

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/oakwood-commons/esqlc/internal/completion"
	"github.com/oakwood-commons/esqlc/internal/resources"
	"github.com/oakwood-commons/esqlc/pkg/loader"
	"github.com/oakwood-commons/esqlc/pkg/logger"
)

// newEngine builds the completion engine of a run: the schema file as
// callbacks, behind the configured cache. A nil reg leaves the engine
// uninstrumented.
func (o *rootOptions) newEngine(ctx context.Context, reg prometheus.Registerer) (*completion.Engine, error) {
	lgr := logger.FromContext(ctx)

	static := &resources.Static{}
	if path := o.run.Schema.Path; path != "" {
		schema, err := loader.LoadSchemaFile(path)
		if err != nil {
			return nil, fmt.Errorf("load schema: %w", err)
		}
		static = &resources.Static{
			Fields:   schema.Fields,
			Indices:  schema.Indices,
			Sources:  schema.Sources,
			Policies: schema.Policies,
		}
		lgr.V(1).Info("schema loaded", "path", path,
			"fields", len(schema.Fields), "indices", len(schema.Indices),
			"sources", len(schema.Sources), "policies", len(schema.Policies))
	}

	var callbacks completion.Callbacks = static
	if c := o.cfg.Engine.Cache; c.Size > 0 && c.TTL > 0 {
		var cacheOpts []resources.CacheOption
		if reg != nil {
			cacheOpts = append(cacheOpts, resources.WithCacheMetrics(resources.NewMetrics(reg)))
		}
		callbacks = resources.NewCached(static, c.Size, c.TTL, cacheOpts...)
	}

	opts := []completion.Option{
		completion.WithCallbacks(callbacks),
		completion.WithMaxSuggestions(o.cfg.Engine.MaxSuggestions),
	}
	if reg != nil {
		opts = append(opts, completion.WithMetrics(completion.NewMetrics(reg)))
	}
	return completion.New(opts...), nil
}
