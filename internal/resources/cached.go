package resources

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/oakwood-commons/esqlc/internal/completion"
)

const (
	resourceFields   = "fields"
	resourceSources  = "sources"
	resourcePolicies = "policies"

	sourcesKey  = "\x00sources"
	policiesKey = "\x00policies"
)

// DefaultCacheSize is the number of entries kept when no size is given.
const DefaultCacheSize = 128

// Cached memoizes another Callbacks. Field lists are keyed by query
// text. Concurrent lookups of the same key share one upstream call and
// failed calls are not cached.
type Cached struct {
	next    completion.Callbacks
	fields  *expirable.LRU[string, []completion.Field]
	sources *expirable.LRU[string, []completion.Source]
	policy  *expirable.LRU[string, []completion.Policy]
	group   singleflight.Group
	metrics *Metrics
}

var _ completion.Callbacks = (*Cached)(nil)

// CacheOption configures a Cached.
type CacheOption func(*Cached)

// WithCacheMetrics counts hits and misses on m.
func WithCacheMetrics(m *Metrics) CacheOption {
	return func(c *Cached) { c.metrics = m }
}

// NewCached wraps next with an LRU of size entries per resource. Entries
// expire after ttl; a ttl of zero keeps them until evicted.
func NewCached(next completion.Callbacks, size int, ttl time.Duration, opts ...CacheOption) *Cached {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c := &Cached{
		next:    next,
		fields:  expirable.NewLRU[string, []completion.Field](size, nil, ttl),
		sources: expirable.NewLRU[string, []completion.Source](1, nil, ttl),
		policy:  expirable.NewLRU[string, []completion.Policy](1, nil, ttl),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetFieldsFor implements completion.Callbacks.
func (c *Cached) GetFieldsFor(ctx context.Context, query string) ([]completion.Field, error) {
	return lookup(ctx, c, resourceFields, query, c.fields, func(ctx context.Context) ([]completion.Field, error) {
		return c.next.GetFieldsFor(ctx, query)
	})
}

// GetSources implements completion.Callbacks.
func (c *Cached) GetSources(ctx context.Context) ([]completion.Source, error) {
	return lookup(ctx, c, resourceSources, sourcesKey, c.sources, c.next.GetSources)
}

// GetPolicies implements completion.Callbacks.
func (c *Cached) GetPolicies(ctx context.Context) ([]completion.Policy, error) {
	return lookup(ctx, c, resourcePolicies, policiesKey, c.policy, c.next.GetPolicies)
}

// Purge drops every cached entry.
func (c *Cached) Purge() {
	c.fields.Purge()
	c.sources.Purge()
	c.policy.Purge()
}

func lookup[V any](
	ctx context.Context,
	c *Cached,
	resource, key string,
	cache *expirable.LRU[string, V],
	load func(context.Context) (V, error),
) (V, error) {
	if v, ok := cache.Get(key); ok {
		c.metrics.observe(resource, resultHit)
		return v, nil
	}

	// The shared call outlives any single caller.
	ch := c.group.DoChan(resource+"/"+key, func() (any, error) {
		v, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return v, err
		}
		cache.Add(key, v)
		return v, nil
	})

	var zero V
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			c.metrics.observe(resource, resultError)
			return zero, res.Err
		}
		c.metrics.observe(resource, resultMiss)
		return res.Val.(V), nil
	}
}
