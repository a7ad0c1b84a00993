package cache

import (
	"context"

	"ecfr-proxy/internal/metrics"
)

// Instrumented wraps a cache and feeds hit/miss counts to Prometheus
// under the given namespace label.
type Instrumented[V any] struct {
	cache     Cache[V]
	namespace string
}

func NewInstrumented[V any](cache Cache[V], namespace string) *Instrumented[V] {
	if cache == nil {
		return nil
	}
	return &Instrumented[V]{cache: cache, namespace: namespace}
}

func (c *Instrumented[V]) Get(ctx context.Context, key string) (V, bool) {
	if c == nil || c.cache == nil {
		var zero V
		return zero, false
	}
	value, ok := c.cache.Get(ctx, key)
	metrics.RecordCache(c.namespace, ok)
	return value, ok
}

func (c *Instrumented[V]) Set(ctx context.Context, key string, value V) {
	if c == nil || c.cache == nil {
		return
	}
	c.cache.Set(ctx, key, value)
}

func (c *Instrumented[V]) Has(ctx context.Context, key string) bool {
	if c == nil || c.cache == nil {
		return false
	}
	return c.cache.Has(ctx, key)
}

func (c *Instrumented[V]) Flush(ctx context.Context) error {
	if c == nil || c.cache == nil {
		return nil
	}
	return c.cache.Flush(ctx)
}

func (c *Instrumented[V]) Stats(ctx context.Context) (int64, error) {
	if c == nil || c.cache == nil {
		return 0, nil
	}
	return c.cache.Stats(ctx)
}
