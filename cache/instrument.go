package cache

import "context"

// Instrumented decorates a Cache with hit and miss callbacks so lookup
// outcomes can feed whatever counters the caller owns. Writes and
// evictions pass through uncounted.
type Instrumented[K comparable, V any] struct {
	inner Cache[K, V]
	hit   func()
	miss  func()
}

// NewInstrumented wraps inner. Nil callbacks become no-ops.
func NewInstrumented[K comparable, V any](inner Cache[K, V], hit, miss func()) *Instrumented[K, V] {
	if hit == nil {
		hit = func() {}
	}
	if miss == nil {
		miss = func() {}
	}
	return &Instrumented[K, V]{inner: inner, hit: hit, miss: miss}
}

func (c *Instrumented[K, V]) Get(ctx context.Context, key K) (V, bool) {
	value, ok := c.inner.Get(ctx, key)
	if ok {
		c.hit()
	} else {
		c.miss()
	}
	return value, ok
}

func (c *Instrumented[K, V]) Put(ctx context.Context, key K, value V) { c.inner.Put(ctx, key, value) }
func (c *Instrumented[K, V]) Remove(ctx context.Context, key K)       { c.inner.Remove(ctx, key) }
func (c *Instrumented[K, V]) Clear(ctx context.Context)               { c.inner.Clear(ctx) }
func (c *Instrumented[K, V]) Size(ctx context.Context) int            { return c.inner.Size(ctx) }
func (c *Instrumented[K, V]) Keys(ctx context.Context) []K            { return c.inner.Keys(ctx) }
func (c *Instrumented[K, V]) Values(ctx context.Context) []V          { return c.inner.Values(ctx) }
