package cache

import "context"

// Cache is a concurrency-safe key/value store with manager-controlled
// eviction. Lookups are best-effort: a backend failure reads as a miss
// and a failed write is dropped, never surfaced as a partial value.
type Cache[K comparable, V any] interface {
	// Get returns the cached value for key, or false on a miss.
	Get(ctx context.Context, key K) (V, bool)

	// Put stores value under key, evicting per the cache's policy.
	Put(ctx context.Context, key K, value V)

	// Remove evicts key if present.
	Remove(ctx context.Context, key K)

	// Clear evicts every entry.
	Clear(ctx context.Context)

	// Size returns the number of live entries.
	Size(ctx context.Context) int

	// Keys returns a snapshot of the live keys, in no particular order.
	Keys(ctx context.Context) []K

	// Values returns a snapshot of the live values, in no particular order.
	Values(ctx context.Context) []V
}

// Manager provisions named caches that share one configuration. GetCache
// is idempotent: the same name always yields the same underlying store.
type Manager[V any] interface {
	GetCache(name string) Cache[string, V]
}
