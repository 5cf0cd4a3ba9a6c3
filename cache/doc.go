// Package cache provides the bounded key/value stores that back every
// stateful layer of the engine: realm authentication and authorization
// caches and the active-session front cache. Two implementations are
// provided, an in-process LRU with optional TTL eviction and a
// Redis-backed store, plus managers that provision named caches sharing
// one eviction policy.
//
// Cache population is idempotent: re-deriving and re-storing the same
// logical value is harmless, so concurrent writers race benignly and no
// partial value is ever visible to readers.
package cache
