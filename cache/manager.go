package cache

import (
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// MemoryManager provisions named in-process LRU caches sharing one
// bound and TTL.
type MemoryManager[V any] struct {
	mu         sync.Mutex
	maxEntries int
	ttl        time.Duration
	caches     map[string]*LRU[string, V]
}

// NewMemoryManager builds a manager whose caches hold at most
// maxEntries entries each, expiring after ttl.
func NewMemoryManager[V any](maxEntries int, ttl time.Duration) *MemoryManager[V] {
	return &MemoryManager[V]{
		maxEntries: maxEntries,
		ttl:        ttl,
		caches:     make(map[string]*LRU[string, V]),
	}
}

// GetCache returns the cache registered under name, creating it on
// first use. Repeated calls with the same name share one store.
func (m *MemoryManager[V]) GetCache(name string) Cache[string, V] {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.caches[name]
	if !ok {
		c = NewLRU[string, V](m.maxEntries, m.ttl)
		m.caches[name] = c
	}
	return c
}

// RedisManager provisions named Redis-backed caches on one client. The
// name becomes part of the key prefix, so two managers on the same
// client see the same data for the same name.
type RedisManager[V any] struct {
	mu     sync.Mutex
	client redis.UniversalClient
	ttl    time.Duration
	logger *zap.Logger
	caches map[string]*Redis[V]
}

// NewRedisManager builds a manager whose caches expire entries after
// ttl.
func NewRedisManager[V any](client redis.UniversalClient, ttl time.Duration, logger *zap.Logger) *RedisManager[V] {
	return &RedisManager[V]{
		client: client,
		ttl:    ttl,
		logger: logger,
		caches: make(map[string]*Redis[V]),
	}
}

// GetCache returns the cache registered under name, creating it on
// first use.
func (m *RedisManager[V]) GetCache(name string) Cache[string, V] {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.caches[name]
	if !ok {
		c = NewRedis[V](m.client, name, m.ttl, m.logger)
		m.caches[name] = c
	}
	return c
}
