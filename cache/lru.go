package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

type lruEntry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time
}

// LRU is an in-process cache bounded by entry count with optional
// per-entry TTL. Expired entries are collected lazily on access, there
// is no background sweeper.
type LRU[K comparable, V any] struct {
	mu         sync.Mutex
	maxEntries int
	ttl        time.Duration
	order      *list.List
	entries    map[K]*list.Element
}

// NewLRU builds an LRU cache holding at most maxEntries entries. A
// maxEntries of zero or less means unbounded. A ttl of zero disables
// time-based eviction.
func NewLRU[K comparable, V any](maxEntries int, ttl time.Duration) *LRU[K, V] {
	return &LRU[K, V]{
		maxEntries: maxEntries,
		ttl:        ttl,
		order:      list.New(),
		entries:    make(map[K]*list.Element),
	}
}

// Get returns the value for key and promotes it to most recently used.
func (c *LRU[K, V]) Get(_ context.Context, key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	el, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	ent := el.Value.(*lruEntry[K, V])
	if c.expired(ent) {
		c.removeElement(el)
		return zero, false
	}
	c.order.MoveToFront(el)
	return ent.value, true
}

// Put stores value under key, evicting the least recently used entry
// when the cache is over capacity.
func (c *LRU[K, V]) Put(_ context.Context, key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt time.Time
	if c.ttl > 0 {
		expiresAt = time.Now().Add(c.ttl)
	}
	if el, ok := c.entries[key]; ok {
		ent := el.Value.(*lruEntry[K, V])
		ent.value = value
		ent.expiresAt = expiresAt
		c.order.MoveToFront(el)
		return
	}

	el := c.order.PushFront(&lruEntry[K, V]{key: key, value: value, expiresAt: expiresAt})
	c.entries[key] = el

	if c.maxEntries > 0 && c.order.Len() > c.maxEntries {
		if oldest := c.order.Back(); oldest != nil {
			c.removeElement(oldest)
		}
	}
}

// Remove evicts key if present.
func (c *LRU[K, V]) Remove(_ context.Context, key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		c.removeElement(el)
	}
}

// Clear evicts every entry.
func (c *LRU[K, V]) Clear(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.entries = make(map[K]*list.Element)
}

// Size returns the number of unexpired entries.
func (c *LRU[K, V]) Size(_ context.Context) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.collect()
	return c.order.Len()
}

// Keys returns a snapshot of the unexpired keys.
func (c *LRU[K, V]) Keys(_ context.Context) []K {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.collect()
	keys := make([]K, 0, c.order.Len())
	for el := c.order.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*lruEntry[K, V]).key)
	}
	return keys
}

// Values returns a snapshot of the unexpired values.
func (c *LRU[K, V]) Values(_ context.Context) []V {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.collect()
	values := make([]V, 0, c.order.Len())
	for el := c.order.Front(); el != nil; el = el.Next() {
		values = append(values, el.Value.(*lruEntry[K, V]).value)
	}
	return values
}

func (c *LRU[K, V]) expired(ent *lruEntry[K, V]) bool {
	return !ent.expiresAt.IsZero() && time.Now().After(ent.expiresAt)
}

// collect drops expired entries. Callers must hold c.mu.
func (c *LRU[K, V]) collect() {
	if c.ttl <= 0 {
		return
	}
	var next *list.Element
	for el := c.order.Front(); el != nil; el = next {
		next = el.Next()
		if c.expired(el.Value.(*lruEntry[K, V])) {
			c.removeElement(el)
		}
	}
}

func (c *LRU[K, V]) removeElement(el *list.Element) {
	c.order.Remove(el)
	delete(c.entries, el.Value.(*lruEntry[K, V]).key)
}
