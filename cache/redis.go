package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis is a Redis-backed cache keyed by string. Values round-trip
// through JSON. Backend failures are logged and degrade to misses so a
// Redis outage slows the engine down instead of breaking it.
type Redis[V any] struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedis builds a Redis cache whose keys live under "ac:<name>:". A
// ttl of zero stores entries without expiry.
func NewRedis[V any](client redis.UniversalClient, name string, ttl time.Duration, logger *zap.Logger) *Redis[V] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Redis[V]{
		client: client,
		prefix: "ac:" + name + ":",
		ttl:    ttl,
		logger: logger,
	}
}

func (c *Redis[V]) key(k string) string { return c.prefix + k }

// Get fetches and decodes the value for key. Decode failures evict the
// corrupt entry.
func (c *Redis[V]) Get(ctx context.Context, key string) (V, bool) {
	var zero V
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err == redis.Nil {
		return zero, false
	}
	if err != nil {
		c.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return zero, false
	}
	var value V
	if err := json.Unmarshal(raw, &value); err != nil {
		c.logger.Warn("cache entry corrupt, evicting", zap.String("key", key), zap.Error(err))
		c.client.Del(ctx, c.key(key))
		return zero, false
	}
	return value, true
}

// Put encodes and stores value under key with the configured TTL.
func (c *Redis[V]) Put(ctx context.Context, key string, value V) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, c.key(key), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("cache put failed", zap.String("key", key), zap.Error(err))
	}
}

// Remove evicts key if present.
func (c *Redis[V]) Remove(ctx context.Context, key string) {
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		c.logger.Warn("cache remove failed", zap.String("key", key), zap.Error(err))
	}
}

// Clear evicts every entry under this cache's prefix.
func (c *Redis[V]) Clear(ctx context.Context) {
	for _, k := range c.scan(ctx) {
		c.client.Del(ctx, k)
	}
}

// Size counts the entries under this cache's prefix. The count is a
// point-in-time estimate, entries may expire during the scan.
func (c *Redis[V]) Size(ctx context.Context) int {
	return len(c.scan(ctx))
}

// Keys returns the cache keys currently stored, prefix stripped.
func (c *Redis[V]) Keys(ctx context.Context) []string {
	full := c.scan(ctx)
	keys := make([]string, 0, len(full))
	for _, k := range full {
		keys = append(keys, k[len(c.prefix):])
	}
	return keys
}

// Values fetches and decodes every stored value. Corrupt or vanished
// entries are skipped.
func (c *Redis[V]) Values(ctx context.Context) []V {
	full := c.scan(ctx)
	values := make([]V, 0, len(full))
	for _, k := range full {
		raw, err := c.client.Get(ctx, k).Bytes()
		if err != nil {
			continue
		}
		var value V
		if err := json.Unmarshal(raw, &value); err != nil {
			continue
		}
		values = append(values, value)
	}
	return values
}

// scan walks the keyspace under the cache prefix with SCAN so large
// caches never block the server the way KEYS would.
func (c *Redis[V]) scan(ctx context.Context) []string {
	var (
		keys   []string
		cursor uint64
	)
	for {
		batch, next, err := c.client.Scan(ctx, cursor, c.prefix+"*", 256).Result()
		if err != nil {
			c.logger.Warn("cache scan failed", zap.Error(err))
			return keys
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			return keys
		}
	}
}
