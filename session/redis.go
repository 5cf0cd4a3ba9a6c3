package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func sessionKey(id string) string {
	return "sess:" + id
}

// RedisDAO stores session records as JSON in Redis. Expiry decisions
// stay with the manager; the Redis TTL is set to twice the idle
// timeout purely so abandoned records get garbage collected.
type RedisDAO struct {
	client redis.UniversalClient
	logger *zap.Logger
}

// NewRedisDAO builds a DAO on client.
func NewRedisDAO(client redis.UniversalClient, logger *zap.Logger) *RedisDAO {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisDAO{client: client, logger: logger}
}

func storageTTL(record *Record) time.Duration {
	if timeout := record.Timeout(); timeout > 0 {
		return 2 * timeout
	}
	return 0
}

func (d *RedisDAO) write(ctx context.Context, record *Record) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode session %q: %w", record.ID(), err)
	}
	if err := d.client.Set(ctx, sessionKey(record.ID()), raw, storageTTL(record)).Err(); err != nil {
		return fmt.Errorf("store session %q: %w", record.ID(), err)
	}
	return nil
}

func (d *RedisDAO) Create(ctx context.Context, record *Record) error {
	return d.write(ctx, record)
}

func (d *RedisDAO) Read(ctx context.Context, id string) (*Record, error) {
	raw, err := d.client.Get(ctx, sessionKey(id)).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("%w: id %q", ErrUnknownSession, id)
	}
	if err != nil {
		return nil, fmt.Errorf("read session %q: %w", id, err)
	}
	record := &Record{}
	if err := json.Unmarshal(raw, record); err != nil {
		return nil, fmt.Errorf("decode session %q: %w", id, err)
	}
	return record, nil
}

func (d *RedisDAO) Update(ctx context.Context, record *Record) error {
	return d.write(ctx, record)
}

func (d *RedisDAO) Delete(ctx context.Context, id string) error {
	if err := d.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("delete session %q: %w", id, err)
	}
	return nil
}

// ActiveSessions scans the session keyspace and returns the records
// still valid. Records that vanish or fail to decode mid-scan are
// skipped with a warning.
func (d *RedisDAO) ActiveSessions(ctx context.Context) ([]*Record, error) {
	var (
		active []*Record
		cursor uint64
	)
	for {
		keys, next, err := d.client.Scan(ctx, cursor, sessionKey("*"), 256).Result()
		if err != nil {
			return nil, fmt.Errorf("scan sessions: %w", err)
		}
		for _, key := range keys {
			raw, err := d.client.Get(ctx, key).Bytes()
			if err != nil {
				continue
			}
			record := &Record{}
			if err := json.Unmarshal(raw, record); err != nil {
				d.logger.Warn("skipping undecodable session", zap.String("key", key), zap.Error(err))
				continue
			}
			if record.Valid() {
				active = append(active, record)
			}
		}
		cursor = next
		if cursor == 0 {
			return active, nil
		}
	}
}
