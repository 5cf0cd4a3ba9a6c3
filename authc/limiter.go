package authc

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func attemptsKey(principal string) string {
	return "ac:attempts:" + principal
}

// AttemptLimiter throttles login attempts per principal with a Redis
// fixed-window counter. A principal over budget is rejected with
// ErrExcessiveAttempts before any realm runs; a successful login
// resets the window.
type AttemptLimiter struct {
	client redis.UniversalClient
	max    int
	window time.Duration
	logger *zap.Logger
}

// NewAttemptLimiter allows at most max attempts per principal within
// window.
func NewAttemptLimiter(client redis.UniversalClient, max int, window time.Duration, logger *zap.Logger) (*AttemptLimiter, error) {
	if max <= 0 || window <= 0 {
		return nil, fmt.Errorf("%w: attempt limiter needs a positive budget and window", ErrConfiguration)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttemptLimiter{client: client, max: max, window: window, logger: logger}, nil
}

// Allow records an attempt for principal and reports whether it is
// within budget. An unreachable Redis fails open with a warning so a
// cache outage cannot lock every account out.
func (l *AttemptLimiter) Allow(ctx context.Context, principal string) error {
	key := attemptsKey(principal)
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		l.logger.Warn("attempt counter unavailable, allowing login",
			zap.String("principal", principal), zap.Error(err))
		return nil
	}

	// Fixed-window semantics: the TTL starts with the first hit.
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			l.logger.Warn("attempt counter expiry failed", zap.Error(err))
		}
	}

	if count > int64(l.max) {
		return fmt.Errorf("%w: principal %q exceeded %d attempts", ErrExcessiveAttempts, principal, l.max)
	}
	return nil
}

// Reset clears the attempt counter for principal.
func (l *AttemptLimiter) Reset(ctx context.Context, principal string) {
	if err := l.client.Del(ctx, attemptsKey(principal)).Err(); err != nil {
		l.logger.Warn("attempt counter reset failed",
			zap.String("principal", principal), zap.Error(err))
	}
}

// Attempts returns the current counter for principal. Missing keys
// read as zero.
func (l *AttemptLimiter) Attempts(ctx context.Context, principal string) (int, error) {
	count, err := l.client.Get(ctx, attemptsKey(principal)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return int(count), nil
}
