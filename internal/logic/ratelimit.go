package logic

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// RateLimiter is a fixed one-second window counter per client kept in Redis,
// so every replica shares the same budget.
type RateLimiter struct {
	redis  RedisClient
	limit  int
	logger *zap.SugaredLogger
	now    func() time.Time
}

func NewRateLimiter(client RedisClient, limitPerSecond int, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		redis:  client,
		limit:  limitPerSecond,
		logger: logger.Sugar(),
		now:    time.Now,
	}
}

// Allow records one request for client and reports whether it fits in the
// current window. Redis failures let the request through.
func (l *RateLimiter) Allow(ctx context.Context, client string) bool {
	if l.limit <= 0 {
		return true
	}
	key := fmt.Sprintf("prematch:ratelimit:%s:%d", client, l.now().Unix())

	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		l.logger.Warnw("Rate limiter unavailable, allowing request", "error", err)
		return true
	}
	if count == 1 {
		if err := l.redis.Expire(ctx, key, 2*time.Second).Err(); err != nil {
			l.logger.Warnw("Failed to set rate limit window expiry", "error", err, "key", key)
		}
	}
	if count > int64(l.limit) {
		rateLimited.Inc()
		return false
	}
	return true
}

// Ping checks the backing store.
func (l *RateLimiter) Ping(ctx context.Context) error {
	return l.redis.Ping(ctx).Err()
}
