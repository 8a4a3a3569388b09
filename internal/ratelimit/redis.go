package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/templui/macrotrack/internal/metrics"
)

// counter is the subset of the redis client the limiter needs.
type counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RedisLimiter shares fixed windows across instances through Redis. Any
// Redis error sends the request to the in-memory fallback.
type RedisLimiter struct {
	client   counter
	fallback *MemoryLimiter
	limit    int
	window   time.Duration
	now      func() time.Time
}

func NewRedisLimiter(client counter, fallback *MemoryLimiter, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client:   client,
		fallback: fallback,
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

// NewRedisClient parses a redis:// URL.
func NewRedisClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	opts.DialTimeout = 2 * time.Second
	opts.ReadTimeout = time.Second
	opts.WriteTimeout = time.Second
	return redis.NewClient(opts), nil
}

func (rl *RedisLimiter) Allow(ctx context.Context, key string) bool {
	windowMs := rl.window.Milliseconds()
	if windowMs <= 0 {
		windowMs = 1
	}
	bucketKey := fmt.Sprintf("ratelimit:%s:%d", key, rl.now().UnixMilli()/windowMs)

	count, err := rl.client.Incr(ctx, bucketKey).Result()
	if err != nil {
		slog.Warn("redis rate limit failed, using memory", "error", err, "key", key)
		metrics.RateLimiterFallback()
		return rl.fallback.Allow(ctx, key)
	}

	if count == 1 {
		err = rl.client.Expire(ctx, bucketKey, rl.window).Err()
		if err != nil {
			slog.Warn("failed to set rate limit expiry", "error", err, "key", bucketKey)
		}
	}

	return count <= int64(rl.limit)
}
