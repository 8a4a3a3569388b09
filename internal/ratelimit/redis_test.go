package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCounter struct {
	counts  map[string]int64
	expires map[string]time.Duration
	err     error
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{counts: map[string]int64{}, expires: map[string]time.Duration{}}
}

func (f *fakeCounter) Incr(_ context.Context, key string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	f.counts[key]++
	return redis.NewIntResult(f.counts[key], nil)
}

func (f *fakeCounter) Expire(_ context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	f.expires[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func TestRedisLimiter_Allow(t *testing.T) {
	fallback := NewMemoryLimiter(2, time.Minute)
	defer fallback.Close()

	client := newFakeCounter()
	rl := NewRedisLimiter(client, fallback, 2, time.Minute)
	rl.now = func() time.Time { return time.UnixMilli(120_000) }
	ctx := context.Background()

	assert.True(t, rl.Allow(ctx, "ingest:1.2.3.4"))
	assert.True(t, rl.Allow(ctx, "ingest:1.2.3.4"))
	assert.False(t, rl.Allow(ctx, "ingest:1.2.3.4"))

	require.Contains(t, client.counts, "ratelimit:ingest:1.2.3.4:2")
	assert.Equal(t, time.Minute, client.expires["ratelimit:ingest:1.2.3.4:2"])
	assert.Equal(t, 0, fallback.size())
}

func TestRedisLimiter_FallsBackToMemory(t *testing.T) {
	fallback := NewMemoryLimiter(1, time.Minute)
	defer fallback.Close()

	client := newFakeCounter()
	client.err = errors.New("connection refused")
	rl := NewRedisLimiter(client, fallback, 10, time.Minute)
	ctx := context.Background()

	assert.True(t, rl.Allow(ctx, "k"))
	assert.False(t, rl.Allow(ctx, "k"))
	assert.Equal(t, 1, fallback.size())
}

func TestNewRedisClient(t *testing.T) {
	client, err := NewRedisClient("redis://localhost:6379/0")
	require.NoError(t, err)
	defer client.Close()

	_, err = NewRedisClient("http://nope")
	assert.Error(t, err)
}
