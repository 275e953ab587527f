package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/uniedit/returns/internal/port/outbound"
)

const rateLimitKeyPrefix = "returns:ratelimit:"

// rateLimiter implements outbound.RateLimiterPort with a sliding-window log
// kept in a sorted set per key.
type rateLimiter struct {
	client redis.Cmdable
}

// NewRateLimiter creates a new rate limiter adapter.
func NewRateLimiter(client redis.Cmdable) outbound.RateLimiterPort {
	return &rateLimiter{client: client}
}

func (r *rateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	fullKey := rateLimitKeyPrefix + key
	now := time.Now()

	count, err := r.trim(ctx, fullKey, now, window)
	if err != nil {
		return false, err
	}
	if count >= int64(limit) {
		return false, nil
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, fullKey, redis.Z{
			Score:  float64(now.UnixNano()),
			Member: uuid.NewString(),
		})
		pipe.Expire(ctx, fullKey, window)
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *rateLimiter) GetRemaining(ctx context.Context, key string, limit int, window time.Duration) (int, error) {
	count, err := r.trim(ctx, rateLimitKeyPrefix+key, time.Now(), window)
	if err != nil {
		return 0, err
	}
	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// trim drops entries older than the window and returns how many remain.
func (r *rateLimiter) trim(ctx context.Context, fullKey string, now time.Time, window time.Duration) (int64, error) {
	windowStart := now.Add(-window).UnixNano()

	var countCmd *redis.IntCmd
	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, fullKey, "0", strconv.FormatInt(windowStart, 10))
		countCmd = pipe.ZCard(ctx, fullKey)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return countCmd.Val(), nil
}

// Compile-time check
var _ outbound.RateLimiterPort = (*rateLimiter)(nil)
