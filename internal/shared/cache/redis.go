package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/uniedit/returns/internal/shared/config"
)

// NewRedisClient creates a new Redis client and pings it.
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (redis.UniversalClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

// Close closes the Redis client.
func Close(client redis.UniversalClient) error {
	return client.Close()
}
