package redis

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/uniedit/returns/internal/port/outbound"
)

const (
	unreadUserKeyPrefix    = "returns:unread:user:"
	unreadVersionKeyPrefix = "returns:unread:version:"
)

// DefaultUnreadTTL bounds how stale a cached count can get if an invalidation is lost.
const DefaultUnreadTTL = 5 * time.Minute

// unreadVersionTTL outlives any count; an expired version reads as 0, which only
// makes an in-flight fill give up.
const unreadVersionTTL = 24 * time.Hour

// unreadCache implements outbound.UnreadCountCachePort.
type unreadCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewUnreadCache creates a new unread count cache adapter.
func NewUnreadCache(client redis.UniversalClient, ttl time.Duration) outbound.UnreadCountCachePort {
	if ttl <= 0 {
		ttl = DefaultUnreadTTL
	}
	return &unreadCache{client: client, ttl: ttl}
}

func unreadUserKey(userID uuid.UUID) string {
	return unreadUserKeyPrefix + userID.String()
}

func unreadVersionKey(userID uuid.UUID) string {
	return unreadVersionKeyPrefix + userID.String()
}

func (c *unreadCache) GetUserUnread(ctx context.Context, userID uuid.UUID) (int64, int64, error) {
	var countCmd, versionCmd *redis.StringCmd
	_, err := c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		countCmd = pipe.Get(ctx, unreadUserKey(userID))
		versionCmd = pipe.Get(ctx, unreadVersionKey(userID))
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, 0, err
	}

	version, err := versionCmd.Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, 0, err
	}
	count, err := countCmd.Int64()
	if errors.Is(err, redis.Nil) {
		return 0, version, outbound.ErrCacheMiss
	}
	if err != nil {
		return 0, 0, err
	}
	return count, version, nil
}

// errUnreadVersionMoved aborts a fill whose version is out of date.
var errUnreadVersionMoved = errors.New("unread version moved")

func (c *unreadCache) SetUserUnread(ctx context.Context, userID uuid.UUID, count, version int64) (bool, error) {
	versionKey := unreadVersionKey(userID)
	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, versionKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return errUnreadVersionMoved
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, unreadUserKey(userID), count, c.ttl)
			return nil
		})
		return err
	}, versionKey)

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, errUnreadVersionMoved), errors.Is(err, redis.TxFailedErr):
		return false, nil
	default:
		return false, err
	}
}

func (c *unreadCache) InvalidateUserUnread(ctx context.Context, userID uuid.UUID) error {
	versionKey := unreadVersionKey(userID)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey)
		pipe.Expire(ctx, versionKey, unreadVersionTTL)
		pipe.Del(ctx, unreadUserKey(userID))
		return nil
	})
	return err
}

// Compile-time check
var _ outbound.UnreadCountCachePort = (*unreadCache)(nil)
