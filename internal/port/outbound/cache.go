package outbound

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrCacheMiss is returned when a key is not present in the cache.
var ErrCacheMiss = errors.New("cache miss")

// UnreadCountCachePort caches per-customer unread message counts.
//
// Each customer has a version that every invalidation bumps. A count read from
// the database is only stored if the version is still the one observed on the
// miss, so a fill racing an invalidation cannot put a stale count back.
type UnreadCountCachePort interface {
	// GetUserUnread returns the cached count. On ErrCacheMiss the returned version
	// is the one to pass to SetUserUnread.
	GetUserUnread(ctx context.Context, userID uuid.UUID) (count int64, version int64, err error)

	// SetUserUnread stores the count unless the version moved since the miss.
	// It reports whether the count was stored.
	SetUserUnread(ctx context.Context, userID uuid.UUID, count, version int64) (bool, error)

	// InvalidateUserUnread drops the cached count and bumps the version.
	InvalidateUserUnread(ctx context.Context, userID uuid.UUID) error
}
