// Package notification computes unread message badges.
package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uniedit/returns/internal/domain/authz"
	"github.com/uniedit/returns/internal/model"
	"github.com/uniedit/returns/internal/port/outbound"
	"go.uber.org/zap"
)

// NotificationDomain defines the interface for unread counts.
type NotificationDomain interface {
	// UnreadCount is the number of admin-authored messages the customer has not read,
	// across all of the customer's return requests.
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)

	// UnreadCountsAdmin is the per-request and total number of customer-authored
	// messages no admin has read.
	UnreadCountsAdmin(ctx context.Context) (*model.AdminUnreadSummary, error)
}

type notificationDomain struct {
	messageDB outbound.MessageDatabasePort
	cache     outbound.UnreadCountCachePort
	authz     authz.Authorizer
	logger    *zap.Logger
}

// NewNotificationDomain creates a new notification domain service. cache may be nil.
func NewNotificationDomain(
	messageDB outbound.MessageDatabasePort,
	cache outbound.UnreadCountCachePort,
	authorizer authz.Authorizer,
	logger *zap.Logger,
) NotificationDomain {
	return &notificationDomain{
		messageDB: messageDB,
		cache:     cache,
		authz:     authorizer,
		logger:    logger,
	}
}

func (d *notificationDomain) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	if _, err := d.authz.RequireSelf(ctx, userID); err != nil {
		return 0, err
	}

	// fill stays false when the cache is absent or unreadable, so nothing is written back.
	var (
		version int64
		fill    bool
	)
	if d.cache != nil {
		count, v, err := d.cache.GetUserUnread(ctx, userID)
		switch {
		case err == nil:
			return count, nil
		case errors.Is(err, outbound.ErrCacheMiss):
			version, fill = v, true
		default:
			d.logger.Warn("unread cache read failed", zap.String("user_id", userID.String()), zap.Error(err))
		}
	}

	count, err := d.messageDB.CountUnreadForUser(ctx, userID, model.SenderAdmin)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}

	if fill {
		stored, err := d.cache.SetUserUnread(ctx, userID, count, version)
		if err != nil {
			d.logger.Warn("unread cache write failed", zap.String("user_id", userID.String()), zap.Error(err))
		} else if !stored {
			d.logger.Debug("unread count changed while counting, not cached", zap.String("user_id", userID.String()))
		}
	}
	return count, nil
}

func (d *notificationDomain) UnreadCountsAdmin(ctx context.Context) (*model.AdminUnreadSummary, error) {
	if _, err := d.authz.RequireRole(ctx, model.RoleAdmin); err != nil {
		return nil, err
	}

	perRequest, err := d.messageDB.CountUnreadByRequest(ctx, model.SenderCustomer)
	if err != nil {
		return nil, fmt.Errorf("count unread by request: %w", err)
	}

	summary := &model.AdminUnreadSummary{ByRequest: perRequest}
	if summary.ByRequest == nil {
		summary.ByRequest = []model.RequestUnreadCount{}
	}
	for _, r := range perRequest {
		summary.Total += r.Unread
	}
	return summary, nil
}

var _ NotificationDomain = (*notificationDomain)(nil)
