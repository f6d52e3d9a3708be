package ports

import (
	"context"

	"github.com/parkwise/parking-system/internal/core/domain"
)

// NotificationListResult is returned by notification listings.
type NotificationListResult struct {
	Items      []*domain.Notification
	Unread     int64
	Pagination Pagination
}

// NotificationService exposes a user's notification feed.
type NotificationService interface {
	List(ctx context.Context, userID string, page, limit int) (*NotificationListResult, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) error
}
