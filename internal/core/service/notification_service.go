package service

import (
	"context"

	"github.com/parkwise/parking-system/internal/core/ports"
)

// NotificationService exposes a user's notification feed.
type NotificationService struct {
	store ports.Store
}

func NewNotificationService(store ports.Store) *NotificationService {
	return &NotificationService{store: store}
}

func (s *NotificationService) List(ctx context.Context, userID string, page, limit int) (*ports.NotificationListResult, error) {
	page, limit = normalizePaging(page, limit)

	items, total, err := s.store.Notifications().ListByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}
	unread, err := s.store.Notifications().CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ports.NotificationListResult{
		Items:      items,
		Unread:     unread,
		Pagination: newPagination(total, page, limit),
	}, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	return s.store.Notifications().MarkRead(ctx, userID, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.store.Notifications().MarkAllRead(ctx, userID)
}
