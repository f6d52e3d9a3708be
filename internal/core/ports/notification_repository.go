package ports

import (
	"context"

	"github.com/parkwise/parking-system/internal/core/domain"
)

// NotificationRepository defines persistence for user notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID string, page, limit int) ([]*domain.Notification, int64, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	// MarkRead flags one of the user's notifications as read; it returns
	// domain.ErrNotificationNotFound when the row does not belong to them.
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) error
}

// OTPRepository defines persistence for one-time codes.
type OTPRepository interface {
	Create(ctx context.Context, otp *domain.OTP) error
	// Consume atomically marks the matching unused, unexpired code as used.
	// The match and the flip happen in one statement, so a given code
	// verifies at most once. Returns domain.ErrOTPInvalid when no row
	// qualifies.
	Consume(ctx context.Context, email, code string, otpType domain.OTPType, role string) error
}
