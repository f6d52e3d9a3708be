package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/parkwise/parking-system/internal/core/domain"
)

type NotificationRepository struct {
	q Querier
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	id := n.ID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO notifications (id, user_id, title, message, is_read, created_at)
		VALUES ($1, $2, $3, $4, FALSE, $5)
	`, id, n.UserID, n.Title, n.Message, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, page, limit int) ([]*domain.Notification, int64, error) {
	var total int64
	if err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, user_id, title, message, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var items []*domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &n)
	}
	return items, total, rows.Err()
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return n, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`, userID)
	if err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}

type OTPRepository struct {
	q Querier
}

func (r *OTPRepository) Create(ctx context.Context, otp *domain.OTP) error {
	id := otp.ID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO otps (id, email, code, type, role, is_used, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, $6, $7)
	`, id, otp.Email, otp.Code, otp.Type, otp.Role, otp.ExpiresAt, otp.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert otp: %w", err)
	}
	return nil
}

// Consume matches and burns the code in one statement, so a given
// (email, code, type, role) verifies at most once.
func (r *OTPRepository) Consume(ctx context.Context, email, code string, otpType domain.OTPType, role string) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE otps
		SET is_used = TRUE
		WHERE email = $1 AND code = $2 AND type = $3 AND role = $4
		  AND is_used = FALSE AND expires_at > now()
	`, email, code, otpType, role)
	if err != nil {
		return fmt.Errorf("consume otp: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOTPInvalid
	}
	return nil
}
