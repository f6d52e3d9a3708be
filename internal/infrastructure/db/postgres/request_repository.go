package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/parkwise/parking-system/internal/core/domain"
	"github.com/parkwise/parking-system/internal/core/ports"
)

// requestColumns joins requester identity and slot number for listings.
const requestColumns = `
	r.id, r.user_id, r.slot_id, r.requested_entry_time, r.requested_exit_time,
	r.reason, r.rejection_reason, r.status, r.created_at, r.updated_at,
	u.name, u.email, COALESCE(s.slot_number, '')`

const requestJoins = `
	FROM slot_requests r
	JOIN users u ON u.id = r.user_id
	LEFT JOIN parking_slots s ON s.id = r.slot_id`

type RequestRepository struct {
	q Querier
}

func (r *RequestRepository) Create(ctx context.Context, req *domain.SlotRequest) (*domain.SlotRequest, error) {
	sr := *req
	if sr.ID == "" {
		sr.ID = uuid.NewString()
	}

	_, err := r.q.Exec(ctx, `
		INSERT INTO slot_requests (id, user_id, requested_entry_time, requested_exit_time, reason, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, sr.ID, sr.UserID, sr.RequestedEntryTime, sr.RequestedExitTime, sr.Reason, sr.Status, sr.CreatedAt, sr.UpdatedAt)
	if err != nil {
		if uniqueViolation(err, constraintActiveRequest) {
			return nil, domain.ErrActiveRequestExists
		}
		return nil, fmt.Errorf("insert slot request: %w", err)
	}
	return &sr, nil
}

func (r *RequestRepository) FindByID(ctx context.Context, id string) (*domain.SlotRequest, error) {
	return scanRequest(r.q.QueryRow(ctx,
		`SELECT `+requestColumns+requestJoins+` WHERE r.id = $1`, id))
}

func (r *RequestRepository) List(ctx context.Context, filter ports.ListRequestsFilter) ([]*domain.SlotRequest, int64, error) {
	where := "TRUE"
	args := []any{}
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		where += fmt.Sprintf(" AND r.user_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND r.status = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		where += fmt.Sprintf(" AND (u.name ILIKE $%d OR u.email ILIKE $%d OR s.slot_number ILIKE $%d)", n, n, n)
	}

	var total int64
	if err := r.q.QueryRow(ctx,
		`SELECT COUNT(*)`+requestJoins+` WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count slot requests: %w", err)
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	rows, err := r.q.Query(ctx, fmt.Sprintf(
		`SELECT `+requestColumns+requestJoins+` WHERE `+where+` ORDER BY r.created_at DESC LIMIT $%d OFFSET $%d`,
		len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list slot requests: %w", err)
	}
	defer rows.Close()

	var reqs []*domain.SlotRequest
	for rows.Next() {
		sr, err := scanRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		reqs = append(reqs, sr)
	}
	return reqs, total, rows.Err()
}

func (r *RequestRepository) Resolve(ctx context.Context, id string, status domain.RequestStatus, slotID *string, rejectionReason string) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE slot_requests
		SET status = $2, slot_id = COALESCE($3, slot_id), rejection_reason = $4, updated_at = now()
		WHERE id = $1 AND status = 'pending'
	`, id, status, slotID, rejectionReason)
	if err != nil {
		return fmt.Errorf("resolve slot request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return domain.ErrRequestResolved
	}
	return nil
}

func (r *RequestRepository) HasActive(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM slot_requests
			WHERE user_id = $1 AND status IN ('pending', 'approved')
		)`, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check active request: %w", err)
	}
	return exists, nil
}

func (r *RequestRepository) CountByStatus(ctx context.Context) (map[domain.RequestStatus]int64, error) {
	rows, err := r.q.Query(ctx, `SELECT status, COUNT(*) FROM slot_requests GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count requests by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.RequestStatus]int64)
	for rows.Next() {
		var status domain.RequestStatus
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func scanRequest(row rowScanner) (*domain.SlotRequest, error) {
	var sr domain.SlotRequest
	err := row.Scan(
		&sr.ID,
		&sr.UserID,
		&sr.SlotID,
		&sr.RequestedEntryTime,
		&sr.RequestedExitTime,
		&sr.Reason,
		&sr.RejectionReason,
		&sr.Status,
		&sr.CreatedAt,
		&sr.UpdatedAt,
		&sr.UserName,
		&sr.UserEmail,
		&sr.SlotNumber,
	)
	if err != nil {
		return nil, notFound(err, domain.ErrRequestNotFound)
	}
	return &sr, nil
}
