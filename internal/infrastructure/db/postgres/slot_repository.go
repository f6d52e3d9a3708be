package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/parkwise/parking-system/internal/core/domain"
	"github.com/parkwise/parking-system/internal/core/ports"
)

const slotColumns = `id, slot_number, status, user_id, assigned_at, created_at, updated_at`

type SlotRepository struct {
	q Querier
}

func (r *SlotRepository) Create(ctx context.Context, slot *domain.ParkingSlot) (*domain.ParkingSlot, error) {
	s := *slot
	if s.ID == "" {
		s.ID = uuid.NewString()
	}

	_, err := r.q.Exec(ctx, `
		INSERT INTO parking_slots (id, slot_number, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, s.ID, s.SlotNumber, s.Status, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if uniqueViolation(err, constraintSlotNumber) {
			return nil, domain.ErrSlotExists
		}
		return nil, fmt.Errorf("insert slot: %w", err)
	}
	return &s, nil
}

func (r *SlotRepository) FindByID(ctx context.Context, id string) (*domain.ParkingSlot, error) {
	return scanSlot(r.q.QueryRow(ctx,
		`SELECT `+slotColumns+` FROM parking_slots WHERE id = $1`, id))
}

func (r *SlotRepository) FindByUserID(ctx context.Context, userID string) (*domain.ParkingSlot, error) {
	return scanSlot(r.q.QueryRow(ctx,
		`SELECT `+slotColumns+` FROM parking_slots WHERE user_id = $1 AND status = 'occupied'`, userID))
}

func (r *SlotRepository) FirstAvailable(ctx context.Context) (*domain.ParkingSlot, error) {
	return scanSlot(r.q.QueryRow(ctx,
		`SELECT `+slotColumns+` FROM parking_slots WHERE status = 'available' ORDER BY slot_number LIMIT 1`))
}

func (r *SlotRepository) List(ctx context.Context, filter ports.ListSlotsFilter) ([]*domain.ParkingSlot, int64, error) {
	where := "TRUE"
	args := []any{}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += fmt.Sprintf(" AND slot_number ILIKE $%d", len(args))
	}

	var total int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM parking_slots WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count slots: %w", err)
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	rows, err := r.q.Query(ctx, fmt.Sprintf(
		`SELECT `+slotColumns+` FROM parking_slots WHERE `+where+` ORDER BY slot_number LIMIT $%d OFFSET $%d`,
		len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	var slots []*domain.ParkingSlot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, 0, err
		}
		slots = append(slots, s)
	}
	return slots, total, rows.Err()
}

func (r *SlotRepository) Update(ctx context.Context, id string, fields ports.UpdateSlotFields) (*domain.ParkingSlot, error) {
	set := "updated_at = now()"
	args := []any{id}
	if fields.SlotNumber != nil {
		args = append(args, *fields.SlotNumber)
		set += fmt.Sprintf(", slot_number = $%d", len(args))
	}
	if fields.Status != nil {
		args = append(args, *fields.Status)
		set += fmt.Sprintf(", status = $%d", len(args))
	}

	row := r.q.QueryRow(ctx,
		`UPDATE parking_slots SET `+set+` WHERE id = $1 RETURNING `+slotColumns, args...)
	slot, err := scanSlot(row)
	if err != nil {
		if uniqueViolation(err, constraintSlotNumber) {
			return nil, domain.ErrSlotExists
		}
		return nil, err
	}
	return slot, nil
}

func (r *SlotRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx,
		`DELETE FROM parking_slots WHERE id = $1 AND status <> 'occupied'`, id)
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish "occupied" from "gone".
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return domain.ErrSlotOccupied
	}
	return nil
}

func (r *SlotRepository) Assign(ctx context.Context, slotID, userID string, at time.Time) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE parking_slots
		SET status = 'occupied', user_id = $2, assigned_at = $3, updated_at = now()
		WHERE id = $1 AND status = 'available' AND user_id IS NULL
	`, slotID, userID, at)
	if err != nil {
		if uniqueViolation(err, constraintSlotOneHolder) {
			return domain.ErrUserHasSlot
		}
		return fmt.Errorf("assign slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.FindByID(ctx, slotID); err != nil {
			return err
		}
		return domain.ErrSlotUnavailable
	}
	return nil
}

func (r *SlotRepository) Release(ctx context.Context, userID string) (*domain.ParkingSlot, error) {
	row := r.q.QueryRow(ctx, `
		UPDATE parking_slots
		SET status = 'available', user_id = NULL, assigned_at = NULL, updated_at = now()
		WHERE user_id = $1 AND status = 'occupied'
		RETURNING `+slotColumns, userID)
	slot, err := scanSlot(row)
	if err != nil {
		if errors.Is(err, domain.ErrSlotNotFound) {
			return nil, domain.ErrNoSlotHeld
		}
		return nil, err
	}
	return slot, nil
}

func (r *SlotRepository) CountByStatus(ctx context.Context) (map[domain.SlotStatus]int64, error) {
	rows, err := r.q.Query(ctx, `SELECT status, COUNT(*) FROM parking_slots GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count slots by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.SlotStatus]int64)
	for rows.Next() {
		var status domain.SlotStatus
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func scanSlot(row rowScanner) (*domain.ParkingSlot, error) {
	var s domain.ParkingSlot
	err := row.Scan(
		&s.ID,
		&s.SlotNumber,
		&s.Status,
		&s.UserID,
		&s.AssignedAt,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err, domain.ErrSlotNotFound)
	}
	return &s, nil
}
