package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/parkwise/parking-system/internal/core/domain"
	"github.com/parkwise/parking-system/internal/core/ports"
)

// ticketColumns joins holder identity and slot number for listings and the
// CSV export.
const ticketColumns = `
	t.id, t.user_id, t.slot_id, t.requested_entry_time, t.requested_exit_time,
	t.actual_entry_time, t.actual_exit_time, t.duration_minutes, t.amount,
	t.status, t.created_at, t.updated_at,
	u.name, u.plate_number, COALESCE(s.slot_number, '')`

const ticketJoins = `
	FROM tickets t
	JOIN users u ON u.id = t.user_id
	LEFT JOIN parking_slots s ON s.id = t.slot_id`

type TicketRepository struct {
	q Querier
}

func (r *TicketRepository) Create(ctx context.Context, t *domain.Ticket) (*domain.Ticket, error) {
	tk := *t
	if tk.ID == "" {
		tk.ID = uuid.NewString()
	}

	_, err := r.q.Exec(ctx, `
		INSERT INTO tickets (id, user_id, slot_id, requested_entry_time, requested_exit_time, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, tk.ID, tk.UserID, tk.SlotID, tk.RequestedEntryTime, tk.RequestedExitTime, tk.Status, tk.CreatedAt, tk.UpdatedAt)
	if err != nil {
		if uniqueViolation(err, constraintOpenTicket) {
			return nil, domain.ErrActiveTicketExists
		}
		return nil, fmt.Errorf("insert ticket: %w", err)
	}
	return &tk, nil
}

func (r *TicketRepository) FindByID(ctx context.Context, id string) (*domain.Ticket, error) {
	return scanTicket(r.q.QueryRow(ctx,
		`SELECT `+ticketColumns+ticketJoins+` WHERE t.id = $1`, id))
}

func (r *TicketRepository) FindOpenByUser(ctx context.Context, userID string) (*domain.Ticket, error) {
	return scanTicket(r.q.QueryRow(ctx,
		`SELECT `+ticketColumns+ticketJoins+` WHERE t.user_id = $1 AND t.status IN ('pending', 'active')`, userID))
}

func (r *TicketRepository) List(ctx context.Context, filter ports.ListTicketsFilter) ([]*domain.Ticket, int64, error) {
	where := "TRUE"
	args := []any{}
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		where += fmt.Sprintf(" AND t.user_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND t.status = $%d", len(args))
	}
	if filter.Open {
		where += " AND t.status IN ('pending', 'active')"
	}
	if !filter.DateFrom.IsZero() {
		args = append(args, filter.DateFrom)
		where += fmt.Sprintf(" AND t.created_at >= $%d", len(args))
	}
	if !filter.DateTo.IsZero() {
		args = append(args, filter.DateTo)
		where += fmt.Sprintf(" AND t.created_at <= $%d", len(args))
	}

	var total int64
	if err := r.q.QueryRow(ctx,
		`SELECT COUNT(*)`+ticketJoins+` WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tickets: %w", err)
	}

	query := `SELECT ` + ticketColumns + ticketJoins + ` WHERE ` + where + ` ORDER BY t.created_at DESC`
	if filter.Page > 0 {
		args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*domain.Ticket
	for rows.Next() {
		tk, err := scanTicket(rows)
		if err != nil {
			return nil, 0, err
		}
		tickets = append(tickets, tk)
	}
	return tickets, total, rows.Err()
}

func (r *TicketRepository) Activate(ctx context.Context, id string, entry time.Time) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE tickets
		SET status = 'active', actual_entry_time = $2, updated_at = now()
		WHERE id = $1 AND status = 'pending'
	`, id, entry)
	if err != nil {
		return fmt.Errorf("activate ticket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return domain.ErrInvalidTransition
	}
	return nil
}

func (r *TicketRepository) Complete(ctx context.Context, id string, exit time.Time, durationMinutes, amount int64) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE tickets
		SET status = 'completed', actual_exit_time = $2, duration_minutes = $3, amount = $4, updated_at = now()
		WHERE id = $1 AND status = 'active'
	`, id, exit, durationMinutes, amount)
	if err != nil {
		return fmt.Errorf("complete ticket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return domain.ErrInvalidTransition
	}
	return nil
}

func (r *TicketRepository) CountByStatus(ctx context.Context) (map[domain.TicketStatus]int64, error) {
	rows, err := r.q.Query(ctx, `SELECT status, COUNT(*) FROM tickets GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count tickets by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.TicketStatus]int64)
	for rows.Next() {
		var status domain.TicketStatus
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (r *TicketRepository) Stats(ctx context.Context, since time.Time) (ports.TicketStats, error) {
	var stats ports.TicketStats
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(amount), 0)
		FROM tickets
		WHERE status = 'completed' AND created_at >= $1
	`, since).Scan(&stats.Completed, &stats.TotalRevenue)
	if err != nil {
		return ports.TicketStats{}, fmt.Errorf("ticket stats: %w", err)
	}
	return stats, nil
}

func scanTicket(row rowScanner) (*domain.Ticket, error) {
	var tk domain.Ticket
	err := row.Scan(
		&tk.ID,
		&tk.UserID,
		&tk.SlotID,
		&tk.RequestedEntryTime,
		&tk.RequestedExitTime,
		&tk.ActualEntryTime,
		&tk.ActualExitTime,
		&tk.DurationMinutes,
		&tk.Amount,
		&tk.Status,
		&tk.CreatedAt,
		&tk.UpdatedAt,
		&tk.UserName,
		&tk.PlateNumber,
		&tk.SlotNumber,
	)
	if err != nil {
		return nil, notFound(err, domain.ErrTicketNotFound)
	}
	return &tk, nil
}
