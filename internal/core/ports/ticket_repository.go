package ports

import (
	"context"
	"time"

	"github.com/parkwise/parking-system/internal/core/domain"
)

// ListTicketsFilter carries query parameters for ticket listings and exports.
type ListTicketsFilter struct {
	UserID   string    // non-empty = scoped to one user
	Status   string    // optional: filter by ticket status
	Open     bool      // true = only pending/active tickets
	DateFrom time.Time // optional: created_at >= DateFrom
	DateTo   time.Time // optional: created_at <= DateTo
	Page     int       // 1-based; 0 disables pagination (exports)
	Limit    int
}

// TicketStats aggregates billing figures for dashboards.
type TicketStats struct {
	Completed    int64
	TotalRevenue int64
}

// TicketRepository defines persistence operations for tickets.
type TicketRepository interface {
	// Create inserts a pending ticket. A partial unique index on (user_id)
	// filtered to non-terminal statuses makes the insert fail with
	// domain.ErrActiveTicketExists under contention.
	Create(ctx context.Context, t *domain.Ticket) (*domain.Ticket, error)
	FindByID(ctx context.Context, id string) (*domain.Ticket, error)
	// FindOpenByUser returns the user's pending or active ticket, or
	// domain.ErrTicketNotFound.
	FindOpenByUser(ctx context.Context, userID string) (*domain.Ticket, error)
	List(ctx context.Context, filter ListTicketsFilter) ([]*domain.Ticket, int64, error)
	// Activate stamps the actual entry time on a pending ticket. Returns
	// domain.ErrInvalidTransition when the ticket is no longer pending.
	Activate(ctx context.Context, id string, entry time.Time) error
	// Complete stamps the actual exit time and bill on an active ticket.
	// Returns domain.ErrInvalidTransition when the ticket is not active.
	Complete(ctx context.Context, id string, exit time.Time, durationMinutes, amount int64) error
	CountByStatus(ctx context.Context) (map[domain.TicketStatus]int64, error)
	// Stats aggregates completed tickets created at or after since.
	Stats(ctx context.Context, since time.Time) (TicketStats, error)
}
