package ports

import (
	"context"
	"time"

	"github.com/parkwise/parking-system/internal/core/domain"
)

// CreateTicketInput carries the planned window for a new ticket.
type CreateTicketInput struct {
	UserID             string
	RequestedEntryTime time.Time
	RequestedExitTime  time.Time
}

// BillEstimate is the stateless cost preview for a candidate window.
type BillEstimate struct {
	DurationMinutes int64
	Amount          int64
	HourlyRate      int64
}

// TicketListResult is returned by ticket listings.
type TicketListResult struct {
	Items      []*domain.Ticket
	Pagination Pagination
}

// TicketService defines the ticket/billing workflow.
type TicketService interface {
	Create(ctx context.Context, input CreateTicketInput) (*domain.Ticket, error)
	// Activate moves a pending ticket to active, stamping the actual entry
	// time with the current clock.
	Activate(ctx context.Context, ticketID string) (*domain.Ticket, error)
	// Complete moves an active ticket to completed, computing duration and
	// amount from the actual entry time to now.
	Complete(ctx context.Context, ticketID string) (*domain.Ticket, error)
	// Estimate previews the bill for a candidate window using the identical
	// formula as Complete, without touching persistence.
	Estimate(entry, exit time.Time) (*BillEstimate, error)
	// MyOpen returns the caller's pending or active ticket.
	MyOpen(ctx context.Context, userID string) (*domain.Ticket, error)
	List(ctx context.Context, filter ListTicketsFilter) (*TicketListResult, error)
	// Export returns all tickets matching the filter, unpaginated, for CSV
	// rendering by the transport layer.
	Export(ctx context.Context, filter ListTicketsFilter) ([]*domain.Ticket, error)
}
