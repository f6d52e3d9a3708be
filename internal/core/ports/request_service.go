package ports

import (
	"context"
	"time"

	"github.com/parkwise/parking-system/internal/core/domain"
)

// CreateRequestInput carries a user's bid for a slot over a time window.
type CreateRequestInput struct {
	UserID             string
	RequestedEntryTime time.Time
	RequestedExitTime  time.Time
	Reason             string
}

// RequestListResult is returned by slot request listings.
type RequestListResult struct {
	Items      []*domain.SlotRequest
	Pagination Pagination
}

// RequestService defines the slot request workflow.
type RequestService interface {
	Create(ctx context.Context, input CreateRequestInput) (*domain.SlotRequest, error)
	// Approve binds the slot to the requester, marks the request approved
	// and opens a pending ticket for the requested window, atomically.
	// The confirmation email is sent best-effort after commit.
	Approve(ctx context.Context, requestID, slotID string) (*domain.SlotRequest, error)
	Reject(ctx context.Context, requestID, reason string) (*domain.SlotRequest, error)
	List(ctx context.Context, filter ListRequestsFilter) (*RequestListResult, error)
}
