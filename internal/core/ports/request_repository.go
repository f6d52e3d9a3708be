package ports

import (
	"context"

	"github.com/parkwise/parking-system/internal/core/domain"
)

// ListRequestsFilter carries query parameters for slot request listings.
type ListRequestsFilter struct {
	UserID string // non-empty = scoped to one user
	Status string // optional: filter by request status
	Search string // optional: partial match on requester name/email or slot number
	Page   int    // 1-based
	Limit  int
}

// RequestRepository defines persistence operations for slot requests.
type RequestRepository interface {
	// Create inserts a pending request. A partial unique index on
	// (user_id) filtered to active statuses makes the insert itself fail
	// with domain.ErrActiveRequestExists under contention.
	Create(ctx context.Context, req *domain.SlotRequest) (*domain.SlotRequest, error)
	FindByID(ctx context.Context, id string) (*domain.SlotRequest, error)
	List(ctx context.Context, filter ListRequestsFilter) ([]*domain.SlotRequest, int64, error)
	// Resolve moves a pending request to a terminal status. It returns
	// domain.ErrRequestResolved when the request exists but is no longer
	// pending, and domain.ErrRequestNotFound when it does not exist.
	Resolve(ctx context.Context, id string, status domain.RequestStatus, slotID *string, rejectionReason string) error
	// HasActive reports whether the user has a pending or approved request.
	HasActive(ctx context.Context, userID string) (bool, error)
	CountByStatus(ctx context.Context) (map[domain.RequestStatus]int64, error)
}
