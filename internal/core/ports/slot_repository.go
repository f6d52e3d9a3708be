package ports

import (
	"context"
	"time"

	"github.com/parkwise/parking-system/internal/core/domain"
)

// ListSlotsFilter carries query parameters for slot listings. Search is
// sanitized by the service before it reaches the repository.
type ListSlotsFilter struct {
	Status string // optional: filter by slot status
	Search string // optional: partial match on slot_number
	Page   int    // 1-based
	Limit  int
}

// UpdateSlotFields holds the mutable inventory fields of a slot. Nil means
// "leave unchanged". Occupancy fields are deliberately absent: only Assign
// and Release may touch them.
type UpdateSlotFields struct {
	SlotNumber *string
	Status     *domain.SlotStatus
}

// SlotRepository defines persistence operations for parking slots.
//
// Assign and Release are the single state-transition functions for the
// (status, user_id, assigned_at) triple; no other operation mutates
// occupancy.
type SlotRepository interface {
	Create(ctx context.Context, slot *domain.ParkingSlot) (*domain.ParkingSlot, error)
	FindByID(ctx context.Context, id string) (*domain.ParkingSlot, error)
	// FindByUserID returns the slot currently occupied by the user, or
	// domain.ErrSlotNotFound when the user holds none.
	FindByUserID(ctx context.Context, userID string) (*domain.ParkingSlot, error)
	// FirstAvailable returns the available slot with the lowest slot number,
	// or domain.ErrSlotNotFound when the lot is full.
	FirstAvailable(ctx context.Context) (*domain.ParkingSlot, error)
	List(ctx context.Context, filter ListSlotsFilter) ([]*domain.ParkingSlot, int64, error)
	Update(ctx context.Context, id string, fields UpdateSlotFields) (*domain.ParkingSlot, error)
	// Delete removes a slot; it fails with domain.ErrSlotOccupied while the
	// slot is bound to a user.
	Delete(ctx context.Context, id string) error
	// Assign binds an available slot to a user, flipping status to occupied.
	Assign(ctx context.Context, slotID, userID string, at time.Time) error
	// Release frees the occupied slot held by userID, nulling user_id and
	// assigned_at together, and returns the released slot.
	Release(ctx context.Context, userID string) (*domain.ParkingSlot, error)
	CountByStatus(ctx context.Context) (map[domain.SlotStatus]int64, error)
}
