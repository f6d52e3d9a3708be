package ports

import (
	"context"

	"github.com/parkwise/parking-system/internal/core/domain"
)

// SlotListResult is returned by slot listings.
type SlotListResult struct {
	Items      []*domain.ParkingSlot
	Pagination Pagination
}

// SlotService defines slot inventory use cases.
type SlotService interface {
	// List returns slots matching the filter. Free-text search is sanitized
	// to alphanumeric/space/dash before reaching the repository.
	List(ctx context.Context, filter ListSlotsFilter) (*SlotListResult, error)
	// MySlot returns the slot occupied by the user, or domain.ErrSlotNotFound.
	MySlot(ctx context.Context, userID string) (*domain.ParkingSlot, error)
	Create(ctx context.Context, slotNumber string) (*domain.ParkingSlot, error)
	Update(ctx context.Context, id string, fields UpdateSlotFields) (*domain.ParkingSlot, error)
	Delete(ctx context.Context, id string) error
	// Assign binds an available slot to a user and notifies them.
	Assign(ctx context.Context, slotID, userID string) error
	// Release frees the slot held by the user and notifies them.
	Release(ctx context.Context, userID string) error
}
