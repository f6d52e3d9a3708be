package domain

import "time"

// SlotStatus is the occupancy state of a parking slot.
type SlotStatus string

const (
	SlotAvailable   SlotStatus = "available"
	SlotOccupied    SlotStatus = "occupied"
	SlotMaintenance SlotStatus = "maintenance"
)

// ParkingSlot is a single numbered parking space.
//
// Invariant: Status == SlotOccupied exactly when UserID is non-nil. Assign
// and Release on the slot repository are the only mutators of the
// (status, user_id, assigned_at) triple, so the two fields can never drift.
type ParkingSlot struct {
	ID         string     `json:"id"`
	SlotNumber string     `json:"slot_number"`
	Status     SlotStatus `json:"status"`
	UserID     *string    `json:"user_id,omitempty"`
	AssignedAt *time.Time `json:"assigned_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Occupied reports whether the slot is currently bound to a user.
func (s *ParkingSlot) Occupied() bool {
	return s.Status == SlotOccupied
}
