package domain

import "time"

// TicketStatus represents the lifecycle state of a parking ticket.
type TicketStatus string

const (
	TicketPending   TicketStatus = "pending"
	TicketActive    TicketStatus = "active"
	TicketCompleted TicketStatus = "completed"
	TicketCancelled TicketStatus = "cancelled"
)

// validTicketTransitions defines the allowed state machine transitions.
var validTicketTransitions = map[TicketStatus][]TicketStatus{
	TicketPending: {TicketActive, TicketCancelled},
	TicketActive:  {TicketCompleted, TicketCancelled},
}

// CanTransitionTo reports whether a transition from the current status to
// next is valid.
func (s TicketStatus) CanTransitionTo(next TicketStatus) bool {
	for _, allowed := range validTicketTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s TicketStatus) Terminal() bool {
	return s == TicketCompleted || s == TicketCancelled
}

// Ticket is the billable record of one parking session. The requested window
// is the plan; the actual times are stamped by Activate/Complete. Duration
// and Amount stay nil until completion. At most one non-terminal ticket may
// exist per user, enforced by a partial unique index on the tickets table.
type Ticket struct {
	ID                 string       `json:"id"`
	UserID             string       `json:"user_id"`
	SlotID             *string      `json:"slot_id,omitempty"`
	RequestedEntryTime time.Time    `json:"requested_entry_time"`
	RequestedExitTime  time.Time    `json:"requested_exit_time"`
	ActualEntryTime    *time.Time   `json:"actual_entry_time,omitempty"`
	ActualExitTime     *time.Time   `json:"actual_exit_time,omitempty"`
	DurationMinutes    *int64       `json:"duration_minutes,omitempty"`
	Amount             *int64       `json:"amount,omitempty"`
	Status             TicketStatus `json:"status"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`

	// Denormalised for listings and CSV export; populated by joins only.
	UserName    string `json:"user_name,omitempty"`
	PlateNumber string `json:"plate_number,omitempty"`
	SlotNumber  string `json:"slot_number,omitempty"`
}

// ComputeBill converts a parking span into billed minutes and an amount.
// Minutes are rounded up to the next whole minute, and any partial hour is
// billed as a full hour: a one-minute stay costs one hour at hourlyRate.
// Complete and the stateless estimate endpoint both go through this function
// so that a preview always matches the final bill for the same timestamps.
func ComputeBill(entry, exit time.Time, hourlyRate int64) (durationMinutes, amount int64) {
	span := exit.Sub(entry)
	if span <= 0 {
		return 0, 0
	}
	durationMinutes = int64(span / time.Minute)
	if span%time.Minute != 0 {
		durationMinutes++
	}
	hours := (durationMinutes + 59) / 60
	return durationMinutes, hours * hourlyRate
}
