package domain

import "time"

// RequestStatus is the lifecycle state of a slot request.
// pending → approved | rejected; both outcomes are terminal.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// Resolved reports whether the request has reached a terminal state.
func (s RequestStatus) Resolved() bool {
	return s == RequestApproved || s == RequestRejected
}

const (
	// MaxRequestWindow caps how long a single request may span.
	MaxRequestWindow = 24 * time.Hour
	// MaxRequestReasonLen caps the optional free-text reason.
	MaxRequestReasonLen = 500
)

// SlotRequest is a user's bid for a slot over a future time window.
// At most one active (pending or approved) request may exist per user,
// enforced by a partial unique index on the slot_requests table.
type SlotRequest struct {
	ID                 string        `json:"id"`
	UserID             string        `json:"user_id"`
	SlotID             *string       `json:"slot_id,omitempty"`
	RequestedEntryTime time.Time     `json:"requested_entry_time"`
	RequestedExitTime  time.Time     `json:"requested_exit_time"`
	Reason             string        `json:"reason,omitempty"`
	RejectionReason    string        `json:"rejection_reason,omitempty"`
	Status             RequestStatus `json:"status"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`

	// Denormalised for admin listings; populated by joins only.
	UserName   string `json:"user_name,omitempty"`
	UserEmail  string `json:"user_email,omitempty"`
	SlotNumber string `json:"slot_number,omitempty"`
}

// ValidateWindow checks the requested window against the creation rules, in
// order: both timestamps present, entry strictly in the future, exit strictly
// after entry, span within MaxRequestWindow.
func ValidateWindow(entry, exit, now time.Time) error {
	if entry.IsZero() || exit.IsZero() {
		return ErrInvalidWindow
	}
	if !entry.After(now) {
		return ErrInvalidWindow
	}
	if !exit.After(entry) {
		return ErrInvalidWindow
	}
	if exit.Sub(entry) > MaxRequestWindow {
		return ErrWindowTooLong
	}
	return nil
}
