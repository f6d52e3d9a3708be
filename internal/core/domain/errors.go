package domain

import "errors"

// Sentinel errors for the parking domain. The API error handler maps these
// to HTTP codes: credentials/token problems → 401, gate failures → 403,
// missing resources → 404, conflicts and illegal transitions → 400.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrAccountNotApproved = errors.New("account pending approval")
	ErrAccountRejected    = errors.New("account rejected")
	ErrForbidden          = errors.New("access forbidden")

	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("email already registered")

	ErrOTPInvalid = errors.New("invalid or expired code")

	ErrSlotNotFound    = errors.New("parking slot not found")
	ErrSlotExists      = errors.New("slot number already exists")
	ErrSlotOccupied    = errors.New("parking slot is occupied")
	ErrSlotUnavailable = errors.New("parking slot is not available")
	ErrUserHasSlot     = errors.New("user already holds a slot")
	ErrNoSlotHeld      = errors.New("no occupied slot held by user")

	ErrRequestNotFound     = errors.New("slot request not found")
	ErrRequestResolved     = errors.New("slot request already resolved")
	ErrActiveRequestExists = errors.New("an active slot request already exists")
	ErrInvalidWindow       = errors.New("invalid requested time window")
	ErrWindowTooLong       = errors.New("requested window exceeds 24 hours")
	ErrReasonTooLong       = errors.New("reason exceeds 500 characters")
	ErrReasonRequired      = errors.New("rejection reason is required")

	ErrTicketNotFound     = errors.New("ticket not found")
	ErrActiveTicketExists = errors.New("an active ticket already exists")
	ErrInvalidTransition  = errors.New("invalid state transition")

	ErrNotificationNotFound = errors.New("notification not found")
)
