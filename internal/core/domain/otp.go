package domain

import "time"

// OTPType distinguishes what a one-time code proves.
type OTPType string

const (
	OTPVerification OTPType = "verification"
	OTPReset        OTPType = "reset"
)

// OTPTTL is how long a code stays valid after issuance.
const OTPTTL = 10 * time.Minute

// OTP is a short-lived six-digit code keyed by (email, type, role).
// A code verifies successfully at most once: consumption flips IsUsed in the
// same statement that matches the row.
type OTP struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Code      string    `json:"-"`
	Type      OTPType   `json:"type"`
	Role      string    `json:"role"`
	IsUsed    bool      `json:"is_used"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
