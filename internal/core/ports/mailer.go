package ports

import (
	"context"

	"github.com/parkwise/parking-system/internal/core/domain"
)

// Mailer sends outbound email. Delivery is best-effort and always happens
// after the owning transaction commits: a send failure is logged by the
// caller but never rolls back a completed state transition.
type Mailer interface {
	SendOTP(ctx context.Context, to, code string, purpose domain.OTPType) error
	Send(ctx context.Context, to, subject, body string) error
}
