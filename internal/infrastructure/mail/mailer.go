// Package mail implements the outbound Mailer port. Actual SMTP delivery is
// handled by an external relay; this implementation records every send as a
// structured log line so the flow stays observable in environments without a
// relay. Credentials for the relay live in config.SMTPConfig.
package mail

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/parkwise/parking-system/internal/core/domain"
)

// LogMailer writes outbound mail to the structured log.
type LogMailer struct {
	from string
	log  zerolog.Logger
}

func NewLogMailer(from string, log zerolog.Logger) *LogMailer {
	return &LogMailer{from: from, log: log}
}

func (m *LogMailer) SendOTP(ctx context.Context, to, code string, purpose domain.OTPType) error {
	subject := "Your verification code"
	if purpose == domain.OTPReset {
		subject = "Your password reset code"
	}
	body := fmt.Sprintf("Your one-time code is %s. It expires in %s.", code, domain.OTPTTL)
	return m.Send(ctx, to, subject, body)
}

func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	m.log.Info().
		Str("from", m.from).
		Str("to", to).
		Str("subject", subject).
		Str("body", body).
		Msg("outbound mail")
	return nil
}
