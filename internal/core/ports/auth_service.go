package ports

import (
	"context"

	"github.com/parkwise/parking-system/internal/core/domain"
)

// RegisterInput carries user self-registration data.
type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	PlateNumber string
}

// RegisterAdminInput carries admin registration data.
type RegisterAdminInput struct {
	Name     string
	Email    string
	Password string
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token string
	ID    string
	Name  string
	Email string
	Role  string
}

// AuthService defines identity and onboarding use cases.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	RegisterAdmin(ctx context.Context, input RegisterAdminInput) (*domain.Admin, error)
	// VerifyEmail consumes a verification OTP and flips the principal's
	// is_email_verified flag.
	VerifyEmail(ctx context.Context, email, code, role string) error
	Login(ctx context.Context, email, password, role string) (*LoginResult, error)
	// ForgotPassword issues a reset OTP. It succeeds silently for unknown
	// emails to avoid account enumeration.
	ForgotPassword(ctx context.Context, email, role string) error
	ResetPassword(ctx context.Context, email, code, newPassword, role string) error
}
