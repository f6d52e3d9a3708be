package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/parkwise/parking-system/internal/api/metrics"
	"github.com/parkwise/parking-system/internal/core/domain"
	"github.com/parkwise/parking-system/internal/core/ports"
)

// AuthService implements registration, email verification, login and
// password reset for both roles.
type AuthService struct {
	store     ports.Store
	mailer    ports.Mailer
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(store ports.Store, mailer ports.Mailer, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{store: store, mailer: mailer, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		PlateNumber:  input.PlateNumber,
		Status:       domain.UserPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.store.Users().Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.issueOTP(ctx, created.Email, domain.OTPVerification, domain.RoleUser)
	metrics.RegistrationsTotal.WithLabelValues(domain.RoleUser).Inc()
	s.log.Info().Str("user_id", created.ID).Str("email", created.Email).Msg("user registered")
	return created, nil
}

func (s *AuthService) RegisterAdmin(ctx context.Context, input ports.RegisterAdminInput) (*domain.Admin, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	admin := &domain.Admin{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.store.Admins().Create(ctx, admin)
	if err != nil {
		return nil, err
	}

	s.issueOTP(ctx, created.Email, domain.OTPVerification, domain.RoleAdmin)
	metrics.RegistrationsTotal.WithLabelValues(domain.RoleAdmin).Inc()
	s.log.Info().Str("admin_id", created.ID).Str("email", created.Email).Msg("admin registered")
	return created, nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, email, code, role string) error {
	if err := s.store.OTPs().Consume(ctx, email, code, domain.OTPVerification, role); err != nil {
		return err
	}
	if role == domain.RoleAdmin {
		return s.store.Admins().SetEmailVerified(ctx, email)
	}
	return s.store.Users().SetEmailVerified(ctx, email)
}

func (s *AuthService) Login(ctx context.Context, email, password, role string) (*ports.LoginResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	var (
		id, name, hash string
		verified       bool
		status         domain.UserStatus
	)
	switch role {
	case domain.RoleAdmin:
		admin, err := s.store.Admins().FindByEmail(ctx, email)
		if err != nil {
			return nil, loginError(err)
		}
		id, name, hash, verified = admin.ID, admin.Name, admin.PasswordHash, admin.IsEmailVerified
		status = domain.UserApproved // admins have no approval gate
	case domain.RoleUser:
		user, err := s.store.Users().FindByEmail(ctx, email)
		if err != nil {
			return nil, loginError(err)
		}
		id, name, hash, verified = user.ID, user.Name, user.PasswordHash, user.IsEmailVerified
		status = user.Status
	default:
		return nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !verified {
		return nil, domain.ErrEmailNotVerified
	}
	switch status {
	case domain.UserPending:
		return nil, domain.ErrAccountNotApproved
	case domain.UserRejected:
		return nil, domain.ErrAccountRejected
	}

	token, err := s.generateToken(id, email, role)
	if err != nil {
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues(role).Inc()
	return &ports.LoginResult{Token: token, ID: id, Name: name, Email: email, Role: role}, nil
}

func (s *AuthService) ForgotPassword(ctx context.Context, email, role string) error {
	// Succeed silently for unknown accounts.
	if !s.principalExists(ctx, email, role) {
		return nil
	}
	s.issueOTP(ctx, email, domain.OTPReset, role)
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword, role string) error {
	if newPassword == "" {
		return domain.ErrInvalidCredentials
	}
	if err := s.store.OTPs().Consume(ctx, email, code, domain.OTPReset, role); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if role == domain.RoleAdmin {
		return s.store.Admins().UpdatePassword(ctx, email, string(hash))
	}
	return s.store.Users().UpdatePassword(ctx, email, string(hash))
}

func (s *AuthService) principalExists(ctx context.Context, email, role string) bool {
	var err error
	if role == domain.RoleAdmin {
		_, err = s.store.Admins().FindByEmail(ctx, email)
	} else {
		_, err = s.store.Users().FindByEmail(ctx, email)
	}
	return err == nil
}

// issueOTP stores a fresh code and mails it. The mail leg is best-effort:
// failure is logged but never surfaces to the caller.
func (s *AuthService) issueOTP(ctx context.Context, email string, otpType domain.OTPType, role string) {
	code, err := generateCode()
	if err != nil {
		s.log.Error().Err(err).Str("email", email).Msg("otp generation failed")
		return
	}

	now := time.Now().UTC()
	otp := &domain.OTP{
		Email:     email,
		Code:      code,
		Type:      otpType,
		Role:      role,
		ExpiresAt: now.Add(domain.OTPTTL),
		CreatedAt: now,
	}
	if err := s.store.OTPs().Create(ctx, otp); err != nil {
		s.log.Error().Err(err).Str("email", email).Msg("otp store failed")
		return
	}

	metrics.OTPIssuedTotal.WithLabelValues(string(otpType)).Inc()
	if err := s.mailer.SendOTP(ctx, email, code, otpType); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("otp mail failed")
	}
}

func (s *AuthService) generateToken(id, email, role string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   id,
		"email": email,
		"role":  role,
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// loginError hides account existence behind a generic credentials failure.
func loginError(err error) error {
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.ErrInvalidCredentials
	}
	return err
}

// generateCode returns a uniformly random six-digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
