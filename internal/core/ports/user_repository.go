package ports

import (
	"context"

	"github.com/parkwise/parking-system/internal/core/domain"
)

// ListUsersFilter carries query parameters for the admin user listing.
type ListUsersFilter struct {
	Status string // optional: filter by approval status
	Search string // optional: partial match on name or email
	Page   int    // 1-based
	Limit  int    // max rows per page (capped by the service)
}

// UserRepository defines persistence operations for driver accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)
	UpdateStatus(ctx context.Context, id string, status domain.UserStatus) error
	SetEmailVerified(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, email, passwordHash string) error
	CountByStatus(ctx context.Context) (map[domain.UserStatus]int64, error)
}

// AdminRepository defines persistence operations for operator accounts.
type AdminRepository interface {
	Create(ctx context.Context, admin *domain.Admin) (*domain.Admin, error)
	FindByEmail(ctx context.Context, email string) (*domain.Admin, error)
	FindByID(ctx context.Context, id string) (*domain.Admin, error)
	SetEmailVerified(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}
