package ports

import (
	"context"

	"github.com/parkwise/parking-system/internal/core/domain"
)

// UserListResult is returned by the admin user listing.
type UserListResult struct {
	Items      []*domain.User
	Pagination Pagination
}

// UserService defines admin-side account management.
type UserService interface {
	List(ctx context.Context, filter ListUsersFilter) (*UserListResult, error)
	// Approve flips the user to approved, assigns the first available slot
	// when one exists, and records a notification, all in one transaction.
	// A best-effort email is sent after commit.
	Approve(ctx context.Context, userID string) (*domain.User, error)
	Reject(ctx context.Context, userID, reason string) (*domain.User, error)
}
