package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/parkwise/parking-system/internal/core/domain"
	"github.com/parkwise/parking-system/internal/core/ports"
)

// UserService implements admin-side account management.
type UserService struct {
	store  ports.Store
	mailer ports.Mailer
	log    zerolog.Logger
}

func NewUserService(store ports.Store, mailer ports.Mailer, log zerolog.Logger) *UserService {
	return &UserService{store: store, mailer: mailer, log: log}
}

func (s *UserService) List(ctx context.Context, filter ports.ListUsersFilter) (*ports.UserListResult, error) {
	filter.Page, filter.Limit = normalizePaging(filter.Page, filter.Limit)
	filter.Search = sanitizeSearch(filter.Search)

	users, total, err := s.store.Users().List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ports.UserListResult{
		Items:      users,
		Pagination: newPagination(total, filter.Page, filter.Limit),
	}, nil
}

// Approve flips a pending user to approved, assigns the first available slot
// when the lot has one, and records a notification. All writes share one
// transaction; the email goes out only after commit.
func (s *UserService) Approve(ctx context.Context, userID string) (*domain.User, error) {
	var (
		user     *domain.User
		assigned *domain.ParkingSlot
	)
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		u, err := tx.Users().FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if u.Status != domain.UserPending {
			return domain.ErrInvalidTransition
		}
		if err := tx.Users().UpdateStatus(ctx, userID, domain.UserApproved); err != nil {
			return err
		}

		now := time.Now().UTC()
		slot, err := tx.Slots().FirstAvailable(ctx)
		switch {
		case err == nil:
			if err := tx.Slots().Assign(ctx, slot.ID, userID, now); err != nil {
				return err
			}
			assigned = slot
		case errors.Is(err, domain.ErrSlotNotFound):
			// Lot is full; approval still goes through.
		default:
			return err
		}

		message := "Your account has been approved. No slot is free yet; you will be assigned one as soon as it opens up."
		if assigned != nil {
			message = fmt.Sprintf("Your account has been approved and slot %s has been assigned to you.", assigned.SlotNumber)
		}
		if err := tx.Notifications().Create(ctx, &domain.Notification{
			UserID:    userID,
			Title:     "Account approved",
			Message:   message,
			CreatedAt: now,
		}); err != nil {
			return err
		}

		u.Status = domain.UserApproved
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.mailer.Send(ctx, user.Email, "Account approved", "You can now log in and use your parking slot."); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("approval mail failed")
	}
	s.log.Info().Str("user_id", userID).Bool("slot_assigned", assigned != nil).Msg("user approved")
	return user, nil
}

func (s *UserService) Reject(ctx context.Context, userID, reason string) (*domain.User, error) {
	var user *domain.User
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		u, err := tx.Users().FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if u.Status != domain.UserPending {
			return domain.ErrInvalidTransition
		}
		if err := tx.Users().UpdateStatus(ctx, userID, domain.UserRejected); err != nil {
			return err
		}

		message := "Your registration was rejected."
		if reason != "" {
			message = "Your registration was rejected: " + reason
		}
		if err := tx.Notifications().Create(ctx, &domain.Notification{
			UserID:    userID,
			Title:     "Account rejected",
			Message:   message,
			CreatedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}

		u.Status = domain.UserRejected
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", userID).Msg("user rejected")
	return user, nil
}
