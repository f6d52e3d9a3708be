package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/parkwise/parking-system/internal/api/metrics"
	"github.com/parkwise/parking-system/internal/core/domain"
	"github.com/parkwise/parking-system/internal/core/ports"
)

// SlotService implements slot inventory use cases.
type SlotService struct {
	store ports.Store
	log   zerolog.Logger
}

func NewSlotService(store ports.Store, log zerolog.Logger) *SlotService {
	return &SlotService{store: store, log: log}
}

func (s *SlotService) List(ctx context.Context, filter ports.ListSlotsFilter) (*ports.SlotListResult, error) {
	filter.Page, filter.Limit = normalizePaging(filter.Page, filter.Limit)
	filter.Search = sanitizeSearch(filter.Search)

	slots, total, err := s.store.Slots().List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ports.SlotListResult{
		Items:      slots,
		Pagination: newPagination(total, filter.Page, filter.Limit),
	}, nil
}

func (s *SlotService) MySlot(ctx context.Context, userID string) (*domain.ParkingSlot, error) {
	return s.store.Slots().FindByUserID(ctx, userID)
}

func (s *SlotService) Create(ctx context.Context, slotNumber string) (*domain.ParkingSlot, error) {
	slotNumber = strings.TrimSpace(slotNumber)

	now := time.Now().UTC()
	slot, err := s.store.Slots().Create(ctx, &domain.ParkingSlot{
		SlotNumber: slotNumber,
		Status:     domain.SlotAvailable,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("slot_id", slot.ID).Str("slot_number", slot.SlotNumber).Msg("slot created")
	return slot, nil
}

func (s *SlotService) Update(ctx context.Context, id string, fields ports.UpdateSlotFields) (*domain.ParkingSlot, error) {
	// Occupancy is owned by Assign/Release; inventory updates may not flip a
	// slot into or out of occupied.
	if fields.Status != nil && *fields.Status == domain.SlotOccupied {
		return nil, domain.ErrInvalidTransition
	}
	current, err := s.store.Slots().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if fields.Status != nil && current.Occupied() {
		return nil, domain.ErrSlotOccupied
	}

	return s.store.Slots().Update(ctx, id, fields)
}

func (s *SlotService) Delete(ctx context.Context, id string) error {
	if err := s.store.Slots().Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("slot_id", id).Msg("slot deleted")
	return nil
}

func (s *SlotService) Assign(ctx context.Context, slotID, userID string) error {
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		if _, err := tx.Users().FindByID(ctx, userID); err != nil {
			return err
		}
		if _, err := tx.Slots().FindByUserID(ctx, userID); err == nil {
			return domain.ErrUserHasSlot
		} else if !errors.Is(err, domain.ErrSlotNotFound) {
			return err
		}

		now := time.Now().UTC()
		if err := tx.Slots().Assign(ctx, slotID, userID, now); err != nil {
			return err
		}
		slot, err := tx.Slots().FindByID(ctx, slotID)
		if err != nil {
			return err
		}
		return tx.Notifications().Create(ctx, &domain.Notification{
			UserID:    userID,
			Title:     "Slot assigned",
			Message:   "Parking slot " + slot.SlotNumber + " has been assigned to you.",
			CreatedAt: now,
		})
	})
	if err != nil {
		return err
	}

	metrics.SlotTransitionsTotal.WithLabelValues("assign").Inc()
	s.log.Info().Str("slot_id", slotID).Str("user_id", userID).Msg("slot assigned")
	return nil
}

func (s *SlotService) Release(ctx context.Context, userID string) error {
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		slot, err := tx.Slots().Release(ctx, userID)
		if err != nil {
			return err
		}
		return tx.Notifications().Create(ctx, &domain.Notification{
			UserID:    userID,
			Title:     "Slot released",
			Message:   "Parking slot " + slot.SlotNumber + " has been released.",
			CreatedAt: time.Now().UTC(),
		})
	})
	if err != nil {
		return err
	}

	metrics.SlotTransitionsTotal.WithLabelValues("release").Inc()
	s.log.Info().Str("user_id", userID).Msg("slot released")
	return nil
}
