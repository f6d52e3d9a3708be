package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/parkwise/parking-system/internal/api/metrics"
	"github.com/parkwise/parking-system/internal/core/domain"
	"github.com/parkwise/parking-system/internal/core/ports"
)

// RequestService implements the slot request workflow.
type RequestService struct {
	store  ports.Store
	mailer ports.Mailer
	log    zerolog.Logger
}

func NewRequestService(store ports.Store, mailer ports.Mailer, log zerolog.Logger) *RequestService {
	return &RequestService{store: store, mailer: mailer, log: log}
}

func (s *RequestService) Create(ctx context.Context, input ports.CreateRequestInput) (*domain.SlotRequest, error) {
	now := time.Now().UTC()
	if err := domain.ValidateWindow(input.RequestedEntryTime, input.RequestedExitTime, now); err != nil {
		return nil, err
	}
	if len(input.Reason) > domain.MaxRequestReasonLen {
		return nil, domain.ErrReasonTooLong
	}

	// Friendly pre-checks. The partial unique indexes remain the actual
	// guard under contention: a racing insert fails with the same errors.
	active, err := s.store.Requests().HasActive(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, domain.ErrActiveRequestExists
	}
	if _, err := s.store.Tickets().FindOpenByUser(ctx, input.UserID); err == nil {
		return nil, domain.ErrActiveTicketExists
	} else if !errors.Is(err, domain.ErrTicketNotFound) {
		return nil, err
	}

	req, err := s.store.Requests().Create(ctx, &domain.SlotRequest{
		UserID:             input.UserID,
		RequestedEntryTime: input.RequestedEntryTime.UTC(),
		RequestedExitTime:  input.RequestedExitTime.UTC(),
		Reason:             input.Reason,
		Status:             domain.RequestPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("request_id", req.ID).Str("user_id", req.UserID).Msg("slot request created")
	return req, nil
}

// Approve binds the slot to the requester, resolves the request and opens a
// pending ticket for the requested window, all in one transaction. The
// confirmation email is best-effort after commit.
func (s *RequestService) Approve(ctx context.Context, requestID, slotID string) (*domain.SlotRequest, error) {
	var req *domain.SlotRequest
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		r, err := tx.Requests().FindByID(ctx, requestID)
		if err != nil {
			return err
		}
		if r.Status.Resolved() {
			return domain.ErrRequestResolved
		}

		slot, err := tx.Slots().FindByID(ctx, slotID)
		if err != nil {
			return err
		}
		if slot.Status != domain.SlotAvailable {
			return domain.ErrSlotUnavailable
		}

		now := time.Now().UTC()
		if err := tx.Slots().Assign(ctx, slot.ID, r.UserID, now); err != nil {
			return err
		}
		if err := tx.Requests().Resolve(ctx, r.ID, domain.RequestApproved, &slotID, ""); err != nil {
			return err
		}
		if _, err := tx.Tickets().Create(ctx, &domain.Ticket{
			UserID:             r.UserID,
			SlotID:             &slotID,
			RequestedEntryTime: r.RequestedEntryTime,
			RequestedExitTime:  r.RequestedExitTime,
			Status:             domain.TicketPending,
			CreatedAt:          now,
			UpdatedAt:          now,
		}); err != nil {
			return err
		}
		if err := tx.Notifications().Create(ctx, &domain.Notification{
			UserID:    r.UserID,
			Title:     "Slot request approved",
			Message:   fmt.Sprintf("Your request was approved. Slot %s is yours from %s.", slot.SlotNumber, r.RequestedEntryTime.Format(time.RFC822)),
			CreatedAt: now,
		}); err != nil {
			return err
		}

		r.Status = domain.RequestApproved
		r.SlotID = &slotID
		r.SlotNumber = slot.SlotNumber
		req = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	if req.UserEmail != "" {
		if err := s.mailer.Send(ctx, req.UserEmail, "Slot request approved",
			"Your parking slot request has been approved."); err != nil {
			s.log.Warn().Err(err).Str("request_id", requestID).Msg("approval mail failed")
		}
	}
	metrics.RequestsResolvedTotal.WithLabelValues("approved").Inc()
	s.log.Info().Str("request_id", requestID).Str("slot_id", slotID).Msg("slot request approved")
	return req, nil
}

func (s *RequestService) Reject(ctx context.Context, requestID, reason string) (*domain.SlotRequest, error) {
	if reason == "" {
		return nil, domain.ErrReasonRequired
	}

	var req *domain.SlotRequest
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		r, err := tx.Requests().FindByID(ctx, requestID)
		if err != nil {
			return err
		}
		if r.Status.Resolved() {
			return domain.ErrRequestResolved
		}
		if err := tx.Requests().Resolve(ctx, r.ID, domain.RequestRejected, nil, reason); err != nil {
			return err
		}
		if err := tx.Notifications().Create(ctx, &domain.Notification{
			UserID:    r.UserID,
			Title:     "Slot request rejected",
			Message:   "Your slot request was rejected: " + reason,
			CreatedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}

		r.Status = domain.RequestRejected
		r.RejectionReason = reason
		req = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RequestsResolvedTotal.WithLabelValues("rejected").Inc()
	s.log.Info().Str("request_id", requestID).Msg("slot request rejected")
	return req, nil
}

func (s *RequestService) List(ctx context.Context, filter ports.ListRequestsFilter) (*ports.RequestListResult, error) {
	filter.Page, filter.Limit = normalizePaging(filter.Page, filter.Limit)
	filter.Search = sanitizeSearch(filter.Search)

	reqs, total, err := s.store.Requests().List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ports.RequestListResult{
		Items:      reqs,
		Pagination: newPagination(total, filter.Page, filter.Limit),
	}, nil
}
