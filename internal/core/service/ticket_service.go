package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/parkwise/parking-system/internal/api/metrics"
	"github.com/parkwise/parking-system/internal/core/domain"
	"github.com/parkwise/parking-system/internal/core/ports"
)

// TicketService implements the ticket/billing workflow.
type TicketService struct {
	store      ports.Store
	hourlyRate int64
	log        zerolog.Logger
}

func NewTicketService(store ports.Store, hourlyRate int64, log zerolog.Logger) *TicketService {
	return &TicketService{store: store, hourlyRate: hourlyRate, log: log}
}

func (s *TicketService) Create(ctx context.Context, input ports.CreateTicketInput) (*domain.Ticket, error) {
	now := time.Now().UTC()
	if err := domain.ValidateWindow(input.RequestedEntryTime, input.RequestedExitTime, now); err != nil {
		return nil, err
	}

	// Friendly pre-check; the partial unique index is the race-proof guard.
	if _, err := s.store.Tickets().FindOpenByUser(ctx, input.UserID); err == nil {
		return nil, domain.ErrActiveTicketExists
	} else if !errors.Is(err, domain.ErrTicketNotFound) {
		return nil, err
	}

	ticket, err := s.store.Tickets().Create(ctx, &domain.Ticket{
		UserID:             input.UserID,
		RequestedEntryTime: input.RequestedEntryTime.UTC(),
		RequestedExitTime:  input.RequestedExitTime.UTC(),
		Status:             domain.TicketPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("ticket_id", ticket.ID).Str("user_id", ticket.UserID).Msg("ticket created")
	return ticket, nil
}

func (s *TicketService) Activate(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.store.Tickets().FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !ticket.Status.CanTransitionTo(domain.TicketActive) {
		return nil, domain.ErrInvalidTransition
	}

	now := time.Now().UTC()
	if err := s.store.Tickets().Activate(ctx, ticketID, now); err != nil {
		return nil, err
	}

	ticket.Status = domain.TicketActive
	ticket.ActualEntryTime = &now
	metrics.TicketTransitionsTotal.WithLabelValues("activate").Inc()
	s.log.Info().Str("ticket_id", ticketID).Msg("ticket activated")
	return ticket, nil
}

// Complete bills the session from the actual entry time to the current
// clock, through the same formula Estimate uses.
func (s *TicketService) Complete(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.store.Tickets().FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status != domain.TicketActive || ticket.ActualEntryTime == nil {
		return nil, domain.ErrInvalidTransition
	}

	now := time.Now().UTC()
	duration, amount := domain.ComputeBill(*ticket.ActualEntryTime, now, s.hourlyRate)
	if err := s.store.Tickets().Complete(ctx, ticketID, now, duration, amount); err != nil {
		return nil, err
	}

	ticket.Status = domain.TicketCompleted
	ticket.ActualExitTime = &now
	ticket.DurationMinutes = &duration
	ticket.Amount = &amount
	metrics.TicketTransitionsTotal.WithLabelValues("complete").Inc()
	metrics.RevenueTotal.Add(float64(amount))
	s.log.Info().
		Str("ticket_id", ticketID).
		Int64("duration_minutes", duration).
		Int64("amount", amount).
		Msg("ticket completed")
	return ticket, nil
}

func (s *TicketService) Estimate(entry, exit time.Time) (*ports.BillEstimate, error) {
	if entry.IsZero() || exit.IsZero() || !exit.After(entry) {
		return nil, domain.ErrInvalidWindow
	}
	duration, amount := domain.ComputeBill(entry, exit, s.hourlyRate)
	return &ports.BillEstimate{
		DurationMinutes: duration,
		Amount:          amount,
		HourlyRate:      s.hourlyRate,
	}, nil
}

func (s *TicketService) MyOpen(ctx context.Context, userID string) (*domain.Ticket, error) {
	return s.store.Tickets().FindOpenByUser(ctx, userID)
}

func (s *TicketService) List(ctx context.Context, filter ports.ListTicketsFilter) (*ports.TicketListResult, error) {
	filter.Page, filter.Limit = normalizePaging(filter.Page, filter.Limit)

	tickets, total, err := s.store.Tickets().List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ports.TicketListResult{
		Items:      tickets,
		Pagination: newPagination(total, filter.Page, filter.Limit),
	}, nil
}

// Export returns every matching ticket, unpaginated, for CSV rendering.
func (s *TicketService) Export(ctx context.Context, filter ports.ListTicketsFilter) ([]*domain.Ticket, error) {
	filter.Page = 0
	filter.Limit = 0

	tickets, _, err := s.store.Tickets().List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return tickets, nil
}
