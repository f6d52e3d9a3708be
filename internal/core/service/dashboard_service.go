package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/parkwise/parking-system/internal/core/domain"
	"github.com/parkwise/parking-system/internal/core/ports"
)

// StatsGetterSetter caches dashboard aggregations for a short TTL.
type StatsGetterSetter interface {
	Get(ctx context.Context, name string, dest any) (bool, error)
	Set(ctx context.Context, name string, v any) error
}

// DashboardService builds the read-only aggregation views.
type DashboardService struct {
	store ports.Store
	cache StatsGetterSetter
	log   zerolog.Logger
}

func NewDashboardService(store ports.Store, cache StatsGetterSetter, log zerolog.Logger) *DashboardService {
	return &DashboardService{store: store, cache: cache, log: log}
}

func (s *DashboardService) Admin(ctx context.Context) (*ports.AdminDashboard, error) {
	users, err := s.store.Users().CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	slots, err := s.store.Slots().CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	requests, err := s.store.Requests().CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	tickets, err := s.store.Tickets().CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := s.store.Tickets().Stats(ctx, time.Time{})
	if err != nil {
		return nil, err
	}

	return &ports.AdminDashboard{
		UsersByStatus:    users,
		SlotsByStatus:    slots,
		PendingRequests:  requests[domain.RequestPending],
		TicketsByStatus:  tickets,
		CompletedTickets: stats.Completed,
		TotalRevenue:     stats.TotalRevenue,
	}, nil
}

// Stats serves the occupancy snapshot from cache when it can. A cache error
// is logged and treated as a miss; the database remains the source of truth.
func (s *DashboardService) Stats(ctx context.Context) (*ports.ParkingStats, error) {
	if s.cache != nil {
		var cached ports.ParkingStats
		hit, err := s.cache.Get(ctx, "parking", &cached)
		if err != nil {
			s.log.Warn().Err(err).Msg("stats cache read failed")
		} else if hit {
			return &cached, nil
		}
	}

	slots, err := s.store.Slots().CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, n := range slots {
		total += n
	}

	midnight := time.Now().UTC().Truncate(24 * time.Hour)
	today, err := s.store.Tickets().Stats(ctx, midnight)
	if err != nil {
		return nil, err
	}

	stats := &ports.ParkingStats{
		TotalSlots:     total,
		OccupiedSlots:  slots[domain.SlotOccupied],
		AvailableSlots: slots[domain.SlotAvailable],
		TicketsToday:   today.Completed,
		RevenueToday:   today.TotalRevenue,
	}
	if total > 0 {
		stats.OccupancyRate = float64(slots[domain.SlotOccupied]) / float64(total)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, "parking", stats); err != nil {
			s.log.Warn().Err(err).Msg("stats cache write failed")
		}
	}
	return stats, nil
}

func (s *DashboardService) User(ctx context.Context, userID string) (*ports.UserDashboard, error) {
	dash := &ports.UserDashboard{}

	slot, err := s.store.Slots().FindByUserID(ctx, userID)
	switch {
	case err == nil:
		dash.Slot = slot
	case errors.Is(err, domain.ErrSlotNotFound):
	default:
		return nil, err
	}

	ticket, err := s.store.Tickets().FindOpenByUser(ctx, userID)
	switch {
	case err == nil:
		dash.OpenTicket = ticket
	case errors.Is(err, domain.ErrTicketNotFound):
	default:
		return nil, err
	}

	unread, err := s.store.Notifications().CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	dash.UnreadNotifications = unread

	requests, _, err := s.store.Requests().List(ctx, ports.ListRequestsFilter{
		UserID: userID,
		Page:   1,
		Limit:  5,
	})
	if err != nil {
		return nil, err
	}
	dash.RecentRequests = requests
	return dash, nil
}
