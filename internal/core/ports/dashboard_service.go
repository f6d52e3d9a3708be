package ports

import (
	"context"

	"github.com/parkwise/parking-system/internal/core/domain"
)

// AdminDashboard aggregates facility-wide counts for the admin landing view.
type AdminDashboard struct {
	UsersByStatus    map[domain.UserStatus]int64   `json:"users_by_status"`
	SlotsByStatus    map[domain.SlotStatus]int64   `json:"slots_by_status"`
	PendingRequests  int64                         `json:"pending_requests"`
	TicketsByStatus  map[domain.TicketStatus]int64 `json:"tickets_by_status"`
	CompletedTickets int64                         `json:"completed_tickets"`
	TotalRevenue     int64                         `json:"total_revenue"`
}

// ParkingStats is the occupancy/revenue snapshot, cached for a short TTL.
type ParkingStats struct {
	TotalSlots     int64   `json:"total_slots"`
	OccupiedSlots  int64   `json:"occupied_slots"`
	AvailableSlots int64   `json:"available_slots"`
	OccupancyRate  float64 `json:"occupancy_rate"`
	TicketsToday   int64   `json:"tickets_today"`
	RevenueToday   int64   `json:"revenue_today"`
}

// UserDashboard aggregates a driver's current state.
type UserDashboard struct {
	Slot                *domain.ParkingSlot   `json:"slot,omitempty"`
	OpenTicket          *domain.Ticket        `json:"open_ticket,omitempty"`
	UnreadNotifications int64                 `json:"unread_notifications"`
	RecentRequests      []*domain.SlotRequest `json:"recent_requests"`
}

// DashboardService builds read-only aggregation views.
type DashboardService interface {
	Admin(ctx context.Context) (*AdminDashboard, error)
	Stats(ctx context.Context) (*ParkingStats, error)
	User(ctx context.Context, userID string) (*UserDashboard, error)
}
