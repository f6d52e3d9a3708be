package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/parkwise/parking-system/internal/core/domain"
)

// stubStatsCache records hits and misses so tests can assert cache behaviour.
type stubStatsCache struct {
	values map[string][]byte
	gets   int
	sets   int
}

func newStubStatsCache() *stubStatsCache {
	return &stubStatsCache{values: make(map[string][]byte)}
}

func (c *stubStatsCache) Get(_ context.Context, name string, dest any) (bool, error) {
	c.gets++
	raw, ok := c.values[name]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *stubStatsCache) Set(_ context.Context, name string, v any) error {
	c.sets++
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.values[name] = raw
	return nil
}

func TestDashboardService_Stats_Caches(t *testing.T) {
	store := newStubStore()
	cache := newStubStatsCache()
	svc := NewDashboardService(store, cache, zerolog.Nop())
	user := seedUser(t, store, "alice")

	slot, err := store.Slots().Create(context.Background(), &domain.ParkingSlot{
		SlotNumber: "A-01", Status: domain.SlotAvailable,
	})
	if err != nil {
		t.Fatalf("seed slot: %v", err)
	}
	if _, err := store.Slots().Create(context.Background(), &domain.ParkingSlot{
		SlotNumber: "A-02", Status: domain.SlotAvailable,
	}); err != nil {
		t.Fatalf("seed slot: %v", err)
	}
	if err := store.Slots().Assign(context.Background(), slot.ID, user.ID, time.Now().UTC()); err != nil {
		t.Fatalf("assign: %v", err)
	}

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.TotalSlots != 2 || stats.OccupiedSlots != 1 || stats.AvailableSlots != 1 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if stats.OccupancyRate != 0.5 {
		t.Fatalf("expected 0.5 occupancy, got %f", stats.OccupancyRate)
	}
	if cache.sets != 1 {
		t.Fatalf("expected snapshot to be cached, sets=%d", cache.sets)
	}

	// Second read is served from cache even after the store changes.
	if _, err := store.Slots().Release(context.Background(), user.ID); err != nil {
		t.Fatalf("release: %v", err)
	}
	cached, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if cached.OccupiedSlots != 1 {
		t.Fatalf("expected cached snapshot, got %+v", cached)
	}
	if cache.sets != 1 {
		t.Fatalf("cache hit must not rewrite, sets=%d", cache.sets)
	}
}

func TestDashboardService_Admin(t *testing.T) {
	store := newStubStore()
	svc := NewDashboardService(store, nil, zerolog.Nop())

	seedUser(t, store, "alice")
	seedPendingUser(t, store, "bob")

	amount := int64(2000)
	exit := time.Now().UTC()
	ticket, err := store.Tickets().Create(context.Background(), &domain.Ticket{
		UserID: "u-x", Status: domain.TicketActive, CreatedAt: exit.Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("seed ticket: %v", err)
	}
	if err := store.Tickets().Complete(context.Background(), ticket.ID, exit, 120, amount); err != nil {
		t.Fatalf("complete: %v", err)
	}

	dash, err := svc.Admin(context.Background())
	if err != nil {
		t.Fatalf("admin dashboard failed: %v", err)
	}
	if dash.UsersByStatus[domain.UserApproved] != 1 || dash.UsersByStatus[domain.UserPending] != 1 {
		t.Fatalf("unexpected user counts: %+v", dash.UsersByStatus)
	}
	if dash.CompletedTickets != 1 || dash.TotalRevenue != 2000 {
		t.Fatalf("unexpected revenue figures: %+v", dash)
	}
}

func TestDashboardService_User(t *testing.T) {
	store := newStubStore()
	svc := NewDashboardService(store, nil, zerolog.Nop())
	user := seedUser(t, store, "alice")

	dash, err := svc.User(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("user dashboard failed: %v", err)
	}
	if dash.Slot != nil || dash.OpenTicket != nil || dash.UnreadNotifications != 0 {
		t.Fatalf("expected empty dashboard, got %+v", dash)
	}

	slot, err := store.Slots().Create(context.Background(), &domain.ParkingSlot{
		SlotNumber: "A-01", Status: domain.SlotAvailable,
	})
	if err != nil {
		t.Fatalf("seed slot: %v", err)
	}
	if err := store.Slots().Assign(context.Background(), slot.ID, user.ID, time.Now().UTC()); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := store.Notifications().Create(context.Background(), &domain.Notification{
		UserID: user.ID, Title: "Slot assigned",
	}); err != nil {
		t.Fatalf("seed notification: %v", err)
	}

	dash, err = svc.User(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("user dashboard failed: %v", err)
	}
	if dash.Slot == nil || dash.Slot.ID != slot.ID {
		t.Fatalf("expected slot on dashboard, got %+v", dash.Slot)
	}
	if dash.UnreadNotifications != 1 {
		t.Fatalf("expected 1 unread, got %d", dash.UnreadNotifications)
	}
}
