package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/parkwise/parking-system/internal/core/domain"
	"github.com/parkwise/parking-system/internal/core/ports"
)

func newRequestService(store *stubStore) *RequestService {
	return NewRequestService(store, newStubMailer(), zerolog.Nop())
}

func TestRequestService_Create_ValidationOrder(t *testing.T) {
	store := newStubStore()
	svc := newRequestService(store)
	now := time.Now().UTC()

	cases := []struct {
		name    string
		entry   time.Time
		exit    time.Time
		reason  string
		wantErr error
	}{
		{"missing entry", time.Time{}, now.Add(2 * time.Hour), "", domain.ErrInvalidWindow},
		{"entry in past", now.Add(-time.Hour), now.Add(time.Hour), "", domain.ErrInvalidWindow},
		{"exit before entry", now.Add(2 * time.Hour), now.Add(time.Hour), "", domain.ErrInvalidWindow},
		{"window too long", now.Add(time.Hour), now.Add(26 * time.Hour), "", domain.ErrWindowTooLong},
		{"reason too long", now.Add(time.Hour), now.Add(2 * time.Hour), strings.Repeat("x", 501), domain.ErrReasonTooLong},
	}
	for _, tc := range cases {
		_, err := svc.Create(context.Background(), ports.CreateRequestInput{
			UserID:             "u1",
			RequestedEntryTime: tc.entry,
			RequestedExitTime:  tc.exit,
			Reason:             tc.reason,
		})
		if err != tc.wantErr {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.wantErr, err)
		}
	}
}

func TestRequestService_Create_Conflicts(t *testing.T) {
	store := newStubStore()
	svc := newRequestService(store)

	entry, exit := futureWindow(2 * time.Hour)
	input := ports.CreateRequestInput{UserID: "u1", RequestedEntryTime: entry, RequestedExitTime: exit}

	if _, err := svc.Create(context.Background(), input); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Create(context.Background(), input); err != domain.ErrActiveRequestExists {
		t.Fatalf("expected ErrActiveRequestExists, got %v", err)
	}

	// A user with an open ticket cannot file a request either.
	if _, err := store.Tickets().Create(context.Background(), &domain.Ticket{
		UserID: "u2", RequestedEntryTime: entry, RequestedExitTime: exit, Status: domain.TicketPending,
	}); err != nil {
		t.Fatalf("seed ticket failed: %v", err)
	}
	if _, err := svc.Create(context.Background(), ports.CreateRequestInput{
		UserID: "u2", RequestedEntryTime: entry, RequestedExitTime: exit,
	}); err != domain.ErrActiveTicketExists {
		t.Fatalf("expected ErrActiveTicketExists, got %v", err)
	}
}

func TestRequestService_Create_BlockedWhileApproved(t *testing.T) {
	store := newStubStore()
	svc := newRequestService(store)
	user := seedUser(t, store, "alice")

	slot, err := store.Slots().Create(context.Background(), &domain.ParkingSlot{
		SlotNumber: "A-01", Status: domain.SlotAvailable,
	})
	if err != nil {
		t.Fatalf("seed slot failed: %v", err)
	}

	entry, exit := futureWindow(2 * time.Hour)
	req, err := svc.Create(context.Background(), ports.CreateRequestInput{
		UserID: user.ID, RequestedEntryTime: entry, RequestedExitTime: exit,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Approve(context.Background(), req.ID, slot.ID); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	// An approved request still counts as active; only rejection frees the
	// user to file again.
	if _, err := svc.Create(context.Background(), ports.CreateRequestInput{
		UserID: user.ID, RequestedEntryTime: entry, RequestedExitTime: exit,
	}); err != domain.ErrActiveRequestExists {
		t.Fatalf("expected ErrActiveRequestExists, got %v", err)
	}
}

func TestRequestService_Approve(t *testing.T) {
	store := newStubStore()
	svc := newRequestService(store)
	user := seedUser(t, store, "alice")

	slot, err := store.Slots().Create(context.Background(), &domain.ParkingSlot{
		SlotNumber: "A-01", Status: domain.SlotAvailable,
	})
	if err != nil {
		t.Fatalf("seed slot failed: %v", err)
	}

	entry, exit := futureWindow(2 * time.Hour)
	req, err := svc.Create(context.Background(), ports.CreateRequestInput{
		UserID: user.ID, RequestedEntryTime: entry, RequestedExitTime: exit,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	approved, err := svc.Approve(context.Background(), req.ID, slot.ID)
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if approved.Status != domain.RequestApproved {
		t.Fatalf("expected approved, got %s", approved.Status)
	}

	// The slot is now bound to the requester.
	bound, err := store.Slots().FindByUserID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("expected user to hold slot: %v", err)
	}
	if bound.ID != slot.ID {
		t.Fatalf("wrong slot bound: %s", bound.ID)
	}

	// A pending ticket for the requested window was opened.
	ticket, err := store.Tickets().FindOpenByUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("expected open ticket: %v", err)
	}
	if ticket.Status != domain.TicketPending || !ticket.RequestedEntryTime.Equal(entry.UTC()) {
		t.Fatalf("unexpected ticket: %+v", ticket)
	}

	// Terminality: the resolved request cannot be approved or rejected again.
	if _, err := svc.Approve(context.Background(), req.ID, slot.ID); err != domain.ErrRequestResolved {
		t.Fatalf("expected ErrRequestResolved, got %v", err)
	}
	if _, err := svc.Reject(context.Background(), req.ID, "late"); err != domain.ErrRequestResolved {
		t.Fatalf("expected ErrRequestResolved, got %v", err)
	}
}

func TestRequestService_Approve_SlotMustBeAvailable(t *testing.T) {
	store := newStubStore()
	svc := newRequestService(store)
	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")

	slot, err := store.Slots().Create(context.Background(), &domain.ParkingSlot{
		SlotNumber: "A-01", Status: domain.SlotAvailable,
	})
	if err != nil {
		t.Fatalf("seed slot failed: %v", err)
	}
	if err := store.Slots().Assign(context.Background(), slot.ID, bob.ID, time.Now().UTC()); err != nil {
		t.Fatalf("seed assign failed: %v", err)
	}

	entry, exit := futureWindow(2 * time.Hour)
	req, err := svc.Create(context.Background(), ports.CreateRequestInput{
		UserID: alice.ID, RequestedEntryTime: entry, RequestedExitTime: exit,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.Approve(context.Background(), req.ID, slot.ID); err != domain.ErrSlotUnavailable {
		t.Fatalf("expected ErrSlotUnavailable, got %v", err)
	}

	// Failed approval leaves the request pending.
	pending, err := store.Requests().FindByID(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if pending.Status != domain.RequestPending {
		t.Fatalf("expected request to stay pending, got %s", pending.Status)
	}

	if _, err := svc.Approve(context.Background(), "missing", slot.ID); err != domain.ErrRequestNotFound {
		t.Fatalf("expected ErrRequestNotFound, got %v", err)
	}
}

func TestRequestService_Reject(t *testing.T) {
	store := newStubStore()
	svc := newRequestService(store)
	user := seedUser(t, store, "alice")

	entry, exit := futureWindow(2 * time.Hour)
	req, err := svc.Create(context.Background(), ports.CreateRequestInput{
		UserID: user.ID, RequestedEntryTime: entry, RequestedExitTime: exit,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.Reject(context.Background(), req.ID, ""); err != domain.ErrReasonRequired {
		t.Fatalf("expected ErrReasonRequired, got %v", err)
	}

	rejected, err := svc.Reject(context.Background(), req.ID, "no capacity")
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if rejected.Status != domain.RequestRejected || rejected.RejectionReason != "no capacity" {
		t.Fatalf("unexpected rejection: %+v", rejected)
	}

	unread, _ := store.Notifications().CountUnread(context.Background(), user.ID)
	if unread != 1 {
		t.Fatalf("expected rejection notification, got %d unread", unread)
	}

	// A resolved request frees the user to file a new one.
	if _, err := svc.Create(context.Background(), ports.CreateRequestInput{
		UserID: user.ID, RequestedEntryTime: entry, RequestedExitTime: exit,
	}); err != nil {
		t.Fatalf("create after rejection failed: %v", err)
	}
}
