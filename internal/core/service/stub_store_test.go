package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/parkwise/parking-system/internal/core/domain"
	"github.com/parkwise/parking-system/internal/core/ports"
)

// stubStore is an in-memory ports.Store for service tests. It mirrors the
// guarded-update semantics of the SQL repositories, including the partial
// uniqueness rules on requests and tickets.
type stubStore struct {
	users         map[string]*domain.User
	admins        map[string]*domain.Admin
	slots         map[string]*domain.ParkingSlot
	requests      map[string]*domain.SlotRequest
	tickets       map[string]*domain.Ticket
	notifications []*domain.Notification
	otps          []*domain.OTP
	seq           int
}

func newStubStore() *stubStore {
	return &stubStore{
		users:    make(map[string]*domain.User),
		admins:   make(map[string]*domain.Admin),
		slots:    make(map[string]*domain.ParkingSlot),
		requests: make(map[string]*domain.SlotRequest),
		tickets:  make(map[string]*domain.Ticket),
	}
}

func (s *stubStore) nextID() string {
	s.seq++
	return fmt.Sprintf("id-%d", s.seq)
}

func (s *stubStore) Users() ports.UserRepository                 { return &stubUserRepo{s} }
func (s *stubStore) Admins() ports.AdminRepository               { return &stubAdminRepo{s} }
func (s *stubStore) Slots() ports.SlotRepository                 { return &stubSlotRepo{s} }
func (s *stubStore) Requests() ports.RequestRepository           { return &stubRequestRepo{s} }
func (s *stubStore) Tickets() ports.TicketRepository             { return &stubTicketRepo{s} }
func (s *stubStore) Notifications() ports.NotificationRepository { return &stubNotificationRepo{s} }
func (s *stubStore) OTPs() ports.OTPRepository                   { return &stubOTPRepo{s} }

func (s *stubStore) WithinTx(_ context.Context, fn func(ports.Store) error) error {
	return fn(s)
}

// --- users ---

type stubUserRepo struct{ s *stubStore }

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	cp := *user
	if cp.ID == "" {
		cp.ID = r.s.nextID()
	}
	r.s.users[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *stubUserRepo) List(_ context.Context, filter ports.ListUsersFilter) ([]*domain.User, int64, error) {
	var out []*domain.User
	for _, u := range r.s.users {
		if filter.Status != "" && string(u.Status) != filter.Status {
			continue
		}
		if filter.Search != "" && !strings.Contains(u.Name, filter.Search) && !strings.Contains(u.Email, filter.Search) {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *stubUserRepo) UpdateStatus(_ context.Context, id string, status domain.UserStatus) error {
	u, ok := r.s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Status = status
	return nil
}

func (r *stubUserRepo) SetEmailVerified(_ context.Context, email string) error {
	for _, u := range r.s.users {
		if u.Email == email {
			u.IsEmailVerified = true
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, email, passwordHash string) error {
	for _, u := range r.s.users {
		if u.Email == email {
			u.PasswordHash = passwordHash
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (r *stubUserRepo) CountByStatus(_ context.Context) (map[domain.UserStatus]int64, error) {
	out := make(map[domain.UserStatus]int64)
	for _, u := range r.s.users {
		out[u.Status]++
	}
	return out, nil
}

// --- admins ---

type stubAdminRepo struct{ s *stubStore }

func (r *stubAdminRepo) Create(_ context.Context, admin *domain.Admin) (*domain.Admin, error) {
	for _, a := range r.s.admins {
		if a.Email == admin.Email {
			return nil, domain.ErrUserExists
		}
	}
	cp := *admin
	if cp.ID == "" {
		cp.ID = r.s.nextID()
	}
	r.s.admins[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *stubAdminRepo) FindByEmail(_ context.Context, email string) (*domain.Admin, error) {
	for _, a := range r.s.admins {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubAdminRepo) FindByID(_ context.Context, id string) (*domain.Admin, error) {
	a, ok := r.s.admins[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *stubAdminRepo) SetEmailVerified(_ context.Context, email string) error {
	for _, a := range r.s.admins {
		if a.Email == email {
			a.IsEmailVerified = true
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (r *stubAdminRepo) UpdatePassword(_ context.Context, email, passwordHash string) error {
	for _, a := range r.s.admins {
		if a.Email == email {
			a.PasswordHash = passwordHash
			return nil
		}
	}
	return domain.ErrUserNotFound
}

// --- slots ---

type stubSlotRepo struct{ s *stubStore }

func (r *stubSlotRepo) Create(_ context.Context, slot *domain.ParkingSlot) (*domain.ParkingSlot, error) {
	for _, sl := range r.s.slots {
		if sl.SlotNumber == slot.SlotNumber {
			return nil, domain.ErrSlotExists
		}
	}
	cp := *slot
	if cp.ID == "" {
		cp.ID = r.s.nextID()
	}
	r.s.slots[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *stubSlotRepo) FindByID(_ context.Context, id string) (*domain.ParkingSlot, error) {
	sl, ok := r.s.slots[id]
	if !ok {
		return nil, domain.ErrSlotNotFound
	}
	cp := *sl
	return &cp, nil
}

func (r *stubSlotRepo) FindByUserID(_ context.Context, userID string) (*domain.ParkingSlot, error) {
	for _, sl := range r.s.slots {
		if sl.UserID != nil && *sl.UserID == userID {
			cp := *sl
			return &cp, nil
		}
	}
	return nil, domain.ErrSlotNotFound
}

func (r *stubSlotRepo) FirstAvailable(_ context.Context) (*domain.ParkingSlot, error) {
	var candidates []*domain.ParkingSlot
	for _, sl := range r.s.slots {
		if sl.Status == domain.SlotAvailable {
			candidates = append(candidates, sl)
		}
	}
	if len(candidates) == 0 {
		return nil, domain.ErrSlotNotFound
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].SlotNumber < candidates[j].SlotNumber })
	cp := *candidates[0]
	return &cp, nil
}

func (r *stubSlotRepo) List(_ context.Context, filter ports.ListSlotsFilter) ([]*domain.ParkingSlot, int64, error) {
	var out []*domain.ParkingSlot
	for _, sl := range r.s.slots {
		if filter.Status != "" && string(sl.Status) != filter.Status {
			continue
		}
		if filter.Search != "" && !strings.Contains(sl.SlotNumber, filter.Search) {
			continue
		}
		cp := *sl
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SlotNumber < out[j].SlotNumber })
	return out, int64(len(out)), nil
}

func (r *stubSlotRepo) Update(_ context.Context, id string, fields ports.UpdateSlotFields) (*domain.ParkingSlot, error) {
	sl, ok := r.s.slots[id]
	if !ok {
		return nil, domain.ErrSlotNotFound
	}
	if fields.SlotNumber != nil {
		for _, other := range r.s.slots {
			if other.ID != id && other.SlotNumber == *fields.SlotNumber {
				return nil, domain.ErrSlotExists
			}
		}
		sl.SlotNumber = *fields.SlotNumber
	}
	if fields.Status != nil {
		sl.Status = *fields.Status
	}
	cp := *sl
	return &cp, nil
}

func (r *stubSlotRepo) Delete(_ context.Context, id string) error {
	sl, ok := r.s.slots[id]
	if !ok {
		return domain.ErrSlotNotFound
	}
	if sl.Status == domain.SlotOccupied {
		return domain.ErrSlotOccupied
	}
	delete(r.s.slots, id)
	return nil
}

func (r *stubSlotRepo) Assign(_ context.Context, slotID, userID string, at time.Time) error {
	sl, ok := r.s.slots[slotID]
	if !ok {
		return domain.ErrSlotNotFound
	}
	if sl.Status != domain.SlotAvailable || sl.UserID != nil {
		return domain.ErrSlotUnavailable
	}
	for _, other := range r.s.slots {
		if other.UserID != nil && *other.UserID == userID {
			return domain.ErrUserHasSlot
		}
	}
	uid := userID
	t := at
	sl.Status = domain.SlotOccupied
	sl.UserID = &uid
	sl.AssignedAt = &t
	return nil
}

func (r *stubSlotRepo) Release(_ context.Context, userID string) (*domain.ParkingSlot, error) {
	for _, sl := range r.s.slots {
		if sl.UserID != nil && *sl.UserID == userID {
			sl.Status = domain.SlotAvailable
			sl.UserID = nil
			sl.AssignedAt = nil
			cp := *sl
			return &cp, nil
		}
	}
	return nil, domain.ErrNoSlotHeld
}

func (r *stubSlotRepo) CountByStatus(_ context.Context) (map[domain.SlotStatus]int64, error) {
	out := make(map[domain.SlotStatus]int64)
	for _, sl := range r.s.slots {
		out[sl.Status]++
	}
	return out, nil
}

// --- requests ---

type stubRequestRepo struct{ s *stubStore }

func (r *stubRequestRepo) Create(_ context.Context, req *domain.SlotRequest) (*domain.SlotRequest, error) {
	// Only a rejected request frees the user; pending and approved both
	// count against the partial unique index.
	for _, existing := range r.s.requests {
		if existing.UserID == req.UserID && existing.Status != domain.RequestRejected {
			return nil, domain.ErrActiveRequestExists
		}
	}
	cp := *req
	if cp.ID == "" {
		cp.ID = r.s.nextID()
	}
	r.s.requests[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *stubRequestRepo) FindByID(_ context.Context, id string) (*domain.SlotRequest, error) {
	req, ok := r.s.requests[id]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	cp := *req
	return &cp, nil
}

func (r *stubRequestRepo) List(_ context.Context, filter ports.ListRequestsFilter) ([]*domain.SlotRequest, int64, error) {
	var out []*domain.SlotRequest
	for _, req := range r.s.requests {
		if filter.UserID != "" && req.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && string(req.Status) != filter.Status {
			continue
		}
		cp := *req
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *stubRequestRepo) Resolve(_ context.Context, id string, status domain.RequestStatus, slotID *string, rejectionReason string) error {
	req, ok := r.s.requests[id]
	if !ok {
		return domain.ErrRequestNotFound
	}
	if req.Status.Resolved() {
		return domain.ErrRequestResolved
	}
	req.Status = status
	req.SlotID = slotID
	req.RejectionReason = rejectionReason
	return nil
}

func (r *stubRequestRepo) HasActive(_ context.Context, userID string) (bool, error) {
	for _, req := range r.s.requests {
		if req.UserID == userID && req.Status != domain.RequestRejected {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubRequestRepo) CountByStatus(_ context.Context) (map[domain.RequestStatus]int64, error) {
	out := make(map[domain.RequestStatus]int64)
	for _, req := range r.s.requests {
		out[req.Status]++
	}
	return out, nil
}

// --- tickets ---

type stubTicketRepo struct{ s *stubStore }

func (r *stubTicketRepo) Create(_ context.Context, t *domain.Ticket) (*domain.Ticket, error) {
	for _, existing := range r.s.tickets {
		if existing.UserID == t.UserID && !existing.Status.Terminal() {
			return nil, domain.ErrActiveTicketExists
		}
	}
	cp := *t
	if cp.ID == "" {
		cp.ID = r.s.nextID()
	}
	r.s.tickets[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *stubTicketRepo) FindByID(_ context.Context, id string) (*domain.Ticket, error) {
	t, ok := r.s.tickets[id]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *stubTicketRepo) FindOpenByUser(_ context.Context, userID string) (*domain.Ticket, error) {
	for _, t := range r.s.tickets {
		if t.UserID == userID && !t.Status.Terminal() {
			cp := *t
			return &cp, nil
		}
	}
	return nil, domain.ErrTicketNotFound
}

func (r *stubTicketRepo) List(_ context.Context, filter ports.ListTicketsFilter) ([]*domain.Ticket, int64, error) {
	var out []*domain.Ticket
	for _, t := range r.s.tickets {
		if filter.UserID != "" && t.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && string(t.Status) != filter.Status {
			continue
		}
		if filter.Open && t.Status.Terminal() {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *stubTicketRepo) Activate(_ context.Context, id string, entry time.Time) error {
	t, ok := r.s.tickets[id]
	if !ok {
		return domain.ErrTicketNotFound
	}
	if t.Status != domain.TicketPending {
		return domain.ErrInvalidTransition
	}
	e := entry
	t.Status = domain.TicketActive
	t.ActualEntryTime = &e
	return nil
}

func (r *stubTicketRepo) Complete(_ context.Context, id string, exit time.Time, durationMinutes, amount int64) error {
	t, ok := r.s.tickets[id]
	if !ok {
		return domain.ErrTicketNotFound
	}
	if t.Status != domain.TicketActive {
		return domain.ErrInvalidTransition
	}
	e := exit
	d := durationMinutes
	a := amount
	t.Status = domain.TicketCompleted
	t.ActualExitTime = &e
	t.DurationMinutes = &d
	t.Amount = &a
	return nil
}

func (r *stubTicketRepo) CountByStatus(_ context.Context) (map[domain.TicketStatus]int64, error) {
	out := make(map[domain.TicketStatus]int64)
	for _, t := range r.s.tickets {
		out[t.Status]++
	}
	return out, nil
}

func (r *stubTicketRepo) Stats(_ context.Context, since time.Time) (ports.TicketStats, error) {
	var stats ports.TicketStats
	for _, t := range r.s.tickets {
		if t.Status != domain.TicketCompleted || t.CreatedAt.Before(since) {
			continue
		}
		stats.Completed++
		if t.Amount != nil {
			stats.TotalRevenue += *t.Amount
		}
	}
	return stats, nil
}

// --- notifications ---

type stubNotificationRepo struct{ s *stubStore }

func (r *stubNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	cp := *n
	if cp.ID == "" {
		cp.ID = r.s.nextID()
	}
	r.s.notifications = append(r.s.notifications, &cp)
	return nil
}

func (r *stubNotificationRepo) ListByUser(_ context.Context, userID string, page, limit int) ([]*domain.Notification, int64, error) {
	var out []*domain.Notification
	for _, n := range r.s.notifications {
		if n.UserID == userID {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubNotificationRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, n := range r.s.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *stubNotificationRepo) MarkRead(_ context.Context, userID, id string) error {
	for _, n := range r.s.notifications {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return domain.ErrNotificationNotFound
}

func (r *stubNotificationRepo) MarkAllRead(_ context.Context, userID string) error {
	for _, n := range r.s.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

// --- otps ---

type stubOTPRepo struct{ s *stubStore }

func (r *stubOTPRepo) Create(_ context.Context, otp *domain.OTP) error {
	cp := *otp
	if cp.ID == "" {
		cp.ID = r.s.nextID()
	}
	r.s.otps = append(r.s.otps, &cp)
	return nil
}

func (r *stubOTPRepo) Consume(_ context.Context, email, code string, otpType domain.OTPType, role string) error {
	now := time.Now().UTC()
	for _, otp := range r.s.otps {
		if otp.Email == email && otp.Code == code && otp.Type == otpType && otp.Role == role &&
			!otp.IsUsed && otp.ExpiresAt.After(now) {
			otp.IsUsed = true
			return nil
		}
	}
	return domain.ErrOTPInvalid
}

// --- mailer ---

// stubMailer records outbound mail so tests can read back issued codes.
type stubMailer struct {
	codes    map[string]string // email -> last OTP code
	sent     int
	failSend bool
}

func newStubMailer() *stubMailer {
	return &stubMailer{codes: make(map[string]string)}
}

func (m *stubMailer) SendOTP(_ context.Context, to, code string, _ domain.OTPType) error {
	m.codes[to] = code
	return nil
}

func (m *stubMailer) Send(_ context.Context, to, subject, body string) error {
	m.sent++
	if m.failSend {
		return fmt.Errorf("smtp unavailable")
	}
	return nil
}
