package ports

import "context"

// Store aggregates all repositories behind a single handle and provides
// transaction scoping. WithinTx runs fn against a Store whose repositories
// share one database transaction: every write inside fn commits together or
// rolls back on error. Workflow services depend on Store so their
// persistence needs are visible in their constructors.
type Store interface {
	Users() UserRepository
	Admins() AdminRepository
	Slots() SlotRepository
	Requests() RequestRepository
	Tickets() TicketRepository
	Notifications() NotificationRepository
	OTPs() OTPRepository

	WithinTx(ctx context.Context, fn func(Store) error) error
}

// Pagination is the shared paging envelope returned by list operations.
type Pagination struct {
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}
