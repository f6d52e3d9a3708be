// Package postgres implements ports.Store on top of pgx. Each repository is
// a thin stateless wrapper over a Querier, which is either the shared pool
// or, inside WithinTx, a single transaction.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/parkwise/parking-system/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

// Querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Connect establishes a pgx connection pool and verifies connectivity with a
// ping. A default timeout is applied when none is provided.
func Connect(ctx context.Context, url string, timeout time.Duration) (*pgxpool.Pool, error) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := pgxpool.New(connectCtx, url)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return pool, nil
}

// Store implements ports.Store. The zero pool marks a transaction-bound
// store, which must not open nested transactions.
type Store struct {
	pool *pgxpool.Pool
	q    Querier
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, q: pool}
}

func (s *Store) Users() ports.UserRepository                 { return &UserRepository{q: s.q} }
func (s *Store) Admins() ports.AdminRepository               { return &AdminRepository{q: s.q} }
func (s *Store) Slots() ports.SlotRepository                 { return &SlotRepository{q: s.q} }
func (s *Store) Requests() ports.RequestRepository           { return &RequestRepository{q: s.q} }
func (s *Store) Tickets() ports.TicketRepository             { return &TicketRepository{q: s.q} }
func (s *Store) Notifications() ports.NotificationRepository { return &NotificationRepository{q: s.q} }
func (s *Store) OTPs() ports.OTPRepository                   { return &OTPRepository{q: s.q} }

// WithinTx runs fn against a transaction-bound Store. All writes inside fn
// commit together or roll back on the first error. Calls made on a store
// that is already transaction-bound join the enclosing transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(ports.Store) error) error {
	if s.pool == nil {
		return fn(s)
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(&Store{q: tx}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

// Constraint names from schema.sql that are translated to domain errors.
const (
	constraintUserEmail     = "users_email_key"
	constraintAdminEmail    = "admins_email_key"
	constraintSlotNumber    = "parking_slots_slot_number_key"
	constraintSlotOneHolder = "uq_parking_slots_user"
	constraintActiveRequest = "uq_slot_requests_active_per_user"
	constraintOpenTicket    = "uq_tickets_open_per_user"
)

// uniqueViolation reports whether err is a unique-constraint violation on
// the named constraint.
func uniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == constraint
}

func notFound(err error, sentinel error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return sentinel
	}
	return err
}
