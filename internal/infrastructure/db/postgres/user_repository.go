package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/parkwise/parking-system/internal/core/domain"
	"github.com/parkwise/parking-system/internal/core/ports"
)

const userColumns = `id, name, email, password_hash, plate_number, status, is_email_verified, created_at, updated_at`

type UserRepository struct {
	q Querier
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	u := *user
	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	_, err := r.q.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, plate_number, status, is_email_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, u.ID, u.Name, u.Email, u.PasswordHash, u.PlateNumber, u.Status, u.IsEmailVerified, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if uniqueViolation(err, constraintUserEmail) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.scanOne(r.q.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.scanOne(r.q.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) List(ctx context.Context, filter ports.ListUsersFilter) ([]*domain.User, int64, error) {
	where := "TRUE"
	args := []any{}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += fmt.Sprintf(" AND (name ILIKE $%d OR email ILIKE $%d)", len(args), len(args))
	}

	var total int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	rows, err := r.q.Query(ctx, fmt.Sprintf(
		`SELECT `+userColumns+` FROM users WHERE `+where+` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := r.scanOne(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func (r *UserRepository) UpdateStatus(ctx context.Context, id string, status domain.UserStatus) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE users SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update user status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) SetEmailVerified(ctx context.Context, email string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE users SET is_email_verified = TRUE, updated_at = now() WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("verify user email: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = now() WHERE email = $1`, email, passwordHash)
	if err != nil {
		return fmt.Errorf("update user password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) CountByStatus(ctx context.Context) (map[domain.UserStatus]int64, error) {
	rows, err := r.q.Query(ctx, `SELECT status, COUNT(*) FROM users GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count users by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.UserStatus]int64)
	for rows.Next() {
		var status domain.UserStatus
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *UserRepository) scanOne(row rowScanner) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.PlateNumber,
		&u.Status,
		&u.IsEmailVerified,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}
	return &u, nil
}

type AdminRepository struct {
	q Querier
}

const adminColumns = `id, name, email, password_hash, is_email_verified, created_at, updated_at`

func (r *AdminRepository) Create(ctx context.Context, admin *domain.Admin) (*domain.Admin, error) {
	a := *admin
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	_, err := r.q.Exec(ctx, `
		INSERT INTO admins (id, name, email, password_hash, is_email_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, a.ID, a.Name, a.Email, a.PasswordHash, a.IsEmailVerified, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if uniqueViolation(err, constraintAdminEmail) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert admin: %w", err)
	}
	return &a, nil
}

func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	return r.scanOne(r.q.QueryRow(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE email = $1`, email))
}

func (r *AdminRepository) FindByID(ctx context.Context, id string) (*domain.Admin, error) {
	return r.scanOne(r.q.QueryRow(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE id = $1`, id))
}

func (r *AdminRepository) SetEmailVerified(ctx context.Context, email string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE admins SET is_email_verified = TRUE, updated_at = now() WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("verify admin email: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *AdminRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE admins SET password_hash = $2, updated_at = now() WHERE email = $1`, email, passwordHash)
	if err != nil {
		return fmt.Errorf("update admin password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *AdminRepository) scanOne(row rowScanner) (*domain.Admin, error) {
	var a domain.Admin
	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Email,
		&a.PasswordHash,
		&a.IsEmailVerified,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}
	return &a, nil
}
