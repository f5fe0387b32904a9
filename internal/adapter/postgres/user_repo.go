package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"microblog/internal/domain"
)

// uniqueViolation is the PostgreSQL error code for unique_violation.
const uniqueViolation = "23505"

// CreateUser inserts a new user, relying on the unique constraints for
// duplicate email/username detection.
func (d *DB) CreateUser(ctx context.Context, u *domain.User) error {
	_, err := d.sql.ExecContext(ctx,
		"INSERT INTO users (id, username, email, password_hash, created_at) VALUES ($1, $2, $3, $4, $5)",
		u.ID, u.Username, u.Email, u.PasswordHash, u.CreatedAt,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		switch pqErr.Constraint {
		case "users_email_key":
			return fmt.Errorf("email %w", domain.ErrConflict)
		case "users_username_key":
			return fmt.Errorf("username %w", domain.ErrConflict)
		}
		return domain.ErrConflict
	}
	return err
}

// UserByID retrieves a user by id.
func (d *DB) UserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return d.scanUser(d.sql.QueryRowContext(ctx,
		"SELECT id, username, email, password_hash, created_at FROM users WHERE id = $1", id))
}

// UserByEmail retrieves a user by email.
func (d *DB) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return d.scanUser(d.sql.QueryRowContext(ctx,
		"SELECT id, username, email, password_hash, created_at FROM users WHERE email = $1", email))
}

func (d *DB) scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
