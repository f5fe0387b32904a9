// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User represents a registered account.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserRepository is the port for user persistence.
type UserRepository interface {
	// CreateUser inserts a new user. Returns ErrConflict when the email
	// or username is already taken.
	CreateUser(ctx context.Context, u *User) error
	// UserByID returns nil, nil when no user exists with the given id.
	UserByID(ctx context.Context, id uuid.UUID) (*User, error)
	// UserByEmail returns nil, nil when no user exists with the given email.
	UserByEmail(ctx context.Context, email string) (*User, error)
}
