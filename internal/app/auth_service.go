package app

import (
	"context"
	"crypto/sha256"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"microblog/internal/domain"
	"microblog/internal/token"
)

// dummyHash is a valid bcrypt digest compared against when the login
// email is unknown, so response latency does not reveal whether an
// account exists.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// passwordDigest reduces a password to a fixed-length SHA-256 digest
// before bcrypt, which only reads the first 72 bytes of its input.
// Every non-empty password hashes, and bytes past 72 still count.
func passwordDigest(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return sum[:]
}

// AuthService handles registration, credential verification and token
// issuance.
type AuthService struct {
	users  domain.UserRepository
	tokens *token.Service
}

// NewAuthService creates a new authentication service.
func NewAuthService(users domain.UserRepository, tokens *token.Service) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register creates a new user and returns it with a freshly issued token.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, string, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" || len(username) > 50 {
		return nil, "", fmt.Errorf("%w: username must be 1-50 characters", ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", fmt.Errorf("%w: malformed email address", ErrValidation)
	}
	if password == "" {
		return nil, "", fmt.Errorf("%w: password must not be empty", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword(passwordDigest(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}

	t, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return user, t, nil
}

// Login verifies email and password and returns the user with a freshly
// issued token. A bcrypt comparison runs on every call, against a dummy
// digest when the email is unknown, to keep failure latency uniform.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.UserByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), passwordDigest(password))
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), passwordDigest(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	t, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return user, t, nil
}

// UserByID resolves a user's profile, for the authenticated "me" lookup.
func (s *AuthService) UserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.UserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return user, nil
}
