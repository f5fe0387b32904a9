// Package token issues and verifies the signed, self-contained session
// tokens that prove a user identity without server-side session state.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidToken indicates a malformed payload or a bad signature.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken indicates that the token's expiry instant has passed.
	ErrExpiredToken = errors.New("token expired")
)

// TTL is the fixed lifetime of an issued token.
const TTL = 24 * time.Hour

const (
	headerType      = "JWT"
	headerAlgorithm = "HS256"
)

type header struct {
	Type      string `json:"typ"`
	Algorithm string `json:"alg"`
}

type claims struct {
	Subject   string `json:"sub"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// Service signs and verifies compact HS256 tokens with a process-wide
// secret loaded once at startup.
type Service struct {
	secret []byte
	now    func() time.Time
}

// NewService creates a token service around the given signing secret.
func NewService(secret string) *Service {
	return &Service{secret: []byte(secret), now: time.Now}
}

// Issue produces a signed token carrying the user id, valid for TTL.
func (s *Service) Issue(userID uuid.UUID) (string, error) {
	now := s.now()

	headerJSON, err := json.Marshal(header{Type: headerType, Algorithm: headerAlgorithm})
	if err != nil {
		return "", err
	}
	claimsJSON, err := json.Marshal(claims{
		Subject:   userID.String(),
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(TTL).Unix(),
	})
	if err != nil {
		return "", err
	}

	payload := b64Encode(headerJSON) + "." + b64Encode(claimsJSON)
	return payload + "." + s.sign(payload), nil
}

// Verify checks signature and expiry, returning the embedded user id.
// A token is atomically valid or invalid; there is no partial state.
func (s *Service) Verify(raw string) (uuid.UUID, error) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return uuid.Nil, ErrInvalidToken
	}

	payload := parts[0] + "." + parts[1]
	expected := s.sign(payload)
	if subtle.ConstantTimeCompare([]byte(parts[2]), []byte(expected)) != 1 {
		return uuid.Nil, ErrInvalidToken
	}

	headerJSON, err := b64Decode(parts[0])
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	var h header
	if err := json.Unmarshal(headerJSON, &h); err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	// Reject anything but HS256 to prevent algorithm confusion.
	if h.Algorithm != headerAlgorithm {
		return uuid.Nil, ErrInvalidToken
	}

	claimsJSON, err := b64Decode(parts[1])
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	var c claims
	if err := json.Unmarshal(claimsJSON, &c); err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	if c.ExpiresAt <= s.now().Unix() {
		return uuid.Nil, ErrExpiredToken
	}

	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return userID, nil
}

func (s *Service) sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return b64Encode(mac.Sum(nil))
}

func b64Encode(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

func b64Decode(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}
