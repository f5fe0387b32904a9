// Package app holds the application services and business logic.
package app

import "errors"

var (
	// ErrValidation indicates malformed, user-correctable input.
	ErrValidation = errors.New("invalid input")
	// ErrInvalidCredentials indicates that the provided email or password
	// was incorrect. Deliberately identical for unknown email and wrong
	// password to prevent account enumeration.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrForbidden indicates an authenticated caller acting on an entity
	// they do not own.
	ErrForbidden = errors.New("forbidden")
)
