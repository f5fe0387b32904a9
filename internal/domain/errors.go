package domain

import "errors"

var (
	// ErrNotFound indicates that the referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a uniqueness violation (duplicate like,
	// follow edge, email or username).
	ErrConflict = errors.New("already exists")
)
