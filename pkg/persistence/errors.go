package persistence

import "errors"

var (
	// ErrEntityNotFound is returned when no stored entity matches the lookup key.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrDuplicateKey is returned when a write violates a uniqueness constraint.
	ErrDuplicateKey = errors.New("duplicate key")
)
