package domain

import (
	"github.com/allisson/credstore/internal/errors"
)

// Permission error definitions.
var (
	// ErrEntryNotFound indicates no grant exists for the (credential, actor) pair.
	ErrEntryNotFound = errors.Wrap(errors.ErrNotFound, "permission entry not found")

	// ErrInvalidOperation indicates an operation outside the fixed set.
	ErrInvalidOperation = errors.Wrap(errors.ErrInvalidInput, "invalid permission operation")

	// ErrInvalidActor indicates an empty or malformed actor identifier.
	ErrInvalidActor = errors.Wrap(errors.ErrInvalidInput, "invalid actor")
)
