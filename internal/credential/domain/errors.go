package domain

import (
	"github.com/allisson/credstore/internal/errors"
)

// Credential store error definitions.
var (
	// ErrCredentialNotFound indicates no credential exists with the given name
	// or id, or the caller may not know whether it exists.
	ErrCredentialNotFound = errors.Wrap(errors.ErrNotFound, "credential not found")

	// ErrVersionNotFound indicates no version exists with the given id.
	ErrVersionNotFound = errors.Wrap(errors.ErrNotFound, "credential version not found")

	// ErrTypeMismatch indicates a save whose type differs from the
	// credential's existing versions. Types never migrate silently.
	ErrTypeMismatch = errors.Wrap(errors.ErrInvalidInput, "credential type mismatch")

	// ErrInvalidType indicates a type outside the declared set.
	ErrInvalidType = errors.Wrap(errors.ErrInvalidInput, "invalid credential type")

	// ErrInvalidName indicates a credential name that fails validation.
	ErrInvalidName = errors.Wrap(errors.ErrInvalidInput, "invalid credential name")

	// ErrValueTooLarge indicates a payload over the configured size limit.
	// Rejected before the write so no low-level constraint error surfaces.
	ErrValueTooLarge = errors.Wrap(errors.ErrInvalidInput, "credential value too large")
)
