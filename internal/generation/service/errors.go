package service

import (
	"github.com/allisson/credstore/internal/errors"
)

// Generation error definitions.
var (
	// ErrNotRegeneratable indicates a regenerate request on a type without a
	// generation-request reconstruction strategy (json, value, set secrets).
	ErrNotRegeneratable = errors.Wrap(errors.ErrInvalidInput, "credential type is not regeneratable")

	// ErrUnsupportedType indicates a generate request for a type with no
	// generation backend.
	ErrUnsupportedType = errors.Wrap(errors.ErrInvalidInput, "unsupported generation type")

	// ErrInvalidParameters indicates generation parameters that fail validation.
	ErrInvalidParameters = errors.Wrap(errors.ErrInvalidInput, "invalid generation parameters")

	// ErrMissingSigner indicates a CA-signed certificate request without signer material.
	ErrMissingSigner = errors.Wrap(errors.ErrInvalidInput, "missing signer material")

	// ErrInvalidSigner indicates signer material that cannot be parsed.
	ErrInvalidSigner = errors.Wrap(errors.ErrInvalidInput, "invalid signer material")
)
