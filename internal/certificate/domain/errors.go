package domain

import (
	"github.com/allisson/credstore/internal/errors"
)

// Certificate chain error definitions.
var (
	// ErrNotCertificateAuthority indicates a signer lookup against a
	// credential that is not a CA certificate. Never silently used as a
	// signer.
	ErrNotCertificateAuthority = errors.Wrap(errors.ErrInvalidInput, "credential is not a certificate authority")
)
