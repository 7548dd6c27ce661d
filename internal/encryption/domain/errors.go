package domain

import (
	"github.com/allisson/credstore/internal/errors"
)

// Encryption-key management error definitions.
var (
	// ErrUnsupportedAlgorithm indicates the requested AEAD algorithm is not supported.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrUnsupportedProvider indicates the configured provider type is not supported.
	ErrUnsupportedProvider = errors.Wrap(errors.ErrInvalidInput, "unsupported encryption provider")

	// ErrInvalidKeySize indicates a software key is not exactly 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrInvalidKeysFormat indicates ENCRYPTION_KEYS could not be parsed.
	ErrInvalidKeysFormat = errors.Wrap(errors.ErrInvalidInput, "invalid encryption keys format")

	// ErrActiveKeyNotConfigured indicates ACTIVE_KEY_NAME does not name a configured key.
	ErrActiveKeyNotConfigured = errors.Wrap(errors.ErrInvalidInput, "active key not configured")

	// ErrDecryptionFailed indicates an AEAD open failed: wrong key, tampered
	// ciphertext or bad nonce. The specific cause is not disclosed.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrKeyUnresolvable indicates a decrypt was requested for a stored key id
	// the registry cannot classify. This is a data-integrity condition, not a
	// missing secret.
	ErrKeyUnresolvable = errors.Wrap(errors.ErrDataIntegrity, "encryption key unresolvable")

	// ErrNoDecryptableData indicates the store is non-empty but none of the
	// configured keys can decrypt anything. Startup must abort rather than
	// serve a store it cannot read.
	ErrNoDecryptableData = errors.Wrap(errors.ErrDataIntegrity, "no configured key can decrypt stored data")
)
