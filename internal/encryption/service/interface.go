// Package service provides the cryptographic services behind the credential
// store: AEAD ciphers, per-key encryption providers and the Encryptor facade
// used by the data layer.
package service

import (
	"context"

	"github.com/google/uuid"

	encryptionDomain "github.com/allisson/credstore/internal/encryption/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg encryptionDomain.Algorithm) (AEAD, error)
}

// Provider wraps one configured key source (software key or external KMS
// keeper) and exposes encrypt/decrypt for that single logical key.
//
// KMS-backed providers fold the nonce into the ciphertext envelope and return
// an empty nonce; software providers return the random AEAD nonce.
type Provider interface {
	Encrypt(ctx context.Context, plaintext []byte) (ciphertext, nonce []byte, err error)
	Decrypt(ctx context.Context, ciphertext, nonce []byte) ([]byte, error)
}

// ProviderFactory creates a Provider for a configured encryption key.
type ProviderFactory interface {
	ProviderFor(key *encryptionDomain.EncryptionKey) (Provider, error)
}

// Encryptor is the per-value encrypt/decrypt facade used by the data layer.
// New writes always use the active key; decryption is routed to whichever key
// produced the stored ciphertext.
type Encryptor interface {
	// Encrypt encrypts plaintext with the active key and returns the stored
	// key id along with nonce and ciphertext.
	Encrypt(ctx context.Context, plaintext []byte) (keyID uuid.UUID, nonce, ciphertext []byte, err error)

	// Decrypt resolves keyID through the registry and decrypts. A key id the
	// registry cannot classify fails with ErrKeyUnresolvable.
	Decrypt(ctx context.Context, keyID uuid.UUID, nonce, ciphertext []byte) ([]byte, error)
}
