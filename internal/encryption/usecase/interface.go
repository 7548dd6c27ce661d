// Package usecase implements the encryption-key registry bootstrap (canary
// verification) and the background key-rotation batch process.
package usecase

import (
	"context"

	"github.com/google/uuid"

	encryptionDomain "github.com/allisson/credstore/internal/encryption/domain"
)

// CanaryRepository defines the interface for canary persistence.
type CanaryRepository interface {
	// Create stores a new canary row for a key never used before.
	Create(ctx context.Context, canary *encryptionDomain.Canary) error

	// List returns every canary row ordered by creation time.
	List(ctx context.Context) ([]*encryptionDomain.Canary, error)
}

// EncryptedValueRepository defines the interface for encrypted-value persistence.
type EncryptedValueRepository interface {
	// Create inserts a new encrypted value.
	Create(ctx context.Context, value *encryptionDomain.EncryptedValue) error

	// Get retrieves an encrypted value by id.
	Get(ctx context.Context, id uuid.UUID) (*encryptionDomain.EncryptedValue, error)

	// GetBatchByKeyIDs fetches a bounded page of values under the given keys,
	// skipping the explicitly excluded row ids.
	GetBatchByKeyIDs(ctx context.Context, keyIDs, excludeIDs []uuid.UUID, limit int) ([]*encryptionDomain.EncryptedValue, error)

	// UpdateInPlace swaps ciphertext, nonce and key id preserving row identity.
	UpdateInPlace(ctx context.Context, value *encryptionDomain.EncryptedValue) error

	// CountAll returns the total number of encrypted values.
	CountAll(ctx context.Context) (int64, error)

	// CountByKeyIDs returns how many values are encrypted under the given keys.
	CountByKeyIDs(ctx context.Context, keyIDs []uuid.UUID) (int64, error)
}

// RegistryUseCase verifies configured keys against stored canaries and
// assembles the process-wide KeyRegistry.
type RegistryUseCase interface {
	// Verify proves which configured keys can decrypt previously-written data,
	// mints canaries for keys never used before, designates the active key and
	// fails fast when a non-empty store is completely unreadable.
	Verify(ctx context.Context, keys []*encryptionDomain.EncryptionKey, activeName string) (*encryptionDomain.KeyRegistry, error)
}

// RotationUseCase re-encrypts every value under a known-inactive key with the
// active key, in bounded pages.
type RotationUseCase interface {
	// Rotate runs the batch process until the inactive set is drained or the
	// context is cancelled. It returns the number of values re-encrypted.
	Rotate(ctx context.Context) (int, error)
}
