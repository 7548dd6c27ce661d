package domain

import (
	"time"

	"github.com/google/uuid"
)

// EncryptedValue is the ciphertext record backing one credential version.
// Rotation swaps ciphertext, nonce and key id in place; the id never changes,
// so version rows stay untouched.
type EncryptedValue struct {
	ID         uuid.UUID
	KeyID      uuid.UUID // Stored key id of the key that produced the ciphertext
	Ciphertext []byte
	Nonce      []byte
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
