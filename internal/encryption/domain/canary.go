package domain

import (
	"time"

	"github.com/google/uuid"
)

// CanaryValue is the sentinel plaintext every canary encrypts. A successful
// trial decryption that yields this value proves a configured key corresponds
// to the canary's stored key id, without touching real secret data.
const CanaryValue = "canary-value"

// Canary is one sentinel ciphertext per key ever used for writes.
type Canary struct {
	ID         uuid.UUID // Stored key id this canary identifies
	Ciphertext []byte
	Nonce      []byte
	CreatedAt  time.Time
}
