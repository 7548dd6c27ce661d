package domain

import (
	"time"

	"github.com/google/uuid"
)

// VersionMetadata holds the type-specific columns of a version. Only the
// fields relevant to the version's type are set; the rest stay zero.
//
// The generation parameter fields store enough of the original request to
// rebuild it during regeneration.
type VersionMetadata struct {
	// Certificate fields.
	CAName       string
	IsCA         bool
	SelfSigned   bool
	Transitional bool
	Certificate  string // PEM-encoded certificate, public part
	ExpiryDate   time.Time

	// Keypair fields (ssh, rsa).
	PublicKey string

	// User fields. The hash allows login verification without decrypting.
	Username     string
	PasswordHash string

	// Generation parameters.
	KeyLength      int
	DurationDays   int
	CommonName     string
	PasswordLength int
	IncludeSpecial bool
}

// CredentialVersion is one immutable snapshot of a credential's value. The
// secret payload lives in the referenced EncryptedValue row; rotation swaps
// that row's ciphertext without touching the version. The only mutable piece
// of bookkeeping is the certificate transitional flag.
type CredentialVersion struct {
	ID               uuid.UUID
	CredentialID     uuid.UUID
	Type             CredentialType
	EncryptedValueID uuid.UUID
	Metadata         VersionMetadata
	CreatedAt        time.Time

	// Plaintext holds the decrypted payload on read paths. Never persisted.
	Plaintext []byte
}

// NewCredentialVersion creates a version row referencing an encrypted payload.
func NewCredentialVersion(
	credentialID uuid.UUID,
	credentialType CredentialType,
	encryptedValueID uuid.UUID,
	metadata VersionMetadata,
) *CredentialVersion {
	return &CredentialVersion{
		ID:               uuid.Must(uuid.NewV7()),
		CredentialID:     credentialID,
		Type:             credentialType,
		EncryptedValueID: encryptedValueID,
		Metadata:         metadata,
		CreatedAt:        time.Now().UTC(),
	}
}
