package domain

// Algorithm represents the AEAD algorithm used by the software provider.
// Both options provide authenticated encryption with 256-bit keys and
// 12-byte nonces.
type Algorithm string

const (
	// AESGCM is AES-256-GCM. Preferred on CPUs with AES-NI acceleration.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 is ChaCha20-Poly1305. Preferred on platforms without AES-NI.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// ProviderType selects the key source backing an encryption key.
type ProviderType string

const (
	// SoftwareProvider keeps raw 256-bit key material in process memory,
	// loaded from configuration.
	SoftwareProvider ProviderType = "software"

	// KMSProvider delegates encrypt/decrypt to an external keeper
	// (HSM partition or cloud KMS) addressed by a keeper URI.
	KMSProvider ProviderType = "kms"
)

// KeyClass is the registry's classification of a stored key id.
type KeyClass string

const (
	// KeyClassActive is the single key used for all new writes.
	KeyClassActive KeyClass = "active"

	// KeyClassKnownInactive is a configured key no longer used for writes
	// but still able to decrypt older data. Rotation targets this set.
	KeyClassKnownInactive KeyClass = "known-inactive"

	// KeyClassUnknown is a key id present in stored data that no configured
	// key matches. Such data is left alone and surfaced as a warning.
	KeyClassUnknown KeyClass = "unknown"
)
