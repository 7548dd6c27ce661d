// Package domain defines the core models for the encryption-key registry.
//
// The registry holds every configured key (software or KMS-backed),
// designates exactly one as active for new writes, and classifies the rest
// as known-inactive (usable for decrypt, target of rotation) or unknown
// (present in stored data, not configured here).
package domain

import (
	"sync"

	"github.com/google/uuid"
)

// EncryptionKey represents one configured key source.
//
// The ID is the stored key id referenced by encrypted_value rows; it is
// assigned during canary verification, either by matching an existing canary
// or by minting a fresh canary for a key never used before.
type EncryptionKey struct {
	ID        uuid.UUID    // Stored key id (resolved at startup via canaries)
	Name      string       // Configuration name (e.g., "prod-2026")
	Provider  ProviderType // software or kms
	Material  []byte       // Raw 256-bit key for the software provider, nil otherwise
	KeeperURI string       // Keeper URI for the kms provider, empty otherwise
}

// KeyRegistry holds the set of configured keys with thread-safe access.
// It is built once at startup by canary verification and treated as
// read-mostly for the process lifetime.
type KeyRegistry struct {
	activeID uuid.UUID
	keys     sync.Map // uuid.UUID -> *EncryptionKey
	unknown  map[uuid.UUID]struct{}
}

// NewKeyRegistry creates a registry from the verified key set. The active key
// must be part of keys; unknownIDs are stored key ids no configured key matched.
func NewKeyRegistry(activeID uuid.UUID, keys []*EncryptionKey, unknownIDs []uuid.UUID) *KeyRegistry {
	r := &KeyRegistry{
		activeID: activeID,
		unknown:  make(map[uuid.UUID]struct{}, len(unknownIDs)),
	}

	for _, key := range keys {
		r.keys.Store(key.ID, key)
	}
	for _, id := range unknownIDs {
		r.unknown[id] = struct{}{}
	}

	return r
}

// ActiveKeyID returns the stored id of the key used for all new writes.
func (r *KeyRegistry) ActiveKeyID() uuid.UUID {
	return r.activeID
}

// ActiveKey returns the key used for all new writes.
func (r *KeyRegistry) ActiveKey() (*EncryptionKey, bool) {
	return r.Get(r.activeID)
}

// Get retrieves a configured key by its stored id.
func (r *KeyRegistry) Get(id uuid.UUID) (*EncryptionKey, bool) {
	if key, ok := r.keys.Load(id); ok {
		return key.(*EncryptionKey), ok
	}

	return nil, false
}

// DecryptableKeyIDs returns the stored ids of every configured key,
// active included.
func (r *KeyRegistry) DecryptableKeyIDs() []uuid.UUID {
	var ids []uuid.UUID
	r.keys.Range(func(k, _ any) bool {
		ids = append(ids, k.(uuid.UUID))
		return true
	})
	return ids
}

// InactiveKeyIDs returns the decryptable key ids minus the active one.
// This is the rotation target set.
func (r *KeyRegistry) InactiveKeyIDs() []uuid.UUID {
	var ids []uuid.UUID
	r.keys.Range(func(k, _ any) bool {
		if id := k.(uuid.UUID); id != r.activeID {
			ids = append(ids, id)
		}
		return true
	})
	return ids
}

// Classify reports how the registry sees a stored key id.
func (r *KeyRegistry) Classify(id uuid.UUID) KeyClass {
	if id == r.activeID {
		return KeyClassActive
	}
	if _, ok := r.keys.Load(id); ok {
		return KeyClassKnownInactive
	}
	return KeyClassUnknown
}

// UnknownKeyIDs returns stored key ids no configured key could match.
func (r *KeyRegistry) UnknownKeyIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.unknown))
	for id := range r.unknown {
		ids = append(ids, id)
	}
	return ids
}

// Close zeroes all software key material and resets the registry.
func (r *KeyRegistry) Close() {
	r.keys.Range(func(key, value any) bool {
		if k, ok := value.(*EncryptionKey); ok {
			Zero(k.Material)
		}
		return true
	})
	r.activeID = uuid.Nil
	r.keys.Clear()
}
