package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestKeyRegistry_Classify(t *testing.T) {
	active := &EncryptionKey{ID: uuid.Must(uuid.NewV7()), Name: "active", Provider: SoftwareProvider}
	inactive := &EncryptionKey{ID: uuid.Must(uuid.NewV7()), Name: "old", Provider: SoftwareProvider}
	unknownID := uuid.Must(uuid.NewV7())

	registry := NewKeyRegistry(active.ID, []*EncryptionKey{active, inactive}, []uuid.UUID{unknownID})

	assert.Equal(t, KeyClassActive, registry.Classify(active.ID))
	assert.Equal(t, KeyClassKnownInactive, registry.Classify(inactive.ID))
	assert.Equal(t, KeyClassUnknown, registry.Classify(unknownID))
	assert.Equal(t, KeyClassUnknown, registry.Classify(uuid.Must(uuid.NewV7())))
}

func TestKeyRegistry_KeySets(t *testing.T) {
	active := &EncryptionKey{ID: uuid.Must(uuid.NewV7()), Name: "active"}
	old1 := &EncryptionKey{ID: uuid.Must(uuid.NewV7()), Name: "old-1"}
	old2 := &EncryptionKey{ID: uuid.Must(uuid.NewV7()), Name: "old-2"}
	unknownID := uuid.Must(uuid.NewV7())

	registry := NewKeyRegistry(active.ID, []*EncryptionKey{active, old1, old2}, []uuid.UUID{unknownID})

	assert.Equal(t, active.ID, registry.ActiveKeyID())

	got, ok := registry.ActiveKey()
	assert.True(t, ok)
	assert.Equal(t, "active", got.Name)

	assert.ElementsMatch(t,
		[]uuid.UUID{active.ID, old1.ID, old2.ID},
		registry.DecryptableKeyIDs(),
	)
	assert.ElementsMatch(t,
		[]uuid.UUID{old1.ID, old2.ID},
		registry.InactiveKeyIDs(),
	)
	assert.Equal(t, []uuid.UUID{unknownID}, registry.UnknownKeyIDs())
}

func TestKeyRegistry_Close(t *testing.T) {
	material := []byte("0123456789abcdef0123456789abcdef")
	key := &EncryptionKey{ID: uuid.Must(uuid.NewV7()), Name: "active", Material: material}

	registry := NewKeyRegistry(key.ID, []*EncryptionKey{key}, nil)
	registry.Close()

	for _, b := range material {
		assert.Zero(t, b)
	}
	assert.Equal(t, uuid.Nil, registry.ActiveKeyID())

	_, ok := registry.Get(key.ID)
	assert.False(t, ok)
}
