package usecase

import (
	"context"
	"crypto/rand"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	encryptionDomain "github.com/allisson/credstore/internal/encryption/domain"
	encryptionService "github.com/allisson/credstore/internal/encryption/service"
	"github.com/allisson/credstore/internal/encryption/usecase/mocks"
	apperrors "github.com/allisson/credstore/internal/errors"
)

func newSoftwareKey(t *testing.T, name string) *encryptionDomain.EncryptionKey {
	t.Helper()

	material := make([]byte, 32)
	_, err := rand.Read(material)
	require.NoError(t, err)

	return &encryptionDomain.EncryptionKey{
		Name:     name,
		Provider: encryptionDomain.SoftwareProvider,
		Material: material,
	}
}

// canaryFor creates a stored canary row that only the given key can open.
func canaryFor(t *testing.T, factory encryptionService.ProviderFactory, key *encryptionDomain.EncryptionKey) *encryptionDomain.Canary {
	t.Helper()

	provider, err := factory.ProviderFor(key)
	require.NoError(t, err)

	ciphertext, nonce, err := provider.Encrypt(context.Background(), []byte(encryptionDomain.CanaryValue))
	require.NoError(t, err)

	return &encryptionDomain.Canary{
		ID:         uuid.Must(uuid.NewV7()),
		Ciphertext: ciphertext,
		Nonce:      nonce,
		CreatedAt:  time.Now().UTC(),
	}
}

func TestRegistryUseCase_Verify_FreshStore(t *testing.T) {
	keys := []*encryptionDomain.EncryptionKey{
		newSoftwareKey(t, "prod-2026"),
		newSoftwareKey(t, "prod-2025"),
	}

	canaryRepo := new(mocks.MockCanaryRepository)
	valueRepo := new(mocks.MockEncryptedValueRepository)
	canaryRepo.On("List", mock.Anything).Return([]*encryptionDomain.Canary{}, nil)
	valueRepo.On("CountAll", mock.Anything).Return(int64(0), nil)
	canaryRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Canary")).Return(nil).Times(2)

	factory := encryptionService.NewProviderFactory(encryptionService.NewAEADManager(), encryptionDomain.AESGCM)
	uc := NewRegistryUseCase(canaryRepo, valueRepo, factory, slog.Default())

	registry, err := uc.Verify(context.Background(), keys, "prod-2026")
	require.NoError(t, err)

	// Every key gets a freshly minted stored id, the named key is active.
	assert.NotEqual(t, uuid.Nil, keys[0].ID)
	assert.NotEqual(t, uuid.Nil, keys[1].ID)
	assert.NotEqual(t, keys[0].ID, keys[1].ID)
	assert.Equal(t, keys[0].ID, registry.ActiveKeyID())
	assert.Empty(t, registry.UnknownKeyIDs())
	canaryRepo.AssertExpectations(t)
	valueRepo.AssertExpectations(t)
}

func TestRegistryUseCase_Verify_MatchesExistingCanary(t *testing.T) {
	key := newSoftwareKey(t, "prod-2026")
	factory := encryptionService.NewProviderFactory(encryptionService.NewAEADManager(), encryptionDomain.AESGCM)
	canary := canaryFor(t, factory, key)

	canaryRepo := new(mocks.MockCanaryRepository)
	valueRepo := new(mocks.MockEncryptedValueRepository)
	canaryRepo.On("List", mock.Anything).Return([]*encryptionDomain.Canary{canary}, nil)
	valueRepo.On("CountAll", mock.Anything).Return(int64(3), nil)
	valueRepo.On("CountByKeyIDs", mock.Anything, []uuid.UUID{canary.ID}).Return(int64(3), nil)

	uc := NewRegistryUseCase(canaryRepo, valueRepo, factory, slog.Default())

	registry, err := uc.Verify(context.Background(), []*encryptionDomain.EncryptionKey{key}, "prod-2026")
	require.NoError(t, err)

	// The key inherits the stored id proven by trial decryption, no new canary.
	assert.Equal(t, canary.ID, key.ID)
	assert.Equal(t, canary.ID, registry.ActiveKeyID())
	canaryRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegistryUseCase_Verify_UnknownCanariesAreKept(t *testing.T) {
	key := newSoftwareKey(t, "prod-2026")
	departed := newSoftwareKey(t, "departed")
	factory := encryptionService.NewProviderFactory(encryptionService.NewAEADManager(), encryptionDomain.AESGCM)
	matched := canaryFor(t, factory, key)
	orphan := canaryFor(t, factory, departed)

	canaryRepo := new(mocks.MockCanaryRepository)
	valueRepo := new(mocks.MockEncryptedValueRepository)
	canaryRepo.On("List", mock.Anything).Return([]*encryptionDomain.Canary{matched, orphan}, nil)
	valueRepo.On("CountAll", mock.Anything).Return(int64(5), nil)
	valueRepo.On("CountByKeyIDs", mock.Anything, []uuid.UUID{matched.ID}).Return(int64(4), nil)

	uc := NewRegistryUseCase(canaryRepo, valueRepo, factory, slog.Default())

	registry, err := uc.Verify(context.Background(), []*encryptionDomain.EncryptionKey{key}, "prod-2026")
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{orphan.ID}, registry.UnknownKeyIDs())
	assert.Equal(t, encryptionDomain.KeyClassUnknown, registry.Classify(orphan.ID))
	assert.Equal(t, encryptionDomain.KeyClassActive, registry.Classify(matched.ID))
}

func TestRegistryUseCase_Verify_FailFastWhenNothingDecryptable(t *testing.T) {
	key := newSoftwareKey(t, "prod-2026")
	departed := newSoftwareKey(t, "departed")
	factory := encryptionService.NewProviderFactory(encryptionService.NewAEADManager(), encryptionDomain.AESGCM)
	orphan := canaryFor(t, factory, departed)

	canaryRepo := new(mocks.MockCanaryRepository)
	valueRepo := new(mocks.MockEncryptedValueRepository)
	canaryRepo.On("List", mock.Anything).Return([]*encryptionDomain.Canary{orphan}, nil)
	valueRepo.On("CountAll", mock.Anything).Return(int64(10), nil)

	uc := NewRegistryUseCase(canaryRepo, valueRepo, factory, slog.Default())

	registry, err := uc.Verify(context.Background(), []*encryptionDomain.EncryptionKey{key}, "prod-2026")
	require.Error(t, err)
	assert.Nil(t, registry)
	assert.True(t, apperrors.Is(err, encryptionDomain.ErrNoDecryptableData))
	assert.True(t, apperrors.Is(err, apperrors.ErrDataIntegrity))

	// An aborted startup must leave no writes behind.
	canaryRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegistryUseCase_Verify_ActiveNameNotConfigured(t *testing.T) {
	key := newSoftwareKey(t, "prod-2026")
	factory := encryptionService.NewProviderFactory(encryptionService.NewAEADManager(), encryptionDomain.AESGCM)

	canaryRepo := new(mocks.MockCanaryRepository)
	valueRepo := new(mocks.MockEncryptedValueRepository)
	canaryRepo.On("List", mock.Anything).Return([]*encryptionDomain.Canary{}, nil)
	valueRepo.On("CountAll", mock.Anything).Return(int64(0), nil)
	canaryRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Canary")).Return(nil)

	uc := NewRegistryUseCase(canaryRepo, valueRepo, factory, slog.Default())

	registry, err := uc.Verify(context.Background(), []*encryptionDomain.EncryptionKey{key}, "missing")
	require.Error(t, err)
	assert.Nil(t, registry)
	assert.True(t, apperrors.Is(err, encryptionDomain.ErrActiveKeyNotConfigured))
}
