package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	encryptionDomain "github.com/allisson/credstore/internal/encryption/domain"
)

// providerFactory builds and caches one Provider per configured key.
// Providers are cached by key id so the registry, the encryptor and the
// rotation engine all share the same instances.
type providerFactory struct {
	aeadManager AEADManager
	algorithm   encryptionDomain.Algorithm

	mu    sync.Mutex
	cache map[uuid.UUID]Provider
}

// NewProviderFactory creates a ProviderFactory. The algorithm applies to
// software keys only; KMS keepers pick their own primitives.
func NewProviderFactory(aeadManager AEADManager, algorithm encryptionDomain.Algorithm) ProviderFactory {
	return &providerFactory{
		aeadManager: aeadManager,
		algorithm:   algorithm,
		cache:       make(map[uuid.UUID]Provider),
	}
}

// ProviderFor returns the Provider for a configured key, creating it on first use.
func (f *providerFactory) ProviderFor(key *encryptionDomain.EncryptionKey) (Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if key.ID != uuid.Nil {
		if provider, ok := f.cache[key.ID]; ok {
			return provider, nil
		}
	}

	var (
		provider Provider
		err      error
	)

	switch key.Provider {
	case encryptionDomain.SoftwareProvider:
		provider, err = NewSoftwareProvider(f.aeadManager, key.Material, f.algorithm)
	case encryptionDomain.KMSProvider:
		provider, err = OpenKMSProvider(context.Background(), key.KeeperURI)
	default:
		return nil, encryptionDomain.ErrUnsupportedProvider
	}

	if err != nil {
		return nil, err
	}

	if key.ID != uuid.Nil {
		f.cache[key.ID] = provider
	}

	return provider, nil
}
