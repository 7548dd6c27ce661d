package service

import (
	"context"

	"github.com/google/uuid"

	encryptionDomain "github.com/allisson/credstore/internal/encryption/domain"
	apperrors "github.com/allisson/credstore/internal/errors"
)

// encryptorService routes every encrypt to the active key and every decrypt
// to the key that produced the ciphertext.
type encryptorService struct {
	registry  *encryptionDomain.KeyRegistry
	providers ProviderFactory
}

// NewEncryptor creates the Encryptor backed by the verified key registry.
func NewEncryptor(registry *encryptionDomain.KeyRegistry, providers ProviderFactory) Encryptor {
	return &encryptorService{
		registry:  registry,
		providers: providers,
	}
}

// Encrypt encrypts plaintext with the active key.
func (e *encryptorService) Encrypt(ctx context.Context, plaintext []byte) (uuid.UUID, []byte, []byte, error) {
	key, ok := e.registry.ActiveKey()
	if !ok {
		return uuid.Nil, nil, nil, apperrors.Wrap(encryptionDomain.ErrKeyUnresolvable, "active key missing from registry")
	}

	provider, err := e.providers.ProviderFor(key)
	if err != nil {
		return uuid.Nil, nil, nil, err
	}

	ciphertext, nonce, err := provider.Encrypt(ctx, plaintext)
	if err != nil {
		return uuid.Nil, nil, nil, err
	}

	return key.ID, nonce, ciphertext, nil
}

// Decrypt resolves the stored key id through the registry and decrypts.
func (e *encryptorService) Decrypt(ctx context.Context, keyID uuid.UUID, nonce, ciphertext []byte) ([]byte, error) {
	key, ok := e.registry.Get(keyID)
	if !ok {
		return nil, apperrors.Wrapf(encryptionDomain.ErrKeyUnresolvable, "key id %s", keyID)
	}

	provider, err := e.providers.ProviderFor(key)
	if err != nil {
		return nil, err
	}

	return provider.Decrypt(ctx, ciphertext, nonce)
}
