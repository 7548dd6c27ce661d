package service

import (
	"context"
	"fmt"

	"gocloud.dev/secrets"

	encryptionDomain "github.com/allisson/credstore/internal/encryption/domain"

	// Register all KMS keeper drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// KMSKeeper is the subset of *secrets.Keeper used by the KMS provider.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
}

// KMSProvider implements Provider by delegating to a gocloud.dev secrets
// keeper (HSM partition or cloud KMS). The keeper envelope carries its own
// nonce, so the returned nonce is always empty.
//
// Supported URIs: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
type KMSProvider struct {
	keeper KMSKeeper
}

// OpenKMSProvider opens a keeper for the configured key URI.
func OpenKMSProvider(ctx context.Context, keyURI string) (*KMSProvider, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return &KMSProvider{keeper: keeper}, nil
}

// NewKMSProvider wraps an already-open keeper. Used by tests and by callers
// that manage keeper lifecycle themselves.
func NewKMSProvider(keeper KMSKeeper) *KMSProvider {
	return &KMSProvider{keeper: keeper}
}

// Encrypt encrypts plaintext with the remote key.
func (k *KMSProvider) Encrypt(ctx context.Context, plaintext []byte) (ciphertext, nonce []byte, err error) {
	ciphertext, err = k.keeper.Encrypt(ctx, plaintext)
	if err != nil {
		return nil, nil, fmt.Errorf("kms encrypt failed: %w", err)
	}
	return ciphertext, nil, nil
}

// Decrypt decrypts ciphertext with the remote key.
func (k *KMSProvider) Decrypt(ctx context.Context, ciphertext, _ []byte) ([]byte, error) {
	plaintext, err := k.keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, encryptionDomain.ErrDecryptionFailed
	}
	return plaintext, nil
}
