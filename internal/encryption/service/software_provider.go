package service

import (
	"context"

	encryptionDomain "github.com/allisson/credstore/internal/encryption/domain"
)

// SoftwareProvider implements Provider on top of an in-process AEAD cipher.
// The raw key material lives in the KeyRegistry for the process lifetime.
type SoftwareProvider struct {
	cipher AEAD
}

// NewSoftwareProvider creates a provider for a raw 256-bit key.
func NewSoftwareProvider(aeadManager AEADManager, key []byte, alg encryptionDomain.Algorithm) (*SoftwareProvider, error) {
	cipher, err := aeadManager.CreateCipher(key, alg)
	if err != nil {
		return nil, err
	}

	return &SoftwareProvider{cipher: cipher}, nil
}

// Encrypt encrypts plaintext with this provider's key.
func (s *SoftwareProvider) Encrypt(_ context.Context, plaintext []byte) (ciphertext, nonce []byte, err error) {
	return s.cipher.Encrypt(plaintext, nil)
}

// Decrypt decrypts ciphertext produced by this provider's key.
func (s *SoftwareProvider) Decrypt(_ context.Context, ciphertext, nonce []byte) ([]byte, error) {
	plaintext, err := s.cipher.Decrypt(ciphertext, nonce, nil)
	if err != nil {
		return nil, encryptionDomain.ErrDecryptionFailed
	}
	return plaintext, nil
}
