package service

import (
	encryptionDomain "github.com/allisson/credstore/internal/encryption/domain"
)

// AEADManagerService implements the AEADManager interface for creating AEAD cipher instances.
type AEADManagerService struct{}

// NewAEADManager creates a new AEADManagerService.
func NewAEADManager() *AEADManagerService {
	return &AEADManagerService{}
}

// CreateCipher creates an AEAD cipher instance for the specified algorithm.
// Returns ErrInvalidKeySize if key is not 32 bytes or ErrUnsupportedAlgorithm if algorithm is unknown.
func (am *AEADManagerService) CreateCipher(key []byte, alg encryptionDomain.Algorithm) (AEAD, error) {
	if len(key) != 32 {
		return nil, encryptionDomain.ErrInvalidKeySize
	}

	switch alg {
	case encryptionDomain.AESGCM:
		return NewAESGCM(key)
	case encryptionDomain.ChaCha20:
		return NewChaCha20Poly1305(key)
	default:
		return nil, encryptionDomain.ErrUnsupportedAlgorithm
	}
}
