// Package mocks provides mock implementations for testing code that depends
// on the encryption services.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	encryptionDomain "github.com/allisson/credstore/internal/encryption/domain"
	encryptionService "github.com/allisson/credstore/internal/encryption/service"
)

// MockEncryptor is a mock implementation of Encryptor for testing.
type MockEncryptor struct {
	mock.Mock
}

// Encrypt mocks the Encrypt method of Encryptor.
func (m *MockEncryptor) Encrypt(ctx context.Context, plaintext []byte) (uuid.UUID, []byte, []byte, error) {
	args := m.Called(ctx, plaintext)
	return args.Get(0).(uuid.UUID), args.Get(1).([]byte), args.Get(2).([]byte), args.Error(3)
}

// Decrypt mocks the Decrypt method of Encryptor.
func (m *MockEncryptor) Decrypt(ctx context.Context, keyID uuid.UUID, nonce, ciphertext []byte) ([]byte, error) {
	args := m.Called(ctx, keyID, nonce, ciphertext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockProvider is a mock implementation of Provider for testing.
type MockProvider struct {
	mock.Mock
}

// Encrypt mocks the Encrypt method of Provider.
func (m *MockProvider) Encrypt(ctx context.Context, plaintext []byte) ([]byte, []byte, error) {
	args := m.Called(ctx, plaintext)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]byte), args.Get(1).([]byte), args.Error(2)
}

// Decrypt mocks the Decrypt method of Provider.
func (m *MockProvider) Decrypt(ctx context.Context, ciphertext, nonce []byte) ([]byte, error) {
	args := m.Called(ctx, ciphertext, nonce)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockProviderFactory is a mock implementation of ProviderFactory for testing.
type MockProviderFactory struct {
	mock.Mock
}

// ProviderFor mocks the ProviderFor method of ProviderFactory.
func (m *MockProviderFactory) ProviderFor(key *encryptionDomain.EncryptionKey) (encryptionService.Provider, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(encryptionService.Provider), args.Error(1)
}
