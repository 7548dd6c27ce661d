// Package mocks provides mock implementations for testing encryption use cases.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	encryptionDomain "github.com/allisson/credstore/internal/encryption/domain"
)

// MockCanaryRepository is a mock implementation of CanaryRepository for testing.
type MockCanaryRepository struct {
	mock.Mock
}

// Create mocks the Create method of CanaryRepository.
func (m *MockCanaryRepository) Create(ctx context.Context, canary *encryptionDomain.Canary) error {
	args := m.Called(ctx, canary)
	return args.Error(0)
}

// List mocks the List method of CanaryRepository.
func (m *MockCanaryRepository) List(ctx context.Context) ([]*encryptionDomain.Canary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*encryptionDomain.Canary), args.Error(1)
}

// MockEncryptedValueRepository is a mock implementation of EncryptedValueRepository for testing.
type MockEncryptedValueRepository struct {
	mock.Mock
}

// Create mocks the Create method of EncryptedValueRepository.
func (m *MockEncryptedValueRepository) Create(ctx context.Context, value *encryptionDomain.EncryptedValue) error {
	args := m.Called(ctx, value)
	return args.Error(0)
}

// Get mocks the Get method of EncryptedValueRepository.
func (m *MockEncryptedValueRepository) Get(ctx context.Context, id uuid.UUID) (*encryptionDomain.EncryptedValue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*encryptionDomain.EncryptedValue), args.Error(1)
}

// GetBatchByKeyIDs mocks the GetBatchByKeyIDs method of EncryptedValueRepository.
func (m *MockEncryptedValueRepository) GetBatchByKeyIDs(
	ctx context.Context,
	keyIDs, excludeIDs []uuid.UUID,
	limit int,
) ([]*encryptionDomain.EncryptedValue, error) {
	args := m.Called(ctx, keyIDs, excludeIDs, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*encryptionDomain.EncryptedValue), args.Error(1)
}

// UpdateInPlace mocks the UpdateInPlace method of EncryptedValueRepository.
func (m *MockEncryptedValueRepository) UpdateInPlace(ctx context.Context, value *encryptionDomain.EncryptedValue) error {
	args := m.Called(ctx, value)
	return args.Error(0)
}

// CountAll mocks the CountAll method of EncryptedValueRepository.
func (m *MockEncryptedValueRepository) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// CountByKeyIDs mocks the CountByKeyIDs method of EncryptedValueRepository.
func (m *MockEncryptedValueRepository) CountByKeyIDs(ctx context.Context, keyIDs []uuid.UUID) (int64, error) {
	args := m.Called(ctx, keyIDs)
	return args.Get(0).(int64), args.Error(1)
}

// MockRegistryUseCase is a mock implementation of RegistryUseCase for testing.
type MockRegistryUseCase struct {
	mock.Mock
}

// Verify mocks the Verify method of RegistryUseCase.
func (m *MockRegistryUseCase) Verify(
	ctx context.Context,
	keys []*encryptionDomain.EncryptionKey,
	activeName string,
) (*encryptionDomain.KeyRegistry, error) {
	args := m.Called(ctx, keys, activeName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*encryptionDomain.KeyRegistry), args.Error(1)
}

// MockRotationUseCase is a mock implementation of RotationUseCase for testing.
type MockRotationUseCase struct {
	mock.Mock
}

// Rotate mocks the Rotate method of RotationUseCase.
func (m *MockRotationUseCase) Rotate(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
