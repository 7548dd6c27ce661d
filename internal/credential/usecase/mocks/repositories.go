// Package mocks provides mock implementations for testing credential use cases.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
	encryptionDomain "github.com/allisson/credstore/internal/encryption/domain"
)

// MockCredentialRepository is a mock implementation of CredentialRepository for testing.
type MockCredentialRepository struct {
	mock.Mock
}

// CreateCredential mocks the CreateCredential method of CredentialRepository.
func (m *MockCredentialRepository) CreateCredential(
	ctx context.Context,
	credential *credentialDomain.Credential,
) error {
	args := m.Called(ctx, credential)
	return args.Error(0)
}

// GetCredentialByName mocks the GetCredentialByName method of CredentialRepository.
func (m *MockCredentialRepository) GetCredentialByName(
	ctx context.Context,
	name string,
) (*credentialDomain.Credential, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credentialDomain.Credential), args.Error(1)
}

// FindContainingName mocks the FindContainingName method of CredentialRepository.
func (m *MockCredentialRepository) FindContainingName(
	ctx context.Context,
	substring string,
) ([]*credentialDomain.Credential, error) {
	args := m.Called(ctx, substring)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*credentialDomain.Credential), args.Error(1)
}

// FindStartingWithPath mocks the FindStartingWithPath method of CredentialRepository.
func (m *MockCredentialRepository) FindStartingWithPath(
	ctx context.Context,
	prefix string,
) ([]*credentialDomain.Credential, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*credentialDomain.Credential), args.Error(1)
}

// DeleteCredential mocks the DeleteCredential method of CredentialRepository.
func (m *MockCredentialRepository) DeleteCredential(ctx context.Context, credentialID uuid.UUID) error {
	args := m.Called(ctx, credentialID)
	return args.Error(0)
}

// CreateVersion mocks the CreateVersion method of CredentialRepository.
func (m *MockCredentialRepository) CreateVersion(
	ctx context.Context,
	version *credentialDomain.CredentialVersion,
) error {
	args := m.Called(ctx, version)
	return args.Error(0)
}

// GetMostRecentVersion mocks the GetMostRecentVersion method of CredentialRepository.
func (m *MockCredentialRepository) GetMostRecentVersion(
	ctx context.Context,
	credentialID uuid.UUID,
) (*credentialDomain.CredentialVersion, error) {
	args := m.Called(ctx, credentialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credentialDomain.CredentialVersion), args.Error(1)
}

// GetVersionByID mocks the GetVersionByID method of CredentialRepository.
func (m *MockCredentialRepository) GetVersionByID(
	ctx context.Context,
	versionID uuid.UUID,
) (*credentialDomain.CredentialVersion, error) {
	args := m.Called(ctx, versionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credentialDomain.CredentialVersion), args.Error(1)
}

// GetVersions mocks the GetVersions method of CredentialRepository.
func (m *MockCredentialRepository) GetVersions(
	ctx context.Context,
	credentialID uuid.UUID,
	limit int,
) ([]*credentialDomain.CredentialVersion, error) {
	args := m.Called(ctx, credentialID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*credentialDomain.CredentialVersion), args.Error(1)
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
func (m *MockEncryptedValueRepository) Get(
	ctx context.Context,
	id uuid.UUID,
) (*encryptionDomain.EncryptedValue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*encryptionDomain.EncryptedValue), args.Error(1)
}
