// Package mocks provides mock implementations for testing certificate use cases.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
	credentialUsecase "github.com/allisson/credstore/internal/credential/usecase"
)

// MockCertificateRepository is a mock implementation of CertificateRepository for testing.
type MockCertificateRepository struct {
	mock.Mock
}

// GetActive mocks the GetActive method of CertificateRepository.
func (m *MockCertificateRepository) GetActive(
	ctx context.Context,
	name string,
) (*credentialDomain.CredentialVersion, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credentialDomain.CredentialVersion), args.Error(1)
}

// GetActiveAndTransitional mocks the GetActiveAndTransitional method of CertificateRepository.
func (m *MockCertificateRepository) GetActiveAndTransitional(
	ctx context.Context,
	name string,
) ([]*credentialDomain.CredentialVersion, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*credentialDomain.CredentialVersion), args.Error(1)
}

// FindNamesSignedBy mocks the FindNamesSignedBy method of CertificateRepository.
func (m *MockCertificateRepository) FindNamesSignedBy(ctx context.Context, caName string) ([]string, error) {
	args := m.Called(ctx, caName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// SetTransitional mocks the SetTransitional method of CertificateRepository.
func (m *MockCertificateRepository) SetTransitional(ctx context.Context, versionID uuid.UUID) error {
	args := m.Called(ctx, versionID)
	return args.Error(0)
}

// ClearTransitional mocks the ClearTransitional method of CertificateRepository.
func (m *MockCertificateRepository) ClearTransitional(ctx context.Context, credentialID uuid.UUID) error {
	args := m.Called(ctx, credentialID)
	return args.Error(0)
}

// MockCredentialSaver is a mock implementation of CredentialSaver for testing.
type MockCredentialSaver struct {
	mock.Mock
}

// Save mocks the Save method of CredentialSaver.
func (m *MockCredentialSaver) Save(
	ctx context.Context,
	input *credentialUsecase.SaveCredentialInput,
) (*credentialDomain.CredentialVersion, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credentialDomain.CredentialVersion), args.Error(1)
}
