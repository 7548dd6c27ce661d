// Package mocks provides mock implementations for testing permission use cases.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	permissionDomain "github.com/allisson/credstore/internal/permission/domain"
)

// MockPermissionRepository is a mock implementation of PermissionRepository for testing.
type MockPermissionRepository struct {
	mock.Mock
}

// Upsert mocks the Upsert method of PermissionRepository.
func (m *MockPermissionRepository) Upsert(ctx context.Context, entry *permissionDomain.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// Get mocks the Get method of PermissionRepository.
func (m *MockPermissionRepository) Get(
	ctx context.Context,
	credentialID uuid.UUID,
	actor string,
) (*permissionDomain.Entry, error) {
	args := m.Called(ctx, credentialID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*permissionDomain.Entry), args.Error(1)
}

// ListByCredential mocks the ListByCredential method of PermissionRepository.
func (m *MockPermissionRepository) ListByCredential(
	ctx context.Context,
	credentialID uuid.UUID,
) ([]*permissionDomain.Entry, error) {
	args := m.Called(ctx, credentialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*permissionDomain.Entry), args.Error(1)
}

// Delete mocks the Delete method of PermissionRepository.
func (m *MockPermissionRepository) Delete(ctx context.Context, credentialID uuid.UUID, actor string) error {
	args := m.Called(ctx, credentialID, actor)
	return args.Error(0)
}

// MockPermissionUseCase is a mock implementation of PermissionUseCase for testing.
type MockPermissionUseCase struct {
	mock.Mock
}

// HasPermission mocks the HasPermission method of PermissionUseCase.
func (m *MockPermissionUseCase) HasPermission(
	ctx context.Context,
	credentialID uuid.UUID,
	actor string,
	operation permissionDomain.Operation,
) (bool, error) {
	args := m.Called(ctx, credentialID, actor, operation)
	return args.Bool(0), args.Error(1)
}

// Grant mocks the Grant method of PermissionUseCase.
func (m *MockPermissionUseCase) Grant(
	ctx context.Context,
	credentialID uuid.UUID,
	actor string,
	operations ...permissionDomain.Operation,
) (*permissionDomain.Entry, error) {
	callArgs := make([]any, 0, len(operations)+3)
	callArgs = append(callArgs, ctx, credentialID, actor)
	for _, operation := range operations {
		callArgs = append(callArgs, operation)
	}
	args := m.Called(callArgs...)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*permissionDomain.Entry), args.Error(1)
}

// Revoke mocks the Revoke method of PermissionUseCase.
func (m *MockPermissionUseCase) Revoke(ctx context.Context, credentialID uuid.UUID, actor string) error {
	args := m.Called(ctx, credentialID, actor)
	return args.Error(0)
}

// ListFor mocks the ListFor method of PermissionUseCase.
func (m *MockPermissionUseCase) ListFor(
	ctx context.Context,
	credentialID uuid.UUID,
) ([]*permissionDomain.Entry, error) {
	args := m.Called(ctx, credentialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*permissionDomain.Entry), args.Error(1)
}
