package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
	"github.com/allisson/credstore/internal/metrics"
	permissionDomain "github.com/allisson/credstore/internal/permission/domain"
)

// mockBusinessMetrics is a mock implementation of metrics.BusinessMetrics for testing.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

var _ metrics.BusinessMetrics = (*mockBusinessMetrics)(nil)

// mockCredentialUseCase is an in-package mock of CredentialUseCase. It lives
// here rather than in the mocks package because the interface references
// types from this package.
type mockCredentialUseCase struct {
	mock.Mock
}

func (m *mockCredentialUseCase) Save(
	ctx context.Context,
	input *SaveCredentialInput,
) (*credentialDomain.CredentialVersion, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credentialDomain.CredentialVersion), args.Error(1)
}

func (m *mockCredentialUseCase) Get(
	ctx context.Context,
	name, actor string,
) (*credentialDomain.CredentialVersion, error) {
	args := m.Called(ctx, name, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credentialDomain.CredentialVersion), args.Error(1)
}

func (m *mockCredentialUseCase) GetByID(
	ctx context.Context,
	versionID uuid.UUID,
	actor string,
) (*credentialDomain.CredentialVersion, error) {
	args := m.Called(ctx, versionID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credentialDomain.CredentialVersion), args.Error(1)
}

func (m *mockCredentialUseCase) ListVersions(
	ctx context.Context,
	name string,
	limit int,
	actor string,
) ([]*credentialDomain.CredentialVersion, error) {
	args := m.Called(ctx, name, limit, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*credentialDomain.CredentialVersion), args.Error(1)
}

func (m *mockCredentialUseCase) FindContainingName(
	ctx context.Context,
	substring, actor string,
) ([]*credentialDomain.Credential, error) {
	args := m.Called(ctx, substring, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*credentialDomain.Credential), args.Error(1)
}

func (m *mockCredentialUseCase) FindStartingWithPath(
	ctx context.Context,
	prefix, actor string,
) ([]*credentialDomain.Credential, error) {
	args := m.Called(ctx, prefix, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*credentialDomain.Credential), args.Error(1)
}

func (m *mockCredentialUseCase) Delete(ctx context.Context, name, actor string) (bool, error) {
	args := m.Called(ctx, name, actor)
	return args.Bool(0), args.Error(1)
}

func (m *mockCredentialUseCase) GetPermissions(
	ctx context.Context,
	name, actor string,
) ([]*permissionDomain.Entry, error) {
	args := m.Called(ctx, name, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*permissionDomain.Entry), args.Error(1)
}

func (m *mockCredentialUseCase) SetPermissions(
	ctx context.Context,
	name, actor string,
	entries []PermissionInput,
) error {
	args := m.Called(ctx, name, actor, entries)
	return args.Error(0)
}

func (m *mockCredentialUseCase) RevokePermission(ctx context.Context, name, actor, grantee string) error {
	args := m.Called(ctx, name, actor, grantee)
	return args.Error(0)
}

var _ CredentialUseCase = (*mockCredentialUseCase)(nil)

// TestNewCredentialUseCaseWithMetrics tests the metrics decorator constructor.
func TestNewCredentialUseCaseWithMetrics(t *testing.T) {
	t.Parallel()

	decorator := NewCredentialUseCaseWithMetrics(&mockCredentialUseCase{}, metrics.NewNoOpBusinessMetrics())

	assert.NotNil(t, decorator)
	assert.Implements(t, (*CredentialUseCase)(nil), decorator)
}

// TestMetricsDecorator_Save tests the Save method with metrics.
func TestMetricsDecorator_Save(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("Success_RecordsSuccessMetrics", func(t *testing.T) {
		t.Parallel()
		mockUseCase := &mockCredentialUseCase{}
		mockMetrics := &mockBusinessMetrics{}

		input := &SaveCredentialInput{
			Name:  "/app/db-password",
			Type:  credentialDomain.PasswordType,
			Value: []byte("p@ss"),
			Actor: "alice",
		}
		expectedVersion := &credentialDomain.CredentialVersion{
			ID:        uuid.Must(uuid.NewV7()),
			Type:      credentialDomain.PasswordType,
			CreatedAt: time.Now().UTC(),
		}

		mockUseCase.On("Save", ctx, input).Return(expectedVersion, nil).Once()
		mockMetrics.On("RecordOperation", ctx, "credential", "credential_save", "success").
			Return().
			Once()
		mockMetrics.On("RecordDuration", ctx, "credential", "credential_save", mock.AnythingOfType("time.Duration"), "success").
			Return().
			Once()

		decorator := NewCredentialUseCaseWithMetrics(mockUseCase, mockMetrics)
		version, err := decorator.Save(ctx, input)

		assert.NoError(t, err)
		assert.Equal(t, expectedVersion, version)
		mockUseCase.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Error_RecordsErrorMetrics", func(t *testing.T) {
		t.Parallel()
		mockUseCase := &mockCredentialUseCase{}
		mockMetrics := &mockBusinessMetrics{}

		input := &SaveCredentialInput{
			Name:  "/app/db-password",
			Type:  credentialDomain.PasswordType,
			Value: []byte("p@ss"),
			Actor: "alice",
		}
		expectedErr := errors.New("encryption unavailable")

		mockUseCase.On("Save", ctx, input).Return(nil, expectedErr).Once()
		mockMetrics.On("RecordOperation", ctx, "credential", "credential_save", "error").
			Return().
			Once()
		mockMetrics.On("RecordDuration", ctx, "credential", "credential_save", mock.AnythingOfType("time.Duration"), "error").
			Return().
			Once()

		decorator := NewCredentialUseCaseWithMetrics(mockUseCase, mockMetrics)
		version, err := decorator.Save(ctx, input)

		assert.ErrorIs(t, err, expectedErr)
		assert.Nil(t, version)
		mockUseCase.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})
}

// TestMetricsDecorator_Get tests the Get method with metrics.
func TestMetricsDecorator_Get(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("Success_RecordsSuccessMetrics", func(t *testing.T) {
		t.Parallel()
		mockUseCase := &mockCredentialUseCase{}
		mockMetrics := &mockBusinessMetrics{}

		expectedVersion := &credentialDomain.CredentialVersion{
			ID:        uuid.Must(uuid.NewV7()),
			Type:      credentialDomain.PasswordType,
			Plaintext: []byte("p@ss"),
		}

		mockUseCase.On("Get", ctx, "/app/db-password", "alice").Return(expectedVersion, nil).Once()
		mockMetrics.On("RecordOperation", ctx, "credential", "credential_get", "success").
			Return().
			Once()
		mockMetrics.On("RecordDuration", ctx, "credential", "credential_get", mock.AnythingOfType("time.Duration"), "success").
			Return().
			Once()

		decorator := NewCredentialUseCaseWithMetrics(mockUseCase, mockMetrics)
		version, err := decorator.Get(ctx, "/app/db-password", "alice")

		assert.NoError(t, err)
		assert.Equal(t, expectedVersion, version)
		mockUseCase.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Error_RecordsErrorMetrics", func(t *testing.T) {
		t.Parallel()
		mockUseCase := &mockCredentialUseCase{}
		mockMetrics := &mockBusinessMetrics{}

		mockUseCase.On("Get", ctx, "/app/missing", "alice").
			Return(nil, credentialDomain.ErrCredentialNotFound).
			Once()
		mockMetrics.On("RecordOperation", ctx, "credential", "credential_get", "error").
			Return().
			Once()
		mockMetrics.On("RecordDuration", ctx, "credential", "credential_get", mock.AnythingOfType("time.Duration"), "error").
			Return().
			Once()

		decorator := NewCredentialUseCaseWithMetrics(mockUseCase, mockMetrics)
		version, err := decorator.Get(ctx, "/app/missing", "alice")

		assert.ErrorIs(t, err, credentialDomain.ErrCredentialNotFound)
		assert.Nil(t, version)
		mockUseCase.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})
}

// TestMetricsDecorator_Delete tests the Delete method with metrics.
func TestMetricsDecorator_Delete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("Success_RecordsSuccessMetrics", func(t *testing.T) {
		t.Parallel()
		mockUseCase := &mockCredentialUseCase{}
		mockMetrics := &mockBusinessMetrics{}

		mockUseCase.On("Delete", ctx, "/app/db-password", "alice").Return(true, nil).Once()
		mockMetrics.On("RecordOperation", ctx, "credential", "credential_delete", "success").
			Return().
			Once()
		mockMetrics.On("RecordDuration", ctx, "credential", "credential_delete", mock.AnythingOfType("time.Duration"), "success").
			Return().
			Once()

		decorator := NewCredentialUseCaseWithMetrics(mockUseCase, mockMetrics)
		deleted, err := decorator.Delete(ctx, "/app/db-password", "alice")

		assert.NoError(t, err)
		assert.True(t, deleted)
		mockUseCase.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})
}

// TestMetricsDecorator_SetPermissions tests the SetPermissions method with metrics.
func TestMetricsDecorator_SetPermissions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("Error_RecordsErrorMetrics", func(t *testing.T) {
		t.Parallel()
		mockUseCase := &mockCredentialUseCase{}
		mockMetrics := &mockBusinessMetrics{}

		entries := []PermissionInput{
			{Actor: "bob", Operations: []permissionDomain.Operation{permissionDomain.ReadOperation}},
		}
		expectedErr := errors.New("database unavailable")

		mockUseCase.On("SetPermissions", ctx, "/app/db-password", "alice", entries).
			Return(expectedErr).
			Once()
		mockMetrics.On("RecordOperation", ctx, "credential", "credential_set_permissions", "error").
			Return().
			Once()
		mockMetrics.On("RecordDuration", ctx, "credential", "credential_set_permissions", mock.AnythingOfType("time.Duration"), "error").
			Return().
			Once()

		decorator := NewCredentialUseCaseWithMetrics(mockUseCase, mockMetrics)
		err := decorator.SetPermissions(ctx, "/app/db-password", "alice", entries)

		assert.ErrorIs(t, err, expectedErr)
		mockUseCase.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})
}
