package commands

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
	credentialMocks "github.com/allisson/credstore/internal/credential/usecase/mocks"
	permissionDomain "github.com/allisson/credstore/internal/permission/domain"
	permissionMocks "github.com/allisson/credstore/internal/permission/usecase/mocks"
)

func TestRunCreatePermission(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("success", func(t *testing.T) {
		credential := credentialDomain.NewCredential("/app/db-password")
		entry := permissionDomain.NewEntry(credential.ID, "alice", permissionDomain.ReadOperation, permissionDomain.WriteOperation)

		mockRepo := &credentialMocks.MockCredentialRepository{}
		mockRepo.On("GetCredentialByName", ctx, "/app/db-password").Return(credential, nil)

		mockPermissions := &permissionMocks.MockPermissionUseCase{}
		mockPermissions.On(
			"Grant", ctx, credential.ID, "alice",
			permissionDomain.ReadOperation, permissionDomain.WriteOperation,
		).Return(entry, nil)

		err := RunCreatePermission(ctx, mockRepo, mockPermissions, logger, "/app/db-password", "alice", "read,write")

		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
		mockPermissions.AssertExpectations(t)
	})

	t.Run("invalid-operation", func(t *testing.T) {
		mockRepo := &credentialMocks.MockCredentialRepository{}
		mockPermissions := &permissionMocks.MockPermissionUseCase{}

		err := RunCreatePermission(ctx, mockRepo, mockPermissions, logger, "/app/db-password", "alice", "read,admin")

		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid operation")
		mockRepo.AssertNotCalled(t, "GetCredentialByName")
	})

	t.Run("missing-credential", func(t *testing.T) {
		mockRepo := &credentialMocks.MockCredentialRepository{}
		mockRepo.On("GetCredentialByName", ctx, "/missing").Return(nil, credentialDomain.ErrCredentialNotFound)

		mockPermissions := &permissionMocks.MockPermissionUseCase{}

		err := RunCreatePermission(ctx, mockRepo, mockPermissions, logger, "/missing", "alice", "read")

		require.Error(t, err)
		require.ErrorIs(t, err, credentialDomain.ErrCredentialNotFound)
		mockPermissions.AssertNotCalled(t, "Grant")
	})
}
