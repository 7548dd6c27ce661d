package commands

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	encryptionDomain "github.com/allisson/credstore/internal/encryption/domain"
	encryptionMocks "github.com/allisson/credstore/internal/encryption/usecase/mocks"
)

func TestRunVerifyKeys(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	keys := []*encryptionDomain.EncryptionKey{
		{Name: "key1", Provider: encryptionDomain.SoftwareProvider},
	}

	t.Run("success", func(t *testing.T) {
		activeID := uuid.Must(uuid.NewV7())
		registry := encryptionDomain.NewKeyRegistry(
			activeID,
			[]*encryptionDomain.EncryptionKey{{ID: activeID, Name: "key1"}},
			nil,
		)

		mockUseCase := &encryptionMocks.MockRegistryUseCase{}
		mockUseCase.On("Verify", ctx, keys, "key1").Return(registry, nil)

		err := RunVerifyKeys(ctx, mockUseCase, keys, "key1", logger)

		require.NoError(t, err)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("verification-failure", func(t *testing.T) {
		mockUseCase := &encryptionMocks.MockRegistryUseCase{}
		mockUseCase.On("Verify", ctx, keys, "key1").Return(nil, encryptionDomain.ErrNoDecryptableData)

		err := RunVerifyKeys(ctx, mockUseCase, keys, "key1", logger)

		require.Error(t, err)
		require.ErrorIs(t, err, encryptionDomain.ErrNoDecryptableData)
		mockUseCase.AssertExpectations(t)
	})
}

func TestRunRotateKeys(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("success", func(t *testing.T) {
		mockUseCase := &encryptionMocks.MockRotationUseCase{}
		mockUseCase.On("Rotate", ctx).Return(42, nil)

		err := RunRotateKeys(ctx, mockUseCase, logger)

		require.NoError(t, err)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("rotation-failure", func(t *testing.T) {
		boom := errors.New("boom")
		mockUseCase := &encryptionMocks.MockRotationUseCase{}
		mockUseCase.On("Rotate", ctx).Return(0, boom)

		err := RunRotateKeys(ctx, mockUseCase, logger)

		require.Error(t, err)
		require.ErrorIs(t, err, boom)
		mockUseCase.AssertExpectations(t)
	})
}
