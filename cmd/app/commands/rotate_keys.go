package commands

import (
	"context"
	"fmt"
	"log/slog"

	encryptionUsecase "github.com/allisson/credstore/internal/encryption/usecase"
)

// RunRotateKeys re-encrypts every value held under a known-inactive key with
// the active key. The process works in bounded pages and is safe to interrupt
// and re-run; already-rotated values are simply no longer in the target set.
func RunRotateKeys(ctx context.Context, rotationUseCase encryptionUsecase.RotationUseCase, logger *slog.Logger) error {
	logger.Info("starting key rotation")

	rotated, err := rotationUseCase.Rotate(ctx)
	if err != nil {
		return fmt.Errorf("key rotation failed: %w", err)
	}

	logger.Info("key rotation completed", slog.Int("rotated_values", rotated))
	return nil
}
