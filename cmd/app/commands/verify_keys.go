package commands

import (
	"context"
	"fmt"
	"log/slog"

	encryptionDomain "github.com/allisson/credstore/internal/encryption/domain"
	encryptionUsecase "github.com/allisson/credstore/internal/encryption/usecase"
)

// RunVerifyKeys runs canary verification for the configured keys and reports
// the resulting classification. The same check runs implicitly before any
// operation that needs the encryptor; this command surfaces it on demand so
// operators can validate a key change before rolling it out.
func RunVerifyKeys(
	ctx context.Context,
	registryUseCase encryptionUsecase.RegistryUseCase,
	keys []*encryptionDomain.EncryptionKey,
	activeName string,
	logger *slog.Logger,
) error {
	logger.Info("verifying configured encryption keys",
		slog.Int("configured_keys", len(keys)),
		slog.String("active_key_name", activeName),
	)

	registry, err := registryUseCase.Verify(ctx, keys, activeName)
	if err != nil {
		return fmt.Errorf("key verification failed: %w", err)
	}

	logger.Info("key verification completed",
		slog.String("active_key_id", registry.ActiveKeyID().String()),
		slog.Int("decryptable_keys", len(registry.DecryptableKeyIDs())),
		slog.Int("inactive_keys", len(registry.InactiveKeyIDs())),
	)

	for _, id := range registry.UnknownKeyIDs() {
		logger.Warn("stored data references a key no configured key matches",
			slog.String("key_id", id.String()),
		)
	}

	return nil
}
