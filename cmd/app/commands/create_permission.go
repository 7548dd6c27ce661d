package commands

import (
	"context"
	"fmt"
	"log/slog"

	credentialUsecase "github.com/allisson/credstore/internal/credential/usecase"
	permissionUsecase "github.com/allisson/credstore/internal/permission/usecase"
)

// RunCreatePermission grants an actor the given comma-separated operations on
// a credential, replacing any existing grant for that (credential, actor) pair.
func RunCreatePermission(
	ctx context.Context,
	credentialRepo credentialUsecase.CredentialRepository,
	permissions permissionUsecase.PermissionUseCase,
	logger *slog.Logger,
	credentialName string,
	actor string,
	operationsStr string,
) error {
	operations, err := parseOperations(operationsStr)
	if err != nil {
		return err
	}

	credential, err := credentialRepo.GetCredentialByName(ctx, credentialName)
	if err != nil {
		return fmt.Errorf("failed to look up credential %q: %w", credentialName, err)
	}

	entry, err := permissions.Grant(ctx, credential.ID, actor, operations...)
	if err != nil {
		return fmt.Errorf("failed to grant permission: %w", err)
	}

	logger.Info("permission granted",
		slog.String("credential", credentialName),
		slog.String("actor", actor),
		slog.Any("operations", entry.Operations()),
	)

	return nil
}
