package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	apperrors "github.com/allisson/credstore/internal/errors"
	permissionDomain "github.com/allisson/credstore/internal/permission/domain"
)

// permissionUseCase implements PermissionUseCase.
type permissionUseCase struct {
	permissionRepo PermissionRepository
	logger         *slog.Logger
}

// HasPermission checks whether the actor's grant allows the operation.
func (p *permissionUseCase) HasPermission(
	ctx context.Context,
	credentialID uuid.UUID,
	actor string,
	operation permissionDomain.Operation,
) (bool, error) {
	if !operation.Valid() {
		return false, apperrors.Wrapf(permissionDomain.ErrInvalidOperation, "operation %q", operation)
	}

	entry, err := p.permissionRepo.Get(ctx, credentialID, actor)
	if err != nil {
		if apperrors.Is(err, permissionDomain.ErrEntryNotFound) {
			return false, nil
		}
		return false, err
	}

	return entry.Allows(operation), nil
}

// Grant gives the actor the listed operations on the credential. Granting
// replaces any existing entry for the pair, it never merges.
func (p *permissionUseCase) Grant(
	ctx context.Context,
	credentialID uuid.UUID,
	actor string,
	operations ...permissionDomain.Operation,
) (*permissionDomain.Entry, error) {
	if actor == "" {
		return nil, permissionDomain.ErrInvalidActor
	}
	for _, operation := range operations {
		if !operation.Valid() {
			return nil, apperrors.Wrapf(permissionDomain.ErrInvalidOperation, "operation %q", operation)
		}
	}

	entry := permissionDomain.NewEntry(credentialID, actor, operations...)
	if err := p.permissionRepo.Upsert(ctx, entry); err != nil {
		return nil, err
	}

	p.logger.Info("permission granted",
		slog.String("credential_id", credentialID.String()),
		slog.String("actor", actor),
		slog.Int("operations", len(operations)),
	)

	return entry, nil
}

// Revoke removes the actor's grant on the credential.
func (p *permissionUseCase) Revoke(ctx context.Context, credentialID uuid.UUID, actor string) error {
	if err := p.permissionRepo.Delete(ctx, credentialID, actor); err != nil {
		return err
	}

	p.logger.Info("permission revoked",
		slog.String("credential_id", credentialID.String()),
		slog.String("actor", actor),
	)

	return nil
}

// ListFor returns every grant on the credential.
func (p *permissionUseCase) ListFor(ctx context.Context, credentialID uuid.UUID) ([]*permissionDomain.Entry, error) {
	return p.permissionRepo.ListByCredential(ctx, credentialID)
}

// NewPermissionUseCase creates a new permission use case instance.
func NewPermissionUseCase(permissionRepo PermissionRepository, logger *slog.Logger) PermissionUseCase {
	return &permissionUseCase{
		permissionRepo: permissionRepo,
		logger:         logger,
	}
}
