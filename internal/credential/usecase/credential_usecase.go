package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	"github.com/allisson/credstore/internal/audit"
	auditDomain "github.com/allisson/credstore/internal/audit/domain"
	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
	"github.com/allisson/credstore/internal/database"
	encryptionDomain "github.com/allisson/credstore/internal/encryption/domain"
	encryptionService "github.com/allisson/credstore/internal/encryption/service"
	apperrors "github.com/allisson/credstore/internal/errors"
	permissionDomain "github.com/allisson/credstore/internal/permission/domain"
	permissionUsecase "github.com/allisson/credstore/internal/permission/usecase"
	appvalidation "github.com/allisson/credstore/internal/validation"
)

// credentialUseCase implements CredentialUseCase.
type credentialUseCase struct {
	txManager      database.TxManager
	credentialRepo CredentialRepository
	valueRepo      EncryptedValueRepository
	permissions    permissionUsecase.PermissionUseCase
	encryptor      encryptionService.Encryptor
	auditSink      audit.Sink
	maxValueSize   int
	logger         *slog.Logger
}

// Save appends a new version of a credential, creating the credential row on
// the first write. Two writers racing on a brand-new name are resolved by the
// database uniqueness constraint; the loser retries the whole save once, so
// neither caller sees a constraint error.
func (c *credentialUseCase) Save(
	ctx context.Context,
	input *SaveCredentialInput,
) (*credentialDomain.CredentialVersion, error) {
	if err := c.validateSaveInput(input); err != nil {
		return nil, err
	}

	version, err := c.saveAttempt(ctx, input)
	if apperrors.Is(err, apperrors.ErrConflict) {
		version, err = c.saveAttempt(ctx, input)
	}
	if err != nil {
		c.recordFailure(ctx, input.Actor, auditDomain.SaveAction, input.Name)
		return nil, err
	}

	return version, nil
}

// saveAttempt runs one complete save inside a transaction.
func (c *credentialUseCase) saveAttempt(
	ctx context.Context,
	input *SaveCredentialInput,
) (*credentialDomain.CredentialVersion, error) {
	var version *credentialDomain.CredentialVersion

	err := c.txManager.WithTx(ctx, func(txCtx context.Context) error {
		credential, err := c.credentialRepo.GetCredentialByName(txCtx, input.Name)
		switch {
		case err == nil:
			if err := c.checkWrite(txCtx, credential, input.Actor); err != nil {
				return err
			}
			if err := c.checkType(txCtx, credential, input.Type); err != nil {
				return err
			}
		case apperrors.Is(err, apperrors.ErrNotFound):
			credential = credentialDomain.NewCredential(input.Name)
			if err := c.credentialRepo.CreateCredential(txCtx, credential); err != nil {
				return err
			}
			// The creator gets a full grant on the new credential.
			if _, err := c.permissions.Grant(txCtx, credential.ID, input.Actor, permissionDomain.Operations()...); err != nil {
				return err
			}
		default:
			return err
		}

		keyID, nonce, ciphertext, err := c.encryptor.Encrypt(txCtx, input.Value)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		encryptedValue := &encryptionDomain.EncryptedValue{
			ID:         uuid.Must(uuid.NewV7()),
			KeyID:      keyID,
			Ciphertext: ciphertext,
			Nonce:      nonce,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := c.valueRepo.Create(txCtx, encryptedValue); err != nil {
			return err
		}

		version = credentialDomain.NewCredentialVersion(credential.ID, input.Type, encryptedValue.ID, input.Metadata)
		if err := c.credentialRepo.CreateVersion(txCtx, version); err != nil {
			return err
		}

		return c.auditSink.Record(txCtx, auditDomain.NewEvent(input.Actor, auditDomain.SaveAction, input.Name, true))
	})
	if err != nil {
		return nil, err
	}

	return version, nil
}

// Get returns the most recent version of a credential with its decrypted value.
func (c *credentialUseCase) Get(ctx context.Context, name, actor string) (*credentialDomain.CredentialVersion, error) {
	credential, err := c.resolveForRead(ctx, name, actor)
	if err != nil {
		c.recordFailure(ctx, actor, auditDomain.GetAction, name)
		return nil, err
	}

	version, err := c.credentialRepo.GetMostRecentVersion(ctx, credential.ID)
	if err != nil {
		return nil, err
	}
	if err := c.decryptVersion(ctx, version); err != nil {
		return nil, err
	}

	if err := c.auditSink.Record(ctx, auditDomain.NewEvent(actor, auditDomain.GetAction, name, true)); err != nil {
		return nil, err
	}

	return version, nil
}

// GetByID returns one version by id with its decrypted value. The permission
// check runs against the owning credential.
func (c *credentialUseCase) GetByID(
	ctx context.Context,
	versionID uuid.UUID,
	actor string,
) (*credentialDomain.CredentialVersion, error) {
	version, err := c.credentialRepo.GetVersionByID(ctx, versionID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, credentialDomain.ErrCredentialNotFound
		}
		return nil, err
	}

	allowed, err := c.permissions.HasPermission(ctx, version.CredentialID, actor, permissionDomain.ReadOperation)
	if err != nil {
		return nil, err
	}
	if !allowed {
		// Same answer as a missing version, so existence never leaks.
		return nil, credentialDomain.ErrCredentialNotFound
	}

	if err := c.decryptVersion(ctx, version); err != nil {
		return nil, err
	}

	if err := c.auditSink.Record(ctx, auditDomain.NewEvent(actor, auditDomain.GetAction, versionID.String(), true)); err != nil {
		return nil, err
	}

	return version, nil
}

// ListVersions returns a credential's versions newest first, decrypted.
func (c *credentialUseCase) ListVersions(
	ctx context.Context,
	name string,
	limit int,
	actor string,
) ([]*credentialDomain.CredentialVersion, error) {
	credential, err := c.resolveForRead(ctx, name, actor)
	if err != nil {
		c.recordFailure(ctx, actor, auditDomain.ListAction, name)
		return nil, err
	}

	versions, err := c.credentialRepo.GetVersions(ctx, credential.ID, limit)
	if err != nil {
		return nil, err
	}
	for _, version := range versions {
		if err := c.decryptVersion(ctx, version); err != nil {
			return nil, err
		}
	}

	if err := c.auditSink.Record(ctx, auditDomain.NewEvent(actor, auditDomain.ListAction, name, true)); err != nil {
		return nil, err
	}

	return versions, nil
}

// FindContainingName lists credentials whose name contains the substring,
// keeping only those the actor may read.
func (c *credentialUseCase) FindContainingName(
	ctx context.Context,
	substring, actor string,
) ([]*credentialDomain.Credential, error) {
	credentials, err := c.credentialRepo.FindContainingName(ctx, substring)
	if err != nil {
		return nil, err
	}
	return c.filterReadable(ctx, credentials, actor)
}

// FindStartingWithPath lists credentials under the path prefix, keeping only
// those the actor may read.
func (c *credentialUseCase) FindStartingWithPath(
	ctx context.Context,
	prefix, actor string,
) ([]*credentialDomain.Credential, error) {
	credentials, err := c.credentialRepo.FindStartingWithPath(ctx, prefix)
	if err != nil {
		return nil, err
	}
	return c.filterReadable(ctx, credentials, actor)
}

// Delete removes the credential and every version. The delete and its audit
// record commit together.
func (c *credentialUseCase) Delete(ctx context.Context, name, actor string) (bool, error) {
	credential, err := c.resolveForRead(ctx, name, actor)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			c.recordFailure(ctx, actor, auditDomain.DeleteAction, name)
			return false, nil
		}
		return false, err
	}

	allowed, err := c.permissions.HasPermission(ctx, credential.ID, actor, permissionDomain.DeleteOperation)
	if err != nil {
		return false, err
	}
	if !allowed {
		c.recordFailure(ctx, actor, auditDomain.DeleteAction, name)
		return false, apperrors.Wrapf(apperrors.ErrForbidden, "actor %q may not delete %q", actor, name)
	}

	err = c.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := c.credentialRepo.DeleteCredential(txCtx, credential.ID); err != nil {
			return err
		}
		return c.auditSink.Record(txCtx, auditDomain.NewEvent(actor, auditDomain.DeleteAction, name, true))
	})
	if err != nil {
		return false, err
	}

	return true, nil
}

// GetPermissions lists the credential's grants. Requires the read_acl operation.
func (c *credentialUseCase) GetPermissions(
	ctx context.Context,
	name, actor string,
) ([]*permissionDomain.Entry, error) {
	credential, err := c.resolveForACL(ctx, name, actor, permissionDomain.ReadACLOperation)
	if err != nil {
		c.recordFailure(ctx, actor, auditDomain.ListACLAction, name)
		return nil, err
	}

	entries, err := c.permissions.ListFor(ctx, credential.ID)
	if err != nil {
		return nil, err
	}

	if err := c.auditSink.Record(ctx, auditDomain.NewEvent(actor, auditDomain.ListACLAction, name, true)); err != nil {
		return nil, err
	}

	return entries, nil
}

// SetPermissions grants the listed entries. Requires the write_acl operation.
// All grants and the audit record commit together.
func (c *credentialUseCase) SetPermissions(
	ctx context.Context,
	name, actor string,
	entries []PermissionInput,
) error {
	credential, err := c.resolveForACL(ctx, name, actor, permissionDomain.WriteACLOperation)
	if err != nil {
		c.recordFailure(ctx, actor, auditDomain.GrantAction, name)
		return err
	}

	return c.txManager.WithTx(ctx, func(txCtx context.Context) error {
		for _, entry := range entries {
			if _, err := c.permissions.Grant(txCtx, credential.ID, entry.Actor, entry.Operations...); err != nil {
				return err
			}
		}
		return c.auditSink.Record(txCtx, auditDomain.NewEvent(actor, auditDomain.GrantAction, name, true))
	})
}

// RevokePermission removes the grantee's grant. Requires the write_acl operation.
func (c *credentialUseCase) RevokePermission(ctx context.Context, name, actor, grantee string) error {
	credential, err := c.resolveForACL(ctx, name, actor, permissionDomain.WriteACLOperation)
	if err != nil {
		c.recordFailure(ctx, actor, auditDomain.RevokeAction, name)
		return err
	}

	return c.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := c.permissions.Revoke(txCtx, credential.ID, grantee); err != nil {
			return err
		}
		return c.auditSink.Record(txCtx, auditDomain.NewEvent(actor, auditDomain.RevokeAction, name, true))
	})
}

// resolveForRead resolves a credential by name, answering ErrCredentialNotFound
// both when the name is missing and when the actor lacks read access.
func (c *credentialUseCase) resolveForRead(
	ctx context.Context,
	name, actor string,
) (*credentialDomain.Credential, error) {
	credential, err := c.credentialRepo.GetCredentialByName(ctx, name)
	if err != nil {
		return nil, err
	}

	allowed, err := c.permissions.HasPermission(ctx, credential.ID, actor, permissionDomain.ReadOperation)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, credentialDomain.ErrCredentialNotFound
	}

	return credential, nil
}

// resolveForACL resolves a credential for an ACL operation. Lacking read
// access masks the credential entirely; having read but not the ACL operation
// is an explicit forbidden.
func (c *credentialUseCase) resolveForACL(
	ctx context.Context,
	name, actor string,
	operation permissionDomain.Operation,
) (*credentialDomain.Credential, error) {
	credential, err := c.resolveForRead(ctx, name, actor)
	if err != nil {
		return nil, err
	}

	allowed, err := c.permissions.HasPermission(ctx, credential.ID, actor, operation)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperrors.Wrapf(apperrors.ErrForbidden, "actor %q lacks %s on %q", actor, operation, name)
	}

	return credential, nil
}

// checkWrite verifies write access on an existing credential. No read access
// masks the credential; read without write is forbidden.
func (c *credentialUseCase) checkWrite(
	ctx context.Context,
	credential *credentialDomain.Credential,
	actor string,
) error {
	canWrite, err := c.permissions.HasPermission(ctx, credential.ID, actor, permissionDomain.WriteOperation)
	if err != nil {
		return err
	}
	if canWrite {
		return nil
	}

	canRead, err := c.permissions.HasPermission(ctx, credential.ID, actor, permissionDomain.ReadOperation)
	if err != nil {
		return err
	}
	if !canRead {
		return credentialDomain.ErrCredentialNotFound
	}
	return apperrors.Wrapf(apperrors.ErrForbidden, "actor %q may not write %q", actor, credential.Name)
}

// checkType enforces type immutability against the most recent version.
func (c *credentialUseCase) checkType(
	ctx context.Context,
	credential *credentialDomain.Credential,
	credentialType credentialDomain.CredentialType,
) error {
	mostRecent, err := c.credentialRepo.GetMostRecentVersion(ctx, credential.ID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return err
	}
	if mostRecent.Type != credentialType {
		return apperrors.Wrapf(
			credentialDomain.ErrTypeMismatch,
			"credential %q holds type %q", credential.Name, mostRecent.Type,
		)
	}
	return nil
}

// decryptVersion populates a version's plaintext from its encrypted payload.
func (c *credentialUseCase) decryptVersion(ctx context.Context, version *credentialDomain.CredentialVersion) error {
	encryptedValue, err := c.valueRepo.Get(ctx, version.EncryptedValueID)
	if err != nil {
		return err
	}

	plaintext, err := c.encryptor.Decrypt(ctx, encryptedValue.KeyID, encryptedValue.Nonce, encryptedValue.Ciphertext)
	if err != nil {
		return err
	}

	version.Plaintext = plaintext
	return nil
}

// filterReadable keeps the credentials the actor may read.
func (c *credentialUseCase) filterReadable(
	ctx context.Context,
	credentials []*credentialDomain.Credential,
	actor string,
) ([]*credentialDomain.Credential, error) {
	var readable []*credentialDomain.Credential
	for _, credential := range credentials {
		allowed, err := c.permissions.HasPermission(ctx, credential.ID, actor, permissionDomain.ReadOperation)
		if err != nil {
			return nil, err
		}
		if allowed {
			readable = append(readable, credential)
		}
	}
	return readable, nil
}

// validateSaveInput checks the save request before any database work.
func (c *credentialUseCase) validateSaveInput(input *SaveCredentialInput) error {
	if err := validation.Validate(input.Name, validation.Required, appvalidation.CredentialName); err != nil {
		return apperrors.Wrap(credentialDomain.ErrInvalidName, err.Error())
	}
	if err := validation.Validate(input.Actor, validation.Required, appvalidation.Actor); err != nil {
		return appvalidation.WrapValidationError(err)
	}
	if !input.Type.Valid() {
		return apperrors.Wrapf(credentialDomain.ErrInvalidType, "type %q", input.Type)
	}
	if c.maxValueSize > 0 && len(input.Value) > c.maxValueSize {
		return apperrors.Wrapf(credentialDomain.ErrValueTooLarge, "%d bytes over limit %d", len(input.Value), c.maxValueSize)
	}
	return nil
}

// recordFailure audits a failed operation outside any transaction. A failing
// audit write here is logged, not propagated, since the operation already failed.
func (c *credentialUseCase) recordFailure(ctx context.Context, actor string, action auditDomain.Action, name string) {
	event := auditDomain.NewEvent(actor, action, name, false)
	if err := c.auditSink.Record(ctx, event); err != nil {
		c.logger.Error("failed to record audit event",
			slog.String("action", string(action)),
			slog.String("error", err.Error()),
		)
	}
}

// NewCredentialUseCase creates a new credential use case instance.
// maxValueSize caps payload size in bytes; zero disables the check.
func NewCredentialUseCase(
	txManager database.TxManager,
	credentialRepo CredentialRepository,
	valueRepo EncryptedValueRepository,
	permissions permissionUsecase.PermissionUseCase,
	encryptor encryptionService.Encryptor,
	auditSink audit.Sink,
	maxValueSize int,
	logger *slog.Logger,
) CredentialUseCase {
	return &credentialUseCase{
		txManager:      txManager,
		credentialRepo: credentialRepo,
		valueRepo:      valueRepo,
		permissions:    permissions,
		encryptor:      encryptor,
		auditSink:      auditSink,
		maxValueSize:   maxValueSize,
		logger:         logger,
	}
}
