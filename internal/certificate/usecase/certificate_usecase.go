package usecase

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/allisson/credstore/internal/audit"
	auditDomain "github.com/allisson/credstore/internal/audit/domain"
	certificateDomain "github.com/allisson/credstore/internal/certificate/domain"
	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
	credentialUsecase "github.com/allisson/credstore/internal/credential/usecase"
	"github.com/allisson/credstore/internal/database"
	encryptionService "github.com/allisson/credstore/internal/encryption/service"
	apperrors "github.com/allisson/credstore/internal/errors"
	generationService "github.com/allisson/credstore/internal/generation/service"
	permissionDomain "github.com/allisson/credstore/internal/permission/domain"
	permissionUsecase "github.com/allisson/credstore/internal/permission/usecase"
)

const defaultRegenerationConcurrency = 4

// certificateUseCase implements CertificateUseCase.
type certificateUseCase struct {
	txManager       database.TxManager
	credentialRepo  credentialUsecase.CredentialRepository
	certificateRepo CertificateRepository
	valueRepo       credentialUsecase.EncryptedValueRepository
	permissions     permissionUsecase.PermissionUseCase
	encryptor       encryptionService.Encryptor
	saver           CredentialSaver
	generators      *generationService.Registry
	auditSink       audit.Sink
	concurrency     int
	logger          *slog.Logger
}

// ResolveSigner returns the CA's active certificate with its decrypted
// private key. The caller needs read access on the CA name; a CA the actor
// may not read looks exactly like a missing one.
func (c *certificateUseCase) ResolveSigner(
	ctx context.Context,
	caName, actor string,
) (*certificateDomain.CertificateMaterial, error) {
	credential, err := c.resolveForRead(ctx, caName, actor)
	if err != nil {
		return nil, err
	}

	active, err := c.certificateRepo.GetActive(ctx, credential.Name)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Wrapf(certificateDomain.ErrNotCertificateAuthority,
				"credential %q has no active certificate", caName)
		}
		return nil, err
	}
	if !active.Metadata.IsCA {
		return nil, apperrors.Wrapf(certificateDomain.ErrNotCertificateAuthority,
			"certificate %q cannot sign", caName)
	}

	privateKey, err := c.decrypt(ctx, active)
	if err != nil {
		return nil, err
	}

	return &certificateDomain.CertificateMaterial{
		CAName:         credential.Name,
		CertificatePEM: active.Metadata.Certificate,
		PrivateKeyPEM:  privateKey,
		ExpiryDate:     active.Metadata.ExpiryDate,
	}, nil
}

// GetActiveAndTransitional returns the live certificate versions with
// decrypted payloads, active first.
func (c *certificateUseCase) GetActiveAndTransitional(
	ctx context.Context,
	name, actor string,
) ([]*credentialDomain.CredentialVersion, error) {
	credential, err := c.resolveForRead(ctx, name, actor)
	if err != nil {
		c.recordFailure(ctx, actor, auditDomain.GetAction, name)
		return nil, err
	}

	versions, err := c.certificateRepo.GetActiveAndTransitional(ctx, credential.Name)
	if err != nil {
		return nil, err
	}
	for _, version := range versions {
		plaintext, err := c.decrypt(ctx, version)
		if err != nil {
			return nil, err
		}
		version.Plaintext = plaintext
	}

	if err := c.auditSink.Record(ctx, auditDomain.NewEvent(actor, auditDomain.GetAction, name, true)); err != nil {
		return nil, err
	}

	return versions, nil
}

// Regenerate rebuilds a credential's generation request from its most recent
// version, generates fresh material and saves it as a new version. For
// certificates the transitional flags are updated in the same transaction as
// the save: keepTransitional flags the replaced active version, a plain
// regenerate drops any transitional leftover.
func (c *certificateUseCase) Regenerate(
	ctx context.Context,
	name, actor string,
	keepTransitional bool,
) (*credentialDomain.CredentialVersion, error) {
	credential, err := c.resolveForRead(ctx, name, actor)
	if err != nil {
		c.recordFailure(ctx, actor, auditDomain.RegenerateAction, name)
		return nil, err
	}

	allowed, err := c.permissions.HasPermission(ctx, credential.ID, actor, permissionDomain.WriteOperation)
	if err != nil {
		return nil, err
	}
	if !allowed {
		c.recordFailure(ctx, actor, auditDomain.RegenerateAction, name)
		return nil, apperrors.Wrapf(apperrors.ErrForbidden, "actor %q may not regenerate %q", actor, name)
	}

	mostRecent, err := c.credentialRepo.GetMostRecentVersion(ctx, credential.ID)
	if err != nil {
		c.recordFailure(ctx, actor, auditDomain.RegenerateAction, name)
		return nil, err
	}

	request, err := generationService.ReconstructRequest(mostRecent)
	if err != nil {
		c.recordFailure(ctx, actor, auditDomain.RegenerateAction, name)
		return nil, err
	}

	// A CA-signed certificate needs its signer resolved before generation.
	if request.Type == credentialDomain.CertificateType && !request.SelfSigned && request.CAName != "" {
		material, err := c.ResolveSigner(ctx, request.CAName, actor)
		if err != nil {
			c.recordFailure(ctx, actor, auditDomain.RegenerateAction, name)
			return nil, err
		}
		request.Signer = &generationService.SignerMaterial{
			CertificatePEM: material.CertificatePEM,
			PrivateKeyPEM:  material.PrivateKeyPEM,
		}
	}

	generated, err := c.generators.Generate(ctx, request)
	if err != nil {
		c.recordFailure(ctx, actor, auditDomain.RegenerateAction, name)
		return nil, err
	}

	var version *credentialDomain.CredentialVersion
	err = c.txManager.WithTx(ctx, func(txCtx context.Context) error {
		version, err = c.saver.Save(txCtx, &credentialUsecase.SaveCredentialInput{
			Name:     credential.Name,
			Type:     mostRecent.Type,
			Value:    generated.Value,
			Metadata: generated.Metadata,
			Actor:    actor,
		})
		if err != nil {
			return err
		}

		if mostRecent.Type == credentialDomain.CertificateType {
			if err := c.certificateRepo.ClearTransitional(txCtx, credential.ID); err != nil {
				return err
			}
			if keepTransitional {
				if err := c.certificateRepo.SetTransitional(txCtx, mostRecent.ID); err != nil {
					return err
				}
			}
		}

		return c.auditSink.Record(txCtx, auditDomain.NewEvent(actor, auditDomain.RegenerateAction, name, true))
	})
	if err != nil {
		c.recordFailure(ctx, actor, auditDomain.RegenerateAction, name)
		return nil, err
	}

	return version, nil
}

// RegenerateSignedBy regenerates every credential whose stored CA name
// matches caName. The fan-out is bounded and best-effort: a failing name is
// reported in the result, never aborting its siblings.
func (c *certificateUseCase) RegenerateSignedBy(
	ctx context.Context,
	caName, actor string,
) (*BulkRegenerationResult, error) {
	if _, err := c.resolveForRead(ctx, caName, actor); err != nil {
		c.recordFailure(ctx, actor, auditDomain.RegenerateAction, caName)
		return nil, err
	}

	names, err := c.certificateRepo.FindNamesSignedBy(ctx, caName)
	if err != nil {
		return nil, err
	}

	result := &BulkRegenerationResult{Failures: make(map[string]error)}
	var mu sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(c.concurrency)
	for _, name := range names {
		group.Go(func() error {
			_, err := c.Regenerate(groupCtx, name, actor, false)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				c.logger.Warn("failed to regenerate signed credential",
					slog.String("name", name),
					slog.String("ca_name", caName),
					slog.String("error", err.Error()),
				)
				result.Failures[name] = err
				return nil
			}
			result.Regenerated = append(result.Regenerated, name)
			return nil
		})
	}
	_ = group.Wait()

	sort.Strings(result.Regenerated)

	event := auditDomain.NewEvent(actor, auditDomain.RegenerateAction, caName, true)
	event.Metadata = map[string]any{
		"regenerated": len(result.Regenerated),
		"failed":      len(result.Failures),
	}
	if err := c.auditSink.Record(ctx, event); err != nil {
		return nil, err
	}

	return result, nil
}

// resolveForRead resolves a credential by name, answering ErrCredentialNotFound
// both when the name is missing and when the actor lacks read access.
func (c *certificateUseCase) resolveForRead(
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

// decrypt returns a version's decrypted payload.
func (c *certificateUseCase) decrypt(
	ctx context.Context,
	version *credentialDomain.CredentialVersion,
) ([]byte, error) {
	encryptedValue, err := c.valueRepo.Get(ctx, version.EncryptedValueID)
	if err != nil {
		return nil, err
	}
	return c.encryptor.Decrypt(ctx, encryptedValue.KeyID, encryptedValue.Nonce, encryptedValue.Ciphertext)
}

// recordFailure audits a failed operation. A failing audit write here is
// logged, not propagated, since the operation already failed.
func (c *certificateUseCase) recordFailure(ctx context.Context, actor string, action auditDomain.Action, name string) {
	event := auditDomain.NewEvent(actor, action, name, false)
	if err := c.auditSink.Record(ctx, event); err != nil {
		c.logger.Error("failed to record audit event",
			slog.String("action", string(action)),
			slog.String("error", err.Error()),
		)
	}
}

// NewCertificateUseCase creates a new certificate use case instance.
// concurrency bounds the bulk regeneration fan-out; values below one fall
// back to the default.
func NewCertificateUseCase(
	txManager database.TxManager,
	credentialRepo credentialUsecase.CredentialRepository,
	certificateRepo CertificateRepository,
	valueRepo credentialUsecase.EncryptedValueRepository,
	permissions permissionUsecase.PermissionUseCase,
	encryptor encryptionService.Encryptor,
	saver CredentialSaver,
	generators *generationService.Registry,
	auditSink audit.Sink,
	concurrency int,
	logger *slog.Logger,
) CertificateUseCase {
	if concurrency < 1 {
		concurrency = defaultRegenerationConcurrency
	}
	return &certificateUseCase{
		txManager:       txManager,
		credentialRepo:  credentialRepo,
		certificateRepo: certificateRepo,
		valueRepo:       valueRepo,
		permissions:     permissions,
		encryptor:       encryptor,
		saver:           saver,
		generators:      generators,
		auditSink:       auditSink,
		concurrency:     concurrency,
		logger:          logger,
	}
}
