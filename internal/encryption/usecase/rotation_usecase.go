package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	encryptionDomain "github.com/allisson/credstore/internal/encryption/domain"
	encryptionService "github.com/allisson/credstore/internal/encryption/service"
)

// rotationUseCase implements RotationUseCase.
//
// Rotation is best-effort background maintenance: each record is an
// independent unit, a failing record is logged and excluded from further
// pages rather than aborting the batch, and no table-level lock is taken.
// Values written concurrently already sit under the active key and are
// simply never selected.
type rotationUseCase struct {
	registry  *encryptionDomain.KeyRegistry
	valueRepo EncryptedValueRepository
	encryptor encryptionService.Encryptor
	batchSize int
	limiter   *rate.Limiter
	logger    *slog.Logger
}

// Rotate re-encrypts every value under a known-inactive key with the active
// key, page by page, until a page comes back empty. The cancellation signal
// is honored between pages. Safe to run repeatedly and concurrently with
// normal traffic.
func (r *rotationUseCase) Rotate(ctx context.Context) (int, error) {
	inactive := r.registry.InactiveKeyIDs()
	if len(inactive) == 0 {
		return 0, nil
	}

	total := 0
	var failed []uuid.UUID

	for {
		if err := r.limiter.Wait(ctx); err != nil {
			return total, err
		}

		batch, err := r.valueRepo.GetBatchByKeyIDs(ctx, inactive, failed, r.batchSize)
		if err != nil {
			return total, err
		}
		if len(batch) == 0 {
			break
		}

		for _, value := range batch {
			if err := r.rotateOne(ctx, value); err != nil {
				r.logger.Warn("skipping value that failed re-encryption",
					slog.String("value_id", value.ID.String()),
					slog.String("key_id", value.KeyID.String()),
					slog.String("error", err.Error()),
				)
				failed = append(failed, value.ID)
				continue
			}
			total++
		}
	}

	r.logger.Info("key rotation pass completed",
		slog.Int("rotated", total),
		slog.Int("skipped", len(failed)),
	)

	return total, nil
}

// rotateOne re-encrypts a single value under the active key, preserving its identity.
func (r *rotationUseCase) rotateOne(ctx context.Context, value *encryptionDomain.EncryptedValue) error {
	plaintext, err := r.encryptor.Decrypt(ctx, value.KeyID, value.Nonce, value.Ciphertext)
	if err != nil {
		return err
	}
	defer encryptionDomain.Zero(plaintext)

	keyID, nonce, ciphertext, err := r.encryptor.Encrypt(ctx, plaintext)
	if err != nil {
		return err
	}

	value.KeyID = keyID
	value.Nonce = nonce
	value.Ciphertext = ciphertext

	return r.valueRepo.UpdateInPlace(ctx, value)
}

// NewRotationUseCase creates a new rotation use case instance. pagesPerSec
// caps how fast pages are pulled so rotation never saturates the database.
func NewRotationUseCase(
	registry *encryptionDomain.KeyRegistry,
	valueRepo EncryptedValueRepository,
	encryptor encryptionService.Encryptor,
	batchSize int,
	pagesPerSec float64,
	logger *slog.Logger,
) RotationUseCase {
	return &rotationUseCase{
		registry:  registry,
		valueRepo: valueRepo,
		encryptor: encryptor,
		batchSize: batchSize,
		limiter:   rate.NewLimiter(rate.Limit(pagesPerSec), 1),
		logger:    logger,
	}
}
