package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	encryptionDomain "github.com/allisson/credstore/internal/encryption/domain"
	encryptionService "github.com/allisson/credstore/internal/encryption/service"
	apperrors "github.com/allisson/credstore/internal/errors"
)

// registryUseCase implements RegistryUseCase.
//
// Canary verification never touches real secret data: each stored key id has
// one sentinel ciphertext, and a configured key that opens it to the expected
// plaintext is proven to correspond to that id.
type registryUseCase struct {
	canaryRepo CanaryRepository
	valueRepo  EncryptedValueRepository
	providers  encryptionService.ProviderFactory
	logger     *slog.Logger
}

// Verify classifies every configured key against the stored canaries.
//
// Keys that match an existing canary inherit that canary's id. Keys that
// match nothing are new: they get a freshly minted canary (and id). Canary
// ids no configured key matched are recorded as unknown and surfaced as an
// operational warning, never silently dropped.
//
// Fail-fast: when the store holds encrypted values and none of them sit under
// a matched key, startup aborts with ErrNoDecryptableData. Proceeding would
// make the service available but unable to serve any existing secret.
func (r *registryUseCase) Verify(
	ctx context.Context,
	keys []*encryptionDomain.EncryptionKey,
	activeName string,
) (*encryptionDomain.KeyRegistry, error) {
	canaries, err := r.canaryRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	matchedCanaries := make(map[uuid.UUID]struct{}, len(canaries))
	var matchedIDs []uuid.UUID
	var unmatchedKeys []*encryptionDomain.EncryptionKey

	for _, key := range keys {
		provider, err := r.providers.ProviderFor(key)
		if err != nil {
			return nil, err
		}

		matched := false
		for _, canary := range canaries {
			if _, taken := matchedCanaries[canary.ID]; taken {
				continue
			}
			plaintext, err := provider.Decrypt(ctx, canary.Ciphertext, canary.Nonce)
			if err != nil || string(plaintext) != encryptionDomain.CanaryValue {
				continue
			}
			key.ID = canary.ID
			matchedCanaries[canary.ID] = struct{}{}
			matchedIDs = append(matchedIDs, canary.ID)
			matched = true
			break
		}

		if !matched {
			unmatchedKeys = append(unmatchedKeys, key)
		}
	}

	// Refuse to start when existing data is completely unreadable. The check
	// runs before minting canaries so an aborted startup leaves no writes.
	total, err := r.valueRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	if total > 0 {
		reachable := int64(0)
		if len(matchedIDs) > 0 {
			reachable, err = r.valueRepo.CountByKeyIDs(ctx, matchedIDs)
			if err != nil {
				return nil, err
			}
		}
		if reachable == 0 {
			return nil, apperrors.Wrapf(
				encryptionDomain.ErrNoDecryptableData,
				"%d stored values, %d configured keys", total, len(keys),
			)
		}
	}

	// Keys never used before get a fresh canary, which is how their stored
	// key id is born.
	for _, key := range unmatchedKeys {
		if err := r.mintCanary(ctx, key); err != nil {
			return nil, err
		}
	}

	var activeID uuid.UUID
	for _, key := range keys {
		if key.Name == activeName {
			activeID = key.ID
			break
		}
	}
	if activeID == uuid.Nil {
		return nil, apperrors.Wrapf(encryptionDomain.ErrActiveKeyNotConfigured, "name %q", activeName)
	}

	var unknownIDs []uuid.UUID
	for _, canary := range canaries {
		if _, ok := matchedCanaries[canary.ID]; !ok {
			unknownIDs = append(unknownIDs, canary.ID)
		}
	}
	if len(unknownIDs) > 0 {
		r.logger.Warn("stored key ids with no configured key; their data is left alone",
			slog.Int("unknown_keys", len(unknownIDs)),
		)
	}

	return encryptionDomain.NewKeyRegistry(activeID, keys, unknownIDs), nil
}

// mintCanary assigns a new stored key id to a key and persists its sentinel.
func (r *registryUseCase) mintCanary(ctx context.Context, key *encryptionDomain.EncryptionKey) error {
	provider, err := r.providers.ProviderFor(key)
	if err != nil {
		return err
	}

	ciphertext, nonce, err := provider.Encrypt(ctx, []byte(encryptionDomain.CanaryValue))
	if err != nil {
		return err
	}

	key.ID = uuid.Must(uuid.NewV7())
	canary := &encryptionDomain.Canary{
		ID:         key.ID,
		Ciphertext: ciphertext,
		Nonce:      nonce,
		CreatedAt:  time.Now().UTC(),
	}

	return r.canaryRepo.Create(ctx, canary)
}

// NewRegistryUseCase creates a new registry use case instance.
func NewRegistryUseCase(
	canaryRepo CanaryRepository,
	valueRepo EncryptedValueRepository,
	providers encryptionService.ProviderFactory,
	logger *slog.Logger,
) RegistryUseCase {
	return &registryUseCase{
		canaryRepo: canaryRepo,
		valueRepo:  valueRepo,
		providers:  providers,
		logger:     logger,
	}
}
