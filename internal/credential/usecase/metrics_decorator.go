package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
	"github.com/allisson/credstore/internal/metrics"
	permissionDomain "github.com/allisson/credstore/internal/permission/domain"
)

// credentialUseCaseWithMetrics decorates CredentialUseCase with metrics instrumentation.
type credentialUseCaseWithMetrics struct {
	next    CredentialUseCase
	metrics metrics.BusinessMetrics
}

// NewCredentialUseCaseWithMetrics wraps a CredentialUseCase with metrics recording.
func NewCredentialUseCaseWithMetrics(useCase CredentialUseCase, m metrics.BusinessMetrics) CredentialUseCase {
	return &credentialUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// record emits the operation counter and duration histogram for one call.
func (c *credentialUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.metrics.RecordOperation(ctx, "credential", operation, status)
	c.metrics.RecordDuration(ctx, "credential", operation, time.Since(start), status)
}

// Save records metrics for save operations.
func (c *credentialUseCaseWithMetrics) Save(
	ctx context.Context,
	input *SaveCredentialInput,
) (*credentialDomain.CredentialVersion, error) {
	start := time.Now()
	version, err := c.next.Save(ctx, input)
	c.record(ctx, "credential_save", start, err)
	return version, err
}

// Get records metrics for most-recent reads.
func (c *credentialUseCaseWithMetrics) Get(
	ctx context.Context,
	name, actor string,
) (*credentialDomain.CredentialVersion, error) {
	start := time.Now()
	version, err := c.next.Get(ctx, name, actor)
	c.record(ctx, "credential_get", start, err)
	return version, err
}

// GetByID records metrics for version-by-id reads.
func (c *credentialUseCaseWithMetrics) GetByID(
	ctx context.Context,
	versionID uuid.UUID,
	actor string,
) (*credentialDomain.CredentialVersion, error) {
	start := time.Now()
	version, err := c.next.GetByID(ctx, versionID, actor)
	c.record(ctx, "credential_get_by_id", start, err)
	return version, err
}

// ListVersions records metrics for version listings.
func (c *credentialUseCaseWithMetrics) ListVersions(
	ctx context.Context,
	name string,
	limit int,
	actor string,
) ([]*credentialDomain.CredentialVersion, error) {
	start := time.Now()
	versions, err := c.next.ListVersions(ctx, name, limit, actor)
	c.record(ctx, "credential_list_versions", start, err)
	return versions, err
}

// FindContainingName records metrics for substring searches.
func (c *credentialUseCaseWithMetrics) FindContainingName(
	ctx context.Context,
	substring, actor string,
) ([]*credentialDomain.Credential, error) {
	start := time.Now()
	credentials, err := c.next.FindContainingName(ctx, substring, actor)
	c.record(ctx, "credential_find_containing", start, err)
	return credentials, err
}

// FindStartingWithPath records metrics for prefix searches.
func (c *credentialUseCaseWithMetrics) FindStartingWithPath(
	ctx context.Context,
	prefix, actor string,
) ([]*credentialDomain.Credential, error) {
	start := time.Now()
	credentials, err := c.next.FindStartingWithPath(ctx, prefix, actor)
	c.record(ctx, "credential_find_path", start, err)
	return credentials, err
}

// Delete records metrics for delete operations.
func (c *credentialUseCaseWithMetrics) Delete(ctx context.Context, name, actor string) (bool, error) {
	start := time.Now()
	deleted, err := c.next.Delete(ctx, name, actor)
	c.record(ctx, "credential_delete", start, err)
	return deleted, err
}

// GetPermissions records metrics for ACL listings.
func (c *credentialUseCaseWithMetrics) GetPermissions(
	ctx context.Context,
	name, actor string,
) ([]*permissionDomain.Entry, error) {
	start := time.Now()
	entries, err := c.next.GetPermissions(ctx, name, actor)
	c.record(ctx, "credential_get_permissions", start, err)
	return entries, err
}

// SetPermissions records metrics for ACL writes.
func (c *credentialUseCaseWithMetrics) SetPermissions(
	ctx context.Context,
	name, actor string,
	entries []PermissionInput,
) error {
	start := time.Now()
	err := c.next.SetPermissions(ctx, name, actor, entries)
	c.record(ctx, "credential_set_permissions", start, err)
	return err
}

// RevokePermission records metrics for ACL revocations.
func (c *credentialUseCaseWithMetrics) RevokePermission(ctx context.Context, name, actor, grantee string) error {
	start := time.Now()
	err := c.next.RevokePermission(ctx, name, actor, grantee)
	c.record(ctx, "credential_revoke_permission", start, err)
	return err
}
