// Package usecase implements the permission engine consulted by every
// credential operation.
package usecase

import (
	"context"

	"github.com/google/uuid"

	permissionDomain "github.com/allisson/credstore/internal/permission/domain"
)

// PermissionRepository defines the interface for permission persistence.
type PermissionRepository interface {
	// Upsert inserts a grant or replaces an existing one for the same
	// (credential, actor) pair.
	Upsert(ctx context.Context, entry *permissionDomain.Entry) error

	// Get retrieves the grant for a (credential, actor) pair.
	Get(ctx context.Context, credentialID uuid.UUID, actor string) (*permissionDomain.Entry, error)

	// ListByCredential returns every grant on a credential.
	ListByCredential(ctx context.Context, credentialID uuid.UUID) ([]*permissionDomain.Entry, error)

	// Delete removes the grant for a (credential, actor) pair.
	Delete(ctx context.Context, credentialID uuid.UUID, actor string) error
}

// PermissionUseCase defines the permission checks and ACL management
// operations. Callers are expected to gate ACL reads and writes behind
// HasPermission with ReadACLOperation / WriteACLOperation.
type PermissionUseCase interface {
	// HasPermission reports whether the actor may perform the operation on
	// the credential. A missing grant is an ordinary false, not an error.
	HasPermission(ctx context.Context, credentialID uuid.UUID, actor string, operation permissionDomain.Operation) (bool, error)

	// Grant gives the actor the listed operations, replacing any prior grant.
	Grant(ctx context.Context, credentialID uuid.UUID, actor string, operations ...permissionDomain.Operation) (*permissionDomain.Entry, error)

	// Revoke removes the actor's grant on the credential.
	Revoke(ctx context.Context, credentialID uuid.UUID, actor string) error

	// ListFor returns every grant on the credential.
	ListFor(ctx context.Context, credentialID uuid.UUID) ([]*permissionDomain.Entry, error)
}
