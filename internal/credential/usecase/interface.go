// Package usecase implements the credential operations facade: every read and
// write passes the permission gate, every success is audited in the same
// transaction, and payloads go through the encryptor.
package usecase

import (
	"context"

	"github.com/google/uuid"

	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
	encryptionDomain "github.com/allisson/credstore/internal/encryption/domain"
	permissionDomain "github.com/allisson/credstore/internal/permission/domain"
)

// CredentialRepository defines the interface for credential persistence.
type CredentialRepository interface {
	// CreateCredential inserts the credential row for a name's first version.
	// Losing the name-uniqueness race returns ErrConflict.
	CreateCredential(ctx context.Context, credential *credentialDomain.Credential) error

	// GetCredentialByName retrieves a credential by case-insensitive name.
	GetCredentialByName(ctx context.Context, name string) (*credentialDomain.Credential, error)

	// FindContainingName returns credentials whose name contains the substring.
	FindContainingName(ctx context.Context, substring string) ([]*credentialDomain.Credential, error)

	// FindStartingWithPath returns credentials under the slash-delimited prefix.
	FindStartingWithPath(ctx context.Context, prefix string) ([]*credentialDomain.Credential, error)

	// DeleteCredential removes a credential, its versions and their payloads.
	DeleteCredential(ctx context.Context, credentialID uuid.UUID) error

	// CreateVersion appends a new version row.
	CreateVersion(ctx context.Context, version *credentialDomain.CredentialVersion) error

	// GetMostRecentVersion retrieves a credential's newest version.
	GetMostRecentVersion(ctx context.Context, credentialID uuid.UUID) (*credentialDomain.CredentialVersion, error)

	// GetVersionByID retrieves one version by id.
	GetVersionByID(ctx context.Context, versionID uuid.UUID) (*credentialDomain.CredentialVersion, error)

	// GetVersions retrieves a credential's versions newest first; limit <= 0
	// returns all of them.
	GetVersions(ctx context.Context, credentialID uuid.UUID, limit int) ([]*credentialDomain.CredentialVersion, error)
}

// EncryptedValueRepository is the slice of the encrypted-value store the
// credential operations need.
type EncryptedValueRepository interface {
	Create(ctx context.Context, value *encryptionDomain.EncryptedValue) error
	Get(ctx context.Context, id uuid.UUID) (*encryptionDomain.EncryptedValue, error)
}

// SaveCredentialInput carries one save request.
type SaveCredentialInput struct {
	Name     string
	Type     credentialDomain.CredentialType
	Value    []byte
	Metadata credentialDomain.VersionMetadata
	Actor    string
}

// PermissionInput is one (actor, operations) pair for SetPermissions.
type PermissionInput struct {
	Actor      string
	Operations []permissionDomain.Operation
}

// CredentialUseCase defines the externally-visible credential operations.
// A credential the actor may not read is reported exactly like a credential
// that does not exist.
type CredentialUseCase interface {
	// Save appends a new version, creating the credential on first write. The
	// creator of a new credential receives a full grant. Saving a type that
	// differs from the existing versions fails with ErrTypeMismatch.
	Save(ctx context.Context, input *SaveCredentialInput) (*credentialDomain.CredentialVersion, error)

	// Get returns the most recent version with its decrypted value.
	Get(ctx context.Context, name, actor string) (*credentialDomain.CredentialVersion, error)

	// GetByID returns one version by id with its decrypted value.
	GetByID(ctx context.Context, versionID uuid.UUID, actor string) (*credentialDomain.CredentialVersion, error)

	// ListVersions returns a credential's versions newest first, decrypted.
	// limit <= 0 returns all of them.
	ListVersions(ctx context.Context, name string, limit int, actor string) ([]*credentialDomain.CredentialVersion, error)

	// FindContainingName lists credentials whose name contains the substring,
	// filtered to those the actor may read.
	FindContainingName(ctx context.Context, substring, actor string) ([]*credentialDomain.Credential, error)

	// FindStartingWithPath lists credentials under the path prefix, filtered
	// to those the actor may read.
	FindStartingWithPath(ctx context.Context, prefix, actor string) ([]*credentialDomain.Credential, error)

	// Delete removes the credential and every version. It reports whether
	// anything was deleted.
	Delete(ctx context.Context, name, actor string) (bool, error)

	// GetPermissions lists the credential's grants.
	GetPermissions(ctx context.Context, name, actor string) ([]*permissionDomain.Entry, error)

	// SetPermissions grants the listed entries, replacing prior grants for
	// the same actors.
	SetPermissions(ctx context.Context, name, actor string, entries []PermissionInput) error

	// RevokePermission removes the grantee's grant on the credential.
	RevokePermission(ctx context.Context, name, actor, grantee string) error
}
