// Package usecase implements the certificate authority chain: signer
// resolution for leaf issuance and credential regeneration, one at a time or
// fanned out over everything a CA has signed.
package usecase

import (
	"context"

	"github.com/google/uuid"

	certificateDomain "github.com/allisson/credstore/internal/certificate/domain"
	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
	credentialUsecase "github.com/allisson/credstore/internal/credential/usecase"
)

// CertificateRepository defines the interface for certificate version lookups.
type CertificateRepository interface {
	// GetActive retrieves the newest non-transitional certificate version.
	GetActive(ctx context.Context, name string) (*credentialDomain.CredentialVersion, error)

	// GetActiveAndTransitional retrieves the live certificate versions,
	// active first.
	GetActiveAndTransitional(ctx context.Context, name string) ([]*credentialDomain.CredentialVersion, error)

	// FindNamesSignedBy returns the distinct credential names signed by the
	// CA, matched case-insensitively.
	FindNamesSignedBy(ctx context.Context, caName string) ([]string, error)

	// SetTransitional flags one version as transitional.
	SetTransitional(ctx context.Context, versionID uuid.UUID) error

	// ClearTransitional drops the transitional flag from every version of a
	// credential.
	ClearTransitional(ctx context.Context, credentialID uuid.UUID) error
}

// CredentialSaver is the slice of the credential facade that regeneration
// uses to persist freshly generated versions.
type CredentialSaver interface {
	Save(
		ctx context.Context,
		input *credentialUsecase.SaveCredentialInput,
	) (*credentialDomain.CredentialVersion, error)
}

// BulkRegenerationResult reports a fan-out over everything a CA has signed.
// One failing name never aborts the rest; it lands in Failures instead.
type BulkRegenerationResult struct {
	Regenerated []string
	Failures    map[string]error
}

// CertificateUseCase defines the certificate authority chain operations.
type CertificateUseCase interface {
	// ResolveSigner returns the CA's active signing material. A credential
	// that is not a CA certificate fails with ErrNotCertificateAuthority.
	ResolveSigner(ctx context.Context, caName, actor string) (*certificateDomain.CertificateMaterial, error)

	// GetActiveAndTransitional returns the live certificate versions with
	// decrypted payloads, active first.
	GetActiveAndTransitional(
		ctx context.Context,
		name, actor string,
	) ([]*credentialDomain.CredentialVersion, error)

	// Regenerate rebuilds the generation request behind a credential's most
	// recent version, generates fresh material and saves it as a new
	// version. keepTransitional retains the replaced certificate version as
	// transitional so consumers can overlap trust.
	Regenerate(
		ctx context.Context,
		name, actor string,
		keepTransitional bool,
	) (*credentialDomain.CredentialVersion, error)

	// RegenerateSignedBy regenerates every credential signed by the CA.
	RegenerateSignedBy(ctx context.Context, caName, actor string) (*BulkRegenerationResult, error)
}
