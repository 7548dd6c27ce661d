// Package repository implements certificate version lookups for PostgreSQL
// databases. Certificates share the credential_version table; this package
// adds the active/transitional queries and the CA-name reverse index the
// authority chain needs.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
	"github.com/allisson/credstore/internal/database"
	apperrors "github.com/allisson/credstore/internal/errors"
)

const versionColumns = `v.id, v.credential_id, v.type, v.encrypted_value_id, v.ca_name, v.is_ca,
	v.self_signed, v.transitional, v.certificate, v.expiry_date, v.public_key, v.username,
	v.password_hash, v.key_length, v.duration_days, v.common_name, v.password_length,
	v.include_special, v.created_at`

// PostgreSQLCertificateRepository implements certificate version persistence
// for PostgreSQL databases.
type PostgreSQLCertificateRepository struct {
	db *sql.DB
}

// GetActive retrieves the newest non-transitional certificate version for the
// named credential.
func (p *PostgreSQLCertificateRepository) GetActive(
	ctx context.Context,
	name string,
) (*credentialDomain.CredentialVersion, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + versionColumns + `
			  FROM credential_version v
			  JOIN credential c ON c.id = v.credential_id
			  WHERE LOWER(c.name) = LOWER($1) AND v.type = $2 AND v.transitional = FALSE
			  ORDER BY v.created_at DESC, v.id DESC
			  LIMIT 1`

	version, err := scanVersion(querier.QueryRowContext(ctx, query, name, string(credentialDomain.CertificateType)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, credentialDomain.ErrVersionNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get active certificate version")
	}
	return version, nil
}

// GetActiveAndTransitional retrieves the live certificate versions for the
// named credential: the active one first, then the transitional one when it
// exists.
func (p *PostgreSQLCertificateRepository) GetActiveAndTransitional(
	ctx context.Context,
	name string,
) ([]*credentialDomain.CredentialVersion, error) {
	active, err := p.GetActive(ctx, name)
	if err != nil {
		return nil, err
	}

	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + versionColumns + `
			  FROM credential_version v
			  JOIN credential c ON c.id = v.credential_id
			  WHERE LOWER(c.name) = LOWER($1) AND v.type = $2 AND v.transitional = TRUE
			  ORDER BY v.created_at DESC, v.id DESC
			  LIMIT 1`

	transitional, err := scanVersion(querier.QueryRowContext(ctx, query, name, string(credentialDomain.CertificateType)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []*credentialDomain.CredentialVersion{active}, nil
		}
		return nil, apperrors.Wrap(err, "failed to get transitional certificate version")
	}
	return []*credentialDomain.CredentialVersion{active, transitional}, nil
}

// FindNamesSignedBy returns the distinct credential names whose stored CA
// name case-insensitively matches caName.
func (p *PostgreSQLCertificateRepository) FindNamesSignedBy(ctx context.Context, caName string) ([]string, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT DISTINCT c.name
			  FROM credential_version v
			  JOIN credential c ON c.id = v.credential_id
			  WHERE v.type = $1 AND LOWER(v.ca_name) = LOWER($2)
			  ORDER BY c.name ASC`

	rows, err := querier.QueryContext(ctx, query, string(credentialDomain.CertificateType), caName)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to find names signed by ca")
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan credential name")
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate credential names")
	}
	return names, nil
}

// SetTransitional flags one version as transitional.
func (p *PostgreSQLCertificateRepository) SetTransitional(ctx context.Context, versionID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE credential_version SET transitional = TRUE WHERE id = $1`

	result, err := querier.ExecContext(ctx, query, versionID)
	if err != nil {
		return apperrors.Wrap(err, "failed to set transitional flag")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return credentialDomain.ErrVersionNotFound
	}
	return nil
}

// ClearTransitional drops the transitional flag from every version of a
// credential. Clearing a credential with no transitional version is a no-op.
func (p *PostgreSQLCertificateRepository) ClearTransitional(ctx context.Context, credentialID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE credential_version SET transitional = FALSE
			  WHERE credential_id = $1 AND transitional = TRUE`

	if _, err := querier.ExecContext(ctx, query, credentialID); err != nil {
		return apperrors.Wrap(err, "failed to clear transitional flags")
	}
	return nil
}

// rowScanner abstracts sql.Row and sql.Rows for scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanVersion scans one credential_version row.
func scanVersion(row rowScanner) (*credentialDomain.CredentialVersion, error) {
	var version credentialDomain.CredentialVersion
	var versionType string
	var expiryDate sql.NullTime

	err := row.Scan(
		&version.ID,
		&version.CredentialID,
		&versionType,
		&version.EncryptedValueID,
		&version.Metadata.CAName,
		&version.Metadata.IsCA,
		&version.Metadata.SelfSigned,
		&version.Metadata.Transitional,
		&version.Metadata.Certificate,
		&expiryDate,
		&version.Metadata.PublicKey,
		&version.Metadata.Username,
		&version.Metadata.PasswordHash,
		&version.Metadata.KeyLength,
		&version.Metadata.DurationDays,
		&version.Metadata.CommonName,
		&version.Metadata.PasswordLength,
		&version.Metadata.IncludeSpecial,
		&version.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	version.Type = credentialDomain.CredentialType(versionType)
	if expiryDate.Valid {
		version.Metadata.ExpiryDate = expiryDate.Time
	}

	return &version, nil
}

// NewPostgreSQLCertificateRepository creates a new PostgreSQL certificate repository instance.
func NewPostgreSQLCertificateRepository(db *sql.DB) *PostgreSQLCertificateRepository {
	return &PostgreSQLCertificateRepository{db: db}
}
