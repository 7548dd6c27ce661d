// Package repository implements the versioned credential store on PostgreSQL.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
	"github.com/allisson/credstore/internal/database"
	apperrors "github.com/allisson/credstore/internal/errors"
)

const versionColumns = `id, credential_id, type, encrypted_value_id, ca_name, is_ca, self_signed,
	transitional, certificate, expiry_date, public_key, username, password_hash, key_length,
	duration_days, common_name, password_length, include_special, created_at`

// PostgreSQLCredentialRepository implements credential persistence for PostgreSQL databases.
type PostgreSQLCredentialRepository struct {
	db *sql.DB
}

// CreateCredential inserts the credential row for a name's first version.
// A concurrent writer that loses the name-uniqueness race gets ErrConflict.
func (p *PostgreSQLCredentialRepository) CreateCredential(
	ctx context.Context,
	credential *credentialDomain.Credential,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO credential (id, name, created_at) VALUES ($1, $2, $3)`

	_, err := querier.ExecContext(ctx, query, credential.ID, credential.Name, credential.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Wrapf(apperrors.ErrConflict, "credential name %q already exists", credential.Name)
		}
		return apperrors.Wrap(err, "failed to create credential")
	}
	return nil
}

// GetCredentialByName retrieves a credential by case-insensitive name.
func (p *PostgreSQLCredentialRepository) GetCredentialByName(
	ctx context.Context,
	name string,
) (*credentialDomain.Credential, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, created_at FROM credential WHERE LOWER(name) = LOWER($1)`

	var credential credentialDomain.Credential
	err := querier.QueryRowContext(ctx, query, name).Scan(&credential.ID, &credential.Name, &credential.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, credentialDomain.ErrCredentialNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get credential")
	}

	return &credential, nil
}

// FindContainingName returns credentials whose name contains the substring,
// case-insensitively, ordered by name.
func (p *PostgreSQLCredentialRepository) FindContainingName(
	ctx context.Context,
	substring string,
) ([]*credentialDomain.Credential, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, created_at FROM credential
			  WHERE name ILIKE '%' || $1 || '%'
			  ORDER BY name ASC`

	return p.queryCredentials(ctx, querier, query, substring)
}

// FindStartingWithPath returns credentials whose name starts with the
// slash-delimited prefix, case-insensitively, ordered by name.
func (p *PostgreSQLCredentialRepository) FindStartingWithPath(
	ctx context.Context,
	prefix string,
) ([]*credentialDomain.Credential, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, created_at FROM credential
			  WHERE name ILIKE $1 || '%'
			  ORDER BY name ASC`

	return p.queryCredentials(ctx, querier, query, credentialDomain.NormalizePath(prefix))
}

// DeleteCredential removes a credential, its versions and their encrypted
// payloads. Version rows go away via the credential foreign key; the payload
// rows are removed explicitly since rotation owns them independently.
func (p *PostgreSQLCredentialRepository) DeleteCredential(ctx context.Context, credentialID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	// Versions go first so their payload rows are no longer referenced.
	rows, err := querier.QueryContext(
		ctx,
		`DELETE FROM credential_version WHERE credential_id = $1 RETURNING encrypted_value_id`,
		credentialID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete credential versions")
	}
	var valueIDs []uuid.UUID
	for rows.Next() {
		var valueID uuid.UUID
		if err := rows.Scan(&valueID); err != nil {
			_ = rows.Close()
			return apperrors.Wrap(err, "failed to scan encrypted value id")
		}
		valueIDs = append(valueIDs, valueID)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return apperrors.Wrap(err, "failed to iterate encrypted value ids")
	}
	_ = rows.Close()

	if len(valueIDs) > 0 {
		if _, err := querier.ExecContext(
			ctx,
			`DELETE FROM encrypted_value WHERE id = ANY($1::uuid[])`,
			pq.Array(uuidStrings(valueIDs)),
		); err != nil {
			return apperrors.Wrap(err, "failed to delete encrypted values")
		}
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM credential WHERE id = $1`, credentialID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete credential")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return credentialDomain.ErrCredentialNotFound
	}

	return nil
}

// CreateVersion appends a new version row.
func (p *PostgreSQLCredentialRepository) CreateVersion(
	ctx context.Context,
	version *credentialDomain.CredentialVersion,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO credential_version (` + versionColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

	var expiryDate sql.NullTime
	if !version.Metadata.ExpiryDate.IsZero() {
		expiryDate = sql.NullTime{Time: version.Metadata.ExpiryDate, Valid: true}
	}

	_, err := querier.ExecContext(
		ctx,
		query,
		version.ID,
		version.CredentialID,
		string(version.Type),
		version.EncryptedValueID,
		version.Metadata.CAName,
		version.Metadata.IsCA,
		version.Metadata.SelfSigned,
		version.Metadata.Transitional,
		version.Metadata.Certificate,
		expiryDate,
		version.Metadata.PublicKey,
		version.Metadata.Username,
		version.Metadata.PasswordHash,
		version.Metadata.KeyLength,
		version.Metadata.DurationDays,
		version.Metadata.CommonName,
		version.Metadata.PasswordLength,
		version.Metadata.IncludeSpecial,
		version.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create credential version")
	}
	return nil
}

// GetMostRecentVersion retrieves a credential's newest version. Equal
// timestamps break deterministically by id.
func (p *PostgreSQLCredentialRepository) GetMostRecentVersion(
	ctx context.Context,
	credentialID uuid.UUID,
) (*credentialDomain.CredentialVersion, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + versionColumns + ` FROM credential_version
			  WHERE credential_id = $1
			  ORDER BY created_at DESC, id DESC
			  LIMIT 1`

	version, err := scanVersion(querier.QueryRowContext(ctx, query, credentialID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, credentialDomain.ErrVersionNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get most recent version")
	}

	return version, nil
}

// GetVersionByID retrieves one version by its id.
func (p *PostgreSQLCredentialRepository) GetVersionByID(
	ctx context.Context,
	versionID uuid.UUID,
) (*credentialDomain.CredentialVersion, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + versionColumns + ` FROM credential_version WHERE id = $1`

	version, err := scanVersion(querier.QueryRowContext(ctx, query, versionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, credentialDomain.ErrVersionNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get version")
	}

	return version, nil
}

// GetVersions retrieves a credential's versions newest first. A limit of zero
// or less returns all of them.
func (p *PostgreSQLCredentialRepository) GetVersions(
	ctx context.Context,
	credentialID uuid.UUID,
	limit int,
) ([]*credentialDomain.CredentialVersion, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + versionColumns + ` FROM credential_version
			  WHERE credential_id = $1
			  ORDER BY created_at DESC, id DESC`
	args := []any{credentialID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list versions")
	}
	defer rows.Close()

	var versions []*credentialDomain.CredentialVersion
	for rows.Next() {
		version, err := scanVersion(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan version")
		}
		versions = append(versions, version)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate versions")
	}

	return versions, nil
}

func (p *PostgreSQLCredentialRepository) queryCredentials(
	ctx context.Context,
	querier database.Querier,
	query string,
	arg any,
) ([]*credentialDomain.Credential, error) {
	rows, err := querier.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to search credentials")
	}
	defer rows.Close()

	var credentials []*credentialDomain.Credential
	for rows.Next() {
		var credential credentialDomain.Credential
		if err := rows.Scan(&credential.ID, &credential.Name, &credential.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan credential")
		}
		credentials = append(credentials, &credential)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate credentials")
	}

	return credentials, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

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

// uuidStrings converts ids for use with pq.Array in ANY($n::uuid[]) clauses.
func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// NewPostgreSQLCredentialRepository creates a new PostgreSQL credential repository instance.
func NewPostgreSQLCredentialRepository(db *sql.DB) *PostgreSQLCredentialRepository {
	return &PostgreSQLCredentialRepository{db: db}
}
