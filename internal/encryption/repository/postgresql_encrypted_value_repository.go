package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/allisson/credstore/internal/database"
	encryptionDomain "github.com/allisson/credstore/internal/encryption/domain"
	apperrors "github.com/allisson/credstore/internal/errors"
)

// PostgreSQLEncryptedValueRepository implements encrypted-value persistence
// for PostgreSQL databases.
type PostgreSQLEncryptedValueRepository struct {
	db *sql.DB
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// Create inserts a new encrypted value.
func (p *PostgreSQLEncryptedValueRepository) Create(ctx context.Context, value *encryptionDomain.EncryptedValue) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO encrypted_value (id, key_id, ciphertext, nonce, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		value.ID,
		value.KeyID,
		value.Ciphertext,
		value.Nonce,
		value.CreatedAt,
		value.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create encrypted value")
	}
	return nil
}

// Get retrieves an encrypted value by id.
func (p *PostgreSQLEncryptedValueRepository) Get(ctx context.Context, id uuid.UUID) (*encryptionDomain.EncryptedValue, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, key_id, ciphertext, nonce, created_at, updated_at
			  FROM encrypted_value
			  WHERE id = $1`

	var value encryptionDomain.EncryptedValue
	err := querier.QueryRowContext(ctx, query, id).Scan(
		&value.ID,
		&value.KeyID,
		&value.Ciphertext,
		&value.Nonce,
		&value.CreatedAt,
		&value.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get encrypted value")
	}

	return &value, nil
}

// GetBatchByKeyIDs fetches a bounded page of values encrypted under any of
// the given key ids, skipping explicitly excluded rows. Rotation uses the
// exclude set to leave records it already failed on.
func (p *PostgreSQLEncryptedValueRepository) GetBatchByKeyIDs(
	ctx context.Context,
	keyIDs []uuid.UUID,
	excludeIDs []uuid.UUID,
	limit int,
) ([]*encryptionDomain.EncryptedValue, error) {
	if len(keyIDs) == 0 {
		return nil, nil
	}

	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, key_id, ciphertext, nonce, created_at, updated_at
			  FROM encrypted_value
			  WHERE key_id = ANY($1::uuid[])
			    AND NOT (id = ANY($2::uuid[]))
			  ORDER BY created_at ASC
			  LIMIT $3`

	rows, err := querier.QueryContext(
		ctx,
		query,
		pq.Array(uuidStrings(keyIDs)),
		pq.Array(uuidStrings(excludeIDs)),
		limit,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to fetch encrypted value batch")
	}
	defer rows.Close()

	var values []*encryptionDomain.EncryptedValue
	for rows.Next() {
		var value encryptionDomain.EncryptedValue
		if err := rows.Scan(
			&value.ID,
			&value.KeyID,
			&value.Ciphertext,
			&value.Nonce,
			&value.CreatedAt,
			&value.UpdatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan encrypted value")
		}
		values = append(values, &value)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate encrypted values")
	}

	return values, nil
}

// UpdateInPlace swaps ciphertext, nonce and key id while preserving the row
// identity, so version rows referencing this value are untouched.
func (p *PostgreSQLEncryptedValueRepository) UpdateInPlace(ctx context.Context, value *encryptionDomain.EncryptedValue) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE encrypted_value
			  SET key_id = $1, ciphertext = $2, nonce = $3, updated_at = $4
			  WHERE id = $5`

	_, err := querier.ExecContext(
		ctx,
		query,
		value.KeyID,
		value.Ciphertext,
		value.Nonce,
		time.Now().UTC(),
		value.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update encrypted value")
	}
	return nil
}

// CountAll returns the total number of encrypted values.
func (p *PostgreSQLEncryptedValueRepository) CountAll(ctx context.Context) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	var count int64
	err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM encrypted_value`).Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count encrypted values")
	}
	return count, nil
}

// CountByKeyIDs returns how many values are encrypted under the given keys.
func (p *PostgreSQLEncryptedValueRepository) CountByKeyIDs(ctx context.Context, keyIDs []uuid.UUID) (int64, error) {
	if len(keyIDs) == 0 {
		return 0, nil
	}

	querier := database.GetTx(ctx, p.db)

	var count int64
	err := querier.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM encrypted_value WHERE key_id = ANY($1::uuid[])`,
		pq.Array(uuidStrings(keyIDs)),
	).Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count encrypted values by key")
	}
	return count, nil
}

// NewPostgreSQLEncryptedValueRepository creates a new PostgreSQL encrypted value repository instance.
func NewPostgreSQLEncryptedValueRepository(db *sql.DB) *PostgreSQLEncryptedValueRepository {
	return &PostgreSQLEncryptedValueRepository{db: db}
}
