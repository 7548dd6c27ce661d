// Package repository implements persistence for encryption canaries and
// encrypted values on PostgreSQL.
package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/credstore/internal/database"
	encryptionDomain "github.com/allisson/credstore/internal/encryption/domain"
	apperrors "github.com/allisson/credstore/internal/errors"
)

// PostgreSQLCanaryRepository implements canary persistence for PostgreSQL databases.
type PostgreSQLCanaryRepository struct {
	db *sql.DB
}

// Create inserts a new canary row for a key never used before.
func (p *PostgreSQLCanaryRepository) Create(ctx context.Context, canary *encryptionDomain.Canary) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO encryption_key_canary (id, ciphertext, nonce, created_at)
			  VALUES ($1, $2, $3, $4)`

	_, err := querier.ExecContext(
		ctx,
		query,
		canary.ID,
		canary.Ciphertext,
		canary.Nonce,
		canary.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create canary")
	}
	return nil
}

// List returns every canary row, one per key ever used for writes.
func (p *PostgreSQLCanaryRepository) List(ctx context.Context) ([]*encryptionDomain.Canary, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, ciphertext, nonce, created_at
			  FROM encryption_key_canary
			  ORDER BY created_at ASC`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list canaries")
	}
	defer rows.Close()

	var canaries []*encryptionDomain.Canary
	for rows.Next() {
		var canary encryptionDomain.Canary
		if err := rows.Scan(&canary.ID, &canary.Ciphertext, &canary.Nonce, &canary.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan canary")
		}
		canaries = append(canaries, &canary)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate canaries")
	}

	return canaries, nil
}

// NewPostgreSQLCanaryRepository creates a new PostgreSQL canary repository instance.
func NewPostgreSQLCanaryRepository(db *sql.DB) *PostgreSQLCanaryRepository {
	return &PostgreSQLCanaryRepository{db: db}
}
