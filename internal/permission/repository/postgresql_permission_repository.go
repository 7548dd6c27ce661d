// Package repository implements permission persistence on PostgreSQL.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/allisson/credstore/internal/database"
	apperrors "github.com/allisson/credstore/internal/errors"
	permissionDomain "github.com/allisson/credstore/internal/permission/domain"
)

// PostgreSQLPermissionRepository implements permission persistence for PostgreSQL databases.
type PostgreSQLPermissionRepository struct {
	db *sql.DB
}

// Upsert inserts a grant or replaces the operation set of an existing one.
// (credential_id, actor) is unique, so granting twice never creates two rows.
func (p *PostgreSQLPermissionRepository) Upsert(ctx context.Context, entry *permissionDomain.Entry) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO permission (id, credential_id, actor, can_read, can_write, can_delete, can_read_acl, can_write_acl, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  ON CONFLICT (credential_id, actor) DO UPDATE
			  SET can_read = EXCLUDED.can_read,
				  can_write = EXCLUDED.can_write,
				  can_delete = EXCLUDED.can_delete,
				  can_read_acl = EXCLUDED.can_read_acl,
				  can_write_acl = EXCLUDED.can_write_acl,
				  updated_at = EXCLUDED.updated_at`

	_, err := querier.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.CredentialID,
		entry.Actor,
		entry.Read,
		entry.Write,
		entry.Delete,
		entry.ReadACL,
		entry.WriteACL,
		entry.CreatedAt,
		entry.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to upsert permission entry")
	}
	return nil
}

// Get retrieves the grant for a (credential, actor) pair.
func (p *PostgreSQLPermissionRepository) Get(
	ctx context.Context,
	credentialID uuid.UUID,
	actor string,
) (*permissionDomain.Entry, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, credential_id, actor, can_read, can_write, can_delete, can_read_acl, can_write_acl, created_at, updated_at
			  FROM permission
			  WHERE credential_id = $1 AND actor = $2`

	var entry permissionDomain.Entry
	err := querier.QueryRowContext(ctx, query, credentialID, actor).Scan(
		&entry.ID,
		&entry.CredentialID,
		&entry.Actor,
		&entry.Read,
		&entry.Write,
		&entry.Delete,
		&entry.ReadACL,
		&entry.WriteACL,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, permissionDomain.ErrEntryNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get permission entry")
	}

	return &entry, nil
}

// ListByCredential returns every grant on a credential ordered by actor.
func (p *PostgreSQLPermissionRepository) ListByCredential(
	ctx context.Context,
	credentialID uuid.UUID,
) ([]*permissionDomain.Entry, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, credential_id, actor, can_read, can_write, can_delete, can_read_acl, can_write_acl, created_at, updated_at
			  FROM permission
			  WHERE credential_id = $1
			  ORDER BY actor ASC`

	rows, err := querier.QueryContext(ctx, query, credentialID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list permission entries")
	}
	defer rows.Close()

	var entries []*permissionDomain.Entry
	for rows.Next() {
		var entry permissionDomain.Entry
		err := rows.Scan(
			&entry.ID,
			&entry.CredentialID,
			&entry.Actor,
			&entry.Read,
			&entry.Write,
			&entry.Delete,
			&entry.ReadACL,
			&entry.WriteACL,
			&entry.CreatedAt,
			&entry.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan permission entry")
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate permission entries")
	}

	return entries, nil
}

// Delete removes the grant for a (credential, actor) pair.
func (p *PostgreSQLPermissionRepository) Delete(ctx context.Context, credentialID uuid.UUID, actor string) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM permission WHERE credential_id = $1 AND actor = $2`

	result, err := querier.ExecContext(ctx, query, credentialID, actor)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete permission entry")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return permissionDomain.ErrEntryNotFound
	}

	return nil
}

// NewPostgreSQLPermissionRepository creates a new PostgreSQL permission repository instance.
func NewPostgreSQLPermissionRepository(db *sql.DB) *PostgreSQLPermissionRepository {
	return &PostgreSQLPermissionRepository{db: db}
}
