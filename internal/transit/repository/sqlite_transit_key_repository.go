// Package repository implements persistence for transit keys and their
// versions against a tenant SQLite database.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/nubster-opensources/egide/internal/database"
	cryptoDomain "github.com/nubster-opensources/egide/internal/crypto/domain"
	transitDomain "github.com/nubster-opensources/egide/internal/transit/domain"
)

// SQLiteTransitKeyRepository persists transit key metadata and wrapped key
// versions in the caller-supplied tenant database. It owns its own schema
// (transit_keys, transit_key_versions), created on first use.
type SQLiteTransitKeyRepository struct {
	db *sql.DB
}

// NewSQLiteTransitKeyRepository opens the repository against db, creating
// its tables if they do not already exist.
func NewSQLiteTransitKeyRepository(ctx context.Context, db *sql.DB) (*SQLiteTransitKeyRepository, error) {
	r := &SQLiteTransitKeyRepository{db: db}
	if err := r.migrate(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *SQLiteTransitKeyRepository) migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS transit_keys (
	name                   TEXT PRIMARY KEY,
	type                   TEXT NOT NULL,
	latest_version         INTEGER NOT NULL,
	min_encryption_version INTEGER NOT NULL,
	min_decryption_version INTEGER NOT NULL,
	supports_encryption    INTEGER NOT NULL,
	supports_decryption    INTEGER NOT NULL,
	supports_derivation    INTEGER NOT NULL,
	exportable             INTEGER NOT NULL,
	deletion_allowed       INTEGER NOT NULL,
	created_at             TIMESTAMP NOT NULL,
	updated_at             TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS transit_key_versions (
	name       TEXT NOT NULL REFERENCES transit_keys(name) ON DELETE CASCADE,
	version    INTEGER NOT NULL,
	wrapped_key BLOB NOT NULL,
	created_at TIMESTAMP NOT NULL,
	PRIMARY KEY (name, version)
);
`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate transit schema: %w", err)
	}
	return nil
}

// CreateKey inserts the key's metadata row and its first version row
// atomically.
func (r *SQLiteTransitKeyRepository) CreateKey(ctx context.Context, key *transitDomain.TransitKey, version *transitDomain.TransitKeyVersion) error {
	txManager := database.NewTxManager(r.db)
	return txManager.WithTx(ctx, func(ctx context.Context) error {
		querier := database.GetTx(ctx, r.db)

		_, err := querier.ExecContext(ctx, `
			INSERT INTO transit_keys (
				name, type, latest_version, min_encryption_version, min_decryption_version,
				supports_encryption, supports_decryption, supports_derivation,
				exportable, deletion_allowed, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			key.Name, string(key.Type), key.LatestVersion, key.MinEncryptionVersion, key.MinDecryptionVersion,
			key.SupportsEncryption, key.SupportsDecryption, key.SupportsDerivation,
			key.Exportable, key.DeletionAllowed, key.CreatedAt, key.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %s", transitDomain.ErrKeyExists, key.Name)
			}
			return fmt.Errorf("failed to insert transit key: %w", err)
		}

		_, err = querier.ExecContext(ctx,
			`INSERT INTO transit_key_versions (name, version, wrapped_key, created_at) VALUES (?, ?, ?, ?)`,
			version.Name, version.Version, version.WrappedKey, version.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert transit key version: %w", err)
		}
		return nil
	})
}

// GetKey retrieves a key's metadata by name.
func (r *SQLiteTransitKeyRepository) GetKey(ctx context.Context, name string) (*transitDomain.TransitKey, error) {
	querier := database.GetTx(ctx, r.db)

	var key transitDomain.TransitKey
	var alg string
	err := querier.QueryRowContext(ctx, `
		SELECT name, type, latest_version, min_encryption_version, min_decryption_version,
		       supports_encryption, supports_decryption, supports_derivation,
		       exportable, deletion_allowed, created_at, updated_at
		FROM transit_keys WHERE name = ?`, name,
	).Scan(
		&key.Name, &alg, &key.LatestVersion, &key.MinEncryptionVersion, &key.MinDecryptionVersion,
		&key.SupportsEncryption, &key.SupportsDecryption, &key.SupportsDerivation,
		&key.Exportable, &key.DeletionAllowed, &key.CreatedAt, &key.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", transitDomain.ErrKeyNotFound, name)
		}
		return nil, fmt.Errorf("failed to get transit key: %w", err)
	}
	key.Type = cryptoDomain.Algorithm(alg)
	return &key, nil
}

// ListKeys returns every key name in ascending order.
func (r *SQLiteTransitKeyRepository) ListKeys(ctx context.Context) ([]string, error) {
	querier := database.GetTx(ctx, r.db)

	rows, err := querier.QueryContext(ctx, `SELECT name FROM transit_keys ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list transit keys: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan transit key name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// UpdateKey persists a key's mutable fields: the version counters,
// deletion_allowed and updated_at. Capability bits other than
// deletion_allowed are not written.
func (r *SQLiteTransitKeyRepository) UpdateKey(ctx context.Context, key *transitDomain.TransitKey) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx, `
		UPDATE transit_keys SET
			latest_version = ?, min_encryption_version = ?, min_decryption_version = ?,
			deletion_allowed = ?, updated_at = ?
		WHERE name = ?`,
		key.LatestVersion, key.MinEncryptionVersion, key.MinDecryptionVersion,
		key.DeletionAllowed, key.UpdatedAt, key.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to update transit key: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", transitDomain.ErrKeyNotFound, key.Name)
	}
	return nil
}

// AddVersion inserts a new version row and bumps the key's latest_version,
// atomically.
func (r *SQLiteTransitKeyRepository) AddVersion(ctx context.Context, key *transitDomain.TransitKey, version *transitDomain.TransitKeyVersion) error {
	txManager := database.NewTxManager(r.db)
	return txManager.WithTx(ctx, func(ctx context.Context) error {
		querier := database.GetTx(ctx, r.db)

		_, err := querier.ExecContext(ctx,
			`INSERT INTO transit_key_versions (name, version, wrapped_key, created_at) VALUES (?, ?, ?, ?)`,
			version.Name, version.Version, version.WrappedKey, version.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert transit key version: %w", err)
		}

		result, err := querier.ExecContext(ctx,
			`UPDATE transit_keys SET latest_version = ?, updated_at = ? WHERE name = ?`,
			key.LatestVersion, key.UpdatedAt, key.Name,
		)
		if err != nil {
			return fmt.Errorf("failed to update transit key latest_version: %w", err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return fmt.Errorf("%w: %s", transitDomain.ErrKeyNotFound, key.Name)
		}
		return nil
	})
}

// GetVersion retrieves one version's wrapped key material.
func (r *SQLiteTransitKeyRepository) GetVersion(ctx context.Context, name string, version uint32) (*transitDomain.TransitKeyVersion, error) {
	querier := database.GetTx(ctx, r.db)

	var v transitDomain.TransitKeyVersion
	err := querier.QueryRowContext(ctx,
		`SELECT name, version, wrapped_key, created_at FROM transit_key_versions WHERE name = ? AND version = ?`,
		name, version,
	).Scan(&v.Name, &v.Version, &v.WrappedKey, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s v%d", transitDomain.ErrVersionNotFound, name, version)
		}
		return nil, fmt.Errorf("failed to get transit key version: %w", err)
	}
	return &v, nil
}

// ListVersions returns every version of name in descending order. Returns
// ErrKeyNotFound if the key itself does not exist.
func (r *SQLiteTransitKeyRepository) ListVersions(ctx context.Context, name string) ([]*transitDomain.TransitKeyVersion, error) {
	if _, err := r.GetKey(ctx, name); err != nil {
		return nil, err
	}

	querier := database.GetTx(ctx, r.db)
	rows, err := querier.QueryContext(ctx,
		`SELECT name, version, wrapped_key, created_at FROM transit_key_versions WHERE name = ? ORDER BY version DESC`,
		name,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transit key versions: %w", err)
	}
	defer rows.Close()

	var versions []*transitDomain.TransitKeyVersion
	for rows.Next() {
		var v transitDomain.TransitKeyVersion
		if err := rows.Scan(&v.Name, &v.Version, &v.WrappedKey, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transit key version: %w", err)
		}
		versions = append(versions, &v)
	}
	return versions, rows.Err()
}

// DeleteKey removes a key and all its versions (FK cascade).
func (r *SQLiteTransitKeyRepository) DeleteKey(ctx context.Context, name string) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM transit_keys WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete transit key: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", transitDomain.ErrKeyNotFound, name)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}
