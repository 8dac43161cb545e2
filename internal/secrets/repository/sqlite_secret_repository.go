// Package repository implements persistence for secrets and their versions
// against a tenant SQLite database.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nubster-opensources/egide/internal/database"
	secretsDomain "github.com/nubster-opensources/egide/internal/secrets/domain"
)

// SQLiteSecretRepository persists secret metadata and encrypted versions in
// the caller-supplied tenant database. It owns its own schema (secrets,
// secret_versions), created on first use.
type SQLiteSecretRepository struct {
	db *sql.DB
}

// NewSQLiteSecretRepository opens the repository against db, creating its
// tables if they do not already exist.
func NewSQLiteSecretRepository(ctx context.Context, db *sql.DB) (*SQLiteSecretRepository, error) {
	r := &SQLiteSecretRepository{db: db}
	if err := r.migrate(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *SQLiteSecretRepository) migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS secrets (
	path       TEXT PRIMARY KEY,
	version    INTEGER NOT NULL,
	deleted_at TIMESTAMP,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS secret_versions (
	path       TEXT NOT NULL REFERENCES secrets(path) ON DELETE CASCADE,
	version    INTEGER NOT NULL,
	data       BLOB NOT NULL,
	metadata   BLOB,
	expires_at TIMESTAMP,
	created_at TIMESTAMP NOT NULL,
	created_by TEXT,
	PRIMARY KEY (path, version)
);

CREATE INDEX IF NOT EXISTS idx_secret_versions_path ON secret_versions(path);
`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate secrets schema: %w", err)
	}
	return nil
}

// GetSecretRow returns a path's current version and soft-delete state.
// Returns ErrSecretNotFound if the path has never been written.
func (r *SQLiteSecretRepository) GetSecretRow(ctx context.Context, path string) (*secretsDomain.SecretRow, error) {
	querier := database.GetTx(ctx, r.db)

	var row secretsDomain.SecretRow
	var deletedAt sql.NullTime
	err := querier.QueryRowContext(ctx,
		`SELECT version, deleted_at, updated_at FROM secrets WHERE path = ?`, path,
	).Scan(&row.Version, &deletedAt, &row.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", secretsDomain.ErrSecretNotFound, path)
		}
		return nil, fmt.Errorf("failed to get secret: %w", err)
	}
	if deletedAt.Valid {
		row.DeletedAt = &deletedAt.Time
	}
	return &row, nil
}

// CreateSecretAndVersion inserts a path's first metadata row and its
// version-1 data atomically.
func (r *SQLiteSecretRepository) CreateSecretAndVersion(ctx context.Context, path string, now time.Time, version *secretsDomain.VersionRow) error {
	txManager := database.NewTxManager(r.db)
	return txManager.WithTx(ctx, func(ctx context.Context) error {
		querier := database.GetTx(ctx, r.db)

		_, err := querier.ExecContext(ctx,
			`INSERT INTO secrets (path, version, created_at, updated_at) VALUES (?, ?, ?, ?)`,
			path, version.Version, now, now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert secret: %w", err)
		}

		return insertVersion(ctx, querier, path, version)
	})
}

// AddVersion inserts a new version row and bumps the path's current version,
// atomically.
func (r *SQLiteSecretRepository) AddVersion(ctx context.Context, path string, now time.Time, version *secretsDomain.VersionRow) error {
	txManager := database.NewTxManager(r.db)
	return txManager.WithTx(ctx, func(ctx context.Context) error {
		querier := database.GetTx(ctx, r.db)

		result, err := querier.ExecContext(ctx,
			`UPDATE secrets SET version = ?, updated_at = ? WHERE path = ?`,
			version.Version, now, path,
		)
		if err != nil {
			return fmt.Errorf("failed to update secret version: %w", err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return fmt.Errorf("%w: %s", secretsDomain.ErrSecretNotFound, path)
		}

		return insertVersion(ctx, querier, path, version)
	})
}

func insertVersion(ctx context.Context, querier database.Querier, path string, version *secretsDomain.VersionRow) error {
	_, err := querier.ExecContext(ctx,
		`INSERT INTO secret_versions (path, version, data, metadata, expires_at, created_at, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		path, version.Version, version.Data, version.Metadata, version.ExpiresAt, version.CreatedAt, version.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert secret version: %w", err)
	}
	return nil
}

// GetVersion retrieves one version's encrypted data and metadata.
func (r *SQLiteSecretRepository) GetVersion(ctx context.Context, path string, version uint32) (*secretsDomain.VersionRow, error) {
	querier := database.GetTx(ctx, r.db)

	var v secretsDomain.VersionRow
	var metadata []byte
	var expiresAt sql.NullTime
	var createdBy sql.NullString
	err := querier.QueryRowContext(ctx,
		`SELECT version, data, metadata, expires_at, created_at, created_by
		 FROM secret_versions WHERE path = ? AND version = ?`,
		path, version,
	).Scan(&v.Version, &v.Data, &metadata, &expiresAt, &v.CreatedAt, &createdBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s v%d", secretsDomain.ErrVersionNotFound, path, version)
		}
		return nil, fmt.Errorf("failed to get secret version: %w", err)
	}
	v.Metadata = metadata
	if expiresAt.Valid {
		v.ExpiresAt = &expiresAt.Time
	}
	if createdBy.Valid {
		v.CreatedBy = createdBy.String
	}
	return &v, nil
}

// ListVersions returns every version of path in descending order. Returns
// ErrSecretNotFound if the path itself does not exist.
func (r *SQLiteSecretRepository) ListVersions(ctx context.Context, path string) ([]*secretsDomain.VersionRow, error) {
	if _, err := r.GetSecretRow(ctx, path); err != nil {
		return nil, err
	}

	querier := database.GetTx(ctx, r.db)
	rows, err := querier.QueryContext(ctx,
		`SELECT version, expires_at, created_at, created_by
		 FROM secret_versions WHERE path = ? ORDER BY version DESC`,
		path,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list secret versions: %w", err)
	}
	defer rows.Close()

	var versions []*secretsDomain.VersionRow
	for rows.Next() {
		var v secretsDomain.VersionRow
		var expiresAt sql.NullTime
		var createdBy sql.NullString
		if err := rows.Scan(&v.Version, &expiresAt, &v.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("failed to scan secret version: %w", err)
		}
		if expiresAt.Valid {
			v.ExpiresAt = &expiresAt.Time
		}
		if createdBy.Valid {
			v.CreatedBy = createdBy.String
		}
		versions = append(versions, &v)
	}
	return versions, rows.Err()
}

// SoftDelete marks path as deleted without removing its data.
func (r *SQLiteSecretRepository) SoftDelete(ctx context.Context, path string, deletedAt time.Time) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx,
		`UPDATE secrets SET deleted_at = ? WHERE path = ?`, deletedAt, path,
	)
	if err != nil {
		return fmt.Errorf("failed to soft-delete secret: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", secretsDomain.ErrSecretNotFound, path)
	}
	return nil
}

// Undelete clears a path's soft-delete marker.
func (r *SQLiteSecretRepository) Undelete(ctx context.Context, path string, updatedAt time.Time) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx,
		`UPDATE secrets SET deleted_at = NULL, updated_at = ? WHERE path = ?`, updatedAt, path,
	)
	if err != nil {
		return fmt.Errorf("failed to undelete secret: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", secretsDomain.ErrSecretNotFound, path)
	}
	return nil
}

// ListSecrets returns metadata for every path matching a prefix, in
// ascending path order.
func (r *SQLiteSecretRepository) ListSecrets(ctx context.Context, prefix string) ([]secretsDomain.Metadata, error) {
	querier := database.GetTx(ctx, r.db)

	rows, err := querier.QueryContext(ctx,
		`SELECT path, version, created_at, updated_at, deleted_at
		 FROM secrets WHERE path LIKE ? ESCAPE '\' ORDER BY path ASC`,
		likePrefix(prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list secrets: %w", err)
	}
	defer rows.Close()

	var out []secretsDomain.Metadata
	for rows.Next() {
		var m secretsDomain.Metadata
		var deletedAt sql.NullTime
		if err := rows.Scan(&m.Path, &m.Version, &m.CreatedAt, &m.UpdatedAt, &deletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan secret metadata: %w", err)
		}
		m.Deleted = deletedAt.Valid
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListExpiredDeletedPaths returns every path soft-deleted before cutoff.
func (r *SQLiteSecretRepository) ListExpiredDeletedPaths(ctx context.Context, cutoff time.Time) ([]string, error) {
	querier := database.GetTx(ctx, r.db)

	rows, err := querier.QueryContext(ctx,
		`SELECT path FROM secrets WHERE deleted_at IS NOT NULL AND deleted_at < ?`, cutoff,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list deleted secrets: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("failed to scan deleted secret path: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, rows.Err()
}

// Purge permanently removes a path and all its versions.
func (r *SQLiteSecretRepository) Purge(ctx context.Context, path string) error {
	querier := database.GetTx(ctx, r.db)
	_, err := querier.ExecContext(ctx, `DELETE FROM secrets WHERE path = ?`, path)
	if err != nil {
		return fmt.Errorf("failed to purge secret: %w", err)
	}
	return nil
}

// likePrefix escapes SQL LIKE metacharacters in prefix and appends the
// wildcard suffix.
func likePrefix(prefix string) string {
	escaped := make([]byte, 0, len(prefix)+1)
	for i := 0; i < len(prefix); i++ {
		c := prefix[i]
		if c == '%' || c == '_' || c == '\\' {
			escaped = append(escaped, '\\')
		}
		escaped = append(escaped, c)
	}
	return string(escaped) + "%"
}
