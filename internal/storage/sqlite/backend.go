// Package sqlite is the storage.domain.Backend implementation: one SQLite
// file per tenant (system, secrets, transit), opened with the pure-Go
// modernc.org/sqlite driver so the vault never links cgo.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	_ "modernc.org/sqlite"

	storageDomain "github.com/nubster-opensources/egide/internal/storage/domain"
)

var tenantPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

const maxTenantLength = 64

// Backend is a tenant-isolated SQLite-backed storageDomain.Backend. Every
// tenant gets its own database file at {baseDir}/{tenant}.db, so a bug or
// breach in one tenant's data can never read another's.
type Backend struct {
	db    *sql.DB
	actor string
}

var _ storageDomain.Backend = (*Backend)(nil)

// Open opens (creating if necessary) the SQLite database for tenant under
// baseDir, runs its migrations, and returns a ready Backend.
func Open(ctx context.Context, baseDir, tenant string) (*Backend, error) {
	if err := validateTenant(tenant); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("%w: failed to create storage directory: %v", storageDomain.ErrConnectionFailed, err)
	}

	dbPath := filepath.Join(baseDir, tenant+".db")
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storageDomain.ErrConnectionFailed, err)
	}
	db.SetMaxOpenConns(1) // modernc.org/sqlite: serialize writers per tenant file
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", storageDomain.ErrConnectionFailed, err)
	}

	b := &Backend{db: db}
	if err := b.migrate(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

func validateTenant(tenant string) error {
	if tenant == "" {
		return fmt.Errorf("%w: tenant cannot be empty", storageDomain.ErrInvalidTenant)
	}
	if len(tenant) > maxTenantLength {
		return fmt.Errorf("%w: tenant name too long", storageDomain.ErrInvalidTenant)
	}
	if !tenantPattern.MatchString(tenant) {
		return fmt.Errorf("%w: tenant must match [a-z0-9_-]+", storageDomain.ErrInvalidTenant)
	}
	return nil
}

func (b *Backend) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS kv_store (
			key        TEXT PRIMARY KEY,
			value      BLOB NOT NULL,
			version    INTEGER NOT NULL DEFAULT 1,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS kv_history (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			key       TEXT NOT NULL,
			value     BLOB,
			version   INTEGER NOT NULL,
			operation TEXT NOT NULL,
			actor     TEXT,
			timestamp INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_key ON kv_history (key)`,
		`CREATE INDEX IF NOT EXISTS idx_history_timestamp ON kv_history (timestamp)`,
	}
	for _, stmt := range stmts {
		if _, err := b.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: migration failed: %v", storageDomain.ErrConnectionFailed, err)
		}
	}
	return nil
}

// DB returns the underlying connection, for engines (secrets, transit) that
// own additional tables in this same tenant file and need transactional
// access via database.TxManager/GetTx.
func (b *Backend) DB() *sql.DB { return b.db }

// WithActor returns a shallow copy of the backend that records actor on
// every history row it writes. The receiver is left untouched.
func (b *Backend) WithActor(actor string) *Backend {
	clone := *b
	clone.actor = actor
	return &clone
}

// Close releases the underlying connection.
func (b *Backend) Close() error { return b.db.Close() }

func (b *Backend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := b.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("%w: %v", storageDomain.ErrQueryFailed, err)
	}
	return value, true, nil
}

func (b *Backend) Exists(ctx context.Context, key string) (bool, error) {
	_, ok, err := b.Get(ctx, key)
	return ok, err
}

func (b *Backend) Put(ctx context.Context, key string, value []byte) error {
	now := time.Now().Unix()

	var existingVersion int64
	err := b.db.QueryRowContext(ctx, `SELECT version FROM kv_store WHERE key = ?`, key).Scan(&existingVersion)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		existingVersion = 0
	case err != nil:
		return fmt.Errorf("%w: %v", storageDomain.ErrQueryFailed, err)
	}

	version := existingVersion + 1
	operation := storageDomain.OpUpdate
	if existingVersion == 0 {
		operation = storageDomain.OpCreate
	}

	_, err = b.db.ExecContext(ctx, `
		INSERT INTO kv_store (key, value, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			version = excluded.version,
			updated_at = excluded.updated_at
	`, key, value, version, now, now)
	if err != nil {
		return fmt.Errorf("%w: %v", storageDomain.ErrQueryFailed, err)
	}

	if err := b.recordHistory(ctx, key, value, version, operation, now); err != nil {
		return err
	}
	return nil
}

func (b *Backend) Delete(ctx context.Context, key string) error {
	var existingVersion int64
	err := b.db.QueryRowContext(ctx, `SELECT version FROM kv_store WHERE key = ?`, key).Scan(&existingVersion)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", storageDomain.ErrQueryFailed, err)
	}

	now := time.Now().Unix()
	if _, err := b.db.ExecContext(ctx, `DELETE FROM kv_store WHERE key = ?`, key); err != nil {
		return fmt.Errorf("%w: %v", storageDomain.ErrQueryFailed, err)
	}

	return b.recordHistory(ctx, key, nil, existingVersion+1, storageDomain.OpDelete, now)
}

func (b *Backend) List(ctx context.Context, prefix string) ([]string, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT key FROM kv_store WHERE key LIKE ? ESCAPE '\'`, escapeLikePrefix(prefix)+"%")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storageDomain.ErrQueryFailed, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("%w: %v", storageDomain.ErrQueryFailed, err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// History returns every history row recorded for key, oldest first.
func (b *Backend) History(ctx context.Context, key string) ([]storageDomain.HistoryEntry, error) {
	rows, err := b.db.QueryContext(ctx, `
		SELECT id, key, value, version, operation, actor, timestamp
		FROM kv_history WHERE key = ? ORDER BY id
	`, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storageDomain.ErrQueryFailed, err)
	}
	defer rows.Close()

	var entries []storageDomain.HistoryEntry
	for rows.Next() {
		var e storageDomain.HistoryEntry
		var actor sql.NullString
		if err := rows.Scan(&e.ID, &e.Key, &e.Value, &e.Version, &e.Operation, &actor, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("%w: %v", storageDomain.ErrQueryFailed, err)
		}
		e.Actor = actor.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (b *Backend) recordHistory(ctx context.Context, key string, value []byte, version int64, op storageDomain.HistoryOperation, now int64) error {
	var actor sql.NullString
	if b.actor != "" {
		actor = sql.NullString{String: b.actor, Valid: true}
	}

	_, err := b.db.ExecContext(ctx, `
		INSERT INTO kv_history (key, value, version, operation, actor, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`, key, value, version, op, actor, now)
	if err != nil {
		return fmt.Errorf("%w: failed to record history: %v", storageDomain.ErrQueryFailed, err)
	}
	return nil
}

var likeEscaper = regexp.MustCompile(`([\\%_])`)

// escapeLikePrefix escapes SQL LIKE metacharacters in prefix so a key such
// as "50%off" cannot be mistaken for a wildcard pattern.
func escapeLikePrefix(prefix string) string {
	return likeEscaper.ReplaceAllString(prefix, `\$1`)
}
