// Package usecase implements the key/value secrets engine: path-addressed,
// versioned documents encrypted under keys derived from the vault master
// key, never stored or returned in plaintext outside a successful Get.
package usecase

import (
	"context"
	"time"

	secretsDomain "github.com/nubster-opensources/egide/internal/secrets/domain"
)

// SecretRepository persists secret metadata and encrypted versions.
type SecretRepository interface {
	GetSecretRow(ctx context.Context, path string) (*secretsDomain.SecretRow, error)
	CreateSecretAndVersion(ctx context.Context, path string, now time.Time, version *secretsDomain.VersionRow) error
	AddVersion(ctx context.Context, path string, now time.Time, version *secretsDomain.VersionRow) error
	GetVersion(ctx context.Context, path string, version uint32) (*secretsDomain.VersionRow, error)
	ListVersions(ctx context.Context, path string) ([]*secretsDomain.VersionRow, error)
	SoftDelete(ctx context.Context, path string, deletedAt time.Time) error
	Undelete(ctx context.Context, path string, updatedAt time.Time) error
	ListSecrets(ctx context.Context, prefix string) ([]secretsDomain.Metadata, error)
	ListExpiredDeletedPaths(ctx context.Context, cutoff time.Time) ([]string, error)
	Purge(ctx context.Context, path string) error
}

// UseCase implements the vault's key/value secrets engine.
type UseCase interface {
	// Put writes a new version of the document at path, encrypting it
	// under a key derived from the vault master key and that path alone.
	Put(ctx context.Context, path string, data map[string]string, opts secretsDomain.PutOptions) (*secretsDomain.Secret, error)

	// Get returns the current version of path's data, or ErrExpired if that
	// version has expired; older versions are not consulted.
	Get(ctx context.Context, path string) (*secretsDomain.Secret, error)

	// GetVersion returns a specific version of path's data.
	GetVersion(ctx context.Context, path string, version uint32) (*secretsDomain.Secret, error)

	// Delete soft-deletes path, preserving its data for Undelete.
	Delete(ctx context.Context, path string) error

	// Undelete clears path's soft-delete marker.
	Undelete(ctx context.Context, path string) error

	// List returns metadata for every path under prefix.
	List(ctx context.Context, prefix string) ([]secretsDomain.Metadata, error)

	// ListVersions returns every version of path, descending.
	ListVersions(ctx context.Context, path string) ([]secretsDomain.VersionInfo, error)

	// Rollback re-puts an older version's data as a brand-new version.
	Rollback(ctx context.Context, path string, version uint32) (*secretsDomain.Secret, error)

	// PurgeDeleted permanently removes secrets soft-deleted before olderThan.
	PurgeDeleted(ctx context.Context, olderThan time.Duration) (int, error)
}
