package domain

import "time"

// Secret is a decrypted key/value document at a path, at a specific version.
type Secret struct {
	Path      string
	Data      map[string]string
	Version   uint32
	Metadata  []byte // raw JSON, nil if none was set
	CreatedAt time.Time
	ExpiresAt *time.Time
}

// Metadata describes a secret's current state without decrypting any version.
type Metadata struct {
	Path      string
	Version   uint32
	CreatedAt time.Time
	UpdatedAt time.Time
	Deleted   bool
}

// VersionInfo describes one stored version of a secret.
type VersionInfo struct {
	Version   uint32
	CreatedAt time.Time
	ExpiresAt *time.Time
	CreatedBy string
	Expired   bool
}

// SecretRow is a path's mutable persistence state: its current version and
// soft-delete marker. Used between the usecase and repository layers; it
// never leaves the engine in encrypted form.
type SecretRow struct {
	Version   uint32
	DeletedAt *time.Time
	UpdatedAt time.Time
}

// VersionRow is one immutable stored version's encrypted persistence state.
type VersionRow struct {
	Version   uint32
	Data      []byte // combined-blob AEAD ciphertext
	Metadata  []byte
	ExpiresAt *time.Time
	CreatedAt time.Time
	CreatedBy string
}

// PutOptions controls optional behavior of a Put call.
type PutOptions struct {
	// TTL, if set, marks the new version to expire after this duration.
	TTL *time.Duration
	// Metadata, if set, is stored as opaque JSON alongside the new version.
	Metadata []byte
	// CAS, if set, requires the secret's current version to equal this
	// value before the write is accepted (optimistic concurrency control).
	// Setting CAS against a path that doesn't exist yet fails with
	// ErrSecretNotFound.
	CAS *uint32
}
