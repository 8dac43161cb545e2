package domain

import "github.com/nubster-opensources/egide/internal/errors"

// Transit engine error definitions, wrapping the shared sentinel errors so
// HTTP status mapping stays centralized while call sites can still match
// specific variants.
var (
	// ErrKeyNotFound indicates no key exists with the given name.
	ErrKeyNotFound = errors.Wrap(errors.ErrNotFound, "transit key not found")

	// ErrKeyExists indicates create_key was called with a name already in use.
	ErrKeyExists = errors.Wrap(errors.ErrConflict, "transit key already exists")

	// ErrVersionNotFound indicates the requested key version does not exist.
	ErrVersionNotFound = errors.Wrap(errors.ErrNotFound, "transit key version not found")

	// ErrVersionBelowMinEncryption indicates the requested version is older
	// than the key's min_encryption_version.
	ErrVersionBelowMinEncryption = errors.Wrap(errors.ErrInvalidInput, "key version is below min_encryption_version")

	// ErrVersionBelowMinDecryption indicates the ciphertext's version is
	// older than the key's min_decryption_version.
	ErrVersionBelowMinDecryption = errors.Wrap(errors.ErrInvalidInput, "key version is below min_decryption_version")

	// ErrInvalidCiphertext indicates the ciphertext envelope could not be
	// parsed: wrong prefix, malformed version, or invalid base64 payload.
	ErrInvalidCiphertext = errors.Wrap(errors.ErrInvalidInput, "invalid ciphertext format")

	// ErrDecryptionFailed indicates the AEAD tag did not verify.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrOperationNotAllowed indicates the key's capability bits forbid the
	// requested operation (encryption, decryption, derivation).
	ErrOperationNotAllowed = errors.Wrap(errors.ErrForbidden, "operation not allowed for this key")

	// ErrInvalidKeyName indicates the name fails ValidKeyName.
	ErrInvalidKeyName = errors.Wrap(errors.ErrInvalidInput, "invalid transit key name")

	// ErrInvalidKeyType indicates an unrecognized AEAD algorithm was requested.
	ErrInvalidKeyType = errors.Wrap(errors.ErrInvalidInput, "invalid transit key type")

	// ErrNotExportable indicates a key export was attempted on a
	// non-exportable key.
	ErrNotExportable = errors.Wrap(errors.ErrForbidden, "key is not exportable")

	// ErrDeletionNotAllowed indicates delete_key was called on a key whose
	// deletion_allowed bit is false.
	ErrDeletionNotAllowed = errors.Wrap(errors.ErrForbidden, "deletion not allowed for this key")

	// ErrInvalidConfig indicates update_key_config would violate the
	// min-version invariants.
	ErrInvalidConfig = errors.Wrap(errors.ErrInvalidInput, "invalid key configuration")
)
