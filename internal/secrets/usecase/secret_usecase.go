package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	cryptoDomain "github.com/nubster-opensources/egide/internal/crypto/domain"
	cryptoService "github.com/nubster-opensources/egide/internal/crypto/service"
	sealDomain "github.com/nubster-opensources/egide/internal/seal/domain"
	secretsDomain "github.com/nubster-opensources/egide/internal/secrets/domain"
)

// MasterKeyProvider exposes the vault's in-memory master key. Satisfied by
// the seal usecase without a direct dependency on its concrete type.
type MasterKeyProvider interface {
	MasterKey() ([]byte, bool)
}

type secretUseCase struct {
	repo        SecretRepository
	masterKey   MasterKeyProvider
	aeadManager *cryptoService.AEADManagerService
}

var _ UseCase = (*secretUseCase)(nil)

// New builds a secrets UseCase backed by repo, encrypting every version's
// data under a key derived from the vault master key and the secret's path.
func New(repo SecretRepository, masterKey MasterKeyProvider) UseCase {
	return &secretUseCase{
		repo:        repo,
		masterKey:   masterKey,
		aeadManager: cryptoService.NewAEADManager(),
	}
}

func (u *secretUseCase) currentMasterKey() ([]byte, error) {
	key, ok := u.masterKey.MasterKey()
	if !ok {
		return nil, sealDomain.ErrSealed
	}
	return key, nil
}

// derivePathKey derives the per-path data-encryption key from the vault
// master key. Every version of a path is encrypted under the same derived
// key; the version number is carried only in the AAD, not the derivation.
func derivePathKey(masterKey []byte, path string) ([]byte, error) {
	info := []byte(secretsDomain.SecretKeyInfoPrefix + path)
	return cryptoService.Derive(masterKey, nil, info, cryptoDomain.KeySize)
}

func secretAAD(path string) []byte {
	return []byte(path)
}

func (u *secretUseCase) cipherForPath(masterKey []byte, path string) (cryptoService.AEAD, error) {
	pathKey, err := derivePathKey(masterKey, path)
	if err != nil {
		return nil, fmt.Errorf("failed to derive secret key: %w", err)
	}
	defer zero(pathKey)
	return u.aeadManager.CreateCipher(pathKey, cryptoDomain.AESGCM)
}

func (u *secretUseCase) encrypt(masterKey []byte, path string, data map[string]string) ([]byte, error) {
	plaintext, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal secret data: %w", err)
	}
	defer zero(plaintext)

	cipher, err := u.cipherForPath(masterKey, path)
	if err != nil {
		return nil, err
	}
	return cipher.Encrypt(plaintext, secretAAD(path))
}

func (u *secretUseCase) decrypt(masterKey []byte, path string, blob []byte) (map[string]string, error) {
	cipher, err := u.cipherForPath(masterKey, path)
	if err != nil {
		return nil, err
	}
	plaintext, err := cipher.Decrypt(blob, secretAAD(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", secretsDomain.ErrDecryptionFailed, err)
	}
	defer zero(plaintext)

	data := make(map[string]string)
	if err := json.Unmarshal(plaintext, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal secret data: %w", err)
	}
	return data, nil
}

func (u *secretUseCase) Put(ctx context.Context, path string, data map[string]string, opts secretsDomain.PutOptions) (*secretsDomain.Secret, error) {
	if err := secretsDomain.ValidatePath(path); err != nil {
		return nil, err
	}

	masterKey, err := u.currentMasterKey()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	current, err := u.repo.GetSecretRow(ctx, path)
	isNew := false
	switch {
	case err == nil:
		if current.DeletedAt != nil {
			return nil, secretsDomain.ErrDeleted
		}
		if opts.CAS != nil && *opts.CAS != current.Version {
			return nil, fmt.Errorf("%w: expected %d, found %d", secretsDomain.ErrVersionMismatch, *opts.CAS, current.Version)
		}
	case errors.Is(err, secretsDomain.ErrSecretNotFound):
		if opts.CAS != nil {
			return nil, err
		}
		isNew = true
	default:
		return nil, err
	}

	nextVersion := uint32(1)
	if !isNew {
		nextVersion = current.Version + 1
	}

	blob, err := u.encrypt(masterKey, path, data)
	if err != nil {
		return nil, err
	}

	var expiresAt *time.Time
	if opts.TTL != nil {
		exp := now.Add(*opts.TTL)
		expiresAt = &exp
	}

	row := &secretsDomain.VersionRow{
		Version:   nextVersion,
		Data:      blob,
		Metadata:  opts.Metadata,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}

	if isNew {
		err = u.repo.CreateSecretAndVersion(ctx, path, now, row)
	} else {
		err = u.repo.AddVersion(ctx, path, now, row)
	}
	if err != nil {
		return nil, err
	}

	return &secretsDomain.Secret{
		Path:      path,
		Data:      data,
		Version:   nextVersion,
		Metadata:  opts.Metadata,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}, nil
}

func (u *secretUseCase) Get(ctx context.Context, path string) (*secretsDomain.Secret, error) {
	if err := secretsDomain.ValidatePath(path); err != nil {
		return nil, err
	}

	row, err := u.repo.GetSecretRow(ctx, path)
	if err != nil {
		return nil, err
	}
	if row.DeletedAt != nil {
		return nil, secretsDomain.ErrDeleted
	}
	return u.getVersion(ctx, path, row.Version)
}

// GetVersion reads a specific version directly. Unlike Get, it does not
// reject a soft-deleted path: older versions remain readable while a path
// is deleted, only the current-version convenience read (Get) is blocked.
func (u *secretUseCase) GetVersion(ctx context.Context, path string, version uint32) (*secretsDomain.Secret, error) {
	if err := secretsDomain.ValidatePath(path); err != nil {
		return nil, err
	}

	if _, err := u.repo.GetSecretRow(ctx, path); err != nil {
		return nil, err
	}
	return u.getVersion(ctx, path, version)
}

func (u *secretUseCase) getVersion(ctx context.Context, path string, version uint32) (*secretsDomain.Secret, error) {
	v, err := u.repo.GetVersion(ctx, path, version)
	if err != nil {
		return nil, err
	}
	if v.ExpiresAt != nil && v.ExpiresAt.Before(time.Now().UTC()) {
		return nil, secretsDomain.ErrExpired
	}

	masterKey, err := u.currentMasterKey()
	if err != nil {
		return nil, err
	}

	data, err := u.decrypt(masterKey, path, v.Data)
	if err != nil {
		return nil, err
	}

	return &secretsDomain.Secret{
		Path:      path,
		Data:      data,
		Version:   v.Version,
		Metadata:  v.Metadata,
		CreatedAt: v.CreatedAt,
		ExpiresAt: v.ExpiresAt,
	}, nil
}

func (u *secretUseCase) Delete(ctx context.Context, path string) error {
	if err := secretsDomain.ValidatePath(path); err != nil {
		return err
	}

	row, err := u.repo.GetSecretRow(ctx, path)
	if err != nil {
		return err
	}
	if row.DeletedAt != nil {
		return secretsDomain.ErrDeleted
	}
	return u.repo.SoftDelete(ctx, path, time.Now().UTC())
}

func (u *secretUseCase) Undelete(ctx context.Context, path string) error {
	if err := secretsDomain.ValidatePath(path); err != nil {
		return err
	}

	row, err := u.repo.GetSecretRow(ctx, path)
	if err != nil {
		return err
	}
	if row.DeletedAt == nil {
		return secretsDomain.ErrNotDeleted
	}
	return u.repo.Undelete(ctx, path, time.Now().UTC())
}

func (u *secretUseCase) List(ctx context.Context, prefix string) ([]secretsDomain.Metadata, error) {
	if _, err := u.currentMasterKey(); err != nil {
		return nil, err
	}
	return u.repo.ListSecrets(ctx, prefix)
}

func (u *secretUseCase) ListVersions(ctx context.Context, path string) ([]secretsDomain.VersionInfo, error) {
	rows, err := u.repo.ListVersions(ctx, path)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	out := make([]secretsDomain.VersionInfo, 0, len(rows))
	for _, row := range rows {
		out = append(out, secretsDomain.VersionInfo{
			Version:   row.Version,
			CreatedAt: row.CreatedAt,
			ExpiresAt: row.ExpiresAt,
			CreatedBy: row.CreatedBy,
			Expired:   row.ExpiresAt != nil && row.ExpiresAt.Before(now),
		})
	}
	return out, nil
}

// Rollback re-puts an older version's decrypted data as a brand-new version,
// so the path's history always moves forward even when recovering an old
// value.
func (u *secretUseCase) Rollback(ctx context.Context, path string, version uint32) (*secretsDomain.Secret, error) {
	old, err := u.GetVersion(ctx, path, version)
	if err != nil {
		return nil, err
	}
	return u.Put(ctx, path, old.Data, secretsDomain.PutOptions{Metadata: old.Metadata})
}

func (u *secretUseCase) PurgeDeleted(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	paths, err := u.repo.ListExpiredDeletedPaths(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	for _, path := range paths {
		if err := u.repo.Purge(ctx, path); err != nil {
			return 0, err
		}
	}
	return len(paths), nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
