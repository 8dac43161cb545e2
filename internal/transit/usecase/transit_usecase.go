package usecase

import (
	"context"
	"fmt"
	"time"

	cryptoDomain "github.com/nubster-opensources/egide/internal/crypto/domain"
	cryptoService "github.com/nubster-opensources/egide/internal/crypto/service"
	sealDomain "github.com/nubster-opensources/egide/internal/seal/domain"
	transitDomain "github.com/nubster-opensources/egide/internal/transit/domain"
)

// MasterKeyProvider exposes the vault's in-memory master key. Satisfied by
// the seal usecase without a direct dependency on its concrete type.
type MasterKeyProvider interface {
	MasterKey() ([]byte, bool)
}

type transitUseCase struct {
	repo        KeyRepository
	masterKey   MasterKeyProvider
	aeadManager *cryptoService.AEADManagerService
}

var _ UseCase = (*transitUseCase)(nil)

// New builds a transit UseCase backed by repo, encrypting and decrypting
// wrapped key material under keys held by the vault's seal usecase.
func New(repo KeyRepository, masterKey MasterKeyProvider) UseCase {
	return &transitUseCase{
		repo:        repo,
		masterKey:   masterKey,
		aeadManager: cryptoService.NewAEADManager(),
	}
}

func (u *transitUseCase) currentMasterKey() ([]byte, error) {
	key, ok := u.masterKey.MasterKey()
	if !ok {
		return nil, sealDomain.ErrSealed
	}
	return key, nil
}

// deriveWrappingKey derives the per-version key-wrapping key from the
// vault master key.
func deriveWrappingKey(masterKey []byte, name string, version uint32) ([]byte, error) {
	info := fmt.Sprintf("egide-transit-v1:%s:%d", name, version)
	return cryptoService.Derive(masterKey, nil, []byte(info), cryptoDomain.KeySize)
}

func wrapKeyAAD(name string, version uint32) []byte {
	return []byte(fmt.Sprintf("transit-key:%s:%d", name, version))
}

func dataAAD(name string, version uint32) []byte {
	return []byte(fmt.Sprintf("egide-transit:%s:%d", name, version))
}

// newVersion generates fresh random key material for (name, version),
// wraps it under the master-key-derived wrapping key, and returns the
// persistable TransitKeyVersion record.
func (u *transitUseCase) newVersion(masterKey []byte, name string, version uint32, alg cryptoDomain.Algorithm, now time.Time) (*transitDomain.TransitKeyVersion, error) {
	raw, err := cryptoService.RandomBytes(cryptoDomain.KeySize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key material: %w", err)
	}
	defer zero(raw)

	wrappingKey, err := deriveWrappingKey(masterKey, name, version)
	if err != nil {
		return nil, fmt.Errorf("failed to derive wrapping key: %w", err)
	}
	defer zero(wrappingKey)

	cipher, err := u.aeadManager.CreateCipher(wrappingKey, alg)
	if err != nil {
		return nil, err
	}
	wrapped, err := cipher.Encrypt(raw, wrapKeyAAD(name, version))
	if err != nil {
		return nil, fmt.Errorf("failed to wrap key material: %w", err)
	}

	return &transitDomain.TransitKeyVersion{
		Name:       name,
		Version:    version,
		WrappedKey: wrapped,
		CreatedAt:  now,
	}, nil
}

func (u *transitUseCase) CreateKey(ctx context.Context, name string, alg cryptoDomain.Algorithm) (*transitDomain.TransitKey, error) {
	masterKey, err := u.currentMasterKey()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	key, err := transitDomain.NewTransitKey(name, alg, now)
	if err != nil {
		return nil, err
	}

	version, err := u.newVersion(masterKey, name, 1, alg, now)
	if err != nil {
		return nil, err
	}

	if err := u.repo.CreateKey(ctx, key, version); err != nil {
		return nil, err
	}
	return key, nil
}

func (u *transitUseCase) GetKey(ctx context.Context, name string) (*transitDomain.TransitKey, error) {
	return u.repo.GetKey(ctx, name)
}

func (u *transitUseCase) ListKeys(ctx context.Context) ([]string, error) {
	return u.repo.ListKeys(ctx)
}

func (u *transitUseCase) ListVersions(ctx context.Context, name string) ([]*transitDomain.TransitKeyVersion, error) {
	return u.repo.ListVersions(ctx, name)
}

func (u *transitUseCase) RotateKey(ctx context.Context, name string) (uint32, error) {
	masterKey, err := u.currentMasterKey()
	if err != nil {
		return 0, err
	}

	key, err := u.repo.GetKey(ctx, name)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	nextVersion := key.LatestVersion + 1
	version, err := u.newVersion(masterKey, name, nextVersion, key.Type, now)
	if err != nil {
		return 0, err
	}

	key.LatestVersion = nextVersion
	key.UpdatedAt = now
	if err := u.repo.AddVersion(ctx, key, version); err != nil {
		return 0, err
	}
	return nextVersion, nil
}

func (u *transitUseCase) DeleteKey(ctx context.Context, name string) error {
	key, err := u.repo.GetKey(ctx, name)
	if err != nil {
		return err
	}
	if !key.DeletionAllowed {
		return fmt.Errorf("%w: %s", transitDomain.ErrDeletionNotAllowed, name)
	}
	return u.repo.DeleteKey(ctx, name)
}

func (u *transitUseCase) UpdateKeyConfig(ctx context.Context, name string, update KeyConfigUpdate) (*transitDomain.TransitKey, error) {
	key, err := u.repo.GetKey(ctx, name)
	if err != nil {
		return nil, err
	}

	minEnc := key.MinEncryptionVersion
	minDec := key.MinDecryptionVersion
	if update.MinEncryptionVersion != nil {
		minEnc = *update.MinEncryptionVersion
	}
	if update.MinDecryptionVersion != nil {
		minDec = *update.MinDecryptionVersion
	}
	if minEnc < 1 || minEnc > key.LatestVersion || minDec < 1 || minDec > key.LatestVersion {
		return nil, transitDomain.ErrInvalidConfig
	}

	key.MinEncryptionVersion = minEnc
	key.MinDecryptionVersion = minDec
	if update.DeletionAllowed != nil {
		key.DeletionAllowed = *update.DeletionAllowed
	}
	key.UpdatedAt = time.Now().UTC()

	if err := u.repo.UpdateKey(ctx, key); err != nil {
		return nil, err
	}
	return key, nil
}

func (u *transitUseCase) Encrypt(ctx context.Context, name string, plaintext []byte) (string, error) {
	key, err := u.repo.GetKey(ctx, name)
	if err != nil {
		return "", err
	}
	return u.encryptWithKey(ctx, key, plaintext, key.LatestVersion)
}

func (u *transitUseCase) EncryptWithVersion(ctx context.Context, name string, plaintext []byte, version uint32) (string, error) {
	key, err := u.repo.GetKey(ctx, name)
	if err != nil {
		return "", err
	}
	if version > key.LatestVersion {
		return "", fmt.Errorf("%w: %s v%d", transitDomain.ErrVersionNotFound, name, version)
	}
	if version < key.MinEncryptionVersion {
		return "", fmt.Errorf("%w: version %d", transitDomain.ErrVersionBelowMinEncryption, version)
	}
	return u.encryptWithKey(ctx, key, plaintext, version)
}

func (u *transitUseCase) encryptWithKey(ctx context.Context, key *transitDomain.TransitKey, plaintext []byte, version uint32) (string, error) {
	if !key.SupportsEncryption {
		return "", fmt.Errorf("%w: encryption disabled for %s", transitDomain.ErrOperationNotAllowed, key.Name)
	}
	if version < key.MinEncryptionVersion {
		return "", fmt.Errorf("%w: version %d", transitDomain.ErrVersionBelowMinEncryption, version)
	}

	masterKey, err := u.currentMasterKey()
	if err != nil {
		return "", err
	}

	rawKey, err := u.unwrapKeyMaterial(ctx, masterKey, key.Name, version, key.Type)
	if err != nil {
		return "", err
	}
	defer zero(rawKey)

	cipher, err := u.aeadManager.CreateCipher(rawKey, key.Type)
	if err != nil {
		return "", err
	}
	payload, err := cipher.Encrypt(plaintext, dataAAD(key.Name, version))
	if err != nil {
		return "", fmt.Errorf("failed to encrypt data: %w", err)
	}

	ct := transitDomain.Ciphertext{Version: version, Payload: payload}
	return ct.String(), nil
}

func (u *transitUseCase) Decrypt(ctx context.Context, name string, ciphertext string) ([]byte, error) {
	key, err := u.repo.GetKey(ctx, name)
	if err != nil {
		return nil, err
	}
	if !key.SupportsDecryption {
		return nil, fmt.Errorf("%w: decryption disabled for %s", transitDomain.ErrOperationNotAllowed, name)
	}

	ct, err := transitDomain.ParseCiphertext(ciphertext)
	if err != nil {
		return nil, err
	}
	if ct.Version < key.MinDecryptionVersion {
		return nil, fmt.Errorf("%w: version %d", transitDomain.ErrVersionBelowMinDecryption, ct.Version)
	}

	masterKey, err := u.currentMasterKey()
	if err != nil {
		return nil, err
	}

	rawKey, err := u.unwrapKeyMaterial(ctx, masterKey, key.Name, ct.Version, key.Type)
	if err != nil {
		return nil, err
	}
	defer zero(rawKey)

	cipher, err := u.aeadManager.CreateCipher(rawKey, key.Type)
	if err != nil {
		return nil, err
	}
	plaintext, err := cipher.Decrypt(ct.Payload, dataAAD(key.Name, ct.Version))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", transitDomain.ErrDecryptionFailed, err)
	}
	return plaintext, nil
}

func (u *transitUseCase) Rewrap(ctx context.Context, name string, ciphertext string) (string, error) {
	key, err := u.repo.GetKey(ctx, name)
	if err != nil {
		return "", err
	}

	ct, err := transitDomain.ParseCiphertext(ciphertext)
	if err != nil {
		return "", err
	}
	if ct.Version == key.LatestVersion {
		return ciphertext, nil
	}

	plaintext, err := u.Decrypt(ctx, name, ciphertext)
	if err != nil {
		return "", err
	}
	defer zero(plaintext)

	return u.encryptWithKey(ctx, key, plaintext, key.LatestVersion)
}

func (u *transitUseCase) GenerateDataKey(ctx context.Context, name string) (*transitDomain.DataKey, error) {
	plaintext, err := cryptoService.RandomBytes(cryptoDomain.KeySize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate data key: %w", err)
	}

	ciphertext, err := u.Encrypt(ctx, name, plaintext)
	if err != nil {
		zero(plaintext)
		return nil, err
	}

	return &transitDomain.DataKey{Plaintext: plaintext, Ciphertext: ciphertext}, nil
}

func (u *transitUseCase) DecryptDataKey(ctx context.Context, name string, ciphertext string) ([]byte, error) {
	return u.Decrypt(ctx, name, ciphertext)
}

// unwrapKeyMaterial fetches and decrypts one version's key material.
// Callers must zero the result after use.
func (u *transitUseCase) unwrapKeyMaterial(ctx context.Context, masterKey []byte, name string, version uint32, alg cryptoDomain.Algorithm) ([]byte, error) {
	v, err := u.repo.GetVersion(ctx, name, version)
	if err != nil {
		return nil, err
	}

	wrappingKey, err := deriveWrappingKey(masterKey, name, version)
	if err != nil {
		return nil, fmt.Errorf("failed to derive wrapping key: %w", err)
	}
	defer zero(wrappingKey)

	cipher, err := u.aeadManager.CreateCipher(wrappingKey, alg)
	if err != nil {
		return nil, err
	}
	raw, err := cipher.Decrypt(v.WrappedKey, wrapKeyAAD(name, version))
	if err != nil {
		return nil, fmt.Errorf("failed to unwrap key material: %w", err)
	}
	return raw, nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
