package usecase

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/vault/shamir"

	cryptoService "github.com/nubster-opensources/egide/internal/crypto/service"
	sealDomain "github.com/nubster-opensources/egide/internal/seal/domain"
	storageDomain "github.com/nubster-opensources/egide/internal/storage/domain"
)

// storage keys in the system tenant.
const (
	keyRootTokenHash  = "root_token_hash"
	keyShamirShares   = "shamir_total"
	keyShamirThresh   = "shamir_threshold"
	keyVerifyTag      = "master_key_hmac"
	keyInitializedAt  = "initialized_at"
	keyDevModeMasterK = "dev_mode_master_key"
)

// sealUseCase is the default UseCase: a Shamir-gated master key held in
// process memory and re-derived from shares on unseal. Outside dev mode the
// key is never persisted; in dev mode it is stored in plaintext under
// dev_mode_master_key and loaded back on startup.
type sealUseCase struct {
	storage storageDomain.Backend
	hasher  *cryptoService.RootTokenHasher

	mu             sync.Mutex
	status         sealDomain.Status
	devMode        bool
	threshold      int
	masterKey      []byte
	pendingShares  [][]byte
	pendingIndices map[int]struct{}
}

var _ UseCase = (*sealUseCase)(nil)

// New creates a seal UseCase backed by storage (expected to be the
// system-tenant backend) and loads any previously persisted status,
// auto-unsealing if a dev-mode master key is present.
func New(ctx context.Context, storage storageDomain.Backend) (UseCase, error) {
	hasher, err := cryptoService.NewRootTokenHasher()
	if err != nil {
		return nil, fmt.Errorf("failed to build root token hasher: %w", err)
	}

	u := &sealUseCase{
		storage:        storage,
		hasher:         hasher,
		status:         sealDomain.StatusUninitialized,
		pendingIndices: make(map[int]struct{}),
	}

	if err := u.loadStatus(ctx); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *sealUseCase) loadStatus(ctx context.Context) error {
	_, initialized, err := u.storage.Get(ctx, keyInitializedAt)
	if err != nil {
		return fmt.Errorf("failed to load seal status: %w", err)
	}
	if !initialized {
		return nil
	}
	u.status = sealDomain.StatusSealed

	if thresholdBytes, ok, err := u.storage.Get(ctx, keyShamirThresh); err != nil {
		return err
	} else if ok {
		u.threshold = int(thresholdBytes[0])
	}

	devKey, devMode, err := u.storage.Get(ctx, keyDevModeMasterK)
	if err != nil {
		return fmt.Errorf("failed to load dev mode key: %w", err)
	}
	if devMode {
		u.masterKey = devKey
		u.status = sealDomain.StatusUnsealed
		u.devMode = true
	}
	return nil
}

func (u *sealUseCase) Status() sealDomain.Status {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.status
}

func (u *sealUseCase) IsDevMode() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.devMode
}

func (u *sealUseCase) Initialize(ctx context.Context, config sealDomain.ShamirConfig) (*sealDomain.InitResult, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.status != sealDomain.StatusUninitialized {
		return nil, sealDomain.ErrAlreadyInitialized
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	masterKey, err := cryptoService.RandomBytes(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate master key: %w", err)
	}

	rawShares, err := shamir.Split(masterKey, config.Shares, config.Threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to split master key: %w", err)
	}

	shares := make([]sealDomain.Share, len(rawShares))
	for i, data := range rawShares {
		shares[i] = sealDomain.Share{Index: int(data[len(data)-1]), Data: data}
	}

	rootTokenBytes, err := cryptoService.RandomBytes(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate root token: %w", err)
	}
	rootToken := hex.EncodeToString(rootTokenBytes)
	rootTokenHash, err := u.hasher.Hash(rootToken)
	if err != nil {
		return nil, fmt.Errorf("failed to hash root token: %w", err)
	}

	verifyTag, err := cryptoService.SealVerificationTag(masterKey)
	if err != nil {
		return nil, fmt.Errorf("failed to derive seal verification tag: %w", err)
	}

	if err := u.persistInit(ctx, rootTokenHash, verifyTag, config); err != nil {
		return nil, err
	}

	u.status = sealDomain.StatusSealed
	u.threshold = config.Threshold

	return &sealDomain.InitResult{RootToken: rootToken, Shares: shares}, nil
}

func (u *sealUseCase) persistInit(ctx context.Context, rootTokenHash string, verifyTag []byte, config sealDomain.ShamirConfig) error {
	if err := u.storage.Put(ctx, keyRootTokenHash, []byte(rootTokenHash)); err != nil {
		return fmt.Errorf("failed to persist root token hash: %w", err)
	}
	if err := u.storage.Put(ctx, keyShamirThresh, []byte{byte(config.Threshold)}); err != nil {
		return fmt.Errorf("failed to persist shamir threshold: %w", err)
	}
	if err := u.storage.Put(ctx, keyShamirShares, []byte{byte(config.Shares)}); err != nil {
		return fmt.Errorf("failed to persist shamir share count: %w", err)
	}
	if err := u.storage.Put(ctx, keyVerifyTag, verifyTag); err != nil {
		return fmt.Errorf("failed to persist seal verification tag: %w", err)
	}
	now := make([]byte, 8)
	binary.LittleEndian.PutUint64(now, uint64(time.Now().Unix()))
	if err := u.storage.Put(ctx, keyInitializedAt, now); err != nil {
		return fmt.Errorf("failed to persist initialization timestamp: %w", err)
	}
	return nil
}

func (u *sealUseCase) Unseal(ctx context.Context, share sealDomain.Share) (*sealDomain.UnsealProgress, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	switch u.status {
	case sealDomain.StatusUninitialized:
		return nil, sealDomain.ErrNotInitialized
	case sealDomain.StatusUnsealed:
		return nil, sealDomain.ErrAlreadyUnsealed
	}

	if len(share.Data) == 0 {
		return nil, sealDomain.ErrInvalidShare
	}
	if _, dup := u.pendingIndices[share.Index]; dup {
		return nil, fmt.Errorf("%w: index %d", sealDomain.ErrDuplicateShare, share.Index)
	}

	u.pendingShares = append(u.pendingShares, share.Data)
	u.pendingIndices[share.Index] = struct{}{}

	if len(u.pendingShares) >= u.threshold {
		if err := u.reconstructMasterKey(ctx); err != nil {
			u.pendingShares = nil
			u.pendingIndices = make(map[int]struct{})
			return nil, err
		}
	}

	return &sealDomain.UnsealProgress{
		Sealed:    u.status == sealDomain.StatusSealed,
		Threshold: u.threshold,
		Progress:  len(u.pendingShares),
	}, nil
}

// reconstructMasterKey must be called with u.mu held.
func (u *sealUseCase) reconstructMasterKey(ctx context.Context) error {
	secret, err := shamir.Combine(u.pendingShares)
	if err != nil {
		return fmt.Errorf("%w: %v", sealDomain.ErrReconstructionFailed, err)
	}

	tag, ok, err := u.storage.Get(ctx, keyVerifyTag)
	if err != nil {
		return fmt.Errorf("failed to load seal verification tag: %w", err)
	}
	if !ok {
		return sealDomain.ErrNotInitialized
	}

	valid, err := cryptoService.VerifySealTag(secret, tag)
	if err != nil {
		return fmt.Errorf("failed to verify reconstructed master key: %w", err)
	}
	if !valid {
		return sealDomain.ErrReconstructionFailed
	}

	u.pendingShares = nil
	u.pendingIndices = make(map[int]struct{})
	u.masterKey = secret
	u.status = sealDomain.StatusUnsealed
	return nil
}

func (u *sealUseCase) Seal(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.devMode {
		return sealDomain.ErrCannotSealInDevMode
	}

	for i := range u.masterKey {
		u.masterKey[i] = 0
	}
	u.masterKey = nil
	u.pendingShares = nil
	u.pendingIndices = make(map[int]struct{})
	u.status = sealDomain.StatusSealed
	return nil
}

func (u *sealUseCase) EnableDevMode(ctx context.Context) (*sealDomain.InitResult, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.status != sealDomain.StatusUninitialized {
		return nil, sealDomain.ErrAlreadyInitialized
	}

	masterKey, err := cryptoService.RandomBytes(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate master key: %w", err)
	}

	rootTokenBytes, err := cryptoService.RandomBytes(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate root token: %w", err)
	}
	rootToken := hex.EncodeToString(rootTokenBytes)
	rootTokenHash, err := u.hasher.Hash(rootToken)
	if err != nil {
		return nil, fmt.Errorf("failed to hash root token: %w", err)
	}

	config := sealDomain.ShamirConfig{Shares: 1, Threshold: 1}
	verifyTag, err := cryptoService.SealVerificationTag(masterKey)
	if err != nil {
		return nil, fmt.Errorf("failed to derive seal verification tag: %w", err)
	}
	if err := u.persistInit(ctx, rootTokenHash, verifyTag, config); err != nil {
		return nil, err
	}
	if err := u.storage.Put(ctx, keyDevModeMasterK, masterKey); err != nil {
		return nil, fmt.Errorf("failed to persist dev mode master key: %w", err)
	}

	u.masterKey = masterKey
	u.status = sealDomain.StatusUnsealed
	u.devMode = true
	u.threshold = 1

	return &sealDomain.InitResult{
		RootToken: rootToken,
		Shares:    []sealDomain.Share{{Index: 1, Data: append([]byte(nil), masterKey...)}},
	}, nil
}

func (u *sealUseCase) MasterKey() ([]byte, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.status != sealDomain.StatusUnsealed {
		return nil, false
	}
	return u.masterKey, true
}

func (u *sealUseCase) VerifyRootToken(ctx context.Context, token string) (bool, error) {
	storedHash, ok, err := u.storage.Get(ctx, keyRootTokenHash)
	if err != nil {
		return false, fmt.Errorf("failed to load root token hash: %w", err)
	}
	if !ok {
		return false, sealDomain.ErrNotInitialized
	}
	return u.hasher.Verify(token, string(storedHash)), nil
}
