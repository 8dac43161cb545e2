package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sealDomain "github.com/nubster-opensources/egide/internal/seal/domain"
	storageSqlite "github.com/nubster-opensources/egide/internal/storage/sqlite"
)

func newTestUseCase(t *testing.T) UseCase {
	t.Helper()
	ctx := context.Background()
	backend, err := storageSqlite.Open(ctx, t.TempDir(), "system")
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	uc, err := New(ctx, backend)
	require.NoError(t, err)
	return uc
}

func TestInitialStatusUninitialized(t *testing.T) {
	uc := newTestUseCase(t)
	assert.Equal(t, sealDomain.StatusUninitialized, uc.Status())
}

func TestInitialize(t *testing.T) {
	uc := newTestUseCase(t)
	ctx := context.Background()

	result, err := uc.Initialize(ctx, sealDomain.ShamirConfig{Shares: 5, Threshold: 3})
	require.NoError(t, err)

	assert.Len(t, result.Shares, 5)
	assert.NotEmpty(t, result.RootToken)
	assert.Equal(t, sealDomain.StatusSealed, uc.Status())
}

func TestInitializeTwiceFails(t *testing.T) {
	uc := newTestUseCase(t)
	ctx := context.Background()
	config := sealDomain.ShamirConfig{Shares: 3, Threshold: 2}

	_, err := uc.Initialize(ctx, config)
	require.NoError(t, err)

	_, err = uc.Initialize(ctx, config)
	assert.ErrorIs(t, err, sealDomain.ErrAlreadyInitialized)
}

func TestInitializeRejectsInvalidConfig(t *testing.T) {
	uc := newTestUseCase(t)
	ctx := context.Background()

	_, err := uc.Initialize(ctx, sealDomain.ShamirConfig{Shares: 3, Threshold: 0})
	assert.ErrorIs(t, err, sealDomain.ErrInvalidConfig)
}

func TestUnsealWithThresholdShares(t *testing.T) {
	uc := newTestUseCase(t)
	ctx := context.Background()

	result, err := uc.Initialize(ctx, sealDomain.ShamirConfig{Shares: 5, Threshold: 3})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		progress, err := uc.Unseal(ctx, result.Shares[i])
		require.NoError(t, err)
		assert.True(t, progress.Sealed)
		assert.Equal(t, i+1, progress.Progress)
	}

	progress, err := uc.Unseal(ctx, result.Shares[2])
	require.NoError(t, err)
	assert.False(t, progress.Sealed)

	assert.Equal(t, sealDomain.StatusUnsealed, uc.Status())
	_, ok := uc.MasterKey()
	assert.True(t, ok)
}

func TestUnsealDuplicateShareFails(t *testing.T) {
	uc := newTestUseCase(t)
	ctx := context.Background()

	result, err := uc.Initialize(ctx, sealDomain.ShamirConfig{Shares: 3, Threshold: 2})
	require.NoError(t, err)

	_, err = uc.Unseal(ctx, result.Shares[0])
	require.NoError(t, err)

	_, err = uc.Unseal(ctx, result.Shares[0])
	assert.ErrorIs(t, err, sealDomain.ErrDuplicateShare)
}

func TestUnsealBeforeInitializeFails(t *testing.T) {
	uc := newTestUseCase(t)
	_, err := uc.Unseal(context.Background(), sealDomain.Share{Index: 1, Data: []byte("x")})
	assert.ErrorIs(t, err, sealDomain.ErrNotInitialized)
}

func TestUnsealAfterUnsealedFails(t *testing.T) {
	uc := newTestUseCase(t)
	ctx := context.Background()

	result, err := uc.Initialize(ctx, sealDomain.ShamirConfig{Shares: 3, Threshold: 2})
	require.NoError(t, err)

	_, err = uc.Unseal(ctx, result.Shares[0])
	require.NoError(t, err)
	_, err = uc.Unseal(ctx, result.Shares[1])
	require.NoError(t, err)

	_, err = uc.Unseal(ctx, result.Shares[2])
	assert.ErrorIs(t, err, sealDomain.ErrAlreadyUnsealed)
}

func TestSealClearsMasterKey(t *testing.T) {
	uc := newTestUseCase(t)
	ctx := context.Background()

	result, err := uc.Initialize(ctx, sealDomain.ShamirConfig{Shares: 3, Threshold: 2})
	require.NoError(t, err)

	_, err = uc.Unseal(ctx, result.Shares[0])
	require.NoError(t, err)
	_, err = uc.Unseal(ctx, result.Shares[1])
	require.NoError(t, err)

	_, ok := uc.MasterKey()
	require.True(t, ok)

	require.NoError(t, uc.Seal(ctx))

	_, ok = uc.MasterKey()
	assert.False(t, ok)
	assert.Equal(t, sealDomain.StatusSealed, uc.Status())
}

func TestDevMode(t *testing.T) {
	uc := newTestUseCase(t)
	ctx := context.Background()

	result, err := uc.EnableDevMode(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, result.RootToken)

	assert.Equal(t, sealDomain.StatusUnsealed, uc.Status())
	assert.True(t, uc.IsDevMode())
	_, ok := uc.MasterKey()
	assert.True(t, ok)
}

func TestDevModeCannotBeSealed(t *testing.T) {
	uc := newTestUseCase(t)
	ctx := context.Background()

	_, err := uc.EnableDevMode(ctx)
	require.NoError(t, err)

	err = uc.Seal(ctx)
	assert.ErrorIs(t, err, sealDomain.ErrCannotSealInDevMode)
}

func TestDevModeAutoUnsealOnRestart(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	backend1, err := storageSqlite.Open(ctx, dir, "system")
	require.NoError(t, err)

	uc1, err := New(ctx, backend1)
	require.NoError(t, err)
	_, err = uc1.EnableDevMode(ctx)
	require.NoError(t, err)
	require.NoError(t, backend1.Close())

	backend2, err := storageSqlite.Open(ctx, dir, "system")
	require.NoError(t, err)
	defer backend2.Close()

	uc2, err := New(ctx, backend2)
	require.NoError(t, err)
	assert.Equal(t, sealDomain.StatusUnsealed, uc2.Status())
	assert.True(t, uc2.IsDevMode())
}

func TestVerifyRootToken(t *testing.T) {
	uc := newTestUseCase(t)
	ctx := context.Background()

	result, err := uc.Initialize(ctx, sealDomain.ShamirConfig{Shares: 3, Threshold: 2})
	require.NoError(t, err)

	ok, err := uc.VerifyRootToken(ctx, result.RootToken)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = uc.VerifyRootToken(ctx, "wrong-token")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPersistenceAfterInit(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	backend1, err := storageSqlite.Open(ctx, dir, "system")
	require.NoError(t, err)

	uc1, err := New(ctx, backend1)
	require.NoError(t, err)
	result, err := uc1.Initialize(ctx, sealDomain.ShamirConfig{Shares: 3, Threshold: 2})
	require.NoError(t, err)
	require.NoError(t, backend1.Close())

	backend2, err := storageSqlite.Open(ctx, dir, "system")
	require.NoError(t, err)
	defer backend2.Close()

	uc2, err := New(ctx, backend2)
	require.NoError(t, err)
	assert.Equal(t, sealDomain.StatusSealed, uc2.Status())

	_, err = uc2.Unseal(ctx, result.Shares[0])
	require.NoError(t, err)
	_, err = uc2.Unseal(ctx, result.Shares[1])
	require.NoError(t, err)
	assert.Equal(t, sealDomain.StatusUnsealed, uc2.Status())

	ok, err := uc2.VerifyRootToken(ctx, result.RootToken)
	require.NoError(t, err)
	assert.True(t, ok)
}
