package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/nubster-opensources/egide/internal/auth/domain"
	"github.com/nubster-opensources/egide/internal/auth/service"
	sealDomain "github.com/nubster-opensources/egide/internal/seal/domain"
	sealUsecase "github.com/nubster-opensources/egide/internal/seal/usecase"
	storageSqlite "github.com/nubster-opensources/egide/internal/storage/sqlite"
)

func newSealedBackendFixture(t *testing.T) (sealUsecase.UseCase, string) {
	t.Helper()
	ctx := context.Background()
	backend, err := storageSqlite.Open(ctx, t.TempDir(), "system")
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	uc, err := sealUsecase.New(ctx, backend)
	require.NoError(t, err)

	result, err := uc.Initialize(ctx, sealDomain.ShamirConfig{Shares: 3, Threshold: 2})
	require.NoError(t, err)
	return uc, result.RootToken
}

func TestRootTokenBackend_ValidatesCorrectToken(t *testing.T) {
	uc, rootToken := newSealedBackendFixture(t)
	backend := service.NewRootTokenBackend(uc)

	authCtx, err := backend.Validate(context.Background(), rootToken)
	require.NoError(t, err)
	assert.Equal(t, "root", authCtx.AccountID)
	assert.Equal(t, authDomain.MethodRoot, authCtx.Method)
}

func TestRootTokenBackend_RejectsWrongToken(t *testing.T) {
	uc, _ := newSealedBackendFixture(t)
	backend := service.NewRootTokenBackend(uc)

	_, err := backend.Validate(context.Background(), "not-the-root-token")
	assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
}

func TestRootTokenBackend_RejectsEmptyToken(t *testing.T) {
	uc, _ := newSealedBackendFixture(t)
	backend := service.NewRootTokenBackend(uc)

	_, err := backend.Validate(context.Background(), "")
	assert.ErrorIs(t, err, authDomain.ErrMissingToken)
}

func TestRootTokenBackend_UninitializedVaultReturnsTokenNotFound(t *testing.T) {
	ctx := context.Background()
	backend, err := storageSqlite.Open(ctx, t.TempDir(), "system")
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	uc, err := sealUsecase.New(ctx, backend)
	require.NoError(t, err)

	b := service.NewRootTokenBackend(uc)
	_, err = b.Validate(ctx, "anything")
	assert.ErrorIs(t, err, authDomain.ErrTokenNotFound)
}
