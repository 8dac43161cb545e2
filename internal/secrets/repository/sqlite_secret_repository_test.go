package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	secretsDomain "github.com/nubster-opensources/egide/internal/secrets/domain"
	"github.com/nubster-opensources/egide/internal/secrets/repository"
	storageSqlite "github.com/nubster-opensources/egide/internal/storage/sqlite"
)

func setup(t *testing.T) *repository.SQLiteSecretRepository {
	t.Helper()
	ctx := context.Background()

	backend, err := storageSqlite.Open(ctx, t.TempDir(), "secrets")
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	repo, err := repository.NewSQLiteSecretRepository(ctx, backend.DB())
	require.NoError(t, err)
	return repo
}

func testVersion(version uint32, data string) *secretsDomain.VersionRow {
	return &secretsDomain.VersionRow{
		Version:   version,
		Data:      []byte(data),
		CreatedAt: time.Now().UTC(),
	}
}

func TestSQLiteSecretRepository_CreateAndGet(t *testing.T) {
	repo := setup(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.CreateSecretAndVersion(ctx, "app/api-key", now, testVersion(1, "blob-v1")))

	row, err := repo.GetSecretRow(ctx, "app/api-key")
	require.NoError(t, err)
	assert.Equal(t, uint32(1), row.Version)
	assert.Nil(t, row.DeletedAt)

	v, err := repo.GetVersion(ctx, "app/api-key", 1)
	require.NoError(t, err)
	assert.Equal(t, []byte("blob-v1"), v.Data)
}

func TestSQLiteSecretRepository_GetSecretRow_NotFound(t *testing.T) {
	repo := setup(t)
	_, err := repo.GetSecretRow(context.Background(), "missing")
	assert.ErrorIs(t, err, secretsDomain.ErrSecretNotFound)
}

func TestSQLiteSecretRepository_AddVersion(t *testing.T) {
	repo := setup(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.CreateSecretAndVersion(ctx, "app/api-key", now, testVersion(1, "v1")))
	require.NoError(t, repo.AddVersion(ctx, "app/api-key", now, testVersion(2, "v2")))

	row, err := repo.GetSecretRow(ctx, "app/api-key")
	require.NoError(t, err)
	assert.Equal(t, uint32(2), row.Version)

	versions, err := repo.ListVersions(ctx, "app/api-key")
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, uint32(2), versions[0].Version)
	assert.Equal(t, uint32(1), versions[1].Version)
}

func TestSQLiteSecretRepository_AddVersion_NotFound(t *testing.T) {
	repo := setup(t)
	err := repo.AddVersion(context.Background(), "missing", time.Now().UTC(), testVersion(2, "v2"))
	assert.ErrorIs(t, err, secretsDomain.ErrSecretNotFound)
}

func TestSQLiteSecretRepository_ListVersions_PathNotFound(t *testing.T) {
	repo := setup(t)
	_, err := repo.ListVersions(context.Background(), "missing")
	assert.ErrorIs(t, err, secretsDomain.ErrSecretNotFound)
}

func TestSQLiteSecretRepository_GetVersion_NotFound(t *testing.T) {
	repo := setup(t)
	ctx := context.Background()
	now := time.Now().UTC()
	require.NoError(t, repo.CreateSecretAndVersion(ctx, "app/api-key", now, testVersion(1, "v1")))

	_, err := repo.GetVersion(ctx, "app/api-key", 99)
	assert.ErrorIs(t, err, secretsDomain.ErrVersionNotFound)
}

func TestSQLiteSecretRepository_SoftDeleteAndUndelete(t *testing.T) {
	repo := setup(t)
	ctx := context.Background()
	now := time.Now().UTC()
	require.NoError(t, repo.CreateSecretAndVersion(ctx, "app/api-key", now, testVersion(1, "v1")))

	require.NoError(t, repo.SoftDelete(ctx, "app/api-key", now))
	row, err := repo.GetSecretRow(ctx, "app/api-key")
	require.NoError(t, err)
	require.NotNil(t, row.DeletedAt)

	require.NoError(t, repo.Undelete(ctx, "app/api-key", now))
	row, err = repo.GetSecretRow(ctx, "app/api-key")
	require.NoError(t, err)
	assert.Nil(t, row.DeletedAt)
}

func TestSQLiteSecretRepository_SoftDelete_NotFound(t *testing.T) {
	repo := setup(t)
	err := repo.SoftDelete(context.Background(), "missing", time.Now().UTC())
	assert.ErrorIs(t, err, secretsDomain.ErrSecretNotFound)
}

func TestSQLiteSecretRepository_ListSecrets_PrefixMatch(t *testing.T) {
	repo := setup(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.CreateSecretAndVersion(ctx, "app/a", now, testVersion(1, "a")))
	require.NoError(t, repo.CreateSecretAndVersion(ctx, "app/b", now, testVersion(1, "b")))
	require.NoError(t, repo.CreateSecretAndVersion(ctx, "other/c", now, testVersion(1, "c")))

	list, err := repo.ListSecrets(ctx, "app/")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "app/a", list[0].Path)
	assert.Equal(t, "app/b", list[1].Path)
}

func TestSQLiteSecretRepository_ListSecrets_EscapesLikeMetacharacters(t *testing.T) {
	repo := setup(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.CreateSecretAndVersion(ctx, "app_x/a", now, testVersion(1, "a")))
	require.NoError(t, repo.CreateSecretAndVersion(ctx, "appyx/b", now, testVersion(1, "b")))

	list, err := repo.ListSecrets(ctx, "app_x/")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "app_x/a", list[0].Path)
}

func TestSQLiteSecretRepository_ListExpiredDeletedPaths(t *testing.T) {
	repo := setup(t)
	ctx := context.Background()
	past := time.Now().UTC().Add(-2 * time.Hour)
	recent := time.Now().UTC()

	require.NoError(t, repo.CreateSecretAndVersion(ctx, "app/old", past, testVersion(1, "v1")))
	require.NoError(t, repo.SoftDelete(ctx, "app/old", past))

	require.NoError(t, repo.CreateSecretAndVersion(ctx, "app/new", recent, testVersion(1, "v1")))
	require.NoError(t, repo.SoftDelete(ctx, "app/new", recent))

	cutoff := time.Now().UTC().Add(-time.Hour)
	paths, err := repo.ListExpiredDeletedPaths(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, []string{"app/old"}, paths)
}

func TestSQLiteSecretRepository_Purge(t *testing.T) {
	repo := setup(t)
	ctx := context.Background()
	now := time.Now().UTC()
	require.NoError(t, repo.CreateSecretAndVersion(ctx, "app/api-key", now, testVersion(1, "v1")))

	require.NoError(t, repo.Purge(ctx, "app/api-key"))

	_, err := repo.GetSecretRow(ctx, "app/api-key")
	assert.ErrorIs(t, err, secretsDomain.ErrSecretNotFound)
}
