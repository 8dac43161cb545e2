package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nubster-opensources/egide/internal/metrics"
	secretsDomain "github.com/nubster-opensources/egide/internal/secrets/domain"
	"github.com/nubster-opensources/egide/internal/secrets/usecase"
)

// mockBusinessMetrics is a mock implementation of metrics.BusinessMetrics for testing.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

var _ metrics.BusinessMetrics = (*mockBusinessMetrics)(nil)

// stubUseCase is a minimal hand-written UseCase stub whose behavior is
// controlled per-test via the err field.
type stubUseCase struct {
	err    error
	secret *secretsDomain.Secret
}

func (s *stubUseCase) Put(ctx context.Context, path string, data map[string]string, opts secretsDomain.PutOptions) (*secretsDomain.Secret, error) {
	return s.secret, s.err
}
func (s *stubUseCase) Get(ctx context.Context, path string) (*secretsDomain.Secret, error) {
	return s.secret, s.err
}
func (s *stubUseCase) GetVersion(ctx context.Context, path string, version uint32) (*secretsDomain.Secret, error) {
	return s.secret, s.err
}
func (s *stubUseCase) Delete(ctx context.Context, path string) error { return s.err }
func (s *stubUseCase) Undelete(ctx context.Context, path string) error { return s.err }
func (s *stubUseCase) List(ctx context.Context, prefix string) ([]secretsDomain.Metadata, error) {
	return nil, s.err
}
func (s *stubUseCase) ListVersions(ctx context.Context, path string) ([]secretsDomain.VersionInfo, error) {
	return nil, s.err
}
func (s *stubUseCase) Rollback(ctx context.Context, path string, version uint32) (*secretsDomain.Secret, error) {
	return s.secret, s.err
}
func (s *stubUseCase) PurgeDeleted(ctx context.Context, olderThan time.Duration) (int, error) {
	return 0, s.err
}

var _ usecase.UseCase = (*stubUseCase)(nil)

func TestMetricsDecorator_Put_RecordsSuccess(t *testing.T) {
	ctx := context.Background()
	m := &mockBusinessMetrics{}
	m.On("RecordOperation", ctx, "secrets", "put", "success").Return()
	m.On("RecordDuration", ctx, "secrets", "put", mock.Anything, "success").Return()

	secret := &secretsDomain.Secret{Path: "app/api-key", Version: 1}
	decorated := usecase.NewUseCaseWithMetrics(&stubUseCase{secret: secret}, m)

	got, err := decorated.Put(ctx, "app/api-key", map[string]string{"value": "v"}, secretsDomain.PutOptions{})
	require.NoError(t, err)
	assert.Equal(t, secret, got)
	m.AssertExpectations(t)
}

func TestMetricsDecorator_Put_RecordsError(t *testing.T) {
	ctx := context.Background()
	m := &mockBusinessMetrics{}
	m.On("RecordOperation", ctx, "secrets", "put", "error").Return()
	m.On("RecordDuration", ctx, "secrets", "put", mock.Anything, "error").Return()

	decorated := usecase.NewUseCaseWithMetrics(&stubUseCase{err: secretsDomain.ErrInvalidPath}, m)

	_, err := decorated.Put(ctx, "bad", map[string]string{"value": "v"}, secretsDomain.PutOptions{})
	assert.ErrorIs(t, err, secretsDomain.ErrInvalidPath)
	m.AssertExpectations(t)
}

func TestMetricsDecorator_Get_RecordsOutcome(t *testing.T) {
	ctx := context.Background()
	m := &mockBusinessMetrics{}
	m.On("RecordOperation", ctx, "secrets", "get", "error").Return()
	m.On("RecordDuration", ctx, "secrets", "get", mock.Anything, "error").Return()

	decorated := usecase.NewUseCaseWithMetrics(&stubUseCase{err: secretsDomain.ErrSecretNotFound}, m)

	_, err := decorated.Get(ctx, "app/api-key")
	assert.ErrorIs(t, err, secretsDomain.ErrSecretNotFound)
	m.AssertExpectations(t)
}

func TestMetricsDecorator_Delete_RecordsOutcome(t *testing.T) {
	ctx := context.Background()
	m := &mockBusinessMetrics{}
	m.On("RecordOperation", ctx, "secrets", "delete", "success").Return()
	m.On("RecordDuration", ctx, "secrets", "delete", mock.Anything, "success").Return()

	decorated := usecase.NewUseCaseWithMetrics(&stubUseCase{}, m)

	err := decorated.Delete(ctx, "app/api-key")
	require.NoError(t, err)
	m.AssertExpectations(t)
}

func TestMetricsDecorator_Rollback_RecordsOutcome(t *testing.T) {
	ctx := context.Background()
	m := &mockBusinessMetrics{}
	m.On("RecordOperation", ctx, "secrets", "rollback", "success").Return()
	m.On("RecordDuration", ctx, "secrets", "rollback", mock.Anything, "success").Return()

	secret := &secretsDomain.Secret{Path: "app/api-key", Version: 3}
	decorated := usecase.NewUseCaseWithMetrics(&stubUseCase{secret: secret}, m)

	got, err := decorated.Rollback(ctx, "app/api-key", 1)
	require.NoError(t, err)
	assert.Equal(t, secret, got)
	m.AssertExpectations(t)
}

func TestMetricsDecorator_List_DoesNotRecordMetrics(t *testing.T) {
	ctx := context.Background()
	m := &mockBusinessMetrics{}

	decorated := usecase.NewUseCaseWithMetrics(&stubUseCase{}, m)

	_, err := decorated.List(ctx, "app/")
	require.NoError(t, err)
	m.AssertNotCalled(t, "RecordOperation")
}

func TestMetricsDecorator_PurgeDeleted_RecordsOutcome(t *testing.T) {
	ctx := context.Background()
	m := &mockBusinessMetrics{}
	m.On("RecordOperation", ctx, "secrets", "purge_deleted", "success").Return()
	m.On("RecordDuration", ctx, "secrets", "purge_deleted", mock.Anything, "success").Return()

	decorated := usecase.NewUseCaseWithMetrics(&stubUseCase{}, m)

	n, err := decorated.PurgeDeleted(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	m.AssertExpectations(t)
}
