package usecase

import (
	"context"
	"time"

	"github.com/nubster-opensources/egide/internal/metrics"
	secretsDomain "github.com/nubster-opensources/egide/internal/secrets/domain"
)

// useCaseWithMetrics decorates UseCase with business-metrics instrumentation.
type useCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewUseCaseWithMetrics wraps next with metrics recording.
func NewUseCaseWithMetrics(next UseCase, m metrics.BusinessMetrics) UseCase {
	return &useCaseWithMetrics{next: next, metrics: m}
}

func (d *useCaseWithMetrics) record(ctx context.Context, op string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	d.metrics.RecordOperation(ctx, "secrets", op, status)
	d.metrics.RecordDuration(ctx, "secrets", op, time.Since(start), status)
}

func (d *useCaseWithMetrics) Put(ctx context.Context, path string, data map[string]string, opts secretsDomain.PutOptions) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := d.next.Put(ctx, path, data, opts)
	d.record(ctx, "put", start, err)
	return secret, err
}

func (d *useCaseWithMetrics) Get(ctx context.Context, path string) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := d.next.Get(ctx, path)
	d.record(ctx, "get", start, err)
	return secret, err
}

func (d *useCaseWithMetrics) GetVersion(ctx context.Context, path string, version uint32) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := d.next.GetVersion(ctx, path, version)
	d.record(ctx, "get_version", start, err)
	return secret, err
}

func (d *useCaseWithMetrics) Delete(ctx context.Context, path string) error {
	start := time.Now()
	err := d.next.Delete(ctx, path)
	d.record(ctx, "delete", start, err)
	return err
}

func (d *useCaseWithMetrics) Undelete(ctx context.Context, path string) error {
	start := time.Now()
	err := d.next.Undelete(ctx, path)
	d.record(ctx, "undelete", start, err)
	return err
}

func (d *useCaseWithMetrics) List(ctx context.Context, prefix string) ([]secretsDomain.Metadata, error) {
	return d.next.List(ctx, prefix)
}

func (d *useCaseWithMetrics) ListVersions(ctx context.Context, path string) ([]secretsDomain.VersionInfo, error) {
	return d.next.ListVersions(ctx, path)
}

func (d *useCaseWithMetrics) Rollback(ctx context.Context, path string, version uint32) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := d.next.Rollback(ctx, path, version)
	d.record(ctx, "rollback", start, err)
	return secret, err
}

func (d *useCaseWithMetrics) PurgeDeleted(ctx context.Context, olderThan time.Duration) (int, error) {
	start := time.Now()
	n, err := d.next.PurgeDeleted(ctx, olderThan)
	d.record(ctx, "purge_deleted", start, err)
	return n, err
}

var _ UseCase = (*useCaseWithMetrics)(nil)
