package usecase

import (
	"context"
	"time"

	cryptoDomain "github.com/nubster-opensources/egide/internal/crypto/domain"
	"github.com/nubster-opensources/egide/internal/metrics"
	transitDomain "github.com/nubster-opensources/egide/internal/transit/domain"
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
	d.metrics.RecordOperation(ctx, "transit", op, status)
	d.metrics.RecordDuration(ctx, "transit", op, time.Since(start), status)
}

func (d *useCaseWithMetrics) CreateKey(ctx context.Context, name string, alg cryptoDomain.Algorithm) (*transitDomain.TransitKey, error) {
	start := time.Now()
	key, err := d.next.CreateKey(ctx, name, alg)
	d.record(ctx, "create_key", start, err)
	return key, err
}

func (d *useCaseWithMetrics) GetKey(ctx context.Context, name string) (*transitDomain.TransitKey, error) {
	return d.next.GetKey(ctx, name)
}

func (d *useCaseWithMetrics) ListKeys(ctx context.Context) ([]string, error) {
	return d.next.ListKeys(ctx)
}

func (d *useCaseWithMetrics) ListVersions(ctx context.Context, name string) ([]*transitDomain.TransitKeyVersion, error) {
	return d.next.ListVersions(ctx, name)
}

func (d *useCaseWithMetrics) RotateKey(ctx context.Context, name string) (uint32, error) {
	start := time.Now()
	version, err := d.next.RotateKey(ctx, name)
	d.record(ctx, "rotate_key", start, err)
	return version, err
}

func (d *useCaseWithMetrics) DeleteKey(ctx context.Context, name string) error {
	start := time.Now()
	err := d.next.DeleteKey(ctx, name)
	d.record(ctx, "delete_key", start, err)
	return err
}

func (d *useCaseWithMetrics) UpdateKeyConfig(ctx context.Context, name string, update KeyConfigUpdate) (*transitDomain.TransitKey, error) {
	start := time.Now()
	key, err := d.next.UpdateKeyConfig(ctx, name, update)
	d.record(ctx, "update_key_config", start, err)
	return key, err
}

func (d *useCaseWithMetrics) Encrypt(ctx context.Context, name string, plaintext []byte) (string, error) {
	start := time.Now()
	ct, err := d.next.Encrypt(ctx, name, plaintext)
	d.record(ctx, "encrypt", start, err)
	return ct, err
}

func (d *useCaseWithMetrics) EncryptWithVersion(ctx context.Context, name string, plaintext []byte, version uint32) (string, error) {
	start := time.Now()
	ct, err := d.next.EncryptWithVersion(ctx, name, plaintext, version)
	d.record(ctx, "encrypt", start, err)
	return ct, err
}

func (d *useCaseWithMetrics) Decrypt(ctx context.Context, name string, ciphertext string) ([]byte, error) {
	start := time.Now()
	pt, err := d.next.Decrypt(ctx, name, ciphertext)
	d.record(ctx, "decrypt", start, err)
	return pt, err
}

func (d *useCaseWithMetrics) Rewrap(ctx context.Context, name string, ciphertext string) (string, error) {
	start := time.Now()
	ct, err := d.next.Rewrap(ctx, name, ciphertext)
	d.record(ctx, "rewrap", start, err)
	return ct, err
}

func (d *useCaseWithMetrics) GenerateDataKey(ctx context.Context, name string) (*transitDomain.DataKey, error) {
	start := time.Now()
	dk, err := d.next.GenerateDataKey(ctx, name)
	d.record(ctx, "generate_datakey", start, err)
	return dk, err
}

func (d *useCaseWithMetrics) DecryptDataKey(ctx context.Context, name string, ciphertext string) ([]byte, error) {
	return d.next.DecryptDataKey(ctx, name, ciphertext)
}

var _ UseCase = (*useCaseWithMetrics)(nil)
