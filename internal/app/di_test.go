package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nubster-opensources/egide/internal/config"
)

func newTestContainer(t *testing.T) *Container {
	t.Helper()
	cfg := &config.Config{
		ServerHost:       "127.0.0.1",
		ServerPort:       0,
		DataDir:          t.TempDir(),
		DevMode:          true,
		LogLevel:         "error",
		MetricsEnabled:   false,
		MetricsNamespace: "egide_test",
		MetricsPort:      0,
	}
	return NewContainer(context.Background(), cfg)
}

func TestContainer_Logger(t *testing.T) {
	c := newTestContainer(t)

	logger1 := c.Logger()
	logger2 := c.Logger()

	assert.NotNil(t, logger1)
	assert.Same(t, logger1, logger2, "Logger should return the same instance on repeated calls")
}

func TestContainer_SystemBackend(t *testing.T) {
	c := newTestContainer(t)

	backend1, err := c.SystemBackend()
	require.NoError(t, err)
	assert.NotNil(t, backend1)

	backend2, err := c.SystemBackend()
	require.NoError(t, err)
	assert.Same(t, backend1, backend2, "SystemBackend should return the same instance on repeated calls")
}

func TestContainer_SystemBackend_InvalidDataDir(t *testing.T) {
	cfg := &config.Config{DataDir: string([]byte{0})}
	c := NewContainer(context.Background(), cfg)

	_, err := c.SystemBackend()
	require.Error(t, err)

	// A second call must return the same cached error rather than retry.
	_, err2 := c.SystemBackend()
	assert.Equal(t, err, err2)
}

func TestContainer_SealUseCase_DevMode(t *testing.T) {
	c := newTestContainer(t)

	sealUC1, err := c.SealUseCase()
	require.NoError(t, err)
	require.NotNil(t, sealUC1)

	_, unsealed := sealUC1.MasterKey()
	assert.True(t, unsealed, "DevMode container should auto-unseal on first access")

	sealUC2, err := c.SealUseCase()
	require.NoError(t, err)
	assert.Same(t, sealUC1, sealUC2, "SealUseCase should return the same instance on repeated calls")
}

func TestContainer_SealHandler(t *testing.T) {
	c := newTestContainer(t)

	handler1, err := c.SealHandler()
	require.NoError(t, err)
	assert.NotNil(t, handler1)

	handler2, err := c.SealHandler()
	require.NoError(t, err)
	assert.Same(t, handler1, handler2)
}

func TestContainer_AuthBackend(t *testing.T) {
	c := newTestContainer(t)

	backend1, err := c.AuthBackend()
	require.NoError(t, err)
	assert.NotNil(t, backend1)

	backend2, err := c.AuthBackend()
	require.NoError(t, err)
	assert.Same(t, backend1, backend2)
}

func TestContainer_AuthBackend_WithJWT(t *testing.T) {
	cfg := &config.Config{
		DataDir:     t.TempDir(),
		DevMode:     true,
		LogLevel:    "error",
		JWTSecret:   []byte("a-test-signing-secret"),
		JWTIssuer:   "egide-test",
		JWTAudience: "egide-test-clients",
	}
	c := NewContainer(context.Background(), cfg)

	backend, err := c.AuthBackend()
	require.NoError(t, err)
	assert.NotNil(t, backend)
}

func TestContainer_SecretUseCase(t *testing.T) {
	c := newTestContainer(t)

	useCase1, err := c.SecretUseCase()
	require.NoError(t, err)
	assert.NotNil(t, useCase1)

	useCase2, err := c.SecretUseCase()
	require.NoError(t, err)
	assert.Same(t, useCase1, useCase2)
}

func TestContainer_SecretHandler(t *testing.T) {
	c := newTestContainer(t)

	handler1, err := c.SecretHandler()
	require.NoError(t, err)
	assert.NotNil(t, handler1)

	handler2, err := c.SecretHandler()
	require.NoError(t, err)
	assert.Same(t, handler1, handler2)
}

func TestContainer_TransitUseCase(t *testing.T) {
	c := newTestContainer(t)

	useCase1, err := c.TransitUseCase()
	require.NoError(t, err)
	assert.NotNil(t, useCase1)

	useCase2, err := c.TransitUseCase()
	require.NoError(t, err)
	assert.Same(t, useCase1, useCase2)
}

func TestContainer_TransitKeyHandler(t *testing.T) {
	c := newTestContainer(t)

	handler1, err := c.TransitKeyHandler()
	require.NoError(t, err)
	assert.NotNil(t, handler1)

	handler2, err := c.TransitKeyHandler()
	require.NoError(t, err)
	assert.Same(t, handler1, handler2)
}

func TestContainer_CryptoHandler(t *testing.T) {
	c := newTestContainer(t)

	handler1, err := c.CryptoHandler()
	require.NoError(t, err)
	assert.NotNil(t, handler1)

	handler2, err := c.CryptoHandler()
	require.NoError(t, err)
	assert.Same(t, handler1, handler2)
}

func TestContainer_BusinessMetrics_Disabled(t *testing.T) {
	c := newTestContainer(t)

	metrics, err := c.BusinessMetrics()
	require.NoError(t, err)
	assert.NotNil(t, metrics, "disabled metrics should fall back to a no-op implementation")
}

func TestContainer_MetricsProvider_Disabled(t *testing.T) {
	c := newTestContainer(t)

	provider, err := c.MetricsProvider()
	require.NoError(t, err)
	assert.Nil(t, provider)
}

func TestContainer_MetricsProvider_Enabled(t *testing.T) {
	cfg := &config.Config{
		DataDir:          t.TempDir(),
		DevMode:          true,
		LogLevel:         "error",
		MetricsEnabled:   true,
		MetricsNamespace: "egide_test_enabled",
	}
	c := NewContainer(context.Background(), cfg)

	provider1, err := c.MetricsProvider()
	require.NoError(t, err)
	assert.NotNil(t, provider1)

	provider2, err := c.MetricsProvider()
	require.NoError(t, err)
	assert.Same(t, provider1, provider2)
}

func TestContainer_HTTPServer(t *testing.T) {
	c := newTestContainer(t)

	server1, err := c.HTTPServer()
	require.NoError(t, err)
	assert.NotNil(t, server1)
	assert.NotNil(t, server1.GetHandler(), "SetupRouter should have been called")

	server2, err := c.HTTPServer()
	require.NoError(t, err)
	assert.Same(t, server1, server2)
}

func TestContainer_MetricsServer_Disabled(t *testing.T) {
	c := newTestContainer(t)

	server, err := c.MetricsServer()
	require.NoError(t, err)
	assert.Nil(t, server)
}

func TestContainer_Shutdown(t *testing.T) {
	c := newTestContainer(t)

	_, err := c.HTTPServer()
	require.NoError(t, err)
	_, err = c.SystemBackend()
	require.NoError(t, err)

	err = c.Shutdown(context.Background())
	assert.NoError(t, err)
}
