// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	authDomain "github.com/nubster-opensources/egide/internal/auth/domain"
	"github.com/nubster-opensources/egide/internal/config"
	egideHTTP "github.com/nubster-opensources/egide/internal/http"
	"github.com/nubster-opensources/egide/internal/metrics"
	sealDomain "github.com/nubster-opensources/egide/internal/seal/domain"
	sealHTTP "github.com/nubster-opensources/egide/internal/seal/http"
	sealUsecase "github.com/nubster-opensources/egide/internal/seal/usecase"
	secretsHTTP "github.com/nubster-opensources/egide/internal/secrets/http"
	secretsUsecase "github.com/nubster-opensources/egide/internal/secrets/usecase"
	storageSqlite "github.com/nubster-opensources/egide/internal/storage/sqlite"
	transitHTTP "github.com/nubster-opensources/egide/internal/transit/http"
	transitUsecase "github.com/nubster-opensources/egide/internal/transit/usecase"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	ctx context.Context

	// Configuration
	config *config.Config

	// Infrastructure
	logger *slog.Logger

	// Storage. Each engine owns its own tenant file under config.DataDir.
	systemBackend  *storageSqlite.Backend
	secretsBackend *storageSqlite.Backend
	transitBackend *storageSqlite.Backend

	// Seal manager. A single instance satisfies MasterKeyProvider for the
	// secrets and transit use cases and RootTokenVerifier for the auth
	// backend, so it is built once here and threaded through.
	sealUseCase sealUsecase.UseCase
	sealHandler *sealHTTP.SealHandler

	// Auth backend, composed from the root token plus an optional JWT
	// backend; see di_auth.go.
	authBackend authDomain.AuthBackend

	// Secrets engine; see di_secrets.go.
	secretRepository secretsUsecase.SecretRepository
	secretUseCase    secretsUsecase.UseCase
	secretHandler    *secretsHTTP.SecretHandler

	// Transit engine; see di_transit.go.
	transitKeyRepository transitUsecase.KeyRepository
	transitUseCase       transitUsecase.UseCase
	transitKeyHandler    *transitHTTP.TransitKeyHandler
	cryptoHandler        *transitHTTP.CryptoHandler

	// Metrics
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Servers
	httpServer    *egideHTTP.Server
	metricsServer *egideHTTP.MetricsServer

	mu sync.Mutex

	loggerInit         sync.Once
	systemBackendInit  sync.Once
	secretsBackendInit sync.Once
	transitBackendInit sync.Once
	sealUseCaseInit    sync.Once
	sealHandlerInit    sync.Once
	authBackendInit    sync.Once

	secretRepositoryInit sync.Once
	secretUseCaseInit    sync.Once
	secretHandlerInit    sync.Once

	transitKeyRepositoryInit sync.Once
	transitUseCaseInit       sync.Once
	transitKeyHandlerInit    sync.Once
	cryptoHandlerInit        sync.Once

	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once

	initErrors map[string]error
}

// NewContainer creates a new dependency injection container with the provided
// configuration. ctx bounds every lazy-init step that needs one (opening
// storage backends); it is not retained past construction of the components
// themselves.
func NewContainer(ctx context.Context, cfg *config.Config) *Container {
	return &Container{
		ctx:        ctx,
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// SystemBackend returns the storage backend holding the vault's seal state.
func (c *Container) SystemBackend() (*storageSqlite.Backend, error) {
	c.systemBackendInit.Do(func() {
		c.systemBackend, c.initErrors["systemBackend"] = storageSqlite.Open(c.ctx, c.config.DataDir, "system")
	})
	if err, ok := c.initErrors["systemBackend"]; ok && err != nil {
		return nil, err
	}
	return c.systemBackend, nil
}

// SecretsBackend returns the storage backend holding secret metadata and versions.
func (c *Container) SecretsBackend() (*storageSqlite.Backend, error) {
	c.secretsBackendInit.Do(func() {
		c.secretsBackend, c.initErrors["secretsBackend"] = storageSqlite.Open(c.ctx, c.config.DataDir, "secrets")
	})
	if err, ok := c.initErrors["secretsBackend"]; ok && err != nil {
		return nil, err
	}
	return c.secretsBackend, nil
}

// TransitBackend returns the storage backend holding transit key metadata and versions.
func (c *Container) TransitBackend() (*storageSqlite.Backend, error) {
	c.transitBackendInit.Do(func() {
		c.transitBackend, c.initErrors["transitBackend"] = storageSqlite.Open(c.ctx, c.config.DataDir, "transit")
	})
	if err, ok := c.initErrors["transitBackend"]; ok && err != nil {
		return nil, err
	}
	return c.transitBackend, nil
}

// SealUseCase returns the seal manager. DevMode initializes and unseals it on
// first access with a single, randomly generated master key that is stored
// in plaintext in the system backend, so later starts auto-unseal from it --
// never appropriate outside local development.
func (c *Container) SealUseCase() (sealUsecase.UseCase, error) {
	var err error
	c.sealUseCaseInit.Do(func() {
		c.sealUseCase, err = c.initSealUseCase()
		if err != nil {
			c.initErrors["sealUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sealUseCase"]; exists {
		return nil, storedErr
	}
	return c.sealUseCase, nil
}

func (c *Container) initSealUseCase() (sealUsecase.UseCase, error) {
	backend, err := c.SystemBackend()
	if err != nil {
		return nil, fmt.Errorf("failed to get system backend for seal use case: %w", err)
	}

	uc, err := sealUsecase.New(c.ctx, backend)
	if err != nil {
		return nil, fmt.Errorf("failed to create seal use case: %w", err)
	}

	if c.config.DevMode && uc.Status() != sealDomain.StatusUnsealed {
		if _, err := uc.EnableDevMode(c.ctx); err != nil {
			return nil, fmt.Errorf("failed to enable dev mode: %w", err)
		}
	}

	return uc, nil
}

// SealHandler returns the HTTP handler for init/unseal/seal/health/status.
func (c *Container) SealHandler() (*sealHTTP.SealHandler, error) {
	var err error
	c.sealHandlerInit.Do(func() {
		c.sealHandler, err = c.initSealHandler()
		if err != nil {
			c.initErrors["sealHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sealHandler"]; exists {
		return nil, storedErr
	}
	return c.sealHandler, nil
}

func (c *Container) initSealHandler() (*sealHTTP.SealHandler, error) {
	sealUC, err := c.SealUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get seal use case for seal handler: %w", err)
	}
	return sealHTTP.NewSealHandler(sealUC, c.Logger()), nil
}

// MetricsProvider returns the OpenTelemetry/Prometheus metrics provider, or
// nil if metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business-operation metrics recorder. When
// metrics are disabled this is a no-op implementation, so callers never need
// to branch on whether metrics are configured.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		provider, provErr := c.MetricsProvider()
		if provErr != nil {
			err = provErr
			c.initErrors["businessMetrics"] = err
			return
		}
		if provider == nil {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return
		}
		c.businessMetrics, err = metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// HTTPServer returns the main HTTP server, fully routed.
func (c *Container) HTTPServer() (*egideHTTP.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

func (c *Container) initHTTPServer() (*egideHTTP.Server, error) {
	sealUC, err := c.SealUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get seal use case for http server: %w", err)
	}
	sealHandler, err := c.SealHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get seal handler for http server: %w", err)
	}
	secretHandler, err := c.SecretHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret handler for http server: %w", err)
	}
	transitKeyHandler, err := c.TransitKeyHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get transit key handler for http server: %w", err)
	}
	cryptoHandler, err := c.CryptoHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get crypto handler for http server: %w", err)
	}
	authBackend, err := c.AuthBackend()
	if err != nil {
		return nil, fmt.Errorf("failed to get auth backend for http server: %w", err)
	}
	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	server := egideHTTP.NewServer(c.config.ServerHost, c.config.ServerPort, c.Logger(), sealUC)
	server.SetupRouter(c.config, sealHandler, secretHandler, transitKeyHandler, cryptoHandler, authBackend, metricsProvider, c.config.MetricsNamespace)

	return server, nil
}

// MetricsServer returns the dedicated Prometheus-scrape server, or nil if
// metrics are disabled.
func (c *Container) MetricsServer() (*egideHTTP.MetricsServer, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

func (c *Container) initMetricsServer() (*egideHTTP.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}
	return egideHTTP.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider), nil
}

// Shutdown performs cleanup of all initialized resources. It should be
// called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}
	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}
	for _, backend := range []*storageSqlite.Backend{c.systemBackend, c.secretsBackend, c.transitBackend} {
		if backend == nil {
			continue
		}
		if err := backend.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("storage backend close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}
	return nil
}
