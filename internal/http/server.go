// Package http provides HTTP server implementation and request handlers using Gin web framework.
// The server uses Clean Architecture principles with structured logging (slog) and graceful shutdown.
//
// This server uses Gin (github.com/gin-gonic/gin) for HTTP routing while maintaining
// compatibility with the application's existing patterns:
//   - Custom slog-based logging middleware (instead of Gin's default logger)
//   - Gin-compatible error handling utilities (httputil.HandleErrorGin)
//   - Manual http.Server configuration for timeout and graceful shutdown control
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	authDomain "github.com/nubster-opensources/egide/internal/auth/domain"
	authHTTP "github.com/nubster-opensources/egide/internal/auth/http"
	"github.com/nubster-opensources/egide/internal/config"
	"github.com/nubster-opensources/egide/internal/httputil"
	"github.com/nubster-opensources/egide/internal/metrics"
	secretsHTTP "github.com/nubster-opensources/egide/internal/secrets/http"
	sealHTTP "github.com/nubster-opensources/egide/internal/seal/http"
	sealUseCase "github.com/nubster-opensources/egide/internal/seal/usecase"
	transitHTTP "github.com/nubster-opensources/egide/internal/transit/http"
)

// Server represents the HTTP server.
type Server struct {
	seal     sealUseCase.UseCase
	server   *http.Server
	logger   *slog.Logger
	router   *gin.Engine
	reqGroup singleflight.Group
}

// NewServer creates a new HTTP server. seal is used only for the readiness
// probe; lock-state reporting itself lives behind /v1/sys/*, served by
// sealHTTP.SealHandler.
func NewServer(
	host string,
	port int,
	logger *slog.Logger,
	seal sealUseCase.UseCase,
) *Server {
	return &Server{
		seal:   seal,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter configures the Gin router with all routes and middleware.
// This method is called during server initialization with all required dependencies.
func (s *Server) SetupRouter(
	cfg *config.Config,
	sealHandler *sealHTTP.SealHandler,
	secretHandler *secretsHTTP.SecretHandler,
	transitKeyHandler *transitHTTP.TransitKeyHandler,
	cryptoHandler *transitHTTP.CryptoHandler,
	authBackend authDomain.AuthBackend,
	metricsProvider *metrics.Provider,
	metricsNamespace string,
) {
	// Create Gin engine without default middleware
	router := gin.New()

	// Apply custom middleware
	router.Use(gin.Recovery()) // Gin's panic recovery

	// Add CORS middleware if enabled
	if corsMiddleware := createCORSMiddleware(
		cfg.CORSEnabled,
		cfg.CORSAllowOrigins,
		s.logger,
	); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	}))) // Request ID with UUIDv7
	router.Use(CustomLoggerMiddleware(s.logger)) // Custom slog logger

	// Add HTTP metrics middleware if metrics are enabled
	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), metricsNamespace))
	}

	// Health and readiness endpoints (outside API versioning, for container
	// orchestrators; /v1/sys/health and /v1/sys/status carry the vault's
	// own lock-state semantics and live under the versioned API instead).
	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	authMiddleware := authHTTP.AuthMiddleware(authBackend, s.logger)

	// Rate limiting ahead of the unauthenticated, most sensitive surface:
	// init and unseal can be brute-forced or hammered before a vault has
	// any credential to check against.
	var sysRateLimitMiddleware gin.HandlerFunc
	if cfg.RateLimitTokenEnabled {
		sysRateLimitMiddleware = authHTTP.TokenRateLimitMiddleware(
			cfg.RateLimitTokenRequestsPerSec,
			cfg.RateLimitTokenBurst,
			s.logger,
		)
	}

	// Rate limiting for authenticated routes, keyed by client IP.
	var rateLimitMiddleware gin.HandlerFunc
	if cfg.RateLimitEnabled {
		rateLimitMiddleware = authHTTP.TokenRateLimitMiddleware(
			cfg.RateLimitRequestsPerSec,
			cfg.RateLimitBurst,
			s.logger,
		)
	}

	v1 := router.Group("/v1")
	{
		// Seal manager endpoints.
		sys := v1.Group("/sys")
		{
			sys.GET("/health", sealHandler.HealthHandler)
			sys.GET("/status", sealHandler.StatusHandler)
			if sysRateLimitMiddleware != nil {
				sys.POST("/init", sysRateLimitMiddleware, sealHandler.InitHandler)
				sys.POST("/unseal", sysRateLimitMiddleware, sealHandler.UnsealHandler)
			} else {
				sys.POST("/init", sealHandler.InitHandler)
				sys.POST("/unseal", sealHandler.UnsealHandler)
			}
			sys.POST("/seal", authMiddleware, sealHandler.SealHandlerFunc)
		}

		// Secret management endpoints.
		secrets := v1.Group("/secrets")
		secrets.Use(authMiddleware)
		if rateLimitMiddleware != nil {
			secrets.Use(rateLimitMiddleware)
		}
		{
			secrets.GET("", secretHandler.ListHandler)
			secrets.PUT("/*path", secretHandler.PutHandler)
			secrets.GET("/*path", routeSecretGet(secretHandler))
			secrets.POST("/*path", routeSecretPost(secretHandler))
			secrets.DELETE("/*path", secretHandler.DeleteHandler)
		}

		// Transit encryption endpoints.
		transit := v1.Group("/transit")
		transit.Use(authMiddleware)
		if rateLimitMiddleware != nil {
			transit.Use(rateLimitMiddleware)
		}
		{
			keys := transit.Group("/keys")
			{
				keys.GET("", transitKeyHandler.ListHandler)
				keys.POST("/:name", transitKeyHandler.CreateHandler)
				keys.GET("/:name", transitKeyHandler.GetHandler)
				keys.GET("/:name/versions", transitKeyHandler.ListVersionsHandler)
				keys.PUT("/:name/config", transitKeyHandler.UpdateConfigHandler)
				keys.POST("/:name/rotate", transitKeyHandler.RotateHandler)
				keys.DELETE("/:name", transitKeyHandler.DeleteHandler)
			}

			transit.POST("/encrypt/:name", cryptoHandler.EncryptHandler)
			transit.POST("/decrypt/:name", cryptoHandler.DecryptHandler)
			transit.POST("/rewrap/:name", cryptoHandler.RewrapHandler)
			transit.POST("/datakey/:name", cryptoHandler.DataKeyHandler)
		}
	}

	s.router = router
}

// routeSecretGet dispatches GET /v1/secrets/*path to the sub-resource riding
// along the wildcard path segment (a version listing) or to a plain read.
func routeSecretGet(h *secretsHTTP.SecretHandler) gin.HandlerFunc {
	return dispatchSecretSuffix(map[string]gin.HandlerFunc{
		"/versions": h.ListVersionsHandler,
	}, h.GetHandler)
}

// routeSecretPost dispatches POST /v1/secrets/*path to the sub-resource
// named by the wildcard's trailing segment: undelete or rollback. There is
// no plain POST write; writes go through PUT.
func routeSecretPost(h *secretsHTTP.SecretHandler) gin.HandlerFunc {
	return dispatchSecretSuffix(map[string]gin.HandlerFunc{
		"/undelete": h.UndeleteHandler,
		"/rollback": h.RollbackHandler,
	}, func(c *gin.Context) {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("unknown secret sub-resource"), nil)
	})
}

func dispatchSecretSuffix(bySuffix map[string]gin.HandlerFunc, fallback gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Param("path")
		for suffix, handler := range bySuffix {
			if len(path) > len(suffix) && strings.HasSuffix(path, suffix) {
				c.Params[0].Value = strings.TrimSuffix(path, suffix)
				handler(c)
				return
			}
		}
		fallback(c)
	}
}

// GetHandler returns the http.Handler for testing purposes.
// Returns nil if SetupRouter has not been called yet.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	// Router must be set up before starting
	if s.router == nil {
		return fmt.Errorf("router not initialized - call SetupRouter first")
	}

	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler returns a simple process-liveness response. Distinct from
// /v1/sys/health: this one says nothing about the vault's lock state.
func (s *Server) healthHandler(c *gin.Context) {
	v, _, _ := s.reqGroup.Do("health", func() (interface{}, error) {
		return gin.H{"status": "healthy"}, nil
	})
	c.JSON(http.StatusOK, v)
}

type readinessResponse struct {
	StatusCode int
	Body       gin.H
}

// readinessHandler reports whether the seal manager has been wired in. It is
// not a substitute for /v1/sys/status: a sealed-but-initialized vault is
// still "ready" to accept unseal requests.
func (s *Server) readinessHandler(c *gin.Context) {
	v, _, _ := s.reqGroup.Do("readiness", func() (interface{}, error) {
		status := "ready"
		httpStatus := http.StatusOK
		if s.seal == nil {
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
		}

		return readinessResponse{
			StatusCode: httpStatus,
			Body:       gin.H{"status": status},
		}, nil
	})

	res := v.(readinessResponse)
	c.JSON(res.StatusCode, res.Body)
}
