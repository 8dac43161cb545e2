// Package http provides the vault's lock-state HTTP surface: init, unseal,
// seal, health and status. None of these routes sit behind AuthMiddleware
// except seal itself, which requires a token the auth backend accepts (the
// root token, or a JWT when a JWT backend is configured).
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nubster-opensources/egide/internal/httputil"
	sealDomain "github.com/nubster-opensources/egide/internal/seal/domain"
	"github.com/nubster-opensources/egide/internal/seal/http/dto"
	sealUsecase "github.com/nubster-opensources/egide/internal/seal/usecase"
	customValidation "github.com/nubster-opensources/egide/internal/validation"
)

// Version is the vault's release version, surfaced on /v1/sys/health and
// /v1/sys/status. Overwritten at build time via -ldflags in production.
var Version = "dev"

// SealHandler handles HTTP requests for the vault's seal/unseal lifecycle.
type SealHandler struct {
	useCase   sealUsecase.UseCase
	logger    *slog.Logger
	startedAt time.Time
}

// NewSealHandler creates a new seal handler with required dependencies.
func NewSealHandler(useCase sealUsecase.UseCase, logger *slog.Logger) *SealHandler {
	return &SealHandler{useCase: useCase, logger: logger, startedAt: time.Now()}
}

// InitHandler performs first-time vault setup.
// POST /v1/sys/init - no authentication (there is no root token yet).
func (h *SealHandler) InitHandler(c *gin.Context) {
	var req dto.InitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	config := req.ToShamirConfig()
	if err := config.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	result, err := h.useCase.Initialize(c.Request.Context(), config)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapInitResultToResponse(result))
}

// UnsealHandler submits one key share toward the unseal threshold.
// POST /v1/sys/unseal - no authentication (the vault is sealed, there is
// nothing yet to authenticate against but the shares themselves).
func (h *SealHandler) UnsealHandler(c *gin.Context) {
	var req dto.UnsealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	share, err := req.ToShare()
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	progress, err := h.useCase.Unseal(c.Request.Context(), share)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUnsealProgressToResponse(progress))
}

// SealHandlerFunc reseals the vault, dropping the master key from memory.
// POST /v1/sys/seal - requires a token accepted by AuthMiddleware (the root
// token, or a JWT when configured), enforced ahead of this handler.
func (h *SealHandler) SealHandlerFunc(c *gin.Context) {
	if err := h.useCase.Seal(c.Request.Context()); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, dto.SealResponse{Sealed: true})
}

// HealthHandler reports the vault's lock state for load balancer probes.
// GET /v1/sys/health - no authentication.
func (h *SealHandler) HealthHandler(c *gin.Context) {
	status := h.useCase.Status()
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:      string(status),
		Version:     Version,
		Initialized: status != sealDomain.StatusUninitialized,
		Sealed:      status != sealDomain.StatusUnsealed,
		UptimeSecs:  int64(time.Since(h.startedAt).Seconds()),
	})
}

// StatusHandler reports the vault's lock state.
// GET /v1/sys/status - no authentication.
func (h *SealHandler) StatusHandler(c *gin.Context) {
	status := h.useCase.Status()
	c.JSON(http.StatusOK, dto.StatusResponse{
		Version:     Version,
		Initialized: status != sealDomain.StatusUninitialized,
		Sealed:      status != sealDomain.StatusUnsealed,
	})
}
