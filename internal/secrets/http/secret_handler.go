// Package http provides HTTP handlers for secret management operations.
// Secrets are path-addressed, versioned key/value documents, encrypted at
// rest under a key derived from the vault master key and the secret's path.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nubster-opensources/egide/internal/httputil"
	secretsDomain "github.com/nubster-opensources/egide/internal/secrets/domain"
	"github.com/nubster-opensources/egide/internal/secrets/http/dto"
	secretsUseCase "github.com/nubster-opensources/egide/internal/secrets/usecase"
	customValidation "github.com/nubster-opensources/egide/internal/validation"
)

// SecretHandler handles HTTP requests for the key/value secrets engine.
// Authentication and authorization happen in middleware ahead of these
// handlers.
type SecretHandler struct {
	useCase secretsUseCase.UseCase
	logger  *slog.Logger
}

// NewSecretHandler creates a new secret handler with required dependencies.
func NewSecretHandler(useCase secretsUseCase.UseCase, logger *slog.Logger) *SecretHandler {
	return &SecretHandler{useCase: useCase, logger: logger}
}

func secretPath(c *gin.Context) (string, bool) {
	path := strings.TrimPrefix(c.Param("path"), "/")
	return path, path != ""
}

// PutHandler creates a new version of a secret at path.
// PUT /v1/secrets/*path - requires an authenticated caller.
// Returns 200 OK with secret metadata (data is echoed back, not re-read).
func (h *SecretHandler) PutHandler(c *gin.Context) {
	path, ok := secretPath(c)
	if !ok {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("path cannot be empty"), h.logger)
		return
	}

	var req dto.PutSecretRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	opts := secretsDomain.PutOptions{CAS: req.CAS}
	if req.TTLSeconds != nil {
		ttl := time.Duration(*req.TTLSeconds) * time.Second
		opts.TTL = &ttl
	}
	if len(req.Metadata) > 0 {
		opts.Metadata = req.Metadata
	}

	secret, err := h.useCase.Put(c.Request.Context(), path, req.Data, opts)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSecretToResponse(secret))
}

// GetHandler retrieves and decrypts a secret by path, optionally by version.
// GET /v1/secrets/*path?version=N - requires an authenticated caller.
func (h *SecretHandler) GetHandler(c *gin.Context) {
	path, ok := secretPath(c)
	if !ok {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("path cannot be empty"), h.logger)
		return
	}

	var secret *secretsDomain.Secret
	var err error

	if versionStr := c.Query("version"); versionStr != "" {
		version, parseErr := strconv.ParseUint(versionStr, 10, 32)
		if parseErr != nil {
			httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid version parameter: must be a positive integer"), h.logger)
			return
		}
		secret, err = h.useCase.GetVersion(c.Request.Context(), path, uint32(version))
	} else {
		secret, err = h.useCase.Get(c.Request.Context(), path)
	}
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSecretToResponse(secret))
}

// DeleteHandler soft-deletes a secret by its path.
// DELETE /v1/secrets/*path - requires an authenticated caller.
func (h *SecretHandler) DeleteHandler(c *gin.Context) {
	path, ok := secretPath(c)
	if !ok {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("path cannot be empty"), h.logger)
		return
	}

	if err := h.useCase.Delete(c.Request.Context(), path); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.Status(http.StatusNoContent)
}

// UndeleteHandler clears a secret's soft-delete marker.
// POST /v1/secrets/*path/undelete - requires an authenticated caller.
func (h *SecretHandler) UndeleteHandler(c *gin.Context) {
	path, ok := secretPath(c)
	if !ok {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("path cannot be empty"), h.logger)
		return
	}

	if err := h.useCase.Undelete(c.Request.Context(), path); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListHandler lists secret metadata under an optional path prefix.
// GET /v1/secrets?prefix=app/ - requires an authenticated caller.
func (h *SecretHandler) ListHandler(c *gin.Context) {
	prefix := c.Query("prefix")

	secrets, err := h.useCase.List(c.Request.Context(), prefix)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, dto.MapSecretsToListResponse(secrets))
}

// ListVersionsHandler lists every stored version of a path, descending.
// GET /v1/secrets/*path/versions - requires an authenticated caller.
func (h *SecretHandler) ListVersionsHandler(c *gin.Context) {
	path, ok := secretPath(c)
	if !ok {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("path cannot be empty"), h.logger)
		return
	}

	versions, err := h.useCase.ListVersions(c.Request.Context(), path)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"versions": dto.MapVersionsToResponse(versions)})
}

// RollbackHandler re-puts an older version's data as the newest version.
// POST /v1/secrets/*path/rollback - requires an authenticated caller.
func (h *SecretHandler) RollbackHandler(c *gin.Context) {
	path, ok := secretPath(c)
	if !ok {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("path cannot be empty"), h.logger)
		return
	}

	var req dto.RollbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	secret, err := h.useCase.Rollback(c.Request.Context(), path, req.Version)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, dto.MapSecretToResponse(secret))
}
