// Package http provides HTTP handlers for the transit encryption engine.
package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	cryptoDomain "github.com/nubster-opensources/egide/internal/crypto/domain"
	"github.com/nubster-opensources/egide/internal/httputil"
	"github.com/nubster-opensources/egide/internal/transit/http/dto"
	"github.com/nubster-opensources/egide/internal/transit/usecase"
	customValidation "github.com/nubster-opensources/egide/internal/validation"
)

// TransitKeyHandler handles key lifecycle endpoints: create, get, list,
// rotate, delete, and config updates.
type TransitKeyHandler struct {
	useCase usecase.UseCase
	logger  *slog.Logger
}

// NewTransitKeyHandler creates a new transit key handler.
func NewTransitKeyHandler(useCase usecase.UseCase, logger *slog.Logger) *TransitKeyHandler {
	return &TransitKeyHandler{useCase: useCase, logger: logger}
}

// CreateHandler creates a new named key.
// POST /v1/transit/keys/:name
func (h *TransitKeyHandler) CreateHandler(c *gin.Context) {
	name := c.Param("name")

	var req dto.CreateKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	alg := cryptoDomain.AESGCM
	if req.Type != "" {
		alg = cryptoDomain.Algorithm(req.Type)
	}

	key, err := h.useCase.CreateKey(c.Request.Context(), name, alg)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusCreated, dto.MapTransitKeyToResponse(key))
}

// GetHandler returns a key's metadata.
// GET /v1/transit/keys/:name
func (h *TransitKeyHandler) GetHandler(c *gin.Context) {
	key, err := h.useCase.GetKey(c.Request.Context(), c.Param("name"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, dto.MapTransitKeyToResponse(key))
}

// ListHandler lists every key name.
// GET /v1/transit/keys
func (h *TransitKeyHandler) ListHandler(c *gin.Context) {
	names, err := h.useCase.ListKeys(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, dto.ListKeysResponse{Keys: names})
}

// RotateHandler creates a new key version.
// POST /v1/transit/keys/:name/rotate
func (h *TransitKeyHandler) RotateHandler(c *gin.Context) {
	version, err := h.useCase.RotateKey(c.Request.Context(), c.Param("name"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, dto.RotateKeyResponse{Version: version})
}

// UpdateConfigHandler applies a partial key configuration update.
// PUT /v1/transit/keys/:name/config
func (h *TransitKeyHandler) UpdateConfigHandler(c *gin.Context) {
	var req dto.UpdateKeyConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	update := usecase.KeyConfigUpdate{
		MinEncryptionVersion: req.MinEncryptionVersion,
		MinDecryptionVersion: req.MinDecryptionVersion,
		DeletionAllowed:      req.DeletionAllowed,
	}

	key, err := h.useCase.UpdateKeyConfig(c.Request.Context(), c.Param("name"), update)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, dto.MapTransitKeyToResponse(key))
}

// DeleteHandler deletes a key and all its versions.
// DELETE /v1/transit/keys/:name
func (h *TransitKeyHandler) DeleteHandler(c *gin.Context) {
	if err := h.useCase.DeleteKey(c.Request.Context(), c.Param("name")); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListVersionsHandler lists a key's versions, descending.
// GET /v1/transit/keys/:name/versions
func (h *TransitKeyHandler) ListVersionsHandler(c *gin.Context) {
	versions, err := h.useCase.ListVersions(c.Request.Context(), c.Param("name"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	out := make([]uint32, len(versions))
	for i, v := range versions {
		out[i] = v.Version
	}
	c.JSON(http.StatusOK, gin.H{"versions": out})
}
