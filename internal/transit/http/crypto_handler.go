package http

import (
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nubster-opensources/egide/internal/httputil"
	"github.com/nubster-opensources/egide/internal/transit/http/dto"
	"github.com/nubster-opensources/egide/internal/transit/usecase"
	customValidation "github.com/nubster-opensources/egide/internal/validation"
)

// CryptoHandler handles encrypt, decrypt, rewrap and data-key endpoints.
type CryptoHandler struct {
	useCase usecase.UseCase
	logger  *slog.Logger
}

// NewCryptoHandler creates a new crypto handler.
func NewCryptoHandler(useCase usecase.UseCase, logger *slog.Logger) *CryptoHandler {
	return &CryptoHandler{useCase: useCase, logger: logger}
}

// EncryptHandler encrypts a base64-encoded plaintext under a key's latest version.
// POST /v1/transit/encrypt/:name
func (h *CryptoHandler) EncryptHandler(c *gin.Context) {
	name := c.Param("name")

	var req dto.EncryptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	plaintext, err := base64.StdEncoding.DecodeString(req.Plaintext)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	defer zero(plaintext)

	ciphertext, err := h.useCase.Encrypt(c.Request.Context(), name, plaintext)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, dto.CiphertextResponse{Ciphertext: ciphertext})
}

// DecryptHandler decrypts a ciphertext envelope and returns base64-encoded plaintext.
// POST /v1/transit/decrypt/:name
func (h *CryptoHandler) DecryptHandler(c *gin.Context) {
	name := c.Param("name")

	var req dto.CiphertextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	plaintext, err := h.useCase.Decrypt(c.Request.Context(), name, req.Ciphertext)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	defer zero(plaintext)

	c.JSON(http.StatusOK, dto.PlaintextResponse{Plaintext: base64.StdEncoding.EncodeToString(plaintext)})
}

// RewrapHandler re-encrypts a ciphertext under a key's latest version.
// POST /v1/transit/rewrap/:name
func (h *CryptoHandler) RewrapHandler(c *gin.Context) {
	name := c.Param("name")

	var req dto.CiphertextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	rewrapped, err := h.useCase.Rewrap(c.Request.Context(), name, req.Ciphertext)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, dto.CiphertextResponse{Ciphertext: rewrapped})
}

// DataKeyHandler generates a new data-encryption key and returns both the
// plaintext key and its ciphertext wrapped under the named transit key.
// POST /v1/transit/datakey/:name
func (h *CryptoHandler) DataKeyHandler(c *gin.Context) {
	name := c.Param("name")

	dataKey, err := h.useCase.GenerateDataKey(c.Request.Context(), name)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	defer zero(dataKey.Plaintext)

	c.JSON(http.StatusOK, dto.DataKeyResponse{
		Plaintext:  base64.StdEncoding.EncodeToString(dataKey.Plaintext),
		Ciphertext: dataKey.Ciphertext,
	})
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
