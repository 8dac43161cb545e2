package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sealDomain "github.com/nubster-opensources/egide/internal/seal/domain"
	sealhttp "github.com/nubster-opensources/egide/internal/seal/http"
	"github.com/nubster-opensources/egide/internal/seal/http/dto"
	sealUsecase "github.com/nubster-opensources/egide/internal/seal/usecase"
	storageSqlite "github.com/nubster-opensources/egide/internal/storage/sqlite"
)

func setupHandler(t *testing.T) *sealhttp.SealHandler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	backend, err := storageSqlite.Open(ctx, t.TempDir(), "system")
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	uc, err := sealUsecase.New(ctx, backend)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return sealhttp.NewSealHandler(uc, logger)
}

func newJSONContext(method, path string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	c.Request = httptest.NewRequest(method, path, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestSealHandler_InitializeAndUnseal(t *testing.T) {
	h := setupHandler(t)

	c, w := newJSONContext(http.MethodPost, "/v1/sys/init", dto.InitRequest{SecretShares: 3, SecretThreshold: 2})
	h.InitHandler(c)
	require.Equal(t, http.StatusOK, w.Code)

	var initResp dto.InitResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &initResp))
	assert.NotEmpty(t, initResp.RootToken)
	assert.Len(t, initResp.Keys, 3)
	assert.Len(t, initResp.KeysBase64, 3)

	c2, w2 := newJSONContext(http.MethodGet, "/v1/sys/status", nil)
	h.StatusHandler(c2)
	var statusResp dto.StatusResponse
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &statusResp))
	assert.True(t, statusResp.Initialized)
	assert.True(t, statusResp.Sealed)

	c3, w3 := newJSONContext(http.MethodPost, "/v1/sys/unseal", dto.UnsealRequest{Key: initResp.Keys[0]})
	h.UnsealHandler(c3)
	require.Equal(t, http.StatusOK, w3.Code)
	var progress1 dto.UnsealResponse
	require.NoError(t, json.Unmarshal(w3.Body.Bytes(), &progress1))
	assert.True(t, progress1.Sealed)
	assert.Equal(t, 1, progress1.Progress)

	c4, w4 := newJSONContext(http.MethodPost, "/v1/sys/unseal", dto.UnsealRequest{Key: initResp.Keys[1]})
	h.UnsealHandler(c4)
	require.Equal(t, http.StatusOK, w4.Code)
	var progress2 dto.UnsealResponse
	require.NoError(t, json.Unmarshal(w4.Body.Bytes(), &progress2))
	assert.False(t, progress2.Sealed)
	assert.Equal(t, 2, progress2.Progress)

	c5, w5 := newJSONContext(http.MethodGet, "/v1/sys/health", nil)
	h.HealthHandler(c5)
	var healthResp dto.HealthResponse
	require.NoError(t, json.Unmarshal(w5.Body.Bytes(), &healthResp))
	assert.Equal(t, string(sealDomain.StatusUnsealed), healthResp.Status)
	assert.False(t, healthResp.Sealed)
}

func TestSealHandler_InitRejectsBadConfig(t *testing.T) {
	h := setupHandler(t)

	c, w := newJSONContext(http.MethodPost, "/v1/sys/init", dto.InitRequest{SecretShares: 1, SecretThreshold: 2})
	h.InitHandler(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSealHandler_UnsealRejectsMalformedKey(t *testing.T) {
	h := setupHandler(t)

	c, w := newJSONContext(http.MethodPost, "/v1/sys/init", dto.InitRequest{SecretShares: 3, SecretThreshold: 2})
	h.InitHandler(c)
	require.Equal(t, http.StatusOK, w.Code)

	c2, w2 := newJSONContext(http.MethodPost, "/v1/sys/unseal", dto.UnsealRequest{Key: "not-hex"})
	h.UnsealHandler(c2)
	assert.Equal(t, http.StatusBadRequest, w2.Code)
}

func TestSealHandler_SealAfterUnseal(t *testing.T) {
	h := setupHandler(t)

	c, w := newJSONContext(http.MethodPost, "/v1/sys/init", dto.InitRequest{SecretShares: 1, SecretThreshold: 1})
	h.InitHandler(c)
	require.Equal(t, http.StatusOK, w.Code)
	var initResp dto.InitResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &initResp))

	c2, w2 := newJSONContext(http.MethodPost, "/v1/sys/unseal", dto.UnsealRequest{Key: initResp.Keys[0]})
	h.UnsealHandler(c2)
	require.Equal(t, http.StatusOK, w2.Code)

	c3, w3 := newJSONContext(http.MethodPost, "/v1/sys/seal", nil)
	h.SealHandlerFunc(c3)
	require.Equal(t, http.StatusOK, w3.Code)
	var sealResp dto.SealResponse
	require.NoError(t, json.Unmarshal(w3.Body.Bytes(), &sealResp))
	assert.True(t, sealResp.Sealed)
}
