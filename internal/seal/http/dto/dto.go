// Package dto provides data transfer objects for the seal manager's HTTP surface.
package dto

import (
	"encoding/base64"
	"encoding/hex"

	sealDomain "github.com/nubster-opensources/egide/internal/seal/domain"
)

// InitRequest is the body of POST /v1/sys/init.
type InitRequest struct {
	SecretShares    int `json:"secret_shares"`
	SecretThreshold int `json:"secret_threshold"`
}

// ToShamirConfig converts the request into the domain's split configuration.
func (r InitRequest) ToShamirConfig() sealDomain.ShamirConfig {
	return sealDomain.ShamirConfig{Shares: r.SecretShares, Threshold: r.SecretThreshold}
}

// InitResponse is the body returned from a successful POST /v1/sys/init.
// Shares are given in both encodings; a key holder only needs one. In both,
// the first byte of the encoded share is its index.
type InitResponse struct {
	RootToken  string   `json:"root_token"`
	Keys       []string `json:"keys"`
	KeysBase64 []string `json:"keys_base64"`
}

// MapInitResultToResponse encodes a freshly generated InitResult for the wire.
func MapInitResultToResponse(result *sealDomain.InitResult) InitResponse {
	keys := make([]string, len(result.Shares))
	keysBase64 := make([]string, len(result.Shares))
	for i, share := range result.Shares {
		// Move the library's trailing x-coordinate to the front.
		n := len(share.Data)
		wire := append([]byte{share.Data[n-1]}, share.Data[:n-1]...)
		keys[i] = hex.EncodeToString(wire)
		keysBase64[i] = base64.StdEncoding.EncodeToString(wire)
	}
	return InitResponse{
		RootToken:  result.RootToken,
		Keys:       keys,
		KeysBase64: keysBase64,
	}
}

// UnsealRequest is the body of POST /v1/sys/unseal: one hex-encoded share.
type UnsealRequest struct {
	Key string `json:"key"`
}

// ToShare decodes the request's hex key into a domain Share. The share
// index is read from the first byte of the decoded data, which is then
// moved to the end to restore hashicorp/vault/shamir's layout.
func (r UnsealRequest) ToShare() (sealDomain.Share, error) {
	data, err := hex.DecodeString(r.Key)
	if err != nil {
		return sealDomain.Share{}, sealDomain.ErrInvalidShare
	}
	if len(data) == 0 {
		return sealDomain.Share{}, sealDomain.ErrInvalidShare
	}
	shareData := append(append([]byte(nil), data[1:]...), data[0])
	return sealDomain.Share{Index: int(data[0]), Data: shareData}, nil
}

// UnsealResponse is the body returned from POST /v1/sys/unseal.
type UnsealResponse struct {
	Sealed    bool `json:"sealed"`
	Threshold int  `json:"threshold"`
	Progress  int  `json:"progress"`
}

// MapUnsealProgressToResponse converts domain progress to its API representation.
func MapUnsealProgressToResponse(progress *sealDomain.UnsealProgress) UnsealResponse {
	return UnsealResponse{
		Sealed:    progress.Sealed,
		Threshold: progress.Threshold,
		Progress:  progress.Progress,
	}
}

// SealResponse is the body returned from POST /v1/sys/seal.
type SealResponse struct {
	Sealed bool `json:"sealed"`
}

// HealthResponse is the body returned from GET /v1/sys/health.
type HealthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Initialized bool   `json:"initialized"`
	Sealed      bool   `json:"sealed"`
	UptimeSecs  int64  `json:"uptime_secs"`
}

// StatusResponse is the body returned from GET /v1/sys/status.
type StatusResponse struct {
	Version     string `json:"version"`
	Initialized bool   `json:"initialized"`
	Sealed      bool   `json:"sealed"`
}
