package service

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	cryptoDomain "github.com/nubster-opensources/egide/internal/crypto/domain"
)

// maxDeriveLength mirrors RFC 5869's 255*HashLen bound for HKDF-SHA256.
const maxDeriveLength = 255 * sha256.Size

// Derive runs HKDF-SHA256 (RFC 5869) over ikm, producing length bytes of
// output keying material bound to salt and info. Every working key in this
// vault -- per-path secrets keys, per-version transit keys -- is derived
// this way from the unsealed master key and never persisted.
func Derive(ikm, salt, info []byte, length int) ([]byte, error) {
	if length <= 0 || length > maxDeriveLength {
		return nil, cryptoDomain.ErrInvalidDeriveLength
	}

	reader := hkdf.New(sha256.New, ikm, salt, info)
	out := make([]byte, length)
	if _, err := io.ReadFull(reader, out); err != nil {
		return nil, fmt.Errorf("failed to derive key material: %w", err)
	}
	return out, nil
}
