package domain

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

const envelopePrefix = "egide"

// Ciphertext is the externally visible envelope produced by Encrypt:
// "egide:v{version}:{base64_payload}". Version identifies which key version
// decrypt must use; Payload is the raw AEAD blob (nonce ‖ ciphertext ‖ tag).
type Ciphertext struct {
	Version uint32
	Payload []byte
}

// ParseCiphertext parses the "egide:v{version}:{base64}" envelope format.
// Any malformed input maps to ErrInvalidCiphertext.
func ParseCiphertext(s string) (Ciphertext, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 {
		return Ciphertext{}, fmt.Errorf("%w: expected 3 colon-separated parts, got %d", ErrInvalidCiphertext, len(parts))
	}
	if parts[0] != envelopePrefix {
		return Ciphertext{}, fmt.Errorf("%w: unrecognized prefix %q", ErrInvalidCiphertext, parts[0])
	}
	versionPart := parts[1]
	if len(versionPart) < 2 || versionPart[0] != 'v' {
		return Ciphertext{}, fmt.Errorf("%w: malformed version segment %q", ErrInvalidCiphertext, versionPart)
	}
	version, err := strconv.ParseUint(versionPart[1:], 10, 32)
	if err != nil {
		return Ciphertext{}, fmt.Errorf("%w: %v", ErrInvalidCiphertext, err)
	}
	payload, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return Ciphertext{}, fmt.Errorf("%w: %v", ErrInvalidCiphertext, err)
	}
	return Ciphertext{Version: uint32(version), Payload: payload}, nil
}

// String renders the envelope back to its wire form.
func (c Ciphertext) String() string {
	return fmt.Sprintf("%s:v%d:%s", envelopePrefix, c.Version, base64.StdEncoding.EncodeToString(c.Payload))
}
