package service

import (
	"crypto/hmac"
	"crypto/sha256"
)

// sealVerifyInfo is the domain-separation message MACed under the master key
// to produce the tag checked after Shamir reconstruction: proof that the
// recombined shares produced the correct master key before it is put to any
// other use.
const sealVerifyInfo = "egide-seal-verify-v1"

// SealVerificationTag returns HMAC-SHA256 keyed by masterKey over the fixed
// sealVerifyInfo message. This is the tag stored alongside the Shamir
// configuration at initialization time and recomputed after every unseal
// attempt.
func SealVerificationTag(masterKey []byte) ([]byte, error) {
	mac := hmac.New(sha256.New, masterKey)
	mac.Write([]byte(sealVerifyInfo))
	return mac.Sum(nil), nil
}

// VerifySealTag reports whether tag is the valid SealVerificationTag for
// masterKey, using a constant-time comparison.
func VerifySealTag(masterKey, tag []byte) (bool, error) {
	expected, err := SealVerificationTag(masterKey)
	if err != nil {
		return false, err
	}
	return hmac.Equal(expected, tag), nil
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
