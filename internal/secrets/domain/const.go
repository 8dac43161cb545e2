package domain

import "regexp"

// SecretKeyInfoPrefix domain-separates per-path key derivation from every
// other HKDF consumer in the vault.
const SecretKeyInfoPrefix = "egide-secrets-v1:"

var pathRe = regexp.MustCompile(`^[A-Za-z0-9_/-]+$`)

// ValidatePath checks that path is a well-formed hierarchical secret path:
// non-empty, no leading/trailing slash, no double slash, and restricted to
// alphanumerics, hyphens, underscores and slashes.
func ValidatePath(path string) error {
	if path == "" {
		return ErrInvalidPath
	}
	if path[0] == '/' || path[len(path)-1] == '/' {
		return ErrInvalidPath
	}
	if !pathRe.MatchString(path) {
		return ErrInvalidPath
	}
	for i := 0; i+1 < len(path); i++ {
		if path[i] == '/' && path[i+1] == '/' {
			return ErrInvalidPath
		}
	}
	return nil
}
