// Package domain defines the transit encryption engine's domain models: named,
// versioned AEAD keys that let callers encrypt and decrypt without ever seeing
// key material.
package domain

import "regexp"

const (
	// MaxKeyNameLength is the maximum allowed length for a transit key name.
	MaxKeyNameLength = 128
)

// keyNameRe matches the characters a transit key name may contain.
var keyNameRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidKeyName reports whether name is an acceptable transit key name.
func ValidKeyName(name string) bool {
	if name == "" || len(name) > MaxKeyNameLength {
		return false
	}
	return keyNameRe.MatchString(name)
}
