// Package domain defines the identity and error surface that HTTP
// authentication backends for the vault resolve a bearer token into.
package domain

import "time"

// Method identifies which backend authenticated a request.
type Method string

const (
	// MethodRoot marks a request authenticated with the vault's root token.
	MethodRoot Method = "root"

	// MethodJWT marks a request authenticated with a signed JWT.
	MethodJWT Method = "jwt"
)

// AuthContext is the identity a bearer token resolves to.
type AuthContext struct {
	AccountID   string
	Email       string
	DisplayName string
	Method      Method
	ExpiresAt   *time.Time
}
