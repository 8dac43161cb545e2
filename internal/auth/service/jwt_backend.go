package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	authDomain "github.com/nubster-opensources/egide/internal/auth/domain"
)

// jwtClaims is the claim set the vault issues and validates. Subject is the
// account identifier; email and display name ride along as custom claims.
type jwtClaims struct {
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	jwt.RegisteredClaims
}

// JWTBackend validates HS256-signed tokens against a configured issuer,
// audience and shared secret.
type JWTBackend struct {
	secret   []byte
	issuer   string
	audience string
}

func NewJWTBackend(secret []byte, issuer, audience string) *JWTBackend {
	return &JWTBackend{secret: secret, issuer: issuer, audience: audience}
}

var _ authDomain.AuthBackend = (*JWTBackend)(nil)

func (b *JWTBackend) Validate(ctx context.Context, token string) (authDomain.AuthContext, error) {
	if token == "" {
		return authDomain.AuthContext{}, authDomain.ErrMissingToken
	}

	claims := &jwtClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return b.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(b.issuer),
		jwt.WithAudience(b.audience),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return authDomain.AuthContext{}, authDomain.ErrTokenExpired
		}
		return authDomain.AuthContext{}, authDomain.ErrInvalidCredentials
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return authDomain.AuthContext{}, authDomain.ErrInvalidCredentials
	}

	authCtx := authDomain.AuthContext{
		AccountID:   subject,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
		Method:      authDomain.MethodJWT,
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		authCtx.ExpiresAt = &t
	}
	return authCtx, nil
}

// Issue mints a signed JWT for account, used by tests and any future
// self-service token issuance flow.
func (b *JWTBackend) Issue(accountID, email, displayName string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwtClaims{
		Email:       email,
		DisplayName: displayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			Issuer:    b.issuer,
			Audience:  jwt.ClaimStrings{b.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.secret)
}
