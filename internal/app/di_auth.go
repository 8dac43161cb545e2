package app

import (
	"fmt"

	authDomain "github.com/nubster-opensources/egide/internal/auth/domain"
	authService "github.com/nubster-opensources/egide/internal/auth/service"
)

// AuthBackend returns the composite authentication backend: the vault's
// root token, plus an externally-issued JWT backend when a JWT secret is
// configured.
func (c *Container) AuthBackend() (authDomain.AuthBackend, error) {
	var err error
	c.authBackendInit.Do(func() {
		c.authBackend, err = c.initAuthBackend()
		if err != nil {
			c.initErrors["authBackend"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["authBackend"]; exists {
		return nil, storedErr
	}
	return c.authBackend, nil
}

func (c *Container) initAuthBackend() (authDomain.AuthBackend, error) {
	sealUC, err := c.SealUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get seal use case for auth backend: %w", err)
	}

	backends := []authDomain.AuthBackend{authService.NewRootTokenBackend(sealUC)}

	if len(c.config.JWTSecret) > 0 {
		backends = append(backends, authService.NewJWTBackend(c.config.JWTSecret, c.config.JWTIssuer, c.config.JWTAudience))
	}

	return authService.NewCompositeBackend(backends...), nil
}
