package app

import (
	"fmt"

	secretsHTTP "github.com/nubster-opensources/egide/internal/secrets/http"
	secretsRepository "github.com/nubster-opensources/egide/internal/secrets/repository"
	secretsUsecase "github.com/nubster-opensources/egide/internal/secrets/usecase"
)

// SecretRepository returns the SQLite-backed secrets metadata store.
func (c *Container) SecretRepository() (secretsUsecase.SecretRepository, error) {
	var err error
	c.secretRepositoryInit.Do(func() {
		c.secretRepository, err = c.initSecretRepository()
		if err != nil {
			c.initErrors["secretRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["secretRepository"]; exists {
		return nil, storedErr
	}
	return c.secretRepository, nil
}

func (c *Container) initSecretRepository() (secretsUsecase.SecretRepository, error) {
	backend, err := c.SecretsBackend()
	if err != nil {
		return nil, fmt.Errorf("failed to get secrets backend for secret repository: %w", err)
	}
	repo, err := secretsRepository.NewSQLiteSecretRepository(c.ctx, backend.DB())
	if err != nil {
		return nil, fmt.Errorf("failed to create secret repository: %w", err)
	}
	return repo, nil
}

// SecretUseCase returns the key/value secrets engine, wrapped with business
// metrics recording.
func (c *Container) SecretUseCase() (secretsUsecase.UseCase, error) {
	var err error
	c.secretUseCaseInit.Do(func() {
		c.secretUseCase, err = c.initSecretUseCase()
		if err != nil {
			c.initErrors["secretUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["secretUseCase"]; exists {
		return nil, storedErr
	}
	return c.secretUseCase, nil
}

func (c *Container) initSecretUseCase() (secretsUsecase.UseCase, error) {
	repo, err := c.SecretRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret repository for secret use case: %w", err)
	}
	sealUC, err := c.SealUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get seal use case for secret use case: %w", err)
	}
	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for secret use case: %w", err)
	}

	useCase := secretsUsecase.New(repo, sealUC)
	return secretsUsecase.NewUseCaseWithMetrics(useCase, businessMetrics), nil
}

// SecretHandler returns the HTTP handler for the key/value secrets engine.
func (c *Container) SecretHandler() (*secretsHTTP.SecretHandler, error) {
	var err error
	c.secretHandlerInit.Do(func() {
		c.secretHandler, err = c.initSecretHandler()
		if err != nil {
			c.initErrors["secretHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["secretHandler"]; exists {
		return nil, storedErr
	}
	return c.secretHandler, nil
}

func (c *Container) initSecretHandler() (*secretsHTTP.SecretHandler, error) {
	useCase, err := c.SecretUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret use case for secret handler: %w", err)
	}
	return secretsHTTP.NewSecretHandler(useCase, c.Logger()), nil
}
