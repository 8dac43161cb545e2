package app

import (
	"fmt"

	transitHTTP "github.com/nubster-opensources/egide/internal/transit/http"
	transitRepository "github.com/nubster-opensources/egide/internal/transit/repository"
	transitUsecase "github.com/nubster-opensources/egide/internal/transit/usecase"
)

// TransitKeyRepository returns the SQLite-backed transit key metadata store.
func (c *Container) TransitKeyRepository() (transitUsecase.KeyRepository, error) {
	var err error
	c.transitKeyRepositoryInit.Do(func() {
		c.transitKeyRepository, err = c.initTransitKeyRepository()
		if err != nil {
			c.initErrors["transitKeyRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["transitKeyRepository"]; exists {
		return nil, storedErr
	}
	return c.transitKeyRepository, nil
}

func (c *Container) initTransitKeyRepository() (transitUsecase.KeyRepository, error) {
	backend, err := c.TransitBackend()
	if err != nil {
		return nil, fmt.Errorf("failed to get transit backend for key repository: %w", err)
	}
	repo, err := transitRepository.NewSQLiteTransitKeyRepository(c.ctx, backend.DB())
	if err != nil {
		return nil, fmt.Errorf("failed to create transit key repository: %w", err)
	}
	return repo, nil
}

// TransitUseCase returns the transit encryption-as-a-service engine, wrapped
// with business metrics recording.
func (c *Container) TransitUseCase() (transitUsecase.UseCase, error) {
	var err error
	c.transitUseCaseInit.Do(func() {
		c.transitUseCase, err = c.initTransitUseCase()
		if err != nil {
			c.initErrors["transitUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["transitUseCase"]; exists {
		return nil, storedErr
	}
	return c.transitUseCase, nil
}

func (c *Container) initTransitUseCase() (transitUsecase.UseCase, error) {
	repo, err := c.TransitKeyRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get transit key repository for transit use case: %w", err)
	}
	sealUC, err := c.SealUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get seal use case for transit use case: %w", err)
	}
	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for transit use case: %w", err)
	}

	useCase := transitUsecase.New(repo, sealUC)
	return transitUsecase.NewUseCaseWithMetrics(useCase, businessMetrics), nil
}

// TransitKeyHandler returns the HTTP handler for transit key lifecycle
// endpoints.
func (c *Container) TransitKeyHandler() (*transitHTTP.TransitKeyHandler, error) {
	var err error
	c.transitKeyHandlerInit.Do(func() {
		c.transitKeyHandler, err = c.initTransitKeyHandler()
		if err != nil {
			c.initErrors["transitKeyHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["transitKeyHandler"]; exists {
		return nil, storedErr
	}
	return c.transitKeyHandler, nil
}

func (c *Container) initTransitKeyHandler() (*transitHTTP.TransitKeyHandler, error) {
	useCase, err := c.TransitUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get transit use case for transit key handler: %w", err)
	}
	return transitHTTP.NewTransitKeyHandler(useCase, c.Logger()), nil
}

// CryptoHandler returns the HTTP handler for encrypt/decrypt/rewrap/datakey
// endpoints.
func (c *Container) CryptoHandler() (*transitHTTP.CryptoHandler, error) {
	var err error
	c.cryptoHandlerInit.Do(func() {
		c.cryptoHandler, err = c.initCryptoHandler()
		if err != nil {
			c.initErrors["cryptoHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["cryptoHandler"]; exists {
		return nil, storedErr
	}
	return c.cryptoHandler, nil
}

func (c *Container) initCryptoHandler() (*transitHTTP.CryptoHandler, error) {
	useCase, err := c.TransitUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get transit use case for crypto handler: %w", err)
	}
	return transitHTTP.NewCryptoHandler(useCase, c.Logger()), nil
}
