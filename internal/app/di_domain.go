package app

import (
	"fmt"
	"sync"

	accountHTTP "github.com/allisson/petadopt/internal/account/http"
	accountRepository "github.com/allisson/petadopt/internal/account/repository"
	accountUsecase "github.com/allisson/petadopt/internal/account/usecase"
	blogHTTP "github.com/allisson/petadopt/internal/blog/http"
	blogRepository "github.com/allisson/petadopt/internal/blog/repository"
	blogUsecase "github.com/allisson/petadopt/internal/blog/usecase"
	petHTTP "github.com/allisson/petadopt/internal/pet/http"
	petRepository "github.com/allisson/petadopt/internal/pet/repository"
	petUsecase "github.com/allisson/petadopt/internal/pet/usecase"
)

// domainComponents groups the account, pet and blog dependencies inside the container.
type domainComponents struct {
	accountRepo    accountUsecase.AccountRepository
	petRepo        petUsecase.PetRepository
	blogRepo       blogUsecase.BlogRepository
	accountUseCase accountUsecase.UseCase
	petUseCase     petUsecase.UseCase
	blogUseCase    blogUsecase.UseCase
	accountHandler *accountHTTP.AccountHandler
	petHandler     *petHTTP.PetHandler
	blogHandler    *blogHTTP.BlogHandler

	accountRepoInit    sync.Once
	petRepoInit        sync.Once
	blogRepoInit       sync.Once
	accountUseCaseInit sync.Once
	petUseCaseInit     sync.Once
	blogUseCaseInit    sync.Once
	accountHandlerInit sync.Once
	petHandlerInit     sync.Once
	blogHandlerInit    sync.Once
}

// AccountRepository returns the account repository instance.
func (c *Container) AccountRepository() (accountUsecase.AccountRepository, error) {
	c.domain.accountRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["accountRepo"] = fmt.Errorf("failed to get database for account repository: %w", err)
			return
		}

		// Select the appropriate repository based on the database driver
		switch c.config.DBDriver {
		case "mysql":
			c.domain.accountRepo = accountRepository.NewMySQLAccountRepository(db)
		case "postgres":
			c.domain.accountRepo = accountRepository.NewPostgreSQLAccountRepository(db)
		default:
			c.initErrors["accountRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["accountRepo"]; exists {
		return nil, storedErr
	}
	return c.domain.accountRepo, nil
}

// PetRepository returns the pet repository instance.
func (c *Container) PetRepository() (petUsecase.PetRepository, error) {
	c.domain.petRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["petRepo"] = fmt.Errorf("failed to get database for pet repository: %w", err)
			return
		}

		switch c.config.DBDriver {
		case "mysql":
			c.domain.petRepo = petRepository.NewMySQLPetRepository(db)
		case "postgres":
			c.domain.petRepo = petRepository.NewPostgreSQLPetRepository(db)
		default:
			c.initErrors["petRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["petRepo"]; exists {
		return nil, storedErr
	}
	return c.domain.petRepo, nil
}

// BlogRepository returns the blog repository instance.
func (c *Container) BlogRepository() (blogUsecase.BlogRepository, error) {
	c.domain.blogRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["blogRepo"] = fmt.Errorf("failed to get database for blog repository: %w", err)
			return
		}

		switch c.config.DBDriver {
		case "mysql":
			c.domain.blogRepo = blogRepository.NewMySQLBlogRepository(db)
		case "postgres":
			c.domain.blogRepo = blogRepository.NewPostgreSQLBlogRepository(db)
		default:
			c.initErrors["blogRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["blogRepo"]; exists {
		return nil, storedErr
	}
	return c.domain.blogRepo, nil
}

// AccountUseCase returns the account use case instance.
func (c *Container) AccountUseCase() (accountUsecase.UseCase, error) {
	c.domain.accountUseCaseInit.Do(func() {
		txManager, err := c.TxManager()
		if err != nil {
			c.initErrors["accountUseCase"] = fmt.Errorf("failed to get tx manager for account use case: %w", err)
			return
		}
		accountRepo, err := c.AccountRepository()
		if err != nil {
			c.initErrors["accountUseCase"] = fmt.Errorf(
				"failed to get account repository for account use case: %w", err,
			)
			return
		}
		c.domain.accountUseCase = accountUsecase.NewAccountUseCase(txManager, accountRepo)
	})
	if storedErr, exists := c.initErrors["accountUseCase"]; exists {
		return nil, storedErr
	}
	return c.domain.accountUseCase, nil
}

// PetUseCase returns the pet use case instance.
func (c *Container) PetUseCase() (petUsecase.UseCase, error) {
	c.domain.petUseCaseInit.Do(func() {
		txManager, err := c.TxManager()
		if err != nil {
			c.initErrors["petUseCase"] = fmt.Errorf("failed to get tx manager for pet use case: %w", err)
			return
		}
		petRepo, err := c.PetRepository()
		if err != nil {
			c.initErrors["petUseCase"] = fmt.Errorf("failed to get pet repository for pet use case: %w", err)
			return
		}
		c.domain.petUseCase = petUsecase.NewPetUseCase(txManager, petRepo, c.config.UploadsDir)
	})
	if storedErr, exists := c.initErrors["petUseCase"]; exists {
		return nil, storedErr
	}
	return c.domain.petUseCase, nil
}

// BlogUseCase returns the blog use case instance.
func (c *Container) BlogUseCase() (blogUsecase.UseCase, error) {
	c.domain.blogUseCaseInit.Do(func() {
		txManager, err := c.TxManager()
		if err != nil {
			c.initErrors["blogUseCase"] = fmt.Errorf("failed to get tx manager for blog use case: %w", err)
			return
		}
		blogRepo, err := c.BlogRepository()
		if err != nil {
			c.initErrors["blogUseCase"] = fmt.Errorf("failed to get blog repository for blog use case: %w", err)
			return
		}
		c.domain.blogUseCase = blogUsecase.NewBlogUseCase(txManager, blogRepo, c.config.UploadsDir)
	})
	if storedErr, exists := c.initErrors["blogUseCase"]; exists {
		return nil, storedErr
	}
	return c.domain.blogUseCase, nil
}

// AccountHandler returns the account HTTP handler instance.
func (c *Container) AccountHandler() (*accountHTTP.AccountHandler, error) {
	c.domain.accountHandlerInit.Do(func() {
		useCase, err := c.AccountUseCase()
		if err != nil {
			c.initErrors["accountHandler"] = fmt.Errorf(
				"failed to get account use case for account handler: %w", err,
			)
			return
		}
		c.domain.accountHandler = accountHTTP.NewAccountHandler(useCase, c.Logger())
	})
	if storedErr, exists := c.initErrors["accountHandler"]; exists {
		return nil, storedErr
	}
	return c.domain.accountHandler, nil
}

// PetHandler returns the pet HTTP handler instance.
func (c *Container) PetHandler() (*petHTTP.PetHandler, error) {
	c.domain.petHandlerInit.Do(func() {
		useCase, err := c.PetUseCase()
		if err != nil {
			c.initErrors["petHandler"] = fmt.Errorf("failed to get pet use case for pet handler: %w", err)
			return
		}
		c.domain.petHandler = petHTTP.NewPetHandler(useCase, c.Logger())
	})
	if storedErr, exists := c.initErrors["petHandler"]; exists {
		return nil, storedErr
	}
	return c.domain.petHandler, nil
}

// BlogHandler returns the blog HTTP handler instance.
func (c *Container) BlogHandler() (*blogHTTP.BlogHandler, error) {
	c.domain.blogHandlerInit.Do(func() {
		useCase, err := c.BlogUseCase()
		if err != nil {
			c.initErrors["blogHandler"] = fmt.Errorf("failed to get blog use case for blog handler: %w", err)
			return
		}
		c.domain.blogHandler = blogHTTP.NewBlogHandler(useCase, c.Logger())
	})
	if storedErr, exists := c.initErrors["blogHandler"]; exists {
		return nil, storedErr
	}
	return c.domain.blogHandler, nil
}
