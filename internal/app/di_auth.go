package app

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"

	authHTTP "github.com/allisson/petadopt/internal/auth/http"
	"github.com/allisson/petadopt/internal/auth/policy"
	authService "github.com/allisson/petadopt/internal/auth/service"
	authUseCase "github.com/allisson/petadopt/internal/auth/usecase"
	"github.com/allisson/petadopt/internal/mailer"
)

// authComponents groups the authentication dependencies inside the container.
type authComponents struct {
	matcher          *policy.Matcher
	tokenService     authService.TokenService
	passwordService  authService.PasswordService
	credentialCipher authService.CredentialCipher
	mailer           mailer.Mailer
	authUseCase      authUseCase.AuthUseCase
	identityUseCase  authUseCase.IdentityUseCase
	authHandler      *authHTTP.AuthHandler

	matcherInit          sync.Once
	tokenServiceInit     sync.Once
	passwordServiceInit  sync.Once
	credentialCipherInit sync.Once
	mailerInit           sync.Once
	authUseCaseInit      sync.Once
	identityUseCaseInit  sync.Once
	authHandlerInit      sync.Once
}

// Matcher returns the route policy matcher.
func (c *Container) Matcher() *policy.Matcher {
	c.auth.matcherInit.Do(func() {
		c.auth.matcher = policy.NewDefaultMatcher()
	})
	return c.auth.matcher
}

// TokenService returns the bearer token service.
func (c *Container) TokenService() authService.TokenService {
	c.auth.tokenServiceInit.Do(func() {
		c.auth.tokenService = authService.NewJWTTokenService(
			c.config.AuthJWTSecret,
			c.config.AuthTokenExpiration,
		)
	})
	return c.auth.tokenService
}

// PasswordService returns the password hashing and generation service.
func (c *Container) PasswordService() (authService.PasswordService, error) {
	c.auth.passwordServiceInit.Do(func() {
		service, err := authService.NewPasswordService()
		if err != nil {
			c.initErrors["passwordService"] = fmt.Errorf("failed to create password service: %w", err)
			return
		}
		c.auth.passwordService = service
	})
	if storedErr, exists := c.initErrors["passwordService"]; exists {
		return nil, storedErr
	}
	return c.auth.passwordService, nil
}

// CredentialCipher returns the AEAD cipher used for the reversible credential copy.
// The key comes from configuration directly, or is unwrapped through a KMS
// keeper when a key URI is configured.
func (c *Container) CredentialCipher() (authService.CredentialCipher, error) {
	c.auth.credentialCipherInit.Do(func() {
		key, err := c.credentialCipherKey()
		if err != nil {
			c.initErrors["credentialCipher"] = err
			return
		}
		cipher, err := authService.NewCredentialCipher(c.config.CredentialCipherAlgorithm, key)
		if err != nil {
			c.initErrors["credentialCipher"] = fmt.Errorf("failed to create credential cipher: %w", err)
			return
		}
		c.auth.credentialCipher = cipher
	})
	if storedErr, exists := c.initErrors["credentialCipher"]; exists {
		return nil, storedErr
	}
	return c.auth.credentialCipher, nil
}

func (c *Container) credentialCipherKey() ([]byte, error) {
	if c.config.CredentialKMSKeyURI != "" {
		key, err := authService.NewKMSKeyService().UnwrapKey(
			context.Background(),
			c.config.CredentialKMSKeyURI,
			c.config.CredentialCipherWrappedKey,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to unwrap credential cipher key: %w", err)
		}
		return key, nil
	}

	key, err := base64.StdEncoding.DecodeString(c.config.CredentialCipherKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode credential cipher key: %w", err)
	}
	return key, nil
}

// Mailer returns the outbound email sender.
func (c *Container) Mailer() mailer.Mailer {
	c.auth.mailerInit.Do(func() {
		c.auth.mailer = mailer.NewMailer(c.config, c.Logger())
	})
	return c.auth.mailer
}

// AuthUseCase returns the authentication use case instance.
func (c *Container) AuthUseCase() (authUseCase.AuthUseCase, error) {
	c.auth.authUseCaseInit.Do(func() {
		useCase, err := c.initAuthUseCase()
		if err != nil {
			c.initErrors["authUseCase"] = err
			return
		}
		c.auth.authUseCase = useCase
	})
	if storedErr, exists := c.initErrors["authUseCase"]; exists {
		return nil, storedErr
	}
	return c.auth.authUseCase, nil
}

func (c *Container) initAuthUseCase() (authUseCase.AuthUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for auth use case: %w", err)
	}

	accountRepo, err := c.AccountRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get account repository for auth use case: %w", err)
	}

	passwordService, err := c.PasswordService()
	if err != nil {
		return nil, fmt.Errorf("failed to get password service for auth use case: %w", err)
	}

	credentialCipher, err := c.CredentialCipher()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential cipher for auth use case: %w", err)
	}

	return authUseCase.NewAuthUseCase(
		txManager,
		accountRepo,
		c.TokenService(),
		passwordService,
		credentialCipher,
		c.Mailer(),
		c.Logger(),
	), nil
}

// IdentityUseCase returns the identity resolution use case instance.
func (c *Container) IdentityUseCase() (authUseCase.IdentityUseCase, error) {
	c.auth.identityUseCaseInit.Do(func() {
		accountRepo, err := c.AccountRepository()
		if err != nil {
			c.initErrors["identityUseCase"] = fmt.Errorf(
				"failed to get account repository for identity use case: %w", err,
			)
			return
		}
		c.auth.identityUseCase = authUseCase.NewIdentityUseCase(accountRepo)
	})
	if storedErr, exists := c.initErrors["identityUseCase"]; exists {
		return nil, storedErr
	}
	return c.auth.identityUseCase, nil
}

// AuthHandler returns the auth HTTP handler instance.
func (c *Container) AuthHandler() (*authHTTP.AuthHandler, error) {
	c.auth.authHandlerInit.Do(func() {
		useCase, err := c.AuthUseCase()
		if err != nil {
			c.initErrors["authHandler"] = fmt.Errorf("failed to get auth use case for auth handler: %w", err)
			return
		}
		c.auth.authHandler = authHTTP.NewAuthHandler(useCase, c.Logger())
	})
	if storedErr, exists := c.initErrors["authHandler"]; exists {
		return nil, storedErr
	}
	return c.auth.authHandler, nil
}
