package commands

import (
	"context"
	"fmt"
	"strings"

	accountDomain "github.com/allisson/petadopt/internal/account/domain"
	"github.com/allisson/petadopt/internal/app"
	"github.com/allisson/petadopt/internal/config"
)

// RunCreateAdmin creates an administrator account. When password is empty a
// random one is generated and printed to the writer.
func RunCreateAdmin(ctx context.Context, username, email, password string, io IOTuple) error {
	cfg := config.Load()

	container := app.NewContainer(cfg)
	logger := container.Logger()

	defer closeContainer(container, logger)

	txManager, err := container.TxManager()
	if err != nil {
		return fmt.Errorf("failed to get tx manager: %w", err)
	}

	accountRepo, err := container.AccountRepository()
	if err != nil {
		return fmt.Errorf("failed to get account repository: %w", err)
	}

	passwordService, err := container.PasswordService()
	if err != nil {
		return fmt.Errorf("failed to get password service: %w", err)
	}

	credentialCipher, err := container.CredentialCipher()
	if err != nil {
		return fmt.Errorf("failed to get credential cipher: %w", err)
	}

	generated := false
	if password == "" {
		password, err = passwordService.GeneratePassword()
		if err != nil {
			return fmt.Errorf("failed to generate password: %w", err)
		}
		generated = true
	}

	passwordHash, err := passwordService.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	encryptedPassword, err := credentialCipher.EncryptString(password)
	if err != nil {
		return fmt.Errorf("failed to encrypt password: %w", err)
	}

	account := &accountDomain.Account{
		Username:          strings.TrimSpace(username),
		Email:             strings.ToLower(strings.TrimSpace(email)),
		PasswordHash:      passwordHash,
		EncryptedPassword: encryptedPassword,
		Role:              accountDomain.RoleAdmin,
		Approved:          true,
		Status:            accountDomain.StatusActive,
	}

	err = txManager.WithTx(ctx, func(ctx context.Context) error {
		return accountRepo.Create(ctx, account)
	})
	if err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	fmt.Fprintf(io.Writer, "Admin account created:\n")
	fmt.Fprintf(io.Writer, "  ID:       %d\n", account.ID)
	fmt.Fprintf(io.Writer, "  Username: %s\n", account.Username)
	fmt.Fprintf(io.Writer, "  Email:    %s\n", account.Email)
	if generated {
		fmt.Fprintf(io.Writer, "  Password: %s\n", password)
	}

	return nil
}
