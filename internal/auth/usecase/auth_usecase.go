package usecase

import (
	"context"
	"log/slog"
	"strings"

	validation "github.com/jellydator/validation"

	accountDomain "github.com/allisson/petadopt/internal/account/domain"
	authDomain "github.com/allisson/petadopt/internal/auth/domain"
	"github.com/allisson/petadopt/internal/auth/service"
	"github.com/allisson/petadopt/internal/database"
	apperrors "github.com/allisson/petadopt/internal/errors"
	"github.com/allisson/petadopt/internal/mailer"
	appValidation "github.com/allisson/petadopt/internal/validation"
)

// authUseCase implements AuthUseCase.
//
// The stored credential has two representations: a one-way Argon2id hash used
// for login and a reversibly encrypted copy used by the recovery flow. The
// reversible copy is a retained legacy contract; both representations always
// change together inside one transaction.
type authUseCase struct {
	txManager        database.TxManager
	accountRepo      AccountRepository
	tokenService     service.TokenService
	passwordService  service.PasswordService
	credentialCipher service.CredentialCipher
	mailer           mailer.Mailer
	logger           *slog.Logger
}

// NewAuthUseCase creates a new AuthUseCase
func NewAuthUseCase(
	txManager database.TxManager,
	accountRepo AccountRepository,
	tokenService service.TokenService,
	passwordService service.PasswordService,
	credentialCipher service.CredentialCipher,
	m mailer.Mailer,
	logger *slog.Logger,
) AuthUseCase {
	return &authUseCase{
		txManager:        txManager,
		accountRepo:      accountRepo,
		tokenService:     tokenService,
		passwordService:  passwordService,
		credentialCipher: credentialCipher,
		mailer:           m,
		logger:           logger,
	}
}

func (uc *authUseCase) validateRegisterInput(input RegisterInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Username,
			validation.Required.Error("username is required"),
			appValidation.NotBlank,
			appValidation.NoWhitespace,
			validation.Length(3, 64).Error("username must be between 3 and 64 characters"),
		),
		validation.Field(&input.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		),
		validation.Field(&input.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be between 8 and 128 characters"),
			appValidation.PasswordStrength{
				MinLength:      8,
				RequireUpper:   true,
				RequireLower:   true,
				RequireNumber:  true,
				RequireSpecial: true,
			},
		),
		validation.Field(&input.FullName,
			validation.Length(0, 255).Error("full name must be at most 255 characters"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// Register creates a new account, sends a best-effort welcome email and
// issues a bearer token.
func (uc *authUseCase) Register(ctx context.Context, input RegisterInput) (*LoginOutput, error) {
	if err := uc.validateRegisterInput(input); err != nil {
		return nil, err
	}

	role := accountDomain.RoleUser
	if input.Role != "" {
		parsed, err := accountDomain.ParseRole(strings.ToUpper(input.Role))
		if err != nil {
			return nil, err
		}
		role = parsed
	}

	hashedPassword, err := uc.passwordService.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	encryptedPassword, err := uc.credentialCipher.EncryptString(input.Password)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encrypt credential copy")
	}

	account := &accountDomain.Account{
		Username:          strings.TrimSpace(input.Username),
		Email:             strings.TrimSpace(strings.ToLower(input.Email)),
		PasswordHash:      hashedPassword,
		EncryptedPassword: encryptedPassword,
		Role:              role,
		FullName:          strings.TrimSpace(input.FullName),
		Phone:             strings.TrimSpace(input.Phone),
		Address:           strings.TrimSpace(input.Address),
		// Plain accounts are usable immediately; shelter and vet accounts
		// wait for admin approval.
		Approved: role == accountDomain.RoleUser || role == accountDomain.RoleAdmin,
		Status:   accountDomain.StatusActive,
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		return uc.accountRepo.Create(ctx, account)
	})
	if err != nil {
		return nil, err
	}

	// Welcome email is best effort; registration already succeeded.
	if err := uc.mailer.SendWelcome(ctx, account.Email, account.Username); err != nil {
		uc.logger.Warn("failed to send welcome email",
			slog.String("email", account.Email),
			slog.Any("error", err),
		)
	}

	token, err := uc.tokenService.Issue(account.Email)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		Token:     token,
		Role:      account.Role,
		AccountID: account.ID,
	}, nil
}

// Login verifies the password and issues a bearer token. Unknown accounts,
// wrong passwords and inactive accounts are indistinguishable to the caller.
func (uc *authUseCase) Login(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))

	account, err := uc.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !uc.passwordService.ComparePassword(input.Password, account.PasswordHash) {
		return nil, authDomain.ErrInvalidCredentials
	}
	if !account.Active() {
		return nil, authDomain.ErrInvalidCredentials
	}

	token, err := uc.tokenService.Issue(account.Email)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		Token:     token,
		Role:      account.Role,
		AccountID: account.ID,
	}, nil
}

// RecoverPassword delivers the account password by email. The stored
// ciphertext is decrypted when possible; otherwise a fresh password is
// generated and the hash plus the encrypted copy are replaced atomically.
// A missing account is not an error so responses cannot be used to probe
// for registered addresses.
func (uc *authUseCase) RecoverPassword(ctx context.Context, email string) error {
	normalized := strings.TrimSpace(strings.ToLower(email))

	account, err := uc.accountRepo.GetByEmail(ctx, normalized)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return err
	}

	plaintext := ""
	if account.EncryptedPassword != "" {
		plaintext, err = uc.credentialCipher.DecryptString(account.EncryptedPassword)
		if err != nil {
			uc.logger.Warn("stored credential copy is unreadable, regenerating",
				slog.Int64("account_id", account.ID),
			)
			plaintext = ""
		}
	}

	if plaintext == "" {
		plaintext, err = uc.passwordService.GeneratePassword()
		if err != nil {
			return err
		}

		hashedPassword, err := uc.passwordService.HashPassword(plaintext)
		if err != nil {
			return err
		}
		encryptedPassword, err := uc.credentialCipher.EncryptString(plaintext)
		if err != nil {
			return apperrors.Wrap(err, "failed to encrypt credential copy")
		}

		account.PasswordHash = hashedPassword
		account.EncryptedPassword = encryptedPassword

		err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
			return uc.accountRepo.Update(ctx, account)
		})
		if err != nil {
			return err
		}
	}

	if err := uc.mailer.SendPasswordRecovery(ctx, account.Email, plaintext); err != nil {
		return err
	}
	return nil
}
