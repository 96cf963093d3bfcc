// Package usecase implements the account business logic and orchestrates account domain operations.
package usecase

import (
	"context"

	"github.com/allisson/petadopt/internal/account/domain"
	"github.com/allisson/petadopt/internal/database"
	apperrors "github.com/allisson/petadopt/internal/errors"
)

// UseCase defines the interface for account business logic operations
type UseCase interface {
	GetAccount(ctx context.Context, id int64) (*domain.Account, error)
	ListAccounts(ctx context.Context, offset, limit int) ([]*domain.Account, error)
	ApproveAccount(ctx context.Context, id int64) (*domain.Account, error)
	SetAccountStatus(ctx context.Context, id int64, status string) (*domain.Account, error)
}

// AccountRepository interface defines account repository operations
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)
	Update(ctx context.Context, account *domain.Account) error
	List(ctx context.Context, offset, limit int) ([]*domain.Account, error)
}

// AccountUseCase handles account-related business logic
type AccountUseCase struct {
	txManager   database.TxManager
	accountRepo AccountRepository
}

// NewAccountUseCase creates a new AccountUseCase
func NewAccountUseCase(txManager database.TxManager, accountRepo AccountRepository) UseCase {
	return &AccountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
	}
}

// GetAccount retrieves an account by ID
func (uc *AccountUseCase) GetAccount(ctx context.Context, id int64) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// ListAccounts retrieves accounts with offset/limit pagination
func (uc *AccountUseCase) ListAccounts(
	ctx context.Context,
	offset, limit int,
) ([]*domain.Account, error) {
	return uc.accountRepo.List(ctx, offset, limit)
}

// ApproveAccount marks an account as approved. The read and the write run in
// the same transaction so a concurrent update cannot be lost.
func (uc *AccountUseCase) ApproveAccount(ctx context.Context, id int64) (*domain.Account, error) {
	var account *domain.Account

	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		account, err = uc.accountRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if account.Approved {
			return nil
		}
		account.Approved = true
		return uc.accountRepo.Update(ctx, account)
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// SetAccountStatus activates or deactivates an account
func (uc *AccountUseCase) SetAccountStatus(
	ctx context.Context,
	id int64,
	status string,
) (*domain.Account, error) {
	if status != domain.StatusActive && status != domain.StatusInactive {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "status must be active or inactive")
	}

	var account *domain.Account

	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		account, err = uc.accountRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		account.Status = status
		return uc.accountRepo.Update(ctx, account)
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}
