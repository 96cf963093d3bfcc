package usecase

import (
	"context"

	authDomain "github.com/allisson/petadopt/internal/auth/domain"
	apperrors "github.com/allisson/petadopt/internal/errors"
)

// identityUseCase implements IdentityUseCase.
type identityUseCase struct {
	accountRepo AccountRepository
}

// NewIdentityUseCase creates a new IdentityUseCase
func NewIdentityUseCase(accountRepo AccountRepository) IdentityUseCase {
	return &identityUseCase{accountRepo: accountRepo}
}

// ResolveSubject looks up an account by email first, then falls back to
// username. Both misses and storage-level not-found collapse to the uniform
// invalid-credentials error; anything else is a real failure and propagates.
func (uc *identityUseCase) ResolveSubject(
	ctx context.Context,
	subject string,
) (*authDomain.Principal, error) {
	account, err := uc.accountRepo.GetByEmail(ctx, subject)
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		account, err = uc.accountRepo.GetByUsername(ctx, subject)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrNotFound) {
				return nil, authDomain.ErrInvalidCredentials
			}
			return nil, err
		}
	}

	return &authDomain.Principal{
		AccountID: account.ID,
		Username:  account.Username,
		Email:     account.Email,
		Role:      account.Role,
	}, nil
}
