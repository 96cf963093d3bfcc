// Package usecase implements the authentication business logic: registration,
// login, identity resolution and the credential recovery flow.
package usecase

import (
	"context"

	accountDomain "github.com/allisson/petadopt/internal/account/domain"
	authDomain "github.com/allisson/petadopt/internal/auth/domain"
)

// RegisterInput contains the input data for account registration
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// LoginInput contains the input data for login
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginOutput is the result of a successful login
type LoginOutput struct {
	Token     string
	Role      accountDomain.Role
	AccountID int64
}

// AuthUseCase defines the authentication business logic operations
type AuthUseCase interface {
	// Register creates a new account and issues a bearer token.
	Register(ctx context.Context, input RegisterInput) (*LoginOutput, error)

	// Login verifies credentials and issues a bearer token.
	Login(ctx context.Context, input LoginInput) (*LoginOutput, error)

	// RecoverPassword delivers the account password by email. It succeeds
	// silently when the account does not exist.
	RecoverPassword(ctx context.Context, email string) error
}

// IdentityUseCase resolves a token subject into an authenticated principal.
type IdentityUseCase interface {
	// ResolveSubject looks up an account by email first, then by username.
	// Misses collapse to a uniform invalid-credentials error.
	ResolveSubject(ctx context.Context, subject string) (*authDomain.Principal, error)
}

// AccountRepository defines the account persistence operations the auth
// flows depend on.
type AccountRepository interface {
	Create(ctx context.Context, account *accountDomain.Account) error
	GetByEmail(ctx context.Context, email string) (*accountDomain.Account, error)
	GetByUsername(ctx context.Context, username string) (*accountDomain.Account, error)
	Update(ctx context.Context, account *accountDomain.Account) error
}
