// Package domain defines the core authentication types and errors.
package domain

import (
	accountDomain "github.com/allisson/petadopt/internal/account/domain"
	apperrors "github.com/allisson/petadopt/internal/errors"
)

// Authentication errors. Credential failures share one message so responses
// never reveal whether an account exists.
var (
	ErrInvalidCredentials = apperrors.Wrap(apperrors.ErrUnauthorized, "invalid credentials")
	ErrMissingToken       = apperrors.Wrap(apperrors.ErrUnauthorized, "missing bearer token")
	ErrInvalidToken       = apperrors.Wrap(apperrors.ErrUnauthorized, "invalid token")
)

// Principal is the authenticated identity attached to a request context.
type Principal struct {
	AccountID int64
	Username  string
	Email     string
	Role      accountDomain.Role
}

// Authority returns the role authority string, e.g. "ROLE_ADMIN".
func (p Principal) Authority() string {
	return p.Role.Authority()
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == accountDomain.RoleAdmin
}
