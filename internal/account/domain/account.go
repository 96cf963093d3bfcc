// Package domain defines the core account domain entities and types.
package domain

import (
	"time"

	"github.com/allisson/petadopt/internal/errors"
)

// Role is the closed set of account roles. Keeping this an enumeration (rather
// than a free-form string) means a typo can never silently grant or deny access.
type Role string

// Account roles.
const (
	RoleAdmin   Role = "ADMIN"
	RoleUser    Role = "USER"
	RoleShelter Role = "SHELTER"
	RoleVet     Role = "VET"
)

// ParseRole converts a string into a Role, rejecting anything outside the
// closed set.
func ParseRole(value string) (Role, error) {
	switch Role(value) {
	case RoleAdmin, RoleUser, RoleShelter, RoleVet:
		return Role(value), nil
	default:
		return "", errors.Wrap(errors.ErrInvalidInput, "unknown role: "+value)
	}
}

// Valid reports whether the role belongs to the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleShelter, RoleVet:
		return true
	}
	return false
}

// Authority returns the role-derived authority tag attached to an
// authenticated principal.
func (r Role) Authority() string {
	return "ROLE_" + string(r)
}

// Account statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Account represents a registered account. PasswordHash holds the one-way
// Argon2id hash and never leaves the persistence boundary. EncryptedPassword
// holds the reversibly-encrypted copy used by the credential recovery flow;
// it is empty for legacy records created before the copy was introduced.
type Account struct {
	ID                int64
	Username          string
	Email             string
	PasswordHash      string
	EncryptedPassword string
	Role              Role
	FullName          string
	Phone             string
	Address           string
	Approved          bool
	Status            string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Active reports whether the account may authenticate.
func (a *Account) Active() bool {
	return a.Status == StatusActive
}

// Domain-specific errors for account operations.
var (
	// ErrAccountNotFound indicates the requested account does not exist.
	ErrAccountNotFound = errors.Wrap(errors.ErrNotFound, "account not found")

	// ErrAccountAlreadyExists indicates an account with the same email already exists.
	ErrAccountAlreadyExists = errors.Wrap(errors.ErrConflict, "account already exists")

	// ErrInvalidRole indicates the role is outside the closed set.
	ErrInvalidRole = errors.Wrap(errors.ErrInvalidInput, "invalid role")
)
