// Package dto provides data transfer objects for the account HTTP layer.
package dto

import (
	"time"
)

// AccountResponse represents an account in API responses. Credential material
// never leaves the domain model.
type AccountResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Approved  bool      `json:"approved"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AccountListResponse represents a paginated list of accounts
type AccountListResponse struct {
	Accounts []AccountResponse `json:"accounts"`
	Offset   int               `json:"offset"`
	Limit    int               `json:"limit"`
}
