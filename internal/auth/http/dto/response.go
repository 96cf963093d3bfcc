// Package dto provides data transfer objects for the auth HTTP layer.
package dto

import (
	"github.com/allisson/petadopt/internal/auth/usecase"
)

// TokenResponse is returned by register and login.
type TokenResponse struct {
	Token  string `json:"token"`
	Role   string `json:"role"`
	UserID int64  `json:"user_id"`
}

// MessageResponse carries a human-readable status message.
type MessageResponse struct {
	Message string `json:"message"`
}

// ToTokenResponse converts a login output to a TokenResponse DTO
func ToTokenResponse(output *usecase.LoginOutput) TokenResponse {
	return TokenResponse{
		Token:  output.Token,
		Role:   string(output.Role),
		UserID: output.AccountID,
	}
}
