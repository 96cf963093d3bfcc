// Package dto provides data transfer objects for the account HTTP layer.
package dto

import (
	"github.com/allisson/petadopt/internal/account/domain"
)

// ToAccountResponse converts a domain Account model to an AccountResponse DTO.
// This enforces the boundary between internal domain models and external API contracts.
func ToAccountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		ID:        account.ID,
		Username:  account.Username,
		Email:     account.Email,
		Role:      string(account.Role),
		FullName:  account.FullName,
		Phone:     account.Phone,
		Address:   account.Address,
		Approved:  account.Approved,
		Status:    account.Status,
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}
}

// ToAccountListResponse converts a page of domain accounts to an AccountListResponse DTO
func ToAccountListResponse(accounts []*domain.Account, offset, limit int) AccountListResponse {
	responses := make([]AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		responses = append(responses, ToAccountResponse(account))
	}
	return AccountListResponse{
		Accounts: responses,
		Offset:   offset,
		Limit:    limit,
	}
}
