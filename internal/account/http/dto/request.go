// Package dto provides data transfer objects for the account HTTP layer.
package dto

import (
	validation "github.com/jellydator/validation"

	appValidation "github.com/allisson/petadopt/internal/validation"
)

// SetStatusRequest represents the API request for activating or deactivating an account
type SetStatusRequest struct {
	Status string `json:"status"`
}

// Validate validates the SetStatusRequest
func (r *SetStatusRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Status,
			validation.Required.Error("status is required"),
			validation.In("active", "inactive").Error("status must be active or inactive"),
		),
	)
	return appValidation.WrapValidationError(err)
}
