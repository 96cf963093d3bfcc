// Package dto provides data transfer objects for the pet HTTP layer.
package dto

import (
	"time"

	"github.com/allisson/petadopt/internal/pet/domain"
	"github.com/allisson/petadopt/internal/pet/usecase"
)

// PetRequest represents the API request for creating or updating a pet
type PetRequest struct {
	Name        string `json:"name"`
	Species     string `json:"species"`
	Breed       string `json:"breed"`
	Age         int    `json:"age"`
	Gender      string `json:"gender"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// PetResponse represents a pet in API responses
type PetResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Species     string    `json:"species"`
	Breed       string    `json:"breed"`
	Age         int       `json:"age"`
	Gender      string    `json:"gender"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PetListResponse represents a paginated list of pets
type PetListResponse struct {
	Pets   []PetResponse `json:"pets"`
	Offset int           `json:"offset"`
	Limit  int           `json:"limit"`
}

// ToPetInput converts a PetRequest DTO to a PetInput use case input
func ToPetInput(req PetRequest) usecase.PetInput {
	return usecase.PetInput{
		Name:        req.Name,
		Species:     req.Species,
		Breed:       req.Breed,
		Age:         req.Age,
		Gender:      req.Gender,
		Description: req.Description,
		Status:      req.Status,
	}
}

// ToPetResponse converts a domain Pet model to a PetResponse DTO
func ToPetResponse(pet *domain.Pet) PetResponse {
	imageURL := ""
	if pet.ImagePath != "" {
		imageURL = "/uploads/" + pet.ImagePath
	}
	return PetResponse{
		ID:          pet.ID,
		Name:        pet.Name,
		Species:     pet.Species,
		Breed:       pet.Breed,
		Age:         pet.Age,
		Gender:      pet.Gender,
		Description: pet.Description,
		Status:      pet.Status,
		ImageURL:    imageURL,
		CreatedAt:   pet.CreatedAt,
		UpdatedAt:   pet.UpdatedAt,
	}
}

// ToPetListResponse converts a page of domain pets to a PetListResponse DTO
func ToPetListResponse(pets []*domain.Pet, offset, limit int) PetListResponse {
	responses := make([]PetResponse, 0, len(pets))
	for _, pet := range pets {
		responses = append(responses, ToPetResponse(pet))
	}
	return PetListResponse{
		Pets:   responses,
		Offset: offset,
		Limit:  limit,
	}
}
