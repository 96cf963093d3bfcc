// Package usecase implements the pet business logic and orchestrates pet domain operations.
package usecase

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	"github.com/allisson/petadopt/internal/database"
	apperrors "github.com/allisson/petadopt/internal/errors"
	"github.com/allisson/petadopt/internal/pet/domain"
	appValidation "github.com/allisson/petadopt/internal/validation"
)

// PetInput contains the input data for creating or updating a pet
type PetInput struct {
	Name        string `json:"name"`
	Species     string `json:"species"`
	Breed       string `json:"breed"`
	Age         int    `json:"age"`
	Gender      string `json:"gender"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// UseCase defines the interface for pet business logic operations
type UseCase interface {
	CreatePet(ctx context.Context, input PetInput) (*domain.Pet, error)
	GetPet(ctx context.Context, id int64) (*domain.Pet, error)
	ListPets(ctx context.Context, offset, limit int) ([]*domain.Pet, error)
	UpdatePet(ctx context.Context, id int64, input PetInput) (*domain.Pet, error)
	DeletePet(ctx context.Context, id int64) error
	StorePetImage(ctx context.Context, id int64, filename string, content io.Reader) (*domain.Pet, error)
}

// PetRepository interface defines pet repository operations
type PetRepository interface {
	Create(ctx context.Context, pet *domain.Pet) error
	GetByID(ctx context.Context, id int64) (*domain.Pet, error)
	Update(ctx context.Context, pet *domain.Pet) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, offset, limit int) ([]*domain.Pet, error)
}

// PetUseCase handles pet-related business logic
type PetUseCase struct {
	txManager  database.TxManager
	petRepo    PetRepository
	uploadsDir string
}

// NewPetUseCase creates a new PetUseCase
func NewPetUseCase(txManager database.TxManager, petRepo PetRepository, uploadsDir string) UseCase {
	return &PetUseCase{
		txManager:  txManager,
		petRepo:    petRepo,
		uploadsDir: uploadsDir,
	}
}

func validatePetInput(input PetInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
		),
		validation.Field(&input.Species,
			validation.Required.Error("species is required"),
			appValidation.NotBlank,
		),
		validation.Field(&input.Age,
			validation.Min(0).Error("age cannot be negative"),
		),
		validation.Field(&input.Status,
			validation.In(
				domain.StatusAvailable,
				domain.StatusPending,
				domain.StatusAdopted,
			).Error("status must be available, pending or adopted"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// CreatePet creates a new pet listing. Status defaults to available.
func (uc *PetUseCase) CreatePet(ctx context.Context, input PetInput) (*domain.Pet, error) {
	if input.Status == "" {
		input.Status = domain.StatusAvailable
	}
	if err := validatePetInput(input); err != nil {
		return nil, err
	}

	pet := &domain.Pet{
		Name:        strings.TrimSpace(input.Name),
		Species:     strings.TrimSpace(input.Species),
		Breed:       strings.TrimSpace(input.Breed),
		Age:         input.Age,
		Gender:      strings.TrimSpace(input.Gender),
		Description: strings.TrimSpace(input.Description),
		Status:      input.Status,
	}

	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		return uc.petRepo.Create(ctx, pet)
	})
	if err != nil {
		return nil, err
	}
	return pet, nil
}

// GetPet retrieves a pet by ID
func (uc *PetUseCase) GetPet(ctx context.Context, id int64) (*domain.Pet, error) {
	return uc.petRepo.GetByID(ctx, id)
}

// ListPets retrieves pets with offset/limit pagination
func (uc *PetUseCase) ListPets(ctx context.Context, offset, limit int) ([]*domain.Pet, error) {
	return uc.petRepo.List(ctx, offset, limit)
}

// UpdatePet replaces the mutable fields of an existing pet
func (uc *PetUseCase) UpdatePet(ctx context.Context, id int64, input PetInput) (*domain.Pet, error) {
	if err := validatePetInput(input); err != nil {
		return nil, err
	}

	var pet *domain.Pet

	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		pet, err = uc.petRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		pet.Name = strings.TrimSpace(input.Name)
		pet.Species = strings.TrimSpace(input.Species)
		pet.Breed = strings.TrimSpace(input.Breed)
		pet.Age = input.Age
		pet.Gender = strings.TrimSpace(input.Gender)
		pet.Description = strings.TrimSpace(input.Description)
		pet.Status = input.Status
		return uc.petRepo.Update(ctx, pet)
	})
	if err != nil {
		return nil, err
	}
	return pet, nil
}

// DeletePet removes a pet listing
func (uc *PetUseCase) DeletePet(ctx context.Context, id int64) error {
	return uc.petRepo.Delete(ctx, id)
}

// StorePetImage saves an uploaded photo under the uploads directory with a
// random filename and records the relative path on the pet. The original
// filename only contributes its extension; its name is never trusted.
func (uc *PetUseCase) StorePetImage(
	ctx context.Context,
	id int64,
	filename string,
	content io.Reader,
) (*domain.Pet, error) {
	pet, err := uc.petRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "unsupported image type: "+ext)
	}

	if err := os.MkdirAll(uc.uploadsDir, 0o755); err != nil {
		return nil, apperrors.Wrap(err, "failed to create uploads directory")
	}

	storedName := uuid.Must(uuid.NewV7()).String() + ext
	target := filepath.Join(uc.uploadsDir, storedName)

	file, err := os.Create(target)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create image file")
	}
	if _, err := io.Copy(file, content); err != nil {
		_ = file.Close()
		_ = os.Remove(target)
		return nil, apperrors.Wrap(err, "failed to write image file")
	}
	if err := file.Close(); err != nil {
		return nil, apperrors.Wrap(err, "failed to close image file")
	}

	pet.ImagePath = storedName
	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		return uc.petRepo.Update(ctx, pet)
	})
	if err != nil {
		_ = os.Remove(target)
		return nil, err
	}
	return pet, nil
}
