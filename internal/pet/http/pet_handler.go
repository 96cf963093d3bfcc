// Package http provides HTTP handlers for pet listing operations.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/allisson/petadopt/internal/httputil"
	"github.com/allisson/petadopt/internal/pet/http/dto"
	"github.com/allisson/petadopt/internal/pet/usecase"
)

// maxImageUploadBytes caps pet photo uploads at 5 MiB.
const maxImageUploadBytes = 5 << 20

// PetHandler handles pet-related HTTP requests
type PetHandler struct {
	petUseCase usecase.UseCase
	logger     *slog.Logger
}

// NewPetHandler creates a new PetHandler
func NewPetHandler(petUseCase usecase.UseCase, logger *slog.Logger) *PetHandler {
	return &PetHandler{
		petUseCase: petUseCase,
		logger:     logger,
	}
}

// ListHandler returns a paginated list of pets.
// GET /api/pets?offset=N&limit=N
func (h *PetHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	pets, err := h.petUseCase.ListPets(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToPetListResponse(pets, offset, limit))
}

// GetHandler returns a single pet by ID.
// GET /api/pets/:id
func (h *PetHandler) GetHandler(c *gin.Context) {
	id, err := parsePetID(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	pet, err := h.petUseCase.GetPet(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToPetResponse(pet))
}

// CreateHandler creates a new pet listing.
// POST /api/pets
func (h *PetHandler) CreateHandler(c *gin.Context) {
	var req dto.PetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	pet, err := h.petUseCase.CreatePet(c.Request.Context(), dto.ToPetInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.ToPetResponse(pet))
}

// UpdateHandler replaces a pet listing.
// PUT /api/pets/:id
func (h *PetHandler) UpdateHandler(c *gin.Context) {
	id, err := parsePetID(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	var req dto.PetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	pet, err := h.petUseCase.UpdatePet(c.Request.Context(), id, dto.ToPetInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToPetResponse(pet))
}

// DeleteHandler removes a pet listing.
// DELETE /api/pets/:id
func (h *PetHandler) DeleteHandler(c *gin.Context) {
	id, err := parsePetID(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := h.petUseCase.DeletePet(c.Request.Context(), id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// UploadImageHandler stores a pet photo from a multipart form field "image".
// POST /api/pets/:id/image
func (h *PetHandler) UploadImageHandler(c *gin.Context) {
	id, err := parsePetID(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageUploadBytes)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("image file is required"), h.logger)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	defer func() { _ = file.Close() }()

	pet, err := h.petUseCase.StorePetImage(c.Request.Context(), id, fileHeader.Filename, file)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToPetResponse(pet))
}

func parsePetID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid pet id")
	}
	return id, nil
}
