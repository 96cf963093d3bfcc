// Package domain defines the core pet domain entities and types.
package domain

import (
	"time"

	"github.com/allisson/petadopt/internal/errors"
)

// Adoption statuses.
const (
	StatusAvailable = "available"
	StatusPending   = "pending"
	StatusAdopted   = "adopted"
)

// ValidStatus reports whether the status belongs to the closed set.
func ValidStatus(status string) bool {
	switch status {
	case StatusAvailable, StatusPending, StatusAdopted:
		return true
	}
	return false
}

// Pet represents an animal listed for adoption. ImagePath is the relative
// path of the uploaded photo under the uploads directory, empty when no
// photo has been uploaded yet.
type Pet struct {
	ID          int64
	Name        string
	Species     string
	Breed       string
	Age         int
	Gender      string
	Description string
	Status      string
	ImagePath   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Domain-specific errors for pet operations.
var (
	// ErrPetNotFound indicates the requested pet does not exist.
	ErrPetNotFound = errors.Wrap(errors.ErrNotFound, "pet not found")

	// ErrInvalidStatus indicates the adoption status is outside the closed set.
	ErrInvalidStatus = errors.Wrap(errors.ErrInvalidInput, "invalid adoption status")
)
