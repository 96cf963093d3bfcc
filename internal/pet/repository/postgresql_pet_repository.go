// Package repository provides data persistence implementations for pet entities.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/petadopt/internal/database"
	"github.com/allisson/petadopt/internal/pet/domain"

	apperrors "github.com/allisson/petadopt/internal/errors"
)

// PostgreSQLPetRepository handles pet persistence for PostgreSQL
type PostgreSQLPetRepository struct {
	db *sql.DB
}

// NewPostgreSQLPetRepository creates a new PostgreSQLPetRepository
func NewPostgreSQLPetRepository(db *sql.DB) *PostgreSQLPetRepository {
	return &PostgreSQLPetRepository{
		db: db,
	}
}

const pgPetColumns = `id, name, species, breed, age, gender, description, status,
			  image_path, created_at, updated_at`

// Create inserts a new pet and fills in its system-assigned ID.
func (r *PostgreSQLPetRepository) Create(ctx context.Context, pet *domain.Pet) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO pets (name, species, breed, age, gender, description, status,
			  image_path, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
			  RETURNING id`

	err := querier.QueryRowContext(ctx, query,
		pet.Name, pet.Species, pet.Breed, pet.Age, pet.Gender,
		pet.Description, pet.Status, pet.ImagePath,
	).Scan(&pet.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to create pet")
	}
	return nil
}

// GetByID retrieves a pet by ID
func (r *PostgreSQLPetRepository) GetByID(ctx context.Context, id int64) (*domain.Pet, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + pgPetColumns + ` FROM pets WHERE id = $1`

	return scanPet(querier.QueryRowContext(ctx, query, id))
}

// Update persists changes to an existing pet
func (r *PostgreSQLPetRepository) Update(ctx context.Context, pet *domain.Pet) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE pets SET name = $1, species = $2, breed = $3, age = $4, gender = $5,
			  description = $6, status = $7, image_path = $8, updated_at = NOW()
			  WHERE id = $9`

	result, err := querier.ExecContext(ctx, query,
		pet.Name, pet.Species, pet.Breed, pet.Age, pet.Gender,
		pet.Description, pet.Status, pet.ImagePath, pet.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update pet")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if rows == 0 {
		return domain.ErrPetNotFound
	}
	return nil
}

// Delete removes a pet by ID
func (r *PostgreSQLPetRepository) Delete(ctx context.Context, id int64) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM pets WHERE id = $1`, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete pet")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if rows == 0 {
		return domain.ErrPetNotFound
	}
	return nil
}

// List retrieves pets ordered by ID with offset/limit pagination.
func (r *PostgreSQLPetRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*domain.Pet, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + pgPetColumns + ` FROM pets ORDER BY id OFFSET $1 LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list pets")
	}
	defer func() { _ = rows.Close() }()

	var pets []*domain.Pet
	for rows.Next() {
		pet, err := scanPetRow(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan pet")
		}
		pets = append(pets, pet)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate pets")
	}
	return pets, nil
}

// scanPet scans a single row, translating sql.ErrNoRows to the domain error.
func scanPet(row *sql.Row) (*domain.Pet, error) {
	var pet domain.Pet

	err := row.Scan(
		&pet.ID, &pet.Name, &pet.Species, &pet.Breed, &pet.Age, &pet.Gender,
		&pet.Description, &pet.Status, &pet.ImagePath, &pet.CreatedAt, &pet.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPetNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get pet")
	}
	return &pet, nil
}

// scanPetRow scans a pet from a multi-row result set.
func scanPetRow(rows *sql.Rows) (*domain.Pet, error) {
	var pet domain.Pet

	err := rows.Scan(
		&pet.ID, &pet.Name, &pet.Species, &pet.Breed, &pet.Age, &pet.Gender,
		&pet.Description, &pet.Status, &pet.ImagePath, &pet.CreatedAt, &pet.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &pet, nil
}
