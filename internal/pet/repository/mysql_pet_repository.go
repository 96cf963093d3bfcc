package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/petadopt/internal/database"
	"github.com/allisson/petadopt/internal/pet/domain"

	apperrors "github.com/allisson/petadopt/internal/errors"
)

// MySQLPetRepository handles pet persistence for MySQL
type MySQLPetRepository struct {
	db *sql.DB
}

// NewMySQLPetRepository creates a new MySQLPetRepository
func NewMySQLPetRepository(db *sql.DB) *MySQLPetRepository {
	return &MySQLPetRepository{
		db: db,
	}
}

const mysqlPetColumns = `id, name, species, breed, age, gender, description, status,
			  image_path, created_at, updated_at`

// Create inserts a new pet and fills in its system-assigned ID.
func (r *MySQLPetRepository) Create(ctx context.Context, pet *domain.Pet) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO pets (name, species, breed, age, gender, description, status,
			  image_path, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`

	result, err := querier.ExecContext(ctx, query,
		pet.Name, pet.Species, pet.Breed, pet.Age, pet.Gender,
		pet.Description, pet.Status, pet.ImagePath,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create pet")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to get inserted pet id")
	}
	pet.ID = id
	return nil
}

// GetByID retrieves a pet by ID
func (r *MySQLPetRepository) GetByID(ctx context.Context, id int64) (*domain.Pet, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + mysqlPetColumns + ` FROM pets WHERE id = ?`

	return scanPet(querier.QueryRowContext(ctx, query, id))
}

// Update persists changes to an existing pet
func (r *MySQLPetRepository) Update(ctx context.Context, pet *domain.Pet) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE pets SET name = ?, species = ?, breed = ?, age = ?, gender = ?,
			  description = ?, status = ?, image_path = ?, updated_at = NOW()
			  WHERE id = ?`

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
func (r *MySQLPetRepository) Delete(ctx context.Context, id int64) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM pets WHERE id = ?`, id)
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
func (r *MySQLPetRepository) List(ctx context.Context, offset, limit int) ([]*domain.Pet, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + mysqlPetColumns + ` FROM pets ORDER BY id LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
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
