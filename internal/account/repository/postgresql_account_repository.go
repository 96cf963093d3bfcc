// Package repository provides data persistence implementations for account entities.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/allisson/petadopt/internal/account/domain"
	"github.com/allisson/petadopt/internal/database"

	apperrors "github.com/allisson/petadopt/internal/errors"
)

// PostgreSQLAccountRepository handles account persistence for PostgreSQL
type PostgreSQLAccountRepository struct {
	db *sql.DB
}

// NewPostgreSQLAccountRepository creates a new PostgreSQLAccountRepository
func NewPostgreSQLAccountRepository(db *sql.DB) *PostgreSQLAccountRepository {
	return &PostgreSQLAccountRepository{
		db: db,
	}
}

const pgAccountColumns = `id, username, email, password_hash, encrypted_password, role,
			  full_name, phone, address, approved, status, created_at, updated_at`

// Create inserts a new account and fills in its system-assigned ID.
func (r *PostgreSQLAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO accounts (username, email, password_hash, encrypted_password, role,
			  full_name, phone, address, approved, status, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
			  RETURNING id`

	err := querier.QueryRowContext(ctx, query,
		account.Username, account.Email, account.PasswordHash, account.EncryptedPassword,
		string(account.Role), account.FullName, account.Phone, account.Address,
		account.Approved, account.Status,
	).Scan(&account.ID)
	if err != nil {
		// Check for unique constraint violation (duplicate email)
		if isPostgreSQLUniqueViolation(err) {
			return domain.ErrAccountAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create account")
	}
	return nil
}

// GetByID retrieves an account by ID
func (r *PostgreSQLAccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + pgAccountColumns + ` FROM accounts WHERE id = $1`

	return r.scanAccount(querier.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves an account by email
func (r *PostgreSQLAccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + pgAccountColumns + ` FROM accounts WHERE email = $1`

	return r.scanAccount(querier.QueryRowContext(ctx, query, email))
}

// GetByUsername retrieves an account by username
func (r *PostgreSQLAccountRepository) GetByUsername(
	ctx context.Context,
	username string,
) (*domain.Account, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + pgAccountColumns + ` FROM accounts WHERE username = $1`

	return r.scanAccount(querier.QueryRowContext(ctx, query, username))
}

// Update persists changes to an existing account. The password hash and the
// encrypted copy travel in the same statement so a recovery never leaves a
// half-updated credential record.
func (r *PostgreSQLAccountRepository) Update(ctx context.Context, account *domain.Account) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE accounts SET username = $1, email = $2, password_hash = $3,
			  encrypted_password = $4, role = $5, full_name = $6, phone = $7,
			  address = $8, approved = $9, status = $10, updated_at = NOW()
			  WHERE id = $11`

	result, err := querier.ExecContext(ctx, query,
		account.Username, account.Email, account.PasswordHash, account.EncryptedPassword,
		string(account.Role), account.FullName, account.Phone, account.Address,
		account.Approved, account.Status, account.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update account")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if rows == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// List retrieves accounts ordered by ID with offset/limit pagination.
func (r *PostgreSQLAccountRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*domain.Account, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + pgAccountColumns + ` FROM accounts ORDER BY id OFFSET $1 LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list accounts")
	}
	defer func() { _ = rows.Close() }()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccountRow(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan account")
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate accounts")
	}
	return accounts, nil
}

// scanAccount scans a single row, translating sql.ErrNoRows to the domain error.
func (r *PostgreSQLAccountRepository) scanAccount(row *sql.Row) (*domain.Account, error) {
	var account domain.Account
	var role string

	err := row.Scan(
		&account.ID, &account.Username, &account.Email, &account.PasswordHash,
		&account.EncryptedPassword, &role, &account.FullName, &account.Phone,
		&account.Address, &account.Approved, &account.Status,
		&account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get account")
	}

	account.Role = domain.Role(role)
	return &account, nil
}

// scanAccountRow scans an account from a multi-row result set.
func scanAccountRow(rows *sql.Rows) (*domain.Account, error) {
	var account domain.Account
	var role string

	err := rows.Scan(
		&account.ID, &account.Username, &account.Email, &account.PasswordHash,
		&account.EncryptedPassword, &role, &account.FullName, &account.Phone,
		&account.Address, &account.Approved, &account.Status,
		&account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	account.Role = domain.Role(role)
	return &account, nil
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// PostgreSQL: "duplicate key value violates unique constraint" or "pq: duplicate key"
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}
