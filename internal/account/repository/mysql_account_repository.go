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

// MySQLAccountRepository handles account persistence for MySQL
type MySQLAccountRepository struct {
	db *sql.DB
}

// NewMySQLAccountRepository creates a new MySQLAccountRepository
func NewMySQLAccountRepository(db *sql.DB) *MySQLAccountRepository {
	return &MySQLAccountRepository{
		db: db,
	}
}

const mysqlAccountColumns = `id, username, email, password_hash, encrypted_password, role,
			  full_name, phone, address, approved, status, created_at, updated_at`

// Create inserts a new account and fills in its system-assigned ID.
func (r *MySQLAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO accounts (username, email, password_hash, encrypted_password, role,
			  full_name, phone, address, approved, status, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`

	result, err := querier.ExecContext(ctx, query,
		account.Username, account.Email, account.PasswordHash, account.EncryptedPassword,
		string(account.Role), account.FullName, account.Phone, account.Address,
		account.Approved, account.Status,
	)
	if err != nil {
		// Check for unique constraint violation (duplicate email)
		if isMySQLUniqueViolation(err) {
			return domain.ErrAccountAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create account")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to get inserted account id")
	}
	account.ID = id
	return nil
}

// GetByID retrieves an account by ID
func (r *MySQLAccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + mysqlAccountColumns + ` FROM accounts WHERE id = ?`

	return mysqlScanAccount(querier.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves an account by email
func (r *MySQLAccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + mysqlAccountColumns + ` FROM accounts WHERE email = ?`

	return mysqlScanAccount(querier.QueryRowContext(ctx, query, email))
}

// GetByUsername retrieves an account by username
func (r *MySQLAccountRepository) GetByUsername(
	ctx context.Context,
	username string,
) (*domain.Account, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + mysqlAccountColumns + ` FROM accounts WHERE username = ?`

	return mysqlScanAccount(querier.QueryRowContext(ctx, query, username))
}

// Update persists changes to an existing account in a single statement.
func (r *MySQLAccountRepository) Update(ctx context.Context, account *domain.Account) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE accounts SET username = ?, email = ?, password_hash = ?,
			  encrypted_password = ?, role = ?, full_name = ?, phone = ?,
			  address = ?, approved = ?, status = ?, updated_at = NOW()
			  WHERE id = ?`

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
func (r *MySQLAccountRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*domain.Account, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + mysqlAccountColumns + ` FROM accounts ORDER BY id LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
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

// mysqlScanAccount scans a single row, translating sql.ErrNoRows to the domain error.
func mysqlScanAccount(row *sql.Row) (*domain.Account, error) {
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

// isMySQLUniqueViolation checks if the error is a MySQL unique constraint violation
func isMySQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// MySQL: "Error 1062: Duplicate entry"
	return strings.Contains(errMsg, "duplicate entry") || strings.Contains(errMsg, "error 1062")
}
