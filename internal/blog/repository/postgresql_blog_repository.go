// Package repository provides data persistence implementations for blog posts.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/petadopt/internal/blog/domain"
	"github.com/allisson/petadopt/internal/database"

	apperrors "github.com/allisson/petadopt/internal/errors"
)

// PostgreSQLBlogRepository handles blog post persistence for PostgreSQL
type PostgreSQLBlogRepository struct {
	db *sql.DB
}

// NewPostgreSQLBlogRepository creates a new PostgreSQLBlogRepository
func NewPostgreSQLBlogRepository(db *sql.DB) *PostgreSQLBlogRepository {
	return &PostgreSQLBlogRepository{
		db: db,
	}
}

const pgBlogColumns = `id, title, content, author_id, image_path, created_at, updated_at`

// Create inserts a new blog post and fills in its system-assigned ID.
func (r *PostgreSQLBlogRepository) Create(ctx context.Context, post *domain.BlogPost) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO blog_posts (title, content, author_id, image_path, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, NOW(), NOW())
			  RETURNING id`

	err := querier.QueryRowContext(ctx, query,
		post.Title, post.Content, post.AuthorID, post.ImagePath,
	).Scan(&post.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to create blog post")
	}
	return nil
}

// GetByID retrieves a blog post by ID
func (r *PostgreSQLBlogRepository) GetByID(ctx context.Context, id int64) (*domain.BlogPost, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + pgBlogColumns + ` FROM blog_posts WHERE id = $1`

	var post domain.BlogPost
	err := querier.QueryRowContext(ctx, query, id).Scan(
		&post.ID, &post.Title, &post.Content, &post.AuthorID,
		&post.ImagePath, &post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBlogPostNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get blog post")
	}
	return &post, nil
}

// Update updates an existing blog post
func (r *PostgreSQLBlogRepository) Update(ctx context.Context, post *domain.BlogPost) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE blog_posts
			  SET title = $1, content = $2, image_path = $3, updated_at = NOW()
			  WHERE id = $4`

	result, err := querier.ExecContext(ctx, query,
		post.Title, post.Content, post.ImagePath, post.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update blog post")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return domain.ErrBlogPostNotFound
	}
	return nil
}

// List retrieves blog posts newest first with offset/limit pagination.
func (r *PostgreSQLBlogRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*domain.BlogPost, error) {
	query := `SELECT ` + pgBlogColumns + ` FROM blog_posts
			  ORDER BY created_at DESC OFFSET $1 LIMIT $2`

	return r.queryPosts(ctx, query, offset, limit)
}

// ListByAuthor retrieves an author's blog posts newest first.
func (r *PostgreSQLBlogRepository) ListByAuthor(
	ctx context.Context,
	authorID int64,
	offset, limit int,
) ([]*domain.BlogPost, error) {
	query := `SELECT ` + pgBlogColumns + ` FROM blog_posts WHERE author_id = $1
			  ORDER BY created_at DESC OFFSET $2 LIMIT $3`

	return r.queryPosts(ctx, query, authorID, offset, limit)
}

func (r *PostgreSQLBlogRepository) queryPosts(
	ctx context.Context,
	query string,
	args ...any,
) ([]*domain.BlogPost, error) {
	querier := database.GetTx(ctx, r.db)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list blog posts")
	}
	defer func() { _ = rows.Close() }()

	var posts []*domain.BlogPost
	for rows.Next() {
		var post domain.BlogPost
		err := rows.Scan(
			&post.ID, &post.Title, &post.Content, &post.AuthorID,
			&post.ImagePath, &post.CreatedAt, &post.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan blog post")
		}
		posts = append(posts, &post)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate blog posts")
	}
	return posts, nil
}
