package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/petadopt/internal/blog/domain"
	"github.com/allisson/petadopt/internal/database"

	apperrors "github.com/allisson/petadopt/internal/errors"
)

// MySQLBlogRepository handles blog post persistence for MySQL
type MySQLBlogRepository struct {
	db *sql.DB
}

// NewMySQLBlogRepository creates a new MySQLBlogRepository
func NewMySQLBlogRepository(db *sql.DB) *MySQLBlogRepository {
	return &MySQLBlogRepository{
		db: db,
	}
}

const mysqlBlogColumns = `id, title, content, author_id, image_path, created_at, updated_at`

// Create inserts a new blog post and fills in its system-assigned ID.
func (r *MySQLBlogRepository) Create(ctx context.Context, post *domain.BlogPost) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO blog_posts (title, content, author_id, image_path, created_at, updated_at)
			  VALUES (?, ?, ?, ?, NOW(), NOW())`

	result, err := querier.ExecContext(ctx, query,
		post.Title, post.Content, post.AuthorID, post.ImagePath,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create blog post")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to get inserted blog post id")
	}
	post.ID = id
	return nil
}

// GetByID retrieves a blog post by ID
func (r *MySQLBlogRepository) GetByID(ctx context.Context, id int64) (*domain.BlogPost, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + mysqlBlogColumns + ` FROM blog_posts WHERE id = ?`

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
func (r *MySQLBlogRepository) Update(ctx context.Context, post *domain.BlogPost) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE blog_posts
			  SET title = ?, content = ?, image_path = ?, updated_at = NOW()
			  WHERE id = ?`

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
func (r *MySQLBlogRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*domain.BlogPost, error) {
	query := `SELECT ` + mysqlBlogColumns + ` FROM blog_posts
			  ORDER BY created_at DESC LIMIT ? OFFSET ?`

	return r.queryPosts(ctx, query, limit, offset)
}

// ListByAuthor retrieves an author's blog posts newest first.
func (r *MySQLBlogRepository) ListByAuthor(
	ctx context.Context,
	authorID int64,
	offset, limit int,
) ([]*domain.BlogPost, error) {
	query := `SELECT ` + mysqlBlogColumns + ` FROM blog_posts WHERE author_id = ?
			  ORDER BY created_at DESC LIMIT ? OFFSET ?`

	return r.queryPosts(ctx, query, authorID, limit, offset)
}

func (r *MySQLBlogRepository) queryPosts(
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
