// Package domain defines the core blog domain entities and types.
package domain

import (
	"time"

	"github.com/allisson/petadopt/internal/errors"
)

// BlogPost represents an article written by an account holder. AuthorID
// references the account that created the post.
type BlogPost struct {
	ID        int64
	Title     string
	Content   string
	AuthorID  int64
	ImagePath string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ErrBlogPostNotFound indicates the requested blog post does not exist.
var ErrBlogPostNotFound = errors.Wrap(errors.ErrNotFound, "blog post not found")
