package usecase

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jellydator/validation"

	"github.com/allisson/petadopt/internal/blog/domain"
	"github.com/allisson/petadopt/internal/database"
	apperrors "github.com/allisson/petadopt/internal/errors"
)

// UseCase exposes blog post operations.
type UseCase interface {
	CreatePost(ctx context.Context, post *domain.BlogPost) error
	GetPost(ctx context.Context, id int64) (*domain.BlogPost, error)
	ListPosts(ctx context.Context, offset, limit int) ([]*domain.BlogPost, error)
	ListPostsByAuthor(ctx context.Context, authorID int64, offset, limit int) ([]*domain.BlogPost, error)
	StorePostImage(ctx context.Context, id, requesterID int64, requesterIsAdmin bool, filename string, content io.Reader) (*domain.BlogPost, error)
	ImageFilePath(ctx context.Context, id int64) (string, error)
}

// BlogRepository defines the persistence operations needed by the use case.
type BlogRepository interface {
	Create(ctx context.Context, post *domain.BlogPost) error
	GetByID(ctx context.Context, id int64) (*domain.BlogPost, error)
	Update(ctx context.Context, post *domain.BlogPost) error
	List(ctx context.Context, offset, limit int) ([]*domain.BlogPost, error)
	ListByAuthor(ctx context.Context, authorID int64, offset, limit int) ([]*domain.BlogPost, error)
}

// BlogUseCase implements UseCase.
type BlogUseCase struct {
	txManager  database.TxManager
	blogRepo   BlogRepository
	uploadsDir string
}

// NewBlogUseCase creates a new BlogUseCase.
func NewBlogUseCase(txManager database.TxManager, blogRepo BlogRepository, uploadsDir string) *BlogUseCase {
	return &BlogUseCase{txManager: txManager, blogRepo: blogRepo, uploadsDir: uploadsDir}
}

func validatePost(post *domain.BlogPost) error {
	return validation.ValidateStruct(post,
		validation.Field(&post.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&post.Content, validation.Required),
		validation.Field(&post.AuthorID, validation.Required, validation.Min(int64(1))),
	)
}

// CreatePost validates and persists a new blog post. The author id comes from
// the authenticated principal, never from the request payload.
func (u *BlogUseCase) CreatePost(ctx context.Context, post *domain.BlogPost) error {
	if err := validatePost(post); err != nil {
		return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
	}

	return u.txManager.WithTx(ctx, func(ctx context.Context) error {
		return u.blogRepo.Create(ctx, post)
	})
}

// GetPost retrieves a blog post by id.
func (u *BlogUseCase) GetPost(ctx context.Context, id int64) (*domain.BlogPost, error) {
	return u.blogRepo.GetByID(ctx, id)
}

// ListPosts retrieves blog posts newest first.
func (u *BlogUseCase) ListPosts(ctx context.Context, offset, limit int) ([]*domain.BlogPost, error) {
	return u.blogRepo.List(ctx, offset, limit)
}

// ListPostsByAuthor retrieves an author's blog posts newest first.
func (u *BlogUseCase) ListPostsByAuthor(ctx context.Context, authorID int64, offset, limit int) ([]*domain.BlogPost, error) {
	return u.blogRepo.ListByAuthor(ctx, authorID, offset, limit)
}

// StorePostImage saves an uploaded image under the uploads directory with a
// random filename and records the relative path on the post. Only the author
// or an admin may attach an image. The original filename only contributes its
// extension; its name is never trusted.
func (u *BlogUseCase) StorePostImage(
	ctx context.Context,
	id, requesterID int64,
	requesterIsAdmin bool,
	filename string,
	content io.Reader,
) (*domain.BlogPost, error) {
	post, err := u.blogRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != requesterID && !requesterIsAdmin {
		return nil, apperrors.Wrap(apperrors.ErrForbidden, "only the author can modify this post")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "unsupported image type: "+ext)
	}

	if err := os.MkdirAll(u.uploadsDir, 0o755); err != nil {
		return nil, apperrors.Wrap(err, "failed to create uploads directory")
	}

	storedName := uuid.Must(uuid.NewV7()).String() + ext
	target := filepath.Join(u.uploadsDir, storedName)

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
		_ = os.Remove(target)
		return nil, apperrors.Wrap(err, "failed to write image file")
	}

	post.ImagePath = storedName
	err = u.txManager.WithTx(ctx, func(ctx context.Context) error {
		return u.blogRepo.Update(ctx, post)
	})
	if err != nil {
		_ = os.Remove(target)
		return nil, err
	}
	return post, nil
}

// ImageFilePath resolves a post's stored image to an absolute path on disk.
func (u *BlogUseCase) ImageFilePath(ctx context.Context, id int64) (string, error) {
	post, err := u.blogRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if post.ImagePath == "" {
		return "", apperrors.Wrap(domain.ErrBlogPostNotFound, "post has no image")
	}
	return filepath.Join(u.uploadsDir, post.ImagePath), nil
}
