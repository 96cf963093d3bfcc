// Package http provides HTTP handlers for blog post operations.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/allisson/petadopt/internal/auth/http"
	"github.com/allisson/petadopt/internal/blog/domain"
	"github.com/allisson/petadopt/internal/blog/http/dto"
	"github.com/allisson/petadopt/internal/blog/usecase"
	apperrors "github.com/allisson/petadopt/internal/errors"
	"github.com/allisson/petadopt/internal/httputil"
)

// maxImageUploadBytes caps blog image uploads at 5 MiB.
const maxImageUploadBytes = 5 << 20

// BlogHandler handles blog-related HTTP requests
type BlogHandler struct {
	blogUseCase usecase.UseCase
	logger      *slog.Logger
}

// NewBlogHandler creates a new BlogHandler
func NewBlogHandler(blogUseCase usecase.UseCase, logger *slog.Logger) *BlogHandler {
	return &BlogHandler{
		blogUseCase: blogUseCase,
		logger:      logger,
	}
}

// CreateHandler creates a new blog post for the authenticated principal.
// POST /api/blogs/create
func (h *BlogHandler) CreateHandler(c *gin.Context) {
	principal, ok := authHTTP.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	post := &domain.BlogPost{
		Title:    req.Title,
		Content:  req.Content,
		AuthorID: principal.AccountID,
	}
	if err := h.blogUseCase.CreatePost(c.Request.Context(), post); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.ToPostResponse(post))
}

// ListHandler returns a paginated list of blog posts, newest first.
// GET /api/blogs/all?offset=N&limit=N
func (h *BlogHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	posts, err := h.blogUseCase.ListPosts(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToPostListResponse(posts, offset, limit))
}

// ListByAuthorHandler returns a paginated list of an author's blog posts.
// GET /api/blogs/user/:id?offset=N&limit=N
func (h *BlogHandler) ListByAuthorHandler(c *gin.Context) {
	authorID, err := parseIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	posts, err := h.blogUseCase.ListPostsByAuthor(c.Request.Context(), authorID, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToPostListResponse(posts, offset, limit))
}

// UploadImageHandler attaches an image to a blog post owned by the caller.
// POST /api/blogs/:id/image
func (h *BlogHandler) UploadImageHandler(c *gin.Context) {
	principal, ok := authHTTP.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageUploadBytes)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("image file is required: %w", err), h.logger)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httputil.HandleErrorGin(c, apperrors.Wrap(err, "failed to open uploaded file"), h.logger)
		return
	}
	defer func() { _ = file.Close() }()

	post, err := h.blogUseCase.StorePostImage(
		c.Request.Context(), id, principal.AccountID, principal.IsAdmin(), fileHeader.Filename, file,
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToPostResponse(post))
}

// GetImageHandler serves a blog post's image file.
// GET /api/blogs/image/:id
func (h *BlogHandler) GetImageHandler(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	path, err := h.blogUseCase.ImageFilePath(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.File(path)
}

func parseIDParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s parameter", name)
	}
	return id, nil
}
