// Package dto provides data transfer objects for the blog HTTP layer.
package dto

import (
	"strconv"
	"time"

	"github.com/jellydator/validation"

	"github.com/allisson/petadopt/internal/blog/domain"
)

// CreatePostRequest represents the API request for creating a blog post
type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Validate validates the CreatePostRequest fields
func (r CreatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, 200).Error("title must be between 1 and 200 characters"),
		),
		validation.Field(&r.Content,
			validation.Required.Error("content is required"),
		),
	)
}

// PostResponse represents a blog post in API responses
type PostResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AuthorID  int64     `json:"author_id"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostListResponse represents a paginated list of blog posts
type PostListResponse struct {
	Posts  []PostResponse `json:"posts"`
	Offset int            `json:"offset"`
	Limit  int            `json:"limit"`
}

// ToPostResponse converts a domain BlogPost model to a PostResponse DTO
func ToPostResponse(post *domain.BlogPost) PostResponse {
	imageURL := ""
	if post.ImagePath != "" {
		imageURL = "/api/blogs/image/" + strconv.FormatInt(post.ID, 10)
	}
	return PostResponse{
		ID:        post.ID,
		Title:     post.Title,
		Content:   post.Content,
		AuthorID:  post.AuthorID,
		ImageURL:  imageURL,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
}

// ToPostListResponse converts domain BlogPost models to a PostListResponse DTO
func ToPostListResponse(posts []*domain.BlogPost, offset, limit int) PostListResponse {
	responses := make([]PostResponse, 0, len(posts))
	for _, post := range posts {
		responses = append(responses, ToPostResponse(post))
	}
	return PostListResponse{Posts: responses, Offset: offset, Limit: limit}
}
