package ports

import (
	"context"

	"github.com/episko/blog/internal/core/domain"
)

// PostRepository defines persistence operations for posts. Every operation
// addressing a missing id returns domain.ErrPostNotFound.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	ListPublished(ctx context.Context) ([]*domain.Post, error)
	ListByAuthor(ctx context.Context, username string) ([]*domain.Post, error)
	ListAll(ctx context.Context) ([]*domain.Post, error)
	// Update replaces title and content only.
	Update(ctx context.Context, id, title, content string) error
	SetStatus(ctx context.Context, id string, status domain.PostStatus) error
	Delete(ctx context.Context, id string) error
}
