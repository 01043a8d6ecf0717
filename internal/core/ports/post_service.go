package ports

import (
	"context"

	"github.com/episko/blog/internal/core/domain"
)

// PostService is the moderation workflow.
type PostService interface {
	CreatePost(ctx context.Context, caller domain.Claims, title, content string) (*domain.Post, error)
	GetPost(ctx context.Context, id string) (*domain.Post, error)
	ListPublished(ctx context.Context) ([]*domain.Post, error)
	ListByAuthor(ctx context.Context, username string) ([]*domain.Post, error)
	ListAll(ctx context.Context) ([]*domain.Post, error)
	UpdatePost(ctx context.Context, caller domain.Claims, id, title, content string) (*domain.Post, error)
	ApprovePost(ctx context.Context, caller domain.Claims, id string) (*domain.Post, error)
	ArchivePost(ctx context.Context, caller domain.Claims, id string) (*domain.Post, error)
	DeletePost(ctx context.Context, caller domain.Claims, id string) error
}
