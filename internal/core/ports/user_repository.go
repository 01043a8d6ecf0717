package ports

import (
	"context"

	"github.com/episko/blog/internal/core/domain"
)

// UserRepository is the user directory. Usernames are unique.
type UserRepository interface {
	// Create inserts user, returning domain.ErrUserExists when the username is taken.
	Create(ctx context.Context, user *domain.User) error
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	SetRole(ctx context.Context, username string, role domain.Role) error
	Delete(ctx context.Context, username string) error
}
