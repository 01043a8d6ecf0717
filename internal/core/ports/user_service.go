package ports

import (
	"context"

	"github.com/episko/blog/internal/core/domain"
)

// UserService covers user administration.
type UserService interface {
	ListUsers(ctx context.Context) ([]*domain.User, error)
	SetRole(ctx context.Context, caller domain.Claims, username string, role domain.Role) error
	DeleteUser(ctx context.Context, caller domain.Claims, username string) error
}
