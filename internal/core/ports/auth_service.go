package ports

import (
	"context"

	"github.com/episko/blog/internal/core/domain"
)

// RegisterInput carries the registration form. PasswordDigest is the
// client-side SHA-256 hex digest of the password.
type RegisterInput struct {
	FirstName      string
	LastName       string
	Username       string
	PasswordDigest string
	// Role is optional; only admins may set it.
	Role domain.Role
}

type AuthService interface {
	// Register creates an account. caller is nil for anonymous sign-ups.
	Register(ctx context.Context, caller *domain.Claims, in RegisterInput) (*domain.User, error)
	Authenticate(ctx context.Context, username, digest string) (*domain.User, error)
	Login(ctx context.Context, username, digest string) (string, *domain.User, error)
}
