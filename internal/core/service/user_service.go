package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/episko/blog/internal/core/domain"
	"github.com/episko/blog/internal/core/ports"
)

// UserService handles admin-side user management.
type UserService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
}

var _ ports.UserService = (*UserService)(nil)

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

// SetRole overwrites the role of username.
func (s *UserService) SetRole(ctx context.Context, caller domain.Claims, username string, role domain.Role) error {
	if !domain.IsAllowed(caller.Role, domain.RoleAdmin) {
		return domain.ErrForbidden
	}
	if !role.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidRole, role)
	}

	if err := s.repo.SetRole(ctx, username, role); err != nil {
		return err
	}

	s.logger.Info().Str("username", username).Str("role", string(role)).Str("admin", caller.Username).Msg("role updated")
	return nil
}

func (s *UserService) DeleteUser(ctx context.Context, caller domain.Claims, username string) error {
	if !domain.IsAllowed(caller.Role, domain.RoleAdmin) {
		return domain.ErrForbidden
	}

	if err := s.repo.Delete(ctx, username); err != nil {
		return err
	}

	s.logger.Info().Str("username", username).Str("admin", caller.Username).Msg("user deleted")
	return nil
}
