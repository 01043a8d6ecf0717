package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/episko/blog/internal/core/domain"
	"github.com/episko/blog/internal/core/ports"
)

// ModerationService implements the post lifecycle: submission, editing and
// the admin-only status transitions.
type ModerationService struct {
	repo   ports.PostRepository
	logger zerolog.Logger
	now    func() time.Time

	// transitionMu serialises the read-check-write of status changes.
	transitionMu sync.Mutex
}

var _ ports.PostService = (*ModerationService)(nil)

func NewModerationService(repo ports.PostRepository, logger zerolog.Logger) *ModerationService {
	return &ModerationService{repo: repo, logger: logger, now: time.Now}
}

// CreatePost stores a new post by caller. Admin posts are published
// immediately; everyone else's wait for approval.
func (s *ModerationService) CreatePost(ctx context.Context, caller domain.Claims, title, content string) (*domain.Post, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}

	post, err := domain.NewPost(title, content, caller, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, post); err != nil {
		s.logger.Error().Err(err).Str("author", caller.Username).Msg("failed to create post")
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.logger.Info().
		Str("post_id", post.ID).
		Str("author", post.Author).
		Str("status", string(post.Status)).
		Msg("post created")

	return post, nil
}

func (s *ModerationService) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ModerationService) ListPublished(ctx context.Context) ([]*domain.Post, error) {
	return s.repo.ListPublished(ctx)
}

func (s *ModerationService) ListByAuthor(ctx context.Context, username string) ([]*domain.Post, error) {
	return s.repo.ListByAuthor(ctx, username)
}

func (s *ModerationService) ListAll(ctx context.Context) ([]*domain.Post, error) {
	return s.repo.ListAll(ctx)
}

// UpdatePost replaces title and content. Only the author or an admin may edit;
// the status is left as is.
func (s *ModerationService) UpdatePost(ctx context.Context, caller domain.Claims, id, title, content string) (*domain.Post, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}

	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !post.EditableBy(caller) {
		return nil, domain.ErrForbidden
	}

	if err := s.repo.Update(ctx, id, title, content); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}

	post.Title = title
	post.Content = content

	s.logger.Info().Str("post_id", id).Str("editor", caller.Username).Msg("post updated")
	return post, nil
}

// ApprovePost publishes a pending post.
func (s *ModerationService) ApprovePost(ctx context.Context, caller domain.Claims, id string) (*domain.Post, error) {
	return s.transition(ctx, caller, id, domain.StatusPublished, "approve")
}

// ArchivePost archives a pending or published post.
func (s *ModerationService) ArchivePost(ctx context.Context, caller domain.Claims, id string) (*domain.Post, error) {
	return s.transition(ctx, caller, id, domain.StatusArchived, "archive")
}

// DeletePost removes a post for good. Admin only.
func (s *ModerationService) DeletePost(ctx context.Context, caller domain.Claims, id string) error {
	if !domain.IsAllowed(caller.Role, domain.RoleAdmin) {
		return domain.ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("post_id", id).Str("admin", caller.Username).Msg("post deleted")
	return nil
}

func (s *ModerationService) transition(ctx context.Context, caller domain.Claims, id string, next domain.PostStatus, action string) (*domain.Post, error) {
	if !domain.IsAllowed(caller.Role, domain.RoleAdmin) {
		return nil, domain.ErrForbidden
	}

	s.transitionMu.Lock()
	defer s.transitionMu.Unlock()

	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !post.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%s post: %w (from %s to %s)", action, domain.ErrInvalidTransition, post.Status, next)
	}

	if err := s.repo.SetStatus(ctx, id, next); err != nil {
		return nil, fmt.Errorf("%s post: %w", action, err)
	}

	s.logger.Info().
		Str("post_id", id).
		Str("admin", caller.Username).
		Str("from", string(post.Status)).
		Str("to", string(next)).
		Msg("post status changed")

	post.Status = next
	return post, nil
}
