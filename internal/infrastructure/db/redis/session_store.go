package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/episko/blog/internal/core/domain"
	"github.com/episko/blog/internal/core/ports"
)

const sessionPrefix = "session:"

// SessionStore keeps session claims as JSON under session:<id> with a TTL.
type SessionStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

var _ ports.SessionStore = (*SessionStore)(nil)

func NewSessionStore(client redis.Cmdable, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) Create(ctx context.Context, claims domain.Claims) (string, error) {
	payload, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}

	id := uuid.NewString()
	if err := s.client.Set(ctx, sessionKey(id), payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return id, nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Claims, error) {
	raw, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var claims domain.Claims
	if err := json.Unmarshal(raw, &claims); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &claims, nil
}

func (s *SessionStore) Destroy(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

func sessionKey(id string) string {
	return sessionPrefix + id
}
