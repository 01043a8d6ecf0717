package ports

import (
	"context"

	"github.com/episko/blog/internal/core/domain"
)

// SessionStore keeps server-side sessions holding the caller's claims.
type SessionStore interface {
	Create(ctx context.Context, claims domain.Claims) (string, error)
	// Get returns domain.ErrSessionNotFound for unknown or expired ids.
	Get(ctx context.Context, id string) (*domain.Claims, error)
	Destroy(ctx context.Context, id string) error
}

// Pinger is implemented by backends that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}
