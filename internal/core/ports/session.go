package ports

import (
	"context"

	"github.com/cottontrade/marketplace-api/internal/core/domain"
)

// SessionStore is the identity collaborator's session record surface.
// Get returns (nil, nil) when the session does not exist or has expired;
// a non-nil error always means transport failure.
type SessionStore interface {
	Create(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	Delete(ctx context.Context, sessionID string) error
}

// SessionResolver obtains the current session for a bearer token.
// It never panics: an invalid or revoked token yields (nil, nil), and only a
// collaborator transport failure yields a non-nil error.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*domain.Session, error)
}

// AuthEventBus is the push-based auth change-notification stream.
type AuthEventBus interface {
	Publish(ctx context.Context, ev domain.AuthEvent) error
	// Subscribe returns a channel of events that closes when ctx is cancelled.
	Subscribe(ctx context.Context) (<-chan domain.AuthEvent, error)
}
