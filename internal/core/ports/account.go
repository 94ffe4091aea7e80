package ports

import (
	"context"

	"github.com/cottontrade/marketplace-api/internal/core/domain"
)

// AccountRepository defines persistence for credential records.
type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
}

// AccountService implements registration and the session lifecycle
// (sign-in, sign-out) against the identity collaborator.
type AccountService interface {
	Register(ctx context.Context, email, password string) (*domain.Account, error)
	// Login verifies credentials, creates a session, and returns the signed
	// bearer token together with the session snapshot.
	Login(ctx context.Context, email, password string) (string, *domain.Session, error)
	// SignOut destroys the session, revoking its token immediately.
	SignOut(ctx context.Context, sess *domain.Session) error
}
