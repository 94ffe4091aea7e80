package ports

import (
	"context"

	"github.com/cottontrade/marketplace-api/internal/core/domain"
)

// ProfileUpdateInput carries the self-service profile fields. The role is
// deliberately absent: only an admin may change it, via UpdateRole.
type ProfileUpdateInput struct {
	FullName    string
	CompanyName string
	Phone       string
}

// ProfileRepository defines persistence operations for profiles.
// FindBySubject distinguishes "no rows" (domain.ErrProfileNotFound) from
// transport failure (wrapped domain.ErrStoreUnavailable).
type ProfileRepository interface {
	FindBySubject(ctx context.Context, subjectID string) (*domain.Profile, error)
	// Insert returns domain.ErrProfileExists when the subject id is already
	// taken (the store enforces per-subject uniqueness).
	Insert(ctx context.Context, p *domain.Profile) error
	Update(ctx context.Context, subjectID string, in ProfileUpdateInput) (*domain.Profile, error)
	UpdateRole(ctx context.Context, subjectID string, role domain.Role) error
	// List returns all profiles, newest first.
	List(ctx context.Context) ([]*domain.Profile, error)
}

// ProfileService is the profile loader plus the admin-facing mutations.
type ProfileService interface {
	// LoadOrProvision returns the profile for subjectID, lazily creating a
	// default (buyer) profile on first authenticated visit.
	LoadOrProvision(ctx context.Context, subjectID string) (*domain.Profile, error)
	Update(ctx context.Context, subjectID string, in ProfileUpdateInput) (*domain.Profile, error)
	List(ctx context.Context) ([]*domain.Profile, error)
	// SetRole changes a profile's role. actorID identifies the admin making
	// the change; the change is audited and takes effect on the next
	// authorization check.
	SetRole(ctx context.Context, subjectID string, role domain.Role, actorID string) error
}
