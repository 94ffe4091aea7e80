package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cottontrade/marketplace-api/internal/api/metrics"
	"github.com/cottontrade/marketplace-api/internal/core/domain"
	"github.com/cottontrade/marketplace-api/internal/core/ports"
)

// ProfileService implements the profile loader and the admin-facing mutations.
type ProfileService struct {
	repo     ports.ProfileRepository
	recorder ports.ActivityRecorder
	bus      ports.AuthEventBus
	log      zerolog.Logger
}

func NewProfileService(repo ports.ProfileRepository, recorder ports.ActivityRecorder, bus ports.AuthEventBus, log zerolog.Logger) *ProfileService {
	return &ProfileService{repo: repo, recorder: recorder, bus: bus, log: log}
}

// LoadOrProvision fetches the profile for subjectID, creating a default buyer
// profile on first authenticated visit. A transient store failure on the
// initial fetch is retried once before giving up. Double provisioning from
// concurrent first visits is resolved by the store's per-subject uniqueness:
// the loser of the race re-queries and returns the winner's row.
func (s *ProfileService) LoadOrProvision(ctx context.Context, subjectID string) (*domain.Profile, error) {
	p, err := s.repo.FindBySubject(ctx, subjectID)
	if errors.Is(err, domain.ErrStoreUnavailable) {
		p, err = s.repo.FindBySubject(ctx, subjectID)
	}
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, domain.ErrProfileNotFound) {
		return nil, err
	}

	fresh := domain.DefaultProfile(subjectID, time.Now().UTC())
	if insErr := s.repo.Insert(ctx, fresh); insErr != nil {
		if errors.Is(insErr, domain.ErrProfileExists) {
			// Another request provisioned this subject concurrently.
			existing, qErr := s.repo.FindBySubject(ctx, subjectID)
			if qErr != nil {
				return nil, fmt.Errorf("%w: reconcile after duplicate insert: %v", domain.ErrProvisionFailed, qErr)
			}
			return existing, nil
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrProvisionFailed, insErr)
	}

	// Re-read to confirm the insert: never hand back a profile the store
	// does not actually hold.
	created, err := s.repo.FindBySubject(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("%w: confirm insert: %v", domain.ErrProvisionFailed, err)
	}

	metrics.ProfilesProvisionedTotal.Inc()
	s.log.Info().Str("subject_id", subjectID).Msg("profile provisioned")
	return created, nil
}

// Update applies the self-service fields and announces the change on the auth
// event stream.
func (s *ProfileService) Update(ctx context.Context, subjectID string, in ports.ProfileUpdateInput) (*domain.Profile, error) {
	p, err := s.repo.Update(ctx, subjectID, in)
	if err != nil {
		return nil, err
	}

	if pubErr := s.bus.Publish(ctx, domain.AuthEvent{
		Type:      domain.AuthUpdated,
		SubjectID: subjectID,
		At:        time.Now().UTC(),
	}); pubErr != nil {
		s.log.Warn().Err(pubErr).Str("subject_id", subjectID).Msg("failed to publish profile update event")
	}
	return p, nil
}

func (s *ProfileService) List(ctx context.Context) ([]*domain.Profile, error) {
	return s.repo.List(ctx)
}

// SetRole changes a profile's role. The change is audited with the acting
// admin's id and takes effect on the next authorization check; in-flight
// sessions keep the decision they already received.
func (s *ProfileService) SetRole(ctx context.Context, subjectID string, role domain.Role, actorID string) error {
	if !role.Valid() {
		return domain.ErrInvalidRole
	}

	if err := s.repo.UpdateRole(ctx, subjectID, role); err != nil {
		return err
	}

	s.recorder.Record(domain.ActivityEntry{
		ID:        uuid.NewString(),
		SubjectID: subjectID,
		Action:    domain.ActionRoleUpdate,
		Details:   map[string]any{"new_role": string(role), "changed_by": actorID},
		CreatedAt: time.Now().UTC(),
	})

	s.log.Info().
		Str("subject_id", subjectID).
		Str("role", string(role)).
		Str("actor_id", actorID).
		Msg("role updated")
	return nil
}
