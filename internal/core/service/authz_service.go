package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cottontrade/marketplace-api/internal/api/metrics"
	"github.com/cottontrade/marketplace-api/internal/core/domain"
	"github.com/cottontrade/marketplace-api/internal/core/ports"
)

// ProfileLoader is the slice of ProfileService the gate needs.
type ProfileLoader interface {
	LoadOrProvision(ctx context.Context, subjectID string) (*domain.Profile, error)
}

// AuthzService is the authorization gate: one evaluation runs the session
// resolver, then the profile loader, then the role check, strictly in that
// order. Every collaborator failure resolves to a deny — never an allow.
type AuthzService struct {
	sessions ports.SessionResolver
	profiles ProfileLoader
	recorder ports.ActivityRecorder
	log      zerolog.Logger
}

func NewAuthzService(sessions ports.SessionResolver, profiles ProfileLoader, recorder ports.ActivityRecorder, log zerolog.Logger) *AuthzService {
	return &AuthzService{sessions: sessions, profiles: profiles, recorder: recorder, log: log}
}

// Evaluate decides whether the bearer of token may enter a route requiring
// one of the given roles (empty = any authenticated role). Each evaluation is
// a pure function of the session and profile snapshots read during it; nothing
// is cached across calls, so a role change is honored on the very next
// request. If the request is cancelled at a suspension point the zero
// (non-terminal) decision is returned and must not be acted upon.
func (s *AuthzService) Evaluate(ctx context.Context, token string, required []domain.Role) domain.Decision {
	sess, err := s.sessions.Resolve(ctx, token)
	if ctx.Err() != nil {
		return domain.Decision{}
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("session resolution failed, denying")
		return s.deny("", domain.DenyUnauthenticated)
	}
	if sess == nil {
		return s.deny("", domain.DenyUnauthenticated)
	}

	profile, err := s.profiles.LoadOrProvision(ctx, sess.SubjectID)
	if ctx.Err() != nil {
		return domain.Decision{}
	}
	if err != nil {
		s.log.Error().Err(err).Str("subject_id", sess.SubjectID).Msg("profile load failed, denying")
		return s.deny(sess.SubjectID, domain.DenyProfileUnavailable)
	}

	if len(required) > 0 && !roleIn(profile.Role, required) {
		return s.deny(sess.SubjectID, domain.DenyForbidden)
	}

	metrics.AuthDecisionsTotal.WithLabelValues("allowed", "").Inc()
	s.log.Debug().
		Str("subject_id", sess.SubjectID).
		Str("role", string(profile.Role)).
		Msg("access allowed")
	return domain.Allow(sess, profile)
}

func (s *AuthzService) deny(subjectID string, reason domain.DenyReason) domain.Decision {
	metrics.AuthDecisionsTotal.WithLabelValues("denied", string(reason)).Inc()
	s.log.Info().
		Str("subject_id", subjectID).
		Str("reason", string(reason)).
		Msg("access denied")

	// Forbidden is the only deny worth a durable audit trail: a known subject
	// probing routes outside its role.
	if reason == domain.DenyForbidden && subjectID != "" {
		s.recorder.Record(domain.ActivityEntry{
			ID:        uuid.NewString(),
			SubjectID: subjectID,
			Action:    domain.ActionAccessDenied,
			Details:   map[string]any{"reason": string(reason)},
			CreatedAt: time.Now().UTC(),
		})
	}
	return domain.Deny(reason)
}

func roleIn(role domain.Role, set []domain.Role) bool {
	for _, r := range set {
		if r == role {
			return true
		}
	}
	return false
}
