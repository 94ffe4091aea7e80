package domain

import (
	"errors"
	"time"
)

var ErrSessionExpired = errors.New("session expired")

// Session is the ephemeral proof of authentication held by the identity
// collaborator. The application only keeps a transient reference for the
// duration of a request.
type Session struct {
	ID        string    `json:"session_id"`
	SubjectID string    `json:"subject_id"`
	Email     string    `json:"email,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at the given instant.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// AuthEventType tags events on the auth change-notification stream.
type AuthEventType string

const (
	AuthSignedIn  AuthEventType = "signed_in"
	AuthSignedOut AuthEventType = "signed_out"
	AuthUpdated   AuthEventType = "updated"
)

// AuthEvent is pushed on the auth event stream whenever a session is created,
// destroyed, or its backing profile changes.
type AuthEvent struct {
	Type      AuthEventType `json:"type"`
	SubjectID string        `json:"subject_id"`
	Email     string        `json:"email,omitempty"`
	At        time.Time     `json:"at"`
}
