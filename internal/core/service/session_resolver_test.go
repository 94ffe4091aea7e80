package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/cottontrade/marketplace-api/internal/core/domain"
)

type stubSessionStore struct {
	sessions map[string]*domain.Session
	getErr   error
	deletes  []string
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]*domain.Session)}
}

func (s *stubSessionStore) Create(_ context.Context, sess *domain.Session) error {
	clone := *sess
	s.sessions[sess.ID] = &clone
	return nil
}

func (s *stubSessionStore) Get(_ context.Context, sessionID string) (*domain.Session, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	clone := *sess
	return &clone, nil
}

func (s *stubSessionStore) Delete(_ context.Context, sessionID string) error {
	s.deletes = append(s.deletes, sessionID)
	delete(s.sessions, sessionID)
	return nil
}

func signTestToken(t *testing.T, secret, sessionID, subjectID string, exp time.Time) string {
	t.Helper()
	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subjectID,
		"sid": sessionID,
		"exp": exp.Unix(),
	})
	signed, err := tkn.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestSessionResolver_EmptyToken(t *testing.T) {
	r := NewSessionResolver(newStubSessionStore(), "secret", zerolog.Nop())

	sess, err := r.Resolve(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess != nil {
		t.Fatalf("expected nil session for empty token")
	}
}

func TestSessionResolver_MalformedToken(t *testing.T) {
	r := NewSessionResolver(newStubSessionStore(), "secret", zerolog.Nop())

	sess, err := r.Resolve(context.Background(), "not-a-token")
	if err != nil {
		t.Fatalf("malformed token is not a transport failure: %v", err)
	}
	if sess != nil {
		t.Fatalf("expected nil session")
	}
}

func TestSessionResolver_WrongSecret(t *testing.T) {
	store := newStubSessionStore()
	_ = store.Create(context.Background(), &domain.Session{ID: "sess_1", SubjectID: "subj_1", ExpiresAt: time.Now().Add(time.Hour)})
	r := NewSessionResolver(store, "secret", zerolog.Nop())

	token := signTestToken(t, "other-secret", "sess_1", "subj_1", time.Now().Add(time.Hour))
	sess, err := r.Resolve(context.Background(), token)
	if err != nil || sess != nil {
		t.Fatalf("forged token must resolve to nothing, got %+v, %v", sess, err)
	}
}

func TestSessionResolver_LiveSession(t *testing.T) {
	store := newStubSessionStore()
	_ = store.Create(context.Background(), &domain.Session{
		ID:        "sess_1",
		SubjectID: "subj_1",
		Email:     "alice@example.com",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	r := NewSessionResolver(store, "secret", zerolog.Nop())

	token := signTestToken(t, "secret", "sess_1", "subj_1", time.Now().Add(time.Hour))
	sess, err := r.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if sess == nil || sess.SubjectID != "subj_1" {
		t.Fatalf("unexpected session: %+v", sess)
	}
}

func TestSessionResolver_RevokedSession(t *testing.T) {
	// Structurally valid token, but the record it references is gone.
	r := NewSessionResolver(newStubSessionStore(), "secret", zerolog.Nop())

	token := signTestToken(t, "secret", "sess_1", "subj_1", time.Now().Add(time.Hour))
	sess, err := r.Resolve(context.Background(), token)
	if err != nil || sess != nil {
		t.Fatalf("revoked token must resolve to nothing, got %+v, %v", sess, err)
	}
}

func TestSessionResolver_SubjectMismatch(t *testing.T) {
	store := newStubSessionStore()
	_ = store.Create(context.Background(), &domain.Session{ID: "sess_1", SubjectID: "subj_1", ExpiresAt: time.Now().Add(time.Hour)})
	r := NewSessionResolver(store, "secret", zerolog.Nop())

	token := signTestToken(t, "secret", "sess_1", "subj_other", time.Now().Add(time.Hour))
	sess, err := r.Resolve(context.Background(), token)
	if err != nil || sess != nil {
		t.Fatalf("subject mismatch must resolve to nothing, got %+v, %v", sess, err)
	}
}

func TestSessionResolver_ExpiredRecord(t *testing.T) {
	store := newStubSessionStore()
	_ = store.Create(context.Background(), &domain.Session{ID: "sess_1", SubjectID: "subj_1", ExpiresAt: time.Now().Add(-time.Minute)})
	r := NewSessionResolver(store, "secret", zerolog.Nop())

	// Token exp is in the future, the stored record's is not: the record wins.
	token := signTestToken(t, "secret", "sess_1", "subj_1", time.Now().Add(time.Hour))
	sess, err := r.Resolve(context.Background(), token)
	if err != nil || sess != nil {
		t.Fatalf("expired record must resolve to nothing, got %+v, %v", sess, err)
	}
}

func TestSessionResolver_StoreFailure(t *testing.T) {
	store := newStubSessionStore()
	store.getErr = errors.New("connection refused")
	r := NewSessionResolver(store, "secret", zerolog.Nop())

	token := signTestToken(t, "secret", "sess_1", "subj_1", time.Now().Add(time.Hour))
	if _, err := r.Resolve(context.Background(), token); err == nil {
		t.Fatalf("store failure must surface as an error, not a silent miss")
	}
}
