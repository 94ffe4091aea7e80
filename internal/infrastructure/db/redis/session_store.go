package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cottontrade/marketplace-api/internal/core/domain"
)

const sessionPrefix = "session:"

// SessionStore keeps session records in Redis with a TTL matching their
// expiry. Deleting the record revokes every token that references it.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) key(sessionID string) string {
	return sessionPrefix + sessionID
}

func (s *SessionStore) Create(ctx context.Context, sess *domain.Session) error {
	if sess.ID == "" || sess.SubjectID == "" {
		return errors.New("session: missing id or subject id")
	}

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session %s: %w", sess.ID, domain.ErrSessionExpired)
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session marshal: %w", err)
	}

	return s.client.Set(ctx, s.key(sess.ID), data, ttl).Err()
}

// Get returns (nil, nil) when the session does not exist; Redis TTL expiry
// and explicit sign-out both look the same to callers.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	val, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return nil, fmt.Errorf("session unmarshal: %w", err)
	}
	return &sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.key(sessionID)).Err()
}
