package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/cottontrade/marketplace-api/internal/core/domain"
	"github.com/cottontrade/marketplace-api/internal/core/ports"
)

// SessionResolver obtains the current session for a bearer token: the token's
// signature is verified locally, then the session record is confirmed live
// against the identity store. Sign-out deletes the record, so a structurally
// valid token resolves to nothing once revoked.
type SessionResolver struct {
	store     ports.SessionStore
	jwtSecret string
	log       zerolog.Logger
}

func NewSessionResolver(store ports.SessionStore, jwtSecret string, log zerolog.Logger) *SessionResolver {
	return &SessionResolver{store: store, jwtSecret: jwtSecret, log: log}
}

// Resolve returns (nil, nil) for a missing, malformed, expired, or revoked
// token. A non-nil error always means the identity store was unreachable.
func (r *SessionResolver) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, nil
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(r.jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		r.log.Debug().Err(err).Msg("token rejected")
		return nil, nil
	}

	sessionID, _ := claims["sid"].(string)
	subjectID, _ := claims["sub"].(string)
	if sessionID == "" || subjectID == "" {
		return nil, nil
	}

	sess, err := r.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil || sess.SubjectID != subjectID || sess.Expired(time.Now().UTC()) {
		return nil, nil
	}
	return sess, nil
}
