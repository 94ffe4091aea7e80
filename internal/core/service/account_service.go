package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/cottontrade/marketplace-api/internal/core/domain"
	"github.com/cottontrade/marketplace-api/internal/core/ports"
)

// AccountService implements registration and the session lifecycle.
type AccountService struct {
	repo       ports.AccountRepository
	sessions   ports.SessionStore
	bus        ports.AuthEventBus
	recorder   ports.ActivityRecorder
	jwtSecret  string
	sessionTTL time.Duration
	log        zerolog.Logger
}

func NewAccountService(
	repo ports.AccountRepository,
	sessions ports.SessionStore,
	bus ports.AuthEventBus,
	recorder ports.ActivityRecorder,
	jwtSecret string,
	sessionTTL time.Duration,
	log zerolog.Logger,
) *AccountService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AccountService{
		repo:       repo,
		sessions:   sessions,
		bus:        bus,
		recorder:   recorder,
		jwtSecret:  jwtSecret,
		sessionTTL: sessionTTL,
		log:        log,
	}
}

// Register creates a credential record. The profile is not created here: it is
// provisioned lazily by the gate on the first authenticated request.
func (s *AccountService) Register(ctx context.Context, email, password string) (*domain.Account, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Login verifies credentials, creates a revocable session record, and returns
// a signed token referencing it.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, *domain.Session, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	sess := &domain.Session{
		ID:        uuid.NewString(),
		SubjectID: account.ID,
		Email:     account.Email,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return "", nil, err
	}

	token, err := s.signToken(sess)
	if err != nil {
		return "", nil, err
	}

	s.announce(ctx, domain.AuthEvent{Type: domain.AuthSignedIn, SubjectID: account.ID, Email: account.Email, At: now})
	s.recorder.Record(domain.ActivityEntry{
		ID:        uuid.NewString(),
		SubjectID: account.ID,
		Action:    domain.ActionSignIn,
		CreatedAt: now,
	})

	return token, sess, nil
}

// SignOut destroys the session record; the token dies with it.
func (s *AccountService) SignOut(ctx context.Context, sess *domain.Session) error {
	if err := s.sessions.Delete(ctx, sess.ID); err != nil {
		return err
	}

	now := time.Now().UTC()
	s.announce(ctx, domain.AuthEvent{Type: domain.AuthSignedOut, SubjectID: sess.SubjectID, Email: sess.Email, At: now})
	s.recorder.Record(domain.ActivityEntry{
		ID:        uuid.NewString(),
		SubjectID: sess.SubjectID,
		Action:    domain.ActionSignOut,
		CreatedAt: now,
	})
	return nil
}

func (s *AccountService) signToken(sess *domain.Session) (string, error) {
	claims := jwt.MapClaims{
		"sub": sess.SubjectID,
		"sid": sess.ID,
		"exp": sess.ExpiresAt.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func (s *AccountService) announce(ctx context.Context, ev domain.AuthEvent) {
	if err := s.bus.Publish(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("type", string(ev.Type)).Msg("failed to publish auth event")
	}
}
