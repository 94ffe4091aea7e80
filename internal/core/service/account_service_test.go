package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/cottontrade/marketplace-api/internal/core/domain"
)

type stubAccountRepo struct {
	accounts map[string]*domain.Account
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[string]*domain.Account)}
}

func (r *stubAccountRepo) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	if _, exists := r.accounts[account.Email]; exists {
		return nil, domain.ErrAccountExists
	}
	clone := *account
	r.accounts[account.Email] = &clone
	return &clone, nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	account, ok := r.accounts[email]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	clone := *account
	return &clone, nil
}

func newAccountService(repo *stubAccountRepo, store *stubSessionStore) (*AccountService, *stubBus, *stubRecorder) {
	bus := &stubBus{}
	recorder := &stubRecorder{}
	svc := NewAccountService(repo, store, bus, recorder, "secret", time.Hour, zerolog.Nop())
	return svc, bus, recorder
}

func TestAccountService_Register_HashesPassword(t *testing.T) {
	svc, _, _ := newAccountService(newStubAccountRepo(), newStubSessionStore())

	account, err := svc.Register(context.Background(), "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if account.PasswordHash == "s3cret" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("s3cret")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if account.ID == "" {
		t.Fatalf("expected generated account id")
	}
}

func TestAccountService_Register_Validation(t *testing.T) {
	svc, _, _ := newAccountService(newStubAccountRepo(), newStubSessionStore())

	if _, err := svc.Register(context.Background(), "", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob@example.com", ""); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAccountService_Register_Duplicate(t *testing.T) {
	svc, _, _ := newAccountService(newStubAccountRepo(), newStubSessionStore())

	_, _ = svc.Register(context.Background(), "bob@example.com", "pass")
	if _, err := svc.Register(context.Background(), "bob@example.com", "pass2"); err != domain.ErrAccountExists {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}
}

func TestAccountService_Login_Success(t *testing.T) {
	store := newStubSessionStore()
	svc, bus, recorder := newAccountService(newStubAccountRepo(), store)

	account, err := svc.Register(context.Background(), "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, sess, err := svc.Login(context.Background(), "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if sess == nil || sess.SubjectID != account.ID {
		t.Fatalf("unexpected session: %+v", sess)
	}
	if _, ok := store.sessions[sess.ID]; !ok {
		t.Fatalf("session record not created")
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["sid"] != sess.ID || claims["sub"] != account.ID {
		t.Fatalf("token must reference the session record, got %+v", claims)
	}

	if len(bus.events) != 1 || bus.events[0].Type != domain.AuthSignedIn {
		t.Fatalf("expected one signed_in event, got %+v", bus.events)
	}
	if len(recorder.entries) != 1 || recorder.entries[0].Action != domain.ActionSignIn {
		t.Fatalf("expected one sign_in audit entry, got %+v", recorder.entries)
	}
}

func TestAccountService_Login_InvalidPassword(t *testing.T) {
	svc, _, _ := newAccountService(newStubAccountRepo(), newStubSessionStore())

	_, _ = svc.Register(context.Background(), "dave@example.com", "goodpass")
	if _, _, err := svc.Login(context.Background(), "dave@example.com", "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAccountService_Login_AccountNotFound(t *testing.T) {
	svc, _, _ := newAccountService(newStubAccountRepo(), newStubSessionStore())

	if _, _, err := svc.Login(context.Background(), "ghost@example.com", "pass"); err != domain.ErrAccountNotFound {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountService_SignOut_RevokesSession(t *testing.T) {
	store := newStubSessionStore()
	svc, bus, _ := newAccountService(newStubAccountRepo(), store)

	_, _ = svc.Register(context.Background(), "erin@example.com", "pass")
	token, sess, err := svc.Login(context.Background(), "erin@example.com", "pass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := svc.SignOut(context.Background(), sess); err != nil {
		t.Fatalf("SignOut returned error: %v", err)
	}
	if _, ok := store.sessions[sess.ID]; ok {
		t.Fatalf("session record must be deleted")
	}
	if len(bus.events) != 2 || bus.events[1].Type != domain.AuthSignedOut {
		t.Fatalf("expected signed_out event, got %+v", bus.events)
	}

	// The token dies with the record.
	resolver := NewSessionResolver(store, "secret", zerolog.Nop())
	resolved, err := resolver.Resolve(context.Background(), token)
	if err != nil || resolved != nil {
		t.Fatalf("revoked token must resolve to nothing, got %+v, %v", resolved, err)
	}
}
