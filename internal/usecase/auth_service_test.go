package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/riskibarqy/football-dashboard/internal/domain/account"
	accountmock "github.com/riskibarqy/football-dashboard/internal/mocks/domain/account"
	"github.com/riskibarqy/football-dashboard/internal/platform/cache"
	"github.com/riskibarqy/football-dashboard/internal/platform/logging"
)

type loginCounter struct {
	mu       sync.Mutex
	outcomes []string
}

func (c *loginCounter) ObserveLogin(outcome string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outcomes = append(c.outcomes, outcome)
}

type fixedIDs struct {
	next int
}

func (g *fixedIDs) NewID() (string, error) {
	g.next++
	return strings.Repeat("a", 63) + string(rune('0'+g.next)), nil
}

type authFixture struct {
	service *AuthService
	repo    *accountmock.CredentialRepository
	counter *loginCounter
	now     time.Time
	mu      sync.Mutex
}

func (f *authFixture) clock() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *authFixture) advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	f := &authFixture{
		repo:    accountmock.NewCredentialRepository(t),
		counter: &loginCounter{},
		now:     time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
	}
	f.repo.On("GetByUsername", mock.Anything, "analyst").
		Return(account.Credential{Username: "analyst", PasswordHash: string(hash)}, true, nil).Maybe()
	f.repo.On("GetByUsername", mock.Anything, mock.Anything).
		Return(account.Credential{}, false, nil).Maybe()

	f.service = NewAuthService(AuthServiceConfig{
		Credentials: f.repo,
		Sessions:    cache.NewStore(time.Hour, cache.WithClock(f.clock)),
		IDGen:       &fixedIDs{},
		Observer:    f.counter,
		Logger:      logging.NewNop(),
		Now:         f.clock,
	})
	return f
}

func TestAuthService_Authenticate(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()

	session, err := f.service.Authenticate(ctx, " analyst ", "s3cret-pass")
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}
	if session.Username != "analyst" || session.Token == "" {
		t.Fatalf("unexpected session %+v", session)
	}
	if !session.ExpiresAt.Equal(session.CreatedAt.Add(time.Hour)) {
		t.Fatalf("expected expiry one TTL after creation: %+v", session)
	}

	got, err := f.service.SessionFromToken(ctx, session.Token)
	if err != nil || got.Username != "analyst" {
		t.Fatalf("expected session lookup to succeed: %+v err=%v", got, err)
	}
}

func TestAuthService_Authenticate_RejectsEveryOtherPair(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	pairs := []struct{ user, pass string }{
		{"analyst", "wrong"},
		{"analyst", ""},
		{"admin", "admin"},
		{"", "s3cret-pass"},
		{"Analyst", "s3cret-pass"},
		{"analyst", strings.Repeat("x", 200)},
	}
	for _, pair := range pairs {
		if _, err := f.service.Authenticate(context.Background(), pair.user, pair.pass); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized for %q/%q, got %v", pair.user, pair.pass, err)
		}
	}
	if f.service.sessions.Len() != 0 {
		t.Fatalf("failed logins must not create sessions")
	}
	for _, outcome := range f.counter.outcomes {
		if outcome == "ok" {
			t.Fatalf("unexpected ok outcome in %v", f.counter.outcomes)
		}
	}
}

func TestAuthService_CredentialStoreFailure(t *testing.T) {
	t.Parallel()

	repo := accountmock.NewCredentialRepository(t)
	repo.On("GetByUsername", mock.Anything, "analyst").Return(account.Credential{}, false, errors.New("connection refused")).Once()

	service := NewAuthService(AuthServiceConfig{
		Credentials: repo,
		Sessions:    cache.NewStore(time.Hour),
		Logger:      logging.NewNop(),
	})
	if _, err := service.Authenticate(context.Background(), "analyst", "pw"); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestAuthService_SessionExpiryAndLogout(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()

	first, err := f.service.Authenticate(ctx, "analyst", "s3cret-pass")
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}
	second, err := f.service.Authenticate(ctx, "analyst", "s3cret-pass")
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}
	if first.Token == second.Token {
		t.Fatalf("expected distinct tokens")
	}

	f.service.Logout(ctx, first.Token)
	if _, err := f.service.SessionFromToken(ctx, first.Token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected logged out session to be rejected, got %v", err)
	}

	f.advance(2 * time.Hour)
	if _, err := f.service.SessionFromToken(ctx, second.Token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected expired session to be rejected, got %v", err)
	}
	if _, err := f.service.SessionFromToken(ctx, ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected empty token to be rejected, got %v", err)
	}
}
