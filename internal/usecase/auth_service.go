package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/riskibarqy/football-dashboard/internal/domain/account"
	"github.com/riskibarqy/football-dashboard/internal/platform/cache"
	"github.com/riskibarqy/football-dashboard/internal/platform/id"
	"github.com/riskibarqy/football-dashboard/internal/platform/logging"
)

const sessionKeyPrefix = "session:"

// dummyHash is compared against when the username is unknown so both paths cost a bcrypt round.
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z2RMfC5D1nA3SzKx0oQeSYFe"

type LoginObserver interface {
	ObserveLogin(outcome string)
}

type LoginInput struct {
	Username string `validate:"required,max=128"`
	Password string `validate:"required,max=128"`
}

type AuthServiceConfig struct {
	Credentials account.CredentialRepository
	Sessions    *cache.Store
	IDGen       id.Generator
	Observer    LoginObserver
	Logger      *logging.Logger
	Now         func() time.Time
}

// AuthService checks analyst credentials and manages sessions. Session
// lifetime is the TTL of the session store.
type AuthService struct {
	credentials account.CredentialRepository
	sessions    *cache.Store
	idGen       id.Generator
	observer    LoginObserver
	validate    *validator.Validate
	logger      *logging.Logger
	now         func() time.Time
}

func NewAuthService(cfg AuthServiceConfig) *AuthService {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	idGen := cfg.IDGen
	if idGen == nil {
		idGen = id.NewRandomGenerator(0)
	}
	return &AuthService{
		credentials: cfg.Credentials,
		sessions:    cfg.Sessions,
		idGen:       idGen,
		observer:    cfg.Observer,
		validate:    validator.New(),
		logger:      loggerOrDefault(cfg.Logger),
		now:         now,
	}
}

// Authenticate returns a new session for a matching username and password.
// Every mismatch, including an unknown user, is ErrUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (account.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.Authenticate")
	defer span.End()

	input := LoginInput{Username: strings.TrimSpace(username), Password: password}
	if err := s.validate.StructCtx(ctx, input); err != nil {
		s.observeLogin("invalid")
		return account.Session{}, fmt.Errorf("%w: credenciales incorrectas", ErrUnauthorized)
	}

	credential, exists, err := s.credentials.GetByUsername(ctx, input.Username)
	if err != nil {
		s.observeLogin("error")
		return account.Session{}, fmt.Errorf("%w: credential lookup: %v", ErrDependencyUnavailable, err)
	}

	hash := dummyHash
	if exists {
		hash = credential.PasswordHash
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(input.Password)); err != nil || !exists {
		if exists && err != nil && !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			s.logger.WarnContext(ctx, "credential hash rejected", "username", input.Username, "error", err)
		}
		s.observeLogin("rejected")
		return account.Session{}, fmt.Errorf("%w: credenciales incorrectas", ErrUnauthorized)
	}

	token, err := s.idGen.NewID()
	if err != nil {
		s.observeLogin("error")
		return account.Session{}, fmt.Errorf("generate session token: %w", err)
	}

	now := s.now()
	session := account.Session{
		Token:     token,
		Username:  credential.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessions.TTL()),
	}
	s.sessions.Set(ctx, sessionKeyPrefix+token, session)
	s.observeLogin("ok")
	s.logger.InfoContext(ctx, "analyst logged in", "username", session.Username)
	return session, nil
}

// SessionFromToken resolves a live session. Unknown or expired tokens are ErrUnauthorized.
func (s *AuthService) SessionFromToken(ctx context.Context, token string) (account.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return account.Session{}, fmt.Errorf("%w: missing session", ErrUnauthorized)
	}
	value, ok := s.sessions.Get(ctx, sessionKeyPrefix+token)
	if !ok {
		return account.Session{}, fmt.Errorf("%w: session expired", ErrUnauthorized)
	}
	session, ok := value.(account.Session)
	if !ok || session.Expired(s.now()) {
		s.sessions.Delete(ctx, sessionKeyPrefix+token)
		return account.Session{}, fmt.Errorf("%w: session expired", ErrUnauthorized)
	}
	return session, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) {
	token = strings.TrimSpace(token)
	if token == "" {
		return
	}
	s.sessions.Delete(ctx, sessionKeyPrefix+token)
}

func (s *AuthService) observeLogin(outcome string) {
	if s.observer != nil {
		s.observer.ObserveLogin(outcome)
	}
}
