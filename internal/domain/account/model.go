package account

import (
	"context"
	"time"
)

// Credential is a stored login. PasswordHash is a bcrypt hash.
type Credential struct {
	Username     string
	PasswordHash string
}

// Session is an authenticated analyst session.
type Session struct {
	Token     string
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

type contextKey string

const sessionContextKey contextKey = "account.session"

func WithSession(ctx context.Context, session Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

func SessionFromContext(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(Session)
	return session, ok
}
