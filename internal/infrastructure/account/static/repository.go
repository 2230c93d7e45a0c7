// Package static serves a single credential taken from configuration.
package static

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/riskibarqy/football-dashboard/internal/domain/account"
)

type Repository struct {
	credential account.Credential
}

func NewRepository(username, passwordHash string) *Repository {
	return &Repository{credential: account.Credential{
		Username:     strings.TrimSpace(username),
		PasswordHash: strings.TrimSpace(passwordHash),
	}}
}

// GetByUsername matches the username exactly.
func (r *Repository) GetByUsername(_ context.Context, username string) (account.Credential, bool, error) {
	if r.credential.Username == "" || r.credential.PasswordHash == "" || username != r.credential.Username {
		return account.Credential{}, false, nil
	}
	return r.credential, true, nil
}

// HashPassword returns a bcrypt hash at the default cost.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
