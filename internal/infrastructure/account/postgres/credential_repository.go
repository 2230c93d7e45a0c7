// Package postgres stores analyst credentials in the dashboard_users table.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/football-dashboard/internal/domain/account"
	qb "github.com/riskibarqy/football-dashboard/internal/platform/querybuilder"
)

type CredentialRepository struct {
	db *sqlx.DB
}

func NewCredentialRepository(db *sqlx.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// GetByUsername ignores disabled users.
func (r *CredentialRepository) GetByUsername(ctx context.Context, username string) (account.Credential, bool, error) {
	query, args, err := qb.Select("username", "password_hash").From(credentialTable).
		Where(
			qb.Eq("username", username),
			qb.IsNull("disabled_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return account.Credential{}, false, fmt.Errorf("build get credential query: %w", err)
	}

	var row credentialTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return account.Credential{}, false, nil
		}
		return account.Credential{}, false, fmt.Errorf("get credential: %w", err)
	}

	return account.Credential{Username: row.Username, PasswordHash: row.PasswordHash}, true, nil
}

// Upsert creates the user or replaces its hash, re-enabling a disabled user.
func (r *CredentialRepository) Upsert(ctx context.Context, credential account.Credential) error {
	credential.Username = strings.TrimSpace(credential.Username)
	if credential.Username == "" || credential.PasswordHash == "" {
		return fmt.Errorf("username and password hash are required")
	}

	query, args, err := qb.InsertModel(credentialTable, credentialTableModel{
		Username:     credential.Username,
		PasswordHash: credential.PasswordHash,
	}, "ON CONFLICT (username) DO UPDATE SET password_hash = EXCLUDED.password_hash, disabled_at = NULL, updated_at = NOW()")
	if err != nil {
		return fmt.Errorf("build upsert credential query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert credential: %w", err)
	}
	return nil
}

// Disable reports whether an enabled user was found.
func (r *CredentialRepository) Disable(ctx context.Context, username string) (bool, error) {
	query, args, err := qb.Update(credentialTable).
		SetRaw("disabled_at", "NOW()").
		SetRaw("updated_at", "NOW()").
		Where(qb.Eq("username", username), qb.IsNull("disabled_at")).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build disable credential query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("disable credential: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("disable credential rows affected: %w", err)
	}
	return affected > 0, nil
}
