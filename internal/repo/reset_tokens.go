package repo

import (
	"context"

	"github.com/baajur/users/internal/db"
	"github.com/baajur/users/internal/errs"
)

type resetTokensRepo struct {
	db *db.DB
}

// NewResetTokens builds the postgres reset-tokens repository.
func NewResetTokens(db *db.DB) ResetTokens {
	return &resetTokensRepo{db: db}
}

func (r *resetTokensRepo) Create(ctx context.Context, token, email string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reset_tokens (token, email)
		VALUES ($1, $2)
		ON CONFLICT (token) DO NOTHING
	`, token, email)
	if err != nil {
		return errs.Store("reset_tokens.create", err)
	}
	return nil
}

func (r *resetTokensRepo) FindByToken(ctx context.Context, token string) (ResetToken, error) {
	var rt ResetToken
	err := r.db.GetContext(ctx, &rt, `
		SELECT token, email, created_at FROM reset_tokens WHERE token = $1
	`, token)
	return rt, wrap("reset_tokens.find_by_token", err)
}

func (r *resetTokensRepo) DeleteByToken(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM reset_tokens WHERE token = $1
	`, token)
	if err != nil {
		return errs.Store("reset_tokens.delete_by_token", err)
	}
	return nil
}
