package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/baajur/users/internal/db"
	"github.com/baajur/users/internal/errs"
	"github.com/baajur/users/internal/model"
)

type identitiesRepo struct {
	db *db.DB
}

// NewIdentities builds the postgres identities repository.
func NewIdentities(db *db.DB) Identities {
	return &identitiesRepo{db: db}
}

func (r *identitiesRepo) FindByEmailProvider(ctx context.Context, email string, provider model.Provider) (model.Identity, error) {
	var ident model.Identity
	err := r.db.GetContext(ctx, &ident, `
		SELECT user_id, email, password, provider, saga_id
		FROM identities
		WHERE LOWER(email) = LOWER($1) AND provider = $2
	`, email, provider)
	return ident, wrap("identities.find_by_email_provider", err)
}

func (r *identitiesRepo) EmailProviderExists(ctx context.Context, email string, provider model.Provider) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM identities
			WHERE LOWER(email) = LOWER($1) AND provider = $2
		)
	`, email, provider)
	if err != nil {
		return false, errs.Store("identities.email_provider_exists", err)
	}
	return exists, nil
}

func (r *identitiesRepo) Create(ctx context.Context, email string, passwordHash *string, provider model.Provider, userID model.UserID) (model.Identity, error) {
	var ident model.Identity
	err := r.db.GetContext(ctx, &ident, `
		INSERT INTO identities (user_id, email, password, provider, saga_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING user_id, email, password, provider, saga_id
	`, userID, email, passwordHash, provider, uuid.NewString())
	return ident, wrap("identities.create", err)
}

func (r *identitiesRepo) UpdatePassword(ctx context.Context, email string, provider model.Provider, passwordHash string) (model.Identity, error) {
	var ident model.Identity
	err := r.db.GetContext(ctx, &ident, `
		UPDATE identities SET password = $3
		WHERE LOWER(email) = LOWER($1) AND provider = $2
		RETURNING user_id, email, password, provider, saga_id
	`, email, provider, passwordHash)
	return ident, wrap("identities.update_password", err)
}
