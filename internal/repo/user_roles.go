package repo

import (
	"context"

	"github.com/baajur/users/internal/db"
	"github.com/baajur/users/internal/errs"
	"github.com/baajur/users/internal/model"
)

type userRolesRepo struct {
	db *db.DB
}

// NewUserRoles builds the postgres user-roles repository.
func NewUserRoles(db *db.DB) UserRoles {
	return &userRolesRepo{db: db}
}

func (r *userRolesRepo) ListForUser(ctx context.Context, userID model.UserID) ([]model.UserRole, error) {
	var grants []model.UserRole
	err := r.db.SelectContext(ctx, &grants, `
		SELECT id, user_id, name FROM user_roles WHERE user_id = $1 ORDER BY id
	`, userID)
	if err != nil {
		return nil, errs.Store("user_roles.list_for_user", err)
	}
	return grants, nil
}

func (r *userRolesRepo) Create(ctx context.Context, payload model.NewUserRole) (model.UserRole, error) {
	var grant model.UserRole
	err := r.db.GetContext(ctx, &grant, `
		INSERT INTO user_roles (user_id, name)
		VALUES ($1, $2)
		RETURNING id, user_id, name
	`, payload.UserID, payload.Role)
	return grant, wrap("user_roles.create", err)
}

func (r *userRolesRepo) DeleteByUserRole(ctx context.Context, payload model.NewUserRole) (model.UserRole, error) {
	var grant model.UserRole
	err := r.db.GetContext(ctx, &grant, `
		DELETE FROM user_roles
		WHERE id IN (
			SELECT id FROM user_roles WHERE user_id = $1 AND name = $2 LIMIT 1
		)
		RETURNING id, user_id, name
	`, payload.UserID, payload.Role)
	return grant, wrap("user_roles.delete", err)
}

func (r *userRolesRepo) DeleteAllForUser(ctx context.Context, userID model.UserID) ([]model.UserRole, error) {
	var grants []model.UserRole
	err := r.db.SelectContext(ctx, &grants, `
		DELETE FROM user_roles WHERE user_id = $1
		RETURNING id, user_id, name
	`, userID)
	if err != nil {
		return nil, errs.Store("user_roles.delete_all_for_user", err)
	}
	return grants, nil
}
