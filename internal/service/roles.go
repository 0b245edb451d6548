package service

import (
	"context"

	"github.com/baajur/users/internal/authz"
	"github.com/baajur/users/internal/errs"
	"github.com/baajur/users/internal/model"
	"github.com/baajur/users/internal/repo"
	"github.com/baajur/users/internal/roles"
)

// RolesService serves role grants. Every mutation invalidates the
// roles cache for the affected user before the write is acknowledged,
// so no later lookup can observe the pre-write privilege set.
type RolesService struct {
	grants repo.UserRoles
	cache  *roles.Cache
	acls   *authz.AclFactory
}

func NewRoles(grants repo.UserRoles, cache *roles.Cache, acls *authz.AclFactory) *RolesService {
	return &RolesService{grants: grants, cache: cache, acls: acls}
}

// ListForUser returns the role grants of a user.
func (s *RolesService) ListForUser(ctx context.Context, actor *model.UserID, userID model.UserID) ([]model.UserRole, error) {
	grants, err := s.grants.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ts := make([]authz.Target, len(grants))
	for i := range grants {
		ts[i] = &grants[i]
	}
	if !s.acls.For(actor).CanDo(ctx, authz.ResourceUserRoles, authz.ActionRead, ts) {
		return nil, errs.ErrForbidden
	}
	return grants, nil
}

// Grant assigns a role to a user.
func (s *RolesService) Grant(ctx context.Context, actor *model.UserID, payload model.NewUserRole) (model.UserRole, error) {
	target := &model.UserRole{UserID: payload.UserID, Role: payload.Role}
	if !s.acls.For(actor).CanDo(ctx, authz.ResourceUserRoles, authz.ActionCreate, []authz.Target{target}) {
		return model.UserRole{}, errs.ErrForbidden
	}
	grant, err := s.grants.Create(ctx, payload)
	if err != nil {
		return model.UserRole{}, err
	}
	if err := s.cache.Invalidate(ctx, payload.UserID); err != nil {
		return model.UserRole{}, err
	}
	return grant, nil
}

// Revoke removes one matching role grant from a user.
func (s *RolesService) Revoke(ctx context.Context, actor *model.UserID, payload model.NewUserRole) (model.UserRole, error) {
	target := &model.UserRole{UserID: payload.UserID, Role: payload.Role}
	if !s.acls.For(actor).CanDo(ctx, authz.ResourceUserRoles, authz.ActionDelete, []authz.Target{target}) {
		return model.UserRole{}, errs.ErrForbidden
	}
	grant, err := s.grants.DeleteByUserRole(ctx, payload)
	if err != nil {
		return model.UserRole{}, err
	}
	if err := s.cache.Invalidate(ctx, payload.UserID); err != nil {
		return model.UserRole{}, err
	}
	return grant, nil
}

// AssignDefault gives a user the default role. Internal maintenance
// path: runs under the system ACL.
func (s *RolesService) AssignDefault(ctx context.Context, userID model.UserID) (model.UserRole, error) {
	if !s.acls.System().CanDo(ctx, authz.ResourceUserRoles, authz.ActionCreate, nil) {
		return model.UserRole{}, errs.ErrForbidden
	}
	grant, err := s.grants.Create(ctx, model.NewUserRole{UserID: userID, Role: authz.RoleUser})
	if err != nil {
		return model.UserRole{}, err
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		return model.UserRole{}, err
	}
	return grant, nil
}

// DeleteAllForUser removes every grant of a user. Internal
// maintenance path: runs under the system ACL.
func (s *RolesService) DeleteAllForUser(ctx context.Context, userID model.UserID) ([]model.UserRole, error) {
	if !s.acls.System().CanDo(ctx, authz.ResourceUserRoles, authz.ActionDelete, nil) {
		return nil, errs.ErrForbidden
	}
	grants, err := s.grants.DeleteAllForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		return nil, err
	}
	return grants, nil
}
