package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type staticRoles struct {
	roles map[UserID][]Role
	err   error
}

func (s staticRoles) Get(_ context.Context, userID UserID) ([]Role, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.roles[userID], nil
}

type ownedBy UserID

func (o ownedBy) IsInScope(scope Scope, userID UserID) bool {
	switch scope {
	case ScopeAll:
		return true
	case ScopeOwned:
		return UserID(o) == userID
	default:
		return false
	}
}

func aclFor(userID UserID, roles RolesSource) Acl {
	return NewApplicationAcl(DefaultPermissions(), roles, userID)
}

func TestSuperuserCanDoAnything(t *testing.T) {
	roles := staticRoles{roles: map[UserID][]Role{1: {RoleSuperuser}}}
	acl := aclFor(1, roles)
	ctx := context.Background()

	assert.True(t, acl.CanDo(ctx, ResourceUsers, ActionDelete, []Target{ownedBy(99)}))
	assert.True(t, acl.CanDo(ctx, ResourceUserRoles, ActionCreate, []Target{ownedBy(99)}))
	assert.True(t, acl.CanDo(ctx, ResourceUsers, ActionUpdate, nil))
}

func TestUserScopeRules(t *testing.T) {
	roles := staticRoles{roles: map[UserID][]Role{5: {RoleUser}}}
	acl := aclFor(5, roles)
	ctx := context.Background()

	// Reads on users reach any target.
	assert.True(t, acl.CanDo(ctx, ResourceUsers, ActionRead, []Target{ownedBy(99)}))

	// Writes on users only reach owned targets.
	assert.True(t, acl.CanDo(ctx, ResourceUsers, ActionUpdate, []Target{ownedBy(5)}))
	assert.False(t, acl.CanDo(ctx, ResourceUsers, ActionUpdate, []Target{ownedBy(99)}))
	assert.False(t, acl.CanDo(ctx, ResourceUsers, ActionDelete, []Target{ownedBy(99)}))

	// Role grants are readable only for oneself, never writable.
	assert.True(t, acl.CanDo(ctx, ResourceUserRoles, ActionRead, []Target{ownedBy(5)}))
	assert.False(t, acl.CanDo(ctx, ResourceUserRoles, ActionRead, []Target{ownedBy(99)}))
	assert.False(t, acl.CanDo(ctx, ResourceUserRoles, ActionCreate, []Target{ownedBy(5)}))
	assert.False(t, acl.CanDo(ctx, ResourceUserRoles, ActionDelete, []Target{ownedBy(5)}))
}

func TestEveryTargetMustBeInScope(t *testing.T) {
	roles := staticRoles{roles: map[UserID][]Role{5: {RoleUser}}}
	acl := aclFor(5, roles)

	targets := []Target{ownedBy(5), ownedBy(99)}
	assert.False(t, acl.CanDo(context.Background(), ResourceUsers, ActionUpdate, targets))
}

func TestEmptyTargetsSatisfyAnyScope(t *testing.T) {
	roles := staticRoles{roles: map[UserID][]Role{5: {RoleUser}}}
	acl := aclFor(5, roles)

	// List-style actions carry no targets; the owned-scope write
	// permission still applies.
	assert.True(t, acl.CanDo(context.Background(), ResourceUsers, ActionCreate, nil))
}

func TestNoRolesDenies(t *testing.T) {
	acl := aclFor(5, staticRoles{})
	assert.False(t, acl.CanDo(context.Background(), ResourceUsers, ActionRead, nil))
}

func TestRoleLookupFailureDenies(t *testing.T) {
	acl := aclFor(5, staticRoles{err: errors.New("store down")})
	assert.False(t, acl.CanDo(context.Background(), ResourceUsers, ActionRead, nil))
}

func TestFactoryVariants(t *testing.T) {
	f := NewAclFactory(DefaultPermissions(), staticRoles{})
	ctx := context.Background()

	assert.False(t, f.For(nil).CanDo(ctx, ResourceUsers, ActionRead, nil))
	assert.True(t, f.System().CanDo(ctx, ResourceUserRoles, ActionDelete, []Target{ownedBy(99)}))

	id := UserID(5)
	assert.IsType(t, &ApplicationAcl{}, f.For(&id))
}
