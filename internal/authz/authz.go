// Package authz decides whether an identity may perform an action on
// a resource. Roles and their permissions are hardcoded into a static
// table built once at startup; only role membership is looked up per
// request.
package authz

import "context"

// UserID identifies an acting user.
type UserID = int32

// Resource is a protected entity class.
type Resource string

const (
	ResourceUsers     Resource = "users"
	ResourceUserRoles Resource = "user_roles"
)

// Action is an operation kind. ActionAll matches any action.
type Action string

const (
	ActionAll    Action = "all"
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Scope bounds the targets an action may touch. ScopeAll matches any
// target; ScopeOwned matches only targets owned by the acting user.
type Scope string

const (
	ScopeAll   Scope = "all"
	ScopeOwned Scope = "owned"
)

// Role is a named set of permissions.
type Role string

const (
	RoleSuperuser Role = "superuser"
	RoleUser      Role = "user"
)

// Permission grants an action on a resource within a scope.
type Permission struct {
	Resource Resource
	Action   Action
	Scope    Scope
}

// Target is a resource instance that can answer whether it lies in a
// scope for an acting user.
type Target interface {
	IsInScope(scope Scope, userID UserID) bool
}

// RolesSource yields the current roles of a user.
type RolesSource interface {
	Get(ctx context.Context, userID UserID) ([]Role, error)
}

// Acl tells if a user can perform an action on a resource. Targets
// carry ownership context; an empty target list satisfies any scope,
// which is what resource-less actions like list rely on.
type Acl interface {
	CanDo(ctx context.Context, resource Resource, action Action, targets []Target) bool
}

// SystemAcl authorizes everything. Used for internal maintenance
// paths that run without a user.
type SystemAcl struct{}

func (SystemAcl) CanDo(context.Context, Resource, Action, []Target) bool { return true }

// UnauthorizedAcl denies everything. Used when no user id is present.
type UnauthorizedAcl struct{}

func (UnauthorizedAcl) CanDo(context.Context, Resource, Action, []Target) bool { return false }

// ApplicationAcl evaluates the static permission table against the
// acting user's roles.
type ApplicationAcl struct {
	perms  map[Role][]Permission
	roles  RolesSource
	userID UserID
}

// NewApplicationAcl builds an ACL for the given acting user.
func NewApplicationAcl(perms map[Role][]Permission, roles RolesSource, userID UserID) *ApplicationAcl {
	return &ApplicationAcl{perms: perms, roles: roles, userID: userID}
}

// CanDo reports whether at least one permission held through the
// user's roles matches the resource and action and whose scope is
// satisfied by every target. Role lookup failure degrades to no
// roles: a denied action is the safe default.
func (a *ApplicationAcl) CanDo(ctx context.Context, resource Resource, action Action, targets []Target) bool {
	roles, err := a.roles.Get(ctx, a.userID)
	if err != nil {
		roles = nil
	}
	for _, role := range roles {
		for _, p := range a.perms[role] {
			if p.Resource != resource {
				continue
			}
			if p.Action != action && p.Action != ActionAll {
				continue
			}
			if a.inScope(p.Scope, targets) {
				return true
			}
		}
	}
	return false
}

func (a *ApplicationAcl) inScope(scope Scope, targets []Target) bool {
	for _, t := range targets {
		if !t.IsInScope(scope, a.userID) {
			return false
		}
	}
	return true
}

// AclFactory hands out the right ACL variant for a request: the
// unauthenticated deny-all when no user id is present, the
// application ACL otherwise, and the trusted system ACL for internal
// maintenance paths.
type AclFactory struct {
	perms map[Role][]Permission
	roles RolesSource
}

func NewAclFactory(perms map[Role][]Permission, roles RolesSource) *AclFactory {
	return &AclFactory{perms: perms, roles: roles}
}

// For returns the ACL for the given acting user, which may be absent.
func (f *AclFactory) For(userID *UserID) Acl {
	if userID == nil {
		return UnauthorizedAcl{}
	}
	return NewApplicationAcl(f.perms, f.roles, *userID)
}

// System returns the trusted ACL that bypasses user authorization.
func (f *AclFactory) System() Acl {
	return SystemAcl{}
}

// DefaultPermissions builds the static role → permission table. Run
// once at process start; the result is read-only afterwards.
func DefaultPermissions() map[Role][]Permission {
	return map[Role][]Permission{
		RoleSuperuser: {
			{Resource: ResourceUsers, Action: ActionAll, Scope: ScopeAll},
			{Resource: ResourceUserRoles, Action: ActionAll, Scope: ScopeAll},
		},
		RoleUser: {
			{Resource: ResourceUsers, Action: ActionRead, Scope: ScopeAll},
			{Resource: ResourceUsers, Action: ActionAll, Scope: ScopeOwned},
			{Resource: ResourceUserRoles, Action: ActionRead, Scope: ScopeOwned},
		},
	}
}
