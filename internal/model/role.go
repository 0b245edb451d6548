package model

import "github.com/baajur/users/internal/authz"

// RoleID identifies a user-role row.
type RoleID int32

// UserRole grants a role to a user.
type UserRole struct {
	ID     RoleID     `db:"id" json:"id"`
	UserID UserID     `db:"user_id" json:"user_id"`
	Role   authz.Role `db:"name" json:"name"`
}

// IsInScope reports whether the grant is a valid target for the given
// scope when userID is acting.
func (r *UserRole) IsInScope(scope authz.Scope, userID UserID) bool {
	switch scope {
	case authz.ScopeAll:
		return true
	case authz.ScopeOwned:
		return r.UserID == userID
	default:
		return false
	}
}

// NewUserRole is the payload for granting a role.
type NewUserRole struct {
	UserID UserID     `json:"user_id"`
	Role   authz.Role `json:"name"`
}
