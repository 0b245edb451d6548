package router

import (
	"strconv"

	"github.com/baajur/users/internal/authz"
)

// Route is the set of endpoints the service serves, each carrying its
// typed parameters. Values are immutable once parsed.
type Route interface{ isRoute() }

type (
	// Healthcheck is the liveness probe.
	Healthcheck struct{}
	// Users lists users.
	Users struct{}
	// User addresses a single user by id.
	User struct{ ID authz.UserID }
	// UserBySagaID addresses a user through an identity linking id.
	UserBySagaID struct{ SagaID string }
	// Current addresses the authenticated caller's own profile.
	Current struct{}
	// JWTEmail mints a token from email/password credentials.
	JWTEmail struct{}
	// JWTGoogle mints a token from a Google access token.
	JWTGoogle struct{}
	// JWTFacebook mints a token from a Facebook access token.
	JWTFacebook struct{}
	// PasswordReset issues or applies a password reset token.
	PasswordReset struct{}
	// UserRoles lists or grants role assignments.
	UserRoles struct{}
	// UserRole addresses role assignments of a single user.
	UserRole struct{ UserID authz.UserID }
	// DefaultRole assigns the default role to a user.
	DefaultRole struct{ UserID authz.UserID }
)

func (Healthcheck) isRoute()   {}
func (Users) isRoute()         {}
func (User) isRoute()          {}
func (UserBySagaID) isRoute()  {}
func (Current) isRoute()       {}
func (JWTEmail) isRoute()      {}
func (JWTGoogle) isRoute()     {}
func (JWTFacebook) isRoute()   {}
func (PasswordReset) isRoute() {}
func (UserRoles) isRoute()     {}
func (UserRole) isRoute()      {}
func (DefaultRole) isRoute()   {}

// NewRouteParser builds the route table.
func NewRouteParser() *Parser {
	p := NewParser()

	p.Add(`^/healthcheck$`, func() Route { return Healthcheck{} })

	p.Add(`^/users$`, func() Route { return Users{} })

	p.Add(`^/users/current$`, func() Route { return Current{} })

	p.AddWithParams(`^/users/(\d+)$`, func(params []string) (Route, bool) {
		id, ok := userID(params)
		return User{ID: id}, ok
	})

	p.AddWithParams(`^/users_by_saga_id/([^/]+)$`, func(params []string) (Route, bool) {
		if len(params) == 0 {
			return nil, false
		}
		return UserBySagaID{SagaID: params[0]}, true
	})

	p.Add(`^/jwt/email$`, func() Route { return JWTEmail{} })

	p.Add(`^/jwt/google$`, func() Route { return JWTGoogle{} })

	p.Add(`^/jwt/facebook$`, func() Route { return JWTFacebook{} })

	p.Add(`^/users/password_reset$`, func() Route { return PasswordReset{} })

	p.Add(`^/user_roles$`, func() Route { return UserRoles{} })

	p.AddWithParams(`^/user_roles/(\d+)$`, func(params []string) (Route, bool) {
		id, ok := userID(params)
		return UserRole{UserID: id}, ok
	})

	p.AddWithParams(`^/roles/default/(\d+)$`, func(params []string) (Route, bool) {
		id, ok := userID(params)
		return DefaultRole{UserID: id}, ok
	})

	return p
}

func userID(params []string) (authz.UserID, bool) {
	if len(params) == 0 {
		return 0, false
	}
	id, err := strconv.ParseInt(params[0], 10, 32)
	if err != nil {
		return 0, false
	}
	return authz.UserID(id), true
}
