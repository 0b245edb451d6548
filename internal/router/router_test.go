package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveOrdering(t *testing.T) {
	p := NewRouteParser()

	cases := []struct {
		path string
		want Route
	}{
		{"/healthcheck", Healthcheck{}},
		{"/users", Users{}},
		{"/users/current", Current{}},
		{"/users/42", User{ID: 42}},
		{"/users_by_saga_id/03bd2bd0-6f88-4b58-a5c9-ba8772a84be7", UserBySagaID{SagaID: "03bd2bd0-6f88-4b58-a5c9-ba8772a84be7"}},
		{"/jwt/email", JWTEmail{}},
		{"/jwt/google", JWTGoogle{}},
		{"/jwt/facebook", JWTFacebook{}},
		{"/users/password_reset", PasswordReset{}},
		{"/user_roles", UserRoles{}},
		{"/user_roles/7", UserRole{UserID: 7}},
		{"/roles/default/7", DefaultRole{UserID: 7}},
	}

	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			got, ok := p.Resolve(tc.path)
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolveNoMatch(t *testing.T) {
	p := NewRouteParser()

	for _, path := range []string{
		"/",
		"/unknown",
		"/users/abc",
		"/users/42/extra",
		"/user_roles/abc",
		"/roles/default/abc",
	} {
		_, ok := p.Resolve(path)
		assert.False(t, ok, "path %q should not resolve", path)
	}
}

// A converter that rejects its captures must not stop the search:
// later rules still get a chance at the same path.
func TestResolveFallsThroughRejectedConverter(t *testing.T) {
	type narrow struct{ Route }
	type broad struct{ Route }

	p := NewParser()
	p.AddWithParams(`^/items/(\w+)$`, func(params []string) (Route, bool) {
		if params[0] != "special" {
			return nil, false
		}
		return narrow{}, true
	})
	p.Add(`^/items/\w+$`, func() Route { return broad{} })

	got, ok := p.Resolve("/items/special")
	require.True(t, ok)
	assert.IsType(t, narrow{}, got)

	got, ok = p.Resolve("/items/other")
	require.True(t, ok)
	assert.IsType(t, broad{}, got)
}

func TestResolveRegistrationOrderWins(t *testing.T) {
	type first struct{ Route }
	type second struct{ Route }

	p := NewParser()
	p.Add(`^/thing$`, func() Route { return first{} })
	p.Add(`^/thing$`, func() Route { return second{} })

	got, ok := p.Resolve("/thing")
	require.True(t, ok)
	assert.IsType(t, first{}, got)
}

func TestUserIDOverflowRejected(t *testing.T) {
	p := NewRouteParser()

	// Larger than int32: the numeric rule rejects and nothing else
	// claims the path.
	_, ok := p.Resolve("/users/99999999999999999999")
	assert.False(t, ok)
}
