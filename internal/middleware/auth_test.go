package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baajur/users/internal/model"
	"github.com/baajur/users/internal/repo/repotest"
	"github.com/baajur/users/internal/token"
)

func TestIdentifyValidToken(t *testing.T) {
	store := repotest.NewStore()
	u := store.SeedUser(model.User{Email: "bob@example.com", IsActive: true})
	codec := token.NewCodec([]byte("secret"))
	mw := NewAuthMiddleware(codec, store.Users())

	signed, err := codec.Encode("bob@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/users/current", nil)
	req.Header.Set("Authorization", "Bearer "+signed)

	out := mw.Identify(req)

	id, ok := UserIDFromContext(out.Context())
	require.True(t, ok)
	assert.Equal(t, u.ID, id)

	email, ok := EmailFromContext(out.Context())
	require.True(t, ok)
	assert.Equal(t, "bob@example.com", email)
}

func TestIdentifyLeavesRequestUnauthenticated(t *testing.T) {
	store := repotest.NewStore()
	store.SeedUser(model.User{Email: "bob@example.com", IsActive: true})
	codec := token.NewCodec([]byte("secret"))
	mw := NewAuthMiddleware(codec, store.Users())

	otherSecret, err := token.NewCodec([]byte("other")).Encode("bob@example.com")
	require.NoError(t, err)

	unknownUser, err := codec.Encode("nobody@example.com")
	require.NoError(t, err)

	for name, header := range map[string]string{
		"no header":     "",
		"not bearer":    "Basic Ym9iOnNlY3JldA==",
		"garbage token": "Bearer not-a-token",
		"wrong secret":  "Bearer " + otherSecret,
		"unknown email": "Bearer " + unknownUser,
		"empty bearer":  "Bearer ",
	} {
		req := httptest.NewRequest("GET", "/users/current", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}

		out := mw.Identify(req)

		_, ok := UserIDFromContext(out.Context())
		assert.False(t, ok, "%s must not authenticate", name)
	}
}
