package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/baajur/users/internal/model"
	"github.com/baajur/users/internal/repo"
	"github.com/baajur/users/internal/token"
)

// unexported, collision-proof context keys
type userIDContextKeyType struct{}
type emailContextKeyType struct{}

var (
	userIDKey = userIDContextKeyType{}
	emailKey  = emailContextKeyType{}
)

// UserIDFromContext extracts the authenticated user id from context.
func UserIDFromContext(ctx context.Context) (model.UserID, bool) {
	id, ok := ctx.Value(userIDKey).(model.UserID)
	return id, ok
}

// EmailFromContext extracts the canonical email from context.
func EmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(emailKey).(string)
	return email, ok
}

// AuthMiddleware resolves the caller's identity from a bearer token.
// A missing or unverifiable token leaves the request unauthenticated
// rather than rejecting it: authorization decisions belong to the ACL
// downstream, and some operations are public.
type AuthMiddleware struct {
	codec *token.Codec
	users repo.Users
}

func NewAuthMiddleware(codec *token.Codec, users repo.Users) *AuthMiddleware {
	return &AuthMiddleware{codec: codec, users: users}
}

// Identify attaches the caller's user id and email to the request
// context when the Authorization header carries a valid token.
func (a *AuthMiddleware) Identify(r *http.Request) *http.Request {
	raw := bearer(r.Header.Get("Authorization"))
	if raw == "" {
		return r
	}

	email, err := a.codec.Decode(raw)
	if err != nil {
		return r
	}

	user, err := a.users.FindByEmail(r.Context(), email)
	if err != nil {
		return r
	}

	ctx := context.WithValue(r.Context(), userIDKey, user.ID)
	ctx = context.WithValue(ctx, emailKey, user.Email)
	return r.WithContext(ctx)
}

func bearer(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
