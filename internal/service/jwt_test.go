package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baajur/users/internal/config"
	"github.com/baajur/users/internal/errs"
	"github.com/baajur/users/internal/model"
	"github.com/baajur/users/internal/password"
	"github.com/baajur/users/internal/profile"
	"github.com/baajur/users/internal/repo"
	"github.com/baajur/users/internal/repo/repotest"
	"github.com/baajur/users/internal/token"
)

type stubProfiles struct {
	google   *profile.Google
	facebook *profile.Facebook
	err      error
}

func (s stubProfiles) Google(context.Context, string, string) (*profile.Google, error) {
	return s.google, s.err
}

func (s stubProfiles) Facebook(context.Context, string, string) (*profile.Facebook, error) {
	return s.facebook, s.err
}

func newJWTService(store *repotest.Store, profiles ProfileSource) (*JWTService, *token.Codec) {
	codec := token.NewCodec([]byte("test-secret"))
	svc := NewJWT(store.Users(), store.Identities(), profiles, codec, config.OAuth{}, config.OAuth{})
	return svc, codec
}

func seedEmailAccount(store *repotest.Store, email, pass string) model.User {
	u := store.SeedUser(model.User{Email: email, IsActive: true})
	hash := password.New(pass)
	store.SeedIdentity(model.Identity{
		UserID:   u.ID,
		Email:    email,
		Password: &hash,
		Provider: model.ProviderEmail,
	})
	return u
}

func TestCreateTokenEmail(t *testing.T) {
	store := repotest.NewStore()
	seedEmailAccount(store, "bob@example.com", "correcthorse")
	svc, codec := newJWTService(store, stubProfiles{})

	jwt, err := svc.CreateTokenEmail(context.Background(), model.NewEmailIdentity{
		Email:    "bob@example.com",
		Password: "correcthorse",
	})
	require.NoError(t, err)

	email, err := codec.Decode(jwt.Token)
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", email)
}

func TestCreateTokenEmailUnknownEmail(t *testing.T) {
	svc, _ := newJWTService(repotest.NewStore(), stubProfiles{})

	_, err := svc.CreateTokenEmail(context.Background(), model.NewEmailIdentity{
		Email:    "nobody@example.com",
		Password: "correcthorse",
	})
	assert.ErrorIs(t, err, errs.ErrAuth)
}

// Identities view whose lookups surface not-found wrapped in a store
// annotation, as a driver layer might.
type wrappingIdents struct{ repo.Identities }

func (w wrappingIdents) FindByEmailProvider(ctx context.Context, email string, provider model.Provider) (model.Identity, error) {
	ident, err := w.Identities.FindByEmailProvider(ctx, email, provider)
	if err != nil {
		return model.Identity{}, fmt.Errorf("identities.find: %w", err)
	}
	return ident, nil
}

func TestCreateTokenEmailWrappedNotFound(t *testing.T) {
	store := repotest.NewStore()
	codec := token.NewCodec([]byte("test-secret"))
	svc := NewJWT(store.Users(), wrappingIdents{store.Identities()}, stubProfiles{}, codec, config.OAuth{}, config.OAuth{})

	_, err := svc.CreateTokenEmail(context.Background(), model.NewEmailIdentity{
		Email:    "nobody@example.com",
		Password: "correcthorse",
	})
	assert.ErrorIs(t, err, errs.ErrAuth)
}

func TestCreateTokenEmailWrongPassword(t *testing.T) {
	store := repotest.NewStore()
	seedEmailAccount(store, "bob@example.com", "correcthorse")
	svc, _ := newJWTService(store, stubProfiles{})

	_, err := svc.CreateTokenEmail(context.Background(), model.NewEmailIdentity{
		Email:    "bob@example.com",
		Password: "wrenghorse",
	})
	assert.ErrorIs(t, err, errs.ErrAuth)
}

func TestCreateTokenEmailPasswordlessIdentity(t *testing.T) {
	store := repotest.NewStore()
	u := store.SeedUser(model.User{Email: "bob@example.com", IsActive: true})
	store.SeedIdentity(model.Identity{
		UserID:   u.ID,
		Email:    "bob@example.com",
		Provider: model.ProviderEmail,
	})
	svc, _ := newJWTService(store, stubProfiles{})

	_, err := svc.CreateTokenEmail(context.Background(), model.NewEmailIdentity{
		Email:    "bob@example.com",
		Password: "correcthorse",
	})
	assert.ErrorIs(t, err, errs.ErrAuth)
}

func TestCreateTokenEmailMalformedStoredHash(t *testing.T) {
	store := repotest.NewStore()
	u := store.SeedUser(model.User{Email: "bob@example.com", IsActive: true})
	broken := "no-separator-here"
	store.SeedIdentity(model.Identity{
		UserID:   u.ID,
		Email:    "bob@example.com",
		Password: &broken,
		Provider: model.ProviderEmail,
	})
	svc, _ := newJWTService(store, stubProfiles{})

	_, err := svc.CreateTokenEmail(context.Background(), model.NewEmailIdentity{
		Email:    "bob@example.com",
		Password: "correcthorse",
	})
	assert.ErrorIs(t, err, errs.ErrAuth)
}

func TestCreateTokenGoogleFirstSignIn(t *testing.T) {
	store := repotest.NewStore()
	svc, codec := newJWTService(store, stubProfiles{google: &profile.Google{
		EmailAddr:  "grace@example.com",
		Name:       "Grace",
		FamilyName: "Hopper",
	}})

	jwt, err := svc.CreateTokenGoogle(context.Background(), ProviderOauth{Token: "tok"})
	require.NoError(t, err)

	email, err := codec.Decode(jwt.Token)
	require.NoError(t, err)
	assert.Equal(t, "grace@example.com", email)

	assert.Equal(t, 1, store.UserCount())
	assert.Equal(t, 1, store.IdentityCount())

	user, err := store.Users().FindByEmail(context.Background(), "grace@example.com")
	require.NoError(t, err)
	require.NotNil(t, user.FirstName)
	assert.Equal(t, "Grace", *user.FirstName)

	ident, err := store.Identities().FindByEmailProvider(context.Background(), "grace@example.com", model.ProviderGoogle)
	require.NoError(t, err)
	assert.Equal(t, user.ID, ident.UserID)
	assert.Nil(t, ident.Password)
}

func TestCreateTokenGoogleReturningUser(t *testing.T) {
	store := repotest.NewStore()
	u := store.SeedUser(model.User{Email: "grace@example.com", IsActive: true})
	store.SeedIdentity(model.Identity{
		UserID:   u.ID,
		Email:    "grace@example.com",
		Provider: model.ProviderGoogle,
	})
	svc, _ := newJWTService(store, stubProfiles{google: &profile.Google{
		EmailAddr: "grace@example.com",
	}})

	_, err := svc.CreateTokenGoogle(context.Background(), ProviderOauth{Token: "tok"})
	require.NoError(t, err)

	// No second user or identity appears for a returning sign-in.
	assert.Equal(t, 1, store.UserCount())
	assert.Equal(t, 1, store.IdentityCount())
}

func TestCreateTokenFacebookLinksExistingUser(t *testing.T) {
	store := repotest.NewStore()
	u := seedEmailAccount(store, "bob@example.com", "correcthorse")
	first := "Robert"
	_, err := store.Users().Update(context.Background(), u.ID, model.UpdateUser{FirstName: &first})
	require.NoError(t, err)

	svc, _ := newJWTService(store, stubProfiles{facebook: &profile.Facebook{
		EmailAddr: "bob@example.com",
		FirstName: "Bob",
		LastName:  "Tables",
	}})

	_, err = svc.CreateTokenFacebook(context.Background(), ProviderOauth{Token: "tok"})
	require.NoError(t, err)

	// Same email through a second provider links, never duplicates.
	assert.Equal(t, 1, store.UserCount())
	assert.Equal(t, 2, store.IdentityCount())

	user, err := store.Users().FindByEmail(context.Background(), "bob@example.com")
	require.NoError(t, err)
	require.NotNil(t, user.FirstName)
	assert.Equal(t, "Robert", *user.FirstName, "populated fields survive the merge")
	require.NotNil(t, user.LastName)
	assert.Equal(t, "Tables", *user.LastName, "empty fields adopt provider values")
}

func TestCreateTokenGoogleUpstreamFailure(t *testing.T) {
	store := repotest.NewStore()
	svc, _ := newJWTService(store, stubProfiles{err: errs.Upstream("google", assert.AnError)})

	_, err := svc.CreateTokenGoogle(context.Background(), ProviderOauth{Token: "tok"})
	var uerr *errs.UpstreamError
	require.ErrorAs(t, err, &uerr)

	// A failed fetch writes nothing.
	assert.Equal(t, 0, store.UserCount())
	assert.Equal(t, 0, store.IdentityCount())
}
