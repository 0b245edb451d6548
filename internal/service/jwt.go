// Package service holds the request-facing business logic: token
// minting with multi-provider reconciliation, user profiles, and role
// grants.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/baajur/users/internal/config"
	"github.com/baajur/users/internal/errs"
	"github.com/baajur/users/internal/model"
	"github.com/baajur/users/internal/password"
	"github.com/baajur/users/internal/profile"
	"github.com/baajur/users/internal/repo"
	"github.com/baajur/users/internal/token"
)

// JWT is the minted bearer token returned to the caller.
type JWT struct {
	Token string `json:"token"`
}

// ProviderOauth carries the access token issued by a federated
// provider.
type ProviderOauth struct {
	Token string `json:"token"`
}

// ProfileSource fetches normalized provider profiles. Satisfied by
// profile.Fetcher; tests substitute their own.
type ProfileSource interface {
	Google(ctx context.Context, infoURL, accessToken string) (*profile.Google, error)
	Facebook(ctx context.Context, infoURL, accessToken string) (*profile.Facebook, error)
}

// JWTService reconciles sign-in requests against existing users and
// identities and mints the session token. Regardless of the path
// taken, exactly one canonical email ends up in the token.
type JWTService struct {
	users    repo.Users
	idents   repo.Identities
	profiles ProfileSource
	codec    *token.Codec
	google   config.OAuth
	facebook config.OAuth
	now      func() time.Time
}

func NewJWT(
	users repo.Users,
	idents repo.Identities,
	profiles ProfileSource,
	codec *token.Codec,
	google config.OAuth,
	facebook config.OAuth,
) *JWTService {
	return &JWTService{
		users:    users,
		idents:   idents,
		profiles: profiles,
		codec:    codec,
		google:   google,
		facebook: facebook,
		now:      time.Now,
	}
}

// CreateTokenEmail authenticates email/password credentials. Every
// failure mode that involves the credential pair reports the same
// generic message.
func (s *JWTService) CreateTokenEmail(ctx context.Context, payload model.NewEmailIdentity) (JWT, error) {
	ident, err := s.idents.FindByEmailProvider(ctx, payload.Email, model.ProviderEmail)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return JWT{}, errs.ErrAuth
		}
		return JWT{}, err
	}

	if ident.Password == nil {
		return JWT{}, errs.ErrAuth
	}
	ok, err := password.Verify(*ident.Password, payload.Password)
	if err != nil || !ok {
		// A malformed stored hash is indistinguishable from a wrong
		// password to the caller.
		return JWT{}, errs.ErrAuth
	}

	return s.mint(ident.Email)
}

// CreateTokenGoogle mints a token for a Google access token.
func (s *JWTService) CreateTokenGoogle(ctx context.Context, oauth ProviderOauth) (JWT, error) {
	p, err := s.profiles.Google(ctx, s.google.InfoURL, oauth.Token)
	if err != nil {
		return JWT{}, err
	}
	return s.createTokenFromProfile(ctx, p)
}

// CreateTokenFacebook mints a token for a Facebook access token.
func (s *JWTService) CreateTokenFacebook(ctx context.Context, oauth ProviderOauth) (JWT, error) {
	p, err := s.profiles.Facebook(ctx, s.facebook.InfoURL, oauth.Token)
	if err != nil {
		return JWT{}, err
	}
	return s.createTokenFromProfile(ctx, p)
}

// createTokenFromProfile runs the provider reconciliation: returning
// user, account link, or signup — in that order. The identity-exists
// check always precedes any write, and the user-exists check always
// precedes user creation, so one email never yields two user rows.
func (s *JWTService) createTokenFromProfile(ctx context.Context, p profile.Profile) (JWT, error) {
	exists, err := s.idents.EmailProviderExists(ctx, p.Email(), p.Provider())
	if err != nil {
		return JWT{}, err
	}

	if !exists {
		if err := s.createOrUpdateProfile(ctx, p); err != nil {
			return JWT{}, err
		}
	}

	return s.mint(p.Email())
}

func (s *JWTService) createOrUpdateProfile(ctx context.Context, p profile.Profile) error {
	userExists, err := s.users.EmailExists(ctx, p.Email())
	if err != nil {
		return err
	}

	now := s.now().UTC()

	var user model.User
	if userExists {
		// The email signed up earlier through another provider: fold
		// the profile into the existing user without clobbering
		// populated fields.
		user, err = s.users.FindByEmail(ctx, p.Email())
		if err != nil {
			return err
		}
		if _, err = s.users.Update(ctx, user.ID, p.MergeInto(user, now)); err != nil {
			return err
		}
	} else {
		user, err = s.users.Create(ctx, p.NewUser(now))
		if err != nil {
			return err
		}
	}

	_, err = s.idents.Create(ctx, p.Email(), nil, p.Provider(), user.ID)
	return err
}

func (s *JWTService) mint(email string) (JWT, error) {
	signed, err := s.codec.Encode(email)
	if err != nil {
		return JWT{}, err
	}
	return JWT{Token: signed}, nil
}
