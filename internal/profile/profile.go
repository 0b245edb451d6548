// Package profile retrieves normalized identity profiles from
// external providers and adapts them to user records.
package profile

import (
	"time"

	"github.com/baajur/users/internal/model"
)

// Profile is the capability shared by all federated providers: it
// names a canonical email and knows how to become, or merge into, a
// user record.
type Profile interface {
	// Email returns the canonical email asserted by the provider.
	Email() string
	// Provider identifies the issuing provider.
	Provider() model.Provider
	// NewUser builds a profile for a first-time signup.
	NewUser(now time.Time) model.NewUser
	// MergeInto folds the profile into an existing user, keeping
	// every field the user already has populated.
	MergeInto(user model.User, now time.Time) model.UpdateUser
}

// Google is the payload returned by the Google userinfo endpoint.
type Google struct {
	ID            string `json:"id"`
	EmailAddr     string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
	HD            string `json:"hd"`
}

func (g *Google) Email() string            { return g.EmailAddr }
func (g *Google) Provider() model.Provider { return model.ProviderGoogle }

// firstName prefers the given name; older userinfo payloads only
// carry the display name.
func (g *Google) firstName() string {
	if g.GivenName != "" {
		return g.GivenName
	}
	return g.Name
}

func (g *Google) NewUser(now time.Time) model.NewUser {
	return model.NewUser{
		Email:       g.EmailAddr,
		FirstName:   optional(g.firstName()),
		LastName:    optional(g.FamilyName),
		Gender:      model.GenderUndefined,
		LastLoginAt: now,
	}
}

func (g *Google) MergeInto(user model.User, now time.Time) model.UpdateUser {
	return model.UpdateUser{
		FirstName:   keep(user.FirstName, g.firstName()),
		LastName:    keep(user.LastName, g.FamilyName),
		LastLoginAt: &now,
	}
}

// Facebook is the payload returned by the Facebook graph endpoint.
type Facebook struct {
	ID        string `json:"id"`
	EmailAddr string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Name      string `json:"name"`
	Gender    string `json:"gender"`
}

func (f *Facebook) Email() string            { return f.EmailAddr }
func (f *Facebook) Provider() model.Provider { return model.ProviderFacebook }

func (f *Facebook) NewUser(now time.Time) model.NewUser {
	return model.NewUser{
		Email:       f.EmailAddr,
		FirstName:   optional(f.FirstName),
		LastName:    optional(f.LastName),
		Gender:      gender(f.Gender),
		LastLoginAt: now,
	}
}

func (f *Facebook) MergeInto(user model.User, now time.Time) model.UpdateUser {
	return model.UpdateUser{
		FirstName:   keep(user.FirstName, f.FirstName),
		LastName:    keep(user.LastName, f.LastName),
		LastLoginAt: &now,
	}
}

func gender(s string) model.Gender {
	switch s {
	case "male":
		return model.GenderMale
	case "female":
		return model.GenderFemale
	default:
		return model.GenderUndefined
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// keep returns the existing value when populated, otherwise adopts
// the provider's.
func keep(existing *string, incoming string) *string {
	if existing != nil && *existing != "" {
		return existing
	}
	return optional(incoming)
}
