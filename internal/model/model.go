// Package model holds the persistent domain records and the payloads
// used to create and update them.
package model

import (
	"regexp"
	"time"

	"github.com/baajur/users/internal/authz"
	"github.com/baajur/users/internal/errs"
)

// UserID identifies a user row. Alias so user values satisfy the
// authz target interface without conversion.
type UserID = authz.UserID

// Provider names the source of an identity credential.
type Provider string

const (
	ProviderEmail           Provider = "email"
	ProviderUnverifiedEmail Provider = "unverified_email"
	ProviderGoogle          Provider = "google"
	ProviderFacebook        Provider = "facebook"
)

// Gender is a free-form profile attribute carried from providers.
type Gender string

const (
	GenderMale      Gender = "male"
	GenderFemale    Gender = "female"
	GenderUndefined Gender = "undefined"
)

// User is the profile record. At most one User exists per email
// across all providers.
type User struct {
	ID            UserID     `db:"id" json:"id"`
	Email         string     `db:"email" json:"email"`
	EmailVerified bool       `db:"email_verified" json:"email_verified"`
	Phone         *string    `db:"phone" json:"phone"`
	PhoneVerified bool       `db:"phone_verified" json:"phone_verified"`
	IsActive      bool       `db:"is_active" json:"is_active"`
	FirstName     *string    `db:"first_name" json:"first_name"`
	LastName      *string    `db:"last_name" json:"last_name"`
	MiddleName    *string    `db:"middle_name" json:"middle_name"`
	Gender        Gender     `db:"gender" json:"gender"`
	Birthdate     *time.Time `db:"birthdate" json:"birthdate"`
	LastLoginAt   time.Time  `db:"last_login_at" json:"last_login_at"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// IsInScope reports whether the user row is a valid target for the
// given scope when userID is acting.
func (u *User) IsInScope(scope authz.Scope, userID UserID) bool {
	switch scope {
	case authz.ScopeAll:
		return true
	case authz.ScopeOwned:
		return u.ID == userID
	default:
		return false
	}
}

// Identity links a credential to a user. At most one Identity exists
// per (email, provider) pair.
type Identity struct {
	UserID   UserID   `db:"user_id" json:"user_id"`
	Email    string   `db:"email" json:"email"`
	Password *string  `db:"password" json:"-"`
	Provider Provider `db:"provider" json:"provider"`
	SagaID   string   `db:"saga_id" json:"saga_id"`
}

// NewUser is the payload for creating users.
type NewUser struct {
	Email       string     `json:"email"`
	Phone       *string    `json:"phone"`
	FirstName   *string    `json:"first_name"`
	LastName    *string    `json:"last_name"`
	MiddleName  *string    `json:"middle_name"`
	Gender      Gender     `json:"gender"`
	Birthdate   *time.Time `json:"birthdate"`
	LastLoginAt time.Time  `json:"last_login_at"`
}

// UpdateUser is the payload for updating users. Nil fields are left
// untouched. The email is not updatable: it is the key linking the
// user to its identities across providers.
type UpdateUser struct {
	Phone       *string    `json:"phone"`
	FirstName   *string    `json:"first_name"`
	LastName    *string    `json:"last_name"`
	MiddleName  *string    `json:"middle_name"`
	Gender      *Gender    `json:"gender"`
	Birthdate   *time.Time `json:"birthdate"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

// NewIdentity is the payload for creating an identity, with or
// without a password.
type NewIdentity struct {
	Email    string   `json:"email"`
	Password *string  `json:"password"`
	Provider Provider `json:"provider"`
	SagaID   string   `json:"saga_id"`
}

// NewEmailIdentity is the payload for email/password sign-in and
// sign-up.
type NewEmailIdentity struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Validate checks the email/password payload and reports every
// violated field.
func (p NewEmailIdentity) Validate() error {
	var verr errs.ValidationError
	if !emailPattern.MatchString(p.Email) {
		verr.Add("email", "Invalid email format")
	}
	if len(p.Password) < 8 || len(p.Password) > 30 {
		verr.Add("password", "Password should be between 8 and 30 symbols")
	}
	if len(verr.Fields) > 0 {
		return &verr
	}
	return nil
}

// NewUserFromEmail builds the minimal profile for an email signup.
func NewUserFromEmail(email string, now time.Time) NewUser {
	return NewUser{
		Email:       email,
		Gender:      GenderUndefined,
		LastLoginAt: now,
	}
}
