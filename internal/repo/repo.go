// Package repo persists users, identities, role grants, and reset
// tokens. Implementations translate driver errors into the errs
// taxonomy; sql.ErrNoRows becomes errs.ErrNotFound.
package repo

import (
	"context"
	"time"

	"github.com/baajur/users/internal/model"
)

// Users reads and writes user profile records.
type Users interface {
	Find(ctx context.Context, userID model.UserID) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindBySagaID(ctx context.Context, sagaID string) (model.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, from model.UserID, count int) ([]model.User, error)
	Create(ctx context.Context, payload model.NewUser) (model.User, error)
	Update(ctx context.Context, userID model.UserID, payload model.UpdateUser) (model.User, error)
	Deactivate(ctx context.Context, userID model.UserID) (model.User, error)
}

// Identities reads and writes credential records.
type Identities interface {
	FindByEmailProvider(ctx context.Context, email string, provider model.Provider) (model.Identity, error)
	EmailProviderExists(ctx context.Context, email string, provider model.Provider) (bool, error)
	Create(ctx context.Context, email string, passwordHash *string, provider model.Provider, userID model.UserID) (model.Identity, error)
	UpdatePassword(ctx context.Context, email string, provider model.Provider, passwordHash string) (model.Identity, error)
}

// UserRoles reads and writes role grants.
type UserRoles interface {
	ListForUser(ctx context.Context, userID model.UserID) ([]model.UserRole, error)
	Create(ctx context.Context, payload model.NewUserRole) (model.UserRole, error)
	DeleteByUserRole(ctx context.Context, payload model.NewUserRole) (model.UserRole, error)
	DeleteAllForUser(ctx context.Context, userID model.UserID) ([]model.UserRole, error)
}

// ResetToken is a single-use password reset record.
type ResetToken struct {
	Token     string    `db:"token"`
	Email     string    `db:"email"`
	CreatedAt time.Time `db:"created_at"`
}

// ResetTokens reads and writes reset token records.
type ResetTokens interface {
	Create(ctx context.Context, token, email string) error
	FindByToken(ctx context.Context, token string) (ResetToken, error)
	DeleteByToken(ctx context.Context, token string) error
}
