package service

import (
	"context"
	"errors"
	"time"

	"github.com/baajur/users/internal/authz"
	"github.com/baajur/users/internal/errs"
	"github.com/baajur/users/internal/model"
	"github.com/baajur/users/internal/password"
	"github.com/baajur/users/internal/repo"
)

// MaxUserListCount bounds a single list page.
const MaxUserListCount = 1000

// UsersService serves user profile operations, gated by the ACL.
type UsersService struct {
	users  repo.Users
	idents repo.Identities
	resets repo.ResetTokens
	acls   *authz.AclFactory
	now    func() time.Time
}

func NewUsers(users repo.Users, idents repo.Identities, resets repo.ResetTokens, acls *authz.AclFactory) *UsersService {
	return &UsersService{users: users, idents: idents, resets: resets, acls: acls, now: time.Now}
}

// Find returns a user by id.
func (s *UsersService) Find(ctx context.Context, actor *model.UserID, userID model.UserID) (model.User, error) {
	user, err := s.users.Find(ctx, userID)
	if err != nil {
		return model.User{}, err
	}
	if !s.acls.For(actor).CanDo(ctx, authz.ResourceUsers, authz.ActionRead, targets(&user)) {
		return model.User{}, errs.ErrForbidden
	}
	return user, nil
}

// FindBySagaID resolves a user through an identity linking id.
func (s *UsersService) FindBySagaID(ctx context.Context, actor *model.UserID, sagaID string) (model.User, error) {
	user, err := s.users.FindBySagaID(ctx, sagaID)
	if err != nil {
		return model.User{}, err
	}
	if !s.acls.For(actor).CanDo(ctx, authz.ResourceUsers, authz.ActionRead, targets(&user)) {
		return model.User{}, errs.ErrForbidden
	}
	return user, nil
}

// List returns up to count active users starting from a user id.
func (s *UsersService) List(ctx context.Context, actor *model.UserID, from model.UserID, count int) ([]model.User, error) {
	if from < 1 || count < 1 || count > MaxUserListCount {
		return nil, errs.Validation("query", "Invalid values provided for `from` or `count`")
	}
	if !s.acls.For(actor).CanDo(ctx, authz.ResourceUsers, authz.ActionRead, nil) {
		return nil, errs.ErrForbidden
	}
	return s.users.List(ctx, from, count)
}

// Current returns the profile for the canonical email carried by the
// caller's token.
func (s *UsersService) Current(ctx context.Context, email string) (model.User, error) {
	return s.users.FindByEmail(ctx, email)
}

// Create signs up a new email/password user. It is a public
// operation: no ACL applies. One User and one Identity are created;
// repeating the same email and provider is a validation error.
func (s *UsersService) Create(ctx context.Context, payload model.NewEmailIdentity) (model.User, error) {
	if err := payload.Validate(); err != nil {
		return model.User{}, err
	}

	exists, err := s.idents.EmailProviderExists(ctx, payload.Email, model.ProviderEmail)
	if err != nil {
		return model.User{}, err
	}
	if exists {
		return model.User{}, errs.Validation("email", "Email already exists")
	}

	// The email may already have a user through a federated provider;
	// in that case only the credential identity is added.
	user, err := s.users.FindByEmail(ctx, payload.Email)
	if errors.Is(err, errs.ErrNotFound) {
		user, err = s.users.Create(ctx, model.NewUserFromEmail(payload.Email, s.now().UTC()))
	}
	if err != nil {
		return model.User{}, err
	}

	hash := password.New(payload.Password)
	if _, err := s.idents.Create(ctx, payload.Email, &hash, model.ProviderEmail, user.ID); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// Update applies a partial profile update.
func (s *UsersService) Update(ctx context.Context, actor *model.UserID, userID model.UserID, payload model.UpdateUser) (model.User, error) {
	user, err := s.users.Find(ctx, userID)
	if err != nil {
		return model.User{}, err
	}
	if !s.acls.For(actor).CanDo(ctx, authz.ResourceUsers, authz.ActionUpdate, targets(&user)) {
		return model.User{}, errs.ErrForbidden
	}
	return s.users.Update(ctx, userID, payload)
}

// Deactivate soft-deletes a user.
func (s *UsersService) Deactivate(ctx context.Context, actor *model.UserID, userID model.UserID) (model.User, error) {
	user, err := s.users.Find(ctx, userID)
	if err != nil {
		return model.User{}, err
	}
	if !s.acls.For(actor).CanDo(ctx, authz.ResourceUsers, authz.ActionDelete, targets(&user)) {
		return model.User{}, errs.ErrForbidden
	}
	return s.users.Deactivate(ctx, userID)
}

func targets(ts ...authz.Target) []authz.Target {
	return ts
}
