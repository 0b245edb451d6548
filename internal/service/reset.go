package service

import (
	"context"

	"github.com/baajur/users/internal/errs"
	"github.com/baajur/users/internal/model"
	"github.com/baajur/users/internal/password"
	"github.com/baajur/users/internal/utils"
)

// ResetRequest asks for a password reset token.
type ResetRequest struct {
	Email string `json:"email"`
}

// ResetApply redeems a reset token for a new password.
type ResetApply struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ResetToken is returned to the mail-delivery collaborator; this
// service never sends mail itself.
type ResetToken struct {
	Token string `json:"token"`
}

// RequestPasswordReset issues a single-use reset token for an
// email/password identity.
func (s *UsersService) RequestPasswordReset(ctx context.Context, payload ResetRequest) (ResetToken, error) {
	exists, err := s.idents.EmailProviderExists(ctx, payload.Email, model.ProviderEmail)
	if err != nil {
		return ResetToken{}, err
	}
	if !exists {
		return ResetToken{}, errs.ErrNotFound
	}

	tok := utils.RandomString(32)
	if err := s.resets.Create(ctx, tok, payload.Email); err != nil {
		return ResetToken{}, err
	}
	return ResetToken{Token: tok}, nil
}

// ApplyPasswordReset redeems a token and replaces the identity's
// stored password hash. The token is consumed regardless of how many
// attempts follow.
func (s *UsersService) ApplyPasswordReset(ctx context.Context, payload ResetApply) (model.User, error) {
	if len(payload.Password) < 8 || len(payload.Password) > 30 {
		return model.User{}, errs.Validation("password", "Password should be between 8 and 30 symbols")
	}

	rt, err := s.resets.FindByToken(ctx, payload.Token)
	if err != nil {
		return model.User{}, err
	}

	hash := password.New(payload.Password)
	if _, err := s.idents.UpdatePassword(ctx, rt.Email, model.ProviderEmail, hash); err != nil {
		return model.User{}, err
	}
	if err := s.resets.DeleteByToken(ctx, rt.Token); err != nil {
		return model.User{}, err
	}
	return s.users.FindByEmail(ctx, rt.Email)
}
