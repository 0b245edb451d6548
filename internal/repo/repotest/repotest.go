// Package repotest provides in-memory repositories for tests.
package repotest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/baajur/users/internal/errs"
	"github.com/baajur/users/internal/model"
	"github.com/baajur/users/internal/repo"
)

// Store is a shared in-memory backing for all repository views. When
// Err is set every call fails with it, which is how tests exercise
// degraded paths.
type Store struct {
	mu        sync.Mutex
	users     []model.User
	idents    []model.Identity
	grants    []model.UserRole
	resets    []repo.ResetToken
	nextUser  model.UserID
	nextGrant model.RoleID

	Err error
}

func NewStore() *Store {
	return &Store{nextUser: 1, nextGrant: 1}
}

// SeedUser inserts a user row directly.
func (s *Store) SeedUser(u model.User) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		u.ID = s.nextUser
	}
	if u.ID >= s.nextUser {
		s.nextUser = u.ID + 1
	}
	s.users = append(s.users, u)
	return u
}

// SeedIdentity inserts an identity row directly.
func (s *Store) SeedIdentity(ident model.Identity) model.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ident.SagaID == "" {
		ident.SagaID = uuid.NewString()
	}
	s.idents = append(s.idents, ident)
	return ident
}

// SeedGrant inserts a role grant directly.
func (s *Store) SeedGrant(g model.UserRole) model.UserRole {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g.ID == 0 {
		g.ID = s.nextGrant
	}
	if g.ID >= s.nextGrant {
		s.nextGrant = g.ID + 1
	}
	s.grants = append(s.grants, g)
	return g
}

// UserCount reports the number of user rows.
func (s *Store) UserCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// IdentityCount reports the number of identity rows.
func (s *Store) IdentityCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.idents)
}

func (s *Store) Users() repo.Users             { return usersView{s} }
func (s *Store) Identities() repo.Identities   { return identsView{s} }
func (s *Store) UserRoles() repo.UserRoles     { return grantsView{s} }
func (s *Store) ResetTokens() repo.ResetTokens { return resetsView{s} }

func sameEmail(a, b string) bool {
	return strings.EqualFold(a, b)
}

type usersView struct{ s *Store }

func (v usersView) Find(_ context.Context, userID model.UserID) (model.User, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return model.User{}, v.s.Err
	}
	for _, u := range v.s.users {
		if u.ID == userID {
			return u, nil
		}
	}
	return model.User{}, errs.ErrNotFound
}

func (v usersView) FindByEmail(_ context.Context, email string) (model.User, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return model.User{}, v.s.Err
	}
	for _, u := range v.s.users {
		if sameEmail(u.Email, email) {
			return u, nil
		}
	}
	return model.User{}, errs.ErrNotFound
}

func (v usersView) FindBySagaID(_ context.Context, sagaID string) (model.User, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return model.User{}, v.s.Err
	}
	for _, ident := range v.s.idents {
		if ident.SagaID == sagaID {
			for _, u := range v.s.users {
				if u.ID == ident.UserID {
					return u, nil
				}
			}
		}
	}
	return model.User{}, errs.ErrNotFound
}

func (v usersView) EmailExists(_ context.Context, email string) (bool, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return false, v.s.Err
	}
	for _, u := range v.s.users {
		if sameEmail(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (v usersView) List(_ context.Context, from model.UserID, count int) ([]model.User, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return nil, v.s.Err
	}
	var out []model.User
	for _, u := range v.s.users {
		if u.ID >= from && u.IsActive && len(out) < count {
			out = append(out, u)
		}
	}
	return out, nil
}

func (v usersView) Create(_ context.Context, payload model.NewUser) (model.User, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return model.User{}, v.s.Err
	}
	now := time.Now().UTC()
	u := model.User{
		ID:          v.s.nextUser,
		Email:       payload.Email,
		Phone:       payload.Phone,
		FirstName:   payload.FirstName,
		LastName:    payload.LastName,
		MiddleName:  payload.MiddleName,
		Gender:      payload.Gender,
		Birthdate:   payload.Birthdate,
		IsActive:    true,
		LastLoginAt: payload.LastLoginAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	v.s.nextUser++
	v.s.users = append(v.s.users, u)
	return u, nil
}

func (v usersView) Update(_ context.Context, userID model.UserID, payload model.UpdateUser) (model.User, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return model.User{}, v.s.Err
	}
	for i := range v.s.users {
		if v.s.users[i].ID != userID {
			continue
		}
		u := &v.s.users[i]
		if payload.Phone != nil {
			u.Phone = payload.Phone
		}
		if payload.FirstName != nil {
			u.FirstName = payload.FirstName
		}
		if payload.LastName != nil {
			u.LastName = payload.LastName
		}
		if payload.MiddleName != nil {
			u.MiddleName = payload.MiddleName
		}
		if payload.Gender != nil {
			u.Gender = *payload.Gender
		}
		if payload.Birthdate != nil {
			u.Birthdate = payload.Birthdate
		}
		if payload.LastLoginAt != nil {
			u.LastLoginAt = *payload.LastLoginAt
		}
		u.UpdatedAt = time.Now().UTC()
		return *u, nil
	}
	return model.User{}, errs.ErrNotFound
}

func (v usersView) Deactivate(_ context.Context, userID model.UserID) (model.User, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return model.User{}, v.s.Err
	}
	for i := range v.s.users {
		if v.s.users[i].ID == userID {
			v.s.users[i].IsActive = false
			return v.s.users[i], nil
		}
	}
	return model.User{}, errs.ErrNotFound
}

type identsView struct{ s *Store }

func (v identsView) FindByEmailProvider(_ context.Context, email string, provider model.Provider) (model.Identity, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return model.Identity{}, v.s.Err
	}
	for _, ident := range v.s.idents {
		if sameEmail(ident.Email, email) && ident.Provider == provider {
			return ident, nil
		}
	}
	return model.Identity{}, errs.ErrNotFound
}

func (v identsView) EmailProviderExists(_ context.Context, email string, provider model.Provider) (bool, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return false, v.s.Err
	}
	for _, ident := range v.s.idents {
		if sameEmail(ident.Email, email) && ident.Provider == provider {
			return true, nil
		}
	}
	return false, nil
}

func (v identsView) Create(_ context.Context, email string, passwordHash *string, provider model.Provider, userID model.UserID) (model.Identity, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return model.Identity{}, v.s.Err
	}
	ident := model.Identity{
		UserID:   userID,
		Email:    email,
		Password: passwordHash,
		Provider: provider,
		SagaID:   uuid.NewString(),
	}
	v.s.idents = append(v.s.idents, ident)
	return ident, nil
}

func (v identsView) UpdatePassword(_ context.Context, email string, provider model.Provider, passwordHash string) (model.Identity, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return model.Identity{}, v.s.Err
	}
	for i := range v.s.idents {
		if sameEmail(v.s.idents[i].Email, email) && v.s.idents[i].Provider == provider {
			v.s.idents[i].Password = &passwordHash
			return v.s.idents[i], nil
		}
	}
	return model.Identity{}, errs.ErrNotFound
}

type grantsView struct{ s *Store }

func (v grantsView) ListForUser(_ context.Context, userID model.UserID) ([]model.UserRole, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return nil, v.s.Err
	}
	var out []model.UserRole
	for _, g := range v.s.grants {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (v grantsView) Create(_ context.Context, payload model.NewUserRole) (model.UserRole, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return model.UserRole{}, v.s.Err
	}
	g := model.UserRole{ID: v.s.nextGrant, UserID: payload.UserID, Role: payload.Role}
	v.s.nextGrant++
	v.s.grants = append(v.s.grants, g)
	return g, nil
}

func (v grantsView) DeleteByUserRole(_ context.Context, payload model.NewUserRole) (model.UserRole, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return model.UserRole{}, v.s.Err
	}
	for i, g := range v.s.grants {
		if g.UserID == payload.UserID && g.Role == payload.Role {
			v.s.grants = append(v.s.grants[:i], v.s.grants[i+1:]...)
			return g, nil
		}
	}
	return model.UserRole{}, errs.ErrNotFound
}

func (v grantsView) DeleteAllForUser(_ context.Context, userID model.UserID) ([]model.UserRole, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return nil, v.s.Err
	}
	var removed []model.UserRole
	var kept []model.UserRole
	for _, g := range v.s.grants {
		if g.UserID == userID {
			removed = append(removed, g)
		} else {
			kept = append(kept, g)
		}
	}
	v.s.grants = kept
	return removed, nil
}

type resetsView struct{ s *Store }

func (v resetsView) Create(_ context.Context, token, email string) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return v.s.Err
	}
	v.s.resets = append(v.s.resets, repo.ResetToken{
		Token:     token,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

func (v resetsView) FindByToken(_ context.Context, token string) (repo.ResetToken, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return repo.ResetToken{}, v.s.Err
	}
	for _, rt := range v.s.resets {
		if rt.Token == token {
			return rt, nil
		}
	}
	return repo.ResetToken{}, errs.ErrNotFound
}

func (v resetsView) DeleteByToken(_ context.Context, token string) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.Err != nil {
		return v.s.Err
	}
	for i, rt := range v.s.resets {
		if rt.Token == token {
			v.s.resets = append(v.s.resets[:i], v.s.resets[i+1:]...)
			return nil
		}
	}
	return nil
}
