// Package roles caches role membership in front of the user-roles
// store.
package roles

import (
	"context"
	"strconv"

	"github.com/baajur/users/internal/authz"
	"github.com/baajur/users/internal/cache"
	"github.com/baajur/users/internal/model"
)

// Lister reads role grants from the store.
type Lister interface {
	ListForUser(ctx context.Context, userID model.UserID) ([]model.UserRole, error)
}

// Cache maps a user id to its current role set. Writers that grant or
// revoke roles must call Invalidate for the affected user before
// acknowledging the write.
type Cache struct {
	backend cache.Cache[[]authz.Role]
	store   Lister
}

func New(backend cache.Cache[[]authz.Role], store Lister) *Cache {
	return &Cache{backend: backend, store: store}
}

func key(userID model.UserID) string {
	return strconv.FormatInt(int64(userID), 10)
}

// Get returns the user's roles, loading them from the store on a
// miss. A backend read failure is treated as a miss, not an error.
func (c *Cache) Get(ctx context.Context, userID model.UserID) ([]authz.Role, error) {
	if roles, ok, err := c.backend.Get(ctx, key(userID)); err == nil && ok {
		return roles, nil
	}

	grants, err := c.store.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	roles := make([]authz.Role, 0, len(grants))
	for _, g := range grants {
		roles = append(roles, g.Role)
	}

	// Best effort: a failed backend write only costs the next reader
	// a store round-trip.
	_ = c.backend.Set(ctx, key(userID), roles)

	return roles, nil
}

// Invalidate drops the cached role set for the user.
func (c *Cache) Invalidate(ctx context.Context, userID model.UserID) error {
	return c.backend.Remove(ctx, key(userID))
}
