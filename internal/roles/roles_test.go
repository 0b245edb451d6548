package roles

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baajur/users/internal/authz"
	"github.com/baajur/users/internal/cache"
	"github.com/baajur/users/internal/model"
)

type countingLister struct {
	grants map[model.UserID][]model.UserRole
	calls  int
}

func (l *countingLister) ListForUser(_ context.Context, userID model.UserID) ([]model.UserRole, error) {
	l.calls++
	return l.grants[userID], nil
}

func newCache(t *testing.T, store Lister) *Cache {
	t.Helper()
	backend, err := cache.NewMemory[[]authz.Role](16)
	require.NoError(t, err)
	return New(backend, store)
}

func TestGetLoadsOnMissThenHits(t *testing.T) {
	store := &countingLister{grants: map[model.UserID][]model.UserRole{
		1: {{ID: 1, UserID: 1, Role: authz.RoleUser}},
	}}
	c := newCache(t, store)
	ctx := context.Background()

	got, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []authz.Role{authz.RoleUser}, got)
	assert.Equal(t, 1, store.calls)

	// Second read is served from the cache.
	got, err = c.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []authz.Role{authz.RoleUser}, got)
	assert.Equal(t, 1, store.calls)
}

func TestGetAfterInvalidateSeesNewGrants(t *testing.T) {
	store := &countingLister{grants: map[model.UserID][]model.UserRole{
		1: {{ID: 1, UserID: 1, Role: authz.RoleUser}},
	}}
	c := newCache(t, store)
	ctx := context.Background()

	_, err := c.Get(ctx, 1)
	require.NoError(t, err)

	// Grant lands in the store, then the cache is invalidated; the
	// next read must reflect the grant.
	store.grants[1] = append(store.grants[1], model.UserRole{ID: 2, UserID: 1, Role: authz.RoleSuperuser})
	require.NoError(t, c.Invalidate(ctx, 1))

	got, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []authz.Role{authz.RoleUser, authz.RoleSuperuser}, got)
	assert.Equal(t, 2, store.calls)
}

func TestGetEmptyGrants(t *testing.T) {
	c := newCache(t, &countingLister{})

	got, err := c.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, got)
}
