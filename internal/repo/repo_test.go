package repo

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/baajur/users/internal/errs"
)

func TestWrapErrorMapping(t *testing.T) {
	assert.NoError(t, wrap("users.find", nil))

	assert.ErrorIs(t, wrap("users.find", sql.ErrNoRows), errs.ErrNotFound)
	assert.ErrorIs(t, wrap("users.find", fmt.Errorf("scan: %w", sql.ErrNoRows)), errs.ErrNotFound)

	var serr *errs.StoreError
	err := wrap("users.find", errors.New("connection reset"))
	assert.ErrorAs(t, err, &serr)
	assert.Equal(t, "users.find", serr.Op)
}

func TestPrefixed(t *testing.T) {
	assert.Equal(t, "u.id, u.email", prefixed("id, email", "u."))
	assert.Equal(t, "u.id", prefixed("id", "u."))
}
