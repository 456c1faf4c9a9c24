package guard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rmehta/blogr/internal/apperr"
	"github.com/rmehta/blogr/internal/auth"
	"github.com/rmehta/blogr/internal/guard"
)

func TestRequireLoggedIn(t *testing.T) {
	assert.ErrorIs(t, guard.RequireLoggedIn(nil), apperr.ErrAuthRequired)
	assert.NoError(t, guard.RequireLoggedIn(&auth.Identity{UserID: 1}))
}

func TestRequireOwner(t *testing.T) {
	owner := &auth.Identity{UserID: 1}
	other := &auth.Identity{UserID: 2}

	assert.NoError(t, guard.RequireOwner(owner, 1))
	assert.ErrorIs(t, guard.RequireOwner(other, 1), apperr.ErrForbidden)
	// Anonymous is an authentication failure, not an ownership one.
	assert.ErrorIs(t, guard.RequireOwner(nil, 1), apperr.ErrAuthRequired)
}
