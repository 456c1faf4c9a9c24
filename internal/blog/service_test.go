package blog_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmehta/blogr/internal/apperr"
	"github.com/rmehta/blogr/internal/auth"
	"github.com/rmehta/blogr/internal/blog"
	"github.com/rmehta/blogr/internal/store"
)

type fixture struct {
	svc   *blog.Service
	alice *auth.Identity
	bob   *auth.Identity
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st, err := store.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(st.Close)
	ctx := context.Background()
	require.NoError(t, st.Migrate(ctx))

	aliceID, err := st.CreateUser(ctx, "alice", "hash")
	require.NoError(t, err)
	bobID, err := st.CreateUser(ctx, "bob", "hash")
	require.NoError(t, err)

	return &fixture{
		svc:   blog.NewService(st),
		alice: &auth.Identity{UserID: aliceID, Username: "alice"},
		bob:   &auth.Identity{UserID: bobID, Username: "bob"},
	}
}

func TestCreateRequiresLogin(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), nil, "title", "body")
	assert.ErrorIs(t, err, apperr.ErrAuthRequired)
}

func TestCreateRequiresTitle(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), f.alice, "", "body is fine")
	assert.True(t, apperr.IsValidation(err))

	// An empty body is allowed.
	_, err = f.svc.Create(context.Background(), f.alice, "title", "")
	assert.NoError(t, err)
}

func TestOwnershipFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	postID, err := f.svc.Create(ctx, f.alice, "T1", "B1")
	require.NoError(t, err)

	// Bob cannot touch Alice's post.
	err = f.svc.Update(ctx, f.bob, postID, "T2", "B2")
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	err = f.svc.Delete(ctx, f.bob, postID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	// Alice can.
	require.NoError(t, f.svc.Update(ctx, f.alice, postID, "T2", "B1"))
	p, err := f.svc.Get(ctx, postID)
	require.NoError(t, err)
	assert.Equal(t, "T2", p.Title)
	assert.Equal(t, f.alice.UserID, p.AuthorID)

	require.NoError(t, f.svc.Delete(ctx, f.alice, postID))
	_, err = f.svc.Get(ctx, postID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestMissingPostBeatsForbidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// A nonexistent post reports not-found even to a non-owner, and even
	// with an empty title: existence is checked before everything else.
	err := f.svc.Update(ctx, f.bob, 99, "", "")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	err = f.svc.Delete(ctx, f.bob, 99)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	err = f.svc.Delete(ctx, nil, 99)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestForbiddenBeatsValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	postID, err := f.svc.Create(ctx, f.alice, "T1", "B1")
	require.NoError(t, err)

	err = f.svc.Update(ctx, f.bob, postID, "", "")
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestUpdateRequiresTitle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	postID, err := f.svc.Create(ctx, f.alice, "T1", "B1")
	require.NoError(t, err)

	err = f.svc.Update(ctx, f.alice, postID, "", "any body")
	assert.True(t, apperr.IsValidation(err))

	// The post is unchanged.
	p, err := f.svc.Get(ctx, postID)
	require.NoError(t, err)
	assert.Equal(t, "T1", p.Title)
}

func TestUpdateKeepsCreatedAt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	postID, err := f.svc.Create(ctx, f.alice, "T1", "B1")
	require.NoError(t, err)
	before, err := f.svc.Get(ctx, postID)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, f.svc.Update(ctx, f.alice, postID, "T2", "B2"))

	after, err := f.svc.Get(ctx, postID)
	require.NoError(t, err)
	assert.True(t, after.CreatedAt.Equal(before.CreatedAt))
}

func TestListNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, f.alice, "first", "")
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, f.bob, "second", "")
	require.NoError(t, err)

	posts, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second, posts[0].ID)
	assert.Equal(t, first, posts[1].ID)
	assert.Equal(t, "bob", posts[0].AuthorName)
	assert.Equal(t, "alice", posts[1].AuthorName)

	// A fresh post lands on top.
	third, err := f.svc.Create(ctx, f.alice, "third", "")
	require.NoError(t, err)
	posts, err = f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, third, posts[0].ID)
}
