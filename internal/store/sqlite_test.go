package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmehta/blogr/internal/apperr"
	"github.com/rmehta/blogr/internal/store"
)

func setupTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	st, err := store.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(st.Close)
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestCreateUserDuplicate(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	id, err := st.CreateUser(ctx, "alice", "hash1")
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	_, err = st.CreateUser(ctx, "alice", "hash2")
	assert.ErrorIs(t, err, apperr.ErrDuplicateUsername)

	// The second attempt must not leave a row behind.
	u, err := st.UserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, "hash1", u.PasswordHash)
}

func TestCreateUserConcurrentDuplicate(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = st.CreateUser(ctx, "carol", "hash")
		}(i)
	}
	wg.Wait()

	var ok, dup int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, apperr.ErrDuplicateUsername):
			dup++
		}
	}
	assert.Equal(t, 1, ok, "exactly one registration succeeds")
	assert.Equal(t, 1, dup, "the other hits the unique constraint")
}

func TestUserLookupNotFound(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	_, err := st.UserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = st.UserByID(ctx, 42)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListPostsNewestFirst(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	authorID, err := st.CreateUser(ctx, "alice", "hash")
	require.NoError(t, err)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	oldID, err := st.CreatePost(ctx, "old", "first", authorID, base)
	require.NoError(t, err)
	newID, err := st.CreatePost(ctx, "new", "second", authorID, base.Add(time.Hour))
	require.NoError(t, err)

	posts, err := st.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, newID, posts[0].ID)
	assert.Equal(t, oldID, posts[1].ID)
	assert.Equal(t, "alice", posts[0].AuthorName)
}

func TestUpdateAndDeletePost(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	authorID, err := st.CreateUser(ctx, "alice", "hash")
	require.NoError(t, err)
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	postID, err := st.CreatePost(ctx, "title", "body", authorID, created)
	require.NoError(t, err)

	require.NoError(t, st.UpdatePost(ctx, postID, "new title", "new body"))
	p, err := st.PostByID(ctx, postID)
	require.NoError(t, err)
	assert.Equal(t, "new title", p.Title)
	assert.Equal(t, "new body", p.Body)
	assert.True(t, p.CreatedAt.Equal(created), "created_at is immutable")

	require.NoError(t, st.DeletePost(ctx, postID))
	_, err = st.PostByID(ctx, postID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestMutateMissingPost(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, st.UpdatePost(ctx, 99, "t", "b"), apperr.ErrNotFound)
	assert.ErrorIs(t, st.DeletePost(ctx, 99), apperr.ErrNotFound)
}

func TestReset(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	_, err := st.CreateUser(ctx, "alice", "hash")
	require.NoError(t, err)

	require.NoError(t, st.Reset(ctx))
	// Reset is idempotent.
	require.NoError(t, st.Reset(ctx))

	_, err = st.UserByUsername(ctx, "alice")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
