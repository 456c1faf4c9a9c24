// Package blog implements ownership-checked CRUD over posts.
package blog

import (
	"context"
	"time"

	"github.com/rmehta/blogr/internal/apperr"
	"github.com/rmehta/blogr/internal/auth"
	"github.com/rmehta/blogr/internal/guard"
	"github.com/rmehta/blogr/internal/models"
	"github.com/rmehta/blogr/internal/store"
)

// Service runs post operations against the store. Mutations are guarded in
// a fixed order: the post must exist, the identity must own it, and only
// then is input validated and the write applied.
type Service struct {
	store store.Store
	now   func() time.Time
}

func NewService(st store.Store) *Service {
	return &Service{store: st, now: time.Now}
}

// Create inserts a post authored by the current identity.
func (s *Service) Create(ctx context.Context, id *auth.Identity, title, body string) (int64, error) {
	if err := guard.RequireLoggedIn(id); err != nil {
		return 0, err
	}
	if title == "" {
		return 0, apperr.Validation("title", "required")
	}
	return s.store.CreatePost(ctx, title, body, id.UserID, s.now().UTC())
}

// List returns all posts, newest first, joined with author usernames.
// The index is public; no identity is needed.
func (s *Service) List(ctx context.Context) ([]models.Post, error) {
	return s.store.ListPosts(ctx)
}

// Get returns a single post by id.
func (s *Service) Get(ctx context.Context, postID int64) (*models.Post, error) {
	return s.store.PostByID(ctx, postID)
}

// Update rewrites a post's title and body. created_at is untouched.
func (s *Service) Update(ctx context.Context, id *auth.Identity, postID int64, title, body string) error {
	post, err := s.store.PostByID(ctx, postID)
	if err != nil {
		return err
	}
	if err := guard.RequireOwner(id, post.AuthorID); err != nil {
		return err
	}
	if title == "" {
		return apperr.Validation("title", "required")
	}
	return s.store.UpdatePost(ctx, postID, title, body)
}

// Delete removes a post. No soft delete.
func (s *Service) Delete(ctx context.Context, id *auth.Identity, postID int64) error {
	post, err := s.store.PostByID(ctx, postID)
	if err != nil {
		return err
	}
	if err := guard.RequireOwner(id, post.AuthorID); err != nil {
		return err
	}
	return s.store.DeletePost(ctx, postID)
}
