package auth

import (
	"context"
	"errors"

	"github.com/rmehta/blogr/internal/apperr"
	"github.com/rmehta/blogr/internal/models"
	"github.com/rmehta/blogr/internal/store"
)

// Identity is the user resolved from the current request's session.
// A nil *Identity means anonymous.
type Identity struct {
	UserID   int64
	Username string
}

// Service implements registration, login and session identity resolution.
type Service struct {
	store    store.Store
	sessions SessionStore
	hasher   Hasher
}

func NewService(st store.Store, sessions SessionStore, hasher Hasher) *Service {
	return &Service{store: st, sessions: sessions, hasher: hasher}
}

// Register creates a new user and returns its id. It does not establish a
// session; an explicit login follows. The username's uniqueness is decided
// by the store's constraint, never by a pre-check.
func (s *Service) Register(ctx context.Context, username, password string) (int64, error) {
	if username == "" {
		return 0, apperr.Validation("username", "required")
	}
	if password == "" {
		return 0, apperr.Validation("password", "required")
	}
	digest, err := s.hasher.Hash(password)
	if err != nil {
		return 0, apperr.Store("hash password", err)
	}
	return s.store.CreateUser(ctx, username, digest)
}

// Authenticate checks credentials and returns the matching user id.
// An unknown username yields ErrNotFound, a failed verification
// ErrInvalidCredentials; callers may surface the two differently.
func (s *Service) Authenticate(ctx context.Context, username, password string) (int64, error) {
	u, err := s.store.UserByUsername(ctx, username)
	if err != nil {
		return 0, err
	}
	if !s.hasher.Verify(u.PasswordHash, password) {
		return 0, apperr.ErrInvalidCredentials
	}
	return u.ID, nil
}

// EstablishSession mints a session token for an authenticated user.
func (s *Service) EstablishSession(ctx context.Context, userID int64) (string, error) {
	token, err := s.sessions.Create(ctx, userID)
	if err != nil {
		return "", apperr.Store("create session", err)
	}
	return token, nil
}

// Logout discards the session token. Calling it without an active session
// is a no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return apperr.Store("delete session", err)
	}
	return nil
}

// ResolveIdentity maps a session token to the current user, re-checking
// that the user row still exists. A missing token, unknown token, or
// vanished user all resolve to anonymous (nil, nil).
func (s *Service) ResolveIdentity(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, nil
	}
	userID, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, apperr.Store("get session", err)
	}
	if userID == 0 {
		return nil, nil
	}
	u, err := s.store.UserByID(ctx, userID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &Identity{UserID: u.ID, Username: u.Username}, nil
}

// UserByID exposes user lookup for the presentation layer.
func (s *Service) UserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.store.UserByID(ctx, id)
}
