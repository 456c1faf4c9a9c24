// Package store persists users and posts in a relational database.
// Two backends exist: PostgreSQL via pgx for deployments, and SQLite via
// sqlx for single-file setups and tests. The DSN scheme picks the backend.
package store

import (
	"context"
	"strings"
	"time"

	"github.com/rmehta/blogr/internal/models"
)

// Store is the relational persistence surface the services depend on.
// Implementations map driver-level failures onto the apperr kinds:
// a unique-constraint hit on usernames becomes apperr.ErrDuplicateUsername,
// a missing row becomes apperr.ErrNotFound, anything else a StoreError.
type Store interface {
	CreateUser(ctx context.Context, username, passwordHash string) (int64, error)
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	UserByID(ctx context.Context, id int64) (*models.User, error)

	CreatePost(ctx context.Context, title, body string, authorID int64, createdAt time.Time) (int64, error)
	PostByID(ctx context.Context, id int64) (*models.Post, error)
	// ListPosts returns every post joined with its author's username,
	// newest first.
	ListPosts(ctx context.Context) ([]models.Post, error)
	UpdatePost(ctx context.Context, id int64, title, body string) error
	DeletePost(ctx context.Context, id int64) error

	// Migrate creates the schema if it does not exist.
	Migrate(ctx context.Context) error
	// Reset drops and recreates the schema. Used by the initdb command.
	Reset(ctx context.Context) error

	Close()
}

// Open connects to the database named by dsn. A postgres:// or
// postgresql:// DSN opens the pgx backend, anything else is treated as a
// SQLite path.
func Open(ctx context.Context, dsn string) (Store, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return OpenPostgres(ctx, dsn)
	}
	return OpenSQLite(dsn)
}
