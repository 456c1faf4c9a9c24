package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rmehta/blogr/internal/apperr"
	"github.com/rmehta/blogr/internal/models"
)

const pgSchema = `
	CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		username      TEXT        UNIQUE NOT NULL,
		password_hash TEXT        NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE TABLE IF NOT EXISTS posts (
		id         BIGSERIAL PRIMARY KEY,
		title      TEXT        NOT NULL,
		body       TEXT        NOT NULL DEFAULT '',
		author_id  BIGINT      NOT NULL REFERENCES users (id),
		created_at TIMESTAMPTZ NOT NULL
	);
`

// PostgresStore handles user and post CRUD against PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects a pool and pings it.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, apperr.Store("connect", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, apperr.Store("ping", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, pgSchema)
	return apperr.Store("migrate", err)
}

func (s *PostgresStore) Reset(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `DROP TABLE IF EXISTS posts; DROP TABLE IF EXISTS users;`)
	if err != nil {
		return apperr.Store("reset", err)
	}
	return s.Migrate(ctx)
}

func (s *PostgresStore) CreateUser(ctx context.Context, username, passwordHash string) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (username, password_hash)
		 VALUES ($1, $2)
		 RETURNING id`,
		username, passwordHash,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, apperr.ErrDuplicateUsername
		}
		return 0, apperr.Store("create user", err)
	}
	return id, nil
}

func (s *PostgresStore) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE username = $1`, username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, apperr.Store("user by username", err)
	}
	return &u, nil
}

func (s *PostgresStore) UserByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, apperr.Store("user by id", err)
	}
	return &u, nil
}

func (s *PostgresStore) CreatePost(ctx context.Context, title, body string, authorID int64, createdAt time.Time) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO posts (title, body, author_id, created_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		title, body, authorID, createdAt,
	).Scan(&id)
	if err != nil {
		return 0, apperr.Store("create post", err)
	}
	return id, nil
}

func (s *PostgresStore) PostByID(ctx context.Context, id int64) (*models.Post, error) {
	var p models.Post
	err := s.pool.QueryRow(ctx,
		`SELECT p.id, p.title, p.body, p.author_id, u.username, p.created_at
		 FROM posts p JOIN users u ON u.id = p.author_id
		 WHERE p.id = $1`, id,
	).Scan(&p.ID, &p.Title, &p.Body, &p.AuthorID, &p.AuthorName, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, apperr.Store("post by id", err)
	}
	return &p, nil
}

func (s *PostgresStore) ListPosts(ctx context.Context) ([]models.Post, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT p.id, p.title, p.body, p.author_id, u.username, p.created_at
		 FROM posts p JOIN users u ON u.id = p.author_id
		 ORDER BY p.created_at DESC, p.id DESC`)
	if err != nil {
		return nil, apperr.Store("list posts", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Body, &p.AuthorID, &p.AuthorName, &p.CreatedAt); err != nil {
			return nil, apperr.Store("list posts", err)
		}
		posts = append(posts, p)
	}
	return posts, apperr.Store("list posts", rows.Err())
}

func (s *PostgresStore) UpdatePost(ctx context.Context, id int64, title, body string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE posts SET title = $1, body = $2 WHERE id = $3`, title, body, id)
	if err != nil {
		return apperr.Store("update post", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeletePost(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return apperr.Store("delete post", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}
