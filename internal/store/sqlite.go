package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/rmehta/blogr/internal/apperr"
	"github.com/rmehta/blogr/internal/models"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS users (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		username      TEXT     UNIQUE NOT NULL,
		password_hash TEXT     NOT NULL,
		created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS posts (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		title      TEXT     NOT NULL,
		body       TEXT     NOT NULL DEFAULT '',
		author_id  INTEGER  NOT NULL REFERENCES users (id),
		created_at DATETIME NOT NULL
	);
`

// SQLiteStore handles user and post CRUD against a SQLite file.
type SQLiteStore struct {
	db *sqlx.DB
}

// OpenSQLite opens (creating if necessary) the database at path.
// ":memory:" opens a private in-memory database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dsn := path
	switch {
	case dsn == ":memory:":
		dsn = "file::memory:?_fk=1"
	case !strings.Contains(dsn, "?"):
		dsn += "?_fk=1"
	}
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, apperr.Store("connect", err)
	}
	// SQLite allows one writer; a single pooled connection also keeps
	// in-memory databases alive across requests.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, apperr.Store("ping", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteSchema)
	return apperr.Store("migrate", err)
}

func (s *SQLiteStore) Reset(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DROP TABLE IF EXISTS posts; DROP TABLE IF EXISTS users;`)
	if err != nil {
		return apperr.Store("reset", err)
	}
	return s.Migrate(ctx)
}

func isUniqueViolation(err error) bool {
	var serr sqlite3.Error
	return errors.As(err, &serr) && serr.ExtendedCode == sqlite3.ErrConstraintUnique
}

func (s *SQLiteStore) CreateUser(ctx context.Context, username, passwordHash string) (int64, error) {
	query, args, err := sq.Insert("users").
		Columns("username", "password_hash").
		Values(username, passwordHash).
		ToSql()
	if err != nil {
		return 0, apperr.Store("create user", err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, apperr.ErrDuplicateUsername
		}
		return 0, apperr.Store("create user", err)
	}
	id, err := res.LastInsertId()
	return id, apperr.Store("create user", err)
}

func (s *SQLiteStore) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getUser(ctx, sq.Eq{"username": username})
}

func (s *SQLiteStore) UserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.getUser(ctx, sq.Eq{"id": id})
}

func (s *SQLiteStore) getUser(ctx context.Context, pred sq.Eq) (*models.User, error) {
	query, args, err := sq.Select("id", "username", "password_hash", "created_at").
		From("users").
		Where(pred).
		ToSql()
	if err != nil {
		return nil, apperr.Store("get user", err)
	}
	var u models.User
	if err := s.db.GetContext(ctx, &u, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, apperr.Store("get user", err)
	}
	return &u, nil
}

func (s *SQLiteStore) CreatePost(ctx context.Context, title, body string, authorID int64, createdAt time.Time) (int64, error) {
	query, args, err := sq.Insert("posts").
		Columns("title", "body", "author_id", "created_at").
		Values(title, body, authorID, createdAt).
		ToSql()
	if err != nil {
		return 0, apperr.Store("create post", err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, apperr.Store("create post", err)
	}
	id, err := res.LastInsertId()
	return id, apperr.Store("create post", err)
}

func postColumns() sq.SelectBuilder {
	return sq.Select(
		"p.id", "p.title", "p.body", "p.author_id",
		"u.username AS author_name", "p.created_at",
	).From("posts p").Join("users u ON u.id = p.author_id")
}

func (s *SQLiteStore) PostByID(ctx context.Context, id int64) (*models.Post, error) {
	query, args, err := postColumns().Where(sq.Eq{"p.id": id}).ToSql()
	if err != nil {
		return nil, apperr.Store("post by id", err)
	}
	var p models.Post
	if err := s.db.GetContext(ctx, &p, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, apperr.Store("post by id", err)
	}
	return &p, nil
}

func (s *SQLiteStore) ListPosts(ctx context.Context) ([]models.Post, error) {
	query, args, err := postColumns().
		OrderBy("p.created_at DESC", "p.id DESC").
		ToSql()
	if err != nil {
		return nil, apperr.Store("list posts", err)
	}
	var posts []models.Post
	if err := s.db.SelectContext(ctx, &posts, query, args...); err != nil {
		return nil, apperr.Store("list posts", err)
	}
	return posts, nil
}

func (s *SQLiteStore) UpdatePost(ctx context.Context, id int64, title, body string) error {
	query, args, err := sq.Update("posts").
		Set("title", title).
		Set("body", body).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return apperr.Store("update post", err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return apperr.Store("update post", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Store("update post", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) DeletePost(ctx context.Context, id int64) error {
	query, args, err := sq.Delete("posts").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return apperr.Store("delete post", err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return apperr.Store("delete post", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Store("delete post", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Close() {
	s.db.Close()
}
