package store

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/rmehta/blogr/internal/models"
)

const scopeName = "github.com/rmehta/blogr/internal/store"

// instrumentedStore decorates a Store with a span and metrics per call.
type instrumentedStore struct {
	next     Store
	tracer   trace.Tracer
	queries  metric.Int64Counter
	duration metric.Float64Histogram
	errs     metric.Int64Counter
}

// Instrument wraps next with the global OpenTelemetry tracer and meter.
// With no SDK installed the instruments are no-ops.
func Instrument(next Store) Store {
	meter := otel.Meter(scopeName)
	queries, _ := meter.Int64Counter("store.queries",
		metric.WithDescription("Total store operations"))
	duration, _ := meter.Float64Histogram("store.duration",
		metric.WithDescription("Store operation duration"),
		metric.WithUnit("ms"))
	errs, _ := meter.Int64Counter("store.errors",
		metric.WithDescription("Failed store operations"))
	return &instrumentedStore{
		next:     next,
		tracer:   otel.Tracer(scopeName),
		queries:  queries,
		duration: duration,
		errs:     errs,
	}
}

func (s *instrumentedStore) observe(ctx context.Context, op string, fn func(context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, "store."+op,
		trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	attrs := metric.WithAttributes(attribute.String("operation", op))
	start := time.Now()
	err := fn(ctx)
	elapsed := float64(time.Since(start)) / float64(time.Millisecond)

	s.queries.Add(ctx, 1, attrs)
	s.duration.Record(ctx, elapsed, attrs)
	if err != nil {
		s.errs.Add(ctx, 1, attrs)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (s *instrumentedStore) CreateUser(ctx context.Context, username, passwordHash string) (int64, error) {
	var id int64
	err := s.observe(ctx, "create_user", func(ctx context.Context) error {
		var err error
		id, err = s.next.CreateUser(ctx, username, passwordHash)
		return err
	})
	return id, err
}

func (s *instrumentedStore) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u *models.User
	err := s.observe(ctx, "user_by_username", func(ctx context.Context) error {
		var err error
		u, err = s.next.UserByUsername(ctx, username)
		return err
	})
	return u, err
}

func (s *instrumentedStore) UserByID(ctx context.Context, id int64) (*models.User, error) {
	var u *models.User
	err := s.observe(ctx, "user_by_id", func(ctx context.Context) error {
		var err error
		u, err = s.next.UserByID(ctx, id)
		return err
	})
	return u, err
}

func (s *instrumentedStore) CreatePost(ctx context.Context, title, body string, authorID int64, createdAt time.Time) (int64, error) {
	var id int64
	err := s.observe(ctx, "create_post", func(ctx context.Context) error {
		var err error
		id, err = s.next.CreatePost(ctx, title, body, authorID, createdAt)
		return err
	})
	return id, err
}

func (s *instrumentedStore) PostByID(ctx context.Context, id int64) (*models.Post, error) {
	var p *models.Post
	err := s.observe(ctx, "post_by_id", func(ctx context.Context) error {
		var err error
		p, err = s.next.PostByID(ctx, id)
		return err
	})
	return p, err
}

func (s *instrumentedStore) ListPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := s.observe(ctx, "list_posts", func(ctx context.Context) error {
		var err error
		posts, err = s.next.ListPosts(ctx)
		return err
	})
	return posts, err
}

func (s *instrumentedStore) UpdatePost(ctx context.Context, id int64, title, body string) error {
	return s.observe(ctx, "update_post", func(ctx context.Context) error {
		return s.next.UpdatePost(ctx, id, title, body)
	})
}

func (s *instrumentedStore) DeletePost(ctx context.Context, id int64) error {
	return s.observe(ctx, "delete_post", func(ctx context.Context) error {
		return s.next.DeletePost(ctx, id)
	})
}

func (s *instrumentedStore) Migrate(ctx context.Context) error {
	return s.observe(ctx, "migrate", func(ctx context.Context) error {
		return s.next.Migrate(ctx)
	})
}

func (s *instrumentedStore) Reset(ctx context.Context) error {
	return s.observe(ctx, "reset", func(ctx context.Context) error {
		return s.next.Reset(ctx)
	})
}

func (s *instrumentedStore) Close() {
	s.next.Close()
}
