package auth

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionCookie is the cookie the session token travels in.
const SessionCookie = "session_id"

// SessionStore maps opaque tokens to user ids. Tokens are random and only
// ever minted server-side; an unknown token resolves to 0, not an error.
type SessionStore interface {
	Create(ctx context.Context, userID int64) (string, error)
	Get(ctx context.Context, token string) (int64, error)
	Delete(ctx context.Context, token string) error
}

// RedisSessions keeps sessions in Redis with a TTL.
type RedisSessions struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSessions(rdb *redis.Client, ttl time.Duration) *RedisSessions {
	return &RedisSessions{rdb: rdb, ttl: ttl}
}

// NewRedisClient creates and pings a Redis client with optional password auth.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}

func (s *RedisSessions) Create(ctx context.Context, userID int64) (string, error) {
	token := uuid.New().String()
	err := s.rdb.Set(ctx, "session:"+token, strconv.FormatInt(userID, 10), s.ttl).Err()
	return token, err
}

func (s *RedisSessions) Get(ctx context.Context, token string) (int64, error) {
	val, err := s.rdb.Get(ctx, "session:"+token).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(val, 10, 64)
}

func (s *RedisSessions) Delete(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, "session:"+token).Err()
}

type memorySession struct {
	userID    int64
	expiresAt time.Time
}

// MemorySessions keeps sessions in process memory. Used in tests and in
// deployments that run without Redis; sessions do not survive a restart.
type MemorySessions struct {
	mu       sync.RWMutex
	sessions map[string]memorySession
	ttl      time.Duration
}

func NewMemorySessions(ttl time.Duration) *MemorySessions {
	return &MemorySessions{sessions: make(map[string]memorySession), ttl: ttl}
}

func (s *MemorySessions) Create(_ context.Context, userID int64) (string, error) {
	token := uuid.New().String()
	s.mu.Lock()
	s.sessions[token] = memorySession{userID: userID, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()
	return token, nil
}

func (s *MemorySessions) Get(_ context.Context, token string) (int64, error) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok || time.Now().After(sess.expiresAt) {
		return 0, nil
	}
	return sess.userID, nil
}

func (s *MemorySessions) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}
