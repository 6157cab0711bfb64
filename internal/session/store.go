package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Storage field names, shared with the other portal clients so that SSO
// sessions look the same everywhere.
const (
	fieldAccessToken  = "bdp_access_token"
	fieldRefreshToken = "bdp_refresh_token"
	fieldRedirectPath = "bdp_post_login_redirect"
)

// Store is the durable credential storage behind a session: the token pair
// plus a one-shot post-login redirect path. An empty string means absent.
type Store interface {
	AccessToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) (string, error)
	SetTokens(ctx context.Context, accessToken, refreshToken string) error
	ClearTokens(ctx context.Context) error

	SetRedirectPath(ctx context.Context, path string) error
	// TakeRedirectPath returns the saved path and clears it.
	TakeRedirectPath(ctx context.Context) (string, error)
}

// MemStore is an in-memory Store. Used in tests and for single-process runs
// without redis.
type MemStore struct {
	mu           sync.Mutex
	accessToken  string
	refreshToken string
	redirectPath string
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) AccessToken(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, nil
}

func (s *MemStore) RefreshToken(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshToken, nil
}

func (s *MemStore) SetTokens(_ context.Context, accessToken, refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = accessToken
	s.refreshToken = refreshToken
	return nil
}

func (s *MemStore) ClearTokens(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = ""
	s.refreshToken = ""
	s.redirectPath = ""
	return nil
}

func (s *MemStore) SetRedirectPath(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.redirectPath = path
	return nil
}

func (s *MemStore) TakeRedirectPath(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	path := s.redirectPath
	s.redirectPath = ""
	return path, nil
}

// RedisStore keeps a session's credentials in a redis hash keyed by the
// gateway session ID, expiring with the session TTL.
type RedisStore struct {
	client    *redis.Client
	sessionID string
	ttl       time.Duration
}

func NewRedisStore(client *redis.Client, sessionID string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, sessionID: sessionID, ttl: ttl}
}

func (s *RedisStore) key() string {
	return "bdp:session:" + s.sessionID
}

func (s *RedisStore) field(ctx context.Context, name string) (string, error) {
	val, err := s.client.HGet(ctx, s.key(), name).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("session store read %s: %w", name, err)
	}
	return val, nil
}

func (s *RedisStore) AccessToken(ctx context.Context) (string, error) {
	return s.field(ctx, fieldAccessToken)
}

func (s *RedisStore) RefreshToken(ctx context.Context) (string, error) {
	return s.field(ctx, fieldRefreshToken)
}

func (s *RedisStore) SetTokens(ctx context.Context, accessToken, refreshToken string) error {
	key := s.key()
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, fieldAccessToken, accessToken, fieldRefreshToken, refreshToken)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("session store write tokens: %w", err)
	}
	return nil
}

func (s *RedisStore) ClearTokens(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key()).Err(); err != nil {
		return fmt.Errorf("session store clear: %w", err)
	}
	return nil
}

func (s *RedisStore) SetRedirectPath(ctx context.Context, path string) error {
	key := s.key()
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, fieldRedirectPath, path)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("session store write redirect path: %w", err)
	}
	return nil
}

func (s *RedisStore) TakeRedirectPath(ctx context.Context) (string, error) {
	path, err := s.field(ctx, fieldRedirectPath)
	if err != nil {
		return "", err
	}
	if path != "" {
		if err := s.client.HDel(ctx, s.key(), fieldRedirectPath).Err(); err != nil {
			return "", fmt.Errorf("session store clear redirect path: %w", err)
		}
	}
	return path, nil
}
