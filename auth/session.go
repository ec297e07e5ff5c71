package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type Session struct {
	Token     string `json:"-"`
	AccountID int64  `json:"account_id"`
	Role      Role   `json:"role"`
	ShopID    int64  `json:"shop_id,omitempty"`
}

type SessionStore interface {
	Issue(ctx context.Context, session Session) (string, error)
	Lookup(ctx context.Context, token string) (*Session, error)
	Revoke(ctx context.Context, token string) error
}

type RedisSessionStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{Client: client, TTL: ttl}
}

func sessionKey(token string) string {
	return "session:" + token
}

func newToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "") + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (s *RedisSessionStore) Issue(ctx context.Context, session Session) (string, error) {
	token := newToken()
	payload, err := json.Marshal(session)
	if err != nil {
		return "", err
	}
	if err := s.Client.Set(ctx, sessionKey(token), payload, s.TTL).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

func (s *RedisSessionStore) Lookup(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	raw, err := s.Client.Get(ctx, sessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, ErrInvalidToken
	}
	session.Token = token
	return &session, nil
}

func (s *RedisSessionStore) Revoke(ctx context.Context, token string) error {
	return s.Client.Del(ctx, sessionKey(token)).Err()
}

var _ SessionStore = (*RedisSessionStore)(nil)

// MemorySessionStore keeps sessions in process. Used by tests and single-binary demos.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewMemorySessionStore(seed map[string]Session) *MemorySessionStore {
	store := &MemorySessionStore{sessions: make(map[string]Session, len(seed))}
	for token, session := range seed {
		store.sessions[token] = session
	}
	return store
}

func (s *MemorySessionStore) Issue(_ context.Context, session Session) (string, error) {
	token := newToken()
	s.mu.Lock()
	s.sessions[token] = session
	s.mu.Unlock()
	return token, nil
}

func (s *MemorySessionStore) Lookup(_ context.Context, token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrInvalidToken
	}
	session.Token = token
	return &session, nil
}

func (s *MemorySessionStore) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}

var _ SessionStore = (*MemorySessionStore)(nil)
