package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/cloud-wave-best-zizon/battery-store/internal/clock"
	"github.com/cloud-wave-best-zizon/battery-store/internal/domain"
	"github.com/redis/go-redis/v9"
)

type MemorySessionStore struct {
	mu       sync.Mutex
	clock    clock.Clock
	sessions map[string]domain.Session
}

func NewMemorySessionStore(clk clock.Clock) *MemorySessionStore {
	return &MemorySessionStore{clock: clk, sessions: make(map[string]domain.Session)}
}

func (s *MemorySessionStore) Save(_ context.Context, session domain.Session) error {
	if session.Expired(s.clock.Now()) {
		return ErrSessionExpired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = session
	return nil
}

// Load drops and reports missing any session past its expiry.
func (s *MemorySessionStore) Load(_ context.Context, token string) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[token]
	if !ok {
		return domain.Session{}, ErrSessionNotFound
	}
	if session.Expired(s.clock.Now()) {
		delete(s.sessions, token)
		return domain.Session{}, ErrSessionNotFound
	}
	return session, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

// RedisSessionStore lets Redis expire sessions at their ExpiresAt.
type RedisSessionStore struct {
	client *redis.Client
	clock  clock.Clock
}

func NewRedisSessionStore(client *redis.Client, clk clock.Clock) *RedisSessionStore {
	return &RedisSessionStore{client: client, clock: clk}
}

func sessionKey(token string) string {
	return "admin_session:" + token
}

func (s *RedisSessionStore) Save(ctx context.Context, session domain.Session) error {
	ttl := session.ExpiresAt.Sub(s.clock.Now())
	if ttl <= 0 {
		return ErrSessionExpired
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return s.client.Set(ctx, sessionKey(session.Token), data, ttl).Err()
}

func (s *RedisSessionStore) Load(ctx context.Context, token string) (domain.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Session{}, ErrSessionNotFound
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("failed to read session: %w", err)
	}
	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return domain.Session{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	if session.Expired(s.clock.Now()) {
		return domain.Session{}, ErrSessionNotFound
	}
	return session, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionKey(token)).Err()
}
