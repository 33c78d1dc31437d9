package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ariefcatur/haritham-market/internal/market"
	"github.com/ariefcatur/haritham-market/internal/redisx"
	"github.com/redis/go-redis/v9"
)

var ErrNoProfile = errors.New("no cached profile")

// Store caches the user profile returned at login.
type Store interface {
	Put(ctx context.Context, u market.User) error
	Get(ctx context.Context, userID string) (market.User, error)
	Delete(ctx context.Context, userID string) error
}

type RedisStore struct {
	Redis redis.Cmdable
	TTL   time.Duration
}

func (s *RedisStore) Put(ctx context.Context, u market.User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return s.Redis.Set(ctx, fmt.Sprintf(redisx.KeySessionUser, u.ID), b, s.TTL).Err()
}

func (s *RedisStore) Get(ctx context.Context, userID string) (market.User, error) {
	var u market.User
	b, err := s.Redis.Get(ctx, fmt.Sprintf(redisx.KeySessionUser, userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return u, ErrNoProfile
	}
	if err != nil {
		return u, err
	}
	err = json.Unmarshal(b, &u)
	return u, err
}

func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	return s.Redis.Del(ctx, fmt.Sprintf(redisx.KeySessionUser, userID)).Err()
}

// MemoryStore is used when no Redis is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]market.User
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{users: map[string]market.User{}} }

func (s *MemoryStore) Put(_ context.Context, u market.User) error {
	s.mu.Lock()
	s.users[u.ID] = u
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, userID string) (market.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return u, ErrNoProfile
	}
	return u, nil
}

func (s *MemoryStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	delete(s.users, userID)
	s.mu.Unlock()
	return nil
}
