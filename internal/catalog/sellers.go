package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ariefcatur/haritham-market/internal/market"
	"github.com/ariefcatur/haritham-market/internal/redisx"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

type UserAPI interface {
	GetUser(ctx context.Context, id string) (market.User, error)
}

type NameCache interface {
	Get(ctx context.Context, sellerID string) (string, bool)
	Set(ctx context.Context, sellerID, name string)
}

// SellerNames resolves seller ids to display names.
type SellerNames struct {
	API   UserAPI
	Cache NameCache
	// Max parallel user lookups.
	Limit int
}

// Resolve looks up every distinct id concurrently. Names that resolved are
// returned even when other lookups fail; the failures are joined into err.
func (s *SellerNames) Resolve(ctx context.Context, ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	var (
		mu   sync.Mutex
		errs []error
		g    errgroup.Group
	)
	limit := s.Limit
	if limit <= 0 {
		limit = 8
	}
	g.SetLimit(limit)

	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		if name, ok := s.Cache.Get(ctx, id); ok {
			out[id] = name
			continue
		}
		id := id
		g.Go(func() error {
			u, err := s.API.GetUser(ctx, id)
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("seller %s: %w", id, err))
				mu.Unlock()
				return nil
			}
			name := u.DisplayName()
			s.Cache.Set(ctx, id, name)
			mu.Lock()
			out[id] = name
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out, errors.Join(errs...)
}

type RedisNameCache struct {
	Redis redis.Cmdable
	TTL   time.Duration
}

func (c *RedisNameCache) Get(ctx context.Context, id string) (string, bool) {
	v, err := c.Redis.Get(ctx, fmt.Sprintf(redisx.KeySellerName, id)).Result()
	if err != nil || v == "" {
		return "", false
	}
	return v, true
}

func (c *RedisNameCache) Set(ctx context.Context, id, name string) {
	_ = c.Redis.Set(ctx, fmt.Sprintf(redisx.KeySellerName, id), name, c.TTL).Err()
}

type memEntry struct {
	name string
	exp  time.Time
}

type MemoryNameCache struct {
	mu  sync.Mutex
	m   map[string]memEntry
	TTL time.Duration
}

func NewMemoryNameCache(ttl time.Duration) *MemoryNameCache {
	return &MemoryNameCache{m: map[string]memEntry{}, TTL: ttl}
}

func (c *MemoryNameCache) Get(_ context.Context, id string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.m[id]
	if !ok || time.Now().After(e.exp) {
		return "", false
	}
	return e.name, true
}

func (c *MemoryNameCache) Set(_ context.Context, id, name string) {
	c.mu.Lock()
	c.m[id] = memEntry{name: name, exp: time.Now().Add(c.TTL)}
	c.mu.Unlock()
}
