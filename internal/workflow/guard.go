package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ariefcatur/haritham-market/internal/redisx"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Guard admits at most one status update per order at a time.
type Guard interface {
	// TryAcquire returns ok=false when an update for orderID is already in
	// flight. release must be called exactly once when ok is true.
	TryAcquire(ctx context.Context, orderID string) (release func(), ok bool, err error)
	Busy(ctx context.Context, orderID string) bool
}

type MemoryGuard struct {
	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewMemoryGuard() *MemoryGuard { return &MemoryGuard{inflight: map[string]struct{}{}} }

func (g *MemoryGuard) TryAcquire(_ context.Context, orderID string) (func(), bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inflight[orderID]; busy {
		return nil, false, nil
	}
	g.inflight[orderID] = struct{}{}
	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.inflight, orderID)
			g.mu.Unlock()
		})
	}, true, nil
}

func (g *MemoryGuard) Busy(_ context.Context, orderID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.inflight[orderID]
	return busy
}

// Only delete the lock if we still own it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisGuard shares the in-flight set between BFF replicas.
type RedisGuard struct {
	Redis redis.Cmdable
	TTL   time.Duration
}

func (g *RedisGuard) key(orderID string) string {
	return fmt.Sprintf(redisx.KeyStatusInflight, orderID)
}

func (g *RedisGuard) TryAcquire(ctx context.Context, orderID string) (func(), bool, error) {
	ttl := g.TTL
	if ttl <= 0 {
		ttl = redisx.TTLStatusInflight
	}
	token := uuid.NewString()
	ok, err := g.Redis.SetNX(ctx, g.key(orderID), token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire status lock: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			// the request context may already be cancelled
			rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = releaseScript.Run(rctx, g.Redis, []string{g.key(orderID)}, token).Err()
		})
	}, true, nil
}

func (g *RedisGuard) Busy(ctx context.Context, orderID string) bool {
	ok, err := redisx.Exists(ctx, g.Redis, g.key(orderID))
	return err == nil && ok
}

var ErrUpdateInFlight = errors.New("a status update for this order is already in progress")
