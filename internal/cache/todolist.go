// Package cache provides a Redis-backed cache for the per-user todo list.
// The list endpoint is the only read-heavy surface of the service, so
// instead of a generic response-capture middleware the cache stores the
// serialized list payload keyed by owner and is explicitly invalidated by
// every write path (including admin deletes, which key by the row's owner).
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/todo-service/internal/config"
)

// TodoListCache caches the JSON body of GET /todos/ per owner. A nil
// *TodoListCache or a nil Redis client disables caching entirely; all
// methods degrade to no-ops so callers never need to branch.
type TodoListCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// NewTodoListCache builds a cache from the loaded cache settings. It
// returns nil when caching is disabled or no Redis client is available.
func NewTodoListCache(cfg config.CacheConfig, rdb *redis.Client) *TodoListCache {
	if !cfg.Enabled || rdb == nil {
		return nil
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &TodoListCache{rdb: rdb, ttl: ttl, prefix: cfg.Prefix}
}

func (c *TodoListCache) key(ownerID uint64) string {
	return fmt.Sprintf("%s:owner:%d", c.prefix, ownerID)
}

// Get returns the cached list body for an owner, or ok=false on miss,
// disabled cache or Redis error. Errors are swallowed: a broken cache
// must never break the read path.
func (c *TodoListCache) Get(ctx context.Context, ownerID uint64) ([]byte, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	b, err := c.rdb.Get(ctx, c.key(ownerID)).Bytes()
	if err != nil {
		return nil, false
	}
	return b, true
}

// Set stores the list body for an owner with the configured TTL.
func (c *TodoListCache) Set(ctx context.Context, ownerID uint64, body []byte) {
	if c == nil || c.rdb == nil {
		return
	}
	_ = c.rdb.Set(ctx, c.key(ownerID), body, c.ttl).Err()
}

// Invalidate drops the cached list for an owner. Called after every
// successful create, update or delete touching that owner's rows.
func (c *TodoListCache) Invalidate(ctx context.Context, ownerID uint64) {
	if c == nil || c.rdb == nil {
		return
	}
	_ = c.rdb.Del(ctx, c.key(ownerID)).Err()
}
