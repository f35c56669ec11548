package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pagescope/user-service/internal/core/domain"
)

const defaultCacheTTL = 5 * time.Minute

// UserCache stores public user records keyed by tenant page and id.
// Key format: user:<page>:<id>
type UserCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewUserCache creates a UserCache wrapping the given Redis client.
func NewUserCache(client *redis.Client, ttl time.Duration) *UserCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &UserCache{client: client, ttl: ttl}
}

// Get returns the cached user, or nil on a miss.
func (c *UserCache) Get(ctx context.Context, page, id string) (*domain.User, error) {
	raw, err := c.client.Get(ctx, userKey(page, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var u domain.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("cache decode: %w", err)
	}
	return &u, nil
}

// Set stores the public view of u (expires after the cache TTL).
func (c *UserCache) Set(ctx context.Context, u *domain.User) error {
	raw, err := json.Marshal(u.Public())
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	return c.client.Set(ctx, userKey(u.Page, u.ID), raw, c.ttl).Err()
}

// Invalidate drops the cached record of id under page.
func (c *UserCache) Invalidate(ctx context.Context, page, id string) error {
	return c.client.Del(ctx, userKey(page, id)).Err()
}

func userKey(page, id string) string {
	return fmt.Sprintf("user:%s:%s", page, id)
}
