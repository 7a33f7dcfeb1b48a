package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: client, TTL: ttl}
}

func (c *RedisCache) MenuKey(eventID string) string {
	return "menu:" + eventID + ":json"
}

func (c *RedisCache) GetMenuJSON(ctx context.Context, eventID string) ([]byte, bool, error) {
	res, err := c.Client.Get(ctx, c.MenuKey(eventID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return res, true, nil
}

func (c *RedisCache) SetMenuJSON(ctx context.Context, eventID string, menuJSON []byte) error {
	return c.Client.Set(ctx, c.MenuKey(eventID), menuJSON, c.TTL).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context, eventID string) error {
	return c.Client.Del(ctx, c.MenuKey(eventID)).Err()
}

// MenuStale lets the cache act as the stale-menu sink when no broker is configured.
func (c *RedisCache) MenuStale(ctx context.Context, eventID, _ string) error {
	return c.Invalidate(ctx, eventID)
}
