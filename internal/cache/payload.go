package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// FetchFunc produces a section payload when the cache misses.
type FetchFunc func(ctx context.Context) ([]byte, error)

// PayloadCache is a read-through cache for upstream JSON payloads keyed by
// section and query shape. Redis trouble degrades to a direct fetch rather
// than failing the request.
type PayloadCache struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewPayloadCache(client *redis.Client, log zerolog.Logger) *PayloadCache {
	return &PayloadCache{client: client, log: log}
}

func key(section string) string {
	return "bdp:portal:" + section
}

// Fetch returns the cached payload for the key, or fetches and stores it.
// The second return reports a cache hit.
func (c *PayloadCache) Fetch(ctx context.Context, section string, ttl time.Duration, fetch FetchFunc) ([]byte, bool, error) {
	if c.client != nil {
		cached, err := c.client.Get(ctx, key(section)).Bytes()
		if err == nil {
			return cached, true, nil
		}
		if err != redis.Nil {
			c.log.Warn().Err(err).Str("section", section).Msg("cache read failed")
		}
	}

	payload, err := fetch(ctx)
	if err != nil {
		return nil, false, err
	}

	if c.client != nil && ttl > 0 {
		if err := c.client.Set(ctx, key(section), payload, ttl).Err(); err != nil {
			c.log.Warn().Err(err).Str("section", section).Msg("cache write failed")
		}
	}
	return payload, false, nil
}

// Warm refreshes the key unconditionally; used by the scheduled cache warmer
// so that hot sections never serve a cold miss.
func (c *PayloadCache) Warm(ctx context.Context, section string, ttl time.Duration, fetch FetchFunc) error {
	payload, err := fetch(ctx)
	if err != nil {
		return err
	}
	if c.client == nil {
		return nil
	}
	return c.client.Set(ctx, key(section), payload, ttl).Err()
}

// Purge drops a cached section.
func (c *PayloadCache) Purge(ctx context.Context, section string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, key(section)).Err()
}
