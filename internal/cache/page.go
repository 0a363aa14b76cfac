// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// page.go provides a Valkey-backed full-page HTML cache (L2).
// A page or post whose view rendered completely is stored under a key built
// from its language, kind and slug, so later requests skip the block
// queries and dispatch entirely. Views that rendered placeholders are never
// stored.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// pageKeyPrefix is the Valkey key prefix for cached pages.
	pageKeyPrefix = "page:"

	// DefaultPageTTL is how long a rendered page stays cached.
	DefaultPageTTL = 5 * time.Minute
)

// InvalidationLogger records cache invalidations. store.CacheLogStore
// satisfies it.
type InvalidationLogger interface {
	Log(ctx context.Context, scope, key, action string)
}

// PageCache manages full-page HTML caching in Valkey.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
	log    InvalidationLogger
}

// NewPageCache creates a new page cache backed by the given Valkey client.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	if ttl == 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{client: client, ttl: ttl}
}

// WithLog makes the cache record every invalidation through l.
func (pc *PageCache) WithLog(l InvalidationLogger) *PageCache {
	pc.log = l
	return pc
}

// TTL returns the lifetime of stored pages.
func (pc *PageCache) TTL() time.Duration { return pc.ttl }

// Get retrieves cached HTML for a page key. The boolean is false on a miss
// or a Valkey error.
func (pc *PageCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := pc.client.Get(ctx, pageKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("page cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("page cache hit", "key", key)
	return val, true
}

// Set stores rendered HTML for a page key with the configured TTL.
func (pc *PageCache) Set(ctx context.Context, key string, html []byte) {
	if err := pc.client.Set(ctx, pageKeyPrefix+key, html, pc.ttl).Err(); err != nil {
		slog.Warn("page cache set error", "key", key, "error", err)
	}
}

// Invalidate removes a single cached page.
func (pc *PageCache) Invalidate(ctx context.Context, key string) {
	if err := pc.client.Del(ctx, pageKeyPrefix+key).Err(); err != nil {
		slog.Warn("page cache invalidate error", "key", key, "error", err)
		return
	}
	slog.Debug("page cache invalidated", "key", key)
	if pc.log != nil {
		pc.log.Log(ctx, "page", key, "evict")
	}
}

// Flush removes all cached pages by scanning for the prefix and returns how
// many keys were deleted.
func (pc *PageCache) Flush(ctx context.Context) (int, error) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := pc.client.Scan(ctx, cursor, pageKeyPrefix+"*", 100).Result()
		if err != nil {
			return deleted, fmt.Errorf("page cache scan: %w", err)
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				return deleted, fmt.Errorf("page cache delete: %w", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	slog.Info("page cache flushed", "deleted", deleted)
	if pc.log != nil {
		pc.log.Log(ctx, "all", pageKeyPrefix+"*", "flush")
	}
	return deleted, nil
}

// PageKey returns the cache key for a page or post: language code, kind
// ("page" or "post") and slug.
func PageKey(languageCode, kind, slug string) string {
	return fmt.Sprintf("%s:%s:%s", languageCode, kind, slug)
}
