// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// fragment.go provides a Valkey-backed cache for rendered article bodies.
// Interleaving markdown with visual blocks is the most expensive part of a
// detail-page render, and the body only changes when the article is
// regenerated, so the HTML fragment is cached independently of the
// per-request parts (view count, vote counts, flash messages).
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// fragmentKeyPrefix is the Valkey key prefix for cached fragments.
	fragmentKeyPrefix = "fragment:"

	// DefaultFragmentTTL is how long a rendered fragment stays cached.
	DefaultFragmentTTL = time.Hour
)

// FragmentCache stores rendered HTML fragments in Valkey.
type FragmentCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFragmentCache creates a fragment cache backed by the given Valkey client.
func NewFragmentCache(client *redis.Client, ttl time.Duration) *FragmentCache {
	if ttl == 0 {
		ttl = DefaultFragmentTTL
	}
	return &FragmentCache{client: client, ttl: ttl}
}

// Get retrieves a cached fragment. The second return is false on miss.
func (fc *FragmentCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := fc.client.Get(ctx, fragmentKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("fragment cache get error", "key", key, "error", err)
		return nil, false
	}
	return val, true
}

// Set stores a rendered fragment with the configured TTL.
func (fc *FragmentCache) Set(ctx context.Context, key string, html []byte) {
	if err := fc.client.Set(ctx, fragmentKeyPrefix+key, html, fc.ttl).Err(); err != nil {
		slog.Warn("fragment cache set error", "key", key, "error", err)
	}
}

// Invalidate removes a single fragment from the cache.
func (fc *FragmentCache) Invalidate(ctx context.Context, key string) {
	if err := fc.client.Del(ctx, fragmentKeyPrefix+key).Err(); err != nil {
		slog.Warn("fragment cache invalidate error", "key", key, "error", err)
	}
}

// InvalidateSitemap removes the cached sitemap. Called when a new article
// completes so crawlers see it without waiting out the TTL.
func (fc *FragmentCache) InvalidateSitemap(ctx context.Context) {
	fc.Invalidate(ctx, SitemapKey())
}

// ArticleBodyKey returns the cache key for an article's rendered body.
func ArticleBodyKey(id uuid.UUID) string {
	return "article-body:" + id.String()
}

// SitemapKey returns the cache key for the sitemap XML.
func SitemapKey() string {
	return "sitemap"
}
