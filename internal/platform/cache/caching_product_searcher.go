// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"snapshop_backend/internal/feature/lookup/domain/entity"
	"snapshop_backend/internal/feature/lookup/usecase"
)

const (
	// DefaultTTL is used when a non-positive TTL is given.
	DefaultTTL = 6 * time.Hour
	// DefaultNamespace prefixes every cache key.
	DefaultNamespace = "shopping"
)

// CachingProductSearcher decorates a ProductSearcher with Redis caching.
// Shopping results for the same normalized query are served from Redis until the TTL expires.
type CachingProductSearcher struct {
	inner     usecase.ProductSearcher
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.ProductSearcher = (*CachingProductSearcher)(nil)

// NewCachingProductSearcher decorates a ProductSearcher with Redis caching.
// If ttl is 0, it defaults to DefaultTTL. If namespace is empty, it uses DefaultNamespace.
func NewCachingProductSearcher(rdb *redis.Client, ttl time.Duration, inner usecase.ProductSearcher, namespace string) *CachingProductSearcher {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &CachingProductSearcher{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Search returns cached matches for the query, falling back to the inner searcher.
func (c *CachingProductSearcher) Search(ctx context.Context, query string) ([]entity.MatchItem, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.Search(ctx, query)
	}

	key := c.cacheKey(query)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.MatchItem
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the search service
	out, err := c.inner.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// Purge removes every cached query in the namespace and returns the number of deleted keys.
func (c *CachingProductSearcher) Purge(ctx context.Context) (int, error) {
	if c.rdb == nil {
		return 0, nil
	}
	return c.deleteByPattern(ctx, c.namespace+":*")
}

// cacheKey generates a cache key for a specific query.
func (c *CachingProductSearcher) cacheKey(query string) string {
	return fmt.Sprintf("%s:%s", c.namespace, normalizeQuery(query))
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingProductSearcher) deleteByPattern(ctx context.Context, pattern string) (int, error) {
	var (
		cursor  uint64
		deleted int
	)
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return deleted, err
		}
		if len(keys) > 0 {
			n, err := c.rdb.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, err
			}
			deleted += int(n)
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return deleted, nil
}
