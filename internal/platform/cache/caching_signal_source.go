// Package cache provides caching implementations for provider interfaces.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"snaptrack_backend/internal/feature/fooddetection/domain/entity"
	"snaptrack_backend/internal/feature/fooddetection/usecase"
)

// CachingSignalSource decorates a SignalSource with a Redis read-through cache of raw
// labeling responses keyed by the SHA-256 of the image. Only error-free signal sets are stored.
type CachingSignalSource struct {
	inner     usecase.SignalSource
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.SignalSource = (*CachingSignalSource)(nil)

// NewCachingSignalSource decorates a SignalSource with Redis caching.
// If ttl is 0, it defaults to 10 minutes. If namespace is empty, it uses "signals".
func NewCachingSignalSource(rdb *redis.Client, ttl time.Duration, inner usecase.SignalSource, namespace string) *CachingSignalSource {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if namespace == "" {
		namespace = "signals"
	}
	return &CachingSignalSource{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// FetchSignals returns cached signals for the image when present, otherwise asks the inner source.
func (c *CachingSignalSource) FetchSignals(ctx context.Context, imageData []byte) (*entity.SignalSet, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.FetchSignals(ctx, imageData)
	}

	key := c.cacheKey(imageData)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.SignalSet
		if err := json.Unmarshal(b, &out); err == nil {
			return &out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the provider
	out, err := c.inner.FetchSignals(ctx, imageData)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort); responses carrying provider errors are not cached
	if out != nil && !out.HasError() {
		if b, err := json.Marshal(out); err == nil {
			if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
				slog.Warn("failed to cache signals", "key", key, "error", err)
			}
		}
	}

	return out, nil
}

// cacheKey generates a cache key from the image content.
func (c *CachingSignalSource) cacheKey(imageData []byte) string {
	sum := sha256.Sum256(imageData)
	return c.namespace + ":" + hex.EncodeToString(sum[:])
}
