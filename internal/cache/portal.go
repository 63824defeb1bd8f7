package cache

import (
	"context"
	"log/slog"

	"github.com/mr1hm/go-water-safety/internal/geo"
	"github.com/mr1hm/go-water-safety/internal/models"
)

// QualityPortal fetches a water quality summary around a point.
type QualityPortal interface {
	Summary(ctx context.Context, p geo.Point, radiusMiles float64) (*models.WaterQualitySummary, error)
}

// CachedPortal wraps a QualityPortal with a Cache.
type CachedPortal struct {
	inner QualityPortal
	cache *Cache
}

func NewCachedPortal(inner QualityPortal, cache *Cache) *CachedPortal {
	return &CachedPortal{inner: inner, cache: cache}
}

func (c *CachedPortal) Summary(ctx context.Context, p geo.Point, radiusMiles float64) (*models.WaterQualitySummary, error) {
	if e, ok := c.cache.Get(ctx, p, radiusMiles); ok {
		s := e.Summary
		return &s, nil
	}

	s, err := c.inner.Summary(ctx, p, radiusMiles)
	if err != nil {
		return nil, err
	}
	// partial summaries are not cached so the next request retries the failed half
	if s != nil && !s.Partial {
		if err := c.cache.Put(ctx, p, radiusMiles, *s); err != nil {
			slog.Warn("cache write failed", "error", err)
		}
	}
	return s, nil
}
