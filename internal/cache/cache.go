// Package cache memoizes Water Quality Portal summaries on a rounded
// coordinate grid with a lazily checked TTL.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mr1hm/go-water-safety/internal/geo"
	"github.com/mr1hm/go-water-safety/internal/metrics"
	"github.com/mr1hm/go-water-safety/internal/models"
	"github.com/mr1hm/go-water-safety/internal/repository"
)

// DefaultTTL is how long an entry stays valid.
const DefaultTTL = 24 * time.Hour

// KeyFor rounds p to two decimals (roughly a 1 km grid) so nearby requests
// share an entry.
func KeyFor(p geo.Point, radius float64) models.CacheKey {
	return models.CacheKey{
		Lat:    round2(p.Lat),
		Lng:    round2(p.Lng),
		Radius: radius,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

type Cache struct {
	store repository.CacheRepository
	clock clockwork.Clock
	ttl   time.Duration
}

// New returns a cache over store. A nil clock uses real time and a
// non-positive ttl uses DefaultTTL.
func New(store repository.CacheRepository, clock clockwork.Clock, ttl time.Duration) *Cache {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{store: store, clock: clock, ttl: ttl}
}

// Get returns the entry for (p, radius) if it is younger than the TTL.
// Storage errors are logged and reported as a miss.
func (c *Cache) Get(ctx context.Context, p geo.Point, radius float64) (models.CacheEntry, bool) {
	e, err := c.store.GetCache(ctx, KeyFor(p, radius))
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			slog.Warn("cache read failed", "error", err)
		}
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return models.CacheEntry{}, false
	}
	if c.clock.Since(e.FetchedAt) >= c.ttl {
		metrics.CacheLookupsTotal.WithLabelValues("expired").Inc()
		return models.CacheEntry{}, false
	}
	metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
	return *e, true
}

// Put stores summary for (p, radius) stamped with the current time,
// overwriting any previous entry.
func (c *Cache) Put(ctx context.Context, p geo.Point, radius float64, summary models.WaterQualitySummary) error {
	return c.store.PutCache(ctx, models.CacheEntry{
		Key:       KeyFor(p, radius),
		Summary:   summary,
		FetchedAt: c.clock.Now(),
	})
}
