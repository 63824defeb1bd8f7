package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/mr1hm/go-water-safety/internal/geo"
	"github.com/mr1hm/go-water-safety/internal/models"
	"github.com/mr1hm/go-water-safety/internal/osm"
	"github.com/mr1hm/go-water-safety/internal/repository"
)

const (
	DefaultListLimit   = 100
	MaxListLimit       = 500
	DefaultNearbyLimit = 5
	MaxNearbyLimit     = 20
)

var ErrEmptyDescription = errors.New("description is required")

// WaterOrigin tells whether nearby water came from a live lookup or the demo list.
type WaterOrigin string

const (
	OriginLive     WaterOrigin = "live"
	OriginFallback WaterOrigin = "fallback"
)

// ClampLimit returns def for n <= 0 and caps n at max.
func ClampLimit(n, def, max int) int {
	if n <= 0 {
		return def
	}
	return min(n, max)
}

// SubmitReport stores a water issue report. Urgency comes from the assistant
// when one is configured and defaults to medium.
func (s *Service) SubmitReport(ctx context.Context, description string, p geo.Point) (*models.Report, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrEmptyDescription
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	urgency := models.UrgencyMedium
	if s.assistant != nil {
		actx, cancel := context.WithTimeout(ctx, s.cfg.UpstreamTimeout)
		u, err := s.assistant.ClassifyUrgency(actx, description)
		cancel()
		if err != nil {
			slog.Warn("urgency classification failed", "error", err)
		} else {
			urgency = u
		}
	}

	r := &models.Report{
		ID:          uuid.NewString(),
		Description: description,
		Location:    p,
		Urgency:     urgency,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.store.AddReport(ctx, r); err != nil {
		return nil, err
	}
	slog.Info("report submitted", "id", r.ID, "urgency", r.Urgency, "lat", p.Lat, "lng", p.Lng)
	return r, nil
}

func (s *Service) Reports(ctx context.Context, limit int) ([]models.Report, error) {
	return s.store.ListReports(ctx, ClampLimit(limit, DefaultListLimit, MaxListLimit))
}

func (s *Service) AddSafeWater(ctx context.Context, p geo.Point, name string) (*models.SafeWaterPoint, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	sw := &models.SafeWaterPoint{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Location:  p,
		CreatedAt: s.clock.Now(),
	}
	if err := s.store.AddSafeWater(ctx, sw); err != nil {
		return nil, err
	}
	return sw, nil
}

// SafeWater lists the newest shared points. With a center and a positive
// radius, only points within radiusKm are kept, nearest first.
func (s *Service) SafeWater(ctx context.Context, center *geo.Point, radiusKm float64, limit int) ([]models.SafeWaterPoint, error) {
	points, err := s.store.ListSafeWater(ctx, ClampLimit(limit, DefaultListLimit, MaxListLimit))
	if err != nil {
		return nil, err
	}
	if center == nil || radiusKm <= 0 {
		return points, nil
	}

	out := make([]models.SafeWaterPoint, 0, len(points))
	for _, sw := range points {
		d := geo.DistanceKm(*center, sw.Location)
		if d > radiusKm {
			continue
		}
		sw.DistanceKm = geo.RoundKm(d)
		out = append(out, sw)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	return out, nil
}

// NearbyWater returns live water points near p, or the demo list when the
// lookup fails or finds nothing.
func (s *Service) NearbyWater(ctx context.Context, p geo.Point, limit int) ([]models.WaterSource, WaterOrigin, error) {
	if err := p.Validate(); err != nil {
		return nil, "", err
	}
	limit = ClampLimit(limit, DefaultNearbyLimit, MaxNearbyLimit)

	if s.sources != nil {
		sctx, cancel := context.WithTimeout(ctx, s.cfg.UpstreamTimeout)
		live, err := s.sources.WaterSources(sctx, p, limit)
		cancel()
		if err != nil {
			slog.Warn("water source lookup failed", "source", "overpass", "error", err)
		}
		if len(live) > 0 {
			if len(live) > limit {
				live = live[:limit]
			}
			return live, OriginLive, nil
		}
	}
	return osm.Fallback(p, limit), OriginFallback, nil
}

// Disasters lists stored disasters for the feed endpoint.
func (s *Service) Disasters(ctx context.Context, f repository.Filter) ([]models.Disaster, error) {
	f.Limit = ClampLimit(f.Limit, DefaultListLimit, MaxListLimit)
	return s.store.ListDisasters(ctx, f)
}

func (s *Service) Disaster(ctx context.Context, id string) (*models.Disaster, error) {
	return s.store.GetByID(ctx, id)
}
