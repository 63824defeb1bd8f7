package scoring

import (
	"math"
	"sort"

	"github.com/mr1hm/go-water-safety/internal/geo"
	"github.com/mr1hm/go-water-safety/internal/hazard"
	"github.com/mr1hm/go-water-safety/internal/models"
)

const (
	// WideRadiusKm is the disaster radius of the water source mix variant.
	WideRadiusKm = 500.0

	maxWidePenalty        = 60.0
	waterPointsConsidered = 5
	waterPointDecayKm     = 15.0
	minWaterPointDecay    = 0.25
	maxWaterPointPenalty  = 35.0
	noWaterPointPenalty   = 6.0
)

// WaterMix explains a water source mix score.
type WaterMix struct {
	DisasterCount     int                             `json:"disasterCount"`
	DisasterPenalty   float64                         `json:"disasterPenalty"`
	WaterPointPenalty float64                         `json:"waterPointPenalty"`
	Points            []geo.Match[models.WaterSource] `json:"points"`
}

// ScoreWaterSourceMix scores from disaster proximity within WideRadiusKm and
// the safety type of the nearest water points. With no known points a flat
// uncertainty penalty applies.
func ScoreWaterSourceMix(p geo.Point, disasters []models.Disaster, sources []models.WaterSource) (int, WaterMix) {
	events := DistinctEvents(hazard.DisastersNear(p, WideRadiusKm, disasters))

	var dp float64
	for _, m := range events {
		dp += penaltyPerDisaster * (1 - m.DistanceKm/WideRadiusKm)
	}
	dp = math.Min(dp, maxWidePenalty)

	points := nearestSources(p, sources, waterPointsConsidered)
	wp := noWaterPointPenalty
	if len(points) > 0 {
		wp = 0
		for _, m := range points {
			decay := math.Max(minWaterPointDecay, 1-m.DistanceKm/waterPointDecayKm)
			wp += waterPointWeight(m.Item) * decay
		}
		wp = math.Min(wp, maxWaterPointPenalty)
	}

	mix := WaterMix{
		DisasterCount:     len(events),
		DisasterPenalty:   dp,
		WaterPointPenalty: wp,
		Points:            points,
	}
	return clampScore(100 - dp - wp), mix
}

func nearestSources(p geo.Point, sources []models.WaterSource, limit int) []geo.Match[models.WaterSource] {
	out := make([]geo.Match[models.WaterSource], 0, len(sources))
	for _, s := range sources {
		out = append(out, geo.Match[models.WaterSource]{Item: s, DistanceKm: geo.DistanceKm(p, s.Location)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// waterPointWeight is higher for point types less likely to be safe to drink.
func waterPointWeight(s models.WaterSource) float64 {
	if s.PotableHint == models.PotableYes {
		return 0
	}
	switch s.Type {
	case models.WaterDrinking:
		return 2
	case models.WaterFountain:
		return 4
	case models.WaterWell, models.WaterSpring:
		return 5
	case models.WaterReservoir:
		return 7
	default:
		return 8
	}
}
