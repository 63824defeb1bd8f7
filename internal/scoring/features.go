package scoring

import (
	"math"
	"time"

	"github.com/mr1hm/go-water-safety/internal/geo"
	"github.com/mr1hm/go-water-safety/internal/hazard"
	"github.com/mr1hm/go-water-safety/internal/models"
)

// FeatureNames fixes the order of every feature vector. Training and
// inference must agree on it.
var FeatureNames = []string{
	"intercept",
	"disaster_count",
	"disaster_penalty",
	"wqp_station_count",
	"wqp_result_count",
	"has_recent_results",
	"water_source_score",
}

const (
	// DisasterRadiusKm is the proximity radius for disaster features.
	DisasterRadiusKm = 50.0

	penaltyPerDisaster = 25.0
	maxDisasterPenalty = 60.0

	// NeutralWaterSourceScore is used when no water sources are known.
	NeutralWaterSourceScore = 50.0
	// WaterSourceLimit is how many of the nearest sources feed the mix score.
	WaterSourceLimit = 10

	resultCountScale = 1000.0
)

// Details is the human-readable counterpart of a feature vector.
type Details struct {
	DisasterCount    int     `json:"disasterCount"`
	DisasterPenalty  float64 `json:"disasterPenalty"`
	WQPStationCount  int     `json:"wqpStationCount"`
	WQPResultCount   int     `json:"wqpResultCount"`
	HasRecentResults bool    `json:"hasRecentResults"`
	WaterSourceScore float64 `json:"waterSourceScore"`
}

// WaterSourceScore averages a per-type safety value over the nearest limit
// sources. Sources are expected nearest first.
func WaterSourceScore(sources []models.WaterSource, limit int) float64 {
	if len(sources) == 0 {
		return NeutralWaterSourceScore
	}
	if limit > 0 && len(sources) > limit {
		sources = sources[:limit]
	}
	var sum float64
	for _, s := range sources {
		sum += sourceValue(s)
	}
	return math.Round(sum / float64(len(sources)))
}

func sourceValue(s models.WaterSource) float64 {
	if s.PotableHint == models.PotableYes {
		return 100
	}
	switch s.Type {
	case models.WaterDrinking:
		return 85
	case models.WaterWell, models.WaterSpring:
		return 60
	case models.WaterFountain:
		return 50
	case models.WaterReservoir:
		return 30
	default:
		return 20
	}
}

// BuildFeatures assembles the feature vector for p. quality may be nil when the
// portal was unavailable. Repeated declarations of one event count once.
func BuildFeatures(p geo.Point, disasters []models.Disaster, quality *models.WaterQualitySummary, waterSourceScore float64, now time.Time) ([]float64, Details) {
	events := DistinctEvents(hazard.DisastersNear(p, DisasterRadiusKm, disasters))

	var penalty float64
	for _, m := range events {
		penalty += penaltyPerDisaster * (1 - m.DistanceKm/DisasterRadiusKm)
	}

	d := Details{
		DisasterCount:    len(events),
		DisasterPenalty:  math.Min(penalty, maxDisasterPenalty),
		WaterSourceScore: waterSourceScore,
	}
	if quality != nil {
		d.WQPStationCount = quality.StationCount
		d.WQPResultCount = quality.ResultCount
		d.HasRecentResults = quality.ResultCount > 0 && quality.LatestYear >= now.Year()-1
	}

	return d.Vector(), d
}

// Vector encodes d in FeatureNames order. Result count and water source score
// are normalized so model inputs stay in comparable ranges.
func (d Details) Vector() []float64 {
	return []float64{
		1,
		float64(d.DisasterCount),
		d.DisasterPenalty,
		float64(d.WQPStationCount),
		math.Min(float64(d.WQPResultCount), resultCountScale) / resultCountScale,
		boolToFloat(d.HasRecentResults),
		d.WaterSourceScore / 100,
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
