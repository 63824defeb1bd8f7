package scoring

import (
	"github.com/mr1hm/go-water-safety/internal/geo"
	"github.com/mr1hm/go-water-safety/internal/hazard"
	"github.com/mr1hm/go-water-safety/internal/models"
)

const (
	reservoirZonePenalty   = 15.0
	facilityAtRiskPenalty  = 10.0
	maxFacilityRiskPenalty = 20.0
)

// HazardContext is the reservoir and facility picture around a point.
type HazardContext struct {
	Reservoir               *geo.Match[models.Reservoir] `json:"reservoir"`
	ReservoirInDisasterZone bool                         `json:"sourceReservoirInDisasterZone"`
	FacilitiesAtRisk        []geo.Match[models.Facility] `json:"facilitiesAtRisk"`
}

// ResolveHazardContext finds the source reservoir and the nearby facilities
// that have a disaster within DisasterRadiusKm.
func ResolveHazardContext(catalog *hazard.Catalog, p geo.Point, disasters []models.Disaster) HazardContext {
	var hc HazardContext

	if r, ok := catalog.SourceReservoir(p); ok {
		hc.Reservoir = &r
		hc.ReservoirInDisasterZone = hazard.AnyDisasterNear(r.Item.Location, DisasterRadiusKm, disasters)
	}

	hc.FacilitiesAtRisk = []geo.Match[models.Facility]{}
	for _, f := range catalog.FacilitiesNear(p, hazard.FacilityRadiusKm) {
		if hazard.AnyDisasterNear(f.Item.Location, DisasterRadiusKm, disasters) {
			hc.FacilitiesAtRisk = append(hc.FacilitiesAtRisk, f)
		}
	}
	return hc
}

// ScoreHazardContext charges a flat penalty per distinct nearby event, one for
// a source reservoir in a disaster zone and one per facility at risk.
func ScoreHazardContext(distinctEvents int, hc HazardContext) int {
	score := 100 - penaltyPerDisaster*float64(distinctEvents)
	if hc.ReservoirInDisasterZone {
		score -= reservoirZonePenalty
	}
	score -= min(maxFacilityRiskPenalty, facilityAtRiskPenalty*float64(len(hc.FacilitiesAtRisk)))
	return clampScore(score)
}
