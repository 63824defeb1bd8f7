package osm

import (
	"strings"

	"github.com/mr1hm/go-water-safety/internal/models"
)

func classify(tags map[string]string) (models.WaterSourceType, bool) {
	switch {
	case tags["amenity"] == "drinking_water":
		return models.WaterDrinking, true
	case tags["amenity"] == "fountain", tags["man_made"] == "drinking_fountain":
		return models.WaterFountain, true
	case tags["man_made"] == "water_well":
		return models.WaterWell, true
	case tags["natural"] == "spring":
		return models.WaterSpring, true
	case tags["landuse"] == "reservoir", tags["water"] == "reservoir", tags["man_made"] == "reservoir_covered":
		return models.WaterReservoir, true
	case tags["waterway"] == "river", tags["water"] == "river":
		return models.WaterRiver, true
	}
	return "", false
}

func potableHint(tags map[string]string) models.PotableHint {
	switch strings.ToLower(strings.TrimSpace(tags["drinking_water"])) {
	case "yes", "treated":
		return models.PotableYes
	case "no":
		return models.PotableNo
	default:
		return models.PotableUnknown
	}
}

var defaultNames = map[models.WaterSourceType]string{
	models.WaterDrinking:  "Public Drinking Water",
	models.WaterFountain:  "Drinking Fountain",
	models.WaterWell:      "Water Well",
	models.WaterSpring:    "Spring",
	models.WaterReservoir: "Reservoir",
	models.WaterRiver:     "River",
}

func displayName(tags map[string]string, typ models.WaterSourceType) string {
	if name := strings.TrimSpace(tags["name"]); name != "" {
		return name
	}
	return defaultNames[typ]
}
