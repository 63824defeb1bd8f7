package scoring

import (
	"fmt"
	"strings"

	"github.com/mr1hm/go-water-safety/internal/models"
)

// ExplainInput carries everything rendered into an explanation.
type ExplainInput struct {
	Strategy  Strategy
	Requested Strategy // strategy asked for; differs from Strategy on fallback
	RadiusKm  float64
	Disasters []DisasterSummary
	Details   Details
	Quality   *models.WaterQualitySummary // nil when the portal was unavailable
	Sources   []models.WaterSource        // nearest considered, closest first
	Hazard    HazardContext
}

var sourceCategories = []struct {
	typ   models.WaterSourceType
	label string
}{
	{models.WaterDrinking, "drinking water"},
	{models.WaterFountain, "fountain"},
	{models.WaterWell, "well"},
	{models.WaterSpring, "spring"},
	{models.WaterReservoir, "reservoir"},
	{models.WaterRiver, "river"},
}

// Explain renders a deterministic summary. It is never empty.
func Explain(in ExplainInput) string {
	var parts []string

	switch {
	case len(in.Disasters) > 0:
		labels := make([]string, 0, len(in.Disasters))
		for _, d := range in.Disasters {
			labels = append(labels, disasterLabel(d, in.RadiusKm))
		}
		parts = append(parts, "Disaster nearby: "+strings.Join(labels, ". ")+".")
	case in.Strategy == StrategyHazardContext:
		parts = append(parts, "No known disasters or water issues in this area.")
	default:
		parts = append(parts, fmt.Sprintf("No known disasters within %.0f km.", in.RadiusKm))
	}

	if in.Hazard.ReservoirInDisasterZone && in.Hazard.Reservoir != nil {
		parts = append(parts, fmt.Sprintf("Your water source (%s) is in a disaster zone.", in.Hazard.Reservoir.Item.Name))
	}
	if len(in.Hazard.FacilitiesAtRisk) > 0 {
		names := make([]string, 0, len(in.Hazard.FacilitiesAtRisk))
		for _, f := range in.Hazard.FacilitiesAtRisk {
			names = append(names, fmt.Sprintf("%s (%s)", f.Item.Name, strings.ReplaceAll(string(f.Item.Type), "_", " ")))
		}
		parts = append(parts, "Disaster near hazardous facility: "+strings.Join(names, ", ")+".")
	}

	switch {
	case in.Quality == nil:
		parts = append(parts, "EPA Water Quality Portal data unavailable.")
	case in.Details.WQPStationCount > 0 || in.Details.WQPResultCount > 0:
		parts = append(parts, fmt.Sprintf("EPA monitoring: %d station(s), %d recent result(s).",
			in.Details.WQPStationCount, in.Details.WQPResultCount))
		if in.Details.HasRecentResults {
			parts = append(parts, "Recent water quality data available.")
		}
	default:
		parts = append(parts, "No EPA Water Quality Portal data in this area.")
	}
	if in.Quality != nil && in.Quality.Partial {
		parts = append(parts, "(Partial WQP data)")
	}

	if len(in.Sources) == 0 {
		parts = append(parts, "Limited nearby water-source data.")
	} else {
		parts = append(parts, fmt.Sprintf("Nearest %d water source(s): %s.", len(in.Sources), sourceMix(in.Sources)))
	}

	if in.Strategy == StrategyModel {
		parts = append(parts, "Scored with the trained model.")
	} else if in.Requested == StrategyModel {
		parts = append(parts, "No trained model available, scored with the formula.")
	}
	if in.Quality == nil || in.Quality.Partial || len(in.Sources) == 0 {
		parts = append(parts, "Consider checking local utility reports.")
	}

	return strings.Join(parts, " ")
}

func disasterLabel(d DisasterSummary, radiusKm float64) string {
	label := fmt.Sprintf("Active disaster declaration within %.0f km", radiusKm)
	if d.Title != "" {
		label = d.Title
		if d.State != "" {
			label += " (" + d.State + ")"
		}
	}
	if d.Count > 1 {
		label += fmt.Sprintf(" (%d declarations)", d.Count)
	}
	return label
}

func sourceMix(sources []models.WaterSource) string {
	counts := make(map[models.WaterSourceType]int)
	potable := 0
	for _, s := range sources {
		counts[s.Type]++
		if s.PotableHint == models.PotableYes {
			potable++
		}
	}

	var out []string
	known := 0
	for _, c := range sourceCategories {
		if n := counts[c.typ]; n > 0 {
			out = append(out, fmt.Sprintf("%d %s", n, c.label))
			known += n
		}
	}
	if other := len(sources) - known; other > 0 {
		out = append(out, fmt.Sprintf("%d other", other))
	}
	if potable > 0 {
		out = append(out, fmt.Sprintf("%d marked potable", potable))
	}
	return strings.Join(out, ", ")
}
