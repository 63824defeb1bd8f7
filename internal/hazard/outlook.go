package hazard

import (
	"fmt"
	"math"

	"github.com/mr1hm/go-water-safety/internal/geo"
	"github.com/mr1hm/go-water-safety/internal/models"
)

const (
	// PlantRadiusKm is the range in which a plant could affect water during a disaster.
	PlantRadiusKm = 80.0

	maxOutlookPenalty = 50.0
	minProximity      = 0.1
)

// Outlook predicts how nearby plants would affect water quality if a disaster occurred.
type Outlook struct {
	Plants       []geo.Match[models.Facility] `json:"plants"`
	NuclearCount int                          `json:"nuclearCount"`
	Penalty      float64                      `json:"penalty"`
	Summary      string                       `json:"summary"`
}

// Outlook scans plants within PlantRadiusKm. Closer and more plants raise the
// penalty, capped at 50.
func (c *Catalog) Outlook(p geo.Point, activeDisaster bool) Outlook {
	plants := geo.Nearby(p, PlantRadiusKm, c.plants, locateFacility)

	var (
		penalty float64
		nuclear int
	)
	for _, m := range plants {
		proximity := math.Max(minProximity, 1-m.DistanceKm/PlantRadiusKm)
		weight := 8.0
		if m.Item.Type == models.FacilityNuclear {
			weight = 15
			nuclear++
		}
		penalty += weight * proximity
	}
	penalty = math.Min(penalty, maxOutlookPenalty)

	return Outlook{
		Plants:       plants,
		NuclearCount: nuclear,
		Penalty:      penalty,
		Summary:      outlookSummary(len(plants), nuclear, activeDisaster),
	}
}

func outlookSummary(plants, nuclear int, activeDisaster bool) string {
	if plants == 0 {
		if activeDisaster {
			return "No major industrial or nuclear facilities in range; hazard from disaster alone."
		}
		return "No major hazard facilities nearby; water risk in a disaster would be lower."
	}
	if nuclear == 0 {
		return "Some industrial facilities nearby could pose water risk in a flood or storm."
	}

	part := fmt.Sprintf("%d nuclear power plant(s) within %.0f km", nuclear, PlantRadiusKm)
	if activeDisaster {
		return fmt.Sprintf("In this disaster, water quality could be affected by: %s. Avoid untreated surface water.", part)
	}
	return fmt.Sprintf("If a disaster occurred here, risk could increase due to: %s.", part)
}
