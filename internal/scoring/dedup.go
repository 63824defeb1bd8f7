package scoring

import (
	"github.com/mr1hm/go-water-safety/internal/geo"
	"github.com/mr1hm/go-water-safety/internal/models"
)

// DisasterSummary is one displayed disaster with the number of declaration
// rows collapsed into it.
type DisasterSummary struct {
	ID         string              `json:"id"`
	Title      string              `json:"title,omitempty"`
	State      string              `json:"state,omitempty"`
	Type       models.DisasterType `json:"type,omitempty"`
	Count      int                 `json:"count"`
	DistanceKm float64             `json:"distanceKm"`
}

// EventKey identifies a real-world event: disaster number plus state when both
// are known, otherwise the record id.
func EventKey(d models.Disaster) string {
	if d.DisasterNumber != "" && d.State != "" {
		return d.DisasterNumber + "-" + d.State
	}
	return d.ID
}

func displayKey(d models.Disaster) string {
	return d.Title + "|" + d.State + "|" + string(d.Type)
}

// GroupForDisplay collapses rows sharing (title, state, type), preserving
// first-seen order. With distance-sorted input the kept row is the closest.
func GroupForDisplay(matches []geo.Match[models.Disaster]) []DisasterSummary {
	index := make(map[string]int, len(matches))
	var out []DisasterSummary
	for _, m := range matches {
		k := displayKey(m.Item)
		if i, ok := index[k]; ok {
			out[i].Count++
			continue
		}
		index[k] = len(out)
		out = append(out, DisasterSummary{
			ID:         m.Item.ID,
			Title:      m.Item.Title,
			State:      m.Item.State,
			Type:       m.Item.Type,
			Count:      1,
			DistanceKm: geo.RoundKm(m.DistanceKm),
		})
	}
	return out
}

// DistinctEvents keeps the first match for each EventKey.
func DistinctEvents(matches []geo.Match[models.Disaster]) []geo.Match[models.Disaster] {
	seen := make(map[string]struct{}, len(matches))
	out := make([]geo.Match[models.Disaster], 0, len(matches))
	for _, m := range matches {
		k := EventKey(m.Item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, m)
	}
	return out
}
