package api

import (
	"github.com/mr1hm/go-water-safety/internal/models"
)

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}
type Feature struct {
	Type       string         `json:"type"`
	Geometry   *Geometry      `json:"geometry"`
	Properties map[string]any `json:"properties"`
}
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// toFeature encodes d as a GeoJSON feature. Disasters without a location get
// a null geometry.
func toFeature(d models.Disaster) Feature {
	f := Feature{
		Type: "Feature",
		Properties: map[string]any{
			"id":             d.ID,
			"source":         d.Source,
			"disasterNumber": d.DisasterNumber,
			"title":          d.Title,
			"state":          d.State,
			"type":           string(d.Type),
			"magnitude":      d.Magnitude,
			"approximate":    d.Approximate,
			"declaredAt":     d.DeclaredAt,
		},
	}
	if d.Location != nil {
		f.Geometry = &Geometry{
			Type:        "Point",
			Coordinates: []float64{d.Location.Lng, d.Location.Lat},
		}
	}
	return f
}

func toGeoJSON(disasters []models.Disaster) FeatureCollection {
	features := make([]Feature, 0, len(disasters))
	for _, d := range disasters {
		features = append(features, toFeature(d))
	}

	return FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}
