package ingestion

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mr1hm/go-water-safety/internal/geo"
	"github.com/mr1hm/go-water-safety/internal/models"
)

type usgsResponse struct {
	Features []usgsFeature `json:"features"`
}

type usgsFeature struct {
	ID         string         `json:"id"`
	Properties usgsProperties `json:"properties"`
	Geometry   usgsGeometry   `json:"geometry"`
}
type usgsProperties struct {
	Mag   float64 `json:"mag"`
	Place string  `json:"place"`
	Time  int64   `json:"time"` // unix millis
	Title string  `json:"title"`
}
type usgsGeometry struct {
	Coordinates []float64 `json:"coordinates"` // [lon, lat, depth]
}

func parseUSGS(body []byte, now time.Time) ([]*models.Disaster, error) {
	var data usgsResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("error decoding USGS feed: %w", err)
	}

	disasters := make([]*models.Disaster, 0, len(data.Features))
	for _, f := range data.Features {
		d := &models.Disaster{
			ID:         "usgs_" + f.ID,
			Source:     SourceUSGS,
			Type:       models.DisasterTypeEarthquake,
			Title:      f.Properties.Title,
			Magnitude:  f.Properties.Mag,
			DeclaredAt: time.UnixMilli(f.Properties.Time).UTC(),
			CreatedAt:  now,
		}
		if c := f.Geometry.Coordinates; len(c) >= 2 {
			p := geo.Point{Lat: c[1], Lng: c[0]}
			if p.Validate() == nil {
				d.Location = &p
			}
		}
		disasters = append(disasters, d)
	}

	return disasters, nil
}
