package ingestion

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mr1hm/go-water-safety/internal/geo"
	"github.com/mr1hm/go-water-safety/internal/models"
)

type gdacsRSS struct {
	Channel gdacsChannel `xml:"channel"`
}
type gdacsChannel struct {
	Items []gdacsItem `xml:"item"`
}
type gdacsItem struct {
	Title     string   `xml:"title"`
	PubDate   string   `xml:"pubDate"`
	Lat       *float64 `xml:"http://www.georss.org/georss point>lat"`
	Lon       *float64 `xml:"http://www.georss.org/georss point>lon"`
	EventType string   `xml:"http://www.gdacs.org gdacs>eventtype"`
	EventID   string   `xml:"http://www.gdacs.org gdacs>eventid"`
	Severity  float64  `xml:"http://www.gdacs.org gdacs>severity"`
	Country   string   `xml:"http://www.gdacs.org gdacs>country"`
}

func parseGDACS(body []byte, now time.Time) ([]*models.Disaster, error) {
	var data gdacsRSS
	if err := xml.NewDecoder(bytes.NewReader(body)).Decode(&data); err != nil {
		return nil, fmt.Errorf("error decoding GDACS feed: %w", err)
	}

	disasters := make([]*models.Disaster, 0, len(data.Channel.Items))
	for _, item := range data.Channel.Items {
		if item.EventID == "" {
			continue
		}
		declared, err := time.Parse(time.RFC1123, item.PubDate)
		if err != nil {
			slog.Warn("GDACS timestamp parsing failed", "id", item.EventID, "error", err.Error())
		}

		d := &models.Disaster{
			ID:         fmt.Sprintf("gdacs_%s_%s", strings.ToLower(item.EventType), item.EventID),
			Source:     SourceGDACS,
			Title:      strings.TrimSpace(item.Title),
			State:      item.Country,
			Type:       mapGDACSEventType(item.EventType),
			Magnitude:  item.Severity,
			DeclaredAt: declared,
			CreatedAt:  now,
		}
		if item.Lat != nil && item.Lon != nil {
			p := geo.Point{Lat: *item.Lat, Lng: *item.Lon}
			if p.Validate() == nil {
				d.Location = &p
			}
		}
		disasters = append(disasters, d)
	}

	return disasters, nil
}

func mapGDACSEventType(eventType string) models.DisasterType {
	switch strings.ToUpper(eventType) {
	case "EQ":
		return models.DisasterTypeEarthquake
	case "TC":
		return models.DisasterTypeCyclone
	case "FL":
		return models.DisasterTypeFlood
	case "VO":
		return models.DisasterTypeVolcano
	case "TS":
		return models.DisasterTypeTsunami
	case "WF":
		return models.DisasterTypeWildfire
	case "DR":
		return models.DisasterTypeDrought
	default:
		return models.DisasterTypeUnknown
	}
}
