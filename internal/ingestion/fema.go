package ingestion

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/mr1hm/go-water-safety/internal/geo"
	"github.com/mr1hm/go-water-safety/internal/models"
)

const (
	SourceFEMA  = "fema"
	SourceGDACS = "gdacs"
	SourceUSGS  = "usgs"
)

// unknownStateCentroid is used when a declaration's state has no centroid.
var unknownStateCentroid = geo.Point{Lat: 39.5, Lng: -98.0}

// stateCentroids approximates declaration locations; OpenFEMA rows carry no coordinates.
var stateCentroids = map[string]geo.Point{
	"AL": {Lat: 32.8, Lng: -86.9}, "AK": {Lat: 64.0, Lng: -152.0}, "AZ": {Lat: 34.2, Lng: -111.7},
	"AR": {Lat: 34.9, Lng: -92.4}, "CA": {Lat: 37.2, Lng: -119.4}, "CO": {Lat: 39.1, Lng: -105.3},
	"CT": {Lat: 41.6, Lng: -72.7}, "DE": {Lat: 38.9, Lng: -75.5}, "FL": {Lat: 28.6, Lng: -82.5},
	"GA": {Lat: 32.6, Lng: -83.6}, "HI": {Lat: 20.3, Lng: -156.4}, "ID": {Lat: 44.4, Lng: -114.6},
	"IL": {Lat: 40.0, Lng: -89.2}, "IN": {Lat: 40.3, Lng: -86.1}, "IA": {Lat: 42.0, Lng: -93.6},
	"KS": {Lat: 38.5, Lng: -98.4}, "KY": {Lat: 37.5, Lng: -85.3}, "LA": {Lat: 31.2, Lng: -92.0},
	"ME": {Lat: 45.4, Lng: -69.2}, "MD": {Lat: 39.0, Lng: -76.6}, "MA": {Lat: 42.4, Lng: -71.4},
	"MI": {Lat: 43.3, Lng: -84.5}, "MN": {Lat: 46.3, Lng: -94.7}, "MS": {Lat: 32.7, Lng: -89.7},
	"MO": {Lat: 37.9, Lng: -91.8}, "MT": {Lat: 47.0, Lng: -110.4}, "NE": {Lat: 41.1, Lng: -98.0},
	"NV": {Lat: 39.3, Lng: -116.6}, "NH": {Lat: 43.2, Lng: -71.6}, "NJ": {Lat: 40.2, Lng: -74.6},
	"NM": {Lat: 34.4, Lng: -106.1}, "NY": {Lat: 43.0, Lng: -75.5}, "NC": {Lat: 35.6, Lng: -79.4},
	"ND": {Lat: 47.5, Lng: -100.5}, "OH": {Lat: 40.4, Lng: -82.8}, "OK": {Lat: 35.6, Lng: -97.5},
	"OR": {Lat: 44.0, Lng: -120.5}, "PA": {Lat: 41.0, Lng: -77.2}, "RI": {Lat: 41.7, Lng: -71.5},
	"SC": {Lat: 33.9, Lng: -80.9}, "SD": {Lat: 44.4, Lng: -100.2}, "TN": {Lat: 35.9, Lng: -86.6},
	"TX": {Lat: 31.2, Lng: -99.5}, "UT": {Lat: 39.3, Lng: -111.7}, "VT": {Lat: 44.1, Lng: -72.6},
	"VA": {Lat: 37.5, Lng: -78.5}, "WA": {Lat: 47.4, Lng: -120.5}, "WV": {Lat: 38.6, Lng: -80.6},
	"WI": {Lat: 44.3, Lng: -89.6}, "WY": {Lat: 43.0, Lng: -107.5}, "DC": {Lat: 38.9, Lng: -77.0},
}

// StateCentroid returns the approximate centre of a US state code.
func StateCentroid(state string) geo.Point {
	if p, ok := stateCentroids[strings.ToUpper(strings.TrimSpace(state))]; ok {
		return p
	}
	return unknownStateCentroid
}

type femaResponse struct {
	Declarations []femaDeclaration `json:"DisasterDeclarationsSummaries"`
}

type femaDeclaration struct {
	ID               string      `json:"id"`
	DisasterNumber   json.Number `json:"disasterNumber"`
	State            string      `json:"state"`
	DeclarationTitle string      `json:"declarationTitle"`
	IncidentType     string      `json:"incidentType"`
	DeclarationDate  string      `json:"declarationDate"`
}

func femaURL(base string, limit int) string {
	return fmt.Sprintf("%s?$top=%d&$orderby=%s", base, limit, url.QueryEscape("declarationDate desc"))
}

func parseFEMA(body []byte, now time.Time) ([]*models.Disaster, error) {
	var data femaResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("error decoding FEMA response: %w", err)
	}

	disasters := make([]*models.Disaster, 0, len(data.Declarations))
	for _, row := range data.Declarations {
		if row.ID == "" {
			continue
		}

		declared, err := time.Parse(time.RFC3339, row.DeclarationDate)
		if err != nil {
			slog.Warn("FEMA declaration date parsing failed", "id", row.ID, "error", err.Error())
		}
		number := row.DisasterNumber.String()
		if number == "" {
			number = row.ID
		}
		title := strings.TrimSpace(row.DeclarationTitle)
		if title == "" {
			title = "Disaster declaration"
		}
		loc := StateCentroid(row.State)

		disasters = append(disasters, &models.Disaster{
			ID:             "fema_" + row.ID,
			Source:         SourceFEMA,
			DisasterNumber: number,
			Title:          title,
			State:          row.State,
			Type:           mapFEMAIncidentType(row.IncidentType),
			Location:       &loc,
			Approximate:    true,
			DeclaredAt:     declared,
			CreatedAt:      now,
		})
	}
	return disasters, nil
}

func mapFEMAIncidentType(incident string) models.DisasterType {
	switch strings.ToLower(strings.TrimSpace(incident)) {
	case "hurricane":
		return models.DisasterTypeHurricane
	case "typhoon", "tropical storm", "tropical depression":
		return models.DisasterTypeCyclone
	case "flood", "dam/levee break":
		return models.DisasterTypeFlood
	case "fire":
		return models.DisasterTypeWildfire
	case "earthquake":
		return models.DisasterTypeEarthquake
	case "tsunami":
		return models.DisasterTypeTsunami
	case "volcanic eruption":
		return models.DisasterTypeVolcano
	case "drought":
		return models.DisasterTypeDrought
	case "severe storm", "severe storm(s)", "severe ice storm", "winter storm", "snowstorm",
		"tornado", "coastal storm", "mud/landslide":
		return models.DisasterTypeStorm
	default:
		return models.DisasterTypeUnknown
	}
}
