package models

import (
	"time"

	"github.com/mr1hm/go-water-safety/internal/geo"
)

type DisasterType string

const (
	DisasterTypeEarthquake DisasterType = "earthquake"
	DisasterTypeFlood      DisasterType = "flood"
	DisasterTypeCyclone    DisasterType = "cyclone"
	DisasterTypeHurricane  DisasterType = "hurricane"
	DisasterTypeTsunami    DisasterType = "tsunami"
	DisasterTypeVolcano    DisasterType = "volcano"
	DisasterTypeWildfire   DisasterType = "wildfire"
	DisasterTypeDrought    DisasterType = "drought"
	DisasterTypeStorm      DisasterType = "storm"
	DisasterTypeUnknown    DisasterType = "unknown"
)

// Disaster is one declaration row or feed item. Several rows can describe the
// same real-world event (same DisasterNumber and State).
type Disaster struct {
	ID             string // Unique ID from source (e.g., "fema_4699-CA-06037")
	Source         string // "fema", "gdacs", "usgs"
	DisasterNumber string // FEMA disaster number, empty for other feeds
	Title          string
	State          string
	Type           DisasterType
	Location       *geo.Point // nil when the feed has no usable position
	Approximate    bool       // Location is a regional centroid
	Magnitude      float64
	DeclaredAt     time.Time // when the event was declared or occurred
	CreatedAt      time.Time // when we ingested it
}

// Coordinates reports the disaster position for proximity scans.
func (d Disaster) Coordinates() (geo.Point, bool) {
	if d.Location == nil {
		return geo.Point{}, false
	}
	return *d.Location, true
}

// Reservoir is a major water-supply body treated as a probable tap-water origin.
type Reservoir struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Location geo.Point `json:"location"`
	State    string    `json:"state"`
	Serves   []string  `json:"serves,omitempty"`
}

type FacilityType string

const (
	FacilityPowerPlant FacilityType = "power_plant"
	FacilityNuclear    FacilityType = "nuclear"
	FacilityRefinery   FacilityType = "refinery"
	FacilityChemical   FacilityType = "chemical"
)

// Label is the human-readable facility category.
func (t FacilityType) Label() string {
	switch t {
	case FacilityPowerPlant:
		return "Power plant"
	case FacilityNuclear:
		return "Nuclear facility"
	case FacilityRefinery:
		return "Refinery"
	case FacilityChemical:
		return "Chemical facility"
	default:
		return string(t)
	}
}

// Facility is a hazardous site whose proximity to a disaster can worsen water safety.
type Facility struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Location geo.Point    `json:"location"`
	State    string       `json:"state"`
	Type     FacilityType `json:"type"`
}
