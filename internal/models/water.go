package models

import (
	"time"

	"github.com/mr1hm/go-water-safety/internal/geo"
)

type WaterSourceType string

const (
	WaterDrinking  WaterSourceType = "drinking_water"
	WaterFountain  WaterSourceType = "fountain"
	WaterWell      WaterSourceType = "well"
	WaterSpring    WaterSourceType = "spring"
	WaterReservoir WaterSourceType = "reservoir"
	WaterRiver     WaterSourceType = "river"
)

type PotableHint string

const (
	PotableYes     PotableHint = "yes"
	PotableNo      PotableHint = "no"
	PotableUnknown PotableHint = "unknown"
)

// WaterSource is a mapped water point returned by a live lookup.
type WaterSource struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Location    geo.Point       `json:"location"`
	Type        WaterSourceType `json:"type"`
	PotableHint PotableHint     `json:"potableHint"`
	DistanceKm  float64         `json:"distanceKm"`
}

// WaterQualitySummary aggregates Water Quality Portal coverage around a point.
type WaterQualitySummary struct {
	StationCount        int      `json:"stationCount"`
	ResultCount         int      `json:"resultCount"`
	LatestYear          int      `json:"latestYear,omitempty"`
	CharacteristicNames []string `json:"characteristicNames,omitempty"`
	Partial             bool     `json:"partial"`
}

type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// ParseUrgency maps free text to an Urgency. Unknown values report false.
func ParseUrgency(s string) (Urgency, bool) {
	switch u := Urgency(s); u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return u, true
	default:
		return "", false
	}
}

// Report is a crowd-sourced water issue submission.
type Report struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Location    geo.Point `json:"location"`
	Urgency     Urgency   `json:"urgency"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SafeWaterPoint is a user-submitted place where safe water is available.
type SafeWaterPoint struct {
	ID         string    `json:"id"`
	Name       string    `json:"name,omitempty"`
	Location   geo.Point `json:"location"`
	CreatedAt  time.Time `json:"createdAt"`
	DistanceKm float64   `json:"distanceKm,omitempty"`
}
