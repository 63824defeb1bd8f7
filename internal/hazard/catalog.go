// Package hazard resolves the static reference context around a point:
// the probable source reservoir, nearby hazardous facilities and the
// nuclear-plant outlook used when a disaster strikes.
package hazard

import (
	"slices"

	"github.com/mr1hm/go-water-safety/internal/geo"
	"github.com/mr1hm/go-water-safety/internal/models"
)

const (
	// SourceReservoirMaxKm bounds the search for a point's source reservoir.
	SourceReservoirMaxKm = 250.0
	// FacilityRadiusKm is the default facility scan radius.
	FacilityRadiusKm = 120.0
)

// Catalog is an immutable reference dataset. It is safe for concurrent use.
type Catalog struct {
	reservoirs []models.Reservoir
	facilities []models.Facility
	plants     []models.Facility
}

// NewCatalog copies the given datasets so later mutation by the caller has no effect.
func NewCatalog(reservoirs []models.Reservoir, facilities, plants []models.Facility) *Catalog {
	return &Catalog{
		reservoirs: slices.Clone(reservoirs),
		facilities: slices.Clone(facilities),
		plants:     slices.Clone(plants),
	}
}

// DefaultCatalog returns the built-in US dataset.
func DefaultCatalog() *Catalog {
	return NewCatalog(defaultReservoirs, defaultFacilities, defaultPlants)
}

// SourceReservoir returns the nearest reservoir within SourceReservoirMaxKm.
// The bool is false when none is in range.
func (c *Catalog) SourceReservoir(p geo.Point) (geo.Match[models.Reservoir], bool) {
	return geo.Nearest(p, SourceReservoirMaxKm, c.reservoirs, locateReservoir)
}

// FacilitiesNear returns facilities within radiusKm of p, nearest first.
func (c *Catalog) FacilitiesNear(p geo.Point, radiusKm float64) []geo.Match[models.Facility] {
	return geo.Nearby(p, radiusKm, c.facilities, locateFacility)
}

// DisastersNear returns disasters within radiusKm of p, nearest first.
// Disasters without a location are never included.
func DisastersNear(p geo.Point, radiusKm float64, disasters []models.Disaster) []geo.Match[models.Disaster] {
	return geo.Nearby(p, radiusKm, disasters, models.Disaster.Coordinates)
}

// AnyDisasterNear reports whether at least one disaster lies within radiusKm of p.
func AnyDisasterNear(p geo.Point, radiusKm float64, disasters []models.Disaster) bool {
	for _, d := range disasters {
		pos, ok := d.Coordinates()
		if ok && geo.DistanceKm(p, pos) <= radiusKm {
			return true
		}
	}
	return false
}

func locateReservoir(r models.Reservoir) (geo.Point, bool) { return r.Location, true }

func locateFacility(f models.Facility) (geo.Point, bool) { return f.Location, true }
