package geo

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// EarthRadiusKm is the mean Earth radius used by DistanceKm.
const EarthRadiusKm = 6371.0

var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Point is a WGS 84 position in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate rejects non-finite or out-of-range coordinates. Values are never clamped.
func (p Point) Validate() error {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("%w: latitude %v", ErrInvalidCoordinate, p.Lat)
	}
	if math.IsNaN(p.Lng) || math.IsInf(p.Lng, 0) || p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("%w: longitude %v", ErrInvalidCoordinate, p.Lng)
	}
	return nil
}

// DistanceKm returns the haversine great-circle distance between a and b.
func DistanceKm(a, b Point) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Lat))*math.Cos(toRadians(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	// rounding can push h just outside [0,1] near antipodes
	h = math.Min(1, math.Max(0, h))

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// RoundKm rounds a distance to two decimals for display.
func RoundKm(km float64) float64 {
	return math.Round(km*100) / 100
}

// Match pairs an item with its distance from a query origin.
type Match[T any] struct {
	Item       T       `json:"item"`
	DistanceKm float64 `json:"distanceKm"`
}

// Nearby returns the items within radiusKm of origin (inclusive), sorted by
// ascending distance. Items for which locate reports no position are skipped.
// Equal distances keep their input order.
func Nearby[T any](origin Point, radiusKm float64, items []T, locate func(T) (Point, bool)) []Match[T] {
	var out []Match[T]
	for _, item := range items {
		pos, ok := locate(item)
		if !ok {
			continue
		}
		km := DistanceKm(origin, pos)
		if km <= radiusKm {
			out = append(out, Match[T]{Item: item, DistanceKm: km})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistanceKm < out[j].DistanceKm
	})
	return out
}

// Nearest returns the closest item within maxKm of origin. The bool is false
// when nothing qualifies.
func Nearest[T any](origin Point, maxKm float64, items []T, locate func(T) (Point, bool)) (Match[T], bool) {
	var (
		best  Match[T]
		found bool
	)
	for _, item := range items {
		pos, ok := locate(item)
		if !ok {
			continue
		}
		km := DistanceKm(origin, pos)
		if km <= maxKm && (!found || km < best.DistanceKm) {
			best = Match[T]{Item: item, DistanceKm: km}
			found = true
		}
	}
	return best, found
}

// Box is a latitude/longitude bounding box used to prefilter stored rows.
type Box struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// BoxAround returns a box containing every point within km of p. Near the
// poles or the antimeridian the longitude range widens to the whole globe.
func BoxAround(p Point, km float64) Box {
	dLat := km / (EarthRadiusKm * math.Pi / 180)
	b := Box{
		MinLat: math.Max(-90, p.Lat-dLat),
		MaxLat: math.Min(90, p.Lat+dLat),
		MinLng: -180,
		MaxLng: 180,
	}
	if b.MinLat <= -89 || b.MaxLat >= 89 {
		return b
	}
	maxAbsLat := math.Max(math.Abs(b.MinLat), math.Abs(b.MaxLat))
	dLng := dLat / math.Cos(toRadians(maxAbsLat))
	if p.Lng-dLng < -180 || p.Lng+dLng > 180 {
		return b
	}
	b.MinLng, b.MaxLng = p.Lng-dLng, p.Lng+dLng
	return b
}

// Contains reports whether p lies inside b.
func (b Box) Contains(p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat && p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}
