package osm

import (
	"sort"

	"github.com/mr1hm/go-water-safety/internal/geo"
	"github.com/mr1hm/go-water-safety/internal/models"
)

// demoPoints are served when a live lookup finds nothing.
var demoPoints = []models.WaterSource{
	{ID: "demo-1", Name: "Midtown Fill Station", Location: geo.Point{Lat: 40.7589, Lng: -73.9851}},
	{ID: "demo-2", Name: "Queens Water Hub", Location: geo.Point{Lat: 40.7282, Lng: -73.7942}},
	{ID: "demo-3", Name: "Brooklyn Safe Water", Location: geo.Point{Lat: 40.6782, Lng: -73.9442}},
	{ID: "demo-4", Name: "Bronx Community Source", Location: geo.Point{Lat: 40.8266, Lng: -73.9217}},
	{ID: "demo-5", Name: "Staten Island Fill Point", Location: geo.Point{Lat: 40.5795, Lng: -74.1502}},
	{ID: "demo-6", Name: "Empire State Area", Location: geo.Point{Lat: 40.7484, Lng: -73.9857}},
	{ID: "demo-7", Name: "Central Park East", Location: geo.Point{Lat: 40.7614, Lng: -73.9776}},
	{ID: "demo-8", Name: "Brooklyn Bridge Area", Location: geo.Point{Lat: 40.6892, Lng: -74.0445}},
}

// Fallback returns the demo points nearest p, up to limit.
func Fallback(p geo.Point, limit int) []models.WaterSource {
	out := make([]models.WaterSource, len(demoPoints))
	for i, d := range demoPoints {
		d.Type = models.WaterDrinking
		d.PotableHint = models.PotableUnknown
		d.DistanceKm = geo.RoundKm(geo.DistanceKm(p, d.Location))
		out[i] = d
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
