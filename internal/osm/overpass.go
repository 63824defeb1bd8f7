// Package osm looks up mapped water points through the OpenStreetMap Overpass API.
package osm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/mr1hm/go-water-safety/internal/geo"
	"github.com/mr1hm/go-water-safety/internal/httputil"
	"github.com/mr1hm/go-water-safety/internal/models"
)

const (
	DefaultURL     = "https://overpass-api.de/api/interpreter"
	SearchRadiusKm = 15
	DefaultLimit   = 10
)

type Client struct {
	fetcher *httputil.Fetcher
	url     string
}

func NewClient(overpassURL string, timeout time.Duration) *Client {
	if overpassURL == "" {
		overpassURL = DefaultURL
	}
	return &Client{
		fetcher: httputil.NewFetcher("overpass", timeout),
		url:     overpassURL,
	}
}

type element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat"`
	Lon    *float64          `json:"lon"`
	Center *center           `json:"center"`
	Tags   map[string]string `json:"tags"`
}

type center struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type response struct {
	Elements []element `json:"elements"`
}

// WaterSources returns up to limit classified water points within
// SearchRadiusKm of p, nearest first.
func (c *Client) WaterSources(ctx context.Context, p geo.Point, limit int) ([]models.WaterSource, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	body, err := c.fetcher.PostForm(ctx, c.url, url.Values{"data": {buildQuery(p, SearchRadiusKm*1000)}})
	if err != nil {
		return nil, err
	}

	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode overpass response: %w", err)
	}

	sources := convert(p, resp.Elements)
	if len(sources) > limit {
		sources = sources[:limit]
	}
	return sources, nil
}

func buildQuery(p geo.Point, radiusM int) string {
	around := fmt.Sprintf("(around:%d,%f,%f)", radiusM, p.Lat, p.Lng)
	filters := []string{
		`node` + around + `["amenity"="drinking_water"];`,
		`node` + around + `["amenity"="fountain"]["fountain"="drinking"];`,
		`node` + around + `["man_made"="drinking_fountain"];`,
		`node` + around + `["man_made"="water_well"];`,
		`node` + around + `["natural"="spring"];`,
		`way` + around + `["landuse"="reservoir"];`,
		`node` + around + `["waterway"="river"];`,
	}
	return "[out:json][timeout:25];\n(\n  " + strings.Join(filters, "\n  ") + "\n);\nout center tags;"
}

// convert classifies elements, drops unlocatable or unrecognised ones and
// duplicates by element id, and sorts the rest by distance from p.
func convert(p geo.Point, elements []element) []models.WaterSource {
	seen := make(map[string]bool, len(elements))
	out := make([]models.WaterSource, 0, len(elements))

	for _, el := range elements {
		loc, ok := el.location()
		if !ok {
			continue
		}
		typ, ok := classify(el.Tags)
		if !ok {
			continue
		}
		id := fmt.Sprintf("%s-%d", el.Type, el.ID)
		if seen[id] {
			continue
		}
		seen[id] = true

		out = append(out, models.WaterSource{
			ID:          id,
			Name:        displayName(el.Tags, typ),
			Location:    loc,
			Type:        typ,
			PotableHint: potableHint(el.Tags),
			DistanceKm:  geo.RoundKm(geo.DistanceKm(p, loc)),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	return out
}

func (el element) location() (geo.Point, bool) {
	var p geo.Point
	switch {
	case el.Lat != nil && el.Lon != nil:
		p = geo.Point{Lat: *el.Lat, Lng: *el.Lon}
	case el.Center != nil:
		p = geo.Point{Lat: el.Center.Lat, Lng: el.Center.Lon}
	default:
		return geo.Point{}, false
	}
	return p, p.Validate() == nil
}
