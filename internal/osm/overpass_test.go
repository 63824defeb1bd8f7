package osm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mr1hm/go-water-safety/internal/geo"
	"github.com/mr1hm/go-water-safety/internal/models"
)

var nyc = geo.Point{Lat: 40.7128, Lng: -74.006}

const overpassJSON = `{
  "elements": [
    {"type": "node", "id": 1, "lat": 40.72, "lon": -74.0, "tags": {"amenity": "drinking_water", "name": " Pier Fountain "}},
    {"type": "node", "id": 2, "lat": 40.7130, "lon": -74.0062, "tags": {"man_made": "water_well", "drinking_water": "no"}},
    {"type": "node", "id": 1, "lat": 40.72, "lon": -74.0, "tags": {"amenity": "drinking_water"}},
    {"type": "way", "id": 3, "center": {"lat": 41.0, "lon": -73.9}, "tags": {"landuse": "reservoir"}},
    {"type": "node", "id": 4, "tags": {"amenity": "drinking_water"}},
    {"type": "node", "id": 5, "lat": 40.71, "lon": -74.01, "tags": {"amenity": "bench"}},
    {"type": "node", "id": 6, "lat": 40.75, "lon": -73.98, "tags": {"amenity": "fountain", "fountain": "drinking", "drinking_water": "yes"}}
  ]
}`

func TestClient_WaterSources(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm: %v", err)
		}
		q := r.PostForm.Get("data")
		if !strings.Contains(q, "[out:json]") || !strings.Contains(q, "around:15000,40.712800,-74.006000") {
			t.Errorf("unexpected query %q", q)
		}
		w.Write([]byte(overpassJSON))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	c.fetcher.Retries = 0

	got, err := c.WaterSources(context.Background(), nyc, 10)
	if err != nil {
		t.Fatalf("WaterSources failed: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 sources, got %d: %+v", len(got), got)
	}

	first := got[0]
	if first.ID != "node-2" || first.Type != models.WaterWell || first.PotableHint != models.PotableNo {
		t.Errorf("unexpected nearest source %+v", first)
	}
	if first.Name != "Water Well" {
		t.Errorf("expected default name, got %q", first.Name)
	}
	if got[1].Name != "Pier Fountain" {
		t.Errorf("expected trimmed name, got %q", got[1].Name)
	}
	for i := 1; i < len(got); i++ {
		if got[i].DistanceKm < got[i-1].DistanceKm {
			t.Fatalf("sources not sorted by distance: %+v", got)
		}
	}
	last := got[len(got)-1]
	if last.ID != "way-3" || last.Type != models.WaterReservoir {
		t.Errorf("expected reservoir from way center last, got %+v", last)
	}
}

func TestClient_WaterSources_Limit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(overpassJSON))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	c.fetcher.Retries = 0

	got, err := c.WaterSources(context.Background(), nyc, 2)
	if err != nil {
		t.Fatalf("WaterSources failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 sources, got %d", len(got))
	}
}

func TestClient_WaterSources_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>busy</html>"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	c.fetcher.Retries = 0

	if _, err := c.WaterSources(context.Background(), nyc, 5); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestPotableHint(t *testing.T) {
	tests := []struct {
		tag  string
		want models.PotableHint
	}{
		{"yes", models.PotableYes},
		{"Treated", models.PotableYes},
		{"no", models.PotableNo},
		{"", models.PotableUnknown},
		{"conditional", models.PotableUnknown},
	}
	for _, tt := range tests {
		if got := potableHint(map[string]string{"drinking_water": tt.tag}); got != tt.want {
			t.Errorf("potableHint(%q) = %s, want %s", tt.tag, got, tt.want)
		}
	}
}

func TestFallback(t *testing.T) {
	got := Fallback(geo.Point{Lat: 40.7589, Lng: -73.9851}, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 points, got %d", len(got))
	}
	if got[0].Name != "Midtown Fill Station" || got[0].DistanceKm != 0 {
		t.Errorf("expected Midtown first at 0 km, got %+v", got[0])
	}
	if got[1].Name != "Central Park East" {
		t.Errorf("expected Central Park East second, got %s", got[1].Name)
	}
}
