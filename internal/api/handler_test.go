package api

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/go-water-safety/internal/geo"
	"github.com/mr1hm/go-water-safety/internal/models"
	"github.com/mr1hm/go-water-safety/internal/repository"
	"github.com/mr1hm/go-water-safety/internal/service"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *repository.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repository.NewMemoryStore()
	svc := service.New(service.Config{MinTrainingSamples: 10}, service.Deps{Store: store})

	router := gin.New()
	router.Use(MetricsMiddleware())
	handler := NewHandler(svc, nil)
	handler.RegisterRoutes(router)
	return router, store
}

func do(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req, _ = http.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func seedDisasters(t *testing.T, store repository.Store, ds ...models.Disaster) {
	t.Helper()
	for i := range ds {
		if err := store.Add(context.Background(), &ds[i]); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}
}

func at(lat, lng float64) *geo.Point {
	return &geo.Point{Lat: lat, Lng: lng}
}

func TestHealth(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := do(router, "GET", "/health", "")
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t)
	do(router, "GET", "/health", "")

	w := do(router, "GET", "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "aquasafe_http_requests_total") {
		t.Error("expected request counter in metrics output")
	}
}

func TestGetDisasters_ReturnsGeoJSON(t *testing.T) {
	router, store := setupTestRouter(t)
	seedDisasters(t, store,
		models.Disaster{ID: "fema_1", Source: "fema", Type: models.DisasterTypeFlood, Title: "Flooding", State: "KS", Location: at(38.5, -98.4), Approximate: true, DeclaredAt: time.Now()},
		models.Disaster{ID: "gdacs_dr_1", Source: "gdacs", Type: models.DisasterTypeDrought, DeclaredAt: time.Now().Add(-time.Hour)},
	)

	w := do(router, "GET", "/api/disasters", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/geo+json" {
		t.Errorf("expected content-type application/geo+json, got %s", ct)
	}

	var fc FeatureCollection
	if err := json.Unmarshal(w.Body.Bytes(), &fc); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if fc.Type != "FeatureCollection" || len(fc.Features) != 2 {
		t.Fatalf("expected 2 features, got %+v", fc)
	}

	first := fc.Features[0]
	if first.Geometry == nil || first.Geometry.Coordinates[0] != -98.4 || first.Geometry.Coordinates[1] != 38.5 {
		t.Errorf("expected [lng, lat] point geometry, got %+v", first.Geometry)
	}
	if fc.Features[1].Geometry != nil {
		t.Errorf("expected null geometry for unlocated disaster, got %+v", fc.Features[1].Geometry)
	}
}

func TestGetDisasters_Filters(t *testing.T) {
	router, store := setupTestRouter(t)
	now := time.Now()
	seedDisasters(t, store,
		models.Disaster{ID: "eq1", Source: "usgs", Type: models.DisasterTypeEarthquake, Location: at(35, 139), DeclaredAt: now},
		models.Disaster{ID: "fl1", Source: "fema", Type: models.DisasterTypeFlood, Location: at(38.5, -98.4), DeclaredAt: now},
		models.Disaster{ID: "eq2", Source: "usgs", Type: models.DisasterTypeEarthquake, Location: at(36, -120), DeclaredAt: now},
	)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"type", "?type=earthquake", 2},
		{"source", "?source=FEMA", 1},
		{"limit", "?limit=1", 1},
		{"radius", "?lat=38.5&lng=-98.5&radius_km=100", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(router, "GET", "/api/disasters"+tt.query, "")
			var fc FeatureCollection
			json.Unmarshal(w.Body.Bytes(), &fc)
			if len(fc.Features) != tt.want {
				t.Errorf("expected %d features, got %d", tt.want, len(fc.Features))
			}
		})
	}
}

func TestGetDisaster_ByID(t *testing.T) {
	router, store := setupTestRouter(t)
	seedDisasters(t, store, models.Disaster{ID: "fema_9", Source: "fema", Title: "Storm", DeclaredAt: time.Now()})

	if w := do(router, "GET", "/api/disasters/fema_9", ""); w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if w := do(router, "GET", "/api/disasters/missing", ""); w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestGetRisk(t *testing.T) {
	router, store := setupTestRouter(t)
	seedDisasters(t, store, models.Disaster{
		ID: "fema_1", Source: "fema", DisasterNumber: "4800", State: "KS", Title: "Flooding",
		Type: models.DisasterTypeFlood, Location: at(38.5+10/111.19492664455873, -98.5), DeclaredAt: time.Now(),
	})

	w := do(router, "GET", "/api/risk?lat=38.5&lng=-98.5&strategy=formula", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Score           int    `json:"score"`
		Strategy        string `json:"strategy"`
		Explanation     string `json:"explanation"`
		NearbyDisasters []any  `json:"nearbyDisasters"`
		Sources         struct {
			EPA bool `json:"epa"`
			OSM int  `json:"osm"`
		} `json:"sources"`
		HazardOutlook map[string]any `json:"hazardOutlook"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Score != 72 || resp.Strategy != "formula" {
		t.Errorf("expected formula score 72, got %d (%s)", resp.Score, resp.Strategy)
	}
	if len(resp.NearbyDisasters) != 1 || resp.Explanation == "" {
		t.Errorf("unexpected response %s", w.Body.String())
	}
	if resp.Sources.EPA || resp.HazardOutlook == nil {
		t.Errorf("unexpected sources or outlook: %s", w.Body.String())
	}
}

func TestGetRisk_BadRequests(t *testing.T) {
	router, _ := setupTestRouter(t)

	for _, path := range []string{
		"/api/risk",
		"/api/risk?lat=abc&lng=1",
		"/api/risk?lat=95&lng=0",
		"/api/risk?lat=40&lng=-74&strategy=bogus",
	} {
		if w := do(router, "GET", path, ""); w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected status 400, got %d", path, w.Code)
		}
	}
}

func TestTrainModel_InsufficientSamples(t *testing.T) {
	router, _ := setupTestRouter(t)
	do(router, "GET", "/api/risk?lat=40&lng=-74", "")

	w := do(router, "POST", "/api/model/train", "")
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", w.Code)
	}
	var body map[string]any
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["sampleCount"] != float64(1) || body["required"] != float64(10) {
		t.Errorf("unexpected body %v", body)
	}
}

func TestTrainModel_Success(t *testing.T) {
	router, store := setupTestRouter(t)
	rng := rand.New(rand.NewPCG(5, 6))
	for range 12 {
		x := make([]float64, 7)
		for j := range x {
			x[j] = rng.Float64() * 10
		}
		store.AddSample(context.Background(), models.TrainingSample{Features: x, Score: 2*x[0] + x[1] + 3*x[2] + 0.1*x[3] + x[5] - x[6]})
	}

	w := do(router, "POST", "/api/model/train", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var body service.TrainResult
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.SampleCount != 12 || len(body.Weights) != 7 {
		t.Errorf("unexpected body %+v", body)
	}
}

func TestTrainModel_SingularReportsSampleCount(t *testing.T) {
	router, store := setupTestRouter(t)
	for range 12 {
		store.AddSample(context.Background(), models.TrainingSample{Features: []float64{1, 0, 0, 3, 0.05, 0, 0.5}, Score: 92})
	}

	w := do(router, "POST", "/api/model/train", "")
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d: %s", w.Code, w.Body.String())
	}
	var body map[string]any
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["sampleCount"] != float64(12) {
		t.Errorf("expected sampleCount 12, got %v", body)
	}
}

func TestReports(t *testing.T) {
	router, _ := setupTestRouter(t)

	for _, bad := range []string{`{}`, `{"description":"leak","lat":40}`, `{"description":"  ","lat":40,"lng":-74}`, `not json`} {
		if w := do(router, "POST", "/api/reports", bad); w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected status 400, got %d", bad, w.Code)
		}
	}

	w := do(router, "POST", "/api/reports", `{"description":"cloudy tap water","lat":40.7,"lng":-74}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", w.Code)
	}
	var created models.Report
	json.Unmarshal(w.Body.Bytes(), &created)
	if created.Urgency != models.UrgencyMedium || created.ID == "" {
		t.Errorf("unexpected report %+v", created)
	}

	w = do(router, "GET", "/api/reports?limit=5", "")
	var list struct {
		Reports []models.Report `json:"reports"`
	}
	json.Unmarshal(w.Body.Bytes(), &list)
	if len(list.Reports) != 1 {
		t.Errorf("expected 1 report, got %d", len(list.Reports))
	}
}

func TestSafeWater(t *testing.T) {
	router, _ := setupTestRouter(t)

	if w := do(router, "POST", "/api/safe-water", `{"lat":"40"}`); w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for string lat, got %d", w.Code)
	}
	if w := do(router, "POST", "/api/safe-water", `{"lat":100,"lng":0}`); w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for out of range lat, got %d", w.Code)
	}

	for _, body := range []string{
		`{"lat":40.7128,"lng":-74.006,"name":"Fill station"}`,
		`{"lat":41.5,"lng":-74.0}`,
	} {
		if w := do(router, "POST", "/api/safe-water", body); w.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d", w.Code)
		}
	}

	var list struct {
		Reports []models.SafeWaterPoint `json:"reports"`
	}
	w := do(router, "GET", "/api/safe-water?lat=40.71&lng=-74.0&radius_km=10", "")
	json.Unmarshal(w.Body.Bytes(), &list)
	if len(list.Reports) != 1 || list.Reports[0].Name != "Fill station" {
		t.Errorf("expected only the nearby point, got %+v", list.Reports)
	}
}

func TestNearbyWater_Fallback(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := do(router, "GET", "/api/water/nearby?lat=40.7589&lng=-73.9851&limit=3", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var body struct {
		Points []models.WaterSource `json:"points"`
		Source string               `json:"source"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Source != "fallback" || len(body.Points) != 3 {
		t.Errorf("expected 3 fallback points, got %d from %s", len(body.Points), body.Source)
	}

	if w := do(router, "GET", "/api/water/nearby", ""); w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 without coordinates, got %d", w.Code)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimitMiddleware(1))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	send := func(ip string) int {
		req, _ := http.NewRequest("GET", "/ping", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	if code := send("10.0.0.1"); code != http.StatusOK {
		t.Errorf("first request: expected 200, got %d", code)
	}
	if code := send("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Errorf("second request: expected 429, got %d", code)
	}
	if code := send("10.0.0.2"); code != http.StatusOK {
		t.Errorf("other client: expected 200, got %d", code)
	}
}

func TestToGeoJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	json.NewEncoder(&buf).Encode(toGeoJSON(nil))
	if !strings.Contains(buf.String(), `"features":[]`) {
		t.Errorf("expected empty features array, got %s", buf.String())
	}
}
