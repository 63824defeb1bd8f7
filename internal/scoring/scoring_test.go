package scoring

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/mr1hm/go-water-safety/internal/geo"
	"github.com/mr1hm/go-water-safety/internal/hazard"
	"github.com/mr1hm/go-water-safety/internal/models"
)

var (
	// plains point with no reservoir or facility in range
	origin = geo.Point{Lat: 40, Lng: -100}
	now    = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
)

// north returns a point km kilometres due north of p.
func north(p geo.Point, km float64) *geo.Point {
	return &geo.Point{Lat: p.Lat + km/(geo.EarthRadiusKm*math.Pi/180), Lng: p.Lng}
}

func disasterAt(id string, loc *geo.Point) models.Disaster {
	return models.Disaster{ID: id, Title: "Flood " + id, State: "KS", Type: models.DisasterTypeFlood, Location: loc}
}

func TestScoreFormula_DisasterAndNoCoverage(t *testing.T) {
	disasters := []models.Disaster{disasterAt("d1", north(origin, 10))}

	_, d := BuildFeatures(origin, disasters, nil, NeutralWaterSourceScore, now)
	if math.Abs(d.DisasterPenalty-20) > 1e-6 {
		t.Fatalf("expected penalty 20, got %f", d.DisasterPenalty)
	}
	if got := ScoreFormula(d); got != 72 {
		t.Errorf("expected score 72, got %d", got)
	}
}

func TestScoreFormula_CoverageWithoutRecentResults(t *testing.T) {
	quality := &models.WaterQualitySummary{StationCount: 5, ResultCount: 50, LatestYear: 2019}

	_, d := BuildFeatures(origin, nil, quality, 50, now)
	if d.HasRecentResults {
		t.Fatal("2019 results should not count as recent")
	}
	if got := ScoreFormula(d); got != 100 {
		t.Errorf("expected score 100, got %d", got)
	}
}

func TestScoreFormula_RecentBonusAndClamp(t *testing.T) {
	tests := []struct {
		name string
		d    Details
		want int
	}{
		{"bonus capped at 5", Details{WQPStationCount: 1, WQPResultCount: 900, HasRecentResults: true, WaterSourceScore: 50, DisasterPenalty: 20}, 85},
		{"small bonus", Details{WQPStationCount: 1, WQPResultCount: 250, HasRecentResults: true, WaterSourceScore: 50, DisasterPenalty: 20}, 82},
		{"water nudge up", Details{WQPStationCount: 1, WaterSourceScore: 100, DisasterPenalty: 30}, 80},
		{"water nudge down", Details{WaterSourceScore: 20}, 86},
		{"clamped high", Details{WQPStationCount: 1, WQPResultCount: 900, HasRecentResults: true, WaterSourceScore: 100}, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScoreFormula(tt.d); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestBuildFeatures_VectorOrder(t *testing.T) {
	quality := &models.WaterQualitySummary{StationCount: 3, ResultCount: 2500, LatestYear: 2026}

	v, d := BuildFeatures(origin, nil, quality, 85, now)
	if len(v) != len(FeatureNames) {
		t.Fatalf("expected %d features, got %d", len(FeatureNames), len(v))
	}
	want := []float64{1, 0, 0, 3, 1, 1, 0.85}
	for i := range want {
		if math.Abs(v[i]-want[i]) > 1e-9 {
			t.Errorf("feature %s: expected %v, got %v", FeatureNames[i], want[i], v[i])
		}
	}
	if !d.HasRecentResults {
		t.Error("expected recent results")
	}
}

func TestBuildFeatures_PenaltyCappedAndMonotonic(t *testing.T) {
	var disasters []models.Disaster
	for i := 0; i < 5; i++ {
		disasters = append(disasters, disasterAt(string(rune('a'+i)), north(origin, 0)))
	}
	_, d := BuildFeatures(origin, disasters, nil, 50, now)
	if d.DisasterPenalty != maxDisasterPenalty {
		t.Errorf("expected penalty capped at %v, got %v", maxDisasterPenalty, d.DisasterPenalty)
	}

	prev := math.Inf(1)
	for km := 0.0; km <= 60; km += 5 {
		_, d := BuildFeatures(origin, []models.Disaster{disasterAt("x", north(origin, km))}, nil, 50, now)
		if d.DisasterPenalty > prev {
			t.Errorf("penalty increased with distance at %v km", km)
		}
		prev = d.DisasterPenalty
	}
	if prev != 0 {
		t.Errorf("expected no penalty beyond %v km, got %v", DisasterRadiusKm, prev)
	}
}

func TestDeduplication_PenaltyOnceCountTwice(t *testing.T) {
	d := disasterAt("row1", north(origin, 10))
	d.DisasterNumber = "4699"
	dup := d
	dup.ID = "row2"

	_, single := BuildFeatures(origin, []models.Disaster{d}, nil, 50, now)
	_, double := BuildFeatures(origin, []models.Disaster{d, dup}, nil, 50, now)
	if single.DisasterPenalty != double.DisasterPenalty || double.DisasterCount != 1 {
		t.Errorf("duplicate event changed penalty: %+v vs %+v", single, double)
	}

	groups := GroupForDisplay(hazard.DisastersNear(origin, DisasterRadiusKm, []models.Disaster{d, dup}))
	if len(groups) != 1 || groups[0].Count != 2 {
		t.Errorf("expected one group with count 2, got %+v", groups)
	}
}

func TestEventKey(t *testing.T) {
	if got := EventKey(models.Disaster{ID: "x", DisasterNumber: "12", State: "TX"}); got != "12-TX" {
		t.Errorf("expected 12-TX, got %s", got)
	}
	if got := EventKey(models.Disaster{ID: "x", DisasterNumber: "12"}); got != "x" {
		t.Errorf("expected fallback to id, got %s", got)
	}
}

func TestGroupForDisplay_FirstSeenOrder(t *testing.T) {
	a := disasterAt("a", north(origin, 1))
	b := disasterAt("b", north(origin, 2))
	a2 := a
	a2.ID = "a2"
	a2.Location = north(origin, 3)

	groups := GroupForDisplay(hazard.DisastersNear(origin, 50, []models.Disaster{b, a2, a}))
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].ID != "a" || groups[0].Count != 2 || groups[1].ID != "b" {
		t.Errorf("unexpected grouping: %+v", groups)
	}
}

func TestWaterSourceScore(t *testing.T) {
	if got := WaterSourceScore(nil, 10); got != NeutralWaterSourceScore {
		t.Errorf("expected neutral score, got %v", got)
	}

	sources := []models.WaterSource{
		{Type: models.WaterRiver, PotableHint: models.PotableYes},
		{Type: models.WaterDrinking},
		{Type: models.WaterWell},
		{Type: models.WaterFountain},
		{Type: models.WaterReservoir},
		{Type: models.WaterRiver},
	}
	// (100+85+60+50+30+20)/6 = 57.5
	if got := WaterSourceScore(sources, 10); got != 58 {
		t.Errorf("expected 58, got %v", got)
	}
	if got := WaterSourceScore(sources, 2); got != 93 {
		t.Errorf("expected limit to apply, got %v", got)
	}
}

func TestScoreModel(t *testing.T) {
	weights := []float64{100, -5, -1, 0, 0, 0, 0}
	features := []float64{1, 1, 10, 0, 0, 0, 0.5}

	got, err := ScoreModel(weights, features)
	if err != nil {
		t.Fatalf("ScoreModel failed: %v", err)
	}
	if got != 85 {
		t.Errorf("expected 85, got %d", got)
	}

	if _, err := ScoreModel(weights[:5], features); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestValidWeights(t *testing.T) {
	if ValidWeights([]float64{1, 2, 3, 4, 5}) {
		t.Error("short weights must be invalid")
	}
	if ValidWeights([]float64{1, 2, 3, 4, 5, 6, math.NaN()}) {
		t.Error("NaN weights must be invalid")
	}
	if !ValidWeights(make([]float64, len(FeatureNames))) {
		t.Error("zero weights of the right length are valid")
	}
}

func TestEngine_NoDisastersFullCoverage(t *testing.T) {
	e := NewEngine(hazard.DefaultCatalog())
	in := Input{
		Point:   origin,
		Quality: &models.WaterQualitySummary{StationCount: 4, ResultCount: 120, LatestYear: 2018},
		Sources: []models.WaterSource{{ID: "1", Type: models.WaterFountain, Location: *north(origin, 1)}},
		Now:     now,
	}

	r, err := e.Score(StrategyFormula, in)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if r.Score != 100 {
		t.Errorf("expected 100, got %d", r.Score)
	}
	if !strings.Contains(r.Explanation, "No known disasters within 50 km") {
		t.Errorf("explanation should state no known disasters: %s", r.Explanation)
	}
	if !strings.Contains(r.Explanation, "1 fountain") {
		t.Errorf("explanation should summarise the water source mix: %s", r.Explanation)
	}
}

func TestEngine_ShortWeightsFallBackToFormula(t *testing.T) {
	e := NewEngine(hazard.DefaultCatalog())
	in := Input{Point: origin, Weights: []float64{1, 2, 3, 4, 5}, Now: now}

	for _, s := range []Strategy{StrategyAuto, StrategyModel} {
		r, err := e.Score(s, in)
		if err != nil {
			t.Fatalf("Score failed: %v", err)
		}
		if r.Strategy != StrategyFormula {
			t.Errorf("%s: expected formula fallback, got %s", s, r.Strategy)
		}
		if r.Score != 92 {
			t.Errorf("%s: expected formula score 92, got %d", s, r.Score)
		}
		noted := strings.Contains(r.Explanation, "No trained model available")
		if noted != (s == StrategyModel) {
			t.Errorf("%s: fallback note present=%v in %q", s, noted, r.Explanation)
		}
	}
}

func TestEngine_AutoUsesValidModel(t *testing.T) {
	e := NewEngine(hazard.DefaultCatalog())
	weights := []float64{42, 0, 0, 0, 0, 0, 0}

	r, err := e.Score(StrategyAuto, Input{Point: origin, Weights: weights, Now: now})
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if r.Strategy != StrategyModel || r.Score != 42 {
		t.Errorf("expected model score 42, got %s %d", r.Strategy, r.Score)
	}
	if !strings.Contains(r.Explanation, "trained model") {
		t.Errorf("explanation should mention the model: %s", r.Explanation)
	}
}

func TestEngine_HazardContext(t *testing.T) {
	e := NewEngine(hazard.DefaultCatalog())
	nyc := geo.Point{Lat: 40.7128, Lng: -74.006}
	croton := geo.Point{Lat: 41.25, Lng: -73.65}
	disasters := []models.Disaster{{ID: "d1", Title: "Severe Storm", State: "NY", Location: &croton}}

	r, err := e.Score(StrategyHazardContext, Input{Point: nyc, Disasters: disasters, Now: now})
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if r.Reservoir == nil || r.Reservoir.Item.ID != "croton" {
		t.Fatalf("expected croton source reservoir, got %+v", r.Reservoir)
	}
	if !r.ReservoirInDisasterZone {
		t.Error("expected source reservoir in disaster zone")
	}
	if len(r.FacilitiesAtRisk) != 1 || r.FacilitiesAtRisk[0].Item.ID != "indian-point" {
		t.Fatalf("expected indian-point at risk, got %+v", r.FacilitiesAtRisk)
	}
	if r.Score != 75 {
		t.Errorf("expected 75, got %d", r.Score)
	}
	for _, want := range []string{
		"Your water source (Croton Watershed (NYC)) is in a disaster zone.",
		"Disaster near hazardous facility: Indian Point (decommissioned) (nuclear).",
	} {
		if !strings.Contains(r.Explanation, want) {
			t.Errorf("explanation missing %q: %s", want, r.Explanation)
		}
	}
}

func TestScoreHazardContext_FacilityPenaltyCapped(t *testing.T) {
	hc := HazardContext{FacilitiesAtRisk: make([]geo.Match[models.Facility], 4)}
	if got := ScoreHazardContext(1, hc); got != 55 {
		t.Errorf("expected 55, got %d", got)
	}
	if got := ScoreHazardContext(5, HazardContext{}); got != 0 {
		t.Errorf("expected clamp to 0, got %d", got)
	}
}

func TestEngine_WaterSourceMix(t *testing.T) {
	e := NewEngine(hazard.DefaultCatalog())
	disasters := []models.Disaster{disasterAt("far", north(origin, 200))}

	r, err := e.Score(StrategyWaterSourceMix, Input{Point: origin, Disasters: disasters, Now: now})
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	// 25*(1-200/500) = 15 disaster penalty, 6 for no water points
	if r.Score != 79 {
		t.Errorf("expected 79, got %d", r.Score)
	}
	if r.WaterMix == nil || r.WaterMix.WaterPointPenalty != noWaterPointPenalty {
		t.Errorf("expected flat water point penalty, got %+v", r.WaterMix)
	}
	if len(r.Nearby) != 1 {
		t.Errorf("expected the 200 km disaster to be listed, got %d", len(r.Nearby))
	}
	if !strings.Contains(r.Explanation, "Limited nearby water-source data") {
		t.Errorf("explanation should flag missing water points: %s", r.Explanation)
	}
}

func TestScoreWaterSourceMix_PenaltiesCapped(t *testing.T) {
	var disasters []models.Disaster
	for i := 0; i < 6; i++ {
		disasters = append(disasters, disasterAt(string(rune('a'+i)), north(origin, 0)))
	}
	var sources []models.WaterSource
	for i := 0; i < 8; i++ {
		sources = append(sources, models.WaterSource{ID: string(rune('a' + i)), Type: models.WaterRiver, Location: origin})
	}

	score, mix := ScoreWaterSourceMix(origin, disasters, sources)
	if mix.DisasterPenalty != maxWidePenalty {
		t.Errorf("expected disaster penalty %v, got %v", maxWidePenalty, mix.DisasterPenalty)
	}
	if mix.WaterPointPenalty != maxWaterPointPenalty {
		t.Errorf("expected water point penalty %v, got %v", maxWaterPointPenalty, mix.WaterPointPenalty)
	}
	if len(mix.Points) != waterPointsConsidered {
		t.Errorf("expected %d points considered, got %d", waterPointsConsidered, len(mix.Points))
	}
	if score != 5 {
		t.Errorf("expected 5, got %d", score)
	}
}

func TestScoreWaterSourceMix_PotablePointsFree(t *testing.T) {
	sources := []models.WaterSource{{ID: "p", Type: models.WaterDrinking, PotableHint: models.PotableYes, Location: origin}}

	score, mix := ScoreWaterSourceMix(origin, nil, sources)
	if score != 100 || mix.WaterPointPenalty != 0 {
		t.Errorf("expected 100 with no penalty, got %d %+v", score, mix)
	}
}

func TestEngine_InvalidPoint(t *testing.T) {
	e := NewEngine(hazard.DefaultCatalog())

	_, err := e.Score(StrategyFormula, Input{Point: geo.Point{Lat: 91, Lng: 0}})
	if !errors.Is(err, geo.ErrInvalidCoordinate) {
		t.Errorf("expected ErrInvalidCoordinate, got %v", err)
	}
}

func TestEngine_TotalUpstreamFailure(t *testing.T) {
	e := NewEngine(hazard.DefaultCatalog())

	for _, s := range Strategies {
		r, err := e.Score(s, Input{Point: origin, Now: now})
		if err != nil {
			t.Fatalf("%s: Score failed: %v", s, err)
		}
		if r.Explanation == "" {
			t.Errorf("%s: empty explanation", s)
		}
		if !strings.Contains(r.Explanation, "Consider checking local utility reports.") {
			t.Errorf("%s: expected uncertainty language: %s", s, r.Explanation)
		}
	}
}

func TestParseStrategy(t *testing.T) {
	if s, err := ParseStrategy(""); err != nil || s != StrategyAuto {
		t.Errorf("expected auto for empty name, got %s %v", s, err)
	}
	if s, err := ParseStrategy("water_source_mix"); err != nil || s != StrategyWaterSourceMix {
		t.Errorf("expected water_source_mix, got %s %v", s, err)
	}
	if _, err := ParseStrategy("median"); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("expected ErrUnknownStrategy, got %v", err)
	}
}

func TestExplain_DeclarationCounts(t *testing.T) {
	text := Explain(ExplainInput{
		Strategy: StrategyFormula,
		RadiusKm: 50,
		Disasters: []DisasterSummary{
			{ID: "1", Title: "Hurricane Ida", State: "NY", Count: 3},
			{ID: "2"},
		},
		Quality: &models.WaterQualitySummary{Partial: true},
	})

	want := "Disaster nearby: Hurricane Ida (NY) (3 declarations). Active disaster declaration within 50 km."
	if !strings.HasPrefix(text, want) {
		t.Errorf("unexpected explanation: %s", text)
	}
	if !strings.Contains(text, "(Partial WQP data)") {
		t.Errorf("expected partial flag: %s", text)
	}
}
