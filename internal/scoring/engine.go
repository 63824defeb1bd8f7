// Package scoring turns already-fetched signals into a bounded water-safety
// score with an explanation. Nothing here performs I/O.
package scoring

import (
	"errors"
	"fmt"
	"time"

	"github.com/mr1hm/go-water-safety/internal/geo"
	"github.com/mr1hm/go-water-safety/internal/hazard"
	"github.com/mr1hm/go-water-safety/internal/models"
)

type Strategy string

const (
	// StrategyAuto uses the model when valid weights are stored, otherwise the formula.
	StrategyAuto           Strategy = "auto"
	StrategyFormula        Strategy = "formula"
	StrategyModel          Strategy = "model"
	StrategyHazardContext  Strategy = "hazard_context"
	StrategyWaterSourceMix Strategy = "water_source_mix"
)

var ErrUnknownStrategy = errors.New("unknown scoring strategy")

// Strategies lists every selectable strategy.
var Strategies = []Strategy{StrategyAuto, StrategyFormula, StrategyModel, StrategyHazardContext, StrategyWaterSourceMix}

// ParseStrategy maps a name to a Strategy. The empty string selects StrategyAuto.
func ParseStrategy(s string) (Strategy, error) {
	if s == "" {
		return StrategyAuto, nil
	}
	for _, st := range Strategies {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// Input is the already-fetched signal set for one point. Empty collaborator
// results are valid and degrade the score gracefully.
type Input struct {
	Point     geo.Point
	Disasters []models.Disaster
	Quality   *models.WaterQualitySummary
	Sources   []models.WaterSource // nearest first
	Weights   []float64            // nil when no model is stored
	Now       time.Time
}

type Result struct {
	Score       int               `json:"score"`
	Strategy    Strategy          `json:"strategy"`
	Explanation string            `json:"explanation"`
	Features    []float64         `json:"features"`
	Details     Details           `json:"details"`
	Nearby      []DisasterSummary `json:"nearbyDisasters"`
	HazardContext
	WaterMix *WaterMix `json:"waterMix,omitempty"`
}

// Engine scores points against an injected reference catalog.
type Engine struct {
	catalog *hazard.Catalog
}

func NewEngine(catalog *hazard.Catalog) *Engine {
	return &Engine{catalog: catalog}
}

// Score applies strategy to in. The only error is an invalid point. A model
// request without usable weights is served by the formula and reported as such.
func (e *Engine) Score(strategy Strategy, in Input) (Result, error) {
	if err := in.Point.Validate(); err != nil {
		return Result{}, err
	}
	if in.Now.IsZero() {
		in.Now = time.Now()
	}

	wss := WaterSourceScore(in.Sources, WaterSourceLimit)
	features, details := BuildFeatures(in.Point, in.Disasters, in.Quality, wss, in.Now)

	applied := resolve(strategy, in.Weights)
	radius := DisasterRadiusKm
	if applied == StrategyWaterSourceMix {
		radius = WideRadiusKm
	}

	nearby := hazard.DisastersNear(in.Point, radius, in.Disasters)
	r := Result{
		Strategy:      applied,
		Features:      features,
		Details:       details,
		Nearby:        GroupForDisplay(nearby),
		HazardContext: ResolveHazardContext(e.catalog, in.Point, in.Disasters),
	}

	considered := in.Sources
	switch applied {
	case StrategyModel:
		// resolve only selects the model for valid weights
		r.Score, _ = ScoreModel(in.Weights, features)
	case StrategyHazardContext:
		r.Score = ScoreHazardContext(len(DistinctEvents(nearby)), r.HazardContext)
	case StrategyWaterSourceMix:
		score, mix := ScoreWaterSourceMix(in.Point, in.Disasters, in.Sources)
		r.Score, r.WaterMix = score, &mix
		considered = make([]models.WaterSource, 0, len(mix.Points))
		for _, m := range mix.Points {
			considered = append(considered, m.Item)
		}
	default:
		r.Score = ScoreFormula(details)
	}
	if applied != StrategyWaterSourceMix && len(considered) > WaterSourceLimit {
		considered = considered[:WaterSourceLimit]
	}

	r.Explanation = Explain(ExplainInput{
		Strategy:  applied,
		Requested: strategy,
		RadiusKm:  radius,
		Disasters: r.Nearby,
		Details:   details,
		Quality:   in.Quality,
		Sources:   considered,
		Hazard:    r.HazardContext,
	})
	return r, nil
}

func resolve(s Strategy, weights []float64) Strategy {
	switch s {
	case StrategyAuto, StrategyModel:
		if ValidWeights(weights) {
			return StrategyModel
		}
		return StrategyFormula
	case StrategyHazardContext, StrategyWaterSourceMix:
		return s
	default:
		return StrategyFormula
	}
}
