// Package service answers risk requests by gathering disasters, water quality
// coverage and nearby water sources concurrently, then scoring them.
package service

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/mr1hm/go-water-safety/internal/cache"
	"github.com/mr1hm/go-water-safety/internal/geo"
	"github.com/mr1hm/go-water-safety/internal/hazard"
	"github.com/mr1hm/go-water-safety/internal/metrics"
	"github.com/mr1hm/go-water-safety/internal/models"
	"github.com/mr1hm/go-water-safety/internal/repository"
	"github.com/mr1hm/go-water-safety/internal/scoring"
)

// WaterSourceFinder looks up mapped water points near a location, nearest first.
type WaterSourceFinder interface {
	WaterSources(ctx context.Context, p geo.Point, limit int) ([]models.WaterSource, error)
}

// Assistant phrases explanations and triages reports. It is optional.
type Assistant interface {
	Rewrite(ctx context.Context, score int, explanation string, p geo.Point) (string, error)
	ClassifyUrgency(ctx context.Context, description string) (models.Urgency, error)
}

type Config struct {
	WQPRadiusMiles     float64
	WaterSourceLimit   int
	MinTrainingSamples int
	UpstreamTimeout    time.Duration
}

func (c Config) withDefaults() Config {
	if c.WQPRadiusMiles <= 0 {
		c.WQPRadiusMiles = 15
	}
	if c.WaterSourceLimit <= 0 {
		c.WaterSourceLimit = scoring.WaterSourceLimit
	}
	if c.MinTrainingSamples < scoring.MinSamples {
		c.MinTrainingSamples = scoring.MinSamples
	}
	if c.UpstreamTimeout <= 0 {
		c.UpstreamTimeout = 15 * time.Second
	}
	return c
}

// Deps are the collaborators a Service reads from. Quality, Sources and
// Assistant may be nil.
type Deps struct {
	Store     repository.Store
	Catalog   *hazard.Catalog
	Quality   cache.QualityPortal
	Sources   WaterSourceFinder
	Assistant Assistant
	Clock     clockwork.Clock
}

type Service struct {
	cfg       Config
	store     repository.Store
	catalog   *hazard.Catalog
	engine    *scoring.Engine
	quality   cache.QualityPortal
	sources   WaterSourceFinder
	assistant Assistant
	clock     clockwork.Clock
}

func New(cfg Config, deps Deps) *Service {
	catalog := deps.Catalog
	if catalog == nil {
		catalog = hazard.DefaultCatalog()
	}
	clock := deps.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{
		cfg:       cfg.withDefaults(),
		store:     deps.Store,
		catalog:   catalog,
		engine:    scoring.NewEngine(catalog),
		quality:   deps.Quality,
		sources:   deps.Sources,
		assistant: deps.Assistant,
		clock:     clock,
	}
}

// DataSources reports which upstream signals contributed to an assessment.
type DataSources struct {
	EPA bool `json:"epa"`
	OSM int  `json:"osm"`
}

// Assessment is a scored point with everything used to explain it.
type Assessment struct {
	Location geo.Point `json:"location"`
	scoring.Result
	Sources       DataSources    `json:"sources"`
	HazardOutlook hazard.Outlook `json:"hazardOutlook"`
	AIExplanation string         `json:"aiExplanation,omitempty"`
}

// signals is the fan-out result; every field degrades to its zero value on failure.
type signals struct {
	disasters []models.Disaster
	quality   *models.WaterQualitySummary
	sources   []models.WaterSource
	weights   []float64
}

// Score gathers signals for p and applies strategy. Upstream failures degrade
// to empty inputs; only an invalid point is returned as an error.
func (s *Service) Score(ctx context.Context, p geo.Point, strategy scoring.Strategy) (*Assessment, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	sig := s.gather(ctx, p)
	now := s.clock.Now()

	res, err := s.engine.Score(strategy, scoring.Input{
		Point:     p,
		Disasters: sig.disasters,
		Quality:   sig.quality,
		Sources:   sig.sources,
		Weights:   sig.weights,
		Now:       now,
	})
	if err != nil {
		return nil, err
	}

	metrics.ScoresTotal.WithLabelValues(string(res.Strategy)).Inc()
	metrics.ScoreValue.WithLabelValues(string(res.Strategy)).Observe(float64(res.Score))

	if err := s.store.AddSample(ctx, models.TrainingSample{
		Features:  res.Features,
		Score:     float64(res.Score),
		CreatedAt: now,
	}); err != nil {
		slog.Warn("failed to record training sample", "error", err)
	}

	a := &Assessment{
		Location: p,
		Result:   res,
		Sources: DataSources{
			EPA: sig.quality != nil,
			OSM: len(sig.sources),
		},
		HazardOutlook: s.catalog.Outlook(p, len(res.Nearby) > 0),
	}

	if s.assistant != nil {
		actx, cancel := context.WithTimeout(ctx, s.cfg.UpstreamTimeout)
		text, err := s.assistant.Rewrite(actx, res.Score, res.Explanation, p)
		cancel()
		if err != nil {
			slog.Warn("explanation rewrite failed", "error", err)
		} else {
			a.AIExplanation = text
		}
	}

	slog.Debug("scored location",
		"lat", p.Lat,
		"lng", p.Lng,
		"strategy", res.Strategy,
		"score", res.Score,
	)
	return a, nil
}

func (s *Service) gather(ctx context.Context, p geo.Point) signals {
	var sig signals
	var g errgroup.Group

	g.Go(func() error {
		box := geo.BoxAround(p, scoring.WideRadiusKm)
		d, err := s.store.ListDisasters(ctx, repository.Filter{Within: &box})
		if err != nil {
			slog.Warn("disaster lookup failed", "source", "disasters", "error", err)
			return nil
		}
		sig.disasters = d
		return nil
	})

	if s.quality != nil {
		g.Go(func() error {
			qctx, cancel := context.WithTimeout(ctx, s.cfg.UpstreamTimeout)
			defer cancel()
			q, err := s.quality.Summary(qctx, p, s.cfg.WQPRadiusMiles)
			if err != nil {
				slog.Warn("water quality lookup failed", "source", "wqp", "error", err)
				return nil
			}
			sig.quality = q
			return nil
		})
	}

	if s.sources != nil {
		g.Go(func() error {
			sctx, cancel := context.WithTimeout(ctx, s.cfg.UpstreamTimeout)
			defer cancel()
			src, err := s.sources.WaterSources(sctx, p, s.cfg.WaterSourceLimit)
			if err != nil {
				slog.Warn("water source lookup failed", "source", "overpass", "error", err)
				return nil
			}
			sig.sources = src
			return nil
		})
	}

	g.Go(func() error {
		w, err := s.store.LoadWeights(ctx)
		if err != nil {
			slog.Warn("failed to load model weights", "error", err)
			return nil
		}
		sig.weights = w
		return nil
	})

	g.Wait()
	return sig
}

// TrainResult describes a stored model.
type TrainResult struct {
	Weights      []float64 `json:"weights"`
	FeatureNames []string  `json:"featureNames"`
	SampleCount  int       `json:"sampleCount"`
	TrainedAt    time.Time `json:"trainedAt"`
}

// Train fits weights on every recorded sample and stores them. Too few
// samples return *scoring.InsufficientSamplesError and leave stored weights untouched.
func (s *Service) Train(ctx context.Context) (*TrainResult, error) {
	count, err := s.store.CountSamples(ctx)
	if err != nil {
		metrics.TrainingRunsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.TrainingSamples.Set(float64(count))

	if count < s.cfg.MinTrainingSamples {
		metrics.TrainingRunsTotal.WithLabelValues("insufficient").Inc()
		return nil, &scoring.InsufficientSamplesError{Count: count, Required: s.cfg.MinTrainingSamples}
	}

	samples, err := s.store.ListSamples(ctx)
	if err != nil {
		metrics.TrainingRunsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	weights, err := scoring.FitLinearModel(samples, len(scoring.FeatureNames))
	if err != nil {
		metrics.TrainingRunsTotal.WithLabelValues("failed").Inc()
		return nil, err
	}

	trainedAt := s.clock.Now()
	if err := s.store.SaveWeights(ctx, weights, len(samples), trainedAt); err != nil {
		metrics.TrainingRunsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.TrainingRunsTotal.WithLabelValues("ok").Inc()

	slog.Info("model trained", "samples", len(samples), "weights", formatWeights(weights))
	return &TrainResult{
		Weights:      weights,
		FeatureNames: scoring.FeatureNames,
		SampleCount:  len(samples),
		TrainedAt:    trainedAt,
	}, nil
}

func formatWeights(w []float64) []string {
	out := make([]string, len(w))
	for i, v := range w {
		out[i] = strconv.FormatFloat(v, 'f', 4, 64)
	}
	return out
}
