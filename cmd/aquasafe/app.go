package main

import (
	"log/slog"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/openai/openai-go/v3/option"

	"github.com/mr1hm/go-water-safety/internal/assistant"
	"github.com/mr1hm/go-water-safety/internal/cache"
	"github.com/mr1hm/go-water-safety/internal/config"
	"github.com/mr1hm/go-water-safety/internal/hazard"
	"github.com/mr1hm/go-water-safety/internal/osm"
	"github.com/mr1hm/go-water-safety/internal/repository"
	"github.com/mr1hm/go-water-safety/internal/service"
	"github.com/mr1hm/go-water-safety/internal/wqp"
)

// App holds the process-wide collaborators shared by every command.
type App struct {
	cfg     *config.Config
	clock   clockwork.Clock
	store   repository.Store
	service *service.Service

	closeOnce sync.Once
}

func newApp(cfg *config.Config) *App {
	clock := clockwork.NewRealClock()
	store := repository.Open(cfg.DB.Path)

	portal := cache.NewCachedPortal(
		wqp.NewClient(cfg.Upstream.WQPURL, cfg.Upstream.Timeout, clock),
		cache.New(store, clock, cfg.Upstream.CacheTTL),
	)

	deps := service.Deps{
		Store:   store,
		Catalog: hazard.DefaultCatalog(),
		Quality: portal,
		Sources: osm.NewClient(cfg.Upstream.OverpassURL, cfg.Upstream.Timeout),
		Clock:   clock,
	}
	if cfg.OpenAI.Enabled() {
		a, err := assistant.New(cfg.OpenAI.APIKey, cfg.OpenAI.Model, option.WithRequestTimeout(cfg.Upstream.Timeout))
		if err != nil {
			slog.Warn("assistant disabled", "error", err)
		} else {
			deps.Assistant = a
		}
	} else {
		slog.Info("no OPENAI_API_KEY set, AI explanations and urgency classification disabled")
	}

	return &App{
		cfg:   cfg,
		clock: clock,
		store: store,
		service: service.New(service.Config{
			WQPRadiusMiles:     cfg.Upstream.WQPRadiusMiles,
			WaterSourceLimit:   cfg.Upstream.WaterSourceLimit,
			MinTrainingSamples: cfg.Model.MinTrainingSamples,
			UpstreamTimeout:    cfg.Upstream.Timeout,
		}, deps),
	}
}

func (a *App) Close() {
	a.closeOnce.Do(func() {
		if err := a.store.Close(); err != nil {
			slog.Error("failed to close store", "error", err)
		}
	})
}
