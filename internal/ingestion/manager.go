// Package ingestion polls disaster feeds and stores new records.
package ingestion

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mr1hm/go-water-safety/internal/broadcast"
	"github.com/mr1hm/go-water-safety/internal/config"
	"github.com/mr1hm/go-water-safety/internal/httputil"
	"github.com/mr1hm/go-water-safety/internal/metrics"
	"github.com/mr1hm/go-water-safety/internal/models"
	"github.com/mr1hm/go-water-safety/internal/repository"
	"github.com/mr1hm/go-water-safety/internal/worker"
)

// parseFunc turns a feed body into disasters stamped with now.
type parseFunc func(body []byte, now time.Time) ([]*models.Disaster, error)

type feed struct {
	name     string
	url      string
	interval time.Duration
	fetcher  *httputil.Fetcher
	parse    parseFunc
}

type Manager struct {
	cfg    *config.Config
	repo   repository.DisasterRepository
	clock  clockwork.Clock
	events *broadcast.Broadcaster[*models.Disaster]
	feeds  []feed
	pool   *worker.Pool[*models.Disaster]
	wg     sync.WaitGroup
}

// NewManager builds pollers for the enabled feeds. events may be nil; when set,
// every newly stored disaster is published to it.
func NewManager(cfg *config.Config, repo repository.DisasterRepository, clock clockwork.Clock, events *broadcast.Broadcaster[*models.Disaster]) *Manager {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	m := &Manager{
		cfg:    cfg,
		repo:   repo,
		clock:  clock,
		events: events,
	}

	src := cfg.Sources
	timeout := cfg.Upstream.Timeout
	if src.FEMAEnabled {
		m.feeds = append(m.feeds, feed{
			name:     SourceFEMA,
			url:      femaURL(src.FEMAURL, src.FEMALimit),
			interval: src.FEMAPollInterval,
			fetcher:  httputil.NewFetcher(SourceFEMA, timeout),
			parse:    parseFEMA,
		})
	}
	if src.GDACSEnabled {
		m.feeds = append(m.feeds, feed{
			name:     SourceGDACS,
			url:      src.GDACSURL,
			interval: src.GDACSPollInterval,
			fetcher:  httputil.NewFetcher(SourceGDACS, timeout),
			parse:    parseGDACS,
		})
	}
	if src.USGSEnabled {
		m.feeds = append(m.feeds, feed{
			name:     SourceUSGS,
			url:      src.USGSURL,
			interval: src.USGSPollInterval,
			fetcher:  httputil.NewFetcher(SourceUSGS, timeout),
			parse:    parseUSGS,
		})
	}
	return m
}

// store inserts d unless a record with the same id already exists.
func (m *Manager) store(ctx context.Context, d *models.Disaster) error {
	exists, err := m.repo.Exists(ctx, d.ID)
	if err != nil {
		slog.Error("error checking existence", "id", d.ID, "error", err)
		return err
	}
	if exists {
		return nil
	}

	if err := m.repo.Add(ctx, d); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil
		}
		slog.Error("error adding disaster", "id", d.ID, "error", err)
		return err
	}

	metrics.DisastersIngested.WithLabelValues(d.Source).Inc()
	if m.events != nil {
		m.events.Publish(d)
	}
	slog.Debug("added disaster", "id", d.ID, "type", d.Type, "source", d.Source)
	return nil
}

func (m *Manager) Start(ctx context.Context) {
	m.pool = worker.NewPool("ingestion", m.cfg.Worker.Count, m.cfg.Worker.BufferSize, m.store)
	m.pool.Start(ctx)

	for _, f := range m.feeds {
		m.wg.Add(1)
		go m.runPoller(ctx, f)
	}
}

func (m *Manager) runPoller(ctx context.Context, f feed) {
	defer m.wg.Done()
	slog.Info("starting poller", "source", f.name, "interval", f.interval)

	ticker := m.clock.NewTicker(f.interval)
	defer ticker.Stop()

	m.poll(ctx, f)

	for {
		select {
		case <-ctx.Done():
			slog.Info("poller shutting down", "source", f.name)
			return
		case <-ticker.Chan():
			m.poll(ctx, f)
		}
	}
}

func (m *Manager) poll(ctx context.Context, f feed) {
	slog.Debug("polling", "source", f.name)

	body, err := f.fetcher.Get(ctx, f.url)
	if err != nil {
		slog.Error("poll failed", "source", f.name, "error", err)
		return
	}
	disasters, err := f.parse(body, m.clock.Now())
	if err != nil {
		slog.Error("feed parse failed", "source", f.name, "error", err)
		return
	}

	for _, d := range disasters {
		if !m.pool.Submit(ctx, d) {
			return
		}
	}

	slog.Debug("poll complete", "source", f.name, "count", len(disasters))
}

// Stop waits for the pollers to exit, then drains the worker pool.
// The context passed to Start must be cancelled first.
func (m *Manager) Stop() {
	m.wg.Wait()
	m.pool.Stop()
	processed, failed := m.pool.Stats()
	slog.Info("ingestion manager stopped", "processed", processed, "failed", failed)
}
