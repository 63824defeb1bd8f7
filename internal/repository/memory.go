package repository

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/mr1hm/go-water-safety/internal/models"
)

// MemoryStore is the in-process backend used when SQLite is unavailable.
// Returned values are copies.
type MemoryStore struct {
	mu        sync.RWMutex
	disasters map[string]models.Disaster
	reports   []models.Report
	safeWater []models.SafeWaterPoint
	cache     map[models.CacheKey]models.CacheEntry
	weights   []float64
	samples   []models.TrainingSample
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		disasters: make(map[string]models.Disaster),
		cache:     make(map[models.CacheKey]models.CacheEntry),
	}
}

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) Add(_ context.Context, d *models.Disaster) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.disasters[d.ID]; ok {
		return fmt.Errorf("error inserting disaster %s: %w", d.ID, ErrDuplicate)
	}
	m.disasters[d.ID] = copyDisaster(*d)
	return nil
}

func (m *MemoryStore) GetByID(_ context.Context, id string) (*models.Disaster, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.disasters[id]
	if !ok {
		return nil, ErrNotFound
	}
	d = copyDisaster(d)
	return &d, nil
}

func (m *MemoryStore) Exists(_ context.Context, id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.disasters[id]
	return ok, nil
}

func (m *MemoryStore) ListDisasters(_ context.Context, opts Filter) ([]models.Disaster, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Disaster
	for _, d := range m.disasters {
		if opts.Since != nil && d.DeclaredAt.Before(*opts.Since) {
			continue
		}
		if opts.Source != "" && d.Source != opts.Source {
			continue
		}
		if opts.Type != nil && d.Type != *opts.Type {
			continue
		}
		if opts.Within != nil && (d.Location == nil || !opts.Within.Contains(*d.Location)) {
			continue
		}
		out = append(out, copyDisaster(d))
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].DeclaredAt.Equal(out[j].DeclaredAt) {
			return out[i].DeclaredAt.After(out[j].DeclaredAt)
		}
		return out[i].ID < out[j].ID
	})
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func copyDisaster(d models.Disaster) models.Disaster {
	if d.Location != nil {
		loc := *d.Location
		d.Location = &loc
	}
	return d
}

func (m *MemoryStore) AddReport(_ context.Context, r *models.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = append(m.reports, *r)
	return nil
}

func (m *MemoryStore) ListReports(_ context.Context, limit int) ([]models.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return newestFirst(m.reports, limit, func(r models.Report) (time.Time, string) { return r.CreatedAt, r.ID }), nil
}

func (m *MemoryStore) AddSafeWater(_ context.Context, p *models.SafeWaterPoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.safeWater = append(m.safeWater, *p)
	return nil
}

func (m *MemoryStore) ListSafeWater(_ context.Context, limit int) ([]models.SafeWaterPoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return newestFirst(m.safeWater, limit, func(p models.SafeWaterPoint) (time.Time, string) { return p.CreatedAt, p.ID }), nil
}

// newestFirst returns up to limit items ordered by creation time descending, then id.
func newestFirst[T any](items []T, limit int, key func(T) (time.Time, string)) []T {
	out := slices.Clone(items)
	if out == nil {
		out = []T{}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ti, idi := key(out[i])
		tj, idj := key(out[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return idi < idj
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (m *MemoryStore) GetCache(_ context.Context, key models.CacheKey) (*models.CacheEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.cache[key]
	if !ok {
		return nil, ErrNotFound
	}
	e.Summary.CharacteristicNames = slices.Clone(e.Summary.CharacteristicNames)
	return &e, nil
}

func (m *MemoryStore) PutCache(_ context.Context, e models.CacheEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.Summary.CharacteristicNames = slices.Clone(e.Summary.CharacteristicNames)
	m.cache[e.Key] = e
	return nil
}

func (m *MemoryStore) LoadWeights(_ context.Context) ([]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.weights), nil
}

func (m *MemoryStore) SaveWeights(_ context.Context, weights []float64, _ int, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.weights = slices.Clone(weights)
	return nil
}

func (m *MemoryStore) AddSample(_ context.Context, s models.TrainingSample) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.Features = slices.Clone(s.Features)
	m.samples = append(m.samples, s)
	return nil
}

func (m *MemoryStore) ListSamples(_ context.Context) ([]models.TrainingSample, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.TrainingSample, len(m.samples))
	for i, s := range m.samples {
		s.Features = slices.Clone(s.Features)
		out[i] = s
	}
	return out, nil
}

func (m *MemoryStore) CountSamples(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.samples), nil
}
