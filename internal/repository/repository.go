package repository

import (
	"context"
	"errors"
	"time"

	"github.com/mr1hm/go-water-safety/internal/geo"
	"github.com/mr1hm/go-water-safety/internal/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate id")
)

type Filter struct {
	Limit  int
	Since  *time.Time // DeclaredAt >= Since
	Source string
	Type   *models.DisasterType
	Within *geo.Box // only located disasters inside the box
}

type DisasterRepository interface {
	Add(ctx context.Context, d *models.Disaster) error
	GetByID(ctx context.Context, id string) (*models.Disaster, error)
	Exists(ctx context.Context, id string) (bool, error)
	ListDisasters(ctx context.Context, opts Filter) ([]models.Disaster, error)
}

type ReportRepository interface {
	AddReport(ctx context.Context, r *models.Report) error
	ListReports(ctx context.Context, limit int) ([]models.Report, error)
}

type SafeWaterRepository interface {
	AddSafeWater(ctx context.Context, p *models.SafeWaterPoint) error
	ListSafeWater(ctx context.Context, limit int) ([]models.SafeWaterPoint, error)
}

// CacheRepository stores cache entries by key. GetCache returns ErrNotFound
// when no entry exists; expiry is the caller's concern.
type CacheRepository interface {
	GetCache(ctx context.Context, key models.CacheKey) (*models.CacheEntry, error)
	PutCache(ctx context.Context, e models.CacheEntry) error
}

// ModelRepository holds the fitted weights and the append-only training samples.
// LoadWeights returns nil weights when none are stored or the stored value is unreadable.
type ModelRepository interface {
	LoadWeights(ctx context.Context) ([]float64, error)
	SaveWeights(ctx context.Context, weights []float64, sampleCount int, trainedAt time.Time) error
	AddSample(ctx context.Context, s models.TrainingSample) error
	ListSamples(ctx context.Context) ([]models.TrainingSample, error)
	CountSamples(ctx context.Context) (int, error)
}

// Store is implemented by every storage backend.
type Store interface {
	DisasterRepository
	ReportRepository
	SafeWaterRepository
	CacheRepository
	ModelRepository
	Close() error
}
