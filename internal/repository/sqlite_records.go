package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mr1hm/go-water-safety/internal/models"
)

func (s *SQLiteDB) AddReport(ctx context.Context, r *models.Report) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reports (id, description, latitude, longitude, urgency, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, r.ID, r.Description, r.Location.Lat, r.Location.Lng, string(r.Urgency), r.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("error inserting report: %w", err)
	}
	return nil
}

func (s *SQLiteDB) ListReports(ctx context.Context, limit int) ([]models.Report, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, description, latitude, longitude, urgency, created_at
		FROM reports ORDER BY created_at DESC, id LIMIT ?
	`, sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("error listing reports: %w", err)
	}
	defer rows.Close()

	out := []models.Report{}
	for rows.Next() {
		var (
			r       models.Report
			urgency string
		)
		if err := rows.Scan(&r.ID, &r.Description, &r.Location.Lat, &r.Location.Lng, &urgency, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.Urgency = models.Urgency(urgency)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteDB) AddSafeWater(ctx context.Context, p *models.SafeWaterPoint) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO safe_water (id, name, latitude, longitude, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.Location.Lat, p.Location.Lng, p.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("error inserting safe water point: %w", err)
	}
	return nil
}

func (s *SQLiteDB) ListSafeWater(ctx context.Context, limit int) ([]models.SafeWaterPoint, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, latitude, longitude, created_at
		FROM safe_water ORDER BY created_at DESC, id LIMIT ?
	`, sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("error listing safe water points: %w", err)
	}
	defer rows.Close()

	out := []models.SafeWaterPoint{}
	for rows.Next() {
		var (
			p    models.SafeWaterPoint
			name sql.NullString
		)
		if err := rows.Scan(&p.ID, &name, &p.Location.Lat, &p.Location.Lng, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.Name = name.String
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLiteDB) GetCache(ctx context.Context, key models.CacheKey) (*models.CacheEntry, error) {
	var (
		e      = models.CacheEntry{Key: key}
		latest sql.NullInt64
		names  sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT station_count, result_count, latest_year, characteristic_names, partial, fetched_at
		FROM wqp_cache WHERE lat = ? AND lng = ? AND radius = ?
	`, key.Lat, key.Lng, key.Radius).Scan(&e.Summary.StationCount, &e.Summary.ResultCount, &latest, &names, &e.Summary.Partial, &e.FetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error reading cache: %w", err)
	}

	e.Summary.LatestYear = int(latest.Int64)
	if names.Valid && names.String != "" {
		if err := json.Unmarshal([]byte(names.String), &e.Summary.CharacteristicNames); err != nil {
			slog.Warn("ignoring unreadable cached characteristic names", "error", err)
		}
	}
	return &e, nil
}

func (s *SQLiteDB) PutCache(ctx context.Context, e models.CacheEntry) error {
	names, err := json.Marshal(e.Summary.CharacteristicNames)
	if err != nil {
		return fmt.Errorf("error encoding characteristic names: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO wqp_cache (lat, lng, radius, station_count, result_count, latest_year, characteristic_names, partial, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(lat, lng, radius) DO UPDATE SET
			station_count = excluded.station_count,
			result_count = excluded.result_count,
			latest_year = excluded.latest_year,
			characteristic_names = excluded.characteristic_names,
			partial = excluded.partial,
			fetched_at = excluded.fetched_at
	`, e.Key.Lat, e.Key.Lng, e.Key.Radius, e.Summary.StationCount, e.Summary.ResultCount, e.Summary.LatestYear, string(names), e.Summary.Partial, e.FetchedAt.UTC())
	if err != nil {
		return fmt.Errorf("error writing cache: %w", err)
	}
	return nil
}

func (s *SQLiteDB) LoadWeights(ctx context.Context) ([]float64, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT weights FROM model_weights WHERE id = 1`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error loading weights: %w", err)
	}

	var weights []float64
	if err := json.Unmarshal([]byte(raw), &weights); err != nil {
		slog.Warn("stored model weights are unreadable, ignoring", "error", err)
		return nil, nil
	}
	return weights, nil
}

func (s *SQLiteDB) SaveWeights(ctx context.Context, weights []float64, sampleCount int, trainedAt time.Time) error {
	raw, err := json.Marshal(weights)
	if err != nil {
		return fmt.Errorf("error encoding weights: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO model_weights (id, weights, sample_count, trained_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			weights = excluded.weights,
			sample_count = excluded.sample_count,
			trained_at = excluded.trained_at
	`, string(raw), sampleCount, trainedAt.UTC())
	if err != nil {
		return fmt.Errorf("error saving weights: %w", err)
	}
	return nil
}

func (s *SQLiteDB) AddSample(ctx context.Context, sample models.TrainingSample) error {
	raw, err := json.Marshal(sample.Features)
	if err != nil {
		return fmt.Errorf("error encoding features: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO training_samples (features, score, created_at) VALUES (?, ?, ?)
	`, string(raw), sample.Score, sample.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("error inserting training sample: %w", err)
	}
	return nil
}

func (s *SQLiteDB) ListSamples(ctx context.Context) ([]models.TrainingSample, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT features, score, created_at FROM training_samples ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error listing training samples: %w", err)
	}
	defer rows.Close()

	var out []models.TrainingSample
	for rows.Next() {
		var (
			sample models.TrainingSample
			raw    string
		)
		if err := rows.Scan(&raw, &sample.Score, &sample.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(raw), &sample.Features); err != nil {
			slog.Warn("skipping unreadable training sample", "error", err)
			continue
		}
		out = append(out, sample)
	}
	return out, rows.Err()
}

func (s *SQLiteDB) CountSamples(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM training_samples`).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting training samples: %w", err)
	}
	return n, nil
}

// sqlLimit maps a non-positive limit to SQLite's "no limit".
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}
