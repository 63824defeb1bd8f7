package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mr1hm/go-water-safety/internal/geo"
	"github.com/mr1hm/go-water-safety/internal/models"
)

type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// one connection keeps ":memory:" databases shared and avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db: db,
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error while migrating database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

func (s *SQLiteDB) Add(ctx context.Context, d *models.Disaster) error {
	var lat, lng sql.NullFloat64
	if d.Location != nil {
		lat = sql.NullFloat64{Float64: d.Location.Lat, Valid: true}
		lng = sql.NullFloat64{Float64: d.Location.Lng, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO disasters (id, source, disaster_number, title, state, type, latitude, longitude, approximate, magnitude, declared_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, d.ID, d.Source, d.DisasterNumber, d.Title, d.State, string(d.Type), lat, lng, d.Approximate, d.Magnitude, d.DeclaredAt.UTC(), d.CreatedAt.UTC())
	if isPrimaryKeyConflict(err) {
		return fmt.Errorf("error inserting disaster %s: %w", d.ID, ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("error inserting disaster %s: %w", d.ID, err)
	}
	return nil
}

func isPrimaryKeyConflict(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

const disasterColumns = `id, source, disaster_number, title, state, type, latitude, longitude, approximate, magnitude, declared_at, created_at`

func (s *SQLiteDB) GetByID(ctx context.Context, id string) (*models.Disaster, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+disasterColumns+` FROM disasters WHERE id = ?`, id)
	d, err := scanDisaster(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting disaster %s: %w", id, err)
	}
	return &d, nil
}

func (s *SQLiteDB) Exists(ctx context.Context, id string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM disasters WHERE id = ?`, id).Scan(&n); err != nil {
		return false, fmt.Errorf("error checking disaster %s: %w", id, err)
	}
	return n > 0, nil
}

func (s *SQLiteDB) ListDisasters(ctx context.Context, opts Filter) ([]models.Disaster, error) {
	var (
		where []string
		args  []any
	)
	if opts.Since != nil {
		where = append(where, "declared_at >= ?")
		args = append(args, opts.Since.UTC())
	}
	if opts.Source != "" {
		where = append(where, "source = ?")
		args = append(args, opts.Source)
	}
	if opts.Type != nil {
		where = append(where, "type = ?")
		args = append(args, string(*opts.Type))
	}
	if b := opts.Within; b != nil {
		where = append(where, "latitude BETWEEN ? AND ?", "longitude BETWEEN ? AND ?")
		args = append(args, b.MinLat, b.MaxLat, b.MinLng, b.MaxLng)
	}

	query := `SELECT ` + disasterColumns + ` FROM disasters`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY declared_at DESC, id"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing disasters: %w", err)
	}
	defer rows.Close()

	var out []models.Disaster
	for rows.Next() {
		d, err := scanDisaster(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning disaster: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDisaster(sc scanner) (models.Disaster, error) {
	var (
		d                    models.Disaster
		number, title, state sql.NullString
		typ                  string
		lat, lng, magnitude  sql.NullFloat64
	)
	err := sc.Scan(&d.ID, &d.Source, &number, &title, &state, &typ, &lat, &lng, &d.Approximate, &magnitude, &d.DeclaredAt, &d.CreatedAt)
	if err != nil {
		return d, err
	}
	d.DisasterNumber = number.String
	d.Title = title.String
	d.State = state.String
	d.Type = models.DisasterType(typ)
	d.Magnitude = magnitude.Float64
	if lat.Valid && lng.Valid {
		d.Location = &geo.Point{Lat: lat.Float64, Lng: lng.Float64}
	}
	return d, nil
}
