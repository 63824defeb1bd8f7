package repository

import (
	"fmt"
	"log/slog"
	"time"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "Initial schema",
		SQL: `
CREATE TABLE IF NOT EXISTS disasters (
    id TEXT PRIMARY KEY,
    source TEXT NOT NULL,
    disaster_number TEXT,
    title TEXT,
    state TEXT,
    type TEXT NOT NULL,
    latitude REAL,
    longitude REAL,
    approximate BOOLEAN DEFAULT FALSE,
    magnitude REAL,
    declared_at DATETIME NOT NULL,
    created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_disasters_declared_at ON disasters(declared_at);
CREATE INDEX IF NOT EXISTS idx_disasters_location ON disasters(latitude, longitude);

CREATE TABLE IF NOT EXISTS reports (
    id TEXT PRIMARY KEY,
    description TEXT NOT NULL,
    latitude REAL NOT NULL,
    longitude REAL NOT NULL,
    urgency TEXT NOT NULL,
    created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS safe_water (
    id TEXT PRIMARY KEY,
    name TEXT,
    latitude REAL NOT NULL,
    longitude REAL NOT NULL,
    created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at);
CREATE INDEX IF NOT EXISTS idx_safe_water_created_at ON safe_water(created_at);
`,
	},
	{
		Version:     2,
		Description: "Water quality cache",
		SQL: `
CREATE TABLE IF NOT EXISTS wqp_cache (
    lat REAL NOT NULL,
    lng REAL NOT NULL,
    radius REAL NOT NULL,
    station_count INTEGER NOT NULL,
    result_count INTEGER NOT NULL,
    latest_year INTEGER,
    characteristic_names TEXT,
    partial BOOLEAN DEFAULT FALSE,
    fetched_at DATETIME NOT NULL,
    PRIMARY KEY (lat, lng, radius)
);
`,
	},
	{
		Version:     3,
		Description: "Model weights and training samples",
		SQL: `
CREATE TABLE IF NOT EXISTS model_weights (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    weights TEXT NOT NULL,
    sample_count INTEGER NOT NULL,
    trained_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS training_samples (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    features TEXT NOT NULL,
    score REAL NOT NULL,
    created_at DATETIME NOT NULL
);
`,
	},
}

func (s *SQLiteDB) migrate() error {
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			description TEXT,
			applied_at DATETIME
		)
	`); err != nil {
		return fmt.Errorf("ensure migrations table: %w", err)
	}

	applied, err := s.appliedMigrations()
	if err != nil {
		return fmt.Errorf("get applied migrations: %w", err)
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		slog.Debug("applying migration", "version", m.Version, "description", m.Description)

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin tx for migration %d: %w", m.Version, err)
		}
		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("execute migration %d: %w", m.Version, err)
		}
		if _, err := tx.Exec(
			"INSERT INTO schema_migrations (version, description, applied_at) VALUES (?, ?, ?)",
			m.Version, m.Description, time.Now().UTC(),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}
	return nil
}

func (s *SQLiteDB) appliedMigrations() (map[int]bool, error) {
	rows, err := s.db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

// SchemaVersion returns the highest applied migration.
func (s *SQLiteDB) SchemaVersion() (int, error) {
	var v int
	err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&v)
	return v, err
}
