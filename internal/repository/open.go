package repository

import (
	"log/slog"
	"os"
	"path/filepath"
)

// MemoryPath selects the in-memory backend explicitly.
const MemoryPath = ":memory-store:"

// Open picks a backend for path. An empty path or MemoryPath uses the
// in-memory store; otherwise SQLite is used, falling back to memory when the
// database cannot be opened.
func Open(path string) Store {
	if path == "" || path == MemoryPath {
		slog.Info("using in-memory store")
		return NewMemoryStore()
	}

	if dir := filepath.Dir(path); dir != "." && path != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			slog.Warn("could not create database directory, using in-memory store", "path", path, "error", err)
			return NewMemoryStore()
		}
	}

	db, err := NewSQLiteDB(path)
	if err != nil {
		slog.Warn("sqlite unavailable, using in-memory store", "path", path, "error", err)
		return NewMemoryStore()
	}
	slog.Info("using sqlite store", "path", path)
	return db
}
