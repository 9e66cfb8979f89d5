package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps every location as one row of a sqlite database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (creating if needed) the cache database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("path is required")
	}

	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := upgradeSchema(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) Stat(location string) (time.Time, error) {
	if s == nil || s.db == nil {
		return time.Time{}, errors.New("store is not initialized")
	}

	var modifiedAt string
	err := s.db.QueryRowContext(context.Background(),
		"SELECT modified_at FROM cache_entries WHERE location = ?", location,
	).Scan(&modifiedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, fmt.Errorf("%w: %s", ErrNotFound, location)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("stat %s: %w", location, err)
	}

	ts, err := parseTime(modifiedAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse modified_at: %w", err)
	}
	return ts, nil
}

func (s *SQLiteStore) Read(location string) ([]byte, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store is not initialized")
	}

	var payload []byte
	err := s.db.QueryRowContext(context.Background(),
		"SELECT payload FROM cache_entries WHERE location = ?", location,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, location)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", location, err)
	}
	return payload, nil
}

func (s *SQLiteStore) Write(location string, data []byte) error {
	if s == nil || s.db == nil {
		return errors.New("store is not initialized")
	}
	if strings.TrimSpace(location) == "" {
		return errors.New("location is required")
	}
	if data == nil {
		data = []byte{}
	}

	_, err := s.db.ExecContext(context.Background(), `
		INSERT INTO cache_entries (location, payload, modified_at)
		VALUES (?, ?, ?)
		ON CONFLICT(location) DO UPDATE SET
			payload = excluded.payload,
			modified_at = excluded.modified_at
	`, location, data, formatTime(s.now()))
	if err != nil {
		return fmt.Errorf("write %s: %w", location, err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return ts, nil
	}
	return time.Parse(time.RFC3339, value)
}
