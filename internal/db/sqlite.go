package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/dayring/internal/schedule"
)

// SQLite implements Store on a single key-value table.
type SQLite struct {
	db *sql.DB
}

// New opens (creating if needed) the database at path and runs migrations.
func New(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." && path != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Get returns the value stored under key, or nil if there is none.
func (s *SQLite) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying %q: %w", key, err)
	}
	return []byte(value), nil
}

// Put stores value under key, replacing any previous value.
func (s *SQLite) Put(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, key, string(value), time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("storing %q: %w", key, err)
	}
	return nil
}

// UpdatedAt returns when key was last written, or the zero time.
func (s *SQLite) UpdatedAt(ctx context.Context, key string) (time.Time, error) {
	var raw sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT updated_at FROM kv WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("querying %q: %w", key, err)
	}
	if !raw.Valid {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw.String)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing updated_at: %w", err)
	}
	return t, nil
}

// Load implements Store.
func (s *SQLite) Load(ctx context.Context) ([]schedule.Slot, error) {
	data, err := s.Get(ctx, ScheduleKey)
	if err != nil {
		return nil, err
	}
	return decode(data)
}

// Save implements Store.
func (s *SQLite) Save(ctx context.Context, slots []schedule.Slot) error {
	data, err := encode(slots)
	if err != nil {
		return err
	}
	return s.Put(ctx, ScheduleKey, data)
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}
