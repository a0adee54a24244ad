// Package sqlite provides a SQLite-backed run statistics store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/younwookim/parallelrun/internal/application/progress"
	"github.com/younwookim/parallelrun/internal/infrastructure/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists run events in SQLite.
type Store struct {
	sqlDB *sql.DB
}

var _ progress.Recorder = (*Store)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite stats store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Record inserts one run event.
func (s *Store) Record(ctx context.Context, e progress.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	level := strings.TrimSpace(e.Level)
	if level == "" {
		return fmt.Errorf("level is required")
	}
	if strings.TrimSpace(string(e.Kind)) == "" {
		return fmt.Errorf("event kind is required")
	}
	at := e.At
	if at.IsZero() {
		at = time.Now()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO run_events (level, kind, x, y, cause, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		level,
		string(e.Kind),
		e.X,
		e.Y,
		e.Cause,
		toMillis(at),
	)
	if err != nil {
		return fmt.Errorf("insert run event: %w", err)
	}
	return nil
}

// Summary counts the recorded events of level by kind.
func (s *Store) Summary(ctx context.Context, level string) (progress.Summary, error) {
	if err := ctx.Err(); err != nil {
		return progress.Summary{}, err
	}
	if s == nil || s.sqlDB == nil {
		return progress.Summary{}, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT kind, COUNT(*) FROM run_events WHERE level = ? GROUP BY kind`,
		strings.TrimSpace(level),
	)
	if err != nil {
		return progress.Summary{}, fmt.Errorf("query run summary: %w", err)
	}
	defer rows.Close()

	var sum progress.Summary
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return progress.Summary{}, fmt.Errorf("scan run summary: %w", err)
		}
		sum.Add(progress.Kind(kind), n)
	}
	if err := rows.Err(); err != nil {
		return progress.Summary{}, fmt.Errorf("iterate run summary: %w", err)
	}
	return sum, nil
}

// Recent returns up to limit events of level, newest first.
func (s *Store) Recent(ctx context.Context, level string, limit int) ([]progress.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT level, kind, x, y, cause, created_at
		 FROM run_events
		 WHERE level = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		strings.TrimSpace(level),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent run events: %w", err)
	}
	defer rows.Close()

	var events []progress.Event
	for rows.Next() {
		var (
			e         progress.Event
			kind      string
			createdAt int64
		)
		if err := rows.Scan(&e.Level, &kind, &e.X, &e.Y, &e.Cause, &createdAt); err != nil {
			return nil, fmt.Errorf("scan run event: %w", err)
		}
		e.Kind = progress.Kind(kind)
		e.At = fromMillis(createdAt)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run events: %w", err)
	}
	return events, nil
}
