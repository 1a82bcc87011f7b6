// Package history keeps a log of finished runs in SQLite.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Run is one finished game, won or lost.
type Run struct {
	ID        int64
	Level     int
	Victory   bool
	Defeated  int
	Fragments int
	Skin      string
	Ticks     uint64
	EndedAt   time.Time
}

// Store wraps the runs database.
type Store struct {
	db *sql.DB
}

// Open creates or opens the database at path, creating parent directories
// and the schema as needed. A leading ~ expands to the home directory.
func Open(path string) (*Store, error) {
	if path != "" && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("history: expand home: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("history: create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: ping: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level INTEGER NOT NULL,
			victory INTEGER NOT NULL DEFAULT 0,
			defeated INTEGER NOT NULL DEFAULT 0,
			fragments INTEGER NOT NULL DEFAULT 0,
			skin TEXT NOT NULL DEFAULT '',
			ticks INTEGER NOT NULL DEFAULT 0,
			ended_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_ended ON runs(ended_at DESC);
	`)
	return err
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts r and returns its id. A zero EndedAt is stamped with the
// current time.
func (s *Store) Record(ctx context.Context, r Run) (int64, error) {
	if r.EndedAt.IsZero() {
		r.EndedAt = time.Now()
	}
	victory := 0
	if r.Victory {
		victory = 1
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (level, victory, defeated, fragments, skin, ticks, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.Level, victory, r.Defeated, r.Fragments, r.Skin, int64(r.Ticks), r.EndedAt.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("history: insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("history: last insert id: %w", err)
	}
	return id, nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, level, victory, defeated, fragments, skin, ticks, ended_at
		 FROM runs
		 ORDER BY ended_at DESC, id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r       Run
			victory int
			ticks   int64
			ended   int64
		)
		if err := rows.Scan(&r.ID, &r.Level, &victory, &r.Defeated, &r.Fragments, &r.Skin, &ticks, &ended); err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		r.Victory = victory != 0
		r.Ticks = uint64(ticks)
		r.EndedAt = time.UnixMilli(ended)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate runs: %w", err)
	}
	return runs, nil
}

// Best returns the furthest level reached across all runs.
func (s *Store) Best(ctx context.Context) (int, error) {
	var best sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(level) FROM runs`).Scan(&best); err != nil {
		return 0, fmt.Errorf("history: best level: %w", err)
	}
	return int(best.Int64), nil
}
