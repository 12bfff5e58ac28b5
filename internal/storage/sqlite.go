// Package storage provides SQLite-based persistence for the last played
// level and the run history. Uses the pure-Go modernc.org/sqlite driver to
// avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/scriptmaze/internal/session"
)

const keyLastLevel = "last_level"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Run is one finished (or abandoned) attempt at a level.
type Run struct {
	ID           int64
	LevelID      string
	Outcome      string // "won", "dead", "time_up", "abandoned"
	Steps        int
	DurationSecs int
	CreatedAt    time.Time
}

// LevelStats contains aggregated run statistics for one level.
type LevelStats struct {
	LevelID    string
	Attempts   int
	Wins       int
	BestSteps  int // 0 when the level has never been won
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level_id TEXT NOT NULL,
			outcome TEXT NOT NULL,
			steps INTEGER NOT NULL DEFAULT 0,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_level_id ON runs(level_id);
		CREATE INDEX IF NOT EXISTS idx_runs_best ON runs(level_id, outcome, steps);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// LastLevel returns the persisted last-played level name, or "" when no
// level has been played yet.
func (s *Store) LastLevel() (string, error) {
	var value string
	err := s.db.QueryRow(
		"SELECT value FROM settings WHERE key = ?", keyLastLevel,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("storage: cannot read last level: %w", err)
	}
	return value, nil
}

// SetLastLevel persists the last-played level name.
func (s *Store) SetLastLevel(name string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		keyLastLevel, name,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save last level: %w", err)
	}
	return nil
}

// RecordRun appends one attempt to the run history.
func (s *Store) RecordRun(levelID, outcome string, steps int, d time.Duration) error {
	_, err := s.db.Exec(
		"INSERT INTO runs (level_id, outcome, steps, duration_secs) VALUES (?, ?, ?, ?)",
		levelID, outcome, steps, int(d.Seconds()),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot record run: %w", err)
	}
	return nil
}

// RecentRuns retrieves the most recent runs across all levels.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, level_id, outcome, steps, duration_secs, created_at
		 FROM runs
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var createdAt any
		if err := rows.Scan(&r.ID, &r.LevelID, &r.Outcome, &r.Steps, &r.DurationSecs, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = sqlTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// RunsForLevel retrieves the most recent runs of one level.
func (s *Store) RunsForLevel(levelID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, level_id, outcome, steps, duration_secs, created_at
		 FROM runs
		 WHERE level_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		levelID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var createdAt any
		if err := rows.Scan(&r.ID, &r.LevelID, &r.Outcome, &r.Steps, &r.DurationSecs, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = sqlTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// BestRun returns the winning run with the fewest steps for the given
// level, or nil when the level has never been won.
func (s *Store) BestRun(levelID string) (*Run, error) {
	var r Run
	var createdAt any

	err := s.db.QueryRow(
		`SELECT id, level_id, outcome, steps, duration_secs, created_at
		 FROM runs
		 WHERE level_id = ? AND outcome = 'won'
		 ORDER BY steps ASC, id ASC
		 LIMIT 1`,
		levelID,
	).Scan(&r.ID, &r.LevelID, &r.Outcome, &r.Steps, &r.DurationSecs, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query best run: %w", err)
	}

	r.CreatedAt = sqlTime(createdAt)
	return &r, nil
}

// Stats retrieves aggregated run statistics for a specific level.
func (s *Store) Stats(levelID string) (*LevelStats, error) {
	stats := &LevelStats{LevelID: levelID}

	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(outcome = 'won'), 0),
		        COALESCE(MIN(CASE WHEN outcome = 'won' THEN steps END), 0)
		 FROM runs WHERE level_id = ?`,
		levelID,
	).Scan(&stats.Attempts, &stats.Wins, &stats.BestSteps)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get level stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM runs WHERE level_id = ? ORDER BY created_at DESC, id DESC LIMIT 1`,
		levelID,
	).Scan(&lastPlayed)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = sqlTime(lastPlayed)
	}

	return stats, nil
}

// AllStats retrieves statistics for every level that has been played.
func (s *Store) AllStats() (map[string]*LevelStats, error) {
	rows, err := s.db.Query(
		`SELECT level_id, COUNT(*),
		        COALESCE(SUM(outcome = 'won'), 0),
		        COALESCE(MIN(CASE WHEN outcome = 'won' THEN steps END), 0),
		        MAX(created_at)
		 FROM runs
		 GROUP BY level_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all level stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*LevelStats)
	for rows.Next() {
		var ls LevelStats
		var lastPlayed any
		if err := rows.Scan(&ls.LevelID, &ls.Attempts, &ls.Wins, &ls.BestSteps, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		ls.LastPlayed = sqlTime(lastPlayed)
		stats[ls.LevelID] = &ls
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// sqlTime parses a created_at value. The driver hands back time.Time or a
// string depending on how the value was written.
func sqlTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// Ensure Store satisfies the session manager's persistence contract.
var _ session.Store = (*Store)(nil)
