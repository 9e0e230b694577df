// Package storage provides SQLite-based persistence for scores and player
// preferences. Uses the pure-Go modernc.org/sqlite driver to avoid CGO.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const sqliteTimeLayout = "2006-01-02 15:04:05"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// ScoreEntry represents a single score record.
type ScoreEntry struct {
	ID        int64
	Profile   string
	Score     int
	CreatedAt time.Time
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

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// One writer; SSH sessions share the store.
	db.SetMaxOpenConns(1)

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

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			profile TEXT NOT NULL,
			score INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(score DESC);
		CREATE INDEX IF NOT EXISTS idx_scores_profile ON scores(profile);

		CREATE TABLE IF NOT EXISTS prefs (
			profile TEXT NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (profile, key)
		);
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

// SaveScore records a finished run. Returns the ID of the inserted record.
func (s *Store) SaveScore(profile string, score int) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO scores (profile, score) VALUES (?, ?)",
		profile, score,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// UpdateScore raises the score of an existing record, used when a revived
// run ends with more points.
func (s *Store) UpdateScore(id int64, score int) error {
	if _, err := s.db.Exec("UPDATE scores SET score = ? WHERE id = ?", score, id); err != nil {
		return fmt.Errorf("storage: cannot update score %d: %w", id, err)
	}
	return nil
}

// TopScores retrieves the top N scores across all profiles, or for one
// profile when profile is non-empty. Results are ordered by score descending.
func (s *Store) TopScores(profile string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, profile, score, created_at
		 FROM scores
		 WHERE ? = '' OR profile = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		profile, profile, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Profile, &e.Score, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the best score for profile (all profiles when empty).
// Returns 0 if no scores exist.
func (s *Store) HighScore(profile string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE ? = '' OR profile = ?",
		profile, profile,
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// ClearScores deletes all scores for profile, or every score when empty.
func (s *Store) ClearScores(profile string) error {
	_, err := s.db.Exec("DELETE FROM scores WHERE ? = '' OR profile = ?", profile, profile)
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// Stats contains aggregated statistics over the scores table.
type Stats struct {
	Games      int
	HighScore  int
	AvgScore   float64
	TotalScore int64
	LastPlayed time.Time
}

// Stats aggregates the scores of profile, or of everyone when empty.
func (s *Store) Stats(profile string) (*Stats, error) {
	stats := &Stats{}
	var lastPlayed any

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
		        COALESCE(SUM(score), 0), MAX(created_at)
		 FROM scores WHERE ? = '' OR profile = ?`,
		profile, profile,
	).Scan(&stats.Games, &stats.HighScore, &stats.AvgScore, &stats.TotalScore, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// PrefsTable is a prefs backend scoped to one profile row set.
// It satisfies prefs.Backend; values are written through on every Set.
type PrefsTable struct {
	db      *sql.DB
	profile string
}

// Prefs returns the prefs backend for profile.
func (s *Store) Prefs(profile string) *PrefsTable {
	return &PrefsTable{db: s.db, profile: profile}
}

func (p *PrefsTable) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := p.db.QueryRowContext(ctx,
		"SELECT value FROM prefs WHERE profile = ? AND key = ?",
		p.profile, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: cannot read pref %s: %w", key, err)
	}
	return value, true, nil
}

func (p *PrefsTable) Set(ctx context.Context, key, value string) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO prefs (profile, key, value, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(profile, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		p.profile, key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot write pref %s: %w", key, err)
	}
	return nil
}

func (p *PrefsTable) Delete(ctx context.Context, key string) error {
	_, err := p.db.ExecContext(ctx,
		"DELETE FROM prefs WHERE profile = ? AND key = ?",
		p.profile, key,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot delete pref %s: %w", key, err)
	}
	return nil
}

// Save is a no-op: every Set is already committed.
func (p *PrefsTable) Save(context.Context) error { return nil }

// All returns every key/value stored for the profile, for inspection.
func (p *PrefsTable) All(ctx context.Context) (map[string]string, error) {
	rows, err := p.db.QueryContext(ctx,
		"SELECT key, value FROM prefs WHERE profile = ? ORDER BY key",
		p.profile,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot list prefs: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("storage: cannot scan pref: %w", err)
		}
		out[k] = v
	}
	return out, rows.Err()
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(sqliteTimeLayout, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
