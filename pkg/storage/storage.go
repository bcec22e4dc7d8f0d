package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/tierscope/tierscope/pkg/charts"
)

var ErrNoRuns = errors.New("no runs archived yet")

const timeLayout = "2006-01-02 15:04:05"

type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS runs (
  seq         INTEGER PRIMARY KEY,
  id          TEXT NOT NULL UNIQUE,
  created_at  DATETIME NOT NULL,
  chart_count INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS charts (
  run_id      TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
  position    INTEGER NOT NULL,
  song_id     TEXT NOT NULL,
  title       TEXT NOT NULL,
  difficulty  TEXT NOT NULL,
  rating      REAL NOT NULL,
  tier        REAL NOT NULL,
  youtube_url TEXT,
  PRIMARY KEY(run_id, position)
);
CREATE INDEX IF NOT EXISTS idx_charts_song ON charts(song_id);
    `); err != nil {
		db.Close()
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// SaveRun archives a chart collection as a new run, keeping collection order.
func (d *DB) SaveRun(ctx context.Context, list []charts.Chart) (run Run, err error) {
	run = Run{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
		ChartCount: len(list),
	}

	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return Run{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `INSERT INTO runs(id, created_at, chart_count) VALUES(?,?,?)`, run.ID, run.CreatedAt.Format(timeLayout), run.ChartCount); err != nil {
		return Run{}, err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO charts(run_id, position, song_id, title, difficulty, rating, tier, youtube_url) VALUES(?,?,?,?,?,?,?,?)`)
	if err != nil {
		return Run{}, err
	}
	defer stmt.Close()

	for i, c := range list {
		if _, err = stmt.ExecContext(ctx, run.ID, i, c.ID, c.Title, string(c.Difficulty), c.Rating, c.Tier, nullIfEmpty(c.YouTubeURL)); err != nil {
			return Run{}, err
		}
	}

	if err = tx.Commit(); err != nil {
		return Run{}, err
	}
	return run, nil
}

// ListRuns returns the most recent runs first.
func (d *DB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.sql.QueryContext(ctx, "SELECT id, created_at, chart_count FROM runs ORDER BY seq DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r          Run
			createdStr string
		)
		if err := rows.Scan(&r.ID, &createdStr, &r.ChartCount); err != nil {
			return nil, err
		}
		r.CreatedAt = parseTime(createdStr)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LatestRun returns the last archived run, or ErrNoRuns.
func (d *DB) LatestRun(ctx context.Context) (Run, error) {
	runs, err := d.ListRuns(ctx, 1)
	if err != nil {
		return Run{}, err
	}
	if len(runs) == 0 {
		return Run{}, ErrNoRuns
	}
	return runs[0], nil
}

// ListCharts returns the charts of a run in insertion order.
func (d *DB) ListCharts(ctx context.Context, runID string) ([]charts.Chart, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT song_id, title, difficulty, rating, tier, youtube_url FROM charts WHERE run_id = ? ORDER BY position", runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []charts.Chart
	for rows.Next() {
		var (
			c          charts.Chart
			difficulty string
			urlNS      sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Title, &difficulty, &c.Rating, &c.Tier, &urlNS); err != nil {
			return nil, err
		}
		c.Difficulty = charts.Difficulty(difficulty)
		c.YouTubeURL = urlNS.String
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetStats summarizes a run per difficulty, in difficulty code order.
func (d *DB) GetStats(ctx context.Context, runID string) ([]DifficultyStats, error) {
	query := `
		SELECT
			difficulty,
			COUNT(*),
			COUNT(DISTINCT song_id),
			MIN(rating),
			MAX(rating)
		FROM
			charts
		WHERE
			run_id = ?
		GROUP BY
			difficulty
		ORDER BY
			substr(difficulty, 1, 1), instr('bBDEC', substr(difficulty, 3, 1));
	`
	rows, err := d.sql.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []DifficultyStats
	for rows.Next() {
		var s DifficultyStats
		if err := rows.Scan(&s.Difficulty, &s.ChartCount, &s.SongCount, &s.MinRating, &s.MaxRating); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

// parseTime reads the stored timestamp, accepting RFC3339 as well.
func parseTime(s string) time.Time {
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
