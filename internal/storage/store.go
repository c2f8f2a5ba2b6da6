// Package storage keeps reports of finished batches in a SQLite database.
// Only outcome tallies are stored; field state never outlives a process.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/san-kum/bloomsim/internal/garden"
	"github.com/san-kum/bloomsim/internal/sim"
)

var ErrNotFound = errors.New("storage: batch not found")

type Store struct {
	conn *sqlx.DB
}

// BatchMeta describes one stored batch.
type BatchMeta struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Width     int                `json:"width"`
	Height    int                `json:"height"`
	Days      int                `json:"days"`
	Runs      int                `json:"runs"`
	Flowers   int                `json:"flowers"`
	Seed      uint64             `json:"seed"`
	CreatedAt time.Time          `json:"created_at"`
	Totals    garden.DailyResult `json:"totals"`
}

type batchRow struct {
	ID         string `db:"id"`
	Preset     string `db:"preset"`
	Width      int    `db:"width"`
	Height     int    `db:"height"`
	Days       int    `db:"days"`
	Runs       int    `db:"runs"`
	Flowers    int    `db:"flowers"`
	Seed       int64  `db:"seed"`
	CreatedAt  int64  `db:"created_at"`
	Hybrids    int    `db:"hybrids"`
	Duplicates int    `db:"duplicates"`
	Fails      int    `db:"fails"`
}

func (r batchRow) meta() BatchMeta {
	return BatchMeta{
		ID:        r.ID,
		Preset:    r.Preset,
		Width:     r.Width,
		Height:    r.Height,
		Days:      r.Days,
		Runs:      r.Runs,
		Flowers:   r.Flowers,
		Seed:      uint64(r.Seed),
		CreatedAt: time.Unix(0, r.CreatedAt).UTC(),
		Totals:    garden.DailyResult{Hybrids: r.Hybrids, Duplicates: r.Duplicates, Fails: r.Fails},
	}
}

type dayRow struct {
	Run        int `db:"run"`
	Day        int `db:"day"`
	Hybrids    int `db:"hybrids"`
	Duplicates int `db:"duplicates"`
	Fails      int `db:"fails"`
}

type runRow struct {
	Run          int `db:"run"`
	FinalFlowers int `db:"final_flowers"`
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS batches (
		id TEXT PRIMARY KEY,
		preset TEXT NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		days INTEGER NOT NULL,
		runs INTEGER NOT NULL,
		flowers INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		hybrids INTEGER NOT NULL,
		duplicates INTEGER NOT NULL,
		fails INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS runs (
		batch_id TEXT NOT NULL REFERENCES batches(id),
		run INTEGER NOT NULL,
		final_flowers INTEGER NOT NULL,
		PRIMARY KEY (batch_id, run)
	);

	CREATE TABLE IF NOT EXISTS run_days (
		batch_id TEXT NOT NULL REFERENCES batches(id),
		run INTEGER NOT NULL,
		day INTEGER NOT NULL,
		hybrids INTEGER NOT NULL,
		duplicates INTEGER NOT NULL,
		fails INTEGER NOT NULL,
		PRIMARY KEY (batch_id, run, day)
	);

	CREATE INDEX IF NOT EXISTS idx_batches_created ON batches(created_at);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// Save stores a batch and its per-day results. An empty meta.ID gets a fresh
// UUID; a zero CreatedAt is stamped with the current time. Runs and Totals are
// derived from results.
func (s *Store) Save(ctx context.Context, meta BatchMeta, results []*sim.RunResult) (string, error) {
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = time.Now()
	}
	meta.Runs = len(results)
	meta.Totals = garden.DailyResult{}
	for _, r := range results {
		meta.Totals = meta.Totals.Add(r.Totals)
	}

	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO batches (id, preset, width, height, days, runs, flowers, seed, created_at, hybrids, duplicates, fails)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		meta.ID, meta.Preset, meta.Width, meta.Height, meta.Days, meta.Runs, meta.Flowers,
		int64(meta.Seed), meta.CreatedAt.UnixNano(),
		meta.Totals.Hybrids, meta.Totals.Duplicates, meta.Totals.Fails)
	if err != nil {
		return "", fmt.Errorf("insert batch: %w", err)
	}

	runStmt, err := tx.PreparexContext(ctx, `INSERT INTO runs (batch_id, run, final_flowers) VALUES (?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer runStmt.Close()

	dayStmt, err := tx.PreparexContext(ctx, `
		INSERT INTO run_days (batch_id, run, day, hybrids, duplicates, fails)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer dayStmt.Close()

	for _, r := range results {
		if _, err := runStmt.ExecContext(ctx, meta.ID, r.Run, r.FinalFlowers); err != nil {
			return "", fmt.Errorf("insert run %d: %w", r.Run, err)
		}
		for day, d := range r.Days {
			if _, err := dayStmt.ExecContext(ctx, meta.ID, r.Run, day, d.Hybrids, d.Duplicates, d.Fails); err != nil {
				return "", fmt.Errorf("insert run %d day %d: %w", r.Run, day, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// List returns every batch, newest first.
func (s *Store) List(ctx context.Context) ([]BatchMeta, error) {
	var rows []batchRow
	if err := s.conn.SelectContext(ctx, &rows, `SELECT * FROM batches ORDER BY created_at DESC, id`); err != nil {
		return nil, err
	}

	out := make([]BatchMeta, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.meta())
	}
	return out, nil
}

func (s *Store) Load(ctx context.Context, id string) (*BatchMeta, error) {
	var row batchRow
	err := s.conn.GetContext(ctx, &row, `SELECT * FROM batches WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	meta := row.meta()
	return &meta, nil
}

// LoadRuns rebuilds the per-run day histories of a batch in run order.
func (s *Store) LoadRuns(ctx context.Context, id string) ([]*sim.RunResult, error) {
	if _, err := s.Load(ctx, id); err != nil {
		return nil, err
	}

	var runs []runRow
	if err := s.conn.SelectContext(ctx, &runs,
		`SELECT run, final_flowers FROM runs WHERE batch_id = ? ORDER BY run`, id); err != nil {
		return nil, err
	}

	var days []dayRow
	if err := s.conn.SelectContext(ctx, &days,
		`SELECT run, day, hybrids, duplicates, fails FROM run_days WHERE batch_id = ? ORDER BY run, day`, id); err != nil {
		return nil, err
	}

	results := make([]*sim.RunResult, 0, len(runs))
	byRun := make(map[int]*sim.RunResult, len(runs))
	for _, r := range runs {
		res := &sim.RunResult{Run: r.Run, FinalFlowers: r.FinalFlowers}
		results = append(results, res)
		byRun[r.Run] = res
	}

	for _, d := range days {
		res, ok := byRun[d.Run]
		if !ok {
			continue
		}
		day := garden.DailyResult{Hybrids: d.Hybrids, Duplicates: d.Duplicates, Fails: d.Fails}
		res.Days = append(res.Days, day)
		res.Totals = res.Totals.Add(day)
	}

	return results, nil
}
