// Package store persists finished optimizer runs for later inspection —
// the out-of-scope collaborator spec.md §1 places outside the core
// (the core itself performs no I/O at all). It is the Go analogue of
// shaman_api's database layer in the original project.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/shaman-labs/bbo/internal/bbo/grid"
	"github.com/shaman-labs/bbo/internal/bbo/history"
)

// Migrations returns the schema migration statements for the run-history
// store, following the teacher's Phase-N-migrations convention (one SQL
// statement per string, executed in order).
func Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id               TEXT PRIMARY KEY,
			experiment_name  TEXT NOT NULL,
			heuristic        TEXT NOT NULL,
			total_iteration  INTEGER NOT NULL,
			best_fitness     REAL NOT NULL,
			best_parameters  TEXT NOT NULL,
			created_at       TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
		`CREATE TABLE IF NOT EXISTS run_evaluations (
			run_id      TEXT NOT NULL,
			iteration   INTEGER NOT NULL,
			parameters  TEXT NOT NULL,
			fitness     REAL NOT NULL,
			truncated   INTEGER NOT NULL DEFAULT 0,
			resampled   INTEGER NOT NULL DEFAULT 0,
			initialization INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (run_id, iteration)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_run_evaluations_run ON run_evaluations(run_id)`,
	}
}

// DB wraps a sqlite connection with the run-history recording operations
// the bbo CLI/API layer needs, mirroring the shape of the teacher's
// infra/sqlite.DB wrapper type.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the sqlite database at path and applies
// migrations.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("infra/store: open %s: %w", path, err)
	}
	for _, stmt := range Migrations() {
		if _, err := conn.Exec(stmt); err != nil {
			conn.Close()
			return nil, fmt.Errorf("infra/store: migrate: %w", err)
		}
	}
	return &DB{conn: conn}, nil
}

// Close releases the underlying connection.
func (db *DB) Close() error { return db.conn.Close() }

// RecordRun persists a finished run's summary row and its full evaluation
// history.
func (db *DB) RecordRun(runID, experimentName, heuristicName string, h *history.History, bestFitness float64, bestParams grid.ParameterVector) error {
	_, err := db.conn.Exec(
		`INSERT OR REPLACE INTO runs (id, experiment_name, heuristic, total_iteration, best_fitness, best_parameters) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, experimentName, heuristicName, h.Len(), bestFitness, bestParams.Key(),
	)
	if err != nil {
		return fmt.Errorf("infra/store: record run: %w", err)
	}
	for i := range h.Fitness {
		_, err := db.conn.Exec(
			`INSERT OR REPLACE INTO run_evaluations (run_id, iteration, parameters, fitness, truncated, resampled, initialization) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, i, h.Parameters[i].Key(), h.Fitness[i], boolToInt(h.Truncated[i]), boolToInt(h.Resampled[i]), boolToInt(h.Initialization[i]),
		)
		if err != nil {
			return fmt.Errorf("infra/store: record evaluation %d: %w", i, err)
		}
	}
	return nil
}

// RunSummary is a single row of the runs table, as returned by ListRuns.
type RunSummary struct {
	ID             string
	ExperimentName string
	Heuristic      string
	TotalIteration int
	BestFitness    float64
	BestParameters string
	CreatedAt      time.Time
}

// ListRuns returns the most recently recorded runs, newest first.
func (db *DB) ListRuns(limit int) ([]RunSummary, error) {
	rows, err := db.conn.Query(
		`SELECT id, experiment_name, heuristic, total_iteration, best_fitness, best_parameters, created_at FROM runs ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("infra/store: list runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		var createdAt string
		if err := rows.Scan(&r.ID, &r.ExperimentName, &r.Heuristic, &r.TotalIteration, &r.BestFitness, &r.BestParameters, &createdAt); err != nil {
			return nil, fmt.Errorf("infra/store: scan run: %w", err)
		}
		r.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", createdAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
