// Package store persists cost-graph builds in SQLite so runs can be listed,
// reloaded and compared later.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/costgraph/internal/costgraph"
	"github.com/banshee-data/costgraph/internal/timeutil"
)

// ErrRunNotFound is returned when a run id has no stored graph.
var ErrRunNotFound = errors.New("store: run not found")

// DB is a graph store backed by a migrated sqlite database. Run timestamps
// come from its clock.
type DB struct {
	*sql.DB
	clock timeutil.Clock
}

// Run describes one stored build.
type Run struct {
	RunID      string          `json:"run_id"`
	Builder    string          `json:"builder"`
	Mode       string          `json:"mode"`
	Label      string          `json:"label,omitempty"`
	Rows       int             `json:"rows"`
	Cols       int             `json:"cols"`
	NNZ        int             `json:"nnz"`
	Grows      int             `json:"grows"`
	ParamsJSON json.RawMessage `json:"params_json,omitempty"`
	CreatedAt  int64           `json:"created_at"`
}

// Open opens (or creates) the database at path and brings its schema up to
// date.
func Open(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := sqlDB.Exec(p); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", p, err)
		}
	}
	db := &DB{DB: sqlDB, clock: timeutil.RealClock{}}
	if err := db.MigrateUp(Migrations()); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// SetClock replaces the clock used to stamp new runs.
func (db *DB) SetClock(c timeutil.Clock) { db.clock = c }

// SaveResult stores res under a new run id and returns it. rows is the
// source-set size, needed for feasibility results which carry no matrix.
// params is stored verbatim and may be nil.
func (db *DB) SaveResult(res *costgraph.Result, rows int, label string, params json.RawMessage) (string, error) {
	if res == nil {
		return "", errors.New("store: nil result")
	}
	run := Run{
		RunID:     uuid.New().String(),
		Builder:   res.Builder,
		Mode:      res.Mode.String(),
		Label:     label,
		Rows:      rows,
		Grows:     res.Grows,
		CreatedAt: db.clock.Now().UnixNano(),
	}
	switch {
	case res.Costs != nil:
		run.Rows, run.Cols, run.NNZ = res.Costs.Rows, res.Costs.Cols, res.Costs.NNZ()
	case res.Feasible != nil:
		run.Cols = len(res.Feasible)
	}

	var paramsStr interface{}
	if len(params) > 0 {
		paramsStr = string(params)
	}

	tx, err := db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO graph_runs (
			run_id, builder, mode, label, n_rows, n_cols, nnz, grows, params_json, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Builder, run.Mode, run.Label, run.Rows, run.Cols, run.NNZ, run.Grows,
		paramsStr, run.CreatedAt,
	); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	if res.Costs != nil {
		stmt, err := tx.Prepare(`INSERT INTO graph_entries (run_id, pos, col_idx, row_idx, cost) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return "", err
		}
		defer stmt.Close()
		m := res.Costs
		for j := 0; j < m.Cols; j++ {
			for k := m.ColPtr[j]; k < m.ColPtr[j+1]; k++ {
				if _, err := stmt.Exec(run.RunID, k, j, m.RowIdx[k], m.Values[k]); err != nil {
					return "", fmt.Errorf("insert entry %d: %w", k, err)
				}
			}
		}
	}

	if res.Alternative != nil || res.Feasible != nil {
		stmt, err := tx.Prepare(`INSERT INTO graph_columns (run_id, col_idx, alternative, feasible) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return "", err
		}
		defer stmt.Close()
		for j := 0; j < run.Cols; j++ {
			var alt, feas interface{}
			if res.Alternative != nil {
				alt = res.Alternative[j]
			}
			if res.Feasible != nil {
				feas = res.Feasible[j]
			}
			if _, err := stmt.Exec(run.RunID, j, alt, feas); err != nil {
				return "", fmt.Errorf("insert column %d: %w", j, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return run.RunID, nil
}

// LoadResult rebuilds a stored run.
func (db *DB) LoadResult(runID string) (*Run, *costgraph.Result, error) {
	run, err := db.getRun(runID)
	if err != nil {
		return nil, nil, err
	}
	mode, err := costgraph.ParseMode(run.Mode)
	if err != nil {
		return nil, nil, err
	}
	res := &costgraph.Result{Builder: run.Builder, Mode: mode, Grows: run.Grows}

	if mode == costgraph.ModeCosts {
		rows, err := db.Query(`
			SELECT col_idx, row_idx, cost FROM graph_entries
			WHERE run_id = ? ORDER BY pos`, runID)
		if err != nil {
			return nil, nil, fmt.Errorf("query entries: %w", err)
		}
		defer rows.Close()
		ri := make([]int, 0, run.NNZ)
		ci := make([]int, 0, run.NNZ)
		vals := make([]float64, 0, run.NNZ)
		for rows.Next() {
			var c, r int
			var v float64
			if err := rows.Scan(&c, &r, &v); err != nil {
				return nil, nil, fmt.Errorf("scan entry: %w", err)
			}
			ci, ri, vals = append(ci, c), append(ri, r), append(vals, v)
		}
		if err := rows.Err(); err != nil {
			return nil, nil, err
		}
		res.Costs, err = costgraph.FromTriplets(run.Rows, run.Cols, ri, ci, vals)
		if err != nil {
			return nil, nil, fmt.Errorf("run %s: %w", runID, err)
		}
	}

	cols, err := db.Query(`
		SELECT col_idx, alternative, feasible FROM graph_columns
		WHERE run_id = ? ORDER BY col_idx`, runID)
	if err != nil {
		return nil, nil, fmt.Errorf("query columns: %w", err)
	}
	defer cols.Close()
	for cols.Next() {
		var j int
		var alt sql.NullFloat64
		var feas sql.NullBool
		if err := cols.Scan(&j, &alt, &feas); err != nil {
			return nil, nil, fmt.Errorf("scan column: %w", err)
		}
		if j < 0 || j >= run.Cols {
			return nil, nil, fmt.Errorf("run %s: column %d outside 0..%d", runID, j, run.Cols-1)
		}
		if alt.Valid {
			if res.Alternative == nil {
				res.Alternative = make([]float64, run.Cols)
			}
			res.Alternative[j] = alt.Float64
		}
		if feas.Valid {
			if res.Feasible == nil {
				res.Feasible = make([]bool, run.Cols)
			}
			res.Feasible[j] = feas.Bool
		}
	}
	if err := cols.Err(); err != nil {
		return nil, nil, err
	}
	if mode == costgraph.ModeFeasibility && res.Feasible == nil {
		res.Feasible = make([]bool, run.Cols)
	}
	return run, res, nil
}

// ListRuns returns every stored run, newest first.
func (db *DB) ListRuns() ([]*Run, error) {
	rows, err := db.Query(`
		SELECT run_id, builder, mode, label, n_rows, n_cols, nnz, grows, params_json, created_at
		FROM graph_runs
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// DeleteRun removes a run and everything stored under it.
func (db *DB) DeleteRun(runID string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range []string{
		`DELETE FROM graph_entries WHERE run_id = ?`,
		`DELETE FROM graph_columns WHERE run_id = ?`,
	} {
		if _, err := tx.Exec(q, runID); err != nil {
			return fmt.Errorf("delete run %s: %w", runID, err)
		}
	}
	result, err := tx.Exec(`DELETE FROM graph_runs WHERE run_id = ?`, runID)
	if err != nil {
		return fmt.Errorf("delete run %s: %w", runID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return tx.Commit()
}

func (db *DB) getRun(runID string) (*Run, error) {
	rows, err := db.Query(`
		SELECT run_id, builder, mode, label, n_rows, n_cols, nnz, grows, params_json, created_at
		FROM graph_runs
		WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return scanRun(rows)
}

// scanRun scans a graph_runs row from a sql.Rows cursor.
func scanRun(rows *sql.Rows) (*Run, error) {
	var r Run
	var paramsStr sql.NullString
	if err := rows.Scan(
		&r.RunID, &r.Builder, &r.Mode, &r.Label, &r.Rows, &r.Cols, &r.NNZ, &r.Grows,
		&paramsStr, &r.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("scan run row: %w", err)
	}
	if paramsStr.Valid {
		r.ParamsJSON = json.RawMessage(paramsStr.String)
	}
	return &r, nil
}
