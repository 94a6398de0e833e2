package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"legisdir/internal"
)

const MetaLastRun = "last_run"

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL UNIQUE,
  inputPath TEXT NOT NULL,
  outputPath TEXT NOT NULL,
  inputHash TEXT NOT NULL,
  timingsJson TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS changes (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  runId INTEGER NOT NULL,
  seq INTEGER NOT NULL,
  path TEXT NOT NULL,
  field TEXT NOT NULL,
  owner TEXT,
  kindFrom TEXT NOT NULL,
  action TEXT NOT NULL,
  cleaned TEXT,
  email TEXT,
  UNIQUE(runId, seq),
  FOREIGN KEY(runId) REFERENCES runs(id)
);
CREATE INDEX IF NOT EXISTS idx_changes_runId ON changes(runId);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// RecordRun stores a run and its per-field changes in one transaction and
// returns the run id.
func (d *DB) RecordRun(ctx context.Context, run internal.RunRow, changes []internal.ContactChange) (int64, error) {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	timingsJSON, _ := json.Marshal(run.Timings)
	countsJSON, _ := json.Marshal(run.Counts)
	res, err := tx.ExecContext(ctx, `
INSERT INTO runs (traceId, inputPath, outputPath, inputHash, timingsJson, countsJson)
VALUES (?, ?, ?, ?, ?, ?)
`, run.TraceID, run.InputPath, run.OutputPath, run.InputHash, string(timingsJSON), string(countsJSON))
	if err != nil {
		return 0, err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO changes (runId, seq, path, field, owner, kindFrom, action, cleaned, email)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for i, c := range changes {
		if _, err := stmt.ExecContext(ctx, runID, i, c.Path, c.Field, c.Owner, c.KindFrom, string(c.Action), c.Cleaned, c.Email); err != nil {
			return 0, err
		}
	}

	if err := setMetadata(ctx, tx, MetaLastRun, run.TraceID); err != nil {
		return 0, err
	}

	return runID, tx.Commit()
}

func (d *DB) ListRuns(limit int) ([]internal.RunRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.conn.Query(`
SELECT id, traceId, inputPath, outputPath, inputHash, timingsJson, countsJson, createdAt
FROM runs ORDER BY id DESC LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.RunRow
	for rows.Next() {
		row, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) GetRunByTraceID(traceID string) (*internal.RunRow, error) {
	row, err := scanRun(d.conn.QueryRow(`
SELECT id, traceId, inputPath, outputPath, inputHash, timingsJson, countsJson, createdAt
FROM runs WHERE traceId = ?
`, traceID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// MustRun resolves a run by trace id, or the last recorded run when traceID
// is empty.
func (d *DB) MustRun(traceID string) (internal.RunRow, error) {
	if traceID == "" {
		last, err := d.GetMetadata(MetaLastRun)
		if err != nil {
			return internal.RunRow{}, err
		}
		if last == nil {
			return internal.RunRow{}, errors.New("no runs recorded")
		}
		traceID = *last
	}
	row, err := d.GetRunByTraceID(traceID)
	if err != nil {
		return internal.RunRow{}, err
	}
	if row == nil {
		return internal.RunRow{}, fmt.Errorf("run not found: traceId=%s", traceID)
	}
	return *row, nil
}

func (d *DB) GetChanges(runID int64) ([]internal.ContactChange, error) {
	rows, err := d.conn.Query(`
SELECT path, field, owner, kindFrom, action, cleaned, email
FROM changes WHERE runId = ? ORDER BY seq ASC
`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.ContactChange
	for rows.Next() {
		var c internal.ContactChange
		var action string
		if err := rows.Scan(&c.Path, &c.Field, &c.Owner, &c.KindFrom, &action, &c.Cleaned, &c.Email); err != nil {
			return nil, err
		}
		c.Action = internal.ContactAction(action)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (d *DB) SetMetadata(key, value string) error {
	return setMetadata(context.Background(), d.conn, key, value)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// setMetadata upserts a metadata key on either the connection or a run's
// transaction.
func setMetadata(ctx context.Context, ex execer, key, value string) error {
	_, err := ex.ExecContext(ctx, `
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (internal.RunRow, error) {
	var row internal.RunRow
	var timingsJSON, countsJSON string
	if err := s.Scan(&row.ID, &row.TraceID, &row.InputPath, &row.OutputPath, &row.InputHash, &timingsJSON, &countsJSON, &row.CreatedAt); err != nil {
		return internal.RunRow{}, err
	}
	_ = json.Unmarshal([]byte(timingsJSON), &row.Timings)
	_ = json.Unmarshal([]byte(countsJSON), &row.Counts)
	return row, nil
}
