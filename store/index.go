package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

const indexSchema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	report_type TEXT NOT NULL,
	period TEXT NOT NULL,
	year INTEGER NOT NULL,
	month INTEGER NOT NULL,
	label TEXT NOT NULL,
	source_url TEXT NOT NULL,
	dir TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_period ON snapshots(period);

CREATE TABLE IF NOT EXISTS run_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	action TEXT NOT NULL,
	detail TEXT,
	success INTEGER NOT NULL,
	created_at INTEGER NOT NULL
);
`

// Index records captured snapshots and run events in SQLite so the viewer
// can list available periods without scanning the filesystem.
type Index struct {
	db *sql.DB
}

// NewIndex wraps an open database. Call Init before first use.
func NewIndex(db *sql.DB) *Index {
	return &Index{db: db}
}

// Init creates the index schema. Idempotent.
func (x *Index) Init(ctx context.Context) error {
	if _, err := x.db.ExecContext(ctx, indexSchema); err != nil {
		return fmt.Errorf("store: init index schema: %w", err)
	}
	return nil
}

// RecordSnapshot inserts one snapshot row.
func (x *Index) RecordSnapshot(ctx context.Context, reportType, period string, year, month int, label, sourceURL, dir string) error {
	_, err := x.db.ExecContext(ctx, `
		INSERT INTO snapshots (report_type, period, year, month, label, source_url, dir, created_at)
		VALUES (?,?,?,?,?,?,?,?)`,
		reportType, period, year, month, label, sourceURL, dir, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("store: record snapshot: %w", err)
	}
	return nil
}

// RecordEvent records a run event. Non-blocking: failures are logged, never
// propagated, so a broken index cannot fail a fetch run.
func (x *Index) RecordEvent(ctx context.Context, action, detail string, success bool) {
	_, err := x.db.ExecContext(ctx, `
		INSERT INTO run_events (action, detail, success, created_at)
		VALUES (?,?,?,?)`,
		action, detail, success, time.Now().Unix())
	if err != nil {
		slog.Error("store: record event failed", "action", action, "error", err)
	}
}

// PeriodEntry is one indexed snapshot summary.
type PeriodEntry struct {
	ReportType string `json:"report_type"`
	Period     string `json:"period"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	Label      string `json:"label"`
	Dir        string `json:"dir"`
}

// ListPeriods returns indexed snapshots, newest period first.
func (x *Index) ListPeriods(ctx context.Context) ([]PeriodEntry, error) {
	rows, err := x.db.QueryContext(ctx, `
		SELECT report_type, period, year, month, label, dir
		FROM snapshots ORDER BY period DESC, report_type ASC`)
	if err != nil {
		return nil, fmt.Errorf("store: list periods: %w", err)
	}
	defer rows.Close()

	var out []PeriodEntry
	for rows.Next() {
		var e PeriodEntry
		if err := rows.Scan(&e.ReportType, &e.Period, &e.Year, &e.Month, &e.Label, &e.Dir); err != nil {
			return nil, fmt.Errorf("store: scan period: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
