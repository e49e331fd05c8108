// Package audit keeps an append-only ledger of security-relevant events:
// admin-gate decisions and dispatched actions. Writes are best effort - a
// failed insert is logged and the pipeline continues.
package audit

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"igris/internal/logging"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	ts         TEXT NOT NULL,
	request_id TEXT NOT NULL DEFAULT '',
	kind       TEXT NOT NULL,
	task       TEXT NOT NULL DEFAULT '',
	action     TEXT NOT NULL DEFAULT '',
	outcome    TEXT NOT NULL,
	detail     TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_events_ts ON events(ts);
`

// Event kinds recorded in the ledger.
const (
	KindAuth     = "auth"
	KindDispatch = "dispatch"
	KindBlocked  = "blocked"
)

// Entry is one ledger row.
type Entry struct {
	ID        int64
	Timestamp time.Time
	RequestID string
	Kind      string
	Task      string
	Action    string
	Outcome   string
	Detail    string
}

// Ledger is the SQLite-backed event log.
type Ledger struct {
	db *sql.DB
}

// Open creates or opens the ledger database and ensures the schema.
func Open(path string) (*Ledger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create ledger dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init ledger schema: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Record appends an entry. Best effort: failures are logged, not returned,
// so ledger trouble never blocks a dispatch.
func (l *Ledger) Record(e Entry) {
	if l == nil || l.db == nil {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	_, err := l.db.Exec(
		`INSERT INTO events (ts, request_id, kind, task, action, outcome, detail) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Timestamp.UTC().Format(time.RFC3339Nano), e.RequestID, e.Kind, e.Task, e.Action, e.Outcome, e.Detail,
	)
	if err != nil {
		logging.Get(logging.CategoryAudit).Warnw("ledger write failed", "kind", e.Kind, "error", err)
	}
}

// Recent returns the newest entries, newest first.
func (l *Ledger) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := l.db.Query(
		`SELECT id, ts, request_id, kind, task, action, outcome, detail FROM events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var ts string
		if err := rows.Scan(&e.ID, &ts, &e.RequestID, &e.Kind, &e.Task, &e.Action, &e.Outcome, &e.Detail); err != nil {
			return nil, err
		}
		e.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (l *Ledger) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}
