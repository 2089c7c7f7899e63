// Package journal persists a record of every dispatched call to SQLite.
// The journal is an audit/debug aid: widget state itself is never
// persisted, and the queues are not replayable from it.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Entry is one dispatched call as recorded by the owner loop.
type Entry struct {
	ID         string
	Target     string
	Op         string
	Read       bool
	Status     string // ok | error
	Error      string
	CreatedAt  time.Time
	DurationMS int64
}

// Journal appends dispatch entries to a local SQLite database.
type Journal struct {
	db *sql.DB
}

// Open opens (and creates if needed) the journal database at path and
// ensures the schema exists.
func Open(ctx context.Context, path string) (*Journal, error) {
	if path == "" {
		return nil, fmt.Errorf("journal path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(pctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy_timeout: %w", err)
	}
	if _, err := db.ExecContext(pctx, `
CREATE TABLE IF NOT EXISTS dispatch_log (
  id          TEXT PRIMARY KEY,
  target      TEXT NOT NULL,
  op          TEXT NOT NULL,
  read        INTEGER NOT NULL DEFAULT 0,
  status      TEXT NOT NULL,
  error       TEXT,
  created_at  TEXT NOT NULL,
  duration_ms INTEGER NOT NULL DEFAULT 0
);`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap journal schema: %w", err)
	}

	return &Journal{db: db}, nil
}

// Record appends one dispatch entry. A zero ID or CreatedAt is filled in.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	var errVal any
	if e.Error != "" {
		errVal = e.Error
	}

	_, err := j.db.ExecContext(ctx, `
INSERT INTO dispatch_log(id, target, op, read, status, error, created_at, duration_ms)
VALUES(?, ?, ?, ?, ?, ?, ?, ?);
`, e.ID, e.Target, e.Op, boolToInt(e.Read), e.Status, errVal, e.CreatedAt.Format(time.RFC3339Nano), e.DurationMS)
	if err != nil {
		return fmt.Errorf("record dispatch: %w", err)
	}
	return nil
}

// Recent returns up to n entries, newest first.
func (j *Journal) Recent(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		n = 50
	}
	rows, err := j.db.QueryContext(ctx, `
SELECT id, target, op, read, status, error, created_at, duration_ms
FROM dispatch_log
ORDER BY created_at DESC, rowid DESC
LIMIT ?;
`, n)
	if err != nil {
		return nil, fmt.Errorf("query dispatch_log: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e         Entry
			read      int
			errS      sql.NullString
			createdAt string
		)
		if err := rows.Scan(&e.ID, &e.Target, &e.Op, &read, &e.Status, &errS, &createdAt, &e.DurationMS); err != nil {
			return nil, fmt.Errorf("scan dispatch_log: %w", err)
		}
		e.Read = read != 0
		if errS.Valid {
			e.Error = errS.String
		}
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			e.CreatedAt = t
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
