package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Journal records search and input outcomes to a SQLite database so an
// automation run can be inspected after the fact.
type Journal struct {
	conn *sql.DB
	path string
}

// Search statuses recorded in the search_log table.
const (
	StatusFound   = "found"
	StatusTimeout = "timeout"
	StatusError   = "error"
)

// SearchRecord is one completed template search.
type SearchRecord struct {
	ID         int64
	WindowID   int64
	Template   string
	Status     string
	DurationMS int64
	Detail     string
	StartedAt  time.Time
}

// InputRecord is one injected input action.
type InputRecord struct {
	ID         int64
	WindowID   int64
	Kind       string
	X          int
	Y          int
	Detail     string
	OccurredAt time.Time
}

// Open opens or creates the journal database at the given path.
func Open(dbPath string) (*Journal, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping journal database: %w", err)
	}

	// SQLite works best with a single connection.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	return &Journal{conn: conn, path: dbPath}, nil
}

// Close closes the journal database.
func (j *Journal) Close() error {
	if j.conn != nil {
		return j.conn.Close()
	}
	return nil
}

// Path returns the journal database file path.
func (j *Journal) Path() string {
	return j.path
}

// ExecTx executes fn within a transaction.
func (j *Journal) ExecTx(fn func(*sql.Tx) error) error {
	tx, err := j.conn.Begin()
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	return tx.Commit()
}

// RecordSearch appends a completed search to the journal.
func (j *Journal) RecordSearch(r SearchRecord) error {
	if r.StartedAt.IsZero() {
		r.StartedAt = time.Now()
	}
	return j.ExecTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO search_log (window_id, template, status, duration_ms, detail, started_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, r.WindowID, r.Template, r.Status, r.DurationMS, r.Detail, r.StartedAt)
		if err != nil {
			return fmt.Errorf("failed to insert search log: %w", err)
		}
		return nil
	})
}

// RecordInput appends an injected input action to the journal.
func (j *Journal) RecordInput(r InputRecord) error {
	if r.OccurredAt.IsZero() {
		r.OccurredAt = time.Now()
	}
	return j.ExecTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO input_log (window_id, kind, x, y, detail, occurred_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, r.WindowID, r.Kind, r.X, r.Y, r.Detail, r.OccurredAt)
		if err != nil {
			return fmt.Errorf("failed to insert input log: %w", err)
		}
		return nil
	})
}

// RecentSearches returns the most recent searches, newest first.
func (j *Journal) RecentSearches(limit int) ([]SearchRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := j.conn.Query(`
		SELECT id, window_id, template, status, duration_ms, detail, started_at
		FROM search_log
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []SearchRecord{}
	for rows.Next() {
		var r SearchRecord
		if err := rows.Scan(&r.ID, &r.WindowID, &r.Template, &r.Status, &r.DurationMS, &r.Detail, &r.StartedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	return records, rows.Err()
}

// SearchStats returns search counts grouped by status.
func (j *Journal) SearchStats() (map[string]int, error) {
	rows, err := j.conn.Query(`SELECT status, COUNT(*) FROM search_log GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}

	return stats, rows.Err()
}
