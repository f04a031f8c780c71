// Package history journals gateway calls to a local SQLite database and
// aggregates them per operation.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/studiowebux/moviecli/internal/migrations"
	"github.com/studiowebux/moviecli/internal/types"
)

// Fixed-width UTC layout so that text ordering matches time ordering
const timestampLayout = "2006-01-02 15:04:05.000000"

type Manager struct {
	db *sql.DB
}

func NewManager(dbPath string) (*Manager, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Manager{db: db}, nil
}

// RecordCall appends one call to the journal
func (m *Manager) RecordCall(call types.CallRecord) error {
	ts := call.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	var errMsg sql.NullString
	if call.Error != "" {
		errMsg = sql.NullString{String: call.Error, Valid: true}
	}

	_, err := m.db.Exec(`
		INSERT INTO calls (
			timestamp, operation, method, url, status,
			duration_ms, request_size, error, profile_name
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ts.UTC().Format(timestampLayout),
		string(call.Operation),
		call.Method,
		call.URL,
		call.Status,
		call.Duration,
		call.RequestSize,
		errMsg,
		call.ProfileName,
	)
	if err != nil {
		return fmt.Errorf("failed to save call: %w", err)
	}

	return nil
}

// Load returns the most recent calls first. An empty profile matches every
// profile and a limit <= 0 returns everything.
func (m *Manager) Load(profileName string, limit int) ([]types.CallRecord, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := m.db.Query(`
		SELECT id, timestamp, operation, method, url, status,
		       duration_ms, request_size, error, profile_name
		FROM calls
		WHERE ? = '' OR profile_name = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`,
		profileName, profileName, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	return m.scanCalls(rows)
}

func (m *Manager) scanCalls(rows *sql.Rows) ([]types.CallRecord, error) {
	var calls []types.CallRecord

	for rows.Next() {
		var call types.CallRecord
		var timestamp string
		var operation string
		var errMsg sql.NullString

		err := rows.Scan(
			&call.ID,
			&timestamp,
			&operation,
			&call.Method,
			&call.URL,
			&call.Status,
			&call.Duration,
			&call.RequestSize,
			&errMsg,
			&call.ProfileName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan call: %w", err)
		}

		call.Timestamp = parseTimestamp(timestamp)
		call.Operation = types.Operation(operation)
		call.Error = errMsg.String
		calls = append(calls, call)
	}

	return calls, rows.Err()
}

// Clear removes journaled calls. An empty profile clears everything.
func (m *Manager) Clear(profileName string) error {
	_, err := m.db.Exec("DELETE FROM calls WHERE ? = '' OR profile_name = ?", profileName, profileName)
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

func (m *Manager) GetCount() (int, error) {
	var count int
	err := m.db.QueryRow("SELECT COUNT(*) FROM calls").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get history count: %w", err)
	}
	return count, nil
}

func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

func parseTimestamp(s string) time.Time {
	t, err := time.ParseInLocation(timestampLayout, s, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t.Local()
}
