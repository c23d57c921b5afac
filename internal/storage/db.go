package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"hypr-minimize/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

// DB records minimize/restore events for the history command.
type DB struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp DATETIME NOT NULL,
    action TEXT NOT NULL,
    address TEXT NOT NULL,
    class TEXT NOT NULL,
    title TEXT NOT NULL,
    workspace_id INTEGER NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// New opens (creating if needed) the history database under the user
// config directory.
func New() (*DB, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user config directory: %w", err)
	}

	dbDir := filepath.Join(configDir, "hypr-minimize")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	return open(filepath.Join(dbDir, "history.db"))
}

func open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL mode for concurrent minimizer instances
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Add appends a history entry.
func (d *DB) Add(entry models.HistoryEntry) error {
	query := `
		INSERT INTO history (timestamp, action, address, class, title, workspace_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := d.db.Exec(query,
		entry.Timestamp,
		entry.Action,
		entry.Address,
		entry.Class,
		entry.Title,
		entry.WorkspaceID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}
	return nil
}

// Recent returns the newest entries, most recent first.
func (d *DB) Recent(limit int) ([]models.HistoryEntry, error) {
	query := `
		SELECT timestamp, action, address, class, title, workspace_id
		FROM history
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`
	rows, err := d.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []models.HistoryEntry
	for rows.Next() {
		var entry models.HistoryEntry
		if err := rows.Scan(
			&entry.Timestamp,
			&entry.Action,
			&entry.Address,
			&entry.Class,
			&entry.Title,
			&entry.WorkspaceID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
