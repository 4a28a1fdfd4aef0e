package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"notekeep/config"
)

const createNotesMySQL = `CREATE TABLE IF NOT EXISTS notes (
	id_note BIGINT AUTO_INCREMENT PRIMARY KEY,
	title TEXT NOT NULL,
	category VARCHAR(255) NOT NULL DEFAULT 'Uncategorized',
	description MEDIUMTEXT NOT NULL,
	cover TEXT NOT NULL,
	created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	is_pinned BOOLEAN NOT NULL DEFAULT FALSE,
	is_archived BOOLEAN NOT NULL DEFAULT FALSE,
	is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
	INDEX idx_notes_state (is_deleted, is_archived),
	INDEX idx_notes_created (created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

const createNotesSQLite = `CREATE TABLE IF NOT EXISTS notes (
	id_note INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	category TEXT NOT NULL DEFAULT 'Uncategorized',
	description TEXT NOT NULL,
	cover TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	is_pinned BOOLEAN NOT NULL DEFAULT 0,
	is_archived BOOLEAN NOT NULL DEFAULT 0,
	is_deleted BOOLEAN NOT NULL DEFAULT 0
);`

var sqliteIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_notes_state ON notes (is_deleted, is_archived);`,
	`CREATE INDEX IF NOT EXISTS idx_notes_created ON notes (created_at);`,
}

// SetupSchema creates the notes table and its indexes when missing. It is
// idempotent and is not a migration system.
func SetupSchema(ctx context.Context, db *sql.DB, driver string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var stmts []string
	switch driver {
	case config.DriverMySQL:
		stmts = []string{createNotesMySQL}
	case config.DriverSQLite:
		stmts = append([]string{createNotesSQLite}, sqliteIndexes...)
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create notes schema: %w", err)
		}
	}
	return nil
}
