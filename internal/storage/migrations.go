package storage

import (
	"fmt"
)

// RunMigrations applies any pending database migrations
func (db *SQLite) RunMigrations() error {
	// Databases created by hand may lack the table
	if _, err := db.conn.Exec(`CREATE TABLE IF NOT EXISTS kv (key TEXT PRIMARY KEY, value TEXT NOT NULL)`); err != nil {
		return fmt.Errorf("ensuring kv table: %w", err)
	}

	return db.runUpdatedAtMigration()
}

// runUpdatedAtMigration adds the column Set stamps on every write
func (db *SQLite) runUpdatedAtMigration() error {
	var count int
	err := db.conn.QueryRow(`
		SELECT COUNT(*)
		FROM pragma_table_info('kv')
		WHERE name = 'updated_at'
	`).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking for updated_at column: %w", err)
	}

	if count == 1 {
		return nil
	}

	// SQLite refuses non-constant defaults in ALTER TABLE, so existing rows get NULL
	if _, err := db.conn.Exec(`ALTER TABLE kv ADD COLUMN updated_at DATETIME`); err != nil {
		return fmt.Errorf("adding updated_at column: %w", err)
	}

	return nil
}
