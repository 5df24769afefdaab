package storage

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is bumped whenever InitDB changes the schema.
const SchemaVersion = 1

// InitDB initializes the loader tables that feed the dashboard views.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode enabled
func InitDB(db *sql.DB) error {
	// WAL is unsupported for :memory: databases; the pragma is a no-op there.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS appointment (
		id TEXT PRIMARY KEY,
		appointment_date TEXT NOT NULL,
		application_number TEXT NOT NULL DEFAULT '',
		membership_number TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		mobile TEXT NOT NULL DEFAULT '',
		time_and_date TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_appointment_date ON appointment(appointment_date);

	CREATE TABLE IF NOT EXISTS announcement (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		announced_on TEXT NOT NULL,
		details TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS event (
		id TEXT PRIMARY KEY,
		event_name TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		venue TEXT NOT NULL,
		cme_points TEXT NOT NULL,
		website TEXT NOT NULL
	);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}
