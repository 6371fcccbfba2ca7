package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// InitSchema creates the persisted state layout. Statements are idempotent
// and run in one transaction.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS restaurants (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			lat REAL,
			lng REAL,
			active INTEGER NOT NULL DEFAULT 1
		);`,

		`CREATE TABLE IF NOT EXISTS organizations (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			lat REAL NOT NULL,
			lng REAL NOT NULL,
			active INTEGER NOT NULL DEFAULT 1,
			last_received_at TIMESTAMP
		);`,

		`CREATE TABLE IF NOT EXISTS partnerships (
			restaurant_id TEXT NOT NULL,
			organization_id TEXT NOT NULL,
			PRIMARY KEY (restaurant_id, organization_id)
		);`,

		`CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			unit TEXT NOT NULL
		);`,

		`CREATE TABLE IF NOT EXISTS packages (
			id TEXT PRIMARY KEY,
			restaurant_id TEXT NOT NULL,
			item_id TEXT NOT NULL,
			quantity REAL NOT NULL,
			label_code TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			expires_at TIMESTAMP
		);`,

		`CREATE INDEX IF NOT EXISTS idx_packages_restaurant_status
			ON packages (restaurant_id, status);`,

		`CREATE TABLE IF NOT EXISTS donations (
			id TEXT PRIMARY KEY,
			restaurant_id TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			picked_up_at TIMESTAMP
		);`,

		`CREATE TABLE IF NOT EXISTS donation_packages (
			donation_id TEXT NOT NULL,
			package_id TEXT NOT NULL,
			PRIMARY KEY (donation_id, package_id)
		);`,

		`CREATE TABLE IF NOT EXISTS donation_intents (
			id TEXT PRIMARY KEY,
			donation_id TEXT NOT NULL,
			organization_id TEXT NOT NULL,
			security_code TEXT NOT NULL UNIQUE,
			status TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			expires_at TIMESTAMP NOT NULL
		);`,

		`CREATE INDEX IF NOT EXISTS idx_intents_donation
			ON donation_intents (donation_id, created_at);`,

		`CREATE INDEX IF NOT EXISTS idx_intents_due
			ON donation_intents (status, expires_at);`,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
