package database

import (
	"fmt"
	"time"

	"github.com/example/powerlang/pkg/models"
	"github.com/jmoiron/sqlx"
)

// migration is one step in the schema history. Steps are applied in
// order inside a transaction and recorded in schema_migrations, so
// running Migrate repeatedly is a no-op.
type migration struct {
	version int
	name    string
	apply   func(tx *sqlx.Tx) error
}

func migrations() []migration {
	return []migration{
		{
			version: 1,
			name:    "create dictionaries",
			apply: func(tx *sqlx.Tx) error {
				_, err := tx.Exec(fmt.Sprintf(`
					CREATE TABLE dictionaries (
						id %s,
						name TEXT NOT NULL UNIQUE
					)
				`, serialPK()))
				return err
			},
		},
		{
			version: 2,
			name:    "create words",
			apply: func(tx *sqlx.Tx) error {
				_, err := tx.Exec(fmt.Sprintf(`
					CREATE TABLE words (
						id %s,
						native_word TEXT NOT NULL,
						learned_word TEXT NOT NULL,
						notes TEXT NOT NULL DEFAULT '',
						dictionary_id BIGINT NOT NULL,
						FOREIGN KEY (dictionary_id) REFERENCES dictionaries (id)
					)
				`, serialPK()))
				return err
			},
		},
		{
			// The original schema grew these columns after release;
			// kept as a separate step so old databases upgrade in place.
			version: 3,
			name:    "add srs state to words",
			apply: func(tx *sqlx.Tx) error {
				stmts := []string{
					fmt.Sprintf("ALTER TABLE words ADD COLUMN easiness REAL NOT NULL DEFAULT %v", models.DefaultEasiness),
					fmt.Sprintf("ALTER TABLE words ADD COLUMN \"interval\" INTEGER NOT NULL DEFAULT %d", models.DefaultInterval),
					"ALTER TABLE words ADD COLUMN next_review_date TEXT NOT NULL DEFAULT ''",
				}
				for _, s := range stmts {
					if _, err := tx.Exec(s); err != nil {
						return err
					}
				}
				// Words that predate SRS tracking become due immediately.
				today := time.Now().Format(models.DateFormat)
				_, err := tx.Exec(rebind("UPDATE words SET next_review_date = ? WHERE next_review_date = ''"), today)
				return err
			},
		},
	}
}

// Migrate brings the schema up to date, applying any pending steps.
func Migrate() error {
	db := DB
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	applied := map[int]bool{}
	var versions []int
	if err := db.Select(&versions, "SELECT version FROM schema_migrations"); err != nil {
		return fmt.Errorf("failed to read schema_migrations: %w", err)
	}
	for _, v := range versions {
		applied[v] = true
	}

	for _, m := range migrations() {
		if applied[m.version] {
			continue
		}
		tx, err := db.Beginx()
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", m.version, err)
		}
		if err := m.apply(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", m.version, m.name, err)
		}
		_, err = tx.Exec(rebind("INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)"),
			m.version, m.name, time.Now())
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.version, err)
		}
	}

	return nil
}

// serialPK returns the auto-incrementing primary key clause for the
// active driver.
func serialPK() string {
	if DB.DriverName() == "postgres" {
		return "BIGSERIAL PRIMARY KEY"
	}
	return "INTEGER PRIMARY KEY AUTOINCREMENT"
}
