package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// Connect establishes a connection to the database. SQLite is the
// default backend; setting DATABASE_URL switches to PostgreSQL.
func Connect() error {
	var db *sqlx.DB
	var err error

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err = sqlx.Connect("postgres", dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
	} else {
		dataDir := os.Getenv("POWERLANG_DATA_DIR")
		if dataDir == "" {
			dataDir = "data"
		}
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}

		dbPath := filepath.Join(dataDir, "powerlang.db")
		db, err = sqlx.Connect("sqlite3", dbPath)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}

		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return fmt.Errorf("failed to enable foreign keys: %w", err)
		}

		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	DB = db

	return Migrate()
}

// ConnectMemory opens a fresh in-memory SQLite database and migrates
// it. Used by tests that need a throwaway database.
func ConnectMemory() error {
	db, err := sqlx.Connect("sqlite3", ":memory:")
	if err != nil {
		return fmt.Errorf("failed to open in-memory database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	// One connection, or each pool member would see its own empty DB.
	db.SetMaxOpenConns(1)
	DB = db
	return Migrate()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// rebind converts ? placeholders to the driver's native form, so the
// same query text serves SQLite and PostgreSQL.
func rebind(query string) string {
	return DB.Rebind(query)
}
