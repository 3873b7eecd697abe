package store

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// sqlDateTime is the text layout for order timestamps. They are stamped
// and queried as local wall-clock time, so a day on a report is the
// restaurant's day, not the UTC one.
const sqlDateTime = "2006-01-02 15:04:05"

type Store struct {
	DB *sql.DB
}

func NewStore(dataSourceName string) (*Store, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, err
	}

	// Single local writer. One connection sidesteps SQLITE_BUSY and keeps
	// in-memory databases coherent across the pool.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		return nil, err
	}

	return &Store{DB: db}, nil
}

// schemaSteps is the canonical schema, expressed as ordered versioned steps.
// PRAGMA user_version records how many have been applied, so adding a step
// upgrades existing installs in place.
var schemaSteps = []string{
	`
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		role TEXT NOT NULL CHECK(role IN ('Admin', 'Server')),
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS tables (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		capacity INTEGER NOT NULL CHECK(capacity > 0)
	);

	CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		price REAL NOT NULL CHECK(price >= 0),
		category TEXT NOT NULL,
		image_url TEXT DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS orders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		table_id INTEGER NOT NULL REFERENCES tables(id),
		user_id INTEGER NOT NULL REFERENCES users(id),
		status TEXT NOT NULL CHECK(status IN ('open', 'closed')),
		total_amount REAL,
		receipt_ref TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		closed_at DATETIME
	);

	CREATE TABLE IF NOT EXISTS order_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		order_id INTEGER NOT NULL REFERENCES orders(id),
		product_id INTEGER NOT NULL REFERENCES products(id),
		quantity INTEGER NOT NULL CHECK(quantity > 0),
		price_at_time REAL NOT NULL,
		UNIQUE(order_id, product_id)
	);

	-- Backstop for the at-most-one-open-order-per-table invariant. The
	-- store also checks inside the CreateOrder transaction so callers get
	-- ErrTableOccupied instead of a constraint error.
	CREATE UNIQUE INDEX IF NOT EXISTS uq_orders_open_table
		ON orders(table_id) WHERE status = 'open';
	`,
}

// InitSchema applies any schema steps this database has not seen yet.
// Re-running on a current database is a no-op.
func (s *Store) InitSchema() error {
	var version int
	if err := s.DB.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for i := version; i < len(schemaSteps); i++ {
		slog.Info("Applying schema step", "version", i+1)

		tx, err := s.DB.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(schemaSteps[i]); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to apply schema step %d: %w", i+1, err)
		}
		if _, err := tx.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, i+1)); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record schema step %d: %w", i+1, err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}

	return nil
}
