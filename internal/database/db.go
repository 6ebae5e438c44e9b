package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // PostgreSQL
	_ "github.com/mattn/go-sqlite3" // SQLite for local runs
	"github.com/rs/zerolog/log"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// ParseURL maps DATABASE_URL to a driver name and the DSN that driver expects
func ParseURL(databaseURL string) (driver, dsn string) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return DriverPostgres, databaseURL
	case strings.HasPrefix(databaseURL, "sqlite://"):
		return DriverSQLite, strings.TrimPrefix(databaseURL, "sqlite://")
	case strings.HasPrefix(databaseURL, "file:"), databaseURL == ":memory:":
		return DriverSQLite, databaseURL
	case strings.HasPrefix(databaseURL, "mysql://"):
		return DriverMySQL, strings.TrimPrefix(databaseURL, "mysql://")
	default:
		return DriverMySQL, databaseURL
	}
}

// New creates a new database connection (PostgreSQL, MySQL or SQLite)
func New(databaseURL string) (*sqlx.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}

	driver, dsn := ParseURL(databaseURL)
	if driver == DriverMySQL && !strings.Contains(dsn, "parseTime=") {
		// received_at and created_at scan into time.Time
		if strings.Contains(dsn, "?") {
			dsn += "&parseTime=true"
		} else {
			dsn += "?parseTime=true"
		}
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool settings
	if driver == DriverSQLite {
		// single writer
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
	}
	db.SetConnMaxLifetime(time.Hour)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// TimestampType returns the column type for stored times. MySQL TIMESTAMP
// keeps whole seconds unless a fractional precision is given.
func TimestampType(driver string) string {
	if driver == DriverMySQL {
		return "TIMESTAMP(6)"
	}
	return "TIMESTAMP"
}

// readOnlyTx marks store reads as read-only at the driver level
var readOnlyTx = &sql.TxOptions{ReadOnly: true}

// ExecuteReadOnlyQuery executes a query within a read-only transaction that is never committed
func ExecuteReadOnlyQuery(ctx context.Context, db *sqlx.DB, dest interface{}, query string, args ...interface{}) error {
	tx, err := db.BeginTxx(ctx, readOnlyTx)
	if err != nil {
		return fmt.Errorf("failed to begin read-only transaction: %w", err)
	}
	defer rollback(tx)

	if err := tx.SelectContext(ctx, dest, query, args...); err != nil {
		return fmt.Errorf("failed to execute read-only query: %w", err)
	}

	return nil
}

// ExecuteReadOnlyQuerySingle executes a single-row query within a read-only transaction
func ExecuteReadOnlyQuerySingle(ctx context.Context, db *sqlx.DB, dest interface{}, query string, args ...interface{}) error {
	tx, err := db.BeginTxx(ctx, readOnlyTx)
	if err != nil {
		return fmt.Errorf("failed to begin read-only transaction: %w", err)
	}
	defer rollback(tx)

	if err := tx.GetContext(ctx, dest, query, args...); err != nil {
		return fmt.Errorf("failed to execute read-only query: %w", err)
	}

	return nil
}

// ExecuteReadOnlyPing executes a ping within a read-only transaction
func ExecuteReadOnlyPing(ctx context.Context, db *sqlx.DB) error {
	tx, err := db.BeginTxx(ctx, readOnlyTx)
	if err != nil {
		return fmt.Errorf("failed to begin read-only transaction: %w", err)
	}
	defer rollback(tx)

	var result int
	if err := tx.GetContext(ctx, &result, "SELECT 1"); err != nil {
		return fmt.Errorf("failed to execute read-only ping query: %w", err)
	}

	return nil
}

// Always rollback, read-only transactions are never committed
func rollback(tx *sqlx.Tx) {
	if err := tx.Rollback(); err != nil {
		log.Warn().Err(err).Msg("Error rolling back read-only transaction")
	}
}
