package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	DefaultDBName = "bookfreq.db"
)

// DB is the storage handle. Open it once at start and Close it at shutdown.
type DB struct {
	*sql.DB
	driver string
	dsn    string
}

// openDB opens a connection pool for the given driver
func openDB(driver, dsn string) (*sql.DB, error) {
	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	switch driver {
	case DriverSQLite:
		// One connection: a single writer, and :memory: databases stay shared.
		sqlDB.SetMaxOpenConns(1)

		if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
			_ = sqlDB.Close() // Close error less important than PRAGMA error
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	case DriverPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := sqlDB.PingContext(ctx); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed to ping postgres: %w", err)
		}
	default:
		_ = sqlDB.Close()
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	return sqlDB, nil
}

// Open opens or creates the database and makes sure the schema exists.
func Open(driver, dsn string) (*DB, error) {
	if dsn == "" && driver == DriverSQLite {
		dsn = DefaultDBName
	}

	sqlDB, err := openDB(driver, dsn)
	if err != nil {
		return nil, err
	}

	db := &DB{
		DB:     sqlDB,
		driver: driver,
		dsn:    dsn,
	}

	if err := db.InitSchema(); err != nil {
		_ = db.Close() // Close error less important than schema error
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

// Path returns the data source the handle was opened with
func (db *DB) Path() string {
	return db.dsn
}

// Driver returns the driver name.
func (db *DB) Driver() string {
	return db.driver
}

// InitSchema creates the tables if they don't exist
func (db *DB) InitSchema() error {
	_, err := db.Exec(schemaFor(db.driver))
	return err
}

// InTx runs fn inside a transaction, rolling back on error.
func (db *DB) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("failed to roll back transaction after error %v: %w", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
