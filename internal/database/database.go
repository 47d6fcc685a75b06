package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"inventory-ledger/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// sqliteParams are applied by the driver to every connection it opens:
// WAL for reads during writes, a 5s busy timeout for lock contention and
// foreign key enforcement for bill_items.bill_id.
const sqliteParams = "_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL&_synchronous=NORMAL"

// DB is the storage handle shared by every repository. It is opened once at
// startup and closed once at shutdown.
type DB struct {
	*sql.DB
	driver string
	source string
}

// Open opens the configured data store and verifies it is reachable. For
// sqlite3 the parent directory of the data file is created when missing.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	var (
		sqlDB *sql.DB
		err   error
	)

	switch cfg.Driver {
	case config.DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("%w: failed to create data directory: %w", ErrStorageUnavailable, err)
		}
		sqlDB, err = sql.Open("sqlite3", cfg.Path+"?"+sqliteParams)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to open database: %w", ErrStorageUnavailable, err)
		}
		// SQLite allows one writer at a time; a single pooled connection
		// keeps every transaction on the same handle and avoids SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	case config.DriverPostgres:
		sqlDB, err = sql.Open("pgx", cfg.DSN())
		if err != nil {
			return nil, fmt.Errorf("%w: failed to open database: %w", ErrStorageUnavailable, err)
		}
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("%w: failed to connect to database: %w", ErrStorageUnavailable, err)
	}

	source := cfg.Path
	if cfg.Driver == config.DriverPostgres {
		source = fmt.Sprintf("%s:%s/%s", cfg.Host, cfg.Port, cfg.Database)
	}

	return &DB{DB: sqlDB, driver: cfg.Driver, source: source}, nil
}

// Driver returns the database/sql driver name in use
func (db *DB) Driver() string {
	return db.driver
}

// Source describes where the data lives, without credentials
func (db *DB) Source() string {
	return db.source
}

// Health reports connectivity and pool statistics
func (db *DB) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	stats := map[string]string{
		"driver": db.driver,
		"source": db.source,
	}

	if err := db.PingContext(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		return stats
	}

	dbStats := db.Stats()
	stats["status"] = "up"
	stats["open_connections"] = strconv.Itoa(dbStats.OpenConnections)
	stats["in_use"] = strconv.Itoa(dbStats.InUse)
	stats["idle"] = strconv.Itoa(dbStats.Idle)
	stats["wait_count"] = strconv.FormatInt(dbStats.WaitCount, 10)

	return stats
}
