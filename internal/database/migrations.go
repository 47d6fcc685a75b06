package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"inventory-ledger/internal/config"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations/sqlite3/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// addQuantityVersion adds products.quantity to data files created before
// the column existed. CREATE TABLE IF NOT EXISTS leaves such tables alone.
const addQuantityVersion = 2

// EnsureSchema brings the data store up to the current schema. It is safe to
// run on every start: tables are created only when missing, the quantity
// column is added only when absent, and nothing is ever dropped. Any error
// means the store cannot be used.
func EnsureSchema(ctx context.Context, db *DB, logger *zap.Logger) error {
	provider, err := newProvider(db)
	if err != nil {
		return err
	}

	logger.Info("Checking for pending migrations...",
		zap.String("driver", db.Driver()),
		zap.String("source", db.Source()),
	)

	results, err := provider.Up(ctx)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return fmt.Errorf("failed to run migrations: %w", Classify(err))
	}

	for _, result := range results {
		logger.Info("Applied migration",
			zap.Int64("version", result.Source.Version),
			zap.String("path", result.Source.Path),
			zap.Duration("duration", result.Duration),
		)
	}

	logger.Info("Migrations completed successfully", zap.Int("applied", len(results)))
	return nil
}

// MigrationState is one row of SchemaStatus
type MigrationState struct {
	Version int64
	Source  string
	Applied bool
}

// SchemaStatus returns every known migration and whether it has been applied
func SchemaStatus(ctx context.Context, db *DB) ([]MigrationState, error) {
	provider, err := newProvider(db)
	if err != nil {
		return nil, err
	}

	statuses, err := provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get migration status: %w", Classify(err))
	}

	states := make([]MigrationState, 0, len(statuses))
	for _, status := range statuses {
		source := status.Source.Path
		if source == "" {
			source = "go: add products.quantity"
		}
		states = append(states, MigrationState{
			Version: status.Source.Version,
			Source:  source,
			Applied: status.State == goose.StateApplied,
		})
	}
	return states, nil
}

func newProvider(db *DB) (*goose.Provider, error) {
	var (
		dialect goose.Dialect
		dir     string
	)
	switch db.Driver() {
	case config.DriverSQLite:
		dialect, dir = goose.DialectSQLite3, "migrations/sqlite3"
	case config.DriverPostgres:
		dialect, dir = goose.DialectPostgres, "migrations/postgres"
	default:
		return nil, fmt.Errorf("no migrations for driver %q", db.Driver())
	}

	fsys, err := fs.Sub(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	addQuantity := goose.NewGoMigration(addQuantityVersion,
		&goose.GoFunc{RunTx: addQuantityColumn(db.Driver()), Mode: goose.TransactionEnabled},
		&goose.GoFunc{RunTx: dropQuantityColumn, Mode: goose.TransactionEnabled},
	)

	provider, err := goose.NewProvider(dialect, db.DB, fsys, goose.WithGoMigrations(addQuantity))
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return provider, nil
}

// addQuantityColumn treats "column already exists" as success. PostgreSQL
// gets IF NOT EXISTS because a failed statement would abort the migration
// transaction; SQLite has no such clause but keeps the transaction usable.
func addQuantityColumn(driver string) func(ctx context.Context, tx *sql.Tx) error {
	return func(ctx context.Context, tx *sql.Tx) error {
		stmt := `ALTER TABLE products ADD COLUMN quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0)`
		if driver == config.DriverPostgres {
			stmt = `ALTER TABLE products ADD COLUMN IF NOT EXISTS quantity BIGINT NOT NULL DEFAULT 0 CHECK (quantity >= 0)`
		}

		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			if isDuplicateColumn(err) {
				return nil
			}
			return fmt.Errorf("failed to add products.quantity: %w", err)
		}
		return nil
	}
}

func dropQuantityColumn(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `ALTER TABLE products DROP COLUMN quantity`); err != nil {
		return fmt.Errorf("failed to drop products.quantity: %w", err)
	}
	return nil
}
