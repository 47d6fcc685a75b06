package cli

import (
	"context"

	"inventory-ledger/internal/config"
	"inventory-ledger/internal/database"
	"inventory-ledger/internal/logger"
	"inventory-ledger/internal/repository"
	"inventory-ledger/internal/service"

	"go.uber.org/zap"
)

// session is one open ledger for the lifetime of a command
type session struct {
	cfg       *config.Config
	db        *database.DB
	logger    *zap.Logger
	inventory service.InventoryService
	billing   service.BillingService
}

// loadConfig reads configuration and applies the --db override
func loadConfig(opts *RootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load configuration", err)
	}

	if opts.Database != "" {
		path, err := config.ResolveDataPath(opts.Database)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "invalid --db path", err)
		}
		cfg.Database.Driver = config.DriverSQLite
		cfg.Database.Path = path
	}

	return cfg, nil
}

// openSession opens the store once and, when migrate is set, brings the
// schema up to date before any command touches it
func openSession(ctx context.Context, opts *RootOptions, migrate bool) (*session, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	log, err := logger.NewForCLI(opts.Verbose)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to initialize logger", err)
	}

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	log.Debug("Opened ledger", zap.String("driver", db.Driver()), zap.String("source", db.Source()))

	if migrate {
		if err := database.EnsureSchema(ctx, db, log); err != nil {
			db.Close()
			return nil, WrapExitError(ExitCommandError, "failed to prepare schema", err)
		}
	}

	archiveRepo := repository.NewArchiveRepository(db)
	productRepo := repository.NewProductRepository(db, opts.clock, archiveRepo)
	billRepo := repository.NewBillRepository(db, opts.clock)

	return &session{
		cfg:       cfg,
		db:        db,
		logger:    log,
		inventory: service.NewInventoryService(productRepo, archiveRepo, log),
		billing:   service.NewBillingService(billRepo, log),
	}, nil
}

func (s *session) Close() {
	if err := s.db.Close(); err != nil {
		s.logger.Warn("Failed to close database", zap.Error(err))
	}
	s.logger.Sync()
}
