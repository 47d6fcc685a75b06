package server

import (
	"fmt"
	"net/http"
	"time"

	"inventory-ledger/internal/clock"
	"inventory-ledger/internal/config"
	"inventory-ledger/internal/database"
	custommiddleware "inventory-ledger/internal/middleware"
	"inventory-ledger/internal/repository"
	"inventory-ledger/internal/service"
	"inventory-ledger/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *database.DB
	redis  redis.UniversalClient
}

// NewServer wires the ledger stores, services and handlers onto one router.
// redisClient may be nil, in which case requests are not rate limited.
func NewServer(cfg *config.Config, logger *zap.Logger, db *database.DB, clk clock.Clock, redisClient redis.UniversalClient) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.IsDevelopment()))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		stats := db.Health(r.Context())
		status := http.StatusOK
		if stats["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
		custommiddleware.RespondWithJSON(w, status, stats)
	})

	// Initialize repositories
	archiveRepo := repository.NewArchiveRepository(db)
	productRepo := repository.NewProductRepository(db, clk, archiveRepo)
	billRepo := repository.NewBillRepository(db, clk)

	// Initialize services
	inventoryService := service.NewInventoryService(productRepo, archiveRepo, logger)
	billingService := service.NewBillingService(billRepo, logger)

	// Initialize handlers
	productHandler := transport.NewProductHandler(inventoryService, logger)
	billHandler := transport.NewBillHandler(billingService, logger)

	// Without a secret the API trusts the local host and every caller may
	// mutate the ledger.
	guard := func(next http.Handler) http.Handler { return next }

	router.Group(func(r chi.Router) {
		r.Use(custommiddleware.RequireJSON(logger))

		if cfg.Auth.Secret != "" {
			tokenService := service.NewTokenService(cfg.Auth.Secret)
			r.Use(custommiddleware.AuthMiddleware(tokenService, logger))
			guard = custommiddleware.RequireOperator(logger)
		} else {
			logger.Warn("AUTH_SECRET is not set, API is open to every local caller")
		}

		if redisClient != nil {
			r.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
				RequestsPerWindow: cfg.RateLimit.Requests,
				Window:            cfg.RateLimit.Window,
				KeyPrefix:         "ledger:ratelimit",
			}, logger))
		}

		// Register routes
		productHandler.RegisterRoutes(r, guard)
		billHandler.RegisterRoutes(r, guard)
	})

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server
}

// NewRedisClient connects to the configured Redis, or returns nil when no
// address is set
func NewRedisClient(cfg config.RedisConfig) redis.UniversalClient {
	if cfg.Addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
