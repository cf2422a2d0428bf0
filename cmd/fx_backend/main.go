package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitermem "github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/talentforge/payroll-fx/internal/core/services"
	"github.com/talentforge/payroll-fx/internal/handlers"
	"github.com/talentforge/payroll-fx/internal/middleware"
	"github.com/talentforge/payroll-fx/internal/platform/cache"
	"github.com/talentforge/payroll-fx/internal/platform/config"
	"github.com/talentforge/payroll-fx/internal/repositories/database/pgsql"
	"github.com/talentforge/payroll-fx/pkg/database"

	portssvc "github.com/talentforge/payroll-fx/internal/core/ports/services"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Payroll FX API
// @version 1.0
// @description Exchange rate resolution and currency conversion service for payroll processing.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rateCache, err := buildRateCache(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize rate cache", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	serviceContainer := services.NewServiceContainer(cfg, repos, rateCache, logger)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, rate limiting)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())
	r.Use(buildRateLimiter(cfg, logger))

	err = r.SetTrustedProxies(nil)
	if err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildRateCache selects the configured cache backend.
func buildRateCache(cfg *config.Config, logger *slog.Logger) (portssvc.RateCache, error) {
	switch cfg.RateCacheBackend {
	case "redis":
		client, err := cache.NewRedisClient(context.Background(), cfg.RedisAddr)
		if err != nil {
			return nil, err
		}
		logger.Info("Using redis rate cache", slog.String("addr", cfg.RedisAddr))
		return cache.NewRedisRateCache(client, cfg.RateCacheTTL), nil
	default:
		logger.Info("Using in-memory rate cache")
		return cache.NewMemoryRateCache(cfg.RateCacheTTL), nil
	}
}

// buildRateLimiter builds the global IP rate limit middleware from config.
func buildRateLimiter(cfg *config.Config, logger *slog.Logger) gin.HandlerFunc {
	rate, err := limiter.NewRateFromFormatted(cfg.RateLimitSpec)
	if err != nil {
		logger.Warn("Invalid rate limit spec, defaulting to 300-M", slog.String("spec", cfg.RateLimitSpec))
		rate, _ = limiter.NewRateFromFormatted("300-M")
	}
	store := limitermem.NewStore()
	return middleware.RateLimit(limiter.New(store, rate))
}

// runMigrations applies all pending database migrations.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")
	// Open a temporary standard sql.DB connection for migrations
	// Using pgx/v5/stdlib driver to be compatible with the main pool
	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if err := migrationDB.Ping(); err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
