package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carmarket_backend/internal/cache"
	"carmarket_backend/internal/dealers"
	"carmarket_backend/internal/events"
	"carmarket_backend/internal/favorites"
	apphttp "carmarket_backend/internal/http"
	"carmarket_backend/internal/http/router"
	"carmarket_backend/internal/listings"
	"carmarket_backend/internal/listings/search"
	"carmarket_backend/internal/messages"
	"carmarket_backend/internal/ratelimit"
	"carmarket_backend/platform/config"
	"carmarket_backend/platform/db"
	"carmarket_backend/platform/logger"
	"carmarket_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Result cache; degrades to passthrough when redis is unavailable
	resultCache, err := cache.New(cfg, log)
	if err != nil {
		log.Error("failed to initialize result cache", "error", err)
		panic("failed to initialize result cache: " + err.Error())
	}
	defer func() { _ = resultCache.Close() }()
	resultCache.RegisterHandlers(eventBus)

	// Admission controller for the public read endpoints
	admission := ratelimit.New(cfg, log)
	admission.StartJanitor(ctx)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	ranker := search.RankerConfig{
		MaxResults:   cfg.GetSimilarMaxResults(),
		YearWindow:   cfg.GetSimilarYearWindow(),
		PriceBandPct: cfg.GetSimilarPriceBandPct(),
	}

	listingsModule := listings.NewModule(pool, resultCache, eventBus, ranker, val, log)
	dealersModule := dealers.NewModule(pool, resultCache, eventBus, val, log)
	favoritesModule := favorites.NewModule(pool)
	messagesModule := messages.NewModule(pool, eventBus, val, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:    cfg,
		Logger:    log,
		Health:    db.NewPoolAdapter(pool),
		EventBus:  eventBus,
		Admission: admission,
		Modules: []apphttp.Module{
			listingsModule,
			dealersModule,
			favoritesModule,
			messagesModule,
		},
	}

	engine := router.New(app)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: engine,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return fmt.Errorf("%s: %w", name, lastErr)
}
