package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carmarket_backend/internal/cache"
	"carmarket_backend/internal/events"
	"carmarket_backend/internal/listings/repository"
	"carmarket_backend/internal/listings/search"
	"carmarket_backend/internal/listings/service"
	"carmarket_backend/internal/scheduler"
	"carmarket_backend/platform/config"
	"carmarket_backend/platform/db"
	"carmarket_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	eventBus := events.NewInMemoryBus(log)

	// The worker shares the cache invalidation path with the API: expiry
	// publishes listing events, and the cache subscriber clears categories.
	resultCache, err := cache.New(cfg, log)
	if err != nil {
		log.Error("failed to initialize result cache", "error", err)
		panic("failed to initialize result cache: " + err.Error())
	}
	defer func() { _ = resultCache.Close() }()
	resultCache.RegisterHandlers(eventBus)

	ranker := search.RankerConfig{
		MaxResults:   cfg.GetSimilarMaxResults(),
		YearWindow:   cfg.GetSimilarYearWindow(),
		PriceBandPct: cfg.GetSimilarPriceBandPct(),
	}
	listingsService := service.New(repository.New(pool), resultCache, eventBus, ranker, log)

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		panic("failed to initialize scheduler client: " + err.Error())
	}
	defer func() { _ = client.Close() }()

	go enqueueLoop(ctx, client, cfg.GetListingExpiryCadence(), log)

	worker, err := scheduler.NewWorker(cfg, listingsService, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

// enqueueLoop periodically schedules the stale-listing sweep.
func enqueueLoop(ctx context.Context, client *scheduler.Client, cadence time.Duration, log *logger.Logger) {
	if cadence <= 0 {
		cadence = 6 * time.Hour
	}

	ticker := time.NewTicker(cadence)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.EnqueueExpireStaleListings(ctx); err != nil {
				log.Error("failed to enqueue stale listing sweep", "error", err)
			}
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
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

	return errors.New(name + ": " + lastErr.Error())
}
