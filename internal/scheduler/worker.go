package scheduler

import (
	"context"
	"time"

	"carmarket_backend/platform/config"
	"carmarket_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// StaleExpirer deactivates listings older than the given age. Implemented by
// the listings service.
type StaleExpirer interface {
	ExpireStale(ctx context.Context, age time.Duration) (int, error)
}

// Worker processes background tasks.
type Worker struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	expirer StaleExpirer
	cfg     config.SchedulerConfig
	log     *logger.Logger
}

// NewWorker builds the asynq server and registers task handlers.
func NewWorker(cfg config.SchedulerConfig, expirer StaleExpirer, log *logger.Logger) (*Worker, error) {
	opt, err := redisClientOpt(cfg.GetRedisURL())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:  server,
		mux:     mux,
		expirer: expirer,
		cfg:     cfg,
		log:     log,
	}

	mux.HandleFunc(TaskExpireStaleListings, w.handleExpireStaleListings)

	return w, nil
}

func (w *Worker) handleExpireStaleListings(ctx context.Context, task *asynq.Task) error {
	if _, err := ParseExpireStaleListingsPayload(task); err != nil {
		return err
	}

	expired, err := w.expirer.ExpireStale(ctx, w.cfg.GetListingExpiryAge())
	if err != nil {
		return err
	}

	w.log.Info("stale listing sweep completed", "expired", expired)
	return nil
}

// Run blocks processing tasks until the context is canceled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
