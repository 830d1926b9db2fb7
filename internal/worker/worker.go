// Package worker wires the background job workers into River and runs them.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"wefund/internal/config"
	"wefund/internal/notify"
	"wefund/pkg/logger"
	"wefund/pkg/mailer"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"go.uber.org/zap/exp/zapslog"
)

// Options contains the configurable parameters of the worker pool.
type Options struct {
	// MaxWorkers caps concurrent job execution on the default queue.
	MaxWorkers int
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		MaxWorkers: cfg.Worker.MaxWorkers,
	}
}

// Start registers the delivery workers and starts the River client on the
// given pool. The returned client should be stopped on shutdown.
func Start(ctx context.Context,
	dbPool *pgxpool.Pool,
	notifier notify.Notifier,
	mailer mailer.Mailer,
	options Options,
) (*river.Client[pgx.Tx], error) {
	workers := river.NewWorkers()
	river.AddWorker(workers, NewPushWorker(notifier))
	river.AddWorker(workers, NewEmailWorker(mailer))

	riverClient, err := river.NewClient(riverpgxv5.New(dbPool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: options.MaxWorkers},
		},
		Workers: workers,
		Logger:  slog.New(zapslog.NewHandler(logger.Get(ctx).Core())),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create river queue client: %w", err)
	}

	if err := riverClient.Start(ctx); err != nil {
		return nil, fmt.Errorf("could not start river queue client: %w", err)
	}

	return riverClient, nil
}
