// Package worker runs the background dispatch retry loop.
package worker

import (
	"context"
	"log/slog"
	"time"

	"tripwatch/config"
	"tripwatch/internal/delivery"
	"tripwatch/internal/usecase"

	"go.uber.org/fx"
)

// retryWorker polls for due notification dispatches and retries them. It is
// the only component that advances a dispatch after the inline first attempt
// fails.
type retryWorker struct {
	cfg        *config.Config
	logger     *slog.Logger
	dispatchUC usecase.DispatchUsecase
	stop       chan struct{}
}

// Params holds dependencies for the retry worker
type Params struct {
	fx.In

	Lc         fx.Lifecycle
	Cfg        *config.Config
	Logger     *slog.Logger
	DispatchUC usecase.DispatchUsecase
}

// NewRetryWorker creates the dispatch retry worker
func NewRetryWorker(params Params) delivery.Delivery {
	w := &retryWorker{
		cfg:        params.Cfg,
		logger:     params.Logger,
		dispatchUC: params.DispatchUC,
		stop:       make(chan struct{}),
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			close(w.stop)

			return nil
		},
	})

	return w
}

// Serve runs the poll loop until the context is cancelled or the worker is
// stopped.
func (w *retryWorker) Serve(ctx context.Context) error {
	interval := w.cfg.Pipeline.RetryPollInterval
	w.logger.Info("Starting dispatch retry worker", slog.Duration("pollInterval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stop:
			w.logger.Info("Dispatch retry worker stopped")

			return nil
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *retryWorker) tick(ctx context.Context) {
	attempted, err := w.dispatchUC.ProcessDue(ctx)
	if err != nil {
		w.logger.Error("Dispatch retry pass failed", slog.Any("error", err))

		return
	}
	if attempted > 0 {
		w.logger.Info("Dispatch retry pass completed", slog.Int("attempted", attempted))
	}
}
