// Package worker runs periodic maintenance jobs until shutdown.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Job is a unit of periodic work. Run reports how many items it processed.
type Job interface {
	Name() string
	Run(ctx context.Context) (int64, error)
}

// Config holds worker configuration
type Config struct {
	// WorkerID uniquely identifies this worker instance
	WorkerID string

	// PollInterval is how often the jobs run
	PollInterval time.Duration

	// Timeout bounds a single job run
	Timeout time.Duration

	// RunOnStart runs every job once before the first tick
	RunOnStart bool
}

// Worker processes periodic jobs
type Worker struct {
	config Config
	jobs   []Job
	logger zerolog.Logger
}

// NewWorker creates a new periodic job worker
func NewWorker(config Config, logger zerolog.Logger, jobs ...Job) *Worker {
	if config.WorkerID == "" {
		config.WorkerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}
	if config.PollInterval == 0 {
		config.PollInterval = time.Hour
	}
	if config.Timeout == 0 {
		config.Timeout = time.Minute
	}

	return &Worker{
		config: config,
		jobs:   jobs,
		logger: logger.With().Str("worker_id", config.WorkerID).Logger(),
	}
}

// Start runs the jobs on every tick until the context is cancelled. Jobs run
// one after another so a slow run never overlaps the next tick.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info().
		Dur("poll_interval", w.config.PollInterval).
		Int("jobs", len(w.jobs)).
		Msg("worker starting")

	if w.config.RunOnStart {
		w.runAll(ctx)
	}

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("worker shutting down")
			return nil
		case <-ticker.C:
			w.runAll(ctx)
		}
	}
}

func (w *Worker) runAll(ctx context.Context) {
	for _, job := range w.jobs {
		if ctx.Err() != nil {
			return
		}
		w.process(ctx, job)
	}
}

func (w *Worker) process(ctx context.Context, job Job) {
	jobCtx, cancel := context.WithTimeout(ctx, w.config.Timeout)
	defer cancel()

	start := time.Now()
	n, err := job.Run(jobCtx)
	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return
		}
		w.logger.Error().
			Err(err).
			Str("job_type", job.Name()).
			Msg("job failed")
		return
	}

	w.logger.Debug().
		Str("job_type", job.Name()).
		Int64("processed", n).
		Dur("duration", time.Since(start)).
		Msg("job completed")
}
