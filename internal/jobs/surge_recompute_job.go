package jobs

import (
	"context"
	"log/slog"

	"parcelhub/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// SurgeRecomputeJob refreshes the surge multipliers from a point-in-time
// scan of active orders and available riders. Between ticks every
// request path reads the frozen multipliers.
type SurgeRecomputeJob struct {
	handler commands.RecomputeSurgeCommandHandler
	schedule string
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewSurgeRecomputeJob creates the recompute job. The schedule is a
// six-field cron expression from configuration.
func NewSurgeRecomputeJob(
	handler commands.RecomputeSurgeCommandHandler,
	schedule string,
	logger *slog.Logger,
) *SurgeRecomputeJob {
	return &SurgeRecomputeJob{
		handler: handler,
		schedule: schedule,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "surge_recompute_job"),
	}
}

// Start schedules the recompute ticks.
func (j *SurgeRecomputeJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		if err := j.handler.Handle(ctx, commands.NewRecomputeSurgeCommand()); err != nil {
			j.logger.ErrorContext(ctx, "Surge recompute failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Surge recompute job started", "schedule", j.schedule)
	return nil
}

// Stop stops the recompute ticks.
func (j *SurgeRecomputeJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Surge recompute job stopped")
}
