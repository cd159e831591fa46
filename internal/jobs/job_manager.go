package jobs

import (
	"fmt"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	routeBatchJob     *RouteBatchJob
	surgeRecomputeJob *SurgeRecomputeJob
}

// NewJobManager creates a job manager over the pre-built jobs.
func NewJobManager(
	routeBatchJob *RouteBatchJob,
	surgeRecomputeJob *SurgeRecomputeJob,
) *JobManager {
	return &JobManager{
		routeBatchJob:     routeBatchJob,
		surgeRecomputeJob: surgeRecomputeJob,
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.surgeRecomputeJob.Start(); err != nil {
		return fmt.Errorf("failed to start surge recompute job: %w", err)
	}

	if err := jm.routeBatchJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.surgeRecomputeJob.Stop()
		return fmt.Errorf("failed to start route batch job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.routeBatchJob.Stop()
	jm.surgeRecomputeJob.Stop()
}
