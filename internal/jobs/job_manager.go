package jobs

import (
	"fmt"
	"log/slog"
)

type Config struct {
	TrackingSchedule  string
	TrackingBatchSize int
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	trackingRefreshJob *TrackingRefreshJob
}

// NewJobManager creates a new job manager with all required jobs.
// Empty config values fall back to the job defaults.
func NewJobManager(trackingHandler TrackingRefreshHandler, cfg Config, logger *slog.Logger) *JobManager {
	schedule := cfg.TrackingSchedule
	if schedule == "" {
		schedule = DefaultTrackingSchedule
	}

	return &JobManager{
		trackingRefreshJob: NewTrackingRefreshJob(trackingHandler, schedule, cfg.TrackingBatchSize, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.trackingRefreshJob.Start(); err != nil {
		return fmt.Errorf("failed to start tracking refresh job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.trackingRefreshJob.Stop()
}
