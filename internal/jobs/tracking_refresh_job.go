package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"fulfillment/internal/core/application/usecases/commands"
)

// DefaultTrackingSchedule polls carrier tracking every five minutes.
const DefaultTrackingSchedule = "0 */5 * * * *"

type TrackingRefreshHandler interface {
	Handle(ctx context.Context, command commands.RefreshTrackingCommand) (commands.RefreshTrackingResult, error)
}

// TrackingRefreshJob periodically applies carrier tracking to in-flight shipments.
// A run that is still going when the next one is due causes that one to be skipped.
type TrackingRefreshJob struct {
	handler   TrackingRefreshHandler
	schedule  string
	batchSize int
	cron      *cron.Cron
	logger    *slog.Logger
}

func NewTrackingRefreshJob(handler TrackingRefreshHandler, schedule string, batchSize int, logger *slog.Logger) *TrackingRefreshJob {
	return &TrackingRefreshJob{
		handler:   handler,
		schedule:  schedule,
		batchSize: batchSize,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		logger: logger.With("component", "tracking_refresh_job"),
	}
}

// Start schedules the job. It fails for an invalid schedule or batch size.
func (j *TrackingRefreshJob) Start() error {
	cmd, err := commands.NewRefreshTrackingCommand(j.batchSize)
	if err != nil {
		return err
	}

	_, err = j.cron.AddFunc(j.schedule, func() {
		j.run(context.Background(), cmd)
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Tracking refresh job started", "schedule", j.schedule)
	return nil
}

func (j *TrackingRefreshJob) run(ctx context.Context, cmd commands.RefreshTrackingCommand) {
	result, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Tracking refresh job failed", "error", err)
		return
	}
	if result.Checked > 0 {
		j.logger.InfoContext(ctx, "Tracking refreshed",
			"checked", result.Checked,
			"updated", result.Updated,
			"failed", result.Failed)
	}
}

// Stop waits for a running refresh to finish.
func (j *TrackingRefreshJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Tracking refresh job stopped")
}
