// Package jobs provides scheduled background tasks for the fulfillment service.
//
// Jobs are cron-based (github.com/robfig/cron/v3, seconds precision) and only call
// command handlers; they hold no business logic of their own.
//
// # Available Jobs
//
// TrackingRefreshJob polls the carrier for every shipment that has a waybill and has
// not reached a terminal status, and applies the reported status. It runs on
// DefaultTrackingSchedule unless configured otherwise.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(refreshTrackingHandler, jobs.Config{
//		TrackingSchedule:  cfg.TrackingSchedule,
//		TrackingBatchSize: cfg.TrackingBatchSize,
//	}, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed run is logged and retried on the next tick. Per-shipment carrier failures
// never fail a run; they are counted in the logged summary.
package jobs
