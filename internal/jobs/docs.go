// Package jobs provides scheduled background tasks for the parcel hub.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle the periodic operations the coordination core needs.
//
// # Available Jobs
//
// 1. RouteBatchJob - dispatches held parcels at each hub into planned
// routes when the batch threshold is reached or parcels have waited a
// full hold interval
// 2. SurgeRecomputeJob - refreshes the per-zone surge multipliers from a
// point-in-time scan of active orders and available riders
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(routeBatchJob, surgeRecomputeJob)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Both jobs take six-field cron expressions from configuration. The
// dispatch tick is frequent and cheap when nothing is held; the surge
// tick is slower because every recompute rescans the fleet.
//
// # Error Handling
//
// Job errors are logged and the tick is retried on the next schedule;
// a failing hub never blocks the others in the same pass.
package jobs
