// Package jobs provides scheduled background tasks for the dispatch system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for the dispatch service.
//
// # Available Jobs
//
// 1. StaleMatchingJob - Runs every minute to re-drive matching rounds for deliveries stuck without an acceptance
// 2. AutoCloseJob - Runs every minute to finalize delivered deliveries an operator never closed
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(uowFactory, matchHandler, closeHandler,
//		matchingStaleAfter, autoCloseAfter, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Both jobs use the standard five-field cron expression "* * * * *" and run
// once a minute. Matching retries and closure are idempotent at the command
// layer, so an overlapping run is harmless.
//
// # Error Handling
//
// - Failed business outcomes (attempts exhausted, already closed) are logged at info level
// - Infrastructure errors are logged and the affected delivery is retried on the next run
// - Failed job starts will stop any already running jobs
package jobs
