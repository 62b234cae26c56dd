package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/ports"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	staleMatchingJob *StaleMatchingJob
	autoCloseJob     *AutoCloseJob
}

// NewJobManager creates a job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	uowFactory ports.UnitOfWorkFactory,
	matchHandler commands.MatchDeliveryCommandHandler,
	closeHandler commands.CloseDeliveryCommandHandler,
	matchingStaleAfter time.Duration,
	autoCloseAfter time.Duration,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		staleMatchingJob: NewStaleMatchingJob(uowFactory, matchHandler, matchingStaleAfter, logger),
		autoCloseJob:     NewAutoCloseJob(uowFactory, closeHandler, autoCloseAfter, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.staleMatchingJob.Start(); err != nil {
		return fmt.Errorf("failed to start stale matching job: %w", err)
	}

	if err := jm.autoCloseJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.staleMatchingJob.Stop()
		return fmt.Errorf("failed to start auto close job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.staleMatchingJob.Stop()
	jm.autoCloseJob.Stop()
}
