package jobs

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// StaleMatchingJob re-drives matching for deliveries whose current round
// produced no acceptance. A delivery sitting in Matching longer than the
// configured window gets another round; the command itself decides whether
// rounds remain or the delivery becomes unassignable.
type StaleMatchingJob struct {
	uowFactory ports.UnitOfWorkFactory
	handler    commands.MatchDeliveryCommandHandler
	staleAfter time.Duration
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewStaleMatchingJob creates a job that retries matching for stalled
// deliveries.
func NewStaleMatchingJob(
	uowFactory ports.UnitOfWorkFactory,
	handler commands.MatchDeliveryCommandHandler,
	staleAfter time.Duration,
	logger *slog.Logger,
) *StaleMatchingJob {
	return &StaleMatchingJob{
		uowFactory: uowFactory,
		handler:    handler,
		staleAfter: staleAfter,
		cron:       cron.New(),
		logger:     logger.With("component", "stale_matching_job"),
	}
}

// Start schedules the job to run every minute.
func (j *StaleMatchingJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", j.run)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Stale matching job started",
		"stale_after", j.staleAfter.String())
	return nil
}

// Stop stops the job.
func (j *StaleMatchingJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Stale matching job stopped")
}

func (j *StaleMatchingJob) run() {
	ctx := context.Background()
	cutoff := time.Now().UTC().Add(-j.staleAfter)

	uow := j.uowFactory.Create()
	stale, err := uow.DeliveryRepository().GetAllInStatusUpdatedBefore(ctx, delivery.StatusMatching, cutoff)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to list stalled deliveries", "error", err)
		return
	}

	for _, stalled := range stale {
		cmd, err := commands.NewMatchDeliveryCommand(stalled.ID())
		if err != nil {
			j.logger.ErrorContext(ctx, "Failed to build match command",
				"delivery_id", stalled.ID().String(), "error", err)
			continue
		}

		result, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Matching retry failed",
				"delivery_id", stalled.ID().String(), "error", err)
			continue
		}

		if !result.Success {
			// UNASSIGNABLE is an expected outcome here.
			j.logger.InfoContext(ctx, "Matching retry did not assign",
				"delivery_id", stalled.ID().String(),
				"code", string(result.Code), "attempt", result.Attempt)
			continue
		}

		j.logger.InfoContext(ctx, "Matching round re-driven",
			"delivery_id", stalled.ID().String(),
			"attempt", result.Attempt, "notified", result.NotifiedCouriers)
	}
}
