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

// AutoCloseJob finalizes deliveries that were handed off but never closed by
// an operator. Closure is attributed to the system, so the proof record keeps
// no verifier.
type AutoCloseJob struct {
	uowFactory ports.UnitOfWorkFactory
	handler    commands.CloseDeliveryCommandHandler
	closeAfter time.Duration
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewAutoCloseJob creates a job that closes delivered deliveries after the
// grace window.
func NewAutoCloseJob(
	uowFactory ports.UnitOfWorkFactory,
	handler commands.CloseDeliveryCommandHandler,
	closeAfter time.Duration,
	logger *slog.Logger,
) *AutoCloseJob {
	return &AutoCloseJob{
		uowFactory: uowFactory,
		handler:    handler,
		closeAfter: closeAfter,
		cron:       cron.New(),
		logger:     logger.With("component", "auto_close_job"),
	}
}

// Start schedules the job to run every minute.
func (j *AutoCloseJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", j.run)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Auto close job started",
		"close_after", j.closeAfter.String())
	return nil
}

// Stop stops the job.
func (j *AutoCloseJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Auto close job stopped")
}

func (j *AutoCloseJob) run() {
	ctx := context.Background()
	cutoff := time.Now().UTC().Add(-j.closeAfter)

	uow := j.uowFactory.Create()
	delivered, err := uow.DeliveryRepository().GetAllInStatusUpdatedBefore(ctx, delivery.StatusDelivered, cutoff)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to list deliveries awaiting closure", "error", err)
		return
	}

	for _, pending := range delivered {
		cmd, err := commands.NewCloseDeliveryCommand(pending.ID(), nil)
		if err != nil {
			j.logger.ErrorContext(ctx, "Failed to build close command",
				"delivery_id", pending.ID().String(), "error", err)
			continue
		}

		result, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Auto closure failed",
				"delivery_id", pending.ID().String(), "error", err)
			continue
		}

		if !result.Success {
			// A race with an operator closing the same delivery lands here.
			j.logger.InfoContext(ctx, "Auto closure skipped",
				"delivery_id", pending.ID().String(), "code", string(result.Code))
			continue
		}

		j.logger.InfoContext(ctx, "Delivery closed by system",
			"delivery_id", pending.ID().String())
	}
}
