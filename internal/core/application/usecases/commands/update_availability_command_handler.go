package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/availability"
	"dispatch/internal/pkg/errs"
)

// UpdateAvailabilityCommandHandler applies manual availability toggles.
// Lifecycle-driven status takes precedence: a courier who is busy with a live
// delivery cannot toggle themselves out of it. A busy record whose delivery
// has since reached a terminal state is reconciled first, then the toggle
// applies normally.
type UpdateAvailabilityCommandHandler struct {
	uowFactory AvailabilityUoWFactory
}

// NewUpdateAvailabilityCommandHandler creates a handler for availability toggles.
func NewUpdateAvailabilityCommandHandler(uowFactory AvailabilityUoWFactory) UpdateAvailabilityCommandHandler {
	return UpdateAvailabilityCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the toggle.
// First report from an unknown courier creates their record. A toggle
// refused because of a live delivery returns a courier-busy result.
func (h UpdateAvailabilityCommandHandler) Handle(ctx context.Context, cmd UpdateAvailabilityCommand) (Result, error) {
	if err := cmd.Validate(); err != nil {
		return Result{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return Result{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	availabilityRepo := uow.AvailabilityRepository()

	record, err := availabilityRepo.Get(ctx, cmd.CourierID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		if record, err = availability.NewRecord(cmd.CourierID()); err != nil {
			return Result{}, err
		}
	} else if err != nil {
		return Result{}, err
	}

	if record.Status() == availability.StatusBusy {
		live, err := h.hasLiveDelivery(ctx, uow, record)
		if err != nil {
			return Result{}, err
		}
		if live {
			return FailedResult(CodeCourierBusy, "courier has an active delivery"), nil
		}
		record.ClearCurrentDelivery()
	}

	if err = record.SetStatus(cmd.Status()); err != nil {
		if result, ok := resultFromDomainError(err); ok {
			return result, nil
		}
		return Result{}, err
	}

	if position := cmd.Position(); position != nil {
		if err = record.UpdatePosition(*position); err != nil {
			return Result{}, err
		}
	}

	if err = availabilityRepo.Upsert(ctx, record); err != nil {
		return Result{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return Result{}, err
	}

	return OKResult("availability updated"), nil
}

// hasLiveDelivery reports whether the record's current delivery still
// occupies the courier. A missing or terminal delivery counts as stale.
func (h UpdateAvailabilityCommandHandler) hasLiveDelivery(
	ctx context.Context,
	uow AvailabilityUoW,
	record *availability.Record,
) (bool, error) {
	current := record.CurrentDeliveryID()
	if current == nil {
		return false, nil
	}

	d, err := uow.DeliveryRepository().Get(ctx, *current)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return !d.Status().IsTerminal(), nil
}
