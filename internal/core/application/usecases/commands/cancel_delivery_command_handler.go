package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// CancelDeliveryCommandHandler aborts deliveries.
// Cancelling an assigned delivery releases the courier back to available, so
// their availability record never points at a dead delivery.
type CancelDeliveryCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.NotificationDispatch
}

// NewCancelDeliveryCommandHandler creates a handler for cancellations.
func NewCancelDeliveryCommandHandler(uowFactory UoWFactory, notifier ports.NotificationDispatch) CancelDeliveryCommandHandler {
	return CancelDeliveryCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes a cancellation.
// Terminal and delivered deliveries refuse with an invalid-transition result.
func (h CancelDeliveryCommandHandler) Handle(ctx context.Context, cmd CancelDeliveryCommand) (Result, error) {
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

	deliveryRepo := uow.DeliveryRepository()

	d, err := deliveryRepo.Get(ctx, cmd.DeliveryID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return FailedResult(CodeNotFound, "delivery not found"), nil
	}
	if err != nil {
		return Result{}, err
	}

	from := d.Status()
	courierID := d.Courier()

	if err = d.Cancel(); err != nil {
		if result, ok := resultFromDomainError(err); ok {
			return result, nil
		}
		return Result{}, err
	}
	if err = deliveryRepo.Update(ctx, d); err != nil {
		return Result{}, err
	}

	if courierID != nil {
		if err = h.releaseCourier(ctx, uow, *courierID, d); err != nil {
			return Result{}, err
		}
	}

	actorID := cmd.ActorID()
	event, err := delivery.NewEvent(
		d.ID(),
		delivery.EventCancelled,
		from,
		delivery.StatusCancelled,
		&actorID,
		map[string]any{"reason": cmd.Reason()},
	)
	if err != nil {
		return Result{}, err
	}
	if err = uow.EventRepository().Append(ctx, event); err != nil {
		return Result{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return Result{}, err
	}

	h.notifier.StatusChanged(ctx, d.ID(), from, delivery.StatusCancelled)

	return OKResult("delivery cancelled"), nil
}

// releaseCourier frees the courier occupied by the cancelled delivery.
// Only records still pointing at this delivery are touched.
func (h CancelDeliveryCommandHandler) releaseCourier(
	ctx context.Context,
	uow UoW,
	courierID kernel.UUID,
	d *delivery.Delivery,
) error {
	availabilityRepo := uow.AvailabilityRepository()

	record, err := availabilityRepo.Get(ctx, courierID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	current := record.CurrentDeliveryID()
	if current == nil || !current.IsEqual(d.ID()) {
		return nil
	}

	record.Release()
	return availabilityRepo.Upsert(ctx, record)
}
