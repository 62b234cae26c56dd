package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// CloseDeliveryCommandHandler finalizes delivered deliveries.
// Used by both the requester's explicit confirmation and the auto-close job.
type CloseDeliveryCommandHandler struct {
	uowFactory LifecycleUoWFactory
	notifier   ports.NotificationDispatch
}

// NewCloseDeliveryCommandHandler creates a handler for delivery finalization.
func NewCloseDeliveryCommandHandler(uowFactory LifecycleUoWFactory, notifier ports.NotificationDispatch) CloseDeliveryCommandHandler {
	return CloseDeliveryCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the closure.
// Only delivered deliveries close; everything else gets an
// invalid-transition result.
func (h CloseDeliveryCommandHandler) Handle(ctx context.Context, cmd CloseDeliveryCommand) (Result, error) {
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
	if err = d.Close(); err != nil {
		if result, ok := resultFromDomainError(err); ok {
			return result, nil
		}
		return Result{}, err
	}
	if err = deliveryRepo.Update(ctx, d); err != nil {
		return Result{}, err
	}

	podRepo := uow.PODRepository()
	proof, err := podRepo.Get(ctx, d.ID())
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return Result{}, err
	}
	if proof != nil {
		if err = proof.RecordClosure(cmd.ClosedBy()); err != nil {
			return Result{}, err
		}
		if err = podRepo.Upsert(ctx, proof); err != nil {
			return Result{}, err
		}
	}

	event, err := delivery.NewEvent(
		d.ID(),
		delivery.EventClosed,
		from,
		delivery.StatusClosed,
		cmd.ClosedBy(),
		nil,
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

	h.notifier.StatusChanged(ctx, d.ID(), from, delivery.StatusClosed)

	return OKResult("delivery closed"), nil
}
