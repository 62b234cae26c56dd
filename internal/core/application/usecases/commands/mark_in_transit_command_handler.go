package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// MarkInTransitCommandHandler records transit start.
type MarkInTransitCommandHandler struct {
	uowFactory LifecycleUoWFactory
	notifier   ports.NotificationDispatch
}

// NewMarkInTransitCommandHandler creates a handler for transit recording.
func NewMarkInTransitCommandHandler(uowFactory LifecycleUoWFactory, notifier ports.NotificationDispatch) MarkInTransitCommandHandler {
	return MarkInTransitCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the transit report.
// The stage stamp on the proof of delivery is best effort: a delivery with
// no proof record yet still moves to in-transit.
func (h MarkInTransitCommandHandler) Handle(ctx context.Context, cmd MarkInTransitCommand) (Result, error) {
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
	if err = d.MarkInTransit(cmd.CourierID()); err != nil {
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
		if err = proof.RecordInTransit(); err != nil {
			return Result{}, err
		}
		if err = podRepo.Upsert(ctx, proof); err != nil {
			return Result{}, err
		}
	}

	actorID := cmd.CourierID()
	event, err := delivery.NewEvent(d.ID(), delivery.EventInTransit, from, delivery.StatusInTransit, &actorID, nil)
	if err != nil {
		return Result{}, err
	}
	if err = uow.EventRepository().Append(ctx, event); err != nil {
		return Result{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return Result{}, err
	}

	h.notifier.StatusChanged(ctx, d.ID(), from, delivery.StatusInTransit)

	return OKResult("transit recorded"), nil
}
