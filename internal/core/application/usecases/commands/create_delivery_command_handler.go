package commands

import (
	"context"

	"dispatch/internal/core/domain/model/delivery"
)

// CreateDeliveryCommandHandler handles the registration of new deliveries.
// Persists the aggregate in Created status and appends the initial event to
// the delivery's audit trail.
type CreateDeliveryCommandHandler struct {
	uowFactory DeliveryUoWFactory
}

// NewCreateDeliveryCommandHandler creates a handler for delivery registration.
// Requires a DeliveryUoWFactory for transactional persistence.
func NewCreateDeliveryCommandHandler(uowFactory DeliveryUoWFactory) CreateDeliveryCommandHandler {
	return CreateDeliveryCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the delivery registration.
// The aggregate constructor enforces route and price validation; violations
// surface as a validation result. Matching is started separately.
func (h CreateDeliveryCommandHandler) Handle(ctx context.Context, cmd CreateDeliveryCommand) (Result, error) {
	if err := cmd.Validate(); err != nil {
		return Result{}, err
	}

	newDelivery, err := delivery.NewDelivery(
		cmd.DeliveryID(),
		cmd.RequesterID(),
		cmd.Pickup(),
		cmd.Drop(),
		cmd.PickupContact(),
		cmd.DropContact(),
		cmd.EstimatedPrice(),
	)
	if err != nil {
		return FailedResult(CodeValidation, err.Error()), nil
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return Result{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.DeliveryRepository().Add(ctx, newDelivery); err != nil {
		return Result{}, err
	}

	event, err := delivery.NewEvent(
		newDelivery.ID(),
		delivery.EventCreated,
		delivery.StatusCreated,
		delivery.StatusCreated,
		nil,
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

	return OKResult("delivery created"), nil
}
