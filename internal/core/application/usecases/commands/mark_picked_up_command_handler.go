package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// MarkPickedUpCommandHandler records package collection.
// Creates the proof of delivery record on first evidence, stamps the pickup
// stage, and issues the recipient's confirmation code. The plaintext code
// leaves the system only through the notification channel; storage holds
// its hash.
type MarkPickedUpCommandHandler struct {
	uowFactory LifecycleUoWFactory
	notifier   ports.NotificationDispatch
}

// NewMarkPickedUpCommandHandler creates a handler for pickup recording.
func NewMarkPickedUpCommandHandler(uowFactory LifecycleUoWFactory, notifier ports.NotificationDispatch) MarkPickedUpCommandHandler {
	return MarkPickedUpCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the pickup.
// Only the assigned courier may collect; anyone else gets an unauthorized
// result. Out-of-order stage reporting gets an invalid-transition result.
func (h MarkPickedUpCommandHandler) Handle(ctx context.Context, cmd MarkPickedUpCommand) (Result, error) {
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
	if err = d.MarkPickedUp(cmd.CourierID()); err != nil {
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
	if errors.Is(err, errs.ErrObjectNotFound) {
		if proof, err = delivery.NewProofOfDelivery(d.ID()); err != nil {
			return Result{}, err
		}
	} else if err != nil {
		return Result{}, err
	}

	if err = proof.RecordPickup(cmd.PhotoURL(), cmd.Notes()); err != nil {
		return Result{}, err
	}

	code, err := delivery.GenerateOTPCode()
	if err != nil {
		return Result{}, err
	}
	if _, err = proof.IssueOTP(code); err != nil {
		return Result{}, err
	}

	if err = podRepo.Upsert(ctx, proof); err != nil {
		return Result{}, err
	}

	actorID := cmd.CourierID()
	events := []struct {
		eventType delivery.EventType
		from      delivery.Status
		to        delivery.Status
	}{
		{delivery.EventPickedUp, from, delivery.StatusPickedUp},
		{delivery.EventOTPSent, delivery.StatusPickedUp, delivery.StatusPickedUp},
	}
	for _, e := range events {
		event, err := delivery.NewEvent(d.ID(), e.eventType, e.from, e.to, &actorID, nil)
		if err != nil {
			return Result{}, err
		}
		if err = uow.EventRepository().Append(ctx, event); err != nil {
			return Result{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return Result{}, err
	}

	h.notifier.StatusChanged(ctx, d.ID(), from, delivery.StatusPickedUp)
	h.notifier.OTPIssued(ctx, d.ID(), d.DropContact().Phone(), code)

	return OKResult("pickup recorded, confirmation code sent"), nil
}
