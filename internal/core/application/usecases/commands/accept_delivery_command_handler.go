package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/availability"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// AcceptResult reports the outcome of an acceptance attempt.
type AcceptResult struct {
	Result

	// EstimatedEarning is the courier's earning breakdown for the delivery,
	// zero-valued when the pricing collaborator was unreachable or the
	// acceptance failed.
	EstimatedEarning ports.EarningBreakdown
}

// AcceptDeliveryCommandHandler resolves acceptance races.
// The conditional assignment write in the delivery repository is the
// authority on who wins: exactly one accepting courier sees success, every
// other concurrent accept gets an already-assigned result. Responses carrying
// a stale round number are fenced out before they touch the delivery.
type AcceptDeliveryCommandHandler struct {
	uowFactory UoWFactory
	pricing    ports.PricingLookup
	notifier   ports.NotificationDispatch
}

// NewAcceptDeliveryCommandHandler creates a handler for acceptance processing.
func NewAcceptDeliveryCommandHandler(
	uowFactory UoWFactory,
	pricing ports.PricingLookup,
	notifier ports.NotificationDispatch,
) AcceptDeliveryCommandHandler {
	return AcceptDeliveryCommandHandler{
		uowFactory: uowFactory,
		pricing:    pricing,
		notifier:   notifier,
	}
}

// Handle processes an acceptance.
// Records the candidate's reply, attempts the conditional assignment, and on
// a win marks the courier busy and appends the audit event. The earning
// lookup is advisory and never fails the acceptance.
func (h AcceptDeliveryCommandHandler) Handle(ctx context.Context, cmd AcceptDeliveryCommand) (AcceptResult, error) {
	if err := cmd.Validate(); err != nil {
		return AcceptResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return AcceptResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	deliveryRepo := uow.DeliveryRepository()

	d, err := deliveryRepo.Get(ctx, cmd.DeliveryID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return AcceptResult{Result: FailedResult(CodeNotFound, "delivery not found")}, nil
	}
	if err != nil {
		return AcceptResult{}, err
	}

	// Fencing: only a candidate of the current round may respond.
	candidateRepo := uow.CandidateRepository()
	candidate, err := candidateRepo.Get(ctx, d.ID(), cmd.CourierID(), d.MatchingAttempts())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return AcceptResult{Result: FailedResult(CodeNotFound, "not a candidate of the current round")}, nil
	}
	if err != nil {
		return AcceptResult{}, err
	}

	availabilityRepo := uow.AvailabilityRepository()
	record, err := availabilityRepo.Get(ctx, cmd.CourierID())
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return AcceptResult{}, err
	}
	if record != nil && record.Status() == availability.StatusBusy {
		return AcceptResult{Result: FailedResult(CodeCourierBusy, "courier is busy with another delivery")}, nil
	}

	if err = candidate.Accept(); err != nil {
		if result, ok := resultFromDomainError(err); ok {
			return AcceptResult{Result: result}, nil
		}
		return AcceptResult{}, err
	}
	if err = candidateRepo.Update(ctx, candidate); err != nil {
		return AcceptResult{}, err
	}

	assigned, err := deliveryRepo.AssignCourier(ctx, d.ID(), cmd.CourierID())
	if err != nil {
		return AcceptResult{}, err
	}
	if !assigned {
		// Lost the race. The recorded reply still commits for the audit trail.
		if err = uow.Commit(ctx); err != nil {
			return AcceptResult{}, err
		}
		return AcceptResult{Result: FailedResult(CodeAlreadyAssigned, "delivery already assigned to another courier")}, nil
	}

	from := d.Status()
	if err = d.Accept(cmd.CourierID()); err != nil {
		if result, ok := resultFromDomainError(err); ok {
			return AcceptResult{Result: result}, nil
		}
		return AcceptResult{}, err
	}
	if err = deliveryRepo.Update(ctx, d); err != nil {
		return AcceptResult{}, err
	}

	if record == nil {
		if record, err = availability.NewRecord(cmd.CourierID()); err != nil {
			return AcceptResult{}, err
		}
	}
	if err = record.MarkBusy(d.ID()); err != nil {
		return AcceptResult{}, err
	}
	if err = availabilityRepo.Upsert(ctx, record); err != nil {
		return AcceptResult{}, err
	}

	actorID := cmd.CourierID()
	event, err := delivery.NewEvent(
		d.ID(),
		delivery.EventAccepted,
		from,
		delivery.StatusAccepted,
		&actorID,
		map[string]any{"attempt": d.MatchingAttempts()},
	)
	if err != nil {
		return AcceptResult{}, err
	}
	if err = uow.EventRepository().Append(ctx, event); err != nil {
		return AcceptResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return AcceptResult{}, err
	}

	h.notifier.StatusChanged(ctx, d.ID(), from, delivery.StatusAccepted)

	var earning ports.EarningBreakdown
	if breakdown, err := h.pricing.CalculateCommission(ctx, cmd.CourierID(), d.EstimatedPrice()); err == nil {
		earning = breakdown
	}

	return AcceptResult{
		Result:           OKResult("delivery accepted"),
		EstimatedEarning: earning,
	}, nil
}
