package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// RejectDeliveryCommandHandler records rejections and tracks round progress.
// When the last pending candidate of the current round declines, the next
// matching round runs in the same transaction; a round past the attempt
// budget marks the delivery unassignable. Rounds whose candidates simply
// never answer are swept by the stale matching job instead.
type RejectDeliveryCommandHandler struct {
	uowFactory UoWFactory
	matcher    matcher
}

// NewRejectDeliveryCommandHandler creates a handler for rejection processing.
func NewRejectDeliveryCommandHandler(
	uowFactory UoWFactory,
	pricing ports.PricingLookup,
	notifier ports.NotificationDispatch,
) RejectDeliveryCommandHandler {
	return RejectDeliveryCommandHandler{
		uowFactory: uowFactory,
		matcher:    matcher{pricing: pricing, notifier: notifier},
	}
}

// Handle processes a rejection.
// Stale-round replies and duplicate replies are fenced out the same way as
// acceptances. Rejecting a delivery someone already won is not an error; the
// reply is recorded and the courier moves on.
func (h RejectDeliveryCommandHandler) Handle(ctx context.Context, cmd RejectDeliveryCommand) (Result, error) {
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

	d, err := uow.DeliveryRepository().Get(ctx, cmd.DeliveryID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return FailedResult(CodeNotFound, "delivery not found"), nil
	}
	if err != nil {
		return Result{}, err
	}

	candidateRepo := uow.CandidateRepository()
	candidate, err := candidateRepo.Get(ctx, d.ID(), cmd.CourierID(), d.MatchingAttempts())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return FailedResult(CodeNotFound, "not a candidate of the current round"), nil
	}
	if err != nil {
		return Result{}, err
	}

	if err = candidate.Reject(cmd.Reason()); err != nil {
		if result, ok := resultFromDomainError(err); ok {
			return result, nil
		}
		return Result{}, err
	}
	if err = candidateRepo.Update(ctx, candidate); err != nil {
		return Result{}, err
	}

	actorID := cmd.CourierID()
	event, err := delivery.NewEvent(
		d.ID(),
		delivery.EventRejected,
		d.Status(),
		d.Status(),
		&actorID,
		map[string]any{
			"attempt": d.MatchingAttempts(),
			"reason":  cmd.Reason(),
		},
	)
	if err != nil {
		return Result{}, err
	}
	if err = uow.EventRepository().Append(ctx, event); err != nil {
		return Result{}, err
	}

	outcome, err := h.advanceIfRoundComplete(ctx, uow, d)
	if err != nil {
		return Result{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return Result{}, err
	}

	h.matcher.announce(ctx, d.ID(), outcome)
	return OKResult("rejection recorded"), nil
}

// advanceIfRoundComplete runs the next matching round when every candidate
// of the current round has responded and the delivery is still up for grabs.
func (h RejectDeliveryCommandHandler) advanceIfRoundComplete(
	ctx context.Context,
	uow UoW,
	d *delivery.Delivery,
) (roundOutcome, error) {
	if d.Status() != delivery.StatusMatching {
		return roundOutcome{}, nil
	}

	pending, err := uow.CandidateRepository().CountPending(ctx, d.ID(), d.MatchingAttempts())
	if err != nil {
		return roundOutcome{}, err
	}
	if pending > 0 {
		return roundOutcome{}, nil
	}

	return h.matcher.runRounds(ctx, uow, d)
}
