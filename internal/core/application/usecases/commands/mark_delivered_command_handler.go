package commands

import (
	"context"
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// DeliverResult reports the outcome of a hand-off.
type DeliverResult struct {
	Result

	// Verified is whether the recipient confirmed with the correct code.
	Verified bool

	// OTPOutcome is the verification classification for the supplied code.
	OTPOutcome delivery.OTPOutcome

	// Earning is the courier's settled earning breakdown, zero-valued when
	// the pricing collaborator was unreachable.
	Earning ports.EarningBreakdown
}

// MarkDeliveredCommandHandler completes deliveries.
// Runs the recipient confirmation check, settles the final price, records
// the evidence, and releases the courier, all in one transaction.
//
// Confirmation failure is soft: the hand-off succeeds either way and the
// outcome is recorded on the proof, so support can follow up on unverified
// deliveries without blocking couriers in the field.
type MarkDeliveredCommandHandler struct {
	uowFactory LifecycleUoWFactory
	pricing    ports.PricingLookup
	notifier   ports.NotificationDispatch
}

// NewMarkDeliveredCommandHandler creates a handler for hand-off processing.
func NewMarkDeliveredCommandHandler(
	uowFactory LifecycleUoWFactory,
	pricing ports.PricingLookup,
	notifier ports.NotificationDispatch,
) MarkDeliveredCommandHandler {
	return MarkDeliveredCommandHandler{
		uowFactory: uowFactory,
		pricing:    pricing,
		notifier:   notifier,
	}
}

// Handle processes the hand-off.
// The final price mirrors the estimate; adjustments are a settlement
// concern. The earning lookup is advisory and never fails the hand-off.
func (h MarkDeliveredCommandHandler) Handle(ctx context.Context, cmd MarkDeliveredCommand) (DeliverResult, error) {
	if err := cmd.Validate(); err != nil {
		return DeliverResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return DeliverResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	deliveryRepo := uow.DeliveryRepository()

	d, err := deliveryRepo.Get(ctx, cmd.DeliveryID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return DeliverResult{Result: FailedResult(CodeNotFound, "delivery not found")}, nil
	}
	if err != nil {
		return DeliverResult{}, err
	}

	from := d.Status()
	if err = d.MarkDelivered(cmd.CourierID(), d.EstimatedPrice()); err != nil {
		if result, ok := resultFromDomainError(err); ok {
			return DeliverResult{Result: result}, nil
		}
		return DeliverResult{}, err
	}
	if err = deliveryRepo.Update(ctx, d); err != nil {
		return DeliverResult{}, err
	}

	proof, outcome, err := h.recordProof(ctx, uow, d, cmd)
	if err != nil {
		return DeliverResult{}, err
	}

	if err = h.releaseCourier(ctx, uow, cmd.CourierID(), d.ID()); err != nil {
		return DeliverResult{}, err
	}

	actorID := cmd.CourierID()
	event, err := delivery.NewEvent(
		d.ID(),
		delivery.EventDelivered,
		from,
		delivery.StatusDelivered,
		&actorID,
		map[string]any{
			"otp_outcome": outcome.String(),
			"verified":    proof.OTPVerified(),
		},
	)
	if err != nil {
		return DeliverResult{}, err
	}
	if err = uow.EventRepository().Append(ctx, event); err != nil {
		return DeliverResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return DeliverResult{}, err
	}

	h.notifier.StatusChanged(ctx, d.ID(), from, delivery.StatusDelivered)

	var earning ports.EarningBreakdown
	if breakdown, err := h.pricing.CalculateCommission(ctx, cmd.CourierID(), d.EstimatedPrice()); err == nil {
		earning = breakdown
	}

	message := "delivered, recipient confirmed"
	if outcome != delivery.OTPVerified {
		message = fmt.Sprintf("delivered without recipient confirmation (%s)", outcome)
	}

	return DeliverResult{
		Result:     OKResult(message),
		Verified:   outcome == delivery.OTPVerified,
		OTPOutcome: outcome,
		Earning:    earning,
	}, nil
}

// recordProof runs the confirmation check and stamps the hand-off evidence.
// A delivery with no proof record yet gets one, so the evidence trail always
// exists after completion.
func (h MarkDeliveredCommandHandler) recordProof(
	ctx context.Context,
	uow LifecycleUoW,
	d *delivery.Delivery,
	cmd MarkDeliveredCommand,
) (*delivery.ProofOfDelivery, delivery.OTPOutcome, error) {
	podRepo := uow.PODRepository()

	proof, err := podRepo.Get(ctx, d.ID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		if proof, err = delivery.NewProofOfDelivery(d.ID()); err != nil {
			return nil, delivery.OTPNotSent, err
		}
	} else if err != nil {
		return nil, delivery.OTPNotSent, err
	}

	outcome, err := proof.VerifyOTP(cmd.OTPCode())
	if err != nil {
		return nil, delivery.OTPNotSent, err
	}

	deliveredPoint := d.Drop()
	distanceKm := 0.0
	if position := cmd.Position(); position != nil {
		deliveredPoint = *position
		if distanceKm, err = position.DistanceKm(d.Drop()); err != nil {
			return nil, outcome, err
		}
	}

	if err = proof.RecordDelivery(
		cmd.RecipientName(),
		cmd.RecipientRelation(),
		cmd.PhotoURL(),
		cmd.SignatureURL(),
		deliveredPoint,
		distanceKm,
		cmd.Condition(),
	); err != nil {
		return nil, outcome, err
	}

	if err = podRepo.Upsert(ctx, proof); err != nil {
		return nil, outcome, err
	}

	return proof, outcome, nil
}

// releaseCourier returns the courier to available once the hand-off is done.
func (h MarkDeliveredCommandHandler) releaseCourier(
	ctx context.Context,
	uow LifecycleUoW,
	courierID kernel.UUID,
	deliveryID kernel.UUID,
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
	if current == nil || !current.IsEqual(deliveryID) {
		return nil
	}

	record.Release()
	return availabilityRepo.Upsert(ctx, record)
}
