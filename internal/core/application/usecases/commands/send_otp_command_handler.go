package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// SendOTPCommandHandler re-issues confirmation codes.
// Only one code is valid at a time: issuing resets any verification of the
// superseded code.
type SendOTPCommandHandler struct {
	uowFactory PODUoWFactory
	notifier   ports.NotificationDispatch
}

// NewSendOTPCommandHandler creates a handler for code re-issue.
func NewSendOTPCommandHandler(uowFactory PODUoWFactory, notifier ports.NotificationDispatch) SendOTPCommandHandler {
	return SendOTPCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the re-issue.
// Codes exist only between pickup and delivery; outside that window the
// request gets an invalid-transition result.
func (h SendOTPCommandHandler) Handle(ctx context.Context, cmd SendOTPCommand) (Result, error) {
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

	status := d.Status()
	if status != delivery.StatusPickedUp && status != delivery.StatusInTransit {
		return FailedResult(CodeInvalidTransition, "confirmation codes exist only between pickup and delivery"), nil
	}

	podRepo := uow.PODRepository()
	proof, err := podRepo.Get(ctx, d.ID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return FailedResult(CodeNoOTP, "no proof of delivery record"), nil
	}
	if err != nil {
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

	event, err := delivery.NewEvent(d.ID(), delivery.EventOTPSent, status, status, nil, nil)
	if err != nil {
		return Result{}, err
	}
	if err = uow.EventRepository().Append(ctx, event); err != nil {
		return Result{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return Result{}, err
	}

	h.notifier.OTPIssued(ctx, d.ID(), d.DropContact().Phone(), code)

	return OKResult("confirmation code re-sent"), nil
}
