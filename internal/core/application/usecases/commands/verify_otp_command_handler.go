package commands

import (
	"context"
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/pkg/errs"
)

// VerifyOTPResult reports the outcome of a confirmation check.
type VerifyOTPResult struct {
	Result

	// Verified is whether the proof now carries a confirmed code.
	Verified bool

	// OTPOutcome is the verification classification for the supplied code.
	OTPOutcome delivery.OTPOutcome
}

// VerifyOTPCommandHandler checks confirmation codes.
// Uses the same verification routine as the hand-off itself, so a code that
// verifies here verifies there. A mismatch is a business outcome, not an
// error, and never unsets an earlier successful verification.
type VerifyOTPCommandHandler struct {
	uowFactory PODUoWFactory
}

// NewVerifyOTPCommandHandler creates a handler for confirmation checks.
func NewVerifyOTPCommandHandler(uowFactory PODUoWFactory) VerifyOTPCommandHandler {
	return VerifyOTPCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the confirmation check.
func (h VerifyOTPCommandHandler) Handle(ctx context.Context, cmd VerifyOTPCommand) (VerifyOTPResult, error) {
	if err := cmd.Validate(); err != nil {
		return VerifyOTPResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return VerifyOTPResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	podRepo := uow.PODRepository()

	proof, err := podRepo.Get(ctx, cmd.DeliveryID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return VerifyOTPResult{Result: FailedResult(CodeNoOTP, "no confirmation code issued")}, nil
	}
	if err != nil {
		return VerifyOTPResult{}, err
	}

	outcome, err := proof.VerifyOTP(cmd.Code())
	if err != nil {
		return VerifyOTPResult{}, err
	}
	if outcome == delivery.OTPNotSent {
		return VerifyOTPResult{
			Result:     FailedResult(CodeNoOTP, "no confirmation code issued"),
			OTPOutcome: outcome,
		}, nil
	}

	if err = podRepo.Upsert(ctx, proof); err != nil {
		return VerifyOTPResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return VerifyOTPResult{}, err
	}

	message := "code verified"
	if outcome != delivery.OTPVerified {
		message = fmt.Sprintf("code not verified (%s)", outcome)
	}

	return VerifyOTPResult{
		Result:     OKResult(message),
		Verified:   proof.OTPVerified(),
		OTPOutcome: outcome,
	}, nil
}
