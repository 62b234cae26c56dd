package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrVerifyOTPCommandIsNotConstructed = errors.New(
	"VerifyOTPCommand must be created via NewVerifyOTPCommand constructor",
)

// VerifyOTPCommand checks a confirmation code ahead of the hand-off, letting
// the courier confirm the recipient before marking delivered.
type VerifyOTPCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	code       string

	guard guard.ConstructorGuard
}

// NewVerifyOTPCommand creates a command to check a confirmation code.
func NewVerifyOTPCommand(deliveryID kernel.UUID, code string) (VerifyOTPCommand, error) {
	if err := deliveryID.Validate(); err != nil {
		return VerifyOTPCommand{}, err
	}

	return VerifyOTPCommand{
		deliveryID: deliveryID,
		code:       code,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrVerifyOTPCommandIsNotConstructed if validation fails.
func (c VerifyOTPCommand) Validate() error {
	return c.guard.Validate(ErrVerifyOTPCommandIsNotConstructed)
}

// DeliveryID returns the delivery whose code is checked.
func (c VerifyOTPCommand) DeliveryID() kernel.UUID { return c.deliveryID }

// Code returns the supplied confirmation code.
func (c VerifyOTPCommand) Code() string { return c.code }
