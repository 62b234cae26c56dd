package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrSendOTPCommandIsNotConstructed = errors.New(
	"SendOTPCommand must be created via NewSendOTPCommand constructor",
)

// SendOTPCommand re-issues the recipient's confirmation code, superseding
// the previous one. Used when the original notification never arrived or
// the code lapsed.
type SendOTPCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID

	guard guard.ConstructorGuard
}

// NewSendOTPCommand creates a command to re-issue the confirmation code.
func NewSendOTPCommand(deliveryID kernel.UUID) (SendOTPCommand, error) {
	if err := deliveryID.Validate(); err != nil {
		return SendOTPCommand{}, err
	}

	return SendOTPCommand{
		deliveryID: deliveryID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrSendOTPCommandIsNotConstructed if validation fails.
func (c SendOTPCommand) Validate() error {
	return c.guard.Validate(ErrSendOTPCommandIsNotConstructed)
}

// DeliveryID returns the delivery whose code is re-issued.
func (c SendOTPCommand) DeliveryID() kernel.UUID { return c.deliveryID }
