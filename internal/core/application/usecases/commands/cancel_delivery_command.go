package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrCancelDeliveryCommandIsNotConstructed = errors.New(
	"CancelDeliveryCommand must be created via NewCancelDeliveryCommand constructor",
)

// CancelDeliveryCommand aborts a delivery from any state that still admits
// cancellation. Cancelling releases the assigned courier, if any.
type CancelDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	actorID    kernel.UUID
	reason     string

	guard guard.ConstructorGuard
}

// NewCancelDeliveryCommand creates a command to abort a delivery.
func NewCancelDeliveryCommand(deliveryID kernel.UUID, actorID kernel.UUID, reason string) (CancelDeliveryCommand, error) {
	if err := errors.Join(deliveryID.Validate(), actorID.Validate()); err != nil {
		return CancelDeliveryCommand{}, err
	}

	return CancelDeliveryCommand{
		deliveryID: deliveryID,
		actorID:    actorID,
		reason:     reason,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCancelDeliveryCommandIsNotConstructed if validation fails.
func (c CancelDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCancelDeliveryCommandIsNotConstructed)
}

// DeliveryID returns the delivery being cancelled.
func (c CancelDeliveryCommand) DeliveryID() kernel.UUID { return c.deliveryID }

// ActorID returns who requested the cancellation.
func (c CancelDeliveryCommand) ActorID() kernel.UUID { return c.actorID }

// Reason returns the free-form cancellation reason, possibly empty.
func (c CancelDeliveryCommand) Reason() string { return c.reason }
