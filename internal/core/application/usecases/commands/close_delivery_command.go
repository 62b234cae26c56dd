package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrCloseDeliveryCommandIsNotConstructed = errors.New(
	"CloseDeliveryCommand must be created via NewCloseDeliveryCommand constructor",
)

// CloseDeliveryCommand finalizes a delivered delivery. Closure is performed
// by the requester confirming receipt, or by the system when the
// confirmation window lapses.
type CloseDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	closedBy   *kernel.UUID

	guard guard.ConstructorGuard
}

// NewCloseDeliveryCommand creates a command to finalize a delivery.
// closedBy is nil for system auto-closure.
func NewCloseDeliveryCommand(deliveryID kernel.UUID, closedBy *kernel.UUID) (CloseDeliveryCommand, error) {
	if err := deliveryID.Validate(); err != nil {
		return CloseDeliveryCommand{}, err
	}
	if closedBy != nil {
		if err := closedBy.Validate(); err != nil {
			return CloseDeliveryCommand{}, err
		}
	}

	return CloseDeliveryCommand{
		deliveryID: deliveryID,
		closedBy:   closedBy,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCloseDeliveryCommandIsNotConstructed if validation fails.
func (c CloseDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCloseDeliveryCommandIsNotConstructed)
}

// DeliveryID returns the delivery being finalized.
func (c CloseDeliveryCommand) DeliveryID() kernel.UUID { return c.deliveryID }

// ClosedBy returns who confirmed receipt, nil for system closure.
func (c CloseDeliveryCommand) ClosedBy() *kernel.UUID { return c.closedBy }
