package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrMarkInTransitCommandIsNotConstructed = errors.New(
	"MarkInTransitCommand must be created via NewMarkInTransitCommand constructor",
)

// MarkInTransitCommand records that the assigned courier is moving toward
// the drop point.
type MarkInTransitCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	courierID  kernel.UUID

	guard guard.ConstructorGuard
}

// NewMarkInTransitCommand creates a command recording transit start.
func NewMarkInTransitCommand(deliveryID kernel.UUID, courierID kernel.UUID) (MarkInTransitCommand, error) {
	if err := errors.Join(deliveryID.Validate(), courierID.Validate()); err != nil {
		return MarkInTransitCommand{}, err
	}

	return MarkInTransitCommand{
		deliveryID: deliveryID,
		courierID:  courierID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrMarkInTransitCommandIsNotConstructed if validation fails.
func (c MarkInTransitCommand) Validate() error {
	return c.guard.Validate(ErrMarkInTransitCommandIsNotConstructed)
}

// DeliveryID returns the delivery entering transit.
func (c MarkInTransitCommand) DeliveryID() kernel.UUID { return c.deliveryID }

// CourierID returns the acting courier.
func (c MarkInTransitCommand) CourierID() kernel.UUID { return c.courierID }
