package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrRejectDeliveryCommandIsNotConstructed = errors.New(
	"RejectDeliveryCommand must be created via NewRejectDeliveryCommand constructor",
)

// RejectDeliveryCommand records a courier declining a matching notification,
// with an optional free-form reason.
type RejectDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	courierID  kernel.UUID
	reason     string

	guard guard.ConstructorGuard
}

// NewRejectDeliveryCommand creates a command recording a rejection.
func NewRejectDeliveryCommand(deliveryID kernel.UUID, courierID kernel.UUID, reason string) (RejectDeliveryCommand, error) {
	if err := errors.Join(deliveryID.Validate(), courierID.Validate()); err != nil {
		return RejectDeliveryCommand{}, err
	}

	return RejectDeliveryCommand{
		deliveryID: deliveryID,
		courierID:  courierID,
		reason:     reason,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrRejectDeliveryCommandIsNotConstructed if validation fails.
func (c RejectDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrRejectDeliveryCommandIsNotConstructed)
}

// DeliveryID returns the delivery being declined.
func (c RejectDeliveryCommand) DeliveryID() kernel.UUID { return c.deliveryID }

// CourierID returns the declining courier.
func (c RejectDeliveryCommand) CourierID() kernel.UUID { return c.courierID }

// Reason returns the free-form rejection reason, possibly empty.
func (c RejectDeliveryCommand) Reason() string { return c.reason }
