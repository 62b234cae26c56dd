package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrMarkPickedUpCommandIsNotConstructed = errors.New(
	"MarkPickedUpCommand must be created via NewMarkPickedUpCommand constructor",
)

// MarkPickedUpCommand records package collection by the assigned courier,
// with optional photo evidence and notes. Pickup triggers the issuance of
// the recipient's confirmation code.
type MarkPickedUpCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	courierID  kernel.UUID
	photoURL   string
	notes      string

	guard guard.ConstructorGuard
}

// NewMarkPickedUpCommand creates a command recording package collection.
func NewMarkPickedUpCommand(
	deliveryID kernel.UUID,
	courierID kernel.UUID,
	photoURL string,
	notes string,
) (MarkPickedUpCommand, error) {
	if err := errors.Join(deliveryID.Validate(), courierID.Validate()); err != nil {
		return MarkPickedUpCommand{}, err
	}

	return MarkPickedUpCommand{
		deliveryID: deliveryID,
		courierID:  courierID,
		photoURL:   photoURL,
		notes:      notes,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrMarkPickedUpCommandIsNotConstructed if validation fails.
func (c MarkPickedUpCommand) Validate() error {
	return c.guard.Validate(ErrMarkPickedUpCommandIsNotConstructed)
}

// DeliveryID returns the delivery being collected.
func (c MarkPickedUpCommand) DeliveryID() kernel.UUID { return c.deliveryID }

// CourierID returns the acting courier.
func (c MarkPickedUpCommand) CourierID() kernel.UUID { return c.courierID }

// PhotoURL returns the reference to the collection photo, possibly empty.
func (c MarkPickedUpCommand) PhotoURL() string { return c.photoURL }

// Notes returns the courier's collection notes, possibly empty.
func (c MarkPickedUpCommand) Notes() string { return c.notes }
