package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrCreateDeliveryCommandIsNotConstructed = errors.New(
	"CreateDeliveryCommand must be created via NewCreateDeliveryCommand constructor",
)

// CreateDeliveryCommand represents a request to register a new delivery.
// Encapsulates the route, the contacts at each end, and the price estimate
// computed at request time.
//
// Example:
//
//	pickup, _ := kernel.NewGeoPoint(28.6139, 77.2090)
//	drop, _ := kernel.NewGeoPoint(28.7041, 77.1025)
//	pickupContact, _ := delivery.NewContact("Store 12", "+911100000000")
//	dropContact, _ := delivery.NewContact("A. Sharma", "+911100000001")
//	cmd, err := NewCreateDeliveryCommand(
//	    kernel.NewUUID(), vendorID, pickup, drop,
//	    pickupContact, dropContact, decimal.NewFromInt(120),
//	)
//	if err != nil {
//	    return fmt.Errorf("invalid delivery data: %w", err)
//	}
//	result, err := handler.Handle(ctx, cmd)
type CreateDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryID     kernel.UUID
	requesterID    kernel.UUID
	pickup         kernel.GeoPoint
	drop           kernel.GeoPoint
	pickupContact  delivery.Contact
	dropContact    delivery.Contact
	estimatedPrice decimal.Decimal

	guard guard.ConstructorGuard
}

// NewCreateDeliveryCommand creates a command to register a new delivery.
// Validates identifiers and route points; contact and price validation is
// delegated to the aggregate constructor.
func NewCreateDeliveryCommand(
	deliveryID kernel.UUID,
	requesterID kernel.UUID,
	pickup kernel.GeoPoint,
	drop kernel.GeoPoint,
	pickupContact delivery.Contact,
	dropContact delivery.Contact,
	estimatedPrice decimal.Decimal,
) (CreateDeliveryCommand, error) {
	cmd := CreateDeliveryCommand{
		pickupContact:  pickupContact,
		dropContact:    dropContact,
		estimatedPrice: estimatedPrice,
		guard:          guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDeliveryID(deliveryID),
		cmd.setRequesterID(requesterID),
		cmd.setRoute(pickup, drop),
	); err != nil {
		return CreateDeliveryCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateDeliveryCommandIsNotConstructed if validation fails.
func (c CreateDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCreateDeliveryCommandIsNotConstructed)
}

// DeliveryID returns the identifier for the new delivery.
func (c CreateDeliveryCommand) DeliveryID() kernel.UUID { return c.deliveryID }

// RequesterID returns the requesting customer's identifier.
func (c CreateDeliveryCommand) RequesterID() kernel.UUID { return c.requesterID }

// Pickup returns the pickup point.
func (c CreateDeliveryCommand) Pickup() kernel.GeoPoint { return c.pickup }

// Drop returns the drop point.
func (c CreateDeliveryCommand) Drop() kernel.GeoPoint { return c.drop }

// PickupContact returns the contact at the pickup point.
func (c CreateDeliveryCommand) PickupContact() delivery.Contact { return c.pickupContact }

// DropContact returns the contact at the drop point.
func (c CreateDeliveryCommand) DropContact() delivery.Contact { return c.dropContact }

// EstimatedPrice returns the price estimate computed at request time.
func (c CreateDeliveryCommand) EstimatedPrice() decimal.Decimal { return c.estimatedPrice }

func (c *CreateDeliveryCommand) setDeliveryID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.deliveryID = id
	return nil
}

func (c *CreateDeliveryCommand) setRequesterID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.requesterID = id
	return nil
}

func (c *CreateDeliveryCommand) setRoute(pickup kernel.GeoPoint, drop kernel.GeoPoint) error {
	if err := errors.Join(pickup.Validate(), drop.Validate()); err != nil {
		return err
	}

	c.pickup = pickup
	c.drop = drop
	return nil
}
