package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrMarkDeliveredCommandIsNotConstructed = errors.New(
	"MarkDeliveredCommand must be created via NewMarkDeliveredCommand constructor",
)

// MarkDeliveredCommand records the hand-off to the recipient, with the
// supplied confirmation code, recipient identity, evidence references, and
// the courier's reported position.
//
// A wrong or missing code does not block the hand-off; the delivery
// completes unverified and the mismatch is visible on the proof record.
type MarkDeliveredCommand struct { //nolint:recvcheck //using for validation
	deliveryID        kernel.UUID
	courierID         kernel.UUID
	otpCode           string
	recipientName     string
	recipientRelation string
	photoURL          string
	signatureURL      string
	condition         string
	position          *kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewMarkDeliveredCommand creates a command recording the hand-off.
func NewMarkDeliveredCommand(
	deliveryID kernel.UUID,
	courierID kernel.UUID,
	otpCode string,
	recipientName string,
	recipientRelation string,
	photoURL string,
	signatureURL string,
	condition string,
	position *kernel.GeoPoint,
) (MarkDeliveredCommand, error) {
	if err := errors.Join(deliveryID.Validate(), courierID.Validate()); err != nil {
		return MarkDeliveredCommand{}, err
	}
	if position != nil {
		if err := position.Validate(); err != nil {
			return MarkDeliveredCommand{}, err
		}
	}

	return MarkDeliveredCommand{
		deliveryID:        deliveryID,
		courierID:         courierID,
		otpCode:           otpCode,
		recipientName:     recipientName,
		recipientRelation: recipientRelation,
		photoURL:          photoURL,
		signatureURL:      signatureURL,
		condition:         condition,
		position:          position,
		guard:             guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrMarkDeliveredCommandIsNotConstructed if validation fails.
func (c MarkDeliveredCommand) Validate() error {
	return c.guard.Validate(ErrMarkDeliveredCommandIsNotConstructed)
}

// DeliveryID returns the delivery being handed off.
func (c MarkDeliveredCommand) DeliveryID() kernel.UUID { return c.deliveryID }

// CourierID returns the acting courier.
func (c MarkDeliveredCommand) CourierID() kernel.UUID { return c.courierID }

// OTPCode returns the confirmation code supplied by the recipient, possibly
// empty.
func (c MarkDeliveredCommand) OTPCode() string { return c.otpCode }

// RecipientName returns who received the package.
func (c MarkDeliveredCommand) RecipientName() string { return c.recipientName }

// RecipientRelation returns the recipient's relation to the addressee.
func (c MarkDeliveredCommand) RecipientRelation() string { return c.recipientRelation }

// PhotoURL returns the reference to the hand-off photo, possibly empty.
func (c MarkDeliveredCommand) PhotoURL() string { return c.photoURL }

// SignatureURL returns the reference to the signature image, possibly empty.
func (c MarkDeliveredCommand) SignatureURL() string { return c.signatureURL }

// Condition returns the reported package condition, possibly empty.
func (c MarkDeliveredCommand) Condition() string { return c.condition }

// Position returns where the courier reported the hand-off, nil if absent.
func (c MarkDeliveredCommand) Position() *kernel.GeoPoint { return c.position }
