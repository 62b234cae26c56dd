package delivery

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// MaxMatchingAttempts bounds how many matching rounds a delivery may go
// through before it is marked unassignable.
const MaxMatchingAttempts = 3

var (
	// ErrDeliveryIsNotConstructed is returned when a Delivery instance was not
	// created through the NewDelivery factory method.
	ErrDeliveryIsNotConstructed = errors.New("Delivery must be created via NewDelivery constructor")

	// ErrCourierAlreadyAssigned is returned when assigning a courier to a
	// delivery that already has one. The assignment is immutable until
	// cancellation.
	ErrCourierAlreadyAssigned = errors.New("delivery already has an assigned courier")

	// ErrActorIsNotAssignedCourier is returned when a lifecycle action is
	// attempted by a courier other than the one assigned to the delivery.
	ErrActorIsNotAssignedCourier = errors.New("actor is not the assigned courier")

	// ErrMatchingAttemptsExhausted is returned when a matching round beyond
	// MaxMatchingAttempts is requested.
	ErrMatchingAttemptsExhausted = errors.New("matching attempts exhausted")
)

// InvalidTransitionError reports an attempted move that the transition table
// forbids. It carries both the current and the attempted status so callers can
// surface them to clients for UI resynchronization.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition: %s -> %s", e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return errs.ErrValueIsInvalid
}

// Contact holds the name and phone number of the person at a pickup or drop
// point. The name is required; the phone may be empty for self-service drops.
type Contact struct {
	name  string
	phone string
}

// NewContact creates a Contact with a required name.
func NewContact(name string, phone string) (Contact, error) {
	if name == "" {
		return Contact{}, errs.NewValueIsRequiredError("contact name")
	}
	return Contact{name: name, phone: phone}, nil
}

// Name returns the contact person's name.
func (c Contact) Name() string { return c.name }

// Phone returns the contact person's phone number, possibly empty.
func (c Contact) Phone() string { return c.phone }

// Delivery represents a delivery request in the system. It is the aggregate
// root that drives the lifecycle from creation through matching, courier
// acceptance, and the pickup/transit/delivered/closed progression.
//
// Delivery follows these invariants:
//   - Must have valid unique and requester identifiers
//   - Pickup and drop are validated GeoPoints with contacts
//   - Status transitions follow the declarative transition table
//   - The assigned courier is non-nil exactly when the status requires one,
//     and once set it is immutable until cancellation
//   - The matching attempt counter never exceeds MaxMatchingAttempts
//   - Can only be created through NewDelivery or RestoreDelivery
type Delivery struct {
	id             kernel.UUID
	requesterID    kernel.UUID
	courierID      *kernel.UUID
	pickup         kernel.GeoPoint
	drop           kernel.GeoPoint
	pickupContact  Contact
	dropContact    Contact
	status         Status
	attempts       int
	estimatedPrice decimal.Decimal
	finalPrice     *decimal.Decimal
	createdAt      time.Time
	assignedAt     *time.Time
	completedAt    *time.Time
	updatedAt      time.Time

	// isConstructed ensures the delivery was created via a constructor
	isConstructed bool
}

// NewDelivery creates a new Delivery in Created status with validation.
//
// Parameters:
//   - id: Unique identifier for the delivery
//   - requesterID: The requesting customer's identifier
//   - pickup, drop: Validated pickup and drop points
//   - pickupContact, dropContact: Contact persons at each end
//   - estimatedPrice: Non-negative price estimate computed at request time
//
// Returns:
//   - *Delivery: The created delivery if all validations pass
//   - error: Validation error if any parameter is invalid
func NewDelivery(
	id kernel.UUID,
	requesterID kernel.UUID,
	pickup kernel.GeoPoint,
	drop kernel.GeoPoint,
	pickupContact Contact,
	dropContact Contact,
	estimatedPrice decimal.Decimal,
) (*Delivery, error) {
	now := time.Now().UTC()
	d := &Delivery{
		status:        StatusCreated,
		pickupContact: pickupContact,
		dropContact:   dropContact,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		d.setID(id),
		d.setRequesterID(requesterID),
		d.setRoute(pickup, drop),
		d.setEstimatedPrice(estimatedPrice),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// RestoreDelivery reconstructs a Delivery from persistence, enforcing the
// status/courier consistency invariant.
func RestoreDelivery(
	id kernel.UUID,
	requesterID kernel.UUID,
	courierID *kernel.UUID,
	pickup kernel.GeoPoint,
	drop kernel.GeoPoint,
	pickupContact Contact,
	dropContact Contact,
	status Status,
	attempts int,
	estimatedPrice decimal.Decimal,
	finalPrice *decimal.Decimal,
	createdAt time.Time,
	assignedAt *time.Time,
	completedAt *time.Time,
	updatedAt time.Time,
) (*Delivery, error) {
	d, err := NewDelivery(id, requesterID, pickup, drop, pickupContact, dropContact, estimatedPrice)
	if err != nil {
		return nil, err
	}

	if err = status.Validate(); err != nil {
		return nil, err
	}
	if status.RequiresCourier() && courierID == nil {
		return nil, errs.NewValueIsRequiredErrorWithCause("courierID",
			fmt.Errorf("%s requires an assigned courier", status))
	}
	if courierID != nil {
		if err = courierID.Validate(); err != nil {
			return nil, err
		}
	}

	d.courierID = courierID
	d.status = status
	d.attempts = attempts
	d.finalPrice = finalPrice
	d.createdAt = createdAt
	d.assignedAt = assignedAt
	d.completedAt = completedAt
	d.updatedAt = updatedAt
	return d, nil
}

// Validate ensures the Delivery instance was properly constructed.
func (d *Delivery) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDeliveryIsNotConstructed
	}
	return nil
}

// IsEqual compares two deliveries by their unique identifiers.
func (d *Delivery) IsEqual(other *Delivery) bool {
	return other != nil && d.id.IsEqual(other.id)
}

// ID returns the delivery's unique identifier.
func (d *Delivery) ID() kernel.UUID { return d.id }

// RequesterID returns the requesting customer's identifier.
func (d *Delivery) RequesterID() kernel.UUID { return d.requesterID }

// Courier returns the assigned courier's identifier, nil if unassigned.
func (d *Delivery) Courier() *kernel.UUID { return d.courierID }

// Pickup returns the pickup point.
func (d *Delivery) Pickup() kernel.GeoPoint { return d.pickup }

// Drop returns the drop point.
func (d *Delivery) Drop() kernel.GeoPoint { return d.drop }

// PickupContact returns the contact at the pickup point.
func (d *Delivery) PickupContact() Contact { return d.pickupContact }

// DropContact returns the contact at the drop point.
func (d *Delivery) DropContact() Contact { return d.dropContact }

// Status returns the current lifecycle status.
func (d *Delivery) Status() Status { return d.status }

// MatchingAttempts returns how many matching rounds have been started.
func (d *Delivery) MatchingAttempts() int { return d.attempts }

// EstimatedPrice returns the price estimate computed at request time.
func (d *Delivery) EstimatedPrice() decimal.Decimal { return d.estimatedPrice }

// FinalPrice returns the settled price, nil until delivery completion.
func (d *Delivery) FinalPrice() *decimal.Decimal { return d.finalPrice }

// CreatedAt returns when the delivery was requested.
func (d *Delivery) CreatedAt() time.Time { return d.createdAt }

// AssignedAt returns when a courier accepted, nil if not yet assigned.
func (d *Delivery) AssignedAt() *time.Time { return d.assignedAt }

// CompletedAt returns when the hand-off happened, nil before delivery.
func (d *Delivery) CompletedAt() *time.Time { return d.completedAt }

// UpdatedAt returns when the delivery was last modified.
func (d *Delivery) UpdatedAt() time.Time { return d.updatedAt }

// StartMatching moves the delivery into Matching for the given round and
// records the attempt counter. The round number must not exceed
// MaxMatchingAttempts.
func (d *Delivery) StartMatching(attempt int) error {
	if attempt < 1 || attempt > MaxMatchingAttempts {
		return ErrMatchingAttemptsExhausted
	}

	// Re-entering Matching for a retry round is not a state change.
	if d.status != StatusMatching {
		if err := d.transitionTo(StatusMatching); err != nil {
			return err
		}
	}

	d.attempts = attempt
	d.touch()
	return nil
}

// Accept assigns the delivery to the accepting courier and moves it to
// Accepted. Fails with ErrCourierAlreadyAssigned when another courier won the
// race first. Note that the authoritative at-most-one-winner guarantee lives
// in the storage layer's conditional write; this check covers the in-memory
// aggregate.
func (d *Delivery) Accept(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	if d.courierID != nil {
		return ErrCourierAlreadyAssigned
	}
	if err := d.transitionTo(StatusAccepted); err != nil {
		return err
	}

	now := time.Now().UTC()
	d.courierID = &courierID
	d.assignedAt = &now
	d.touch()
	return nil
}

// MarkUnassignable records that matching exhausted its rounds without an
// acceptance.
func (d *Delivery) MarkUnassignable() error {
	if err := d.transitionTo(StatusUnassignable); err != nil {
		return err
	}
	d.touch()
	return nil
}

// MarkPickedUp records package collection by the assigned courier.
// Only the assigned courier may perform this action.
func (d *Delivery) MarkPickedUp(actor kernel.UUID) error {
	if err := d.verifyAssignedCourier(actor); err != nil {
		return err
	}
	if err := d.transitionTo(StatusPickedUp); err != nil {
		return err
	}
	d.touch()
	return nil
}

// MarkInTransit records that the package is moving toward the drop point.
// Only the assigned courier may perform this action.
func (d *Delivery) MarkInTransit(actor kernel.UUID) error {
	if err := d.verifyAssignedCourier(actor); err != nil {
		return err
	}
	if err := d.transitionTo(StatusInTransit); err != nil {
		return err
	}
	d.touch()
	return nil
}

// MarkDelivered records the hand-off to the recipient and settles the final
// price. The final price currently mirrors the estimate; adjustment logic is
// a downstream settlement concern. Only the assigned courier may perform
// this action.
func (d *Delivery) MarkDelivered(actor kernel.UUID, finalPrice decimal.Decimal) error {
	if err := d.verifyAssignedCourier(actor); err != nil {
		return err
	}
	if finalPrice.IsNegative() {
		return errs.NewValueIsInvalidError("finalPrice")
	}
	if err := d.transitionTo(StatusDelivered); err != nil {
		return err
	}

	now := time.Now().UTC()
	d.finalPrice = &finalPrice
	d.completedAt = &now
	d.touch()
	return nil
}

// Close finalizes a delivered delivery.
func (d *Delivery) Close() error {
	if err := d.transitionTo(StatusClosed); err != nil {
		return err
	}
	d.touch()
	return nil
}

// Cancel aborts the delivery from any non-terminal state the table allows and
// releases the courier assignment.
func (d *Delivery) Cancel() error {
	if err := d.transitionTo(StatusCancelled); err != nil {
		return err
	}
	d.courierID = nil
	d.touch()
	return nil
}

// verifyAssignedCourier checks that the actor is the assigned courier.
func (d *Delivery) verifyAssignedCourier(actor kernel.UUID) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if d.courierID == nil || !d.courierID.IsEqual(actor) {
		return ErrActorIsNotAssignedCourier
	}
	return nil
}

// transitionTo consults the transition table and applies the move.
func (d *Delivery) transitionTo(target Status) error {
	if !d.status.CanTransitionTo(target) {
		return &InvalidTransitionError{From: d.status, To: target}
	}
	d.status = target
	return nil
}

func (d *Delivery) touch() {
	d.updatedAt = time.Now().UTC()
}

// setID validates and sets the delivery identifier.
func (d *Delivery) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

// setRequesterID validates and sets the requester identifier.
func (d *Delivery) setRequesterID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.requesterID = id
	return nil
}

// setRoute validates and sets the pickup and drop points.
func (d *Delivery) setRoute(pickup kernel.GeoPoint, drop kernel.GeoPoint) error {
	if err := errors.Join(pickup.Validate(), drop.Validate()); err != nil {
		return err
	}
	d.pickup = pickup
	d.drop = drop
	return nil
}

// setEstimatedPrice validates and sets the price estimate.
func (d *Delivery) setEstimatedPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("estimatedPrice",
			fmt.Errorf("%s is negative", price))
	}
	d.estimatedPrice = price
	return nil
}
