package delivery

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// ErrEventIsNotConstructed is returned when an Event instance was not created
// through the NewEvent factory method.
var ErrEventIsNotConstructed = errors.New("Event must be created via NewEvent constructor")

// EventType identifies what happened to a delivery.
type EventType int

const (
	// EventUnknown represents an invalid or undefined event type.
	EventUnknown EventType = iota

	// EventCreated records the initial delivery request.
	EventCreated

	// EventMatched records a completed matching round with its candidate list.
	EventMatched

	// EventAccepted records a courier accepting the delivery.
	EventAccepted

	// EventRejected records a courier declining a notification.
	EventRejected

	// EventPickedUp records package collection.
	EventPickedUp

	// EventInTransit records transit start.
	EventInTransit

	// EventDelivered records the hand-off to the recipient.
	EventDelivered

	// EventClosed records finalization.
	EventClosed

	// EventCancelled records abortion of the delivery.
	EventCancelled

	// EventUnassignable records exhaustion of matching attempts.
	EventUnassignable

	// EventOTPSent records issuance of a confirmation code.
	EventOTPSent
)

// String returns the canonical name of the event type.
func (t EventType) String() string {
	names := map[EventType]string{
		EventCreated:      "CREATED",
		EventMatched:      "MATCHED",
		EventAccepted:     "ACCEPTED",
		EventRejected:     "REJECTED",
		EventPickedUp:     "PICKED_UP",
		EventInTransit:    "IN_TRANSIT",
		EventDelivered:    "DELIVERED",
		EventClosed:       "CLOSED",
		EventCancelled:    "CANCELLED",
		EventUnassignable: "UNASSIGNABLE",
		EventOTPSent:      "OTP_SENT",
	}
	if s, ok := names[t]; ok {
		return s
	}
	return "UNKNOWN"
}

// EventTypeFromString resolves a canonical event type name back to its value.
func EventTypeFromString(s string) (EventType, error) {
	for t := EventCreated; t <= EventOTPSent; t++ {
		if t.String() == s {
			return t, nil
		}
	}
	return EventUnknown, errs.NewValueIsInvalidError("eventType")
}

// Event is one append-only audit row in a delivery's history. Events are
// never mutated after creation; the history is the authoritative trail for
// support and settlement review.
type Event struct {
	id         kernel.UUID
	deliveryID kernel.UUID
	eventType  EventType
	fromStatus Status
	toStatus   Status
	actorID    *kernel.UUID
	metadata   map[string]any
	createdAt  time.Time

	isConstructed bool
}

// NewEvent creates an audit event capturing a status movement.
//
// Parameters:
//   - deliveryID: the delivery the event belongs to
//   - eventType: what happened
//   - fromStatus, toStatus: the status movement; equal for non-transition
//     events such as OTP issuance
//   - actorID: who triggered it, nil for the system
//   - metadata: free-form structured context (candidate lists, geolocation),
//     may be nil
func NewEvent(
	deliveryID kernel.UUID,
	eventType EventType,
	fromStatus Status,
	toStatus Status,
	actorID *kernel.UUID,
	metadata map[string]any,
) (*Event, error) {
	if err := deliveryID.Validate(); err != nil {
		return nil, err
	}
	if actorID != nil {
		if err := actorID.Validate(); err != nil {
			return nil, err
		}
	}

	return &Event{
		id:            kernel.NewUUID(),
		deliveryID:    deliveryID,
		eventType:     eventType,
		fromStatus:    fromStatus,
		toStatus:      toStatus,
		actorID:       actorID,
		metadata:      metadata,
		createdAt:     time.Now().UTC(),
		isConstructed: true,
	}, nil
}

// RestoreEvent reconstructs an Event from persistence.
func RestoreEvent(
	id kernel.UUID,
	deliveryID kernel.UUID,
	eventType EventType,
	fromStatus Status,
	toStatus Status,
	actorID *kernel.UUID,
	metadata map[string]any,
	createdAt time.Time,
) (*Event, error) {
	e, err := NewEvent(deliveryID, eventType, fromStatus, toStatus, actorID, metadata)
	if err != nil {
		return nil, err
	}
	if err = id.Validate(); err != nil {
		return nil, err
	}

	e.id = id
	e.createdAt = createdAt
	return e, nil
}

// Validate ensures the Event instance was properly constructed.
func (e *Event) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrEventIsNotConstructed
	}
	return nil
}

// ID returns the event's unique identifier.
func (e *Event) ID() kernel.UUID { return e.id }

// DeliveryID returns the delivery the event belongs to.
func (e *Event) DeliveryID() kernel.UUID { return e.deliveryID }

// Type returns what happened.
func (e *Event) Type() EventType { return e.eventType }

// FromStatus returns the status before the event.
func (e *Event) FromStatus() Status { return e.fromStatus }

// ToStatus returns the status after the event.
func (e *Event) ToStatus() Status { return e.toStatus }

// ActorID returns who triggered the event, nil for the system.
func (e *Event) ActorID() *kernel.UUID { return e.actorID }

// Metadata returns the structured context attached at creation, may be nil.
func (e *Event) Metadata() map[string]any { return e.metadata }

// CreatedAt returns when the event was recorded.
func (e *Event) CreatedAt() time.Time { return e.createdAt }
