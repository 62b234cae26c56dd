package delivery

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var (
	// ErrCandidateIsNotConstructed is returned when a Candidate instance was
	// not created through the NewCandidate factory method.
	ErrCandidateIsNotConstructed = errors.New("Candidate must be created via NewCandidate constructor")

	// ErrCandidateAlreadyResponded is returned when recording a response on a
	// candidate that already has one. Responses are write-once.
	ErrCandidateAlreadyResponded = errors.New("candidate has already responded")
)

// Response is a courier's reply to a matching notification.
type Response int

const (
	// ResponseNone means the courier has not replied yet.
	ResponseNone Response = iota

	// ResponseAccepted means the courier accepted the delivery.
	ResponseAccepted

	// ResponseRejected means the courier declined the delivery.
	ResponseRejected
)

// String returns the canonical name of the response.
func (r Response) String() string {
	switch r {
	case ResponseAccepted:
		return "ACCEPTED"
	case ResponseRejected:
		return "REJECTED"
	default:
		return "NONE"
	}
}

// Candidate records one courier notified during one matching round of a
// delivery. The (delivery, courier, attempt) triple is unique: re-running the
// same round must not notify the same courier twice.
//
// A candidate's response is write-once. Responses referencing a superseded
// attempt are fenced out at the use-case layer before they reach the entity.
type Candidate struct {
	deliveryID  kernel.UUID
	courierID   kernel.UUID
	attempt     int
	notifiedAt  time.Time
	response    Response
	respondedAt *time.Time
	reason      string

	isConstructed bool
}

// NewCandidate creates a Candidate for the given matching round, stamped as
// notified now.
func NewCandidate(deliveryID kernel.UUID, courierID kernel.UUID, attempt int) (*Candidate, error) {
	if err := errors.Join(deliveryID.Validate(), courierID.Validate()); err != nil {
		return nil, err
	}
	if attempt < 1 || attempt > MaxMatchingAttempts {
		return nil, errs.NewValueIsOutOfRangeError("attempt", attempt, 1, MaxMatchingAttempts)
	}

	return &Candidate{
		deliveryID:    deliveryID,
		courierID:     courierID,
		attempt:       attempt,
		notifiedAt:    time.Now().UTC(),
		response:      ResponseNone,
		isConstructed: true,
	}, nil
}

// RestoreCandidate reconstructs a Candidate from persistence.
func RestoreCandidate(
	deliveryID kernel.UUID,
	courierID kernel.UUID,
	attempt int,
	notifiedAt time.Time,
	response Response,
	respondedAt *time.Time,
	reason string,
) (*Candidate, error) {
	c, err := NewCandidate(deliveryID, courierID, attempt)
	if err != nil {
		return nil, err
	}

	c.notifiedAt = notifiedAt
	c.response = response
	c.respondedAt = respondedAt
	c.reason = reason
	return c, nil
}

// Validate ensures the Candidate instance was properly constructed.
func (c *Candidate) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCandidateIsNotConstructed
	}
	return nil
}

// DeliveryID returns the delivery this candidate was notified for.
func (c *Candidate) DeliveryID() kernel.UUID { return c.deliveryID }

// CourierID returns the notified courier.
func (c *Candidate) CourierID() kernel.UUID { return c.courierID }

// Attempt returns the matching round this notification belongs to.
func (c *Candidate) Attempt() int { return c.attempt }

// NotifiedAt returns when the courier was notified.
func (c *Candidate) NotifiedAt() time.Time { return c.notifiedAt }

// Response returns the courier's reply, ResponseNone if pending.
func (c *Candidate) Response() Response { return c.response }

// RespondedAt returns when the courier replied, nil if pending.
func (c *Candidate) RespondedAt() *time.Time { return c.respondedAt }

// Reason returns the free-form rejection reason, empty otherwise.
func (c *Candidate) Reason() string { return c.reason }

// HasResponded reports whether the courier has replied.
func (c *Candidate) HasResponded() bool {
	return c.response != ResponseNone
}

// Accept records an acceptance reply. Write-once.
func (c *Candidate) Accept() error {
	return c.respond(ResponseAccepted, "")
}

// Reject records a rejection reply with an optional reason. Write-once.
func (c *Candidate) Reject(reason string) error {
	return c.respond(ResponseRejected, reason)
}

func (c *Candidate) respond(response Response, reason string) error {
	if c.HasResponded() {
		return ErrCandidateAlreadyResponded
	}

	now := time.Now().UTC()
	c.response = response
	c.respondedAt = &now
	c.reason = reason
	return nil
}
