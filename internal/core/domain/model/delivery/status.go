package delivery

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of a delivery.
// It implements a state machine whose transitions are held in a single
// declarative table, ensuring deliveries follow the correct workflow.
//
// State transitions:
//
//	Created ──> Matching ──┬──> Accepted ──> PickedUp ──> InTransit ──> Delivered ──> Closed
//	                       ├──> Assigned ──┘
//	                       └──> Unassignable ──> Matching (reopenable)
//
// Every non-terminal state may also divert to Cancelled. Closed and Cancelled
// are terminal. Unassignable is terminal-but-reopenable: a later matching
// round may return it to Matching.
//
// Status is a value object that validates state transitions and provides
// string representations for persistence and display.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// StatusCreated is the initial status of a freshly requested delivery.
	StatusCreated

	// StatusMatching means a matching round is in progress: candidates have
	// been selected and notified, none has accepted yet.
	StatusMatching

	// StatusAssigned means a courier has been designated without their
	// explicit acceptance (operator-driven assignment).
	StatusAssigned

	// StatusAccepted means a courier has accepted the delivery.
	StatusAccepted

	// StatusPickedUp means the courier has collected the package.
	StatusPickedUp

	// StatusInTransit means the package is on its way to the drop point.
	StatusInTransit

	// StatusDelivered means the package was handed to the recipient.
	StatusDelivered

	// StatusClosed means the delivery is finalized. Terminal.
	StatusClosed

	// StatusCancelled means the delivery was aborted. Terminal.
	StatusCancelled

	// StatusUnassignable means matching exhausted its attempts without an
	// acceptance. The delivery may be returned to Matching later.
	StatusUnassignable
)

// getStatusStrings returns a map of Status values to their string
// representations. All statuses are included for string conversion.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:      "UNKNOWN",
		StatusCreated:      "CREATED",
		StatusMatching:     "MATCHING",
		StatusAssigned:     "ASSIGNED",
		StatusAccepted:     "ACCEPTED",
		StatusPickedUp:     "PICKED_UP",
		StatusInTransit:    "IN_TRANSIT",
		StatusDelivered:    "DELIVERED",
		StatusClosed:       "CLOSED",
		StatusCancelled:    "CANCELLED",
		StatusUnassignable: "UNASSIGNABLE",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
// Only valid statuses are included to support validation.
func getValidStatusStrings() map[Status]string {
	m := getStatusStrings()
	delete(m, StatusUnknown)
	return m
}

// transitionTable is the single authority on legal status transitions.
// There is no implicit fallthrough: a pair absent from this table is illegal.
func transitionTable() map[Status][]Status {
	return map[Status][]Status{
		StatusCreated:      {StatusMatching, StatusCancelled},
		StatusMatching:     {StatusAssigned, StatusAccepted, StatusUnassignable, StatusCancelled},
		StatusAssigned:     {StatusAccepted, StatusPickedUp, StatusCancelled},
		StatusAccepted:     {StatusPickedUp, StatusCancelled},
		StatusPickedUp:     {StatusInTransit, StatusCancelled},
		StatusInTransit:    {StatusDelivered, StatusCancelled},
		StatusDelivered:    {StatusClosed},
		StatusUnassignable: {StatusMatching, StatusCancelled},
		StatusClosed:       {},
		StatusCancelled:    {},
	}
}

// Validate checks if the Status value is one of the defined lifecycle states.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the canonical name of the status ("PICKED_UP" etc.).
// It implements the fmt.Stringer interface and is safe to call on any value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// AllowedTransitions returns the exact set of statuses this status may move
// to, in declaration order. Terminal statuses return an empty slice.
// The returned slice is a copy; callers may modify it freely.
func (s Status) AllowedTransitions() []Status {
	row, ok := transitionTable()[s]
	if !ok {
		return []Status{}
	}
	out := make([]Status, len(row))
	copy(out, row)
	return out
}

// CanTransitionTo reports whether moving from this status to the target is
// legal under the transition table. It is a pure lookup with no side effects.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range transitionTable()[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions.
func (s Status) IsTerminal() bool {
	return len(transitionTable()[s]) == 0
}

// RequiresCourier reports whether a delivery in this status must have an
// assigned courier. The assigned-courier field is non-nil exactly for
// Accepted through Delivered plus Closed.
func (s Status) RequiresCourier() bool {
	switch s {
	case StatusAccepted, StatusPickedUp, StatusInTransit, StatusDelivered, StatusClosed:
		return true
	default:
		return false
	}
}
