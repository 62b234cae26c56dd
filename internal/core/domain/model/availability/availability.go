package availability

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var (
	// ErrRecordIsNotConstructed is returned when a Record instance was not
	// created through the NewRecord factory method.
	ErrRecordIsNotConstructed = errors.New("Record must be created via NewRecord constructor")

	// ErrBusyWithoutDelivery is returned when marking a courier busy without
	// naming the delivery occupying them.
	ErrBusyWithoutDelivery = errors.New("busy courier must reference a current delivery")
)

// Status represents a courier's availability for new deliveries.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// StatusOffline means the courier is not working. Offline couriers still
	// receive matching notifications (they may come online for them).
	StatusOffline

	// StatusAvailable means the courier is online and free.
	StatusAvailable

	// StatusBusy means the courier is occupied with an active delivery.
	StatusBusy

	// StatusBreak means the courier is online but temporarily not taking work.
	StatusBreak
)

// getValidStatusStrings returns only valid statuses, to support validation.
func getValidStatusStrings() map[Status]string {
	return map[Status]string{
		StatusOffline:   "OFFLINE",
		StatusAvailable: "AVAILABLE",
		StatusBusy:      "BUSY",
		StatusBreak:     "BREAK",
	}
}

// String returns the canonical name of the status.
func (s Status) String() string {
	if str, ok := getValidStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// Validate checks if the Status value is one of the defined statuses.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("availability status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// Record tracks one courier's availability and last known position.
//
// Invariant: a Busy record always references the delivery occupying the
// courier, and only Busy records do. Lifecycle-driven changes (accept makes
// busy, completion releases) take precedence over manual toggles; the
// use-case layer re-checks the current delivery before clearing Busy.
type Record struct {
	courierID         kernel.UUID
	status            Status
	currentDeliveryID *kernel.UUID
	lastPosition      *kernel.GeoPoint
	locatedAt         *time.Time
	updatedAt         time.Time

	isConstructed bool
}

// NewRecord creates an availability record for a courier, initially Offline
// with no known position.
func NewRecord(courierID kernel.UUID) (*Record, error) {
	if err := courierID.Validate(); err != nil {
		return nil, err
	}

	return &Record{
		courierID:     courierID,
		status:        StatusOffline,
		updatedAt:     time.Now().UTC(),
		isConstructed: true,
	}, nil
}

// RestoreRecord reconstructs a Record from persistence, enforcing the
// busy/current-delivery invariant.
func RestoreRecord(
	courierID kernel.UUID,
	status Status,
	currentDeliveryID *kernel.UUID,
	lastPosition *kernel.GeoPoint,
	locatedAt *time.Time,
	updatedAt time.Time,
) (*Record, error) {
	r, err := NewRecord(courierID)
	if err != nil {
		return nil, err
	}
	if err = status.Validate(); err != nil {
		return nil, err
	}
	if status == StatusBusy && currentDeliveryID == nil {
		return nil, ErrBusyWithoutDelivery
	}

	r.status = status
	r.currentDeliveryID = currentDeliveryID
	r.lastPosition = lastPosition
	r.locatedAt = locatedAt
	r.updatedAt = updatedAt
	return r, nil
}

// Validate ensures the Record instance was properly constructed.
func (r *Record) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRecordIsNotConstructed
	}
	return nil
}

// CourierID returns the courier this record tracks.
func (r *Record) CourierID() kernel.UUID { return r.courierID }

// Status returns the courier's current availability.
func (r *Record) Status() Status { return r.status }

// CurrentDeliveryID returns the delivery occupying the courier, nil unless Busy.
func (r *Record) CurrentDeliveryID() *kernel.UUID { return r.currentDeliveryID }

// LastPosition returns the courier's last reported position, nil if unknown.
func (r *Record) LastPosition() *kernel.GeoPoint { return r.lastPosition }

// LocatedAt returns when the last position was reported, nil if unknown.
func (r *Record) LocatedAt() *time.Time { return r.locatedAt }

// UpdatedAt returns when the record was last modified.
func (r *Record) UpdatedAt() time.Time { return r.updatedAt }

// IsNotifiable reports whether the courier should receive matching
// notifications: Available and Offline couriers are notifiable, Busy and
// on-Break couriers are not.
func (r *Record) IsNotifiable() bool {
	return r.status == StatusAvailable || r.status == StatusOffline
}

// SetStatus applies a manual availability toggle. Moving to Busy requires
// MarkBusy instead, so a delivery reference is never omitted.
func (r *Record) SetStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if status == StatusBusy {
		return ErrBusyWithoutDelivery
	}

	r.status = status
	r.touch()
	return nil
}

// MarkBusy records that a delivery now occupies the courier.
func (r *Record) MarkBusy(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}

	r.status = StatusBusy
	r.currentDeliveryID = &deliveryID
	r.touch()
	return nil
}

// Release clears the current delivery and returns the courier to Available.
// Called when their delivery completes or is cancelled.
func (r *Record) Release() {
	r.status = StatusAvailable
	r.currentDeliveryID = nil
	r.touch()
}

// ClearCurrentDelivery drops a stale delivery reference without changing
// status. Used when reconciling a Busy record whose delivery has since
// finished.
func (r *Record) ClearCurrentDelivery() {
	r.currentDeliveryID = nil
	r.touch()
}

// UpdatePosition records the courier's latest reported position.
func (r *Record) UpdatePosition(position kernel.GeoPoint) error {
	if err := position.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	r.lastPosition = &position
	r.locatedAt = &now
	r.touch()
	return nil
}

func (r *Record) touch() {
	r.updatedAt = time.Now().UTC()
}
