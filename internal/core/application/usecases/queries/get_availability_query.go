package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetAvailabilityQueryIsNotConstructed = errors.New(
	"GetAvailabilityQuery must be created via NewGetAvailabilityQuery constructor",
)

// GetAvailabilityQuery fetches a courier's availability record: the current
// status, the delivery occupying them when busy, and the last reported
// position.
type GetAvailabilityQuery struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetAvailabilityQuery creates a query for one courier's availability.
func NewGetAvailabilityQuery(courierID kernel.UUID) (GetAvailabilityQuery, error) {
	if err := courierID.Validate(); err != nil {
		return GetAvailabilityQuery{}, err
	}

	return GetAvailabilityQuery{
		courierID: courierID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetAvailabilityQueryIsNotConstructed if validation fails.
func (q GetAvailabilityQuery) Validate() error {
	return q.guard.Validate(ErrGetAvailabilityQueryIsNotConstructed)
}

// CourierID returns the courier whose availability is requested.
func (q GetAvailabilityQuery) CourierID() kernel.UUID { return q.courierID }

// GetAvailabilityQueryResponse is the courier's availability snapshot.
type GetAvailabilityQueryResponse struct {
	CourierID kernel.UUID

	// Status is OFFLINE, AVAILABLE, BUSY or BREAK.
	Status string

	// CurrentDeliveryID is set while the courier is busy.
	CurrentDeliveryID *kernel.UUID

	// Position is the last reported location, nil if never reported.
	Position *kernel.GeoPoint

	// LocatedAt is when the position was reported, nil if never reported.
	LocatedAt *time.Time
}
