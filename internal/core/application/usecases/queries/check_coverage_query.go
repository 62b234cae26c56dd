// Package queries contains read-only operations against the database.
// Implements the Query side of the CQRS architecture: handlers read projection
// rows directly over gorm and never touch the aggregates.
package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrCheckCoverageQueryIsNotConstructed = errors.New(
	"CheckCoverageQuery must be created via NewCheckCoverageQuery constructor",
)

// CheckCoverageQuery evaluates whether an owner's active service area covers
// a prospective route. Used by vendor integrations to pre-validate a request
// before creating the delivery.
//
// Example:
//
//	pickup, _ := kernel.NewGeoPoint(28.6139, 77.2090)
//	drop, _ := kernel.NewGeoPoint(28.7041, 77.1025)
//	query, _ := NewCheckCoverageQuery(ownerID, pickup, drop)
//	response, err := handler.Handle(ctx, query)
type CheckCoverageQuery struct { //nolint:recvcheck //using for validation
	ownerID kernel.UUID
	pickup  kernel.GeoPoint
	drop    kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewCheckCoverageQuery creates a query evaluating route coverage.
func NewCheckCoverageQuery(ownerID kernel.UUID, pickup kernel.GeoPoint, drop kernel.GeoPoint) (CheckCoverageQuery, error) {
	if err := errors.Join(ownerID.Validate(), pickup.Validate(), drop.Validate()); err != nil {
		return CheckCoverageQuery{}, err
	}

	return CheckCoverageQuery{
		ownerID: ownerID,
		pickup:  pickup,
		drop:    drop,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrCheckCoverageQueryIsNotConstructed if validation fails.
func (q CheckCoverageQuery) Validate() error {
	return q.guard.Validate(ErrCheckCoverageQueryIsNotConstructed)
}

// OwnerID returns the coverage owner being checked.
func (q CheckCoverageQuery) OwnerID() kernel.UUID { return q.ownerID }

// Pickup returns the route's pickup point.
func (q CheckCoverageQuery) Pickup() kernel.GeoPoint { return q.pickup }

// Drop returns the route's drop point.
func (q CheckCoverageQuery) Drop() kernel.GeoPoint { return q.drop }

// CheckCoverageQueryResponse reports how the owner's coverage relates to the
// route.
type CheckCoverageQueryResponse struct {
	// Eligibility is NOT_ELIGIBLE, PICKUP_ONLY, or BOTH_ENDS.
	Eligibility string

	// PickupDistanceKm is the distance from the coverage center to pickup.
	PickupDistanceKm float64

	// RadiusKm is the declared service radius.
	RadiusKm float64
}
