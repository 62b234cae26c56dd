package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrFindEligibleCouriersQueryIsNotConstructed = errors.New(
		"FindEligibleCouriersQuery must be created via NewFindEligibleCouriersQuery constructor",
	)
	ErrLimitIsInvalid = errors.New("limit must be greater than 0")
)

// FindEligibleCouriersQuery lists couriers whose active coverage admits a
// route, annotated with availability and an estimated price. This is the
// read-side preview of what a matching round would consider; it does not
// notify anyone.
//
// Example:
//
//	query, _ := NewFindEligibleCouriersQuery(pickup, drop, 10)
//	couriers, err := handler.Handle(ctx, query)
type FindEligibleCouriersQuery struct { //nolint:recvcheck //using for validation
	pickup kernel.GeoPoint
	drop   kernel.GeoPoint
	limit  int

	guard guard.ConstructorGuard
}

// NewFindEligibleCouriersQuery creates a query listing eligible couriers.
func NewFindEligibleCouriersQuery(pickup kernel.GeoPoint, drop kernel.GeoPoint, limit int) (FindEligibleCouriersQuery, error) {
	if err := errors.Join(pickup.Validate(), drop.Validate()); err != nil {
		return FindEligibleCouriersQuery{}, err
	}
	if limit <= 0 {
		return FindEligibleCouriersQuery{}, ErrLimitIsInvalid
	}

	return FindEligibleCouriersQuery{
		pickup: pickup,
		drop:   drop,
		limit:  limit,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrFindEligibleCouriersQueryIsNotConstructed if validation fails.
func (q FindEligibleCouriersQuery) Validate() error {
	return q.guard.Validate(ErrFindEligibleCouriersQueryIsNotConstructed)
}

// Pickup returns the route's pickup point.
func (q FindEligibleCouriersQuery) Pickup() kernel.GeoPoint { return q.pickup }

// Drop returns the route's drop point.
func (q FindEligibleCouriersQuery) Drop() kernel.GeoPoint { return q.drop }

// Limit returns the maximum number of couriers to list.
func (q FindEligibleCouriersQuery) Limit() int { return q.limit }

// FindEligibleCouriersQueryResponse is one eligible courier.
type FindEligibleCouriersQueryResponse struct {
	CourierID kernel.UUID

	// Eligibility is PICKUP_ONLY or BOTH_ENDS.
	Eligibility string

	// PickupDistanceKm is the distance from the coverage center to pickup.
	PickupDistanceKm float64

	// Availability is the courier's last reported status, UNKNOWN when the
	// courier has never reported.
	Availability string

	// EstimatedPrice is the courier's price for the route, zero when the
	// pricing collaborator was unreachable.
	EstimatedPrice decimal.Decimal
}
