package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetStateInfoQueryIsNotConstructed = errors.New(
	"GetStateInfoQuery must be created via NewGetStateInfoQuery constructor",
)

// GetStateInfoQuery fetches a delivery's lifecycle snapshot: the current
// status, the transitions the status admits, the matching attempt counter
// and the assignment timestamps.
//
// Example:
//
//	query, _ := NewGetStateInfoQuery(deliveryID)
//	info, err := handler.Handle(ctx, query)
type GetStateInfoQuery struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetStateInfoQuery creates a query for one delivery's lifecycle state.
func NewGetStateInfoQuery(deliveryID kernel.UUID) (GetStateInfoQuery, error) {
	if err := deliveryID.Validate(); err != nil {
		return GetStateInfoQuery{}, err
	}

	return GetStateInfoQuery{
		deliveryID: deliveryID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetStateInfoQueryIsNotConstructed if validation fails.
func (q GetStateInfoQuery) Validate() error {
	return q.guard.Validate(ErrGetStateInfoQueryIsNotConstructed)
}

// DeliveryID returns the delivery whose state is requested.
func (q GetStateInfoQuery) DeliveryID() kernel.UUID { return q.deliveryID }

// GetStateInfoQueryResponse is the delivery's lifecycle snapshot.
type GetStateInfoQueryResponse struct {
	DeliveryID kernel.UUID

	// Status is the current lifecycle status name.
	Status string

	// AllowedTransitions lists the status names reachable from the current
	// status, empty for terminal statuses.
	AllowedTransitions []string

	// MatchingAttempts is the number of matching rounds consumed.
	MatchingAttempts int

	// CourierID is the assigned courier, nil before assignment.
	CourierID *kernel.UUID

	EstimatedPrice decimal.Decimal
	FinalPrice     *decimal.Decimal

	CreatedAt   time.Time
	AssignedAt  *time.Time
	CompletedAt *time.Time
	UpdatedAt   time.Time
}
