package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
)

// RateSnapshot carries the pricing profile of a courier as known by the
// pricing collaborator at lookup time.
type RateSnapshot struct {
	CourierID kernel.UUID
	BaseFare  decimal.Decimal
	PerKmRate decimal.Decimal
	Rating    float64
	Currency  string
}

// EarningBreakdown splits a delivery price into the platform commission and
// the courier's net earning.
type EarningBreakdown struct {
	Gross      decimal.Decimal
	Commission decimal.Decimal
	Net        decimal.Decimal
}

// PricingLookup defines the contract with the pricing collaborator.
// Matching uses it to estimate prices per candidate; completion uses it to
// settle the courier's earning.
type PricingLookup interface {
	// GetPricing retrieves the current rate snapshot for a courier.
	GetPricing(ctx context.Context, courierID kernel.UUID) (RateSnapshot, error)

	// CalculateCommission splits the given amount into commission and net
	// earning for the courier.
	CalculateCommission(ctx context.Context, courierID kernel.UUID, amount decimal.Decimal) (EarningBreakdown, error)
}

// NotificationDispatch defines the contract with the notification
// collaborator. Calls are fire and forget: implementations must never fail
// the calling transaction, so the methods return nothing.
type NotificationDispatch interface {
	// CandidateNotified tells a courier they are a candidate for a delivery.
	CandidateNotified(ctx context.Context, courierID kernel.UUID, deliveryID kernel.UUID, attempt int)

	// StatusChanged announces a delivery status transition to interested
	// parties.
	StatusChanged(ctx context.Context, deliveryID kernel.UUID, from delivery.Status, to delivery.Status)

	// OTPIssued sends a freshly issued confirmation code to the recipient's
	// phone. The code travels only through this channel; it is stored hashed.
	OTPIssued(ctx context.Context, deliveryID kernel.UUID, recipientPhone string, code string)
}
