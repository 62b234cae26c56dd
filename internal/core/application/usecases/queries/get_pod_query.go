package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetPODQueryIsNotConstructed = errors.New(
	"GetPODQuery must be created via NewGetPODQuery constructor",
)

// GetPODQuery fetches the proof-of-delivery record for a delivery. The
// response never carries the OTP hash; verification state is exposed as a
// boolean plus timestamps.
type GetPODQuery struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetPODQuery creates a query for one delivery's proof record.
func NewGetPODQuery(deliveryID kernel.UUID) (GetPODQuery, error) {
	if err := deliveryID.Validate(); err != nil {
		return GetPODQuery{}, err
	}

	return GetPODQuery{
		deliveryID: deliveryID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetPODQueryIsNotConstructed if validation fails.
func (q GetPODQuery) Validate() error {
	return q.guard.Validate(ErrGetPODQueryIsNotConstructed)
}

// DeliveryID returns the delivery whose proof record is requested.
func (q GetPODQuery) DeliveryID() kernel.UUID { return q.deliveryID }

// GetPODQueryResponse is the proof-of-delivery record without the OTP hash.
type GetPODQueryResponse struct {
	DeliveryID kernel.UUID

	RecipientName     string
	RecipientRelation string

	// OTPSent reports whether a confirmation code was ever issued.
	OTPSent       bool
	OTPSentAt     *time.Time
	OTPVerified   bool
	OTPVerifiedAt *time.Time

	PhotoURL     string
	SignatureURL string

	DeliveredPoint     *kernel.GeoPoint
	DistanceFromDropKm *float64
	Condition          string
	PickupNotes        string

	PickedUpAt  *time.Time
	InTransitAt *time.Time
	DeliveredAt *time.Time
	ClosedAt    *time.Time

	// VerifiedBy is the operator who closed the delivery, nil when closed by
	// the system.
	VerifiedBy *kernel.UUID
}
