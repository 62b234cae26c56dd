package ports

import (
	"context"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
)

// PODRepository defines the persistence contract for proof of delivery
// records. There is at most one record per delivery; it is created when the
// first OTP is issued and updated as stages are recorded.
type PODRepository interface {
	// Upsert persists a proof of delivery record, inserting or replacing the
	// delivery's current row.
	Upsert(ctx context.Context, aggregate *delivery.ProofOfDelivery) error

	// Get retrieves the proof of delivery record for a delivery.
	// Returns errs.ObjectNotFoundError when no record exists yet.
	Get(ctx context.Context, deliveryID kernel.UUID) (*delivery.ProofOfDelivery, error)
}
