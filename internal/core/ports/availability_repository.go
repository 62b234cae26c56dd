package ports

import (
	"context"

	"dispatch/internal/core/domain/model/availability"
	"dispatch/internal/core/domain/model/kernel"
)

// AvailabilityRepository defines the persistence contract for courier
// availability records. Records are keyed by courier and written with
// last-writer-wins semantics.
type AvailabilityRepository interface {
	// Upsert persists an availability record, inserting or replacing the
	// courier's current row.
	Upsert(ctx context.Context, aggregate *availability.Record) error

	// Get retrieves the availability record for a courier.
	// Returns errs.ObjectNotFoundError when the courier has never reported.
	Get(ctx context.Context, courierID kernel.UUID) (*availability.Record, error)

	// GetByCouriers retrieves availability records for the given couriers.
	// Couriers with no record are simply absent from the result; callers
	// treat a missing record as unknown rather than failing the lookup.
	GetByCouriers(ctx context.Context, courierIDs []kernel.UUID) ([]*availability.Record, error)
}
