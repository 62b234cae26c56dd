package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
)

// DeliveryRepository defines the persistence contract for delivery aggregates.
// Provides methods for storing, retrieving, and querying deliveries based on
// their lifecycle status, plus a conditional assignment write used to resolve
// concurrent accepts.
type DeliveryRepository interface {
	// Add persists a new delivery aggregate to storage.
	// The delivery must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *delivery.Delivery) error

	// Update persists changes to an existing delivery aggregate.
	// The delivery must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *delivery.Delivery) error

	// Get retrieves a delivery aggregate by its unique identifier.
	// Returns the complete delivery with its current status and assignment.
	Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)

	// AssignCourier atomically assigns a courier to an unassigned delivery.
	// The write succeeds only while the delivery has no courier and is still
	// accepting responses. Returns true when this call won the assignment,
	// false when another courier was assigned first.
	AssignCourier(ctx context.Context, deliveryID kernel.UUID, courierID kernel.UUID) (bool, error)

	// GetAllInStatusUpdatedBefore retrieves deliveries that have been sitting
	// in the given status since before the cutoff. Used by background jobs to
	// auto-close delivered deliveries and to re-drive stalled matching rounds.
	GetAllInStatusUpdatedBefore(ctx context.Context, status delivery.Status, cutoff time.Time) ([]*delivery.Delivery, error)
}

// EventRepository defines the persistence contract for the delivery event log.
// Events are append-only; rows are never updated or deleted.
type EventRepository interface {
	// Append persists a single lifecycle event.
	Append(ctx context.Context, event *delivery.Event) error

	// ListByDelivery retrieves all events for a delivery in chronological order.
	ListByDelivery(ctx context.Context, deliveryID kernel.UUID) ([]*delivery.Event, error)
}
