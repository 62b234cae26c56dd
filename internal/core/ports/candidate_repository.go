package ports

import (
	"context"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
)

// CandidateRepository defines the persistence contract for matching candidates.
// A candidate row is unique per (delivery, courier, attempt), which makes
// notification inserts idempotent across matching retries.
type CandidateRepository interface {
	// AddIfAbsent persists a candidate unless a row for the same delivery,
	// courier and attempt already exists. Returns true when the row was
	// inserted, false when it already existed.
	AddIfAbsent(ctx context.Context, aggregate *delivery.Candidate) (bool, error)

	// Update persists a candidate's recorded response.
	Update(ctx context.Context, aggregate *delivery.Candidate) error

	// Get retrieves the candidate row for a courier within a specific
	// matching attempt. Returns errs.ObjectNotFoundError when the courier
	// was not notified in that attempt.
	Get(ctx context.Context, deliveryID kernel.UUID, courierID kernel.UUID, attempt int) (*delivery.Candidate, error)

	// GetAllForAttempt retrieves every candidate notified in a matching attempt.
	GetAllForAttempt(ctx context.Context, deliveryID kernel.UUID, attempt int) ([]*delivery.Candidate, error)

	// CountPending returns the number of candidates in an attempt that have
	// not responded yet. Matching moves on when this reaches zero.
	CountPending(ctx context.Context, deliveryID kernel.UUID, attempt int) (int, error)
}
