package ports

import (
	"context"

	"dispatch/internal/core/domain/model/coverage"
	"dispatch/internal/core/domain/model/kernel"
)

// CoverageRepository defines the persistence contract for coverage aggregates.
// An owner has at most one active coverage at a time; superseded rows are kept
// deactivated for history.
type CoverageRepository interface {
	// Add persists a new coverage aggregate to storage.
	Add(ctx context.Context, aggregate *coverage.Coverage) error

	// Update persists changes to an existing coverage aggregate.
	Update(ctx context.Context, aggregate *coverage.Coverage) error

	// Get retrieves a coverage aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*coverage.Coverage, error)

	// GetActiveByOwner retrieves the active coverage for an owner.
	// Returns errs.ObjectNotFoundError when the owner has no active coverage.
	GetActiveByOwner(ctx context.Context, ownerID kernel.UUID) (*coverage.Coverage, error)

	// GetAllActiveByRole retrieves all active coverages registered under the
	// given owner role. Used by matching to enumerate courier service areas.
	GetAllActiveByRole(ctx context.Context, role coverage.OwnerRole) ([]*coverage.Coverage, error)
}
