package queries

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/coverage"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CheckCoverageQueryHandler evaluates route coverage against the stored
// service area. The containment rule lives in the coverage aggregate; the
// handler only loads the row and delegates.
type CheckCoverageQueryHandler struct {
	db *gorm.DB
}

// NewCheckCoverageQueryHandler creates a handler for coverage checks.
// Requires a GORM database connection for query execution.
func NewCheckCoverageQueryHandler(db *gorm.DB) CheckCoverageQueryHandler {
	return CheckCoverageQueryHandler{db: db}
}

// Handle executes the coverage check.
// Returns errs.ObjectNotFoundError when the owner has no active coverage.
func (h CheckCoverageQueryHandler) Handle(
	ctx context.Context,
	query CheckCoverageQuery,
) (CheckCoverageQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return CheckCoverageQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			owner_id,
			owner_role,
			center_lat,
			center_lng,
			radius_km,
			allow_drop_outside,
			label,
			created_at,
			updated_at
		FROM coverages
		WHERE owner_id = ? AND active
	`, query.OwnerID().String()).Row()

	var (
		id, ownerID          uuid.UUID
		ownerRole            int
		centerLat, centerLng float64
		radiusKm             float64
		allowDropOutside     bool
		label                string
		createdAt, updatedAt time.Time
	)
	err := row.Scan(
		&id, &ownerID, &ownerRole,
		&centerLat, &centerLng, &radiusKm, &allowDropOutside,
		&label, &createdAt, &updatedAt,
	)
	if errors.Is(err, gorm.ErrRecordNotFound) || isNoRows(err) {
		return CheckCoverageQueryResponse{}, errs.NewObjectNotFoundError("ownerID", query.OwnerID())
	}
	if err != nil {
		return CheckCoverageQueryResponse{}, err
	}

	restored, err := restoreCoverageRow(
		id, ownerID, ownerRole,
		centerLat, centerLng, radiusKm, allowDropOutside,
		label, createdAt, updatedAt,
	)
	if err != nil {
		return CheckCoverageQueryResponse{}, err
	}

	eligibility, pickupDistanceKm, err := restored.EligibilityFor(query.Pickup(), query.Drop())
	if err != nil {
		return CheckCoverageQueryResponse{}, err
	}

	return CheckCoverageQueryResponse{
		Eligibility:      eligibility.String(),
		PickupDistanceKm: pickupDistanceKm,
		RadiusKm:         restored.RadiusKm(),
	}, nil
}

// restoreCoverageRow rebuilds a coverage aggregate from scanned columns.
func restoreCoverageRow(
	id, ownerID uuid.UUID,
	ownerRole int,
	centerLat, centerLng, radiusKm float64,
	allowDropOutside bool,
	label string,
	createdAt, updatedAt time.Time,
) (*coverage.Coverage, error) {
	coverageID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return nil, err
	}
	owner, err := kernel.UUIDFromBytes(ownerID[:])
	if err != nil {
		return nil, err
	}
	center, err := kernel.NewGeoPoint(centerLat, centerLng)
	if err != nil {
		return nil, err
	}

	return coverage.RestoreCoverage(
		coverageID,
		owner,
		coverage.OwnerRole(ownerRole),
		center,
		radiusKm,
		allowDropOutside,
		true,
		label,
		createdAt,
		updatedAt,
	)
}
