package queries

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"dispatch/internal/core/domain/model/availability"
	"dispatch/internal/core/domain/model/coverage"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FindEligibleCouriersQueryHandler lists couriers whose coverage admits a
// route, ordered by distance from the pickup. Coverage rows are streamed
// from the database and the containment rule runs in the aggregate;
// availability comes from a join on the courier's last report, and pricing
// is annotated through the pricing collaborator for the couriers that make
// the cut.
type FindEligibleCouriersQueryHandler struct {
	db      *gorm.DB
	pricing ports.PricingLookup
}

// NewFindEligibleCouriersQueryHandler creates a handler for eligibility
// listings. Requires a GORM database connection and the pricing collaborator.
func NewFindEligibleCouriersQueryHandler(db *gorm.DB, pricing ports.PricingLookup) FindEligibleCouriersQueryHandler {
	return FindEligibleCouriersQueryHandler{db: db, pricing: pricing}
}

// Handle executes the listing.
// A pricing failure for one courier leaves their price zero rather than
// failing the listing.
func (h FindEligibleCouriersQueryHandler) Handle(
	ctx context.Context,
	query FindEligibleCouriersQuery,
) ([]FindEligibleCouriersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			c.id,
			c.owner_id,
			c.center_lat,
			c.center_lng,
			c.radius_km,
			c.allow_drop_outside,
			c.label,
			c.created_at,
			c.updated_at,
			a.status
		FROM coverages c
		LEFT JOIN availability_records a ON a.courier_id = c.owner_id
		WHERE c.active AND c.owner_role = ?
		ORDER BY c.created_at
	`, int(coverage.OwnerRoleCourier)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	routeKm, err := query.Pickup().DistanceKm(query.Drop())
	if err != nil {
		return nil, err
	}

	couriers := make([]FindEligibleCouriersQueryResponse, 0)
	for rows.Next() {
		var (
			id, ownerID          uuid.UUID
			centerLat, centerLng float64
			radiusKm             float64
			allowDropOutside     bool
			label                string
			createdAt, updatedAt time.Time
			status               sql.NullInt64
		)
		if err = rows.Scan(
			&id, &ownerID,
			&centerLat, &centerLng, &radiusKm, &allowDropOutside,
			&label, &createdAt, &updatedAt, &status,
		); err != nil {
			return nil, err
		}

		restored, err := restoreCoverageRow(
			id, ownerID, int(coverage.OwnerRoleCourier),
			centerLat, centerLng, radiusKm, allowDropOutside,
			label, createdAt, updatedAt,
		)
		if err != nil {
			return nil, err
		}

		eligibility, pickupDistanceKm, err := restored.EligibilityFor(query.Pickup(), query.Drop())
		if err != nil {
			return nil, err
		}
		if eligibility == coverage.NotEligible {
			continue
		}

		availabilityName := "UNKNOWN"
		if status.Valid {
			availabilityName = availability.Status(status.Int64).String()
		}

		couriers = append(couriers, FindEligibleCouriersQueryResponse{
			CourierID:        restored.OwnerID(),
			Eligibility:      eligibility.String(),
			PickupDistanceKm: pickupDistanceKm,
			Availability:     availabilityName,
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	// Nearest couriers first; the cap applies only after the sort so an old
	// but distant coverage never displaces a closer one.
	sort.SliceStable(couriers, func(i, j int) bool {
		return couriers[i].PickupDistanceKm < couriers[j].PickupDistanceKm
	})
	if len(couriers) > query.Limit() {
		couriers = couriers[:query.Limit()]
	}

	for i := range couriers {
		couriers[i].EstimatedPrice = h.estimatePrice(ctx, couriers[i].CourierID, routeKm)
	}

	return couriers, nil
}

// estimatePrice computes the courier's price for the route, zero on lookup
// failure.
func (h FindEligibleCouriersQueryHandler) estimatePrice(
	ctx context.Context,
	courierID kernel.UUID,
	routeKm float64,
) decimal.Decimal {
	snapshot, err := h.pricing.GetPricing(ctx, courierID)
	if err != nil {
		return decimal.Zero
	}
	return snapshot.BaseFare.Add(snapshot.PerKmRate.Mul(decimal.NewFromFloat(routeKm)))
}
