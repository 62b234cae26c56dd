package coverage

import (
	"errors"
	"fmt"
	"math"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

const (
	// MinRadiusKm is the smallest service radius a coverage may declare.
	MinRadiusKm = 1.0
	// MaxRadiusKm is the largest service radius a coverage may declare.
	MaxRadiusKm = 50.0
)

var (
	// ErrCoverageIsNotConstructed is returned when a Coverage instance was not
	// created through the NewCoverage factory method.
	ErrCoverageIsNotConstructed = errors.New("Coverage must be created via NewCoverage constructor")

	// ErrOwnerRoleIsInvalid is returned for owner roles outside the defined set.
	ErrOwnerRoleIsInvalid = errs.NewValueIsInvalidError("owner role")
)

// Coverage represents a circular service area declared by an owner.
// It is the aggregate root for eligibility computation: a courier is matched
// to a delivery only when their active coverage satisfies the pickup/drop
// containment rule.
//
// Coverage follows these invariants:
//   - Must have valid unique and owner identifiers
//   - Center coordinates are a validated GeoPoint
//   - Radius is within [MinRadiusKm, MaxRadiusKm]
//   - At most one coverage per owner is active (enforced at the use-case
//     layer: declaring a new coverage supersedes the previous active one)
//
// The struct uses private fields to preserve encapsulation and maintains its
// invariants through validated methods.
type Coverage struct {
	id               kernel.UUID
	ownerID          kernel.UUID
	ownerRole        OwnerRole
	center           kernel.GeoPoint
	radiusKm         float64
	allowDropOutside bool
	active           bool
	label            string
	createdAt        time.Time
	updatedAt        time.Time

	// isConstructed ensures the coverage was created via a constructor
	isConstructed bool
}

// NewCoverage creates a new active Coverage with validation. This is the only
// way to create a valid Coverage for a fresh declaration.
//
// Parameters:
//   - id: Unique identifier for the coverage
//   - ownerID: The declaring owner's identifier
//   - ownerRole: Courier or Vendor
//   - center: Validated center point of the service circle
//   - radiusKm: Service radius, within [MinRadiusKm, MaxRadiusKm]
//   - allowDropOutside: Whether drops outside the circle are acceptable
//   - label: Free-form display name ("South Delhi daytime", may be empty)
//
// Returns:
//   - *Coverage: The created coverage if all validations pass
//   - error: Validation error if any parameter is invalid
func NewCoverage(
	id kernel.UUID,
	ownerID kernel.UUID,
	ownerRole OwnerRole,
	center kernel.GeoPoint,
	radiusKm float64,
	allowDropOutside bool,
	label string,
) (*Coverage, error) {
	now := time.Now().UTC()
	coverage := &Coverage{
		allowDropOutside: allowDropOutside,
		active:           true,
		label:            label,
		createdAt:        now,
		updatedAt:        now,
		isConstructed:    true,
	}

	if err := errors.Join(
		coverage.setID(id),
		coverage.setOwner(ownerID, ownerRole),
		coverage.setCenter(center),
		coverage.setRadiusKm(radiusKm),
	); err != nil {
		return nil, err
	}

	return coverage, nil
}

// RestoreCoverage reconstructs a Coverage from persistence, bypassing the
// "new declaration" defaults but still enforcing field validation.
func RestoreCoverage(
	id kernel.UUID,
	ownerID kernel.UUID,
	ownerRole OwnerRole,
	center kernel.GeoPoint,
	radiusKm float64,
	allowDropOutside bool,
	active bool,
	label string,
	createdAt time.Time,
	updatedAt time.Time,
) (*Coverage, error) {
	coverage, err := NewCoverage(id, ownerID, ownerRole, center, radiusKm, allowDropOutside, label)
	if err != nil {
		return nil, err
	}

	coverage.active = active
	coverage.createdAt = createdAt
	coverage.updatedAt = updatedAt
	return coverage, nil
}

// Validate ensures the Coverage instance was properly constructed.
func (c *Coverage) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCoverageIsNotConstructed
	}
	return nil
}

// IsEqual compares two coverages by their unique identifiers.
func (c *Coverage) IsEqual(other *Coverage) bool {
	return other != nil && c.id.IsEqual(other.id)
}

// ID returns the coverage's unique identifier.
func (c *Coverage) ID() kernel.UUID {
	return c.id
}

// OwnerID returns the identifier of the declaring owner.
func (c *Coverage) OwnerID() kernel.UUID {
	return c.ownerID
}

// OwnerRole returns the declaring owner's role.
func (c *Coverage) OwnerRole() OwnerRole {
	return c.ownerRole
}

// Center returns the center point of the service circle.
func (c *Coverage) Center() kernel.GeoPoint {
	return c.center
}

// RadiusKm returns the service radius in kilometers.
func (c *Coverage) RadiusKm() float64 {
	return c.radiusKm
}

// AllowDropOutside reports whether the owner accepts drops beyond the circle.
func (c *Coverage) AllowDropOutside() bool {
	return c.allowDropOutside
}

// IsActive reports whether this coverage currently participates in matching.
func (c *Coverage) IsActive() bool {
	return c.active
}

// Label returns the free-form display name of the coverage.
func (c *Coverage) Label() string {
	return c.label
}

// CreatedAt returns when the coverage was declared.
func (c *Coverage) CreatedAt() time.Time {
	return c.createdAt
}

// UpdatedAt returns when the coverage was last modified.
func (c *Coverage) UpdatedAt() time.Time {
	return c.updatedAt
}

// AreaKm2 returns the estimated service area in square kilometers (pi*r^2).
func (c *Coverage) AreaKm2() float64 {
	return math.Pi * c.radiusKm * c.radiusKm
}

// Deactivate soft-disables the coverage so it no longer participates in
// eligibility scans. Deactivation is idempotent.
func (c *Coverage) Deactivate() {
	c.active = false
	c.updatedAt = time.Now().UTC()
}

// Contains performs a point-in-circle test against the coverage.
//
// Returns:
//   - bool: true when the point lies within the service radius
//   - float64: the great-circle distance from the center in kilometers
//   - error: validation error if the coverage or point is improperly constructed
func (c *Coverage) Contains(point kernel.GeoPoint) (bool, float64, error) {
	if err := c.Validate(); err != nil {
		return false, 0, err
	}

	distance, err := c.center.DistanceKm(point)
	if err != nil {
		return false, 0, err
	}

	return distance <= c.radiusKm, distance, nil
}

// EligibilityFor evaluates the pickup/drop containment rule for a delivery.
//
// Rules:
//   - Both pickup and drop within radius: BothEnds
//   - Pickup within radius and AllowDropOutside: PickupOnly
//   - Otherwise: NotEligible
//
// Inactive coverages are never eligible.
//
// Returns:
//   - Eligibility: the containment classification
//   - float64: the distance from the center to the pickup point in kilometers
//   - error: validation error if any participating point is invalid
func (c *Coverage) EligibilityFor(pickup kernel.GeoPoint, drop kernel.GeoPoint) (Eligibility, float64, error) {
	if err := c.Validate(); err != nil {
		return NotEligible, 0, err
	}

	pickupDistance, err := c.center.DistanceKm(pickup)
	if err != nil {
		return NotEligible, 0, err
	}

	if !c.active || pickupDistance > c.radiusKm {
		return NotEligible, pickupDistance, nil
	}

	dropDistance, err := c.center.DistanceKm(drop)
	if err != nil {
		return NotEligible, pickupDistance, nil
	}

	if dropDistance <= c.radiusKm {
		return BothEnds, pickupDistance, nil
	}

	if c.allowDropOutside {
		return PickupOnly, pickupDistance, nil
	}

	return NotEligible, pickupDistance, nil
}

// setID validates and sets the coverage identifier.
func (c *Coverage) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

// setOwner validates and sets the owner identity and role.
func (c *Coverage) setOwner(ownerID kernel.UUID, role OwnerRole) error {
	if err := ownerID.Validate(); err != nil {
		return err
	}
	if err := role.Validate(); err != nil {
		return err
	}
	c.ownerID = ownerID
	c.ownerRole = role
	return nil
}

// setCenter validates and sets the center point.
func (c *Coverage) setCenter(center kernel.GeoPoint) error {
	if err := center.Validate(); err != nil {
		return err
	}
	c.center = center
	return nil
}

// setRadiusKm validates and sets the service radius.
func (c *Coverage) setRadiusKm(radiusKm float64) error {
	if radiusKm < MinRadiusKm || radiusKm > MaxRadiusKm {
		return errs.NewValueIsOutOfRangeErrorWithCause(
			"radiusKm", radiusKm, MinRadiusKm, MaxRadiusKm,
			fmt.Errorf("%v km is outside the allowed service radius", radiusKm),
		)
	}
	c.radiusKm = radiusKm
	return nil
}
