package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/coverage"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrSetCoverageCommandIsNotConstructed = errors.New(
	"SetCoverageCommand must be created via NewSetCoverageCommand constructor",
)

// SetCoverageCommand declares or replaces an owner's service area. An owner
// has at most one active coverage: declaring a new one deactivates the
// previous declaration in the same transaction.
//
// Example:
//
//	center, _ := kernel.NewGeoPoint(28.65, 77.15)
//	cmd, err := NewSetCoverageCommand(kernel.NewUUID(), ownerID, coverage.OwnerRoleCourier, center, 10, false, "South Delhi")
//	if err != nil {
//	    return fmt.Errorf("invalid coverage data: %w", err)
//	}
//	result, err := handler.Handle(ctx, cmd)
type SetCoverageCommand struct { //nolint:recvcheck //using for validation
	coverageID       kernel.UUID
	ownerID          kernel.UUID
	ownerRole        coverage.OwnerRole
	center           kernel.GeoPoint
	radiusKm         float64
	allowDropOutside bool
	label            string

	guard guard.ConstructorGuard
}

// NewSetCoverageCommand creates a command to declare a service area.
// Validates identifiers, role, and the center point; the radius bounds are
// enforced by the coverage aggregate itself.
func NewSetCoverageCommand(
	coverageID kernel.UUID,
	ownerID kernel.UUID,
	ownerRole coverage.OwnerRole,
	center kernel.GeoPoint,
	radiusKm float64,
	allowDropOutside bool,
	label string,
) (SetCoverageCommand, error) {
	cmd := SetCoverageCommand{
		radiusKm:         radiusKm,
		allowDropOutside: allowDropOutside,
		label:            label,
		guard:            guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCoverageID(coverageID),
		cmd.setOwner(ownerID, ownerRole),
		cmd.setCenter(center),
	); err != nil {
		return SetCoverageCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrSetCoverageCommandIsNotConstructed if validation fails.
func (c SetCoverageCommand) Validate() error {
	return c.guard.Validate(ErrSetCoverageCommandIsNotConstructed)
}

// CoverageID returns the identifier for the new coverage.
func (c SetCoverageCommand) CoverageID() kernel.UUID { return c.coverageID }

// OwnerID returns the declaring owner's identifier.
func (c SetCoverageCommand) OwnerID() kernel.UUID { return c.ownerID }

// OwnerRole returns whether the owner is a courier or a vendor.
func (c SetCoverageCommand) OwnerRole() coverage.OwnerRole { return c.ownerRole }

// Center returns the center of the service circle.
func (c SetCoverageCommand) Center() kernel.GeoPoint { return c.center }

// RadiusKm returns the requested service radius.
func (c SetCoverageCommand) RadiusKm() float64 { return c.radiusKm }

// AllowDropOutside returns whether drops outside the circle are acceptable.
func (c SetCoverageCommand) AllowDropOutside() bool { return c.allowDropOutside }

// Label returns the free-form display name, possibly empty.
func (c SetCoverageCommand) Label() string { return c.label }

func (c *SetCoverageCommand) setCoverageID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.coverageID = id
	return nil
}

func (c *SetCoverageCommand) setOwner(ownerID kernel.UUID, role coverage.OwnerRole) error {
	if err := errors.Join(ownerID.Validate(), role.Validate()); err != nil {
		return err
	}

	c.ownerID = ownerID
	c.ownerRole = role
	return nil
}

func (c *SetCoverageCommand) setCenter(center kernel.GeoPoint) error {
	if err := center.Validate(); err != nil {
		return err
	}

	c.center = center
	return nil
}
