package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrDeactivateCoverageCommandIsNotConstructed = errors.New(
	"DeactivateCoverageCommand must be created via NewDeactivateCoverageCommand constructor",
)

// DeactivateCoverageCommand withdraws an owner's active service area.
// Deactivation is idempotent: repeating it is a no-op, not an error.
type DeactivateCoverageCommand struct { //nolint:recvcheck //using for validation
	ownerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewDeactivateCoverageCommand creates a command to withdraw a service area.
func NewDeactivateCoverageCommand(ownerID kernel.UUID) (DeactivateCoverageCommand, error) {
	if err := ownerID.Validate(); err != nil {
		return DeactivateCoverageCommand{}, err
	}

	return DeactivateCoverageCommand{
		ownerID: ownerID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrDeactivateCoverageCommandIsNotConstructed if validation fails.
func (c DeactivateCoverageCommand) Validate() error {
	return c.guard.Validate(ErrDeactivateCoverageCommandIsNotConstructed)
}

// OwnerID returns the owner whose coverage is withdrawn.
func (c DeactivateCoverageCommand) OwnerID() kernel.UUID { return c.ownerID }
