package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/availability"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrUpdateAvailabilityCommandIsNotConstructed = errors.New(
		"UpdateAvailabilityCommand must be created via NewUpdateAvailabilityCommand constructor",
	)

	// ErrBusyIsSystemManaged rejects manual busy toggles. Busy is entered by
	// accepting a delivery and left by completing or cancelling it.
	ErrBusyIsSystemManaged = errors.New("busy status is managed by the delivery lifecycle")
)

// UpdateAvailabilityCommand applies a courier's manual availability toggle
// and optionally their current position.
//
// Example:
//
//	position, _ := kernel.NewGeoPoint(28.61, 77.20)
//	cmd, err := NewUpdateAvailabilityCommand(courierID, availability.StatusAvailable, &position)
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
type UpdateAvailabilityCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	status    availability.Status
	position  *kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewUpdateAvailabilityCommand creates a command to toggle availability.
// Requesting Busy is rejected here; that status only enters through the
// delivery lifecycle.
func NewUpdateAvailabilityCommand(
	courierID kernel.UUID,
	status availability.Status,
	position *kernel.GeoPoint,
) (UpdateAvailabilityCommand, error) {
	if err := errors.Join(courierID.Validate(), status.Validate()); err != nil {
		return UpdateAvailabilityCommand{}, err
	}
	if status == availability.StatusBusy {
		return UpdateAvailabilityCommand{}, ErrBusyIsSystemManaged
	}
	if position != nil {
		if err := position.Validate(); err != nil {
			return UpdateAvailabilityCommand{}, err
		}
	}

	return UpdateAvailabilityCommand{
		courierID: courierID,
		status:    status,
		position:  position,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrUpdateAvailabilityCommandIsNotConstructed if validation fails.
func (c UpdateAvailabilityCommand) Validate() error {
	return c.guard.Validate(ErrUpdateAvailabilityCommandIsNotConstructed)
}

// CourierID returns the courier updating their availability.
func (c UpdateAvailabilityCommand) CourierID() kernel.UUID { return c.courierID }

// Status returns the requested availability status.
func (c UpdateAvailabilityCommand) Status() availability.Status { return c.status }

// Position returns the reported position, nil when not reported.
func (c UpdateAvailabilityCommand) Position() *kernel.GeoPoint { return c.position }
