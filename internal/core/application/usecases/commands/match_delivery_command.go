package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrMatchDeliveryCommandIsNotConstructed = errors.New(
	"MatchDeliveryCommand must be created via NewMatchDeliveryCommand constructor",
)

// MatchDeliveryCommand triggers one matching round for a delivery: find
// eligible couriers, rank them, and notify the best ones as candidates.
// Re-running the command for the same round is idempotent; candidates are
// never notified twice.
//
// Example:
//
//	cmd, _ := NewMatchDeliveryCommand(deliveryID)
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return err
//	}
//	log.Printf("round %d notified %d couriers", result.Attempt, result.NotifiedCouriers)
type MatchDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID

	guard guard.ConstructorGuard
}

// NewMatchDeliveryCommand creates a command to run a matching round.
func NewMatchDeliveryCommand(deliveryID kernel.UUID) (MatchDeliveryCommand, error) {
	if err := deliveryID.Validate(); err != nil {
		return MatchDeliveryCommand{}, err
	}

	return MatchDeliveryCommand{
		deliveryID: deliveryID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrMatchDeliveryCommandIsNotConstructed if validation fails.
func (c MatchDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrMatchDeliveryCommandIsNotConstructed)
}

// DeliveryID returns the delivery to match.
func (c MatchDeliveryCommand) DeliveryID() kernel.UUID { return c.deliveryID }
