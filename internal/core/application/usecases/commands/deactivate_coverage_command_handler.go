package commands

import (
	"context"
	"errors"

	"dispatch/internal/pkg/errs"
)

// DeactivateCoverageCommandHandler handles service area withdrawal.
type DeactivateCoverageCommandHandler struct {
	uowFactory CoverageUoWFactory
}

// NewDeactivateCoverageCommandHandler creates a handler for coverage withdrawal.
func NewDeactivateCoverageCommandHandler(uowFactory CoverageUoWFactory) DeactivateCoverageCommandHandler {
	return DeactivateCoverageCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the withdrawal. An owner with no active coverage gets a
// not-found result; deactivating twice succeeds silently.
func (h DeactivateCoverageCommandHandler) Handle(ctx context.Context, cmd DeactivateCoverageCommand) (Result, error) {
	if err := cmd.Validate(); err != nil {
		return Result{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return Result{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	coverageRepo := uow.CoverageRepository()

	active, err := coverageRepo.GetActiveByOwner(ctx, cmd.OwnerID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return FailedResult(CodeNotFound, "owner has no active coverage"), nil
	}
	if err != nil {
		return Result{}, err
	}

	active.Deactivate()
	if err = coverageRepo.Update(ctx, active); err != nil {
		return Result{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return Result{}, err
	}

	return OKResult("coverage deactivated"), nil
}
