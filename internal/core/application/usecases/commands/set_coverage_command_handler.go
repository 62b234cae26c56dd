package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/coverage"
	"dispatch/internal/pkg/errs"
)

// SetCoverageCommandHandler handles service area declarations.
// Deactivates the owner's previous coverage and persists the new one in a
// single transaction, keeping the one-active-coverage invariant.
type SetCoverageCommandHandler struct {
	uowFactory CoverageUoWFactory
}

// NewSetCoverageCommandHandler creates a handler for coverage declarations.
// Requires a CoverageUoWFactory for transactional persistence.
func NewSetCoverageCommandHandler(uowFactory CoverageUoWFactory) SetCoverageCommandHandler {
	return SetCoverageCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the coverage declaration.
// Radius bound violations surface as a validation result rather than an
// error; infrastructure faults propagate as errors.
func (h SetCoverageCommandHandler) Handle(ctx context.Context, cmd SetCoverageCommand) (Result, error) {
	if err := cmd.Validate(); err != nil {
		return Result{}, err
	}

	newCoverage, err := coverage.NewCoverage(
		cmd.CoverageID(),
		cmd.OwnerID(),
		cmd.OwnerRole(),
		cmd.Center(),
		cmd.RadiusKm(),
		cmd.AllowDropOutside(),
		cmd.Label(),
	)
	if errors.Is(err, errs.ErrValueIsOutOfRange) {
		return FailedResult(CodeValidation, err.Error()), nil
	}
	if err != nil {
		return Result{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return Result{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	coverageRepo := uow.CoverageRepository()

	previous, err := coverageRepo.GetActiveByOwner(ctx, cmd.OwnerID())
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return Result{}, err
	}
	if previous != nil {
		previous.Deactivate()
		if err = coverageRepo.Update(ctx, previous); err != nil {
			return Result{}, err
		}
	}

	if err = coverageRepo.Add(ctx, newCoverage); err != nil {
		return Result{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return Result{}, err
	}

	return OKResult("coverage declared"), nil
}
