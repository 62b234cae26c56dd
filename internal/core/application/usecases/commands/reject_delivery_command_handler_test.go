package commands_test

import (
	"errors"
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/availability"
	"dispatch/internal/core/domain/model/coverage"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRejectDeliveryCommandHandler_Handle_RecordsRejection_OthersStillPending(t *testing.T) {
	ctx := t.Context()
	courierID := kernel.NewUUID()
	d := newMatchingDelivery(t, 1)
	candidate, err := delivery.NewCandidate(d.ID(), courierID, 1)
	require.NoError(t, err)

	deliveryRepo := new(MockDeliveryRepository)
	candidateRepo := new(MockCandidateRepository)
	eventRepo := new(MockEventRepository)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("DeliveryRepository").Return(deliveryRepo).Once()
	uow.On("CandidateRepository").Return(candidateRepo).Twice()
	uow.On("EventRepository").Return(eventRepo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	deliveryRepo.On("Get", mock.Anything, d.ID()).Return(d, nil).Once()
	candidateRepo.On("Get", mock.Anything, d.ID(), courierID, 1).Return(candidate, nil).Once()
	candidateRepo.On("Update", mock.Anything, candidate).Return(nil).Once()
	candidateRepo.On("CountPending", mock.Anything, d.ID(), 1).Return(2, nil).Once()
	eventRepo.On("Append", mock.Anything, mock.AnythingOfType("*delivery.Event")).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(StubNotifier)
	h := commands.NewRejectDeliveryCommandHandler(factory, new(MockPricingLookup), notifier)

	cmd, err := commands.NewRejectDeliveryCommand(d.ID(), courierID, "too far")
	require.NoError(t, err)

	result, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, delivery.ResponseRejected, candidate.Response())
	// Two candidates are still thinking it over; no new round yet.
	require.Equal(t, 1, d.MatchingAttempts())
	require.Equal(t, delivery.StatusMatching, d.Status())
	require.Equal(t, 0, notifier.CandidateNotifications)

	deliveryRepo.AssertExpectations(t)
	candidateRepo.AssertExpectations(t)
	eventRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

// When the last pending candidate of the round declines, the next round runs
// inside the same call instead of waiting for the staleness sweep.
func TestRejectDeliveryCommandHandler_Handle_LastRejectionStartsNextRound(t *testing.T) {
	ctx := t.Context()
	courierID := kernel.NewUUID()
	nextCourier := kernel.NewUUID()
	d := newMatchingDelivery(t, 1)
	candidate, err := delivery.NewCandidate(d.ID(), courierID, 1)
	require.NoError(t, err)

	deliveryRepo := new(MockDeliveryRepository)
	coverageRepo := new(MockCoverageRepository)
	candidateRepo := new(MockCandidateRepository)
	availabilityRepo := new(MockAvailabilityRepository)
	eventRepo := new(MockEventRepository)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("DeliveryRepository").Return(deliveryRepo).Twice()
	uow.On("CandidateRepository").Return(candidateRepo).Times(3)
	uow.On("CoverageRepository").Return(coverageRepo).Once()
	uow.On("AvailabilityRepository").Return(availabilityRepo).Once()
	uow.On("EventRepository").Return(eventRepo).Twice()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	deliveryRepo.On("Get", mock.Anything, d.ID()).Return(d, nil).Once()
	deliveryRepo.On("Update", mock.Anything, d).Return(nil).Once()
	candidateRepo.On("Get", mock.Anything, d.ID(), courierID, 1).Return(candidate, nil).Once()
	candidateRepo.On("Update", mock.Anything, candidate).Return(nil).Once()
	candidateRepo.On("CountPending", mock.Anything, d.ID(), 1).Return(0, nil).Once()
	candidateRepo.On("AddIfAbsent", mock.Anything, mock.AnythingOfType("*delivery.Candidate")).Return(true, nil).Once()
	coverageRepo.On("GetAllActiveByRole", mock.Anything, coverage.OwnerRoleCourier).
		Return([]*coverage.Coverage{newCourierCoverage(t, nextCourier)}, nil).Once()
	availabilityRepo.On("GetByCouriers", mock.Anything, mock.AnythingOfType("[]kernel.UUID")).
		Return([]*availability.Record{}, nil).Once()
	eventRepo.On("Append", mock.Anything, mock.AnythingOfType("*delivery.Event")).Return(nil).Twice()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	pricing := new(MockPricingLookup)
	pricing.On("GetPricing", mock.Anything, mock.AnythingOfType("kernel.UUID")).
		Return(ports.RateSnapshot{}, errors.New("rate service down"))

	notifier := new(StubNotifier)
	h := commands.NewRejectDeliveryCommandHandler(factory, pricing, notifier)

	cmd, err := commands.NewRejectDeliveryCommand(d.ID(), courierID, "too far")
	require.NoError(t, err)

	result, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, 2, d.MatchingAttempts())
	require.Equal(t, delivery.StatusMatching, d.Status())
	require.Equal(t, 1, notifier.CandidateNotifications)

	deliveryRepo.AssertExpectations(t)
	coverageRepo.AssertExpectations(t)
	candidateRepo.AssertExpectations(t)
	availabilityRepo.AssertExpectations(t)
	eventRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

// The final rejection of the final round pushes the delivery straight to
// Unassignable instead of leaving it stuck in Matching.
func TestRejectDeliveryCommandHandler_Handle_LastRejectionExhaustsBudget(t *testing.T) {
	ctx := t.Context()
	courierID := kernel.NewUUID()
	d := newMatchingDelivery(t, delivery.MaxMatchingAttempts)
	candidate, err := delivery.NewCandidate(d.ID(), courierID, delivery.MaxMatchingAttempts)
	require.NoError(t, err)

	deliveryRepo := new(MockDeliveryRepository)
	candidateRepo := new(MockCandidateRepository)
	eventRepo := new(MockEventRepository)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("DeliveryRepository").Return(deliveryRepo).Times(3)
	uow.On("CandidateRepository").Return(candidateRepo).Twice()
	uow.On("EventRepository").Return(eventRepo).Twice()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	deliveryRepo.On("Get", mock.Anything, d.ID()).Return(d, nil).Once()
	deliveryRepo.On("Update", mock.Anything, d).Return(nil).Once()
	candidateRepo.On("Get", mock.Anything, d.ID(), courierID, delivery.MaxMatchingAttempts).
		Return(candidate, nil).Once()
	candidateRepo.On("Update", mock.Anything, candidate).Return(nil).Once()
	candidateRepo.On("CountPending", mock.Anything, d.ID(), delivery.MaxMatchingAttempts).Return(0, nil).Once()
	eventRepo.On("Append", mock.Anything, mock.AnythingOfType("*delivery.Event")).Return(nil).Twice()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(StubNotifier)
	h := commands.NewRejectDeliveryCommandHandler(factory, new(MockPricingLookup), notifier)

	cmd, err := commands.NewRejectDeliveryCommand(d.ID(), courierID, "no thanks")
	require.NoError(t, err)

	result, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, delivery.StatusUnassignable, d.Status())
	require.Equal(t, delivery.MaxMatchingAttempts, d.MatchingAttempts())
	require.Equal(t, 1, notifier.StatusChanges)

	deliveryRepo.AssertExpectations(t)
	candidateRepo.AssertExpectations(t)
	eventRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}
