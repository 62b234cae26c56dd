package commands_test

import (
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/availability"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewUpdateAvailabilityCommand_BusyRejected(t *testing.T) {
	_, err := commands.NewUpdateAvailabilityCommand(kernel.NewUUID(), availability.StatusBusy, nil)
	require.ErrorIs(t, err, commands.ErrBusyIsSystemManaged)
}

func TestUpdateAvailabilityCommandHandler_Handle_FirstReportCreatesRecord(t *testing.T) {
	ctx := t.Context()
	courierID := kernel.NewUUID()
	position := testPoint(t, 28.61, 77.20)

	availabilityRepo := new(MockAvailabilityRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("AvailabilityRepository").Return(availabilityRepo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	availabilityRepo.On("Get", mock.Anything, courierID).
		Return(nil, errs.NewObjectNotFoundError("courierID", courierID)).Once()
	availabilityRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*availability.Record")).
		Run(func(args mock.Arguments) {
			record := args.Get(1).(*availability.Record)
			require.Equal(t, availability.StatusAvailable, record.Status())
			require.NotNil(t, record.LastPosition())
		}).Return(nil).Once()

	factory := new(MockAvailabilityUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewUpdateAvailabilityCommandHandler(factory)

	cmd, err := commands.NewUpdateAvailabilityCommand(courierID, availability.StatusAvailable, &position)
	require.NoError(t, err)

	result, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.True(t, result.Success)

	availabilityRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestUpdateAvailabilityCommandHandler_Handle_LiveDeliveryBlocksToggle(t *testing.T) {
	ctx := t.Context()
	courierID := kernel.NewUUID()
	d := newAcceptedDelivery(t, courierID)
	busy := newBusyRecord(t, courierID, d.ID())

	availabilityRepo := new(MockAvailabilityRepository)
	deliveryRepo := new(MockDeliveryRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("AvailabilityRepository").Return(availabilityRepo).Once()
	uow.On("DeliveryRepository").Return(deliveryRepo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	availabilityRepo.On("Get", mock.Anything, courierID).Return(busy, nil).Once()
	deliveryRepo.On("Get", mock.Anything, d.ID()).Return(d, nil).Once()

	factory := new(MockAvailabilityUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewUpdateAvailabilityCommandHandler(factory)

	cmd, err := commands.NewUpdateAvailabilityCommand(courierID, availability.StatusAvailable, nil)
	require.NoError(t, err)

	result, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.False(t, result.Success)
	require.Equal(t, commands.CodeCourierBusy, result.Code)
	require.Equal(t, availability.StatusBusy, busy.Status())

	uow.AssertExpectations(t)
}

func TestUpdateAvailabilityCommandHandler_Handle_StaleBusyReconciled(t *testing.T) {
	ctx := t.Context()
	courierID := kernel.NewUUID()
	d := newAcceptedDelivery(t, courierID)
	require.NoError(t, d.Cancel())
	busy := newBusyRecord(t, courierID, d.ID())

	availabilityRepo := new(MockAvailabilityRepository)
	deliveryRepo := new(MockDeliveryRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("AvailabilityRepository").Return(availabilityRepo).Once()
	uow.On("DeliveryRepository").Return(deliveryRepo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	availabilityRepo.On("Get", mock.Anything, courierID).Return(busy, nil).Once()
	deliveryRepo.On("Get", mock.Anything, d.ID()).Return(d, nil).Once()
	availabilityRepo.On("Upsert", mock.Anything, busy).Return(nil).Once()

	factory := new(MockAvailabilityUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewUpdateAvailabilityCommandHandler(factory)

	cmd, err := commands.NewUpdateAvailabilityCommand(courierID, availability.StatusBreak, nil)
	require.NoError(t, err)

	result, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, availability.StatusBreak, busy.Status())
	require.Nil(t, busy.CurrentDeliveryID())
	require.Equal(t, delivery.StatusCancelled, d.Status())

	availabilityRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}
