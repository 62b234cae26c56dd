package commands_test

import (
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestVerifyOTPCommandHandler_Handle_CorrectCode(t *testing.T) {
	ctx := t.Context()
	deliveryID := kernel.NewUUID()
	proof, err := delivery.NewProofOfDelivery(deliveryID)
	require.NoError(t, err)
	_, err = proof.IssueOTP("4821")
	require.NoError(t, err)

	podRepo := new(MockPODRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("PODRepository").Return(podRepo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	podRepo.On("Get", mock.Anything, deliveryID).Return(proof, nil).Once()
	podRepo.On("Upsert", mock.Anything, proof).Return(nil).Once()

	factory := new(MockPODUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewVerifyOTPCommandHandler(factory)

	cmd, err := commands.NewVerifyOTPCommand(deliveryID, "4821")
	require.NoError(t, err)

	result, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.True(t, result.Verified)
	require.Equal(t, delivery.OTPVerified, result.OTPOutcome)

	podRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestVerifyOTPCommandHandler_Handle_MismatchIsSoftFailure(t *testing.T) {
	ctx := t.Context()
	deliveryID := kernel.NewUUID()
	proof, err := delivery.NewProofOfDelivery(deliveryID)
	require.NoError(t, err)
	_, err = proof.IssueOTP("4821")
	require.NoError(t, err)

	podRepo := new(MockPODRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("PODRepository").Return(podRepo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	podRepo.On("Get", mock.Anything, deliveryID).Return(proof, nil).Once()
	podRepo.On("Upsert", mock.Anything, proof).Return(nil).Once()

	factory := new(MockPODUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewVerifyOTPCommandHandler(factory)

	cmd, err := commands.NewVerifyOTPCommand(deliveryID, "0000")
	require.NoError(t, err)

	result, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.False(t, result.Verified)
	require.Equal(t, delivery.OTPMismatch, result.OTPOutcome)
	require.False(t, proof.OTPVerified())
}

func TestVerifyOTPCommandHandler_Handle_NoCodeIssued(t *testing.T) {
	ctx := t.Context()
	deliveryID := kernel.NewUUID()

	podRepo := new(MockPODRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("PODRepository").Return(podRepo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	podRepo.On("Get", mock.Anything, deliveryID).
		Return(nil, errs.NewObjectNotFoundError("deliveryID", deliveryID)).Once()

	factory := new(MockPODUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewVerifyOTPCommandHandler(factory)

	cmd, err := commands.NewVerifyOTPCommand(deliveryID, "4821")
	require.NoError(t, err)

	result, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.False(t, result.Success)
	require.Equal(t, commands.CodeNoOTP, result.Code)
}
