package delivery_test

import (
	"testing"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDelivery(t *testing.T) *delivery.Delivery {
	t.Helper()

	pickup, err := kernel.NewGeoPoint(28.6139, 77.2090)
	require.NoError(t, err)
	drop, err := kernel.NewGeoPoint(28.7041, 77.1025)
	require.NoError(t, err)
	sender, err := delivery.NewContact("Asha", "+911234567890")
	require.NoError(t, err)
	receiver, err := delivery.NewContact("Ravi", "+919876543210")
	require.NoError(t, err)

	d, err := delivery.NewDelivery(
		kernel.NewUUID(), kernel.NewUUID(), pickup, drop, sender, receiver,
		decimal.NewFromInt(120),
	)
	require.NoError(t, err)
	return d
}

func acceptedTestDelivery(t *testing.T) (*delivery.Delivery, kernel.UUID) {
	t.Helper()

	d := newTestDelivery(t)
	require.NoError(t, d.StartMatching(1))
	courierID := kernel.NewUUID()
	require.NoError(t, d.Accept(courierID))
	return d, courierID
}

func TestNewDelivery_ValidInput(t *testing.T) {
	d := newTestDelivery(t)

	assert.Equal(t, delivery.StatusCreated, d.Status())
	assert.Nil(t, d.Courier())
	assert.Zero(t, d.MatchingAttempts())
	assert.True(t, decimal.NewFromInt(120).Equal(d.EstimatedPrice()))
	assert.Nil(t, d.FinalPrice())
	require.NoError(t, d.Validate())
}

func TestNewDelivery_NegativePrice(t *testing.T) {
	pickup, _ := kernel.NewGeoPoint(28.6139, 77.2090)
	drop, _ := kernel.NewGeoPoint(28.7041, 77.1025)
	sender, _ := delivery.NewContact("Asha", "")
	receiver, _ := delivery.NewContact("Ravi", "")

	_, err := delivery.NewDelivery(
		kernel.NewUUID(), kernel.NewUUID(), pickup, drop, sender, receiver,
		decimal.NewFromInt(-1),
	)
	require.Error(t, err)
}

func TestNewContact_RequiresName(t *testing.T) {
	_, err := delivery.NewContact("", "+911234567890")
	require.Error(t, err)
}

func TestDelivery_Validate_NotConstructed(t *testing.T) {
	var d delivery.Delivery
	require.ErrorIs(t, d.Validate(), delivery.ErrDeliveryIsNotConstructed)
}

func TestDelivery_StartMatching(t *testing.T) {
	d := newTestDelivery(t)

	require.NoError(t, d.StartMatching(1))
	assert.Equal(t, delivery.StatusMatching, d.Status())
	assert.Equal(t, 1, d.MatchingAttempts())

	// Retry rounds stay in Matching and bump the counter.
	require.NoError(t, d.StartMatching(2))
	require.NoError(t, d.StartMatching(3))
	assert.Equal(t, 3, d.MatchingAttempts())
}

func TestDelivery_StartMatching_BoundedAttempts(t *testing.T) {
	d := newTestDelivery(t)

	require.ErrorIs(t, d.StartMatching(0), delivery.ErrMatchingAttemptsExhausted)
	require.ErrorIs(t, d.StartMatching(delivery.MaxMatchingAttempts+1),
		delivery.ErrMatchingAttemptsExhausted)
}

func TestDelivery_Accept(t *testing.T) {
	d := newTestDelivery(t)
	require.NoError(t, d.StartMatching(1))

	courierID := kernel.NewUUID()
	require.NoError(t, d.Accept(courierID))

	assert.Equal(t, delivery.StatusAccepted, d.Status())
	require.NotNil(t, d.Courier())
	assert.True(t, d.Courier().IsEqual(courierID))
	assert.NotNil(t, d.AssignedAt())
}

func TestDelivery_Accept_SecondCourierLoses(t *testing.T) {
	d, _ := acceptedTestDelivery(t)

	err := d.Accept(kernel.NewUUID())
	require.ErrorIs(t, err, delivery.ErrCourierAlreadyAssigned)
}

func TestDelivery_Accept_FromCreatedIsIllegal(t *testing.T) {
	d := newTestDelivery(t)

	err := d.Accept(kernel.NewUUID())
	var transitionErr *delivery.InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, delivery.StatusCreated, transitionErr.From)
	assert.Equal(t, delivery.StatusAccepted, transitionErr.To)
}

func TestDelivery_MarkUnassignable(t *testing.T) {
	d := newTestDelivery(t)
	require.NoError(t, d.StartMatching(3))

	require.NoError(t, d.MarkUnassignable())
	assert.Equal(t, delivery.StatusUnassignable, d.Status())

	// Unassignable is reopenable.
	require.NoError(t, d.StartMatching(1))
	assert.Equal(t, delivery.StatusMatching, d.Status())
}

func TestDelivery_FullLifecycle(t *testing.T) {
	d, courierID := acceptedTestDelivery(t)

	require.NoError(t, d.MarkPickedUp(courierID))
	assert.Equal(t, delivery.StatusPickedUp, d.Status())

	require.NoError(t, d.MarkInTransit(courierID))
	assert.Equal(t, delivery.StatusInTransit, d.Status())

	require.NoError(t, d.MarkDelivered(courierID, d.EstimatedPrice()))
	assert.Equal(t, delivery.StatusDelivered, d.Status())
	require.NotNil(t, d.FinalPrice())
	assert.True(t, d.EstimatedPrice().Equal(*d.FinalPrice()))
	assert.NotNil(t, d.CompletedAt())

	require.NoError(t, d.Close())
	assert.Equal(t, delivery.StatusClosed, d.Status())
}

func TestDelivery_LifecycleActions_WrongCourier(t *testing.T) {
	d, _ := acceptedTestDelivery(t)
	impostor := kernel.NewUUID()

	require.ErrorIs(t, d.MarkPickedUp(impostor), delivery.ErrActorIsNotAssignedCourier)
	require.ErrorIs(t, d.MarkInTransit(impostor), delivery.ErrActorIsNotAssignedCourier)
	require.ErrorIs(t, d.MarkDelivered(impostor, decimal.NewFromInt(120)),
		delivery.ErrActorIsNotAssignedCourier)
	assert.Equal(t, delivery.StatusAccepted, d.Status())
}

func TestDelivery_SkippingStagesIsIllegal(t *testing.T) {
	d, courierID := acceptedTestDelivery(t)

	// Accepted -> InTransit skips PickedUp.
	err := d.MarkInTransit(courierID)
	var transitionErr *delivery.InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)

	// Accepted -> Delivered skips two stages.
	err = d.MarkDelivered(courierID, decimal.NewFromInt(120))
	require.ErrorAs(t, err, &transitionErr)
}

func TestDelivery_Close_RequiresDelivered(t *testing.T) {
	d, _ := acceptedTestDelivery(t)

	err := d.Close()
	var transitionErr *delivery.InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, delivery.StatusAccepted, transitionErr.From)
	assert.Equal(t, delivery.StatusClosed, transitionErr.To)
}

func TestDelivery_Cancel_ReleasesCourier(t *testing.T) {
	d, _ := acceptedTestDelivery(t)

	require.NoError(t, d.Cancel())
	assert.Equal(t, delivery.StatusCancelled, d.Status())
	assert.Nil(t, d.Courier())
}

func TestDelivery_Cancel_DeliveredIsIllegal(t *testing.T) {
	d, courierID := acceptedTestDelivery(t)
	require.NoError(t, d.MarkPickedUp(courierID))
	require.NoError(t, d.MarkInTransit(courierID))
	require.NoError(t, d.MarkDelivered(courierID, d.EstimatedPrice()))

	require.Error(t, d.Cancel())
}

func TestRestoreDelivery_CourierConsistency(t *testing.T) {
	d, _ := acceptedTestDelivery(t)

	// A courier-requiring status without a courier must be rejected.
	_, err := delivery.RestoreDelivery(
		d.ID(), d.RequesterID(), nil, d.Pickup(), d.Drop(),
		d.PickupContact(), d.DropContact(),
		delivery.StatusAccepted, 1, d.EstimatedPrice(), nil,
		d.CreatedAt(), d.AssignedAt(), nil, d.UpdatedAt(),
	)
	require.Error(t, err)

	// With the courier present the same data restores cleanly.
	restored, err := delivery.RestoreDelivery(
		d.ID(), d.RequesterID(), d.Courier(), d.Pickup(), d.Drop(),
		d.PickupContact(), d.DropContact(),
		delivery.StatusAccepted, 1, d.EstimatedPrice(), nil,
		d.CreatedAt(), d.AssignedAt(), nil, d.UpdatedAt(),
	)
	require.NoError(t, err)
	assert.True(t, restored.IsEqual(d))
}
