package availability_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/availability"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecord(t *testing.T) {
	r, err := availability.NewRecord(kernel.NewUUID())
	require.NoError(t, err)

	assert.Equal(t, availability.StatusOffline, r.Status())
	assert.Nil(t, r.CurrentDeliveryID())
	assert.Nil(t, r.LastPosition())
	require.NoError(t, r.Validate())
}

func TestRecord_SetStatus(t *testing.T) {
	r, err := availability.NewRecord(kernel.NewUUID())
	require.NoError(t, err)

	require.NoError(t, r.SetStatus(availability.StatusAvailable))
	assert.Equal(t, availability.StatusAvailable, r.Status())

	require.NoError(t, r.SetStatus(availability.StatusBreak))
	assert.Equal(t, availability.StatusBreak, r.Status())
}

func TestRecord_SetStatus_BusyRequiresDelivery(t *testing.T) {
	r, err := availability.NewRecord(kernel.NewUUID())
	require.NoError(t, err)

	require.ErrorIs(t, r.SetStatus(availability.StatusBusy), availability.ErrBusyWithoutDelivery)
}

func TestRecord_MarkBusyAndRelease(t *testing.T) {
	r, err := availability.NewRecord(kernel.NewUUID())
	require.NoError(t, err)
	deliveryID := kernel.NewUUID()

	require.NoError(t, r.MarkBusy(deliveryID))
	assert.Equal(t, availability.StatusBusy, r.Status())
	require.NotNil(t, r.CurrentDeliveryID())
	assert.True(t, r.CurrentDeliveryID().IsEqual(deliveryID))
	assert.False(t, r.IsNotifiable())

	r.Release()
	assert.Equal(t, availability.StatusAvailable, r.Status())
	assert.Nil(t, r.CurrentDeliveryID())
	assert.True(t, r.IsNotifiable())
}

func TestRecord_IsNotifiable(t *testing.T) {
	r, err := availability.NewRecord(kernel.NewUUID())
	require.NoError(t, err)

	// Offline couriers still get notifications.
	assert.True(t, r.IsNotifiable())

	require.NoError(t, r.SetStatus(availability.StatusAvailable))
	assert.True(t, r.IsNotifiable())

	require.NoError(t, r.SetStatus(availability.StatusBreak))
	assert.False(t, r.IsNotifiable())

	require.NoError(t, r.MarkBusy(kernel.NewUUID()))
	assert.False(t, r.IsNotifiable())
}

func TestRecord_UpdatePosition(t *testing.T) {
	r, err := availability.NewRecord(kernel.NewUUID())
	require.NoError(t, err)

	position, err := kernel.NewGeoPoint(28.65, 77.15)
	require.NoError(t, err)
	require.NoError(t, r.UpdatePosition(position))

	require.NotNil(t, r.LastPosition())
	assert.InDelta(t, 28.65, r.LastPosition().Latitude(), 1e-9)
	assert.NotNil(t, r.LocatedAt())
}

func TestRestoreRecord_BusyConsistency(t *testing.T) {
	courierID := kernel.NewUUID()

	_, err := availability.RestoreRecord(
		courierID, availability.StatusBusy, nil, nil, nil, time.Now().UTC(),
	)
	require.ErrorIs(t, err, availability.ErrBusyWithoutDelivery)

	deliveryID := kernel.NewUUID()
	r, err := availability.RestoreRecord(
		courierID, availability.StatusBusy, &deliveryID, nil, nil, time.Now().UTC(),
	)
	require.NoError(t, err)
	assert.Equal(t, availability.StatusBusy, r.Status())
}
