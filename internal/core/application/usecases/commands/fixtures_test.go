package commands_test

import (
	"testing"

	"dispatch/internal/core/domain/model/availability"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testPoint(t *testing.T, lat, lng float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lng)
	require.NoError(t, err)
	return p
}

func testContact(t *testing.T, name string) delivery.Contact {
	t.Helper()
	c, err := delivery.NewContact(name, "+911100000000")
	require.NoError(t, err)
	return c
}

// newCreatedDelivery builds a delivery in Created status.
func newCreatedDelivery(t *testing.T) *delivery.Delivery {
	t.Helper()
	d, err := delivery.NewDelivery(
		kernel.NewUUID(),
		kernel.NewUUID(),
		testPoint(t, 28.6139, 77.2090),
		testPoint(t, 28.7041, 77.1025),
		testContact(t, "Store 12"),
		testContact(t, "A. Sharma"),
		decimal.NewFromInt(120),
	)
	require.NoError(t, err)
	return d
}

// newMatchingDelivery builds a delivery in Matching with the given round.
func newMatchingDelivery(t *testing.T, attempt int) *delivery.Delivery {
	t.Helper()
	d := newCreatedDelivery(t)
	for round := 1; round <= attempt; round++ {
		require.NoError(t, d.StartMatching(round))
	}
	return d
}

// newAcceptedDelivery builds a delivery accepted by the given courier.
func newAcceptedDelivery(t *testing.T, courierID kernel.UUID) *delivery.Delivery {
	t.Helper()
	d := newMatchingDelivery(t, 1)
	require.NoError(t, d.Accept(courierID))
	return d
}

// newInTransitDelivery builds a delivery in transit with the given courier.
func newInTransitDelivery(t *testing.T, courierID kernel.UUID) *delivery.Delivery {
	t.Helper()
	d := newAcceptedDelivery(t, courierID)
	require.NoError(t, d.MarkPickedUp(courierID))
	require.NoError(t, d.MarkInTransit(courierID))
	return d
}

// newBusyRecord builds an availability record occupied by the given delivery.
func newBusyRecord(t *testing.T, courierID kernel.UUID, deliveryID kernel.UUID) *availability.Record {
	t.Helper()
	r, err := availability.NewRecord(courierID)
	require.NoError(t, err)
	require.NoError(t, r.MarkBusy(deliveryID))
	return r
}
