package deliveryrepo_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/deliveryrepo"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// DeliveryRepositoryIntegrationTestSuite provides integration tests for
// DeliveryRepository using PostgreSQL containers to verify persistence
// behavior, including the conditional assignment write under contention.
type DeliveryRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *deliveryrepo.GormDeliveryRepository
	tracker    *MockAggregateTracker
}

func (suite *DeliveryRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&deliveryrepo.DeliveryDTO{}))
}

func (suite *DeliveryRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE deliveries").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = deliveryrepo.NewGormDeliveryRepository(suite.db, suite.tracker)
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestAdd_ValidDelivery_Success() {
	ctx := context.Background()

	testDelivery := suite.createTestDelivery()
	suite.tracker.On("TrackAggregate", testDelivery.ID(), testDelivery).Once()

	err := suite.repository.Add(ctx, testDelivery)
	suite.Require().NoError(err)

	suite.assertDeliveryCount(1)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestGet_ExistingDelivery_RoundTripsAllFields() {
	ctx := context.Background()

	original := suite.createTestDelivery()
	suite.tracker.On("TrackAggregate", original.ID(), original).Once()
	suite.Require().NoError(suite.repository.Add(ctx, original))

	retrieved, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)

	suite.Equal(original.ID(), retrieved.ID())
	suite.Equal(original.RequesterID(), retrieved.RequesterID())
	suite.InDelta(original.Pickup().Latitude(), retrieved.Pickup().Latitude(), 1e-9)
	suite.InDelta(original.Drop().Longitude(), retrieved.Drop().Longitude(), 1e-9)
	suite.Equal(original.PickupContact().Name(), retrieved.PickupContact().Name())
	suite.Equal(original.DropContact().Phone(), retrieved.DropContact().Phone())
	suite.Equal(delivery.StatusCreated, retrieved.Status())
	suite.Equal(0, retrieved.MatchingAttempts())
	suite.True(original.EstimatedPrice().Equal(retrieved.EstimatedPrice()))
	suite.Nil(retrieved.Courier())
	suite.Nil(retrieved.FinalPrice())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestGet_NonExistentDelivery_ReturnsNotFoundError() {
	ctx := context.Background()

	retrieved, err := suite.repository.Get(ctx, kernel.NewUUID())

	suite.Nil(retrieved)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestUpdate_PersistsLifecycleProgress() {
	ctx := context.Background()

	testDelivery := suite.createTestDelivery()
	suite.tracker.On("TrackAggregate", testDelivery.ID(), testDelivery).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, testDelivery))

	suite.Require().NoError(testDelivery.StartMatching(1))
	suite.Require().NoError(suite.repository.Update(ctx, testDelivery))

	retrieved, err := suite.repository.Get(ctx, testDelivery.ID())
	suite.Require().NoError(err)
	suite.Equal(delivery.StatusMatching, retrieved.Status())
	suite.Equal(1, retrieved.MatchingAttempts())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestUpdate_NonExistentDelivery_ReturnsError() {
	ctx := context.Background()

	err := suite.repository.Update(ctx, suite.createTestDelivery())
	suite.Require().Error(err)
	suite.Require().ErrorIs(err, gorm.ErrRecordNotFound)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestAssignCourier_UnassignedDelivery_Wins() {
	ctx := context.Background()

	testDelivery := suite.createMatchingDelivery(ctx)
	courierID := kernel.NewUUID()

	won, err := suite.repository.AssignCourier(ctx, testDelivery.ID(), courierID)
	suite.Require().NoError(err)
	suite.True(won)

	retrieved, err := suite.repository.Get(ctx, testDelivery.ID())
	suite.Require().NoError(err)
	suite.Equal(delivery.StatusAccepted, retrieved.Status())
	suite.Require().NotNil(retrieved.Courier())
	suite.True(courierID.IsEqual(*retrieved.Courier()))
	suite.NotNil(retrieved.AssignedAt())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestAssignCourier_AlreadyAssigned_Loses() {
	ctx := context.Background()

	testDelivery := suite.createMatchingDelivery(ctx)
	first := kernel.NewUUID()
	second := kernel.NewUUID()

	won, err := suite.repository.AssignCourier(ctx, testDelivery.ID(), first)
	suite.Require().NoError(err)
	suite.True(won)

	won, err = suite.repository.AssignCourier(ctx, testDelivery.ID(), second)
	suite.Require().NoError(err)
	suite.False(won)

	retrieved, err := suite.repository.Get(ctx, testDelivery.ID())
	suite.Require().NoError(err)
	suite.True(first.IsEqual(*retrieved.Courier()))

	suite.tracker.AssertExpectations(suite.T())
}

// TestAssignCourier_ConcurrentAccepts_AtMostOneWinner drives many goroutines
// against the same unassigned delivery and verifies the conditional write
// admits exactly one of them.
func (suite *DeliveryRepositoryIntegrationTestSuite) TestAssignCourier_ConcurrentAccepts_AtMostOneWinner() {
	ctx := context.Background()

	testDelivery := suite.createMatchingDelivery(ctx)

	const contenders = 10
	var wg sync.WaitGroup
	wins := make(chan kernel.UUID, contenders)

	for range contenders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			courierID := kernel.NewUUID()
			won, err := suite.repository.AssignCourier(ctx, testDelivery.ID(), courierID)
			if err == nil && won {
				wins <- courierID
			}
		}()
	}
	wg.Wait()
	close(wins)

	winners := make([]kernel.UUID, 0, contenders)
	for id := range wins {
		winners = append(winners, id)
	}
	suite.Require().Len(winners, 1)

	retrieved, err := suite.repository.Get(ctx, testDelivery.ID())
	suite.Require().NoError(err)
	suite.Require().NotNil(retrieved.Courier())
	suite.True(winners[0].IsEqual(*retrieved.Courier()))

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestGetAllInStatusUpdatedBefore_FiltersByStatusAndCutoff() {
	ctx := context.Background()

	stale := suite.createTestDelivery()
	fresh := suite.createTestDelivery()
	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Times(2)
	suite.Require().NoError(suite.repository.Add(ctx, stale))
	suite.Require().NoError(suite.repository.Add(ctx, fresh))

	// Age one of the rows behind GORM's back.
	oldTimestamp := time.Now().UTC().Add(-2 * time.Hour)
	err := suite.db.Model(&deliveryrepo.DeliveryDTO{}).
		Where("id = ?", stale.ID().Bytes()).
		Update("updated_at", oldTimestamp).Error
	suite.Require().NoError(err)

	cutoff := time.Now().UTC().Add(-time.Hour)
	deliveries, err := suite.repository.GetAllInStatusUpdatedBefore(ctx, delivery.StatusCreated, cutoff)
	suite.Require().NoError(err)

	suite.Require().Len(deliveries, 1)
	suite.Equal(stale.ID(), deliveries[0].ID())

	suite.tracker.AssertExpectations(suite.T())
}

// createTestDelivery creates a freshly requested delivery with default values.
func (suite *DeliveryRepositoryIntegrationTestSuite) createTestDelivery() *delivery.Delivery {
	pickup, err := kernel.NewGeoPoint(28.6139, 77.2090)
	suite.Require().NoError(err)
	drop, err := kernel.NewGeoPoint(28.7041, 77.1025)
	suite.Require().NoError(err)

	pickupContact, err := delivery.NewContact("Sender", "+911234567890")
	suite.Require().NoError(err)
	dropContact, err := delivery.NewContact("Recipient", "+919876543210")
	suite.Require().NoError(err)

	testDelivery, err := delivery.NewDelivery(
		kernel.NewUUID(), kernel.NewUUID(),
		pickup, drop, pickupContact, dropContact,
		decimal.NewFromInt(120),
	)
	suite.Require().NoError(err)
	return testDelivery
}

// createMatchingDelivery persists a delivery already moved into Matching.
func (suite *DeliveryRepositoryIntegrationTestSuite) createMatchingDelivery(ctx context.Context) *delivery.Delivery {
	testDelivery := suite.createTestDelivery()
	suite.Require().NoError(testDelivery.StartMatching(1))

	suite.tracker.On("TrackAggregate", testDelivery.ID(), testDelivery).Once()
	suite.Require().NoError(suite.repository.Add(ctx, testDelivery))
	return testDelivery
}

// assertDeliveryCount verifies the number of deliveries in the database.
func (suite *DeliveryRepositoryIntegrationTestSuite) assertDeliveryCount(expected int) {
	var count int64
	err := suite.db.Model(&deliveryrepo.DeliveryDTO{}).Count(&count).Error
	suite.Require().NoError(err)
	suite.Equal(int64(expected), count)
}

func TestDeliveryRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(DeliveryRepositoryIntegrationTestSuite))
}
