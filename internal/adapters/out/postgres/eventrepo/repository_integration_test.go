package eventrepo_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/eventrepo"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"

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

// EventRepositoryIntegrationTestSuite provides integration tests for the
// append-only lifecycle event log.
type EventRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *eventrepo.GormEventRepository
	tracker    *MockAggregateTracker
}

func (suite *EventRepositoryIntegrationTestSuite) SetupSuite() {
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

	suite.Require().NoError(db.AutoMigrate(&eventrepo.EventDTO{}))
}

func (suite *EventRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE delivery_events").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = eventrepo.NewGormEventRepository(suite.db, suite.tracker)
}

func (suite *EventRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *EventRepositoryIntegrationTestSuite) TestAppendAndList_RoundTripsEvent() {
	ctx := context.Background()
	deliveryID := kernel.NewUUID()
	actorID := kernel.NewUUID()

	event, err := delivery.NewEvent(
		deliveryID, delivery.EventAccepted,
		delivery.StatusMatching, delivery.StatusAccepted,
		&actorID, map[string]any{"attempt": 1},
	)
	suite.Require().NoError(err)
	suite.tracker.On("TrackAggregate", event.ID(), event).Once()

	suite.Require().NoError(suite.repository.Append(ctx, event))

	events, err := suite.repository.ListByDelivery(ctx, deliveryID)
	suite.Require().NoError(err)

	suite.Require().Len(events, 1)
	suite.Equal(delivery.EventAccepted, events[0].Type())
	suite.Equal(delivery.StatusMatching, events[0].FromStatus())
	suite.Equal(delivery.StatusAccepted, events[0].ToStatus())
	suite.Require().NotNil(events[0].ActorID())
	suite.True(actorID.IsEqual(*events[0].ActorID()))
	suite.Equal(float64(1), events[0].Metadata()["attempt"])

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *EventRepositoryIntegrationTestSuite) TestListByDelivery_ChronologicalOrder() {
	ctx := context.Background()
	deliveryID := kernel.NewUUID()

	steps := []struct {
		eventType delivery.EventType
		from      delivery.Status
		to        delivery.Status
	}{
		{delivery.EventCreated, delivery.StatusUnknown, delivery.StatusCreated},
		{delivery.EventMatched, delivery.StatusCreated, delivery.StatusMatching},
		{delivery.EventAccepted, delivery.StatusMatching, delivery.StatusAccepted},
	}
	for _, step := range steps {
		event, err := delivery.NewEvent(deliveryID, step.eventType, step.from, step.to, nil, nil)
		suite.Require().NoError(err)
		suite.tracker.On("TrackAggregate", event.ID(), event).Once()
		suite.Require().NoError(suite.repository.Append(ctx, event))
	}

	events, err := suite.repository.ListByDelivery(ctx, deliveryID)
	suite.Require().NoError(err)

	suite.Require().Len(events, 3)
	suite.Equal(delivery.EventCreated, events[0].Type())
	suite.Equal(delivery.EventMatched, events[1].Type())
	suite.Equal(delivery.EventAccepted, events[2].Type())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *EventRepositoryIntegrationTestSuite) TestListByDelivery_OtherDeliveriesExcluded() {
	ctx := context.Background()
	deliveryID := kernel.NewUUID()

	event, err := delivery.NewEvent(
		kernel.NewUUID(), delivery.EventCreated,
		delivery.StatusUnknown, delivery.StatusCreated, nil, nil,
	)
	suite.Require().NoError(err)
	suite.tracker.On("TrackAggregate", event.ID(), event).Once()
	suite.Require().NoError(suite.repository.Append(ctx, event))

	events, err := suite.repository.ListByDelivery(ctx, deliveryID)
	suite.Require().NoError(err)
	suite.Empty(events)

	suite.tracker.AssertExpectations(suite.T())
}

func TestEventRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(EventRepositoryIntegrationTestSuite))
}
