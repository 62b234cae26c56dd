package candidaterepo_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/candidaterepo"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

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

// CandidateRepositoryIntegrationTestSuite provides integration tests for
// CandidateRepository, in particular the idempotent notification insert.
type CandidateRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *candidaterepo.GormCandidateRepository
	tracker    *MockAggregateTracker
}

func (suite *CandidateRepositoryIntegrationTestSuite) SetupSuite() {
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

	suite.Require().NoError(db.AutoMigrate(&candidaterepo.CandidateDTO{}))
}

func (suite *CandidateRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE candidates").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = candidaterepo.NewGormCandidateRepository(suite.db, suite.tracker)
}

func (suite *CandidateRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *CandidateRepositoryIntegrationTestSuite) TestAddIfAbsent_FirstInsert_ReturnsTrue() {
	ctx := context.Background()

	candidate := suite.createTestCandidate(kernel.NewUUID(), kernel.NewUUID(), 1)
	suite.tracker.On("TrackAggregate", candidate.DeliveryID(), candidate).Once()

	inserted, err := suite.repository.AddIfAbsent(ctx, candidate)
	suite.Require().NoError(err)
	suite.True(inserted)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *CandidateRepositoryIntegrationTestSuite) TestAddIfAbsent_DuplicateNotification_ReturnsFalse() {
	ctx := context.Background()

	deliveryID := kernel.NewUUID()
	courierID := kernel.NewUUID()
	first := suite.createTestCandidate(deliveryID, courierID, 1)
	suite.tracker.On("TrackAggregate", deliveryID, first).Once()

	inserted, err := suite.repository.AddIfAbsent(ctx, first)
	suite.Require().NoError(err)
	suite.True(inserted)

	duplicate := suite.createTestCandidate(deliveryID, courierID, 1)
	inserted, err = suite.repository.AddIfAbsent(ctx, duplicate)
	suite.Require().NoError(err)
	suite.False(inserted)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *CandidateRepositoryIntegrationTestSuite) TestAddIfAbsent_NextAttempt_InsertsNewRow() {
	ctx := context.Background()

	deliveryID := kernel.NewUUID()
	courierID := kernel.NewUUID()
	suite.tracker.On("TrackAggregate", deliveryID, mock.Anything).Times(2)

	inserted, err := suite.repository.AddIfAbsent(ctx, suite.createTestCandidate(deliveryID, courierID, 1))
	suite.Require().NoError(err)
	suite.True(inserted)

	inserted, err = suite.repository.AddIfAbsent(ctx, suite.createTestCandidate(deliveryID, courierID, 2))
	suite.Require().NoError(err)
	suite.True(inserted)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *CandidateRepositoryIntegrationTestSuite) TestUpdate_PersistsResponse() {
	ctx := context.Background()

	deliveryID := kernel.NewUUID()
	courierID := kernel.NewUUID()
	candidate := suite.createTestCandidate(deliveryID, courierID, 1)
	suite.tracker.On("TrackAggregate", deliveryID, candidate).Times(2)

	_, err := suite.repository.AddIfAbsent(ctx, candidate)
	suite.Require().NoError(err)

	suite.Require().NoError(candidate.Reject("too far"))
	suite.Require().NoError(suite.repository.Update(ctx, candidate))

	retrieved, err := suite.repository.Get(ctx, deliveryID, courierID, 1)
	suite.Require().NoError(err)
	suite.Equal(delivery.ResponseRejected, retrieved.Response())
	suite.Equal("too far", retrieved.Reason())
	suite.NotNil(retrieved.RespondedAt())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *CandidateRepositoryIntegrationTestSuite) TestGet_WrongAttempt_ReturnsNotFoundError() {
	ctx := context.Background()

	deliveryID := kernel.NewUUID()
	courierID := kernel.NewUUID()
	candidate := suite.createTestCandidate(deliveryID, courierID, 1)
	suite.tracker.On("TrackAggregate", deliveryID, candidate).Once()

	_, err := suite.repository.AddIfAbsent(ctx, candidate)
	suite.Require().NoError(err)

	retrieved, err := suite.repository.Get(ctx, deliveryID, courierID, 2)
	suite.Nil(retrieved)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *CandidateRepositoryIntegrationTestSuite) TestCountPending_TracksUnansweredCandidates() {
	ctx := context.Background()

	deliveryID := kernel.NewUUID()
	suite.tracker.On("TrackAggregate", deliveryID, mock.Anything).Times(3)

	responded := suite.createTestCandidate(deliveryID, kernel.NewUUID(), 1)
	pending := suite.createTestCandidate(deliveryID, kernel.NewUUID(), 1)

	_, err := suite.repository.AddIfAbsent(ctx, responded)
	suite.Require().NoError(err)
	_, err = suite.repository.AddIfAbsent(ctx, pending)
	suite.Require().NoError(err)

	count, err := suite.repository.CountPending(ctx, deliveryID, 1)
	suite.Require().NoError(err)
	suite.Equal(2, count)

	suite.Require().NoError(responded.Accept())
	suite.Require().NoError(suite.repository.Update(ctx, responded))

	count, err = suite.repository.CountPending(ctx, deliveryID, 1)
	suite.Require().NoError(err)
	suite.Equal(1, count)

	suite.tracker.AssertExpectations(suite.T())
}

// createTestCandidate creates a pending candidate notification.
func (suite *CandidateRepositoryIntegrationTestSuite) createTestCandidate(
	deliveryID kernel.UUID, courierID kernel.UUID, attempt int,
) *delivery.Candidate {
	candidate, err := delivery.NewCandidate(deliveryID, courierID, attempt)
	suite.Require().NoError(err)
	return candidate
}

func TestCandidateRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(CandidateRepositoryIntegrationTestSuite))
}
