package commands_test

import (
	"context"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/availability"
	"dispatch/internal/core/domain/model/coverage"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockCoverageRepository struct{ mock.Mock }

func (m *MockCoverageRepository) Add(ctx context.Context, c *coverage.Coverage) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCoverageRepository) Update(ctx context.Context, c *coverage.Coverage) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCoverageRepository) Get(ctx context.Context, id kernel.UUID) (*coverage.Coverage, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*coverage.Coverage); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCoverageRepository) GetActiveByOwner(ctx context.Context, ownerID kernel.UUID) (*coverage.Coverage, error) {
	args := m.Called(ctx, ownerID)
	if c, ok := args.Get(0).(*coverage.Coverage); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCoverageRepository) GetAllActiveByRole(ctx context.Context, role coverage.OwnerRole) ([]*coverage.Coverage, error) {
	args := m.Called(ctx, role)
	if cs, ok := args.Get(0).([]*coverage.Coverage); ok {
		return cs, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockDeliveryRepository struct{ mock.Mock }

func (m *MockDeliveryRepository) Add(ctx context.Context, d *delivery.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDeliveryRepository) Update(ctx context.Context, d *delivery.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDeliveryRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, id)
	if d, ok := args.Get(0).(*delivery.Delivery); ok {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDeliveryRepository) AssignCourier(ctx context.Context, deliveryID kernel.UUID, courierID kernel.UUID) (bool, error) {
	args := m.Called(ctx, deliveryID, courierID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDeliveryRepository) GetAllInStatusUpdatedBefore(ctx context.Context, status delivery.Status, cutoff time.Time) ([]*delivery.Delivery, error) {
	args := m.Called(ctx, status, cutoff)
	if ds, ok := args.Get(0).([]*delivery.Delivery); ok {
		return ds, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockCandidateRepository struct{ mock.Mock }

func (m *MockCandidateRepository) AddIfAbsent(ctx context.Context, c *delivery.Candidate) (bool, error) {
	args := m.Called(ctx, c)
	return args.Bool(0), args.Error(1)
}

func (m *MockCandidateRepository) Update(ctx context.Context, c *delivery.Candidate) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCandidateRepository) Get(ctx context.Context, deliveryID kernel.UUID, courierID kernel.UUID, attempt int) (*delivery.Candidate, error) {
	args := m.Called(ctx, deliveryID, courierID, attempt)
	if c, ok := args.Get(0).(*delivery.Candidate); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCandidateRepository) GetAllForAttempt(ctx context.Context, deliveryID kernel.UUID, attempt int) ([]*delivery.Candidate, error) {
	args := m.Called(ctx, deliveryID, attempt)
	if cs, ok := args.Get(0).([]*delivery.Candidate); ok {
		return cs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCandidateRepository) CountPending(ctx context.Context, deliveryID kernel.UUID, attempt int) (int, error) {
	args := m.Called(ctx, deliveryID, attempt)
	return args.Int(0), args.Error(1)
}

type MockAvailabilityRepository struct{ mock.Mock }

func (m *MockAvailabilityRepository) Upsert(ctx context.Context, r *availability.Record) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockAvailabilityRepository) Get(ctx context.Context, courierID kernel.UUID) (*availability.Record, error) {
	args := m.Called(ctx, courierID)
	if r, ok := args.Get(0).(*availability.Record); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAvailabilityRepository) GetByCouriers(ctx context.Context, courierIDs []kernel.UUID) ([]*availability.Record, error) {
	args := m.Called(ctx, courierIDs)
	if rs, ok := args.Get(0).([]*availability.Record); ok {
		return rs, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockPODRepository struct{ mock.Mock }

func (m *MockPODRepository) Upsert(ctx context.Context, p *delivery.ProofOfDelivery) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPODRepository) Get(ctx context.Context, deliveryID kernel.UUID) (*delivery.ProofOfDelivery, error) {
	args := m.Called(ctx, deliveryID)
	if p, ok := args.Get(0).(*delivery.ProofOfDelivery); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockEventRepository struct{ mock.Mock }

func (m *MockEventRepository) Append(ctx context.Context, e *delivery.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEventRepository) ListByDelivery(ctx context.Context, deliveryID kernel.UUID) ([]*delivery.Event, error) {
	args := m.Called(ctx, deliveryID)
	if es, ok := args.Get(0).([]*delivery.Event); ok {
		return es, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockUoW satisfies every unit of work interface in the commands package.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) CoverageRepository() ports.CoverageRepository {
	args := m.Called()
	return args.Get(0).(ports.CoverageRepository)
}

func (m *MockUoW) DeliveryRepository() ports.DeliveryRepository {
	args := m.Called()
	return args.Get(0).(ports.DeliveryRepository)
}

func (m *MockUoW) CandidateRepository() ports.CandidateRepository {
	args := m.Called()
	return args.Get(0).(ports.CandidateRepository)
}

func (m *MockUoW) AvailabilityRepository() ports.AvailabilityRepository {
	args := m.Called()
	return args.Get(0).(ports.AvailabilityRepository)
}

func (m *MockUoW) PODRepository() ports.PODRepository {
	args := m.Called()
	return args.Get(0).(ports.PODRepository)
}

func (m *MockUoW) EventRepository() ports.EventRepository {
	args := m.Called()
	return args.Get(0).(ports.EventRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockCoverageUoWFactory struct{ mock.Mock }

func (m *MockCoverageUoWFactory) Create() commands.CoverageUoW {
	args := m.Called()
	return args.Get(0).(commands.CoverageUoW)
}

type MockDeliveryUoWFactory struct{ mock.Mock }

func (m *MockDeliveryUoWFactory) Create() commands.DeliveryUoW {
	args := m.Called()
	return args.Get(0).(commands.DeliveryUoW)
}

type MockAvailabilityUoWFactory struct{ mock.Mock }

func (m *MockAvailabilityUoWFactory) Create() commands.AvailabilityUoW {
	args := m.Called()
	return args.Get(0).(commands.AvailabilityUoW)
}

type MockLifecycleUoWFactory struct{ mock.Mock }

func (m *MockLifecycleUoWFactory) Create() commands.LifecycleUoW {
	args := m.Called()
	return args.Get(0).(commands.LifecycleUoW)
}

type MockPODUoWFactory struct{ mock.Mock }

func (m *MockPODUoWFactory) Create() commands.PODUoW {
	args := m.Called()
	return args.Get(0).(commands.PODUoW)
}

type MockPricingLookup struct{ mock.Mock }

func (m *MockPricingLookup) GetPricing(ctx context.Context, courierID kernel.UUID) (ports.RateSnapshot, error) {
	args := m.Called(ctx, courierID)
	if s, ok := args.Get(0).(ports.RateSnapshot); ok {
		return s, args.Error(1)
	}
	return ports.RateSnapshot{}, args.Error(1)
}

func (m *MockPricingLookup) CalculateCommission(ctx context.Context, courierID kernel.UUID, amount decimal.Decimal) (ports.EarningBreakdown, error) {
	args := m.Called(ctx, courierID, amount)
	if b, ok := args.Get(0).(ports.EarningBreakdown); ok {
		return b, args.Error(1)
	}
	return ports.EarningBreakdown{}, args.Error(1)
}

// StubNotifier counts fire-and-forget notifications without failing on
// unexpected calls; notification traffic is incidental to most tests.
type StubNotifier struct {
	CandidateNotifications int
	StatusChanges          int
	OTPCodes               []string
}

func (s *StubNotifier) CandidateNotified(_ context.Context, _ kernel.UUID, _ kernel.UUID, _ int) {
	s.CandidateNotifications++
}

func (s *StubNotifier) StatusChanged(_ context.Context, _ kernel.UUID, _ delivery.Status, _ delivery.Status) {
	s.StatusChanges++
}

func (s *StubNotifier) OTPIssued(_ context.Context, _ kernel.UUID, _ string, code string) {
	s.OTPCodes = append(s.OTPCodes, code)
}
