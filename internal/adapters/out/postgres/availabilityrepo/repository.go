package availabilityrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/availability"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAvailabilityRepository implements AvailabilityRepository using GORM.
type GormAvailabilityRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormAvailabilityRepository creates a new GORM availability repository.
func NewGormAvailabilityRepository(db *gorm.DB, tracker aggregateTracker) *GormAvailabilityRepository {
	return &GormAvailabilityRepository{
		db:      db,
		tracker: tracker,
	}
}

// Upsert writes the courier's availability row, inserting on first report and
// overwriting on every later one.
func (r *GormAvailabilityRepository) Upsert(ctx context.Context, aggregate *availability.Record) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "courier_id"}},
			UpdateAll: true,
		}).
		Create(&dto).Error
	if err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.CourierID(), aggregate)
	return nil
}

// Get retrieves a courier's availability record.
func (r *GormAvailabilityRepository) Get(ctx context.Context, courierID kernel.UUID) (*availability.Record, error) {
	if err := courierID.Validate(); err != nil {
		return nil, err
	}

	var dto RecordDTO
	if err := r.db.WithContext(ctx).First(&dto, "courier_id = ?", courierID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("availability", courierID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByCouriers retrieves availability records for a set of couriers.
// Couriers who never reported are simply absent from the result.
func (r *GormAvailabilityRepository) GetByCouriers(
	ctx context.Context,
	courierIDs []kernel.UUID,
) ([]*availability.Record, error) {
	if len(courierIDs) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(courierIDs))
	for _, courierID := range courierIDs {
		if err := courierID.Validate(); err != nil {
			return nil, err
		}
		ids = append(ids, courierID.Bytes())
	}

	var dtos []RecordDTO
	if err := r.db.WithContext(ctx).Find(&dtos, "courier_id IN ?", ids).Error; err != nil {
		return nil, err
	}

	records := make([]*availability.Record, 0, len(dtos))
	for _, dto := range dtos {
		record, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}
