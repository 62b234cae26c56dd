package podrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPODRepository implements PODRepository using GORM.
type GormPODRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormPODRepository creates a new GORM proof-of-delivery repository.
func NewGormPODRepository(db *gorm.DB, tracker aggregateTracker) *GormPODRepository {
	return &GormPODRepository{
		db:      db,
		tracker: tracker,
	}
}

// Upsert writes the delivery's proof row, inserting on first touch and
// overwriting on every later stage.
func (r *GormPODRepository) Upsert(ctx context.Context, aggregate *delivery.ProofOfDelivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "delivery_id"}},
			UpdateAll: true,
		}).
		Create(&dto).Error
	if err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.DeliveryID(), aggregate)
	return nil
}

// Get retrieves the proof record for a delivery.
func (r *GormPODRepository) Get(ctx context.Context, deliveryID kernel.UUID) (*delivery.ProofOfDelivery, error) {
	if err := deliveryID.Validate(); err != nil {
		return nil, err
	}

	var dto ProofDTO
	if err := r.db.WithContext(ctx).First(&dto, "delivery_id = ?", deliveryID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("proofOfDelivery", deliveryID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
