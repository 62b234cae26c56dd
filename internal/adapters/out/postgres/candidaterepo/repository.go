package candidaterepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCandidateRepository implements CandidateRepository using GORM.
type GormCandidateRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormCandidateRepository creates a new GORM candidate repository.
func NewGormCandidateRepository(db *gorm.DB, tracker aggregateTracker) *GormCandidateRepository {
	return &GormCandidateRepository{
		db:      db,
		tracker: tracker,
	}
}

// AddIfAbsent inserts a candidate row, silently skipping couriers already
// notified for the same delivery and attempt. Returns true when the row was
// inserted.
func (r *GormCandidateRepository) AddIfAbsent(ctx context.Context, aggregate *delivery.Candidate) (bool, error) {
	if err := aggregate.Validate(); err != nil {
		return false, err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&dto)
	if result.Error != nil {
		return false, result.Error
	}

	inserted := result.RowsAffected == 1
	if inserted {
		r.tracker.TrackAggregate(aggregate.DeliveryID(), aggregate)
	}
	return inserted, nil
}

// Update persists a candidate's recorded response.
func (r *GormCandidateRepository) Update(ctx context.Context, aggregate *delivery.Candidate) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&CandidateDTO{}).
		Where("delivery_id = ? AND courier_id = ? AND attempt = ?", dto.DeliveryID, dto.CourierID, dto.Attempt).
		Select("response", "responded_at", "reason").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.DeliveryID(), aggregate)
	return nil
}

// Get retrieves the candidate row for a courier in a matching attempt.
func (r *GormCandidateRepository) Get(
	ctx context.Context,
	deliveryID kernel.UUID,
	courierID kernel.UUID,
	attempt int,
) (*delivery.Candidate, error) {
	if err := errors.Join(deliveryID.Validate(), courierID.Validate()); err != nil {
		return nil, err
	}

	var dto CandidateDTO
	err := r.db.WithContext(ctx).
		First(&dto, "delivery_id = ? AND courier_id = ? AND attempt = ?",
			deliveryID.Bytes(), courierID.Bytes(), attempt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("candidate", courierID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllForAttempt retrieves every candidate notified in a matching attempt.
func (r *GormCandidateRepository) GetAllForAttempt(
	ctx context.Context,
	deliveryID kernel.UUID,
	attempt int,
) ([]*delivery.Candidate, error) {
	if err := deliveryID.Validate(); err != nil {
		return nil, err
	}

	var dtos []CandidateDTO
	err := r.db.WithContext(ctx).
		Order("notified_at").
		Find(&dtos, "delivery_id = ? AND attempt = ?", deliveryID.Bytes(), attempt).Error
	if err != nil {
		return nil, err
	}

	candidates := make([]*delivery.Candidate, 0, len(dtos))
	for _, dto := range dtos {
		c, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}

	return candidates, nil
}

// CountPending returns how many candidates in an attempt have not replied.
func (r *GormCandidateRepository) CountPending(
	ctx context.Context,
	deliveryID kernel.UUID,
	attempt int,
) (int, error) {
	if err := deliveryID.Validate(); err != nil {
		return 0, err
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&CandidateDTO{}).
		Where("delivery_id = ? AND attempt = ? AND response = ?",
			deliveryID.Bytes(), attempt, int(delivery.ResponseNone)).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return int(count), nil
}
