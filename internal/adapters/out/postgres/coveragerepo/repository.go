package coveragerepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/coverage"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormCoverageRepository implements CoverageRepository using GORM.
type GormCoverageRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormCoverageRepository creates a new GORM coverage repository.
func NewGormCoverageRepository(db *gorm.DB, tracker aggregateTracker) *GormCoverageRepository {
	return &GormCoverageRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new coverage declaration to the database.
func (r *GormCoverageRepository) Add(ctx context.Context, aggregate *coverage.Coverage) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing coverage declaration to the database.
func (r *GormCoverageRepository) Update(ctx context.Context, aggregate *coverage.Coverage) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&CoverageDTO{}).
		Where("id = ?", dto.ID).
		Select("*").Omit("id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a coverage by ID.
func (r *GormCoverageRepository) Get(ctx context.Context, id kernel.UUID) (*coverage.Coverage, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CoverageDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("coverage", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetActiveByOwner retrieves the owner's active coverage. An owner holds at
// most one active declaration at a time.
func (r *GormCoverageRepository) GetActiveByOwner(ctx context.Context, ownerID kernel.UUID) (*coverage.Coverage, error) {
	if err := ownerID.Validate(); err != nil {
		return nil, err
	}

	var dto CoverageDTO
	if err := r.db.WithContext(ctx).First(&dto, "owner_id = ? AND active", ownerID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("coverage", ownerID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllActiveByRole retrieves every active coverage declared by owners of the
// given role. Matching scans this set against a delivery's route.
func (r *GormCoverageRepository) GetAllActiveByRole(ctx context.Context, role coverage.OwnerRole) ([]*coverage.Coverage, error) {
	var dtos []CoverageDTO
	if err := r.db.WithContext(ctx).Find(&dtos, "owner_role = ? AND active", int(role)).Error; err != nil {
		return nil, err
	}

	coverages := make([]*coverage.Coverage, 0, len(dtos))
	for _, dto := range dtos {
		c, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		coverages = append(coverages, c)
	}

	return coverages, nil
}
