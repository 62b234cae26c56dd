// Package coveragerepo provides data transfer objects and mapping functions
// for coverage persistence. This package implements the repository pattern for
// the coverage domain aggregate, handling the conversion between domain
// entities and database representations.
package coveragerepo

import (
	"time"

	"dispatch/internal/core/domain/model/coverage"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CoverageDTO represents the database structure for persisting coverage
// aggregates. Indexed by owner so the active declaration of any owner can be
// resolved in one lookup.
type CoverageDTO struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID          uuid.UUID `gorm:"type:uuid;index"`
	OwnerRole        int
	Center           CenterDTO `gorm:"embedded;embeddedPrefix:center_"`
	RadiusKm         float64
	AllowDropOutside bool
	Active           bool `gorm:"index"`
	Label            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName specifies the database table name for coverage entities.
// Overrides GORM's default naming convention to use "coverages".
func (CoverageDTO) TableName() string {
	return "coverages"
}

// CenterDTO represents the embedded center coordinates of the service circle.
type CenterDTO struct {
	Lat float64
	Lng float64
}

// fromDomain converts a coverage domain aggregate to its database representation.
func fromDomain(aggregate *coverage.Coverage) CoverageDTO {
	return CoverageDTO{
		ID:        aggregate.ID().Bytes(),
		OwnerID:   aggregate.OwnerID().Bytes(),
		OwnerRole: int(aggregate.OwnerRole()),
		Center: CenterDTO{
			Lat: aggregate.Center().Latitude(),
			Lng: aggregate.Center().Longitude(),
		},
		RadiusKm:         aggregate.RadiusKm(),
		AllowDropOutside: aggregate.AllowDropOutside(),
		Active:           aggregate.IsActive(),
		Label:            aggregate.Label(),
		CreatedAt:        aggregate.CreatedAt(),
		UpdatedAt:        aggregate.UpdatedAt(),
	}
}

// toDomain converts a database DTO to a coverage domain aggregate.
// Reconstructs the complete aggregate using RestoreCoverage.
func toDomain(dto CoverageDTO) (*coverage.Coverage, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	ownerID, err := kernel.UUIDFromBytes(dto.OwnerID[:])
	if err != nil {
		return nil, err
	}

	center, err := kernel.NewGeoPoint(dto.Center.Lat, dto.Center.Lng)
	if err != nil {
		return nil, err
	}

	return coverage.RestoreCoverage(
		id,
		ownerID,
		coverage.OwnerRole(dto.OwnerRole),
		center,
		dto.RadiusKm,
		dto.AllowDropOutside,
		dto.Active,
		dto.Label,
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}
