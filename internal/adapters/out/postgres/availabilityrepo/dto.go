// Package availabilityrepo provides data transfer objects and mapping
// functions for courier availability persistence. One row per courier holds
// the latest self-reported status and position.
package availabilityrepo

import (
	"time"

	"dispatch/internal/core/domain/model/availability"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// RecordDTO represents the database structure for persisting availability
// records. The courier is the primary key: availability is a single mutable
// row, not a history.
type RecordDTO struct {
	CourierID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Status            int        `gorm:"index"`
	CurrentDeliveryID *uuid.UUID `gorm:"type:uuid"`
	LastLat           *float64
	LastLng           *float64
	LocatedAt         *time.Time
	UpdatedAt         time.Time
}

// TableName specifies the database table name for availability entities.
// Overrides GORM's default naming convention to use "availability_records".
func (RecordDTO) TableName() string {
	return "availability_records"
}

// fromDomain converts an availability record to its database representation.
func fromDomain(aggregate *availability.Record) RecordDTO {
	var currentDeliveryID *uuid.UUID
	if id := aggregate.CurrentDeliveryID(); id != nil {
		raw := id.Bytes()
		currentDeliveryID = &raw
	}

	var lastLat, lastLng *float64
	if position := aggregate.LastPosition(); position != nil {
		lat := position.Latitude()
		lng := position.Longitude()
		lastLat, lastLng = &lat, &lng
	}

	return RecordDTO{
		CourierID:         aggregate.CourierID().Bytes(),
		Status:            int(aggregate.Status()),
		CurrentDeliveryID: currentDeliveryID,
		LastLat:           lastLat,
		LastLng:           lastLng,
		LocatedAt:         aggregate.LocatedAt(),
		UpdatedAt:         aggregate.UpdatedAt(),
	}
}

// toDomain converts a database DTO to an availability record aggregate.
func toDomain(dto RecordDTO) (*availability.Record, error) {
	courierID, err := kernel.UUIDFromBytes(dto.CourierID[:])
	if err != nil {
		return nil, err
	}

	var currentDeliveryID *kernel.UUID
	if dto.CurrentDeliveryID != nil {
		dID, deliveryErr := kernel.UUIDFromBytes((*dto.CurrentDeliveryID)[:])
		if deliveryErr != nil {
			return nil, deliveryErr
		}

		currentDeliveryID = &dID
	}

	var lastPosition *kernel.GeoPoint
	if dto.LastLat != nil && dto.LastLng != nil {
		position, positionErr := kernel.NewGeoPoint(*dto.LastLat, *dto.LastLng)
		if positionErr != nil {
			return nil, positionErr
		}

		lastPosition = &position
	}

	return availability.RestoreRecord(
		courierID,
		availability.Status(dto.Status),
		currentDeliveryID,
		lastPosition,
		dto.LocatedAt,
		dto.UpdatedAt,
	)
}
