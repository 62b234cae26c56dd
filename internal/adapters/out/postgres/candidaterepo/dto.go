// Package candidaterepo provides data transfer objects and mapping functions
// for matching candidate persistence. A candidate row records one courier
// notification within one matching attempt and the courier's eventual reply.
package candidaterepo

import (
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CandidateDTO represents the database structure for persisting matching
// candidates. The composite primary key makes notification inserts idempotent
// per (delivery, courier, attempt).
type CandidateDTO struct {
	DeliveryID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	CourierID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Attempt     int       `gorm:"primaryKey"`
	NotifiedAt  time.Time
	Response    int
	RespondedAt *time.Time
	Reason      string
}

// TableName specifies the database table name for candidate entities.
// Overrides GORM's default naming convention to use "candidates".
func (CandidateDTO) TableName() string {
	return "candidates"
}

// fromDomain converts a candidate domain aggregate to its database representation.
func fromDomain(aggregate *delivery.Candidate) CandidateDTO {
	return CandidateDTO{
		DeliveryID:  aggregate.DeliveryID().Bytes(),
		CourierID:   aggregate.CourierID().Bytes(),
		Attempt:     aggregate.Attempt(),
		NotifiedAt:  aggregate.NotifiedAt(),
		Response:    int(aggregate.Response()),
		RespondedAt: aggregate.RespondedAt(),
		Reason:      aggregate.Reason(),
	}
}

// toDomain converts a database DTO to a candidate domain aggregate.
func toDomain(dto CandidateDTO) (*delivery.Candidate, error) {
	deliveryID, err := kernel.UUIDFromBytes(dto.DeliveryID[:])
	if err != nil {
		return nil, err
	}

	courierID, err := kernel.UUIDFromBytes(dto.CourierID[:])
	if err != nil {
		return nil, err
	}

	return delivery.RestoreCandidate(
		deliveryID,
		courierID,
		dto.Attempt,
		dto.NotifiedAt,
		delivery.Response(dto.Response),
		dto.RespondedAt,
		dto.Reason,
	)
}
