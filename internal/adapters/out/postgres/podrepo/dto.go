// Package podrepo provides data transfer objects and mapping functions for
// proof-of-delivery persistence. One row per delivery accumulates the OTP
// state, the handoff evidence and the stage timestamps.
package podrepo

import (
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// ProofDTO represents the database structure for persisting proof-of-delivery
// records. The OTP code is stored only as a hash.
type ProofDTO struct {
	DeliveryID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	RecipientName      string
	RecipientRelation  string
	OTPHash            string
	OTPSentAt          *time.Time
	OTPVerified        bool
	OTPVerifiedAt      *time.Time
	PhotoURL           string
	SignatureURL       string
	DeliveredLat       *float64
	DeliveredLng       *float64
	DistanceFromDropKm *float64
	Condition          string
	PickupNotes        string
	PickedUpAt         *time.Time
	InTransitAt        *time.Time
	DeliveredAt        *time.Time
	ClosedAt           *time.Time
	VerifiedBy         *uuid.UUID `gorm:"type:uuid"`
}

// TableName specifies the database table name for proof entities.
// Overrides GORM's default naming convention to use "pods".
func (ProofDTO) TableName() string {
	return "pods"
}

// fromDomain converts a proof domain aggregate to its database representation.
func fromDomain(aggregate *delivery.ProofOfDelivery) ProofDTO {
	var deliveredLat, deliveredLng *float64
	if point := aggregate.DeliveredPoint(); point != nil {
		lat := point.Latitude()
		lng := point.Longitude()
		deliveredLat, deliveredLng = &lat, &lng
	}

	var verifiedBy *uuid.UUID
	if id := aggregate.VerifiedBy(); id != nil {
		raw := id.Bytes()
		verifiedBy = &raw
	}

	return ProofDTO{
		DeliveryID:         aggregate.DeliveryID().Bytes(),
		RecipientName:      aggregate.RecipientName(),
		RecipientRelation:  aggregate.RecipientRelation(),
		OTPHash:            aggregate.OTPHash(),
		OTPSentAt:          aggregate.OTPSentAt(),
		OTPVerified:        aggregate.OTPVerified(),
		OTPVerifiedAt:      aggregate.OTPVerifiedAt(),
		PhotoURL:           aggregate.PhotoURL(),
		SignatureURL:       aggregate.SignatureURL(),
		DeliveredLat:       deliveredLat,
		DeliveredLng:       deliveredLng,
		DistanceFromDropKm: aggregate.DistanceFromDropKm(),
		Condition:          aggregate.Condition(),
		PickupNotes:        aggregate.PickupNotes(),
		PickedUpAt:         aggregate.PickedUpAt(),
		InTransitAt:        aggregate.InTransitAt(),
		DeliveredAt:        aggregate.DeliveredAt(),
		ClosedAt:           aggregate.ClosedAt(),
		VerifiedBy:         verifiedBy,
	}
}

// toDomain converts a database DTO to a proof domain aggregate.
func toDomain(dto ProofDTO) (*delivery.ProofOfDelivery, error) {
	deliveryID, err := kernel.UUIDFromBytes(dto.DeliveryID[:])
	if err != nil {
		return nil, err
	}

	var deliveredPoint *kernel.GeoPoint
	if dto.DeliveredLat != nil && dto.DeliveredLng != nil {
		point, pointErr := kernel.NewGeoPoint(*dto.DeliveredLat, *dto.DeliveredLng)
		if pointErr != nil {
			return nil, pointErr
		}

		deliveredPoint = &point
	}

	var verifiedBy *kernel.UUID
	if dto.VerifiedBy != nil {
		vID, verifierErr := kernel.UUIDFromBytes((*dto.VerifiedBy)[:])
		if verifierErr != nil {
			return nil, verifierErr
		}

		verifiedBy = &vID
	}

	return delivery.RestoreProofOfDelivery(
		deliveryID,
		dto.RecipientName,
		dto.RecipientRelation,
		dto.OTPHash,
		dto.OTPSentAt,
		dto.OTPVerified,
		dto.OTPVerifiedAt,
		dto.PhotoURL,
		dto.SignatureURL,
		deliveredPoint,
		dto.DistanceFromDropKm,
		dto.Condition,
		dto.PickupNotes,
		dto.PickedUpAt,
		dto.InTransitAt,
		dto.DeliveredAt,
		dto.ClosedAt,
		verifiedBy,
	)
}
