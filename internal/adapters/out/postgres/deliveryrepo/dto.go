// Package deliveryrepo provides data transfer objects and mapping functions
// for delivery persistence. This package implements the repository pattern for
// the delivery domain aggregate, handling the conversion between domain
// entities and database representations.
package deliveryrepo

import (
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeliveryDTO represents the database structure for persisting delivery
// aggregates. Indexed by status so matching and background jobs can scan
// deliveries in one lifecycle stage, and by courier for assignment lookups.
type DeliveryDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	RequesterID    uuid.UUID  `gorm:"type:uuid;index"`
	CourierID      *uuid.UUID `gorm:"type:uuid;index"`
	Pickup         PointDTO   `gorm:"embedded;embeddedPrefix:pickup_"`
	Drop           PointDTO   `gorm:"embedded;embeddedPrefix:drop_"`
	PickupContact  ContactDTO `gorm:"embedded;embeddedPrefix:pickup_contact_"`
	DropContact    ContactDTO `gorm:"embedded;embeddedPrefix:drop_contact_"`
	Status         int        `gorm:"index"`
	Attempts       int
	EstimatedPrice decimal.Decimal  `gorm:"type:numeric(12,2)"`
	FinalPrice     *decimal.Decimal `gorm:"type:numeric(12,2)"`
	CreatedAt      time.Time
	AssignedAt     *time.Time
	CompletedAt    *time.Time
	UpdatedAt      time.Time
}

// TableName specifies the database table name for delivery entities.
// Overrides GORM's default naming convention to use "deliveries".
func (DeliveryDTO) TableName() string {
	return "deliveries"
}

// PointDTO represents embedded route coordinates within the delivery table.
type PointDTO struct {
	Lat float64
	Lng float64
}

// ContactDTO represents an embedded contact within the delivery table.
type ContactDTO struct {
	Name  string
	Phone string
}

// fromDomain converts a delivery domain aggregate to its database representation.
// Maps all delivery attributes including optional courier assignment.
func fromDomain(aggregate *delivery.Delivery) DeliveryDTO {
	var courierID *uuid.UUID
	if id := aggregate.Courier(); id != nil {
		raw := id.Bytes()
		courierID = &raw
	}

	return DeliveryDTO{
		ID:          aggregate.ID().Bytes(),
		RequesterID: aggregate.RequesterID().Bytes(),
		CourierID:   courierID,
		Pickup: PointDTO{
			Lat: aggregate.Pickup().Latitude(),
			Lng: aggregate.Pickup().Longitude(),
		},
		Drop: PointDTO{
			Lat: aggregate.Drop().Latitude(),
			Lng: aggregate.Drop().Longitude(),
		},
		PickupContact: ContactDTO{
			Name:  aggregate.PickupContact().Name(),
			Phone: aggregate.PickupContact().Phone(),
		},
		DropContact: ContactDTO{
			Name:  aggregate.DropContact().Name(),
			Phone: aggregate.DropContact().Phone(),
		},
		Status:         int(aggregate.Status()),
		Attempts:       aggregate.MatchingAttempts(),
		EstimatedPrice: aggregate.EstimatedPrice(),
		FinalPrice:     aggregate.FinalPrice(),
		CreatedAt:      aggregate.CreatedAt(),
		AssignedAt:     aggregate.AssignedAt(),
		CompletedAt:    aggregate.CompletedAt(),
		UpdatedAt:      aggregate.UpdatedAt(),
	}
}

// toDomain converts a database DTO to a delivery domain aggregate.
// Reconstructs the complete aggregate including status, attempt counter and
// courier assignment using RestoreDelivery.
func toDomain(dto DeliveryDTO) (*delivery.Delivery, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	requesterID, err := kernel.UUIDFromBytes(dto.RequesterID[:])
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, courierErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if courierErr != nil {
			return nil, courierErr
		}

		courierID = &cID
	}

	pickup, err := kernel.NewGeoPoint(dto.Pickup.Lat, dto.Pickup.Lng)
	if err != nil {
		return nil, err
	}
	drop, err := kernel.NewGeoPoint(dto.Drop.Lat, dto.Drop.Lng)
	if err != nil {
		return nil, err
	}

	pickupContact, err := delivery.NewContact(dto.PickupContact.Name, dto.PickupContact.Phone)
	if err != nil {
		return nil, err
	}
	dropContact, err := delivery.NewContact(dto.DropContact.Name, dto.DropContact.Phone)
	if err != nil {
		return nil, err
	}

	return delivery.RestoreDelivery(
		id,
		requesterID,
		courierID,
		pickup,
		drop,
		pickupContact,
		dropContact,
		delivery.Status(dto.Status),
		dto.Attempts,
		dto.EstimatedPrice,
		dto.FinalPrice,
		dto.CreatedAt,
		dto.AssignedAt,
		dto.CompletedAt,
		dto.UpdatedAt,
	)
}
