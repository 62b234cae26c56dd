// Package eventrepo provides data transfer objects and mapping functions for
// the delivery event log. Rows are append-only; metadata is stored as JSONB.
package eventrepo

import (
	"encoding/json"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// EventDTO represents the database structure for persisting lifecycle events.
type EventDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	DeliveryID uuid.UUID `gorm:"type:uuid;index"`
	EventType  string
	FromStatus int
	ToStatus   int
	ActorID    *uuid.UUID     `gorm:"type:uuid"`
	Metadata   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt  time.Time
}

// TableName specifies the database table name for event entities.
// Overrides GORM's default naming convention to use "delivery_events".
func (EventDTO) TableName() string {
	return "delivery_events"
}

// fromDomain converts an event domain entity to its database representation.
func fromDomain(event *delivery.Event) (EventDTO, error) {
	var actorID *uuid.UUID
	if id := event.ActorID(); id != nil {
		raw := id.Bytes()
		actorID = &raw
	}

	var metadata datatypes.JSON
	if event.Metadata() != nil {
		raw, err := json.Marshal(event.Metadata())
		if err != nil {
			return EventDTO{}, err
		}
		metadata = datatypes.JSON(raw)
	}

	return EventDTO{
		ID:         event.ID().Bytes(),
		DeliveryID: event.DeliveryID().Bytes(),
		EventType:  event.Type().String(),
		FromStatus: int(event.FromStatus()),
		ToStatus:   int(event.ToStatus()),
		ActorID:    actorID,
		Metadata:   metadata,
		CreatedAt:  event.CreatedAt(),
	}, nil
}

// toDomain converts a database DTO to an event domain entity.
func toDomain(dto EventDTO) (*delivery.Event, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	deliveryID, err := kernel.UUIDFromBytes(dto.DeliveryID[:])
	if err != nil {
		return nil, err
	}

	var actorID *kernel.UUID
	if dto.ActorID != nil {
		aID, actorErr := kernel.UUIDFromBytes((*dto.ActorID)[:])
		if actorErr != nil {
			return nil, actorErr
		}

		actorID = &aID
	}

	eventType, err := delivery.EventTypeFromString(dto.EventType)
	if err != nil {
		return nil, err
	}

	var metadata map[string]any
	if len(dto.Metadata) > 0 {
		if err = json.Unmarshal(dto.Metadata, &metadata); err != nil {
			return nil, err
		}
	}

	return delivery.RestoreEvent(
		id,
		deliveryID,
		eventType,
		delivery.Status(dto.FromStatus),
		delivery.Status(dto.ToStatus),
		actorID,
		metadata,
		dto.CreatedAt,
	)
}
