package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/availability"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetAvailabilityQueryHandler reads a courier's availability record.
type GetAvailabilityQueryHandler struct {
	db *gorm.DB
}

// NewGetAvailabilityQueryHandler creates a handler for availability lookups.
// Requires a GORM database connection for query execution.
func NewGetAvailabilityQueryHandler(db *gorm.DB) GetAvailabilityQueryHandler {
	return GetAvailabilityQueryHandler{db: db}
}

// Handle executes the lookup.
// Returns errs.ObjectNotFoundError when the courier has never reported
// availability.
func (h GetAvailabilityQueryHandler) Handle(
	ctx context.Context,
	query GetAvailabilityQuery,
) (GetAvailabilityQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetAvailabilityQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			courier_id,
			status,
			current_delivery_id,
			last_lat,
			last_lng,
			located_at
		FROM availability_records
		WHERE courier_id = ?
	`, query.CourierID().String()).Row()

	var (
		courierID         uuid.UUID
		status            int
		currentDeliveryID uuid.NullUUID
		lastLat, lastLng  sql.NullFloat64
		locatedAt         sql.NullTime
	)
	err := row.Scan(&courierID, &status, &currentDeliveryID, &lastLat, &lastLng, &locatedAt)
	if errors.Is(err, gorm.ErrRecordNotFound) || isNoRows(err) {
		return GetAvailabilityQueryResponse{}, errs.NewObjectNotFoundError("courierID", query.CourierID())
	}
	if err != nil {
		return GetAvailabilityQueryResponse{}, err
	}

	response := GetAvailabilityQueryResponse{
		CourierID: query.CourierID(),
		Status:    availability.Status(status).String(),
	}

	if currentDeliveryID.Valid {
		deliveryID, err := kernel.UUIDFromBytes(currentDeliveryID.UUID[:])
		if err != nil {
			return GetAvailabilityQueryResponse{}, err
		}
		response.CurrentDeliveryID = &deliveryID
	}

	if lastLat.Valid && lastLng.Valid {
		position, err := kernel.NewGeoPoint(lastLat.Float64, lastLng.Float64)
		if err != nil {
			return GetAvailabilityQueryResponse{}, err
		}
		response.Position = &position
	}
	if locatedAt.Valid {
		reportedAt := locatedAt.Time.In(time.UTC)
		response.LocatedAt = &reportedAt
	}

	return response, nil
}
