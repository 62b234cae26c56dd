package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetStateInfoQueryHandler reads a delivery's lifecycle snapshot. The
// transition list comes from the domain's transition table, not from the
// database.
type GetStateInfoQueryHandler struct {
	db *gorm.DB
}

// NewGetStateInfoQueryHandler creates a handler for lifecycle lookups.
// Requires a GORM database connection for query execution.
func NewGetStateInfoQueryHandler(db *gorm.DB) GetStateInfoQueryHandler {
	return GetStateInfoQueryHandler{db: db}
}

// Handle executes the lookup.
// Returns errs.ObjectNotFoundError when the delivery does not exist.
func (h GetStateInfoQueryHandler) Handle(
	ctx context.Context,
	query GetStateInfoQuery,
) (GetStateInfoQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetStateInfoQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			attempts,
			courier_id,
			estimated_price,
			final_price,
			created_at,
			assigned_at,
			completed_at,
			updated_at
		FROM deliveries
		WHERE id = ?
	`, query.DeliveryID().String()).Row()

	var (
		id                     uuid.UUID
		status                 int
		attempts               int
		courierID              uuid.NullUUID
		estimatedPrice         decimal.Decimal
		finalPrice             decimal.NullDecimal
		createdAt, updatedAt   time.Time
		assignedAt, completedAt sql.NullTime
	)
	err := row.Scan(
		&id, &status, &attempts, &courierID,
		&estimatedPrice, &finalPrice,
		&createdAt, &assignedAt, &completedAt, &updatedAt,
	)
	if errors.Is(err, gorm.ErrRecordNotFound) || isNoRows(err) {
		return GetStateInfoQueryResponse{}, errs.NewObjectNotFoundError("deliveryID", query.DeliveryID())
	}
	if err != nil {
		return GetStateInfoQueryResponse{}, err
	}

	currentStatus := delivery.Status(status)
	if err = currentStatus.Validate(); err != nil {
		return GetStateInfoQueryResponse{}, err
	}

	allowed := currentStatus.AllowedTransitions()
	transitions := make([]string, 0, len(allowed))
	for _, target := range allowed {
		transitions = append(transitions, target.String())
	}

	response := GetStateInfoQueryResponse{
		DeliveryID:         query.DeliveryID(),
		Status:             currentStatus.String(),
		AllowedTransitions: transitions,
		MatchingAttempts:   attempts,
		EstimatedPrice:     estimatedPrice,
		CreatedAt:          createdAt.In(time.UTC),
		UpdatedAt:          updatedAt.In(time.UTC),
	}

	if courierID.Valid {
		courier, err := kernel.UUIDFromBytes(courierID.UUID[:])
		if err != nil {
			return GetStateInfoQueryResponse{}, err
		}
		response.CourierID = &courier
	}
	if finalPrice.Valid {
		response.FinalPrice = &finalPrice.Decimal
	}
	if assignedAt.Valid {
		at := assignedAt.Time.In(time.UTC)
		response.AssignedAt = &at
	}
	if completedAt.Valid {
		at := completedAt.Time.In(time.UTC)
		response.CompletedAt = &at
	}

	return response, nil
}
