package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetPODQueryHandler reads a delivery's proof-of-delivery record. The OTP
// hash stays in the database; callers only learn whether a code was issued
// and verified.
type GetPODQueryHandler struct {
	db *gorm.DB
}

// NewGetPODQueryHandler creates a handler for proof-of-delivery lookups.
// Requires a GORM database connection for query execution.
func NewGetPODQueryHandler(db *gorm.DB) GetPODQueryHandler {
	return GetPODQueryHandler{db: db}
}

// Handle executes the lookup.
// Returns errs.ObjectNotFoundError when the delivery has no proof record.
func (h GetPODQueryHandler) Handle(
	ctx context.Context,
	query GetPODQuery,
) (GetPODQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetPODQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			delivery_id,
			recipient_name,
			recipient_relation,
			otp_sent_at,
			otp_verified,
			otp_verified_at,
			photo_url,
			signature_url,
			delivered_lat,
			delivered_lng,
			distance_from_drop_km,
			condition,
			pickup_notes,
			picked_up_at,
			in_transit_at,
			delivered_at,
			closed_at,
			verified_by
		FROM pods
		WHERE delivery_id = ?
	`, query.DeliveryID().String()).Row()

	var (
		deliveryID               uuid.UUID
		recipientName            string
		recipientRelation        string
		otpSentAt                sql.NullTime
		otpVerified              bool
		otpVerifiedAt            sql.NullTime
		photoURL, signatureURL   string
		deliveredLat             sql.NullFloat64
		deliveredLng             sql.NullFloat64
		distanceFromDropKm       sql.NullFloat64
		condition, pickupNotes   string
		pickedUpAt, inTransitAt  sql.NullTime
		deliveredAt, closedAt    sql.NullTime
		verifiedBy               uuid.NullUUID
	)
	err := row.Scan(
		&deliveryID, &recipientName, &recipientRelation,
		&otpSentAt, &otpVerified, &otpVerifiedAt,
		&photoURL, &signatureURL,
		&deliveredLat, &deliveredLng, &distanceFromDropKm,
		&condition, &pickupNotes,
		&pickedUpAt, &inTransitAt, &deliveredAt, &closedAt,
		&verifiedBy,
	)
	if errors.Is(err, gorm.ErrRecordNotFound) || isNoRows(err) {
		return GetPODQueryResponse{}, errs.NewObjectNotFoundError("deliveryID", query.DeliveryID())
	}
	if err != nil {
		return GetPODQueryResponse{}, err
	}

	response := GetPODQueryResponse{
		DeliveryID:        query.DeliveryID(),
		RecipientName:     recipientName,
		RecipientRelation: recipientRelation,
		OTPSent:           otpSentAt.Valid,
		OTPVerified:       otpVerified,
		PhotoURL:          photoURL,
		SignatureURL:      signatureURL,
		Condition:         condition,
		PickupNotes:       pickupNotes,
	}

	if deliveredLat.Valid && deliveredLng.Valid {
		point, err := kernel.NewGeoPoint(deliveredLat.Float64, deliveredLng.Float64)
		if err != nil {
			return GetPODQueryResponse{}, err
		}
		response.DeliveredPoint = &point
	}
	if distanceFromDropKm.Valid {
		response.DistanceFromDropKm = &distanceFromDropKm.Float64
	}
	if verifiedBy.Valid {
		operator, err := kernel.UUIDFromBytes(verifiedBy.UUID[:])
		if err != nil {
			return GetPODQueryResponse{}, err
		}
		response.VerifiedBy = &operator
	}

	response.OTPSentAt = nullTimeUTC(otpSentAt)
	response.OTPVerifiedAt = nullTimeUTC(otpVerifiedAt)
	response.PickedUpAt = nullTimeUTC(pickedUpAt)
	response.InTransitAt = nullTimeUTC(inTransitAt)
	response.DeliveredAt = nullTimeUTC(deliveredAt)
	response.ClosedAt = nullTimeUTC(closedAt)

	return response, nil
}

// nullTimeUTC converts a nullable column to a UTC pointer, nil when unset.
func nullTimeUTC(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	utc := t.Time.In(time.UTC)
	return &utc
}
