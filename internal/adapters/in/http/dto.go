package http

import (
	"net/http"
	"strings"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/availability"
	"dispatch/internal/core/domain/model/coverage"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Error is the wire shape for every failed request.
type Error struct {
	Code    ResultCode `json:"code"`
	Message string     `json:"message"`
}

// ResultCode mirrors the command layer's business outcome codes on the wire.
type ResultCode = commands.ResultCode

// PointDTO carries a coordinate pair.
type PointDTO struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ContactDTO carries a named phone contact.
type ContactDTO struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// SetCoverageRequest declares or replaces a service area.
type SetCoverageRequest struct {
	OwnerID          string   `json:"owner_id"`
	OwnerRole        string   `json:"owner_role"`
	Center           PointDTO `json:"center"`
	RadiusKm         float64  `json:"radius_km"`
	AllowDropOutside bool     `json:"allow_drop_outside"`
	Label            string   `json:"label"`
}

// CreateDeliveryRequest registers a new delivery.
type CreateDeliveryRequest struct {
	RequesterID    string     `json:"requester_id"`
	Pickup         PointDTO   `json:"pickup"`
	Drop           PointDTO   `json:"drop"`
	PickupContact  ContactDTO `json:"pickup_contact"`
	DropContact    ContactDTO `json:"drop_contact"`
	EstimatedPrice string     `json:"estimated_price"`
}

// CourierActionRequest identifies the courier performing a lifecycle action.
type CourierActionRequest struct {
	CourierID string `json:"courier_id"`
}

// RejectDeliveryRequest declines a matching notification.
type RejectDeliveryRequest struct {
	CourierID string `json:"courier_id"`
	Reason    string `json:"reason"`
}

// CancelDeliveryRequest aborts a delivery.
type CancelDeliveryRequest struct {
	ActorID string `json:"actor_id"`
	Reason  string `json:"reason"`
}

// MarkPickedUpRequest records package collection.
type MarkPickedUpRequest struct {
	CourierID string `json:"courier_id"`
	PhotoURL  string `json:"photo_url"`
	Notes     string `json:"notes"`
}

// MarkDeliveredRequest records the hand-off to the recipient.
type MarkDeliveredRequest struct {
	CourierID         string    `json:"courier_id"`
	OTPCode           string    `json:"otp_code"`
	RecipientName     string    `json:"recipient_name"`
	RecipientRelation string    `json:"recipient_relation"`
	PhotoURL          string    `json:"photo_url"`
	SignatureURL      string    `json:"signature_url"`
	Condition         string    `json:"condition"`
	Position          *PointDTO `json:"position"`
}

// CloseDeliveryRequest finalizes a delivery. ClosedBy is empty for system
// closure.
type CloseDeliveryRequest struct {
	ClosedBy string `json:"closed_by"`
}

// VerifyOTPRequest checks a confirmation code out of band.
type VerifyOTPRequest struct {
	Code string `json:"code"`
}

// UpdateAvailabilityRequest toggles a courier's availability.
type UpdateAvailabilityRequest struct {
	Status   string    `json:"status"`
	Position *PointDTO `json:"position"`
}

// CommandResponse is the wire shape of a plain command outcome.
type CommandResponse struct {
	Success bool       `json:"success"`
	Code    ResultCode `json:"code"`
	Message string     `json:"message"`
}

// EarningDTO is the wire shape of a courier earning breakdown.
type EarningDTO struct {
	Gross      string `json:"gross"`
	Commission string `json:"commission"`
	Net        string `json:"net"`
}

// SetCoverageResponse returns the descriptor of a freshly declared service
// area.
type SetCoverageResponse struct {
	CoverageID string  `json:"coverage_id"`
	RadiusKm   float64 `json:"radius_km"`
	AreaKm2    float64 `json:"area_km2"`
}

// CreateDeliveryResponse returns the identifier of a freshly registered
// delivery.
type CreateDeliveryResponse struct {
	DeliveryID string `json:"delivery_id"`
}

// MatchResponse reports the outcome of a matching round.
type MatchResponse struct {
	CommandResponse
	Attempt          int `json:"attempt"`
	NotifiedCouriers int `json:"notified_couriers"`
}

// AcceptResponse reports an acceptance outcome with the courier's projected
// earning.
type AcceptResponse struct {
	CommandResponse
	EstimatedEarning EarningDTO `json:"estimated_earning"`
}

// DeliverResponse reports the hand-off outcome including OTP verification.
type DeliverResponse struct {
	CommandResponse
	Verified   bool       `json:"verified"`
	OTPOutcome string     `json:"otp_outcome"`
	Earning    EarningDTO `json:"earning"`
}

// VerifyOTPResponse reports an out-of-band code check.
type VerifyOTPResponse struct {
	CommandResponse
	Verified   bool   `json:"verified"`
	OTPOutcome string `json:"otp_outcome"`
}

// CoverageCheckResponse reports how a coverage relates to a route.
type CoverageCheckResponse struct {
	Eligibility      string  `json:"eligibility"`
	PickupDistanceKm float64 `json:"pickup_distance_km"`
	RadiusKm         float64 `json:"radius_km"`
}

// EligibleCourierResponse is one courier able to serve a route.
type EligibleCourierResponse struct {
	CourierID        string  `json:"courier_id"`
	Eligibility      string  `json:"eligibility"`
	PickupDistanceKm float64 `json:"pickup_distance_km"`
	Availability     string  `json:"availability"`
	EstimatedPrice   string  `json:"estimated_price"`
}

// AvailabilityResponse is a courier's availability snapshot.
type AvailabilityResponse struct {
	CourierID         string     `json:"courier_id"`
	Status            string     `json:"status"`
	CurrentDeliveryID *string    `json:"current_delivery_id,omitempty"`
	Position          *PointDTO  `json:"position,omitempty"`
	LocatedAt         *time.Time `json:"located_at,omitempty"`
}

// StateInfoResponse is a delivery's lifecycle snapshot.
type StateInfoResponse struct {
	DeliveryID         string     `json:"delivery_id"`
	Status             string     `json:"status"`
	AllowedTransitions []string   `json:"allowed_transitions"`
	MatchingAttempts   int        `json:"matching_attempts"`
	CourierID          *string    `json:"courier_id,omitempty"`
	EstimatedPrice     string     `json:"estimated_price"`
	FinalPrice         *string    `json:"final_price,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	AssignedAt         *time.Time `json:"assigned_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// PODResponse is the proof-of-delivery record. The OTP hash never crosses
// the wire.
type PODResponse struct {
	DeliveryID        string     `json:"delivery_id"`
	RecipientName     string     `json:"recipient_name,omitempty"`
	RecipientRelation string     `json:"recipient_relation,omitempty"`
	OTPSent           bool       `json:"otp_sent"`
	OTPSentAt         *time.Time `json:"otp_sent_at,omitempty"`
	OTPVerified       bool       `json:"otp_verified"`
	OTPVerifiedAt     *time.Time `json:"otp_verified_at,omitempty"`
	PhotoURL          string     `json:"photo_url,omitempty"`
	SignatureURL      string     `json:"signature_url,omitempty"`
	DeliveredPoint    *PointDTO  `json:"delivered_point,omitempty"`
	DistanceFromDrop  *float64   `json:"distance_from_drop_km,omitempty"`
	Condition         string     `json:"condition,omitempty"`
	PickupNotes       string     `json:"pickup_notes,omitempty"`
	PickedUpAt        *time.Time `json:"picked_up_at,omitempty"`
	InTransitAt       *time.Time `json:"in_transit_at,omitempty"`
	DeliveredAt       *time.Time `json:"delivered_at,omitempty"`
	ClosedAt          *time.Time `json:"closed_at,omitempty"`
	VerifiedBy        *string    `json:"verified_by,omitempty"`
}

// statusForCode maps a business outcome code to an HTTP status.
func statusForCode(code ResultCode) int {
	switch code {
	case commands.CodeOK:
		return http.StatusOK
	case commands.CodeNotFound:
		return http.StatusNotFound
	case commands.CodeUnauthorized:
		return http.StatusForbidden
	case commands.CodeValidation:
		return http.StatusBadRequest
	case commands.CodeInvalidTransition,
		commands.CodeAlreadyAssigned,
		commands.CodeAlreadyResponded,
		commands.CodeCourierBusy,
		commands.CodeUnassignable,
		commands.CodeNoOTP:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// parseUUID parses a wire identifier into a kernel UUID.
func parseUUID(raw string) (kernel.UUID, error) {
	return kernel.UUIDFromString(raw)
}

// parsePoint converts a wire coordinate pair into a validated geo point.
func parsePoint(dto PointDTO) (kernel.GeoPoint, error) {
	return kernel.NewGeoPoint(dto.Lat, dto.Lng)
}

// parseOptionalPoint converts an optional wire coordinate pair.
func parseOptionalPoint(dto *PointDTO) (*kernel.GeoPoint, error) {
	if dto == nil {
		return nil, nil
	}
	point, err := parsePoint(*dto)
	if err != nil {
		return nil, err
	}
	return &point, nil
}

// commandResponse converts a command result into its wire shape.
func commandResponse(result commands.Result) CommandResponse {
	return CommandResponse{Success: result.Success, Code: result.Code, Message: result.Message}
}

// earningDTO converts an earning breakdown into its wire shape.
func earningDTO(earning ports.EarningBreakdown) EarningDTO {
	return EarningDTO{
		Gross:      earning.Gross.String(),
		Commission: earning.Commission.String(),
		Net:        earning.Net.String(),
	}
}

func uuidPtrString(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func pointPtrDTO(point *kernel.GeoPoint) *PointDTO {
	if point == nil {
		return nil
	}
	return &PointDTO{Lat: point.Latitude(), Lng: point.Longitude()}
}

func decimalPtrString(value *decimal.Decimal) *string {
	if value == nil {
		return nil
	}
	s := value.String()
	return &s
}

// parseOwnerRole resolves a wire role name, case-insensitively.
func parseOwnerRole(raw string) (coverage.OwnerRole, error) {
	switch strings.ToUpper(raw) {
	case "COURIER":
		return coverage.OwnerRoleCourier, nil
	case "VENDOR":
		return coverage.OwnerRoleVendor, nil
	default:
		return coverage.OwnerRoleUnknown, errs.NewValueIsInvalidError("owner_role")
	}
}

// parseAvailabilityStatus resolves a wire status name, case-insensitively.
// Busy is intentionally not accepted here; it only enters through the
// delivery lifecycle.
func parseAvailabilityStatus(raw string) (availability.Status, error) {
	switch strings.ToUpper(raw) {
	case "OFFLINE":
		return availability.StatusOffline, nil
	case "AVAILABLE":
		return availability.StatusAvailable, nil
	case "BREAK":
		return availability.StatusBreak, nil
	default:
		return availability.StatusOffline, errs.NewValueIsInvalidError("status")
	}
}
