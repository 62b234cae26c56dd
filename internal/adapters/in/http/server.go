// Package http is the inbound HTTP adapter. Handlers translate JSON requests
// into commands and queries, delegate to the application layer, and translate
// business outcomes back into HTTP statuses. Expected domain failures such as
// a lost acceptance race surface as structured conflict payloads, never as
// 500s.
package http

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

const defaultEligibleLimit = 10

// Handlers bundles every use case the server exposes.
type Handlers struct {
	SetCoverage        commands.SetCoverageCommandHandler
	DeactivateCoverage commands.DeactivateCoverageCommandHandler
	CreateDelivery     commands.CreateDeliveryCommandHandler
	MatchDelivery      commands.MatchDeliveryCommandHandler
	AcceptDelivery     commands.AcceptDeliveryCommandHandler
	RejectDelivery     commands.RejectDeliveryCommandHandler
	CancelDelivery     commands.CancelDeliveryCommandHandler
	UpdateAvailability commands.UpdateAvailabilityCommandHandler
	MarkPickedUp       commands.MarkPickedUpCommandHandler
	MarkInTransit      commands.MarkInTransitCommandHandler
	MarkDelivered      commands.MarkDeliveredCommandHandler
	CloseDelivery      commands.CloseDeliveryCommandHandler
	SendOTP            commands.SendOTPCommandHandler
	VerifyOTP          commands.VerifyOTPCommandHandler

	CheckCoverage        queries.CheckCoverageQueryHandler
	FindEligibleCouriers queries.FindEligibleCouriersQueryHandler
	GetAvailability      queries.GetAvailabilityQueryHandler
	GetStateInfo         queries.GetStateInfoQueryHandler
	GetPOD               queries.GetPODQueryHandler
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	handlers Handlers
}

// NewServer creates an HTTP server over the given use case handlers.
func NewServer(handlers Handlers) *Server {
	return &Server{handlers: handlers}
}

// RegisterRoutes mounts every endpoint under /api/v1.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	v1 := e.Group("/api/v1")

	v1.POST("/coverages", s.SetCoverage)
	v1.DELETE("/coverages/:ownerId", s.DeactivateCoverage)
	v1.GET("/coverages/:ownerId/check", s.CheckCoverage)

	v1.GET("/couriers/eligible", s.FindEligibleCouriers)
	v1.PUT("/couriers/:courierId/availability", s.UpdateAvailability)
	v1.GET("/couriers/:courierId/availability", s.GetAvailability)

	v1.POST("/deliveries", s.CreateDelivery)
	v1.POST("/deliveries/:deliveryId/match", s.MatchDelivery)
	v1.POST("/deliveries/:deliveryId/accept", s.AcceptDelivery)
	v1.POST("/deliveries/:deliveryId/reject", s.RejectDelivery)
	v1.POST("/deliveries/:deliveryId/cancel", s.CancelDelivery)
	v1.POST("/deliveries/:deliveryId/pickup", s.MarkPickedUp)
	v1.POST("/deliveries/:deliveryId/transit", s.MarkInTransit)
	v1.POST("/deliveries/:deliveryId/deliver", s.MarkDelivered)
	v1.POST("/deliveries/:deliveryId/close", s.CloseDelivery)
	v1.POST("/deliveries/:deliveryId/otp/send", s.SendOTP)
	v1.POST("/deliveries/:deliveryId/otp/verify", s.VerifyOTP)
	v1.GET("/deliveries/:deliveryId/state", s.GetStateInfo)
	v1.GET("/deliveries/:deliveryId/pod", s.GetPOD)
}

// SetCoverage handles POST /api/v1/coverages. Declares or replaces the
// owner's service area.
func (s *Server) SetCoverage(ctx echo.Context) error {
	var request SetCoverageRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	ownerID, err := parseUUID(request.OwnerID)
	if err != nil {
		return badRequest(ctx, "owner_id is not a valid UUID")
	}
	role, err := parseOwnerRole(request.OwnerRole)
	if err != nil {
		return badRequest(ctx, "owner_role must be Courier or Vendor")
	}
	center, err := parsePoint(request.Center)
	if err != nil {
		return badRequest(ctx, "center is not a valid coordinate")
	}

	coverageID := kernel.NewUUID()
	command, err := commands.NewSetCoverageCommand(
		coverageID, ownerID, role, center,
		request.RadiusKm, request.AllowDropOutside, request.Label,
	)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.handlers.SetCoverage.Handle(ctx.Request().Context(), command)
	if err != nil {
		return internalError(ctx)
	}
	if !result.Success {
		return ctx.JSON(statusForCode(result.Code), commandResponse(result))
	}
	return ctx.JSON(http.StatusCreated, SetCoverageResponse{
		CoverageID: coverageID.String(),
		RadiusKm:   request.RadiusKm,
		AreaKm2:    math.Pi * request.RadiusKm * request.RadiusKm,
	})
}

// DeactivateCoverage handles DELETE /api/v1/coverages/:ownerId. Retires the
// owner's active service area.
func (s *Server) DeactivateCoverage(ctx echo.Context) error {
	ownerID, err := parseUUID(ctx.Param("ownerId"))
	if err != nil {
		return badRequest(ctx, "ownerId is not a valid UUID")
	}

	command, err := commands.NewDeactivateCoverageCommand(ownerID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.handlers.DeactivateCoverage.Handle(ctx.Request().Context(), command)
	if err != nil {
		return internalError(ctx)
	}
	return ctx.JSON(statusForCode(result.Code), commandResponse(result))
}

// CheckCoverage handles GET /api/v1/coverages/:ownerId/check. Evaluates a
// prospective route against the owner's active coverage.
func (s *Server) CheckCoverage(ctx echo.Context) error {
	ownerID, err := parseUUID(ctx.Param("ownerId"))
	if err != nil {
		return badRequest(ctx, "ownerId is not a valid UUID")
	}
	pickup, drop, err := routeFromQueryParams(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	query, err := queries.NewCheckCoverageQuery(ownerID, pickup, drop)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	response, err := s.handlers.CheckCoverage.Handle(ctx.Request().Context(), query)
	if err != nil {
		return queryError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, CoverageCheckResponse{
		Eligibility:      response.Eligibility,
		PickupDistanceKm: response.PickupDistanceKm,
		RadiusKm:         response.RadiusKm,
	})
}

// FindEligibleCouriers handles GET /api/v1/couriers/eligible. Lists couriers
// whose coverage can serve the route.
func (s *Server) FindEligibleCouriers(ctx echo.Context) error {
	pickup, drop, err := routeFromQueryParams(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	limit := defaultEligibleLimit
	if raw := ctx.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return badRequest(ctx, "limit must be a positive integer")
		}
	}

	query, err := queries.NewFindEligibleCouriersQuery(pickup, drop, limit)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	couriers, err := s.handlers.FindEligibleCouriers.Handle(ctx.Request().Context(), query)
	if err != nil {
		return queryError(ctx, err)
	}

	response := make([]EligibleCourierResponse, len(couriers))
	for i, courier := range couriers {
		response[i] = EligibleCourierResponse{
			CourierID:        courier.CourierID.String(),
			Eligibility:      courier.Eligibility,
			PickupDistanceKm: courier.PickupDistanceKm,
			Availability:     courier.Availability,
			EstimatedPrice:   courier.EstimatedPrice.String(),
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

// UpdateAvailability handles PUT /api/v1/couriers/:courierId/availability.
// Busy cannot be set here; it is entered and left by the delivery lifecycle.
func (s *Server) UpdateAvailability(ctx echo.Context) error {
	courierID, err := parseUUID(ctx.Param("courierId"))
	if err != nil {
		return badRequest(ctx, "courierId is not a valid UUID")
	}

	var request UpdateAvailabilityRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	status, err := parseAvailabilityStatus(request.Status)
	if err != nil {
		return badRequest(ctx, "status must be OFFLINE, AVAILABLE or BREAK")
	}
	position, err := parseOptionalPoint(request.Position)
	if err != nil {
		return badRequest(ctx, "position is not a valid coordinate")
	}

	command, err := commands.NewUpdateAvailabilityCommand(courierID, status, position)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.handlers.UpdateAvailability.Handle(ctx.Request().Context(), command)
	if err != nil {
		return internalError(ctx)
	}
	return ctx.JSON(statusForCode(result.Code), commandResponse(result))
}

// GetAvailability handles GET /api/v1/couriers/:courierId/availability.
func (s *Server) GetAvailability(ctx echo.Context) error {
	courierID, err := parseUUID(ctx.Param("courierId"))
	if err != nil {
		return badRequest(ctx, "courierId is not a valid UUID")
	}

	query, err := queries.NewGetAvailabilityQuery(courierID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	record, err := s.handlers.GetAvailability.Handle(ctx.Request().Context(), query)
	if err != nil {
		return queryError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, AvailabilityResponse{
		CourierID:         record.CourierID.String(),
		Status:            record.Status,
		CurrentDeliveryID: uuidPtrString(record.CurrentDeliveryID),
		Position:          pointPtrDTO(record.Position),
		LocatedAt:         record.LocatedAt,
	})
}

// CreateDelivery handles POST /api/v1/deliveries.
func (s *Server) CreateDelivery(ctx echo.Context) error {
	var request CreateDeliveryRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	requesterID, err := parseUUID(request.RequesterID)
	if err != nil {
		return badRequest(ctx, "requester_id is not a valid UUID")
	}
	pickup, err := parsePoint(request.Pickup)
	if err != nil {
		return badRequest(ctx, "pickup is not a valid coordinate")
	}
	drop, err := parsePoint(request.Drop)
	if err != nil {
		return badRequest(ctx, "drop is not a valid coordinate")
	}
	estimatedPrice, err := decimal.NewFromString(request.EstimatedPrice)
	if err != nil {
		return badRequest(ctx, "estimated_price is not a valid decimal")
	}
	pickupContact, err := delivery.NewContact(request.PickupContact.Name, request.PickupContact.Phone)
	if err != nil {
		return badRequest(ctx, "pickup_contact requires name and phone")
	}
	dropContact, err := delivery.NewContact(request.DropContact.Name, request.DropContact.Phone)
	if err != nil {
		return badRequest(ctx, "drop_contact requires name and phone")
	}

	deliveryID := kernel.NewUUID()
	command, err := commands.NewCreateDeliveryCommand(
		deliveryID, requesterID, pickup, drop,
		pickupContact, dropContact, estimatedPrice,
	)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.handlers.CreateDelivery.Handle(ctx.Request().Context(), command)
	if err != nil {
		return internalError(ctx)
	}
	if !result.Success {
		return ctx.JSON(statusForCode(result.Code), commandResponse(result))
	}
	return ctx.JSON(http.StatusCreated, CreateDeliveryResponse{DeliveryID: deliveryID.String()})
}

// MatchDelivery handles POST /api/v1/deliveries/:deliveryId/match. Drives one
// matching round.
func (s *Server) MatchDelivery(ctx echo.Context) error {
	deliveryID, err := parseUUID(ctx.Param("deliveryId"))
	if err != nil {
		return badRequest(ctx, "deliveryId is not a valid UUID")
	}

	command, err := commands.NewMatchDeliveryCommand(deliveryID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.handlers.MatchDelivery.Handle(ctx.Request().Context(), command)
	if err != nil {
		return internalError(ctx)
	}
	return ctx.JSON(statusForCode(result.Code), MatchResponse{
		CommandResponse:  commandResponse(result.Result),
		Attempt:          result.Attempt,
		NotifiedCouriers: result.NotifiedCouriers,
	})
}

// AcceptDelivery handles POST /api/v1/deliveries/:deliveryId/accept. At most
// one courier per delivery ever receives a successful response.
func (s *Server) AcceptDelivery(ctx echo.Context) error {
	deliveryID, err := parseUUID(ctx.Param("deliveryId"))
	if err != nil {
		return badRequest(ctx, "deliveryId is not a valid UUID")
	}

	var request CourierActionRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	courierID, err := parseUUID(request.CourierID)
	if err != nil {
		return badRequest(ctx, "courier_id is not a valid UUID")
	}

	command, err := commands.NewAcceptDeliveryCommand(deliveryID, courierID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.handlers.AcceptDelivery.Handle(ctx.Request().Context(), command)
	if err != nil {
		return internalError(ctx)
	}
	return ctx.JSON(statusForCode(result.Code), AcceptResponse{
		CommandResponse:  commandResponse(result.Result),
		EstimatedEarning: earningDTO(result.EstimatedEarning),
	})
}

// RejectDelivery handles POST /api/v1/deliveries/:deliveryId/reject.
func (s *Server) RejectDelivery(ctx echo.Context) error {
	deliveryID, err := parseUUID(ctx.Param("deliveryId"))
	if err != nil {
		return badRequest(ctx, "deliveryId is not a valid UUID")
	}

	var request RejectDeliveryRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	courierID, err := parseUUID(request.CourierID)
	if err != nil {
		return badRequest(ctx, "courier_id is not a valid UUID")
	}

	command, err := commands.NewRejectDeliveryCommand(deliveryID, courierID, request.Reason)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.handlers.RejectDelivery.Handle(ctx.Request().Context(), command)
	if err != nil {
		return internalError(ctx)
	}
	return ctx.JSON(statusForCode(result.Code), commandResponse(result))
}

// CancelDelivery handles POST /api/v1/deliveries/:deliveryId/cancel.
func (s *Server) CancelDelivery(ctx echo.Context) error {
	deliveryID, err := parseUUID(ctx.Param("deliveryId"))
	if err != nil {
		return badRequest(ctx, "deliveryId is not a valid UUID")
	}

	var request CancelDeliveryRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	actorID, err := parseUUID(request.ActorID)
	if err != nil {
		return badRequest(ctx, "actor_id is not a valid UUID")
	}

	command, err := commands.NewCancelDeliveryCommand(deliveryID, actorID, request.Reason)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.handlers.CancelDelivery.Handle(ctx.Request().Context(), command)
	if err != nil {
		return internalError(ctx)
	}
	return ctx.JSON(statusForCode(result.Code), commandResponse(result))
}

// MarkPickedUp handles POST /api/v1/deliveries/:deliveryId/pickup.
func (s *Server) MarkPickedUp(ctx echo.Context) error {
	deliveryID, err := parseUUID(ctx.Param("deliveryId"))
	if err != nil {
		return badRequest(ctx, "deliveryId is not a valid UUID")
	}

	var request MarkPickedUpRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	courierID, err := parseUUID(request.CourierID)
	if err != nil {
		return badRequest(ctx, "courier_id is not a valid UUID")
	}

	command, err := commands.NewMarkPickedUpCommand(deliveryID, courierID, request.PhotoURL, request.Notes)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.handlers.MarkPickedUp.Handle(ctx.Request().Context(), command)
	if err != nil {
		return internalError(ctx)
	}
	return ctx.JSON(statusForCode(result.Code), commandResponse(result))
}

// MarkInTransit handles POST /api/v1/deliveries/:deliveryId/transit.
func (s *Server) MarkInTransit(ctx echo.Context) error {
	deliveryID, err := parseUUID(ctx.Param("deliveryId"))
	if err != nil {
		return badRequest(ctx, "deliveryId is not a valid UUID")
	}

	var request CourierActionRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	courierID, err := parseUUID(request.CourierID)
	if err != nil {
		return badRequest(ctx, "courier_id is not a valid UUID")
	}

	command, err := commands.NewMarkInTransitCommand(deliveryID, courierID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.handlers.MarkInTransit.Handle(ctx.Request().Context(), command)
	if err != nil {
		return internalError(ctx)
	}
	return ctx.JSON(statusForCode(result.Code), commandResponse(result))
}

// MarkDelivered handles POST /api/v1/deliveries/:deliveryId/deliver. A wrong
// or expired code does not block the hand-off; the outcome is recorded and
// reported.
func (s *Server) MarkDelivered(ctx echo.Context) error {
	deliveryID, err := parseUUID(ctx.Param("deliveryId"))
	if err != nil {
		return badRequest(ctx, "deliveryId is not a valid UUID")
	}

	var request MarkDeliveredRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	courierID, err := parseUUID(request.CourierID)
	if err != nil {
		return badRequest(ctx, "courier_id is not a valid UUID")
	}
	position, err := parseOptionalPoint(request.Position)
	if err != nil {
		return badRequest(ctx, "position is not a valid coordinate")
	}

	command, err := commands.NewMarkDeliveredCommand(
		deliveryID, courierID, request.OTPCode,
		request.RecipientName, request.RecipientRelation,
		request.PhotoURL, request.SignatureURL, request.Condition, position,
	)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.handlers.MarkDelivered.Handle(ctx.Request().Context(), command)
	if err != nil {
		return internalError(ctx)
	}
	return ctx.JSON(statusForCode(result.Code), DeliverResponse{
		CommandResponse: commandResponse(result.Result),
		Verified:        result.Verified,
		OTPOutcome:      result.OTPOutcome.String(),
		Earning:         earningDTO(result.Earning),
	})
}

// CloseDelivery handles POST /api/v1/deliveries/:deliveryId/close. An empty
// closed_by means system closure.
func (s *Server) CloseDelivery(ctx echo.Context) error {
	deliveryID, err := parseUUID(ctx.Param("deliveryId"))
	if err != nil {
		return badRequest(ctx, "deliveryId is not a valid UUID")
	}

	var request CloseDeliveryRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	var closedBy *kernel.UUID
	if request.ClosedBy != "" {
		id, err := parseUUID(request.ClosedBy)
		if err != nil {
			return badRequest(ctx, "closed_by is not a valid UUID")
		}
		closedBy = &id
	}

	command, err := commands.NewCloseDeliveryCommand(deliveryID, closedBy)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.handlers.CloseDelivery.Handle(ctx.Request().Context(), command)
	if err != nil {
		return internalError(ctx)
	}
	return ctx.JSON(statusForCode(result.Code), commandResponse(result))
}

// SendOTP handles POST /api/v1/deliveries/:deliveryId/otp/send. Issuing a new
// code supersedes any previous one.
func (s *Server) SendOTP(ctx echo.Context) error {
	deliveryID, err := parseUUID(ctx.Param("deliveryId"))
	if err != nil {
		return badRequest(ctx, "deliveryId is not a valid UUID")
	}

	command, err := commands.NewSendOTPCommand(deliveryID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.handlers.SendOTP.Handle(ctx.Request().Context(), command)
	if err != nil {
		return internalError(ctx)
	}
	return ctx.JSON(statusForCode(result.Code), commandResponse(result))
}

// VerifyOTP handles POST /api/v1/deliveries/:deliveryId/otp/verify.
func (s *Server) VerifyOTP(ctx echo.Context) error {
	deliveryID, err := parseUUID(ctx.Param("deliveryId"))
	if err != nil {
		return badRequest(ctx, "deliveryId is not a valid UUID")
	}

	var request VerifyOTPRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	command, err := commands.NewVerifyOTPCommand(deliveryID, request.Code)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.handlers.VerifyOTP.Handle(ctx.Request().Context(), command)
	if err != nil {
		return internalError(ctx)
	}
	return ctx.JSON(statusForCode(result.Code), VerifyOTPResponse{
		CommandResponse: commandResponse(result.Result),
		Verified:        result.Verified,
		OTPOutcome:      result.OTPOutcome.String(),
	})
}

// GetStateInfo handles GET /api/v1/deliveries/:deliveryId/state.
func (s *Server) GetStateInfo(ctx echo.Context) error {
	deliveryID, err := parseUUID(ctx.Param("deliveryId"))
	if err != nil {
		return badRequest(ctx, "deliveryId is not a valid UUID")
	}

	query, err := queries.NewGetStateInfoQuery(deliveryID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	info, err := s.handlers.GetStateInfo.Handle(ctx.Request().Context(), query)
	if err != nil {
		return queryError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, StateInfoResponse{
		DeliveryID:         info.DeliveryID.String(),
		Status:             info.Status,
		AllowedTransitions: info.AllowedTransitions,
		MatchingAttempts:   info.MatchingAttempts,
		CourierID:          uuidPtrString(info.CourierID),
		EstimatedPrice:     info.EstimatedPrice.String(),
		FinalPrice:         decimalPtrString(info.FinalPrice),
		CreatedAt:          info.CreatedAt,
		AssignedAt:         info.AssignedAt,
		CompletedAt:        info.CompletedAt,
		UpdatedAt:          info.UpdatedAt,
	})
}

// GetPOD handles GET /api/v1/deliveries/:deliveryId/pod.
func (s *Server) GetPOD(ctx echo.Context) error {
	deliveryID, err := parseUUID(ctx.Param("deliveryId"))
	if err != nil {
		return badRequest(ctx, "deliveryId is not a valid UUID")
	}

	query, err := queries.NewGetPODQuery(deliveryID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	proof, err := s.handlers.GetPOD.Handle(ctx.Request().Context(), query)
	if err != nil {
		return queryError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, PODResponse{
		DeliveryID:        proof.DeliveryID.String(),
		RecipientName:     proof.RecipientName,
		RecipientRelation: proof.RecipientRelation,
		OTPSent:           proof.OTPSent,
		OTPSentAt:         proof.OTPSentAt,
		OTPVerified:       proof.OTPVerified,
		OTPVerifiedAt:     proof.OTPVerifiedAt,
		PhotoURL:          proof.PhotoURL,
		SignatureURL:      proof.SignatureURL,
		DeliveredPoint:    pointPtrDTO(proof.DeliveredPoint),
		DistanceFromDrop:  proof.DistanceFromDropKm,
		Condition:         proof.Condition,
		PickupNotes:       proof.PickupNotes,
		PickedUpAt:        proof.PickedUpAt,
		InTransitAt:       proof.InTransitAt,
		DeliveredAt:       proof.DeliveredAt,
		ClosedAt:          proof.ClosedAt,
		VerifiedBy:        uuidPtrString(proof.VerifiedBy),
	})
}

// routeFromQueryParams reads pickup_lat, pickup_lng, drop_lat and drop_lng.
func routeFromQueryParams(ctx echo.Context) (kernel.GeoPoint, kernel.GeoPoint, error) {
	pickupLat, err1 := strconv.ParseFloat(ctx.QueryParam("pickup_lat"), 64)
	pickupLng, err2 := strconv.ParseFloat(ctx.QueryParam("pickup_lng"), 64)
	dropLat, err3 := strconv.ParseFloat(ctx.QueryParam("drop_lat"), 64)
	dropLng, err4 := strconv.ParseFloat(ctx.QueryParam("drop_lng"), 64)
	if err := errors.Join(err1, err2, err3, err4); err != nil {
		return kernel.GeoPoint{}, kernel.GeoPoint{},
			errors.New("pickup_lat, pickup_lng, drop_lat and drop_lng must be valid numbers")
	}

	pickup, err := kernel.NewGeoPoint(pickupLat, pickupLng)
	if err != nil {
		return kernel.GeoPoint{}, kernel.GeoPoint{}, err
	}
	drop, err := kernel.NewGeoPoint(dropLat, dropLng)
	if err != nil {
		return kernel.GeoPoint{}, kernel.GeoPoint{}, err
	}
	return pickup, drop, nil
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{Code: commands.CodeValidation, Message: message})
}

func internalError(ctx echo.Context) error {
	return ctx.JSON(http.StatusInternalServerError, Error{
		Code:    "INTERNAL",
		Message: "unexpected server error",
	})
}

// queryError maps read-side failures onto HTTP statuses. Missing objects are
// 404s, everything else is a server fault.
func queryError(ctx echo.Context, err error) error {
	var notFound *errs.ObjectNotFoundError
	if errors.As(err, &notFound) {
		return ctx.JSON(http.StatusNotFound, Error{
			Code:    commands.CodeNotFound,
			Message: notFound.Error(),
		})
	}
	return internalError(ctx)
}
