package controller

import (
	"net/http"
	"time"

	"flowsite-api/core/errors"
	"flowsite-api/core/logger"
	"flowsite-api/modules/scheduling/dto"
	"flowsite-api/modules/scheduling/service"

	"github.com/labstack/echo/v4"
)

// SchedulingController serves the two public booking endpoints. The wire
// format here is the website contract, not the shared response envelope:
// success bodies are endpoint-specific and failures are
// {"error": ..., "details": ...} with a non-2xx status.
type SchedulingController struct {
	service service.SchedulingService
}

func NewSchedulingController(svc service.SchedulingService) *SchedulingController {
	return &SchedulingController{service: svc}
}

// GetAvailability returns the busy intervals for the requested day.
// POST /api/v1/availability
func (sc *SchedulingController) GetAvailability(c echo.Context) error {
	var req dto.AvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorPayload{Error: "invalid request body"})
	}

	busy, appErr := sc.service.GetAvailability(c.Request().Context(), req.Date)
	if appErr != nil {
		return sc.errorResponse(c, appErr)
	}

	resp := dto.AvailabilityResponse{BusySlots: make([]dto.BusySlot, 0, len(busy))}
	for _, b := range busy {
		resp.BusySlots = append(resp.BusySlots, dto.BusySlot{
			Start: b.Start.Format(time.RFC3339),
			End:   b.End.Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, resp)
}

// CreateBooking creates the demo meeting and returns its identity and link.
// POST /api/v1/bookings
//
// Not idempotent: a client retry after an ambiguous failure (timeout after
// the provider already created the event) can produce a duplicate event.
func (sc *SchedulingController) CreateBooking(c echo.Context) error {
	var req dto.BookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorPayload{Error: "invalid request body"})
	}

	if req.Name == "" || req.Email == "" || req.AppointmentDate == "" {
		return c.JSON(http.StatusBadRequest, dto.ErrorPayload{
			Error: "name, email and appointmentDate are required",
		})
	}

	start, err := time.Parse(time.RFC3339, req.AppointmentDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorPayload{
			Error:   "invalid appointmentDate",
			Details: "expected an RFC3339 timestamp",
		})
	}

	meeting, appErr := sc.service.ScheduleMeeting(c.Request().Context(), service.BookingInput{
		Name:    req.Name,
		Email:   req.Email,
		Company: req.Company,
		Message: req.Message,
		Start:   start,
	})
	if appErr != nil {
		return sc.errorResponse(c, appErr)
	}

	return c.JSON(http.StatusOK, dto.BookingResponse{
		Success: true,
		Meeting: *meeting,
	})
}

func (sc *SchedulingController) errorResponse(c echo.Context, appErr *errors.AppError) error {
	status := http.StatusInternalServerError
	payload := dto.ErrorPayload{Error: appErr.Message, Details: appErr.Detail()}

	switch appErr.Code {
	case errors.ErrInvalidInput, errors.ErrInvalidRequestData:
		status = http.StatusBadRequest
	case errors.ErrProviderAuth, errors.ErrProviderError:
		status = http.StatusBadGateway
	case errors.ErrProviderConfig:
		// Configuration problems are logged server-side and reported
		// generically.
		status = http.StatusInternalServerError
		payload = dto.ErrorPayload{Error: "internal server error"}
	}

	logger.Error("SchedulingController:ErrorResponse",
		"status", status,
		"code", appErr.Code,
		"message", appErr.Message,
	)
	return c.JSON(status, payload)
}
