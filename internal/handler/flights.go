package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/airport-checkin/internal/model"
	"github.com/iliyamo/airport-checkin/internal/repository"
	"github.com/iliyamo/airport-checkin/internal/service"
)

// FlightHandler exposes flight provisioning and the status update
// operation.  Status changes go through the allocation engine so the
// FlightStatusUpdated broadcast reaches every connected terminal.
type FlightHandler struct {
	Engine  *service.AllocationEngine
	Flights *repository.FlightRepo
}

// NewFlightHandler constructs a FlightHandler.
func NewFlightHandler(engine *service.AllocationEngine, flights *repository.FlightRepo) *FlightHandler {
	if engine == nil || flights == nil {
		panic("nil dependency passed to NewFlightHandler")
	}
	return &FlightHandler{Engine: engine, Flights: flights}
}

// ListFlights handles GET /v1/flights.
func (h *FlightHandler) ListFlights(c echo.Context) error {
	flights, err := h.Flights.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	if flights == nil {
		flights = []model.Flight{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": flights})
}

// GetFlight handles GET /v1/flights/:id.
func (h *FlightHandler) GetFlight(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid flight id."})
	}
	flight, err := h.Flights.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": flight})
}

// CreateFlight handles POST /v1/flights.  New flights start in CheckingIn
// unless a valid status is supplied.
func (h *FlightHandler) CreateFlight(c echo.Context) error {
	var body struct {
		FlightNumber       string `json:"flightNumber"`
		ArrivalAirport     string `json:"arrivalAirport"`
		DestinationAirport string `json:"destinationAirport"`
		Time               string `json:"time"`
		Gate               string `json:"gate"`
		Status             string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body."})
	}
	if strings.TrimSpace(body.FlightNumber) == "" || strings.TrimSpace(body.Gate) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "flightNumber and gate are required."})
	}
	departure, err := time.Parse(time.RFC3339, body.Time)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "time must be RFC3339."})
	}
	status := model.StatusCheckingIn
	if body.Status != "" {
		status, err = model.ParseFlightStatus(body.Status)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
		}
	}
	flight := &model.Flight{
		FlightNumber:       strings.TrimSpace(body.FlightNumber),
		ArrivalAirport:     strings.TrimSpace(body.ArrivalAirport),
		DestinationAirport: strings.TrimSpace(body.DestinationAirport),
		Time:               departure.UTC(),
		Gate:               strings.TrimSpace(body.Gate),
		Status:             status,
	}
	if err := h.Flights.Create(c.Request().Context(), flight); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": flight})
}

// UpdateStatus handles PUT /v1/flights/:id/status.  The status name is
// validated against the fixed enumeration; unknown names are rejected with
// a descriptive 400.
func (h *FlightHandler) UpdateStatus(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid flight id."})
	}
	var body struct {
		FlightStatus string `json:"flightStatus"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body."})
	}
	flight, err := h.Engine.UpdateFlightStatus(c.Request().Context(), id, body.FlightStatus)
	if err != nil {
		if errors.Is(err, model.ErrInvalidStatus) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
		}
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": flight})
}
