package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/airport-checkin/internal/model"
	"github.com/iliyamo/airport-checkin/internal/repository"
)

// PassengerHandler exposes passenger provisioning and lookup.
type PassengerHandler struct {
	Flights    *repository.FlightRepo
	Passengers *repository.PassengerRepo
}

// NewPassengerHandler constructs a PassengerHandler.
func NewPassengerHandler(flights *repository.FlightRepo, passengers *repository.PassengerRepo) *PassengerHandler {
	if flights == nil || passengers == nil {
		panic("nil dependency passed to NewPassengerHandler")
	}
	return &PassengerHandler{Flights: flights, Passengers: passengers}
}

// CreatePassenger handles POST /v1/passengers.  Passport numbers are
// globally unique; a duplicate yields 409.
func (h *PassengerHandler) CreatePassenger(c echo.Context) error {
	var body struct {
		FlightID       uint64 `json:"flightId"`
		FullName       string `json:"fullName"`
		PassportNumber string `json:"passportNumber"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body."})
	}
	name := strings.TrimSpace(body.FullName)
	passport := strings.TrimSpace(body.PassportNumber)
	if body.FlightID == 0 || name == "" || passport == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "flightId, fullName and passportNumber are required."})
	}
	ctx := c.Request().Context()
	if _, err := h.Flights.GetByID(ctx, body.FlightID); err != nil {
		return respondError(c, err)
	}
	p := &model.Passenger{
		FlightID:       body.FlightID,
		FullName:       name,
		PassportNumber: passport,
	}
	if err := h.Passengers.Create(ctx, p); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": p})
}

// GetPassengersByFlight handles GET /v1/flights/:id/passengers.
func (h *PassengerHandler) GetPassengersByFlight(c echo.Context) error {
	flightID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || flightID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid flight id."})
	}
	ctx := c.Request().Context()
	if _, err := h.Flights.GetByID(ctx, flightID); err != nil {
		return respondError(c, err)
	}
	passengers, err := h.Passengers.GetByFlight(ctx, flightID)
	if err != nil {
		return respondError(c, err)
	}
	if passengers == nil {
		passengers = []model.Passenger{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": passengers})
}

// FindPassenger handles GET /v1/passengers?passport=X1.  Agents use it to
// pull up a booking before check-in.
func (h *PassengerHandler) FindPassenger(c echo.Context) error {
	passport := strings.TrimSpace(c.QueryParam("passport"))
	if passport == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "passport query parameter is required."})
	}
	p, err := h.Passengers.FindByPassport(c.Request().Context(), passport)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": p})
}
