package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/airport-checkin/internal/model"
	"github.com/iliyamo/airport-checkin/internal/repository"
	"github.com/iliyamo/airport-checkin/internal/service"
)

// SeatHandler exposes the seat inventory: listing a flight's seat map, bulk
// provisioning, and the administrative occupy/release operations used by
// dispatch to block or free seats outside the normal check-in flow.
type SeatHandler struct {
	Engine *service.AllocationEngine
	Store  *repository.Store
}

// NewSeatHandler constructs a SeatHandler.
func NewSeatHandler(engine *service.AllocationEngine, store *repository.Store) *SeatHandler {
	if engine == nil || store == nil {
		panic("nil dependency passed to NewSeatHandler")
	}
	return &SeatHandler{Engine: engine, Store: store}
}

// GetSeatsByFlight handles GET /v1/flights/:id/seats.  Returns every seat
// of the flight ordered by seat number; agent terminals render the seat
// grid from this plus subsequent realtime events.
func (h *SeatHandler) GetSeatsByFlight(c echo.Context) error {
	flightID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || flightID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid flight id."})
	}
	ctx := c.Request().Context()
	if _, err := h.Store.GetFlight(ctx, flightID); err != nil {
		return respondError(c, err)
	}
	seats, err := h.Store.GetSeatsForFlight(ctx, flightID)
	if err != nil {
		return respondError(c, err)
	}
	if seats == nil {
		seats = []model.Seat{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": seats})
}

// CreateSeats handles POST /v1/flights/:id/seats.  Bulk-provisions the
// flight's seat inventory from a list of seat numbers; duplicates within
// the request are dropped.
func (h *SeatHandler) CreateSeats(c echo.Context) error {
	flightID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || flightID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid flight id."})
	}
	ctx := c.Request().Context()
	if _, err := h.Store.GetFlight(ctx, flightID); err != nil {
		return respondError(c, err)
	}
	var body struct {
		SeatNumbers []string `json:"seatNumbers"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body."})
	}
	seen := make(map[string]struct{}, len(body.SeatNumbers))
	seats := make([]model.Seat, 0, len(body.SeatNumbers))
	for _, num := range body.SeatNumbers {
		num = strings.TrimSpace(num)
		if num == "" {
			continue
		}
		if _, ok := seen[num]; ok {
			continue
		}
		seen[num] = struct{}{}
		seats = append(seats, model.Seat{FlightID: flightID, SeatNumber: num})
	}
	if len(seats) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "seatNumbers is required."})
	}
	if err := h.Store.Seats.CreateBulk(ctx, seats); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"created": len(seats)})
}

// OccupySeat handles POST /v1/seats/occupy.  Marks a seat occupied,
// optionally linking a passenger.  On success a SeatOccupied event reaches
// every terminal in the flight group.
func (h *SeatHandler) OccupySeat(c echo.Context) error {
	var body struct {
		SeatID      uint64  `json:"seatId"`
		PassengerID *uint64 `json:"passengerId"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body."})
	}
	if body.SeatID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "seatId is required."})
	}
	if err := h.Engine.OccupySeat(c.Request().Context(), body.SeatID, body.PassengerID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Seat occupied successfully."})
}

// ReleaseSeat handles POST /v1/seats/release.  Clears a seat's occupancy
// and the owning passenger's check-in state, then emits SeatAvailable.
func (h *SeatHandler) ReleaseSeat(c echo.Context) error {
	var body struct {
		SeatID uint64 `json:"seatId"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body."})
	}
	if body.SeatID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "seatId is required."})
	}
	if err := h.Engine.ReleaseSeat(c.Request().Context(), body.SeatID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Seat released successfully."})
}
