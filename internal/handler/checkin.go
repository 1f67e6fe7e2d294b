package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/airport-checkin/internal/queue"
	"github.com/iliyamo/airport-checkin/internal/service"
)

// CheckInHandler exposes the passenger check-in operation.  The allocation
// engine performs the actual seat assignment; this handler only binds the
// request, maps typed failures to HTTP semantics and publishes the audit
// event after a successful commit.
type CheckInHandler struct {
	Engine *service.AllocationEngine
}

// NewCheckInHandler constructs a CheckInHandler.
func NewCheckInHandler(engine *service.AllocationEngine) *CheckInHandler {
	if engine == nil {
		panic("nil engine passed to NewCheckInHandler")
	}
	return &CheckInHandler{Engine: engine}
}

// CheckIn handles POST /v1/checkin.  The body carries the passport number
// and an optional specific seat number; when the seat number is omitted the
// engine picks the lowest-numbered free seat on the passenger's flight.
func (h *CheckInHandler) CheckIn(c echo.Context) error {
	var body struct {
		PassportNumber     string `json:"passportNumber"`
		SelectedSeatNumber string `json:"selectedSeatNumber"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body."})
	}
	passport := strings.TrimSpace(body.PassportNumber)
	if passport == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "passportNumber is required."})
	}

	res, err := h.Engine.CheckIn(c.Request().Context(), passport, strings.TrimSpace(body.SelectedSeatNumber))
	if err != nil {
		return respondError(c, err)
	}

	// Audit trail rides the broker; a broker outage must not fail the
	// already-committed check-in, so errors are logged inside the publisher
	// and ignored here.
	ev := queue.CheckInCompletedEvent{
		PassengerName:  res.PassengerName,
		PassportNumber: passport,
		FlightNumber:   res.FlightNumber,
		SeatNumber:     res.SeatNumber,
		Gate:           res.Gate,
		CheckedInAt:    time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue.PublishCheckInCompleted(ctx, ev)
	}()

	return c.JSON(http.StatusOK, echo.Map{
		"success":       true,
		"message":       "Check-in successful",
		"passengerName": res.PassengerName,
		"flightNumber":  res.FlightNumber,
		"seatNumber":    res.SeatNumber,
		"gate":          res.Gate,
	})
}
