package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/airport-checkin/internal/repository"
)

// respondError translates a service or repository error into the HTTP
// response the agent terminal expects: not-found errors map to 404,
// conflicts to 409, exhausted concurrency retries to 503, and anything
// unrecognised to a generic 500.  Every response body carries a
// human-readable message under "message".
func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrPassengerNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Passenger not found with the provided passport number."})
	case errors.Is(err, repository.ErrFlightNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Flight not found."})
	case errors.Is(err, repository.ErrSeatNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Seat not found."})
	case errors.Is(err, repository.ErrAlreadyCheckedIn):
		return c.JSON(http.StatusConflict, echo.Map{"message": "Passenger is already checked in."})
	case errors.Is(err, repository.ErrSeatOccupied):
		return c.JSON(http.StatusConflict, echo.Map{"message": "Seat is already occupied."})
	case errors.Is(err, repository.ErrSeatNotOccupied):
		return c.JSON(http.StatusConflict, echo.Map{"message": "Seat is not occupied."})
	case errors.Is(err, repository.ErrNoSeatsAvailable):
		return c.JSON(http.StatusConflict, echo.Map{"message": "No available seats for this flight."})
	case errors.Is(err, repository.ErrDuplicatePassport):
		return c.JSON(http.StatusConflict, echo.Map{"message": "A passenger with this passport number already exists."})
	case errors.Is(err, repository.ErrConcurrencyConflict):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"message": "The seat map is changing rapidly; please retry."})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "An internal error occurred."})
	}
}
