package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health answers liveness probes. It reports no dependency state: the
// service can serve cached seat maps and realtime sessions even when a
// backing store is briefly unreachable.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
