package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/airport-checkin/internal/config"
	"github.com/iliyamo/airport-checkin/internal/handler"
	"github.com/iliyamo/airport-checkin/internal/middleware"
)

// Handlers groups every handler the router wires up.  All fields must be
// non-nil; cmd/server constructs them once and passes the bundle here.
type Handlers struct {
	CheckIn    *handler.CheckInHandler
	Flights    *handler.FlightHandler
	Seats      *handler.SeatHandler
	Passengers *handler.PassengerHandler
	Realtime   *handler.RealtimeHandler
}

// RegisterRoutes registers all application routes on the provided Echo
// instance.  The Redis client powers the rate limiter and the seat-map
// response cache; when it is nil both middlewares degrade to no-ops.
func RegisterRoutes(e *echo.Echo, h Handlers, rdb *redis.Client) {
	// Health check for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	// Agent identity feeds per-agent rate limit buckets.
	e.Use(middleware.AgentIdentity())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	v1 := e.Group("/v1")

	// Check-in is the hot path: an agent submits a passport number and an
	// optional seat, the allocation engine does the rest.
	v1.POST("/checkin", h.CheckIn.CheckIn)

	// Flight provisioning and status dispatch.
	v1.GET("/flights", h.Flights.ListFlights)
	v1.POST("/flights", h.Flights.CreateFlight)
	v1.GET("/flights/:id", h.Flights.GetFlight)
	v1.PUT("/flights/:id/status", h.Flights.UpdateStatus)

	// Seat inventory.  The seat map GET is cached briefly in Redis; cache
	// staleness is tolerable because terminals track live changes through
	// the realtime events.
	v1.GET("/flights/:id/seats", h.Seats.GetSeatsByFlight,
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	v1.POST("/flights/:id/seats", h.Seats.CreateSeats)
	v1.POST("/seats/occupy", h.Seats.OccupySeat)
	v1.POST("/seats/release", h.Seats.ReleaseSeat)

	// Passenger provisioning and lookup.
	v1.POST("/passengers", h.Passengers.CreatePassenger)
	v1.GET("/passengers", h.Passengers.FindPassenger)
	v1.GET("/flights/:id/passengers", h.Passengers.GetPassengersByFlight)

	// Persistent WebSocket sessions for agent terminals.
	v1.GET("/realtime", h.Realtime.Serve)
}
