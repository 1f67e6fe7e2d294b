package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/airport-checkin/internal/config"
	"github.com/iliyamo/airport-checkin/internal/database"
	"github.com/iliyamo/airport-checkin/internal/handler"
	"github.com/iliyamo/airport-checkin/internal/hub"
	"github.com/iliyamo/airport-checkin/internal/queue"
	"github.com/iliyamo/airport-checkin/internal/repository"
	"github.com/iliyamo/airport-checkin/internal/router"
	"github.com/iliyamo/airport-checkin/internal/service"
)

func main() {
	// Load .env when present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables rate limiting and caching.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and response cache disabled")
	}

	// One hub per process; every component publishes through it.
	notifications := hub.New()

	store := repository.NewStore(db)
	engine := service.NewAllocationEngine(store, notifications)
	tracker := service.NewPresenceTracker(notifications)

	handlers := router.Handlers{
		CheckIn:    handler.NewCheckInHandler(engine),
		Flights:    handler.NewFlightHandler(engine, store.Flights),
		Seats:      handler.NewSeatHandler(engine, store),
		Passengers: handler.NewPassengerHandler(store.Flights, store.Passengers),
		Realtime:   handler.NewRealtimeHandler(notifications, tracker),
	}

	// Background consumer appends completed check-ins to logs/checkin.log.
	go func() {
		if err := queue.StartCheckInConsumer(); err != nil {
			log.Printf("checkin-consumer stopped: %v", err)
		}
	}()

	e := echo.New() // Create Echo instance
	router.RegisterRoutes(e, handlers, rdb)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
