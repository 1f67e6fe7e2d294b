// Package service holds the seat allocation engine and the presence
// tracker.  Both depend only on narrow interfaces (Store, Broadcaster) so
// tests substitute an in-memory store and a recording broadcaster instead
// of a live database or transport.
package service

import (
	"context"
	"errors"

	"github.com/iliyamo/airport-checkin/internal/model"
	"github.com/iliyamo/airport-checkin/internal/repository"
)

// Event names delivered to agent terminals.  Seat events carry the seat
// number as payload; FlightStatusUpdated carries a FlightStatusPayload and
// goes to every connection regardless of group.
const (
	EventSeatOccupied        = "SeatOccupied"
	EventSeatAvailable       = "SeatAvailable"
	EventSeatSelected        = "SeatSelected"
	EventSeatDeselected      = "SeatDeselected"
	EventFlightStatusUpdated = "FlightStatusUpdated"
)

// FlightStatusPayload is the broadcast body of a FlightStatusUpdated event.
type FlightStatusPayload struct {
	FlightID     uint64 `json:"flightId"`
	FlightNumber string `json:"flightNumber"`
	Status       string `json:"status"`
	Gate         string `json:"gate"`
}

// Store is the transactional persistence contract the engine consumes.
// Both commit operations must be conditional: they succeed only when the
// target rows still hold the state the engine read, otherwise they return
// repository.ErrSeatOccupied / ErrAlreadyCheckedIn / ErrSeatNotOccupied
// and leave the rows untouched.
type Store interface {
	FindPassengerByPassport(ctx context.Context, passport string) (*model.Passenger, error)
	FindSeat(ctx context.Context, flightID uint64, seatNumber string) (*model.Seat, error)
	FindSeatByID(ctx context.Context, seatID uint64) (*model.Seat, error)
	FindAnyFreeSeat(ctx context.Context, flightID uint64) (*model.Seat, error)
	GetFlight(ctx context.Context, flightID uint64) (*model.Flight, error)
	CommitSeatAssignment(ctx context.Context, seatID, passengerID uint64) error
	CommitSeatOccupy(ctx context.Context, seatID uint64, passengerID *uint64) error
	CommitSeatRelease(ctx context.Context, seatID uint64) error
	UpdateFlightStatus(ctx context.Context, flightID uint64, status model.FlightStatus) (*model.Flight, error)
}

// Broadcaster is the slice of the notification hub the engine and the
// presence tracker publish through.
type Broadcaster interface {
	PublishToFlight(flightID uint64, name string, payload interface{})
	PublishToOthers(flightID uint64, exceptConnID, name string, payload interface{})
	PublishAll(name string, payload interface{})
}

// anySeatRetries bounds the re-read/re-write loop when an any-seat request
// loses a race for its candidate seat.
const anySeatRetries = 3

// CheckInResult is the success payload of a check-in.
type CheckInResult struct {
	PassengerName string
	FlightNumber  string
	SeatNumber    string
	Gate          string
}

// AllocationEngine enforces at-most-one-occupant-per-seat and
// at-most-one-seat-per-passenger.  The engine performs application-level
// precondition checks for friendly errors, but correctness rests on the
// store's conditional commits: under concurrency the losing request always
// observes a typed conflict, never a silent overwrite.
type AllocationEngine struct {
	store Store
	bc    Broadcaster
}

// NewAllocationEngine constructs an engine over the given store and
// broadcaster. Both must be non-nil.
func NewAllocationEngine(store Store, bc Broadcaster) *AllocationEngine {
	if store == nil || bc == nil {
		panic("nil dependency passed to NewAllocationEngine")
	}
	return &AllocationEngine{store: store, bc: bc}
}

// CheckIn assigns a seat to the passenger identified by passport and marks
// them checked in.  When seatNumber is empty the engine picks the
// lowest-numbered free seat on the passenger's flight.  On success a
// SeatOccupied event is published to the flight group; notification
// delivery never affects the durable commit.
func (e *AllocationEngine) CheckIn(ctx context.Context, passport, seatNumber string) (*CheckInResult, error) {
	p, err := e.store.FindPassengerByPassport(ctx, passport)
	if err != nil {
		return nil, err
	}
	if p.IsCheckedIn {
		return nil, repository.ErrAlreadyCheckedIn
	}
	flight, err := e.store.GetFlight(ctx, p.FlightID)
	if err != nil {
		return nil, err
	}

	var seat *model.Seat
	if seatNumber != "" {
		seat, err = e.assignRequestedSeat(ctx, p, seatNumber)
	} else {
		seat, err = e.assignAnySeat(ctx, p)
	}
	if err != nil {
		return nil, err
	}

	e.bc.PublishToFlight(flight.ID, EventSeatOccupied, seat.SeatNumber)
	return &CheckInResult{
		PassengerName: p.FullName,
		FlightNumber:  flight.FlightNumber,
		SeatNumber:    seat.SeatNumber,
		Gate:          flight.Gate,
	}, nil
}

// assignRequestedSeat claims the specific seat the agent selected.  Losing
// the conditional write here is terminal: the agent picked this exact seat,
// so the conflict is reported as SeatOccupied rather than retried.
func (e *AllocationEngine) assignRequestedSeat(ctx context.Context, p *model.Passenger, seatNumber string) (*model.Seat, error) {
	seat, err := e.store.FindSeat(ctx, p.FlightID, seatNumber)
	if err != nil {
		return nil, err
	}
	if seat.IsOccupied {
		return nil, repository.ErrSeatOccupied
	}
	if err := e.store.CommitSeatAssignment(ctx, seat.ID, p.ID); err != nil {
		return nil, err
	}
	return seat, nil
}

// assignAnySeat repeats the read-check-write unit when the candidate seat
// is snatched by a concurrent request.  After the retry budget is spent the
// caller gets ErrConcurrencyConflict; ErrNoSeatsAvailable and
// ErrAlreadyCheckedIn end the loop immediately.
func (e *AllocationEngine) assignAnySeat(ctx context.Context, p *model.Passenger) (*model.Seat, error) {
	for attempt := 0; attempt < anySeatRetries; attempt++ {
		seat, err := e.store.FindAnyFreeSeat(ctx, p.FlightID)
		if err != nil {
			return nil, err
		}
		err = e.store.CommitSeatAssignment(ctx, seat.ID, p.ID)
		if err == nil {
			return seat, nil
		}
		if errors.Is(err, repository.ErrSeatOccupied) {
			continue // lost the race for this seat, re-read
		}
		return nil, err
	}
	return nil, repository.ErrConcurrencyConflict
}

// OccupySeat administratively marks a seat occupied, optionally linking a
// passenger without changing their check-in flag.  Emits SeatOccupied to
// the seat's flight group.
func (e *AllocationEngine) OccupySeat(ctx context.Context, seatID uint64, passengerID *uint64) error {
	seat, err := e.store.FindSeatByID(ctx, seatID)
	if err != nil {
		return err
	}
	if seat.IsOccupied {
		return repository.ErrSeatOccupied
	}
	if err := e.store.CommitSeatOccupy(ctx, seat.ID, passengerID); err != nil {
		return err
	}
	e.bc.PublishToFlight(seat.FlightID, EventSeatOccupied, seat.SeatNumber)
	return nil
}

// ReleaseSeat clears a seat's occupancy and the owning passenger's
// check-in state atomically, then emits SeatAvailable to the flight group.
func (e *AllocationEngine) ReleaseSeat(ctx context.Context, seatID uint64) error {
	seat, err := e.store.FindSeatByID(ctx, seatID)
	if err != nil {
		return err
	}
	if !seat.IsOccupied {
		return repository.ErrSeatNotOccupied
	}
	if err := e.store.CommitSeatRelease(ctx, seat.ID); err != nil {
		return err
	}
	e.bc.PublishToFlight(seat.FlightID, EventSeatAvailable, seat.SeatNumber)
	return nil
}

// UpdateFlightStatus validates and persists a status change, then
// broadcasts FlightStatusUpdated to every connected terminal.
func (e *AllocationEngine) UpdateFlightStatus(ctx context.Context, flightID uint64, statusName string) (*model.Flight, error) {
	status, err := model.ParseFlightStatus(statusName)
	if err != nil {
		return nil, err
	}
	flight, err := e.store.UpdateFlightStatus(ctx, flightID, status)
	if err != nil {
		return nil, err
	}
	e.bc.PublishAll(EventFlightStatusUpdated, FlightStatusPayload{
		FlightID:     flight.ID,
		FlightNumber: flight.FlightNumber,
		Status:       flight.Status.String(),
		Gate:         flight.Gate,
	})
	return flight, nil
}
