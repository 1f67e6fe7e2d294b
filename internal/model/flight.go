package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// FlightStatus is the lifecycle state of a flight.  Statuses are stored as
// strings in the DB and on the wire.  Transitions are unconstrained: dispatch
// may move a flight from any status to any other, and every change is
// broadcast to connected terminals.
type FlightStatus string

const (
	StatusCheckingIn FlightStatus = "CheckingIn" // passengers may check in
	StatusBoarding   FlightStatus = "Boarding"   // boarding in progress
	StatusDeparted   FlightStatus = "Departed"   // aircraft has left the gate
	StatusDelayed    FlightStatus = "Delayed"    // departure postponed
	StatusCancelled  FlightStatus = "Cancelled"  // flight will not operate
)

// flightStatuses maps lower-cased status names to their canonical value.
// Parsing is case-insensitive to match what agent terminals send.
var flightStatuses = map[string]FlightStatus{
	"checkingin": StatusCheckingIn,
	"boarding":   StatusBoarding,
	"departed":   StatusDeparted,
	"delayed":    StatusDelayed,
	"cancelled":  StatusCancelled,
}

// ErrInvalidStatus is wrapped by ParseFlightStatus failures so handlers can
// classify them with errors.Is.
var ErrInvalidStatus = errors.New("invalid flight status")

// ParseFlightStatus converts a status name into a FlightStatus.  Unknown
// names return a descriptive error so handlers can reject the request with
// a 400 rather than persisting garbage.
func ParseFlightStatus(s string) (FlightStatus, error) {
	if st, ok := flightStatuses[strings.ToLower(strings.TrimSpace(s))]; ok {
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// String returns the canonical status name.
func (s FlightStatus) String() string { return string(s) }

// Flight describes a scheduled flight and its gate assignment.  Seats and
// passengers reference the flight by ID only; there are no object-graph
// back-references.
//
// Fields:
//
//	ID                 – primary key identifier.
//	FlightNumber       – airline designator, e.g. "EK201".
//	ArrivalAirport     – origin airport name/code.
//	DestinationAirport – destination airport name/code.
//	Time               – scheduled departure time (UTC).
//	Gate               – departure gate, e.g. "A12".
//	Status             – current FlightStatus.
type Flight struct {
	ID                 uint64       `json:"flightId"`           // flights.id
	FlightNumber       string       `json:"flightNumber"`       // flights.flight_number
	ArrivalAirport     string       `json:"arrivalAirport"`     // flights.arrival_airport
	DestinationAirport string       `json:"destinationAirport"` // flights.destination_airport
	Time               time.Time    `json:"time"`               // flights.time (UTC)
	Gate               string       `json:"gate"`               // flights.gate
	Status             FlightStatus `json:"status"`             // flights.status
}
