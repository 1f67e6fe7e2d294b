// Package repository defines sentinel errors shared across the data access
// layer. Higher layers use errors.Is against these values to translate
// storage outcomes into HTTP status codes: not-found errors map to 404,
// conflict errors to 409 and ErrConcurrencyConflict is retried by the
// allocation engine before surfacing.
package repository

import "errors"

// ErrFlightNotFound is returned when a flight lookup yields no rows.
var ErrFlightNotFound = errors.New("flight not found")

// ErrSeatNotFound is returned when a seat lookup yields no rows.
var ErrSeatNotFound = errors.New("seat not found")

// ErrPassengerNotFound is returned when a passenger lookup yields no rows.
var ErrPassengerNotFound = errors.New("passenger not found")

// ErrNoSeatsAvailable is returned when a flight has no unoccupied seat left.
var ErrNoSeatsAvailable = errors.New("no seats available")

// ErrSeatOccupied is returned when a conditional occupancy write finds the
// seat already taken.
var ErrSeatOccupied = errors.New("seat already occupied")

// ErrSeatNotOccupied is returned when releasing a seat that is not occupied.
var ErrSeatNotOccupied = errors.New("seat not occupied")

// ErrAlreadyCheckedIn is returned when the passenger's check-in flag is
// already set. The rejection is idempotent: repeating the call yields the
// same error, never a second success.
var ErrAlreadyCheckedIn = errors.New("passenger already checked in")

// ErrConcurrencyConflict is returned when a conditional write lost a race
// after the initial read, i.e. the row changed between read and write.
var ErrConcurrencyConflict = errors.New("concurrent update conflict")

// ErrDuplicatePassport is returned when creating a passenger whose passport
// number already exists.
var ErrDuplicatePassport = errors.New("passport number already registered")
