package model

// Seat is a single seat in a flight's inventory.  Seat numbers such as "1A"
// are unique within their flight but not globally.  Occupancy is the durable
// source of truth: IsOccupied is true exactly when PassengerID is set, and
// that passenger's AssignedSeatID points back at this seat.
//
// Fields:
//
//	ID          – primary key identifier.
//	FlightID    – flight this seat belongs to.
//	SeatNumber  – label within the flight, e.g. "1A", "12C".
//	IsOccupied  – durable occupancy flag.
//	PassengerID – owning passenger, nil while the seat is free.
type Seat struct {
	ID          uint64  `json:"seatId"`      // seats.id
	FlightID    uint64  `json:"flightId"`    // seats.flight_id
	SeatNumber  string  `json:"seatNumber"`  // seats.seat_number
	IsOccupied  bool    `json:"isOccupied"`  // seats.is_occupied
	PassengerID *uint64 `json:"passengerId"` // seats.passenger_id (nullable)
}
