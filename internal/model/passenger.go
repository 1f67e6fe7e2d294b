package model

// Passenger is a traveller provisioned onto a flight.  Passport numbers are
// globally unique (enforced by a DB unique key).  A checked-in passenger
// always has an assigned seat; the reverse direction is maintained by the
// allocation engine rather than by construction.
//
// Fields:
//
//	ID             – primary key identifier.
//	FlightID       – flight the passenger is booked on.
//	FullName       – passenger's full name as printed on documents.
//	PassportNumber – globally unique passport number.
//	IsCheckedIn    – whether check-in has completed.
//	AssignedSeatID – seat assigned at check-in, nil before check-in.
type Passenger struct {
	ID             uint64  `json:"passengerId"`    // passengers.id
	FlightID       uint64  `json:"flightId"`       // passengers.flight_id
	FullName       string  `json:"fullName"`       // passengers.full_name
	PassportNumber string  `json:"passportNumber"` // passengers.passport_number
	IsCheckedIn    bool    `json:"isCheckedIn"`    // passengers.is_checked_in
	AssignedSeatID *uint64 `json:"assignedSeatId"` // passengers.assigned_seat_id (nullable)
}
