// Package queue defines message payloads exchanged over the message broker
// together with the publisher and the background consumer.
package queue

// CheckInCompletedEvent is published when a passenger check-in commits.
// It contains enough information for downstream consumers to log, notify, or
// trigger analytics without querying the primary database.
type CheckInCompletedEvent struct {
	PassengerName  string `json:"passenger_name"`
	PassportNumber string `json:"passport_number"`
	FlightNumber   string `json:"flight_number"`
	SeatNumber     string `json:"seat_number"`
	Gate           string `json:"gate"`
	CheckedInAt    string `json:"checked_in_at"`
}
