package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/airport-checkin/internal/model"
)

// Store bundles the flight, seat and passenger repositories behind the
// transactional contract the allocation engine consumes.  The two commit
// operations run their conditional writes inside a single transaction so a
// seat and its passenger can never be observed half-linked.
type Store struct {
	db         *sql.DB
	Flights    *FlightRepo
	Seats      *SeatRepo
	Passengers *PassengerRepo
}

// NewStore constructs a Store and its repositories over one DB handle.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:         db,
		Flights:    NewFlightRepo(db),
		Seats:      NewSeatRepo(db),
		Passengers: NewPassengerRepo(db),
	}
}

// FindPassengerByPassport looks a passenger up by passport number.
func (s *Store) FindPassengerByPassport(ctx context.Context, passport string) (*model.Passenger, error) {
	return s.Passengers.FindByPassport(ctx, passport)
}

// FindSeat looks a seat up by flight and seat number.
func (s *Store) FindSeat(ctx context.Context, flightID uint64, seatNumber string) (*model.Seat, error) {
	return s.Seats.FindByNumber(ctx, flightID, seatNumber)
}

// FindSeatByID looks a seat up by primary key.
func (s *Store) FindSeatByID(ctx context.Context, seatID uint64) (*model.Seat, error) {
	return s.Seats.GetByID(ctx, seatID)
}

// FindAnyFreeSeat returns the lowest-numbered free seat on a flight.
func (s *Store) FindAnyFreeSeat(ctx context.Context, flightID uint64) (*model.Seat, error) {
	return s.Seats.FindAnyFree(ctx, flightID)
}

// GetFlight loads a flight by ID.
func (s *Store) GetFlight(ctx context.Context, flightID uint64) (*model.Flight, error) {
	return s.Flights.GetByID(ctx, flightID)
}

// GetSeatsForFlight returns a flight's full seat inventory.
func (s *Store) GetSeatsForFlight(ctx context.Context, flightID uint64) ([]model.Seat, error) {
	return s.Seats.GetByFlight(ctx, flightID)
}

// UpdateFlightStatus persists a flight status change and returns the
// updated flight.
func (s *Store) UpdateFlightStatus(ctx context.Context, flightID uint64, status model.FlightStatus) (*model.Flight, error) {
	return s.Flights.UpdateStatus(ctx, flightID, status)
}

// CommitSeatAssignment atomically occupies the seat and marks the passenger
// checked in.  Both writes are conditional; if either row changed since the
// caller's read the transaction rolls back and the conflict sentinel
// (ErrSeatOccupied or ErrAlreadyCheckedIn) is returned, leaving the pair
// consistent.
func (s *Store) CommitSeatAssignment(ctx context.Context, seatID, passengerID uint64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := s.Seats.OccupyTx(ctx, tx, seatID, passengerID); err != nil {
		return err
	}
	if err := s.Passengers.MarkCheckedInTx(ctx, tx, passengerID, seatID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// CommitSeatOccupy atomically occupies the seat for an administrative
// occupy operation.  The passenger link is optional and the check-in flag
// is not touched; dispatch may block a seat without a passenger.
func (s *Store) CommitSeatOccupy(ctx context.Context, seatID uint64, passengerID *uint64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	const q = `UPDATE seats SET is_occupied = 1, passenger_id = ?
               WHERE id = ? AND is_occupied = 0`
	res, err := tx.ExecContext(ctx, q, passengerID, seatID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSeatOccupied
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// CommitSeatRelease atomically clears the seat's occupancy and the owning
// passenger's check-in state in one transaction.
func (s *Store) CommitSeatRelease(ctx context.Context, seatID uint64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := s.Seats.ReleaseTx(ctx, tx, seatID); err != nil {
		return err
	}
	if err := s.Passengers.ClearCheckInTx(ctx, tx, seatID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
