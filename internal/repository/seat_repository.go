package repository // repository defines data access for seats

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"       // errors for sentinel comparisons

	"github.com/iliyamo/airport-checkin/internal/model"
)

// SeatRepo provides methods to work with a flight's seat inventory.  All
// occupancy mutations are conditional writes (compare-and-swap on the
// is_occupied flag) so concurrent check-in attempts on the same seat resolve
// to exactly one winner at the storage level.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// CreateBulk inserts multiple seats in a single statement.  Used when
// provisioning a flight's inventory.
func (r *SeatRepo) CreateBulk(ctx context.Context, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO seats (flight_id, seat_number, is_occupied) VALUES `
	args := make([]interface{}, 0, len(seats)*3)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, s.FlightID, s.SeatNumber, s.IsOccupied)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// scanSeat scans one seat row, converting the nullable passenger column.
func scanSeat(row interface{ Scan(...interface{}) error }) (*model.Seat, error) {
	var s model.Seat
	var passengerID sql.NullInt64
	if err := row.Scan(&s.ID, &s.FlightID, &s.SeatNumber, &s.IsOccupied, &passengerID); err != nil {
		return nil, err
	}
	if passengerID.Valid {
		pid := uint64(passengerID.Int64)
		s.PassengerID = &pid
	}
	return &s, nil
}

const seatColumns = `id, flight_id, seat_number, is_occupied, passenger_id`

// GetByID loads a seat by its primary key. Returns ErrSeatNotFound when absent.
func (r *SeatRepo) GetByID(ctx context.Context, id uint64) (*model.Seat, error) {
	const q = `SELECT ` + seatColumns + ` FROM seats WHERE id = ?`
	s, err := scanSeat(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return s, nil
}

// FindByNumber loads the seat with the given label on a flight.  Seat
// numbers are unique per flight. Returns ErrSeatNotFound when absent.
func (r *SeatRepo) FindByNumber(ctx context.Context, flightID uint64, seatNumber string) (*model.Seat, error) {
	const q = `SELECT ` + seatColumns + ` FROM seats WHERE flight_id = ? AND seat_number = ?`
	s, err := scanSeat(r.db.QueryRowContext(ctx, q, flightID, seatNumber))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return s, nil
}

// FindAnyFree returns one unoccupied seat on the flight.  The pick is
// deterministic (lowest seat number, then lowest id) so concurrent any-seat
// check-ins contend on the same row and resolve through the conditional
// write rather than through storage iteration order.
// Returns ErrNoSeatsAvailable when every seat is taken.
func (r *SeatRepo) FindAnyFree(ctx context.Context, flightID uint64) (*model.Seat, error) {
	const q = `SELECT ` + seatColumns + ` FROM seats
               WHERE flight_id = ? AND is_occupied = 0
               ORDER BY seat_number, id
               LIMIT 1`
	s, err := scanSeat(r.db.QueryRowContext(ctx, q, flightID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoSeatsAvailable
		}
		return nil, err
	}
	return s, nil
}

// GetByFlight retrieves all seats of a flight ordered by seat_number.
func (r *SeatRepo) GetByFlight(ctx context.Context, flightID uint64) ([]model.Seat, error) {
	const q = `SELECT ` + seatColumns + ` FROM seats
               WHERE flight_id = ?
               ORDER BY seat_number, id`
	rows, err := r.db.QueryContext(ctx, q, flightID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Seat
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// OccupyTx conditionally marks a seat occupied by the given passenger within
// the caller's transaction.  The WHERE clause only matches a free seat, so a
// zero row count means another transaction claimed it first; the caller
// receives ErrSeatOccupied and decides whether to retry with a different
// seat or surface the conflict.
func (r *SeatRepo) OccupyTx(ctx context.Context, tx *sql.Tx, seatID, passengerID uint64) error {
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
	return nil
}

// ReleaseTx conditionally clears a seat's occupancy within the caller's
// transaction.  A zero row count means the seat was already free.
func (r *SeatRepo) ReleaseTx(ctx context.Context, tx *sql.Tx, seatID uint64) error {
	const q = `UPDATE seats SET is_occupied = 0, passenger_id = NULL
               WHERE id = ? AND is_occupied = 1`
	res, err := tx.ExecContext(ctx, q, seatID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSeatNotOccupied
	}
	return nil
}
