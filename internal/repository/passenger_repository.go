package repository // repository defines data access for passengers

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"       // errors for sentinel comparisons

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/airport-checkin/internal/model"
)

// mysqlDuplicateEntry is the MySQL error number for a unique key violation.
const mysqlDuplicateEntry = 1062

// PassengerRepo provides methods to work with passengers in the database.
type PassengerRepo struct {
	db *sql.DB
}

// NewPassengerRepo constructs a PassengerRepo with the given DB handle.
func NewPassengerRepo(db *sql.DB) *PassengerRepo {
	return &PassengerRepo{db: db}
}

const passengerColumns = `id, flight_id, full_name, passport_number, is_checked_in, assigned_seat_id`

// scanPassenger scans one passenger row, converting the nullable seat column.
func scanPassenger(row interface{ Scan(...interface{}) error }) (*model.Passenger, error) {
	var p model.Passenger
	var seatID sql.NullInt64
	if err := row.Scan(&p.ID, &p.FlightID, &p.FullName, &p.PassportNumber, &p.IsCheckedIn, &seatID); err != nil {
		return nil, err
	}
	if seatID.Valid {
		sid := uint64(seatID.Int64)
		p.AssignedSeatID = &sid
	}
	return &p, nil
}

// Create inserts a new passenger. Passport numbers carry a unique key; a
// duplicate insert returns ErrDuplicatePassport so handlers can respond 409.
func (r *PassengerRepo) Create(ctx context.Context, p *model.Passenger) error {
	const q = `INSERT INTO passengers (flight_id, full_name, passport_number, is_checked_in)
               VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, p.FlightID, p.FullName, p.PassportNumber, p.IsCheckedIn)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
			return ErrDuplicatePassport
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// FindByPassport loads a passenger by passport number.
// Returns ErrPassengerNotFound when absent.
func (r *PassengerRepo) FindByPassport(ctx context.Context, passport string) (*model.Passenger, error) {
	const q = `SELECT ` + passengerColumns + ` FROM passengers WHERE passport_number = ?`
	p, err := scanPassenger(r.db.QueryRowContext(ctx, q, passport))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPassengerNotFound
		}
		return nil, err
	}
	return p, nil
}

// GetByID loads a passenger by primary key. Returns ErrPassengerNotFound
// when absent.
func (r *PassengerRepo) GetByID(ctx context.Context, id uint64) (*model.Passenger, error) {
	const q = `SELECT ` + passengerColumns + ` FROM passengers WHERE id = ?`
	p, err := scanPassenger(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPassengerNotFound
		}
		return nil, err
	}
	return p, nil
}

// GetByFlight retrieves all passengers booked on a flight.
func (r *PassengerRepo) GetByFlight(ctx context.Context, flightID uint64) ([]model.Passenger, error) {
	const q = `SELECT ` + passengerColumns + ` FROM passengers
               WHERE flight_id = ?
               ORDER BY full_name, id`
	rows, err := r.db.QueryContext(ctx, q, flightID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Passenger
	for rows.Next() {
		p, err := scanPassenger(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// MarkCheckedInTx conditionally sets the check-in flag and assigned seat
// within the caller's transaction.  The WHERE clause only matches a
// passenger who has not checked in yet, so a repeated check-in observes
// ErrAlreadyCheckedIn instead of silently re-linking a seat.
func (r *PassengerRepo) MarkCheckedInTx(ctx context.Context, tx *sql.Tx, passengerID, seatID uint64) error {
	const q = `UPDATE passengers SET is_checked_in = 1, assigned_seat_id = ?
               WHERE id = ? AND is_checked_in = 0`
	res, err := tx.ExecContext(ctx, q, seatID, passengerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAlreadyCheckedIn
	}
	return nil
}

// ClearCheckInTx clears the check-in flag and assigned seat of the
// passenger currently linked to the given seat.  Used on seat release to
// keep the seat/passenger pair bidirectionally consistent.  Matching zero
// rows is not an error: an administratively occupied seat may carry no
// checked-in passenger.
func (r *PassengerRepo) ClearCheckInTx(ctx context.Context, tx *sql.Tx, seatID uint64) error {
	const q = `UPDATE passengers SET is_checked_in = 0, assigned_seat_id = NULL
               WHERE assigned_seat_id = ?`
	_, err := tx.ExecContext(ctx, q, seatID)
	return err
}
